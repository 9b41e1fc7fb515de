package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"strings"

	"equipment-tracker/internal/authz"
	"equipment-tracker/internal/entities"
	"equipment-tracker/internal/repositories"
	"equipment-tracker/pkg/config"
	"equipment-tracker/pkg/database/postgresql"
	applogger "equipment-tracker/pkg/logger"
	"equipment-tracker/pkg/utils"
)

// Создаёт или обновляет учётную запись сотрудника:
//
//	go run ./cmd/profile -email inspector@shipyard.local -password secret1 -name "Иван Петров" -role inspector
func main() {
	email := flag.String("email", "", "Email (логин)")
	password := flag.String("password", "", "Пароль, не короче 6 символов")
	fullName := flag.String("name", "", "ФИО")
	roleName := flag.String("role", authz.RoleInspector.String(), "Роль: admin или inspector")
	companyID := flag.Uint64("company", 0, "ID компании (необязательно)")
	hashOnly := flag.Bool("hash", false, "Только напечатать bcrypt-хеш пароля")
	flag.Parse()

	hash, err := utils.HashPassword(*password)
	if err != nil {
		log.Fatalf("❌ Ошибка при генерации хеша: %v", err)
	}
	if *hashOnly {
		fmt.Println(hash)
		return
	}

	role, err := authz.ParseRole(*roleName)
	if err != nil || role == authz.RoleGuest {
		log.Fatalf("❌ Недопустимая роль %q", *roleName)
	}
	if strings.TrimSpace(*email) == "" || strings.TrimSpace(*fullName) == "" {
		log.Fatal("❌ Нужны -email и -name")
	}

	ctx := context.Background()
	cfg := config.New()
	pool, err := postgresql.ConnectDB(ctx, cfg.Postgres.DSN, applogger.NewLogger("profile"))
	if err != nil {
		log.Fatalf("❌ Не удалось подключиться к БД: %v", err)
	}
	defer pool.Close()

	profile := entities.Profile{
		Email:        strings.ToLower(strings.TrimSpace(*email)),
		PasswordHash: hash,
		FullName:     strings.TrimSpace(*fullName),
		Role:         role.String(),
	}
	if *companyID > 0 {
		profile.CompanyID = companyID
	}

	id, err := repositories.NewProfileRepository(pool).Upsert(ctx, nil, profile)
	if err != nil {
		log.Fatalf("❌ Профиль не сохранён: %v", err)
	}
	log.Printf("✅ Профиль %s (%s) сохранён, ID: %d", profile.Email, profile.Role, id)
}
