package seeders

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"equipment-tracker/internal/authz"
	"equipment-tracker/internal/entities"
	"equipment-tracker/internal/repositories"
	"equipment-tracker/pkg/config"
	"equipment-tracker/pkg/utils"
)

func seedAdmin(ctx context.Context, db *pgxpool.Pool, cfg config.SeedConfig) error {
	email := strings.ToLower(strings.TrimSpace(cfg.AdminEmail))
	log.Printf("  - Создание администратора %s...", email)

	if len(cfg.AdminPassword) < 6 {
		return fmt.Errorf("пароль администратора короче 6 символов")
	}
	hash, err := utils.HashPassword(cfg.AdminPassword)
	if err != nil {
		return err
	}

	id, err := repositories.NewProfileRepository(db).Upsert(ctx, nil, entities.Profile{
		Email:        email,
		PasswordHash: hash,
		FullName:     cfg.AdminFullName,
		Role:         authz.RoleAdmin.String(),
	})
	if err != nil {
		return err
	}
	log.Printf("    - Администратор записан, ID: %d", id)
	return nil
}
