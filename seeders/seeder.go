package seeders

import (
	"context"
	"log"

	"github.com/jackc/pgx/v5/pgxpool"

	"equipment-tracker/pkg/config"
)

// SeedDictionaries наполняет справочники: типы оборудования с чек-листами,
// компании и проекты. Повторный запуск ничего не дублирует.
func SeedDictionaries(ctx context.Context, db *pgxpool.Pool) {
	log.Println("▶️  Запуск наполнения справочников...")

	if err := seedEquipmentTypes(ctx, db); err != nil {
		log.Fatalf("❌ Ошибка наполнения типов оборудования: %v", err)
	}
	if err := seedCompaniesAndProjects(ctx, db); err != nil {
		log.Fatalf("❌ Ошибка наполнения компаний и проектов: %v", err)
	}
	log.Println("✅ Наполнение справочников завершено!")
}

// SeedAdmin создаёт или обновляет учётную запись администратора из конфига.
func SeedAdmin(ctx context.Context, db *pgxpool.Pool, cfg *config.Config) {
	log.Println("▶️  Запуск создания администратора...")
	if err := seedAdmin(ctx, db, cfg.Seed); err != nil {
		log.Fatalf("❌ Ошибка создания администратора: %v", err)
	}
	log.Println("✅ Администратор готов!")
}

// SeedDemoEquipment добавляет демонстрационное оборудование. Требует справочников.
func SeedDemoEquipment(ctx context.Context, db *pgxpool.Pool) {
	log.Println("▶️  Запуск наполнения демо-оборудования...")
	if err := seedEquipment(ctx, db); err != nil {
		log.Fatalf("❌ Ошибка наполнения оборудования: %v", err)
	}
	log.Println("✅ Демо-оборудование добавлено!")
}
