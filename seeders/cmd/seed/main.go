package main

import (
	"context"
	"flag"
	"log"

	"equipment-tracker/pkg/config"
	"equipment-tracker/pkg/database/postgresql"
	applogger "equipment-tracker/pkg/logger"
	"equipment-tracker/seeders"
)

func main() {
	log.Println("======================================================")
	log.Println("       🌱 СИСТЕМА СИДЕРОВ (Наполнение БД)           ")
	log.Println("======================================================")

	runDictionaries := flag.Bool("dictionaries", false, "Типы оборудования с чек-листами, компании, проекты")
	runAdmin := flag.Bool("admin", false, "Создать или обновить администратора (ADMIN_EMAIL / ADMIN_PASSWORD)")
	runEquipment := flag.Bool("equipment", false, "Демонстрационное оборудование")
	runAll := flag.Bool("all", false, "Запустить все сидеры (эквивалентно -dictionaries -admin -equipment)")

	flag.Parse()

	if !*runDictionaries && !*runAdmin && !*runEquipment && !*runAll {
		log.Println("❌ Не выбран ни один сидер для запуска.")
		log.Println("")
		log.Println("Доступные флаги:")
		flag.PrintDefaults()
		log.Println("")
		log.Println("Примеры использования:")
		log.Println("  go run ./seeders/cmd/seed -dictionaries -admin")
		log.Println("  go run ./seeders/cmd/seed -all")
		log.Println("======================================================")
		return
	}

	ctx := context.Background()
	cfg := config.New()
	logger := applogger.NewLogger("seed")
	dbPool, err := postgresql.ConnectDB(ctx, cfg.Postgres.DSN, logger)
	if err != nil {
		log.Fatalf("❌ Не удалось подключиться к БД: %v", err)
	}
	defer dbPool.Close()

	if err := postgresql.Migrate(ctx, dbPool, logger); err != nil {
		log.Fatalf("❌ Не удалось применить миграции: %v", err)
	}

	log.Println("======================================================")

	if *runAll || *runDictionaries {
		seeders.SeedDictionaries(ctx, dbPool)
		log.Println("======================================================")
	}
	if *runAll || *runAdmin {
		seeders.SeedAdmin(ctx, dbPool, cfg)
		log.Println("======================================================")
	}
	if *runAll || *runEquipment {
		seeders.SeedDemoEquipment(ctx, dbPool)
		log.Println("======================================================")
	}

	log.Println("✅ Все указанные операции сидирования успешно завершены.")
	log.Println("======================================================")
}
