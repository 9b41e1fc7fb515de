package main

import (
	"context"
	"flag"

	"go.uber.org/zap"

	"equipment-tracker/pkg/config"
	"equipment-tracker/pkg/database/postgresql"
	applogger "equipment-tracker/pkg/logger"
)

func main() {
	down := flag.Bool("down", false, "Откатить последнюю миграцию вместо применения новых")
	flag.Parse()

	ctx := context.Background()
	cfg := config.New()
	logger := applogger.NewLogger("migrate")
	defer logger.Sync()

	pool, err := postgresql.ConnectDB(ctx, cfg.Postgres.DSN, logger)
	if err != nil {
		logger.Fatal("не удалось подключиться к PostgreSQL", zap.Error(err))
	}
	defer pool.Close()

	if *down {
		err = postgresql.MigrateDown(ctx, pool, logger)
	} else {
		err = postgresql.Migrate(ctx, pool, logger)
	}
	if err != nil {
		logger.Fatal("миграция не выполнена", zap.Error(err))
	}
	logger.Info("Миграции выполнены")
}
