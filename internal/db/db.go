package db

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/pressly/goose/v3"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"recetas-api/internal/db/migrations"
	"recetas-api/internal/logging"
)

// Open connects gorm to dialector with the settings shared by every
// environment.
func Open(dialector gorm.Dialector) (*gorm.DB, error) {
	return gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
		TranslateError:         true,
		Logger:                 logger.Default.LogMode(logger.Warn),
	})
}

// Init opens the postgres database at dsn and applies pending migrations.
func Init(ctx context.Context, dsn string, log *slog.Logger) (*gorm.DB, error) {
	return initWith(ctx, postgres.Open(dsn), log)
}

// initWith releases the pool again when the database cannot be made ready.
func initWith(ctx context.Context, dialector gorm.Dialector, log *slog.Logger) (*gorm.DB, error) {
	const op = "db.Init"

	gdb, err := Open(dialector)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := prepare(ctx, gdb); err != nil {
		if cerr := Close(gdb); cerr != nil {
			log.Warn("closing database after failed init", logging.Err(cerr))
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	log.Info("database ready")
	return gdb, nil
}

func prepare(ctx context.Context, gdb *gorm.DB) error {
	sqlDB, err := gdb.DB()
	if err != nil {
		return err
	}
	sqlDB.SetMaxOpenConns(20)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := sqlDB.PingContext(pingCtx); err != nil {
		return fmt.Errorf("ping: %w", err)
	}

	goose.SetBaseFS(migrations.FS)
	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}
	if err := goose.UpContext(ctx, sqlDB, "."); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

// Close releases the pool behind gdb.
func Close(gdb *gorm.DB) error {
	sqlDB, err := gdb.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
