package db

import (
	"embed"
	"errors"
	"fmt"

	migrate "github.com/golang-migrate/migrate/v4"
	// Registers the postgres driver for golang-migrate.
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/diewo77/shop-invoices/internal/config"
	"github.com/diewo77/shop-invoices/internal/models"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Tables that must exist once migrations ran.
var requiredTables = []string{"shop_settings", "banner_configs", "shop_sessions"}

// Migrate brings the schema up to date. With MIGRATIONS=1 on postgres the
// embedded SQL files run through golang-migrate, otherwise gorm AutoMigrate.
func Migrate(gdb *gorm.DB, cfg config.DatabaseConfig, sqlMigrations bool, log *zap.Logger) error {
	if sqlMigrations && cfg.Driver != "sqlite" {
		log.Info("running sql migrations")
		if err := runSQLMigrations(ToURLDSN(NormalizeDSN(cfg.DSN()))); err != nil {
			return fmt.Errorf("sql migrations: %w", err)
		}
	} else if err := AutoMigrate(gdb); err != nil {
		return err
	}
	for _, table := range requiredTables {
		if !gdb.Migrator().HasTable(table) {
			return errors.New("missing table after migration: " + table)
		}
	}
	return nil
}

// AutoMigrate creates or alters the tables from the gorm models.
func AutoMigrate(gdb *gorm.DB) error {
	for _, m := range []any{&models.ShopSettings{}, &models.BannerConfig{}, &models.ShopSession{}} {
		if err := gdb.AutoMigrate(m); err != nil {
			return fmt.Errorf("automigrate %T: %w", m, err)
		}
	}
	return nil
}

func runSQLMigrations(url string) error {
	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return err
	}
	m, err := migrate.NewWithSourceInstance("iofs", src, url)
	if err != nil {
		return err
	}
	defer m.Close()
	if err = m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}
	return nil
}
