// Package db opens the database and keeps its schema up to date.
package db

import (
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/diewo77/shop-invoices/internal/config"
)

const (
	connectAttempts = 10
	connectDelay    = 2 * time.Second
)

// Open connects to the configured database, retrying postgres while it starts.
func Open(cfg config.DatabaseConfig, log *zap.Logger) (*gorm.DB, error) {
	gcfg := &gorm.Config{Logger: newGormLogger(log, cfg.Debug)}

	var dialector gorm.Dialector
	switch cfg.Driver {
	case "sqlite":
		dialector = sqlite.Open(cfg.SQLitePath)
		log.Info("database", zap.String("driver", "sqlite"), zap.String("path", cfg.SQLitePath))
	case "postgres", "":
		dsn := NormalizeDSN(cfg.DSN())
		if dsn == "" {
			return nil, errors.New("empty database DSN")
		}
		dialector = postgres.Open(dsn)
		log.Info("database", zap.String("driver", "postgres"), zap.String("dsn", MaskDSN(dsn)))
	default:
		return nil, fmt.Errorf("unknown database driver %q", cfg.Driver)
	}

	var gdb *gorm.DB
	var err error
	for i := 0; i < connectAttempts; i++ {
		gdb, err = gorm.Open(dialector, gcfg)
		if err == nil {
			break
		}
		log.Warn("database connection failed, retrying", zap.Int("attempt", i+1), zap.Error(err))
		time.Sleep(connectDelay)
	}
	if err != nil {
		return nil, fmt.Errorf("connect database after %d attempts: %w", connectAttempts, err)
	}
	if err := Ping(gdb); err != nil {
		return nil, err
	}
	return gdb, nil
}

// Ping runs a trivial query.
func Ping(gdb *gorm.DB) error {
	if err := gdb.Exec("SELECT 1").Error; err != nil {
		return fmt.Errorf("db ping: %w", err)
	}
	return nil
}

func newGormLogger(log *zap.Logger, debug bool) gormlogger.Interface {
	level := gormlogger.Warn
	if debug {
		level = gormlogger.Info
	}
	return gormlogger.New(zap.NewStdLog(log.Named("gorm")), gormlogger.Config{
		SlowThreshold:             500 * time.Millisecond,
		LogLevel:                  level,
		IgnoreRecordNotFoundError: true,
	})
}
