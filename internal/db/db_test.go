package db

import (
	"fmt"
	"io/fs"
	"testing"

	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/diewo77/shop-invoices/internal/config"
)

func TestMigrateSQLite(t *testing.T) {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	cfg := config.DatabaseConfig{Driver: "sqlite"}
	// sql migrations are postgres only; sqlite always uses AutoMigrate
	if err := Migrate(gdb, cfg, true, zap.NewNop()); err != nil {
		t.Fatalf("Migrate: %v", err)
	}
	// second run is a no-op
	if err := Migrate(gdb, cfg, false, zap.NewNop()); err != nil {
		t.Fatalf("Migrate again: %v", err)
	}
	for _, table := range requiredTables {
		if !gdb.Migrator().HasTable(table) {
			t.Errorf("missing table %s", table)
		}
	}
	if err := Ping(gdb); err != nil {
		t.Fatalf("Ping: %v", err)
	}
}

func TestOpenSQLiteFile(t *testing.T) {
	cfg := config.DatabaseConfig{Driver: "sqlite", SQLitePath: t.TempDir() + "/test.db"}
	gdb, err := Open(cfg, zap.NewNop())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := AutoMigrate(gdb); err != nil {
		t.Fatalf("AutoMigrate: %v", err)
	}
}

func TestOpenUnknownDriver(t *testing.T) {
	if _, err := Open(config.DatabaseConfig{Driver: "oracle"}, zap.NewNop()); err == nil {
		t.Fatalf("expected error")
	}
}

func TestEmbeddedMigrationsArePaired(t *testing.T) {
	ups, _ := fs.Glob(migrationsFS, "migrations/*.up.sql")
	downs, _ := fs.Glob(migrationsFS, "migrations/*.down.sql")
	if len(ups) == 0 || len(ups) != len(downs) {
		t.Fatalf("up=%d down=%d", len(ups), len(downs))
	}
}

func TestNormalizeDSN(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"", ""},
		{`  "postgres://u:p@h/db"  `, "postgres://u:p@h/db"},
		{"host=h   user=u dbname=d", "host=h user=u dbname=d sslmode=disable"},
		{"host=h user=u dbname=d sslmode=require", "host=h user=u dbname=d sslmode=require"},
		{"garbage", "garbage"},
	}
	for _, tt := range tests {
		if got := NormalizeDSN(tt.in); got != tt.want {
			t.Errorf("NormalizeDSN(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestToURLDSN(t *testing.T) {
	got := ToURLDSN("host=db port=5432 user=u password=p dbname=shop sslmode=disable")
	if got != "postgres://u:p@db:5432/shop?sslmode=disable" {
		t.Errorf("ToURLDSN = %q", got)
	}
	if ToURLDSN("host=db") != "host=db" {
		t.Errorf("incomplete DSN must be returned as is")
	}
}

func TestMaskDSN(t *testing.T) {
	if got := MaskDSN("host=db password=secret user=u"); got != "host=db password=*** user=u" {
		t.Errorf("MaskDSN kv = %q", got)
	}
	if got := MaskDSN("postgres://u:secret@db:5432/x"); got != "postgres://u:***@db:5432/x" {
		t.Errorf("MaskDSN url = %q", got)
	}
}
