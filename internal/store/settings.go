package store

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/diewo77/shop-invoices/internal/models"
)

// SettingsStore reads and writes ShopSettings.
type SettingsStore struct{ DB *gorm.DB }

func NewSettingsStore(db *gorm.DB) *SettingsStore { return &SettingsStore{DB: db} }

// Get returns the shop's settings, or nil when it never saved any.
func (s *SettingsStore) Get(ctx context.Context, shop string) (*models.ShopSettings, error) {
	return getByShop[models.ShopSettings](ctx, s.DB, shop)
}

// Upsert stores in as the shop's settings.
func (s *SettingsStore) Upsert(ctx context.Context, shop string, in models.ShopSettings) (*models.ShopSettings, error) {
	in.ID = 0
	in.Shop = shop
	in.CreatedAt = time.Time{}
	in.UpdatedAt = time.Time{}
	return upsertByShop(ctx, s.DB, shop, &in)
}
