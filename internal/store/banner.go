package store

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/diewo77/shop-invoices/internal/models"
)

// BannerStore reads and writes BannerConfig.
type BannerStore struct{ DB *gorm.DB }

func NewBannerStore(db *gorm.DB) *BannerStore { return &BannerStore{DB: db} }

// Get returns the shop's banner, or nil when it never saved one.
func (s *BannerStore) Get(ctx context.Context, shop string) (*models.BannerConfig, error) {
	return getByShop[models.BannerConfig](ctx, s.DB, shop)
}

// Upsert stores in as the shop's banner.
func (s *BannerStore) Upsert(ctx context.Context, shop string, in models.BannerConfig) (*models.BannerConfig, error) {
	in.ID = 0
	in.Shop = shop
	in.CreatedAt = time.Time{}
	in.UpdatedAt = time.Time{}
	return upsertByShop(ctx, s.DB, shop, &in)
}
