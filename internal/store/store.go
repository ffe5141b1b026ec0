// Package store persists the per-shop records. Every table holds at most one
// row per shop and saves are last-write-wins upserts.
package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrMissingShop is returned when a call is made without a shop domain.
var ErrMissingShop = errors.New("missing_shop")

func getByShop[T any](ctx context.Context, db *gorm.DB, shop string) (*T, error) {
	if strings.TrimSpace(shop) == "" {
		return nil, ErrMissingShop
	}
	var out T
	err := db.WithContext(ctx).Where("shop = ?", shop).First(&out).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get %T for %s: %w", out, shop, err)
	}
	return &out, nil
}

// upsertByShop inserts row or, when the shop already has one, overwrites every
// column but the primary key and created_at. The stored row is read back.
func upsertByShop[T any](ctx context.Context, db *gorm.DB, shop string, row *T) (*T, error) {
	if strings.TrimSpace(shop) == "" {
		return nil, ErrMissingShop
	}
	err := db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "shop"}},
		UpdateAll: true,
	}).Create(row).Error
	if err != nil {
		return nil, fmt.Errorf("upsert %T for %s: %w", row, shop, err)
	}
	return getByShop[T](ctx, db, shop)
}
