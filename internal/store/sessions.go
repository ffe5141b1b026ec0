package store

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/diewo77/shop-invoices/internal/models"
)

// ErrNoSession is returned when a shop has no stored access token.
var ErrNoSession = errors.New("no_shop_session")

// SessionStore keeps the offline Admin API token of each installed shop.
type SessionStore struct{ DB *gorm.DB }

func NewSessionStore(db *gorm.DB) *SessionStore { return &SessionStore{DB: db} }

// Get returns the shop's session, or nil.
func (s *SessionStore) Get(ctx context.Context, shop string) (*models.ShopSession, error) {
	return getByShop[models.ShopSession](ctx, s.DB, shop)
}

// Save stores the token obtained at install time.
func (s *SessionStore) Save(ctx context.Context, shop, token, scope string) (*models.ShopSession, error) {
	if token == "" {
		return nil, errors.New("empty access token")
	}
	return upsertByShop(ctx, s.DB, shop, &models.ShopSession{Shop: shop, AccessToken: token, Scope: scope})
}

// AccessToken returns the stored token or ErrNoSession.
func (s *SessionStore) AccessToken(ctx context.Context, shop string) (string, error) {
	sess, err := s.Get(ctx, shop)
	if err != nil {
		return "", err
	}
	if sess == nil {
		return "", ErrNoSession
	}
	return sess.AccessToken, nil
}
