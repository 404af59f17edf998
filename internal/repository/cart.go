package repository

import (
	"context"
	"errors"
	"time"

	"storefront-api/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CartRepository interface {
	Get(ctx context.Context, userID string) (*model.Cart, error)
	Upsert(ctx context.Context, cart *model.Cart) error
	Clear(ctx context.Context, userID string) error
}

type cartRepoImpl struct {
	db *gorm.DB
}

func NewCartRepository(db *gorm.DB) CartRepository {
	return &cartRepoImpl{
		db: db,
	}
}

// Get returns nil, nil when the user has no mirrored cart yet.
func (r *cartRepoImpl) Get(ctx context.Context, userID string) (*model.Cart, error) {
	var cart model.Cart
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		First(&cart).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &cart, nil
}

// Upsert is last-write-wins: a concurrent browser write and a webhook clear
// both land here unconditionally.
func (r *cartRepoImpl) Upsert(ctx context.Context, cart *model.Cart) error {
	cart.UpdatedAt = time.Now()
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			UpdateAll: true,
		}).
		Create(cart).Error
}

func (r *cartRepoImpl) Clear(ctx context.Context, userID string) error {
	return r.db.WithContext(ctx).Model(&model.Cart{}).
		Where("user_id = ?", userID).
		Updates(map[string]interface{}{
			"items":      "[]",
			"updated_at": time.Now(),
		}).Error
}
