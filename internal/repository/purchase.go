package repository

import (
	"context"
	"marketpay/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PurchaseRepository interface {
	Create(ctx context.Context, tx *gorm.DB, purchase *model.Purchase) error
	ListByUser(ctx context.Context, userID uint) ([]*model.Purchase, error)
	CountByUserProduct(ctx context.Context, userID, productID uint) (int64, error)
}

type purchaseRepoImpl struct {
	db *gorm.DB
}

func NewPurchaseRepository(db *gorm.DB) PurchaseRepository {
	return &purchaseRepoImpl{
		db: db,
	}
}

func (r *purchaseRepoImpl) Create(ctx context.Context, tx *gorm.DB, purchase *model.Purchase) error {
	if purchase.ID == "" {
		purchase.ID = uuid.NewString()
	}
	return tx.WithContext(ctx).Create(purchase).Error
}

func (r *purchaseRepoImpl) ListByUser(ctx context.Context, userID uint) ([]*model.Purchase, error) {
	var purchases []*model.Purchase
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&purchases).Error

	if err != nil {
		return nil, err
	}

	return purchases, nil
}

func (r *purchaseRepoImpl) CountByUserProduct(ctx context.Context, userID, productID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Purchase{}).
		Where("user_id = ? AND product_id = ?", userID, productID).
		Count(&count).Error

	return count, err
}
