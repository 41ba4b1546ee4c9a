package repository

import (
	"context"
	"errors"
	"marketpay/internal/model"

	"gorm.io/gorm"
)

type DeliveryCredentialRepository interface {
	Create(ctx context.Context, tx *gorm.DB, cred *model.DeliveryCredential) error
	FindByToken(ctx context.Context, token string) (*model.DeliveryCredential, error)
	FindLatestForUserProduct(ctx context.Context, userID, productID uint) (*model.DeliveryCredential, error)
}

type deliveryCredentialRepoImpl struct {
	db *gorm.DB
}

func NewDeliveryCredentialRepository(db *gorm.DB) DeliveryCredentialRepository {
	return &deliveryCredentialRepoImpl{
		db: db,
	}
}

func (r *deliveryCredentialRepoImpl) Create(ctx context.Context, tx *gorm.DB, cred *model.DeliveryCredential) error {
	return tx.WithContext(ctx).Create(cred).Error
}

func (r *deliveryCredentialRepoImpl) FindByToken(ctx context.Context, token string) (*model.DeliveryCredential, error) {
	var cred model.DeliveryCredential
	err := r.db.WithContext(ctx).
		Where("token = ?", token).
		First(&cred).Error

	if err != nil {
		return nil, err
	}

	return &cred, nil
}

func (r *deliveryCredentialRepoImpl) FindLatestForUserProduct(ctx context.Context, userID, productID uint) (*model.DeliveryCredential, error) {
	var cred model.DeliveryCredential
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND product_id = ?", userID, productID).
		Order("created_at DESC").
		First(&cred).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &cred, nil
}
