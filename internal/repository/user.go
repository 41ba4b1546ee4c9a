package repository

import (
	"context"
	"marketpay/internal/model"

	"gorm.io/gorm"
)

type UserRepository interface {
	FindByID(ctx context.Context, userID uint) (*model.User, error)
	FindAdmins(ctx context.Context) ([]*model.User, error)
	// AddBalance atomically increments the user's balance. This is the only
	// balance mutation the payment core performs; a read-modify-write here
	// would lose updates under concurrent top-ups.
	AddBalance(ctx context.Context, tx *gorm.DB, userID uint, amount int64) error
}

type userRepoImpl struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepoImpl{
		db: db,
	}
}

func (r *userRepoImpl) FindByID(ctx context.Context, userID uint) (*model.User, error) {
	var user model.User
	err := r.db.WithContext(ctx).
		Where("id = ?", userID).
		First(&user).Error

	if err != nil {
		return nil, err
	}

	return &user, nil
}

func (r *userRepoImpl) FindAdmins(ctx context.Context) ([]*model.User, error) {
	var admins []*model.User
	err := r.db.WithContext(ctx).
		Where("is_admin = ?", true).
		Find(&admins).Error

	if err != nil {
		return nil, err
	}

	return admins, nil
}

func (r *userRepoImpl) AddBalance(ctx context.Context, tx *gorm.DB, userID uint, amount int64) error {
	result := tx.WithContext(ctx).Model(&model.User{}).
		Where("id = ?", userID).
		Update("balance", gorm.Expr("balance + ?", amount))

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}
