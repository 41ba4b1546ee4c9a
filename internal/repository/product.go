package repository

import (
	"context"
	"marketpay/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProductRepository interface {
	Seed(ctx context.Context) error
	FindByID(ctx context.Context, productID uint) (*model.Product, error)
	// FindByIDTx reads through the given transaction so fulfillment sees the
	// product row as of confirmation time, not intent-creation time.
	FindByIDTx(ctx context.Context, tx *gorm.DB, productID uint) (*model.Product, error)
	List(ctx context.Context) ([]*model.Product, error)
}

type productRepoImpl struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) ProductRepository {
	return &productRepoImpl{
		db: db,
	}
}

func (r *productRepoImpl) Seed(ctx context.Context) error {
	products := []model.Product{
		{ID: 1, Name: "Starter Pack", Description: "Digital starter bundle", Category: "bundles", Price: 300, DeliveryContent: "https://cdn.example.com/starter-pack.zip"},
		{ID: 2, Name: "Pro Pack", Description: "Everything in Starter plus extras", Category: "bundles", Price: 900, DeliveryContent: "https://cdn.example.com/pro-pack.zip"},
		{ID: 3, Name: "License Key", Description: "Single-seat license", Category: "licenses", Price: 1500, DeliveryContent: "LICENSE-XXXX-YYYY"},
	}

	return r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&products).Error
}

func (r *productRepoImpl) FindByID(ctx context.Context, productID uint) (*model.Product, error) {
	return r.find(ctx, r.db, productID)
}

func (r *productRepoImpl) FindByIDTx(ctx context.Context, tx *gorm.DB, productID uint) (*model.Product, error) {
	return r.find(ctx, tx, productID)
}

func (r *productRepoImpl) find(ctx context.Context, db *gorm.DB, productID uint) (*model.Product, error) {
	var product model.Product
	err := db.WithContext(ctx).
		Where("id = ?", productID).
		First(&product).Error

	if err != nil {
		return nil, err
	}

	return &product, nil
}

func (r *productRepoImpl) List(ctx context.Context) ([]*model.Product, error) {
	var products []*model.Product
	err := r.db.WithContext(ctx).
		Order("id").
		Find(&products).Error

	if err != nil {
		return nil, err
	}

	return products, nil
}
