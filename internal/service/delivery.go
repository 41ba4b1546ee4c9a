package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"marketpay/internal/dto"
	"marketpay/internal/model"
	"marketpay/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type DeliveryService interface {
	// Issue mints a single-use bearer token for the product's delivery
	// content, snapshotting name and content at issuance time. It runs
	// inside the caller's transaction so the credential appears atomically
	// with the purchase it belongs to.
	Issue(ctx context.Context, tx *gorm.DB, productID uint, userID *uint) (string, error)
	Resolve(ctx context.Context, token string) (*dto.DeliveryResponse, error)
}

type deliveryServiceImpl struct {
	deliveryRepo repository.DeliveryCredentialRepository
	productRepo  repository.ProductRepository
}

func NewDeliveryService(
	deliveryRepo repository.DeliveryCredentialRepository,
	productRepo repository.ProductRepository,
) DeliveryService {
	return &deliveryServiceImpl{
		deliveryRepo: deliveryRepo,
		productRepo:  productRepo,
	}
}

func (s *deliveryServiceImpl) Issue(ctx context.Context, tx *gorm.DB, productID uint, userID *uint) (string, error) {
	product, err := s.productRepo.FindByIDTx(ctx, tx, productID)
	if err != nil {
		return "", fmt.Errorf("find product: %w", err)
	}

	token, err := newToken()
	if err != nil {
		return "", fmt.Errorf("generate delivery token: %w", err)
	}

	cred := &model.DeliveryCredential{
		Token:           token,
		ProductID:       product.ID,
		ProductName:     product.Name,
		DeliveryContent: product.DeliveryContent,
		UserID:          userID,
	}
	if err := s.deliveryRepo.Create(ctx, tx, cred); err != nil {
		return "", fmt.Errorf("store delivery credential: %w", err)
	}

	return token, nil
}

func (s *deliveryServiceImpl) Resolve(ctx context.Context, token string) (*dto.DeliveryResponse, error) {
	cred, err := s.deliveryRepo.FindByToken(ctx, token)
	if err != nil {
		return nil, err
	}

	resp := &dto.DeliveryResponse{
		ProductID:       cred.ProductID,
		ProductName:     cred.ProductName,
		DeliveryContent: cred.DeliveryContent,
	}

	// Image, price and category come from the live product row when it still
	// exists; the credential stays resolvable either way.
	if product, err := s.productRepo.FindByID(ctx, cred.ProductID); err == nil {
		resp.ProductImage = product.ImageURL
		resp.ProductPrice = formatAmount(product.Price)
		resp.ProductCategory = product.Category
	}

	return resp, nil
}

// newToken returns 32 random bytes hex-encoded, a 64-character opaque bearer
// token with negligible collision probability.
func newToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

// formatAmount renders a minor-unit amount as a fixed-point string, e.g.
// 1500 -> "15.00".
func formatAmount(amount int64) string {
	return decimal.NewFromInt(amount).Div(decimal.NewFromInt(100)).StringFixed(2)
}
