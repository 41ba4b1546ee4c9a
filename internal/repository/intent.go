package repository

import (
	"context"
	"errors"
	"marketpay/internal/model"
	"time"

	"gorm.io/gorm"
)

type PaymentIntentRepository interface {
	Create(ctx context.Context, intent *model.PaymentIntent) error
	FindByTransactionID(ctx context.Context, gatewayTxID string) (*model.PaymentIntent, error)
	// ConfirmPending flips PENDING -> CONFIRMED for the given gateway
	// transaction id as a single conditional update. It reports whether this
	// caller made the transition; under a webhook/poll race exactly one
	// caller sees true and only that caller may apply the ledger effect.
	ConfirmPending(ctx context.Context, tx *gorm.DB, gatewayTxID string) (*model.PaymentIntent, bool, error)
	// CancelPending marks a PENDING intent terminal with the same guard, so
	// a later CONFIRMED observation for a canceled transaction is a no-op.
	CancelPending(ctx context.Context, gatewayTxID string) (bool, error)
	FindLatestPendingByUser(ctx context.Context, userID uint) (*model.PaymentIntent, error)
	FindLatestConfirmedProductByUser(ctx context.Context, userID uint, since time.Time) (*model.PaymentIntent, error)
}

type intentRepoImpl struct {
	db *gorm.DB
}

func NewPaymentIntentRepository(db *gorm.DB) PaymentIntentRepository {
	return &intentRepoImpl{
		db: db,
	}
}

func (r *intentRepoImpl) Create(ctx context.Context, intent *model.PaymentIntent) error {
	return r.db.WithContext(ctx).Create(intent).Error
}

func (r *intentRepoImpl) FindByTransactionID(ctx context.Context, gatewayTxID string) (*model.PaymentIntent, error) {
	var intent model.PaymentIntent
	err := r.db.WithContext(ctx).
		Where("gateway_transaction_id = ?", gatewayTxID).
		First(&intent).Error

	if err != nil {
		return nil, err
	}

	return &intent, nil
}

func (r *intentRepoImpl) ConfirmPending(ctx context.Context, tx *gorm.DB, gatewayTxID string) (*model.PaymentIntent, bool, error) {
	result := tx.WithContext(ctx).Model(&model.PaymentIntent{}).
		Where("gateway_transaction_id = ? AND status = ?", gatewayTxID, model.IntentStatusPending).
		Updates(map[string]interface{}{
			"status":     model.IntentStatusConfirmed,
			"updated_at": time.Now(),
		})

	if result.Error != nil {
		return nil, false, result.Error
	}
	if result.RowsAffected == 0 {
		// Already confirmed, canceled, or never tracked locally.
		return nil, false, nil
	}

	// Fetch the updated row within the same transaction
	var intent model.PaymentIntent
	err := tx.WithContext(ctx).
		Where("gateway_transaction_id = ?", gatewayTxID).
		First(&intent).Error
	if err != nil {
		return nil, false, err
	}

	return &intent, true, nil
}

func (r *intentRepoImpl) CancelPending(ctx context.Context, gatewayTxID string) (bool, error) {
	result := r.db.WithContext(ctx).Model(&model.PaymentIntent{}).
		Where("gateway_transaction_id = ? AND status = ?", gatewayTxID, model.IntentStatusPending).
		Updates(map[string]interface{}{
			"status":     model.IntentStatusCanceled,
			"updated_at": time.Now(),
		})

	if result.Error != nil {
		return false, result.Error
	}

	return result.RowsAffected > 0, nil
}

func (r *intentRepoImpl) FindLatestPendingByUser(ctx context.Context, userID uint) (*model.PaymentIntent, error) {
	var intent model.PaymentIntent
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND status = ?", userID, model.IntentStatusPending).
		Order("id DESC").
		First(&intent).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &intent, nil
}

func (r *intentRepoImpl) FindLatestConfirmedProductByUser(ctx context.Context, userID uint, since time.Time) (*model.PaymentIntent, error) {
	var intent model.PaymentIntent
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND status = ? AND product_id IS NOT NULL AND updated_at >= ?",
			userID, model.IntentStatusConfirmed, since).
		Order("id DESC").
		First(&intent).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &intent, nil
}
