package repository

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"marketpay/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)

	require.NoError(t, db.AutoMigrate(&model.PaymentIntent{}, &model.User{}))
	return db
}

func TestConfirmPendingFlipsExactlyOnce(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	repo := NewPaymentIntentRepository(db)

	require.NoError(t, repo.Create(ctx, &model.PaymentIntent{
		UserID:               1,
		Amount:               500,
		GatewayTransactionID: "tx-1",
		Status:               model.IntentStatusPending,
	}))

	intent, flipped, err := repo.ConfirmPending(ctx, db, "tx-1")
	require.NoError(t, err)
	require.True(t, flipped)
	assert.Equal(t, model.IntentStatusConfirmed, intent.Status)
	assert.Equal(t, int64(500), intent.Amount)

	// second attempt sees no PENDING row
	intent, flipped, err = repo.ConfirmPending(ctx, db, "tx-1")
	require.NoError(t, err)
	assert.False(t, flipped)
	assert.Nil(t, intent)
}

func TestConfirmPendingUnknownTransaction(t *testing.T) {
	db := newTestDB(t)
	repo := NewPaymentIntentRepository(db)

	intent, flipped, err := repo.ConfirmPending(context.Background(), db, "never-seen")
	require.NoError(t, err)
	assert.False(t, flipped)
	assert.Nil(t, intent)
}

func TestCancelPendingBlocksConfirmation(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	repo := NewPaymentIntentRepository(db)

	require.NoError(t, repo.Create(ctx, &model.PaymentIntent{
		UserID:               1,
		Amount:               500,
		GatewayTransactionID: "tx-1",
		Status:               model.IntentStatusPending,
	}))

	canceled, err := repo.CancelPending(ctx, "tx-1")
	require.NoError(t, err)
	assert.True(t, canceled)

	_, flipped, err := repo.ConfirmPending(ctx, db, "tx-1")
	require.NoError(t, err)
	assert.False(t, flipped)

	// canceling twice is inert too
	canceled, err = repo.CancelPending(ctx, "tx-1")
	require.NoError(t, err)
	assert.False(t, canceled)
}

func TestFindLatestPendingByUser(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	repo := NewPaymentIntentRepository(db)

	intent, err := repo.FindLatestPendingByUser(ctx, 1)
	require.NoError(t, err)
	assert.Nil(t, intent)

	require.NoError(t, repo.Create(ctx, &model.PaymentIntent{
		UserID: 1, Amount: 100, GatewayTransactionID: "tx-old", Status: model.IntentStatusPending,
	}))
	require.NoError(t, repo.Create(ctx, &model.PaymentIntent{
		UserID: 1, Amount: 200, GatewayTransactionID: "tx-new", Status: model.IntentStatusPending,
	}))
	require.NoError(t, repo.Create(ctx, &model.PaymentIntent{
		UserID: 2, Amount: 300, GatewayTransactionID: "tx-other", Status: model.IntentStatusPending,
	}))

	intent, err = repo.FindLatestPendingByUser(ctx, 1)
	require.NoError(t, err)
	require.NotNil(t, intent)
	assert.Equal(t, "tx-new", intent.GatewayTransactionID)
}

func TestFindLatestConfirmedProductByUser(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	repo := NewPaymentIntentRepository(db)

	productID := uint(3)
	require.NoError(t, repo.Create(ctx, &model.PaymentIntent{
		UserID: 1, Amount: 300, GatewayTransactionID: "tx-1",
		ProductID: &productID, Status: model.IntentStatusPending,
	}))

	since := time.Now().Add(-time.Hour)

	// still pending: not returned
	intent, err := repo.FindLatestConfirmedProductByUser(ctx, 1, since)
	require.NoError(t, err)
	assert.Nil(t, intent)

	_, flipped, err := repo.ConfirmPending(ctx, db, "tx-1")
	require.NoError(t, err)
	require.True(t, flipped)

	intent, err = repo.FindLatestConfirmedProductByUser(ctx, 1, since)
	require.NoError(t, err)
	require.NotNil(t, intent)
	assert.Equal(t, "tx-1", intent.GatewayTransactionID)

	// outside the window: not returned
	intent, err = repo.FindLatestConfirmedProductByUser(ctx, 1, time.Now().Add(time.Minute))
	require.NoError(t, err)
	assert.Nil(t, intent)
}
