package service

import (
	"context"
	"testing"

	"marketpay/internal/config"
	"marketpay/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSettingsFallBackToEnv(t *testing.T) {
	db := newTestDB(t)
	settingRepo := repository.NewSettingRepository(db)

	resolve := NewGatewaySettingsResolver(settingRepo, &config.Gateway{
		BaseURL:    "https://env.gateway",
		MerchantID: "env-merchant",
		Secret:     "env-secret",
		Currency:   "USD",
		MinTopup:   100,
	})

	settings, err := resolve(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "https://env.gateway", settings.BaseURL)
	assert.Equal(t, "env-merchant", settings.MerchantID)
	assert.Equal(t, int64(100), settings.MinTopup)
	assert.False(t, settings.DemoMode)
	assert.True(t, settings.Configured())
}

func TestSettingsStoreOverridesEnvWithoutRestart(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	settingRepo := repository.NewSettingRepository(db)

	resolve := NewGatewaySettingsResolver(settingRepo, &config.Gateway{
		BaseURL:    "https://env.gateway",
		MerchantID: "env-merchant",
		Secret:     "env-secret",
		Currency:   "USD",
		MinTopup:   100,
	})

	// rotate credentials and flip demo mode through the store; the same
	// resolver must observe them on the very next call
	require.NoError(t, settingRepo.Set(ctx, SettingGatewayMerchantID, "rotated-merchant"))
	require.NoError(t, settingRepo.Set(ctx, SettingGatewaySecret, "rotated-secret"))
	require.NoError(t, settingRepo.Set(ctx, SettingGatewayDemoMode, "true"))
	require.NoError(t, settingRepo.Set(ctx, SettingGatewayMinTopup, "250"))

	settings, err := resolve(ctx)
	require.NoError(t, err)
	assert.Equal(t, "rotated-merchant", settings.MerchantID)
	assert.Equal(t, "rotated-secret", settings.Secret)
	assert.True(t, settings.DemoMode)
	assert.Equal(t, int64(250), settings.MinTopup)
	// env value untouched where no override exists
	assert.Equal(t, "https://env.gateway", settings.BaseURL)
}

func TestSettingsIgnoreUnparseableOverrides(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	settingRepo := repository.NewSettingRepository(db)

	resolve := NewGatewaySettingsResolver(settingRepo, &config.Gateway{MinTopup: 100})

	require.NoError(t, settingRepo.Set(ctx, SettingGatewayMinTopup, "not-a-number"))
	require.NoError(t, settingRepo.Set(ctx, SettingGatewayDemoMode, "maybe"))

	settings, err := resolve(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(100), settings.MinTopup)
	assert.False(t, settings.DemoMode)
}
