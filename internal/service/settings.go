package service

import (
	"context"
	"marketpay/internal/client"
	"marketpay/internal/config"
	"marketpay/internal/repository"
	"strconv"
)

// Setting-store keys that override the GATEWAY_* environment defaults.
const (
	SettingGatewayBaseURL       = "gateway.base_url"
	SettingGatewayMerchantID    = "gateway.merchant_id"
	SettingGatewaySecret        = "gateway.secret"
	SettingGatewayWebhookSecret = "gateway.webhook_secret"
	SettingGatewayCurrency      = "gateway.currency"
	SettingGatewayDemoMode      = "gateway.demo_mode"
	SettingGatewayMinTopup      = "gateway.min_topup"
)

// NewGatewaySettingsResolver builds the resolver injected into the gateway
// client and the payment service. Settings are read on every call, so an
// administrator updating credentials is observed on the next request.
func NewGatewaySettingsResolver(settingRepo repository.SettingRepository, fallback *config.Gateway) client.SettingsResolver {
	return func(ctx context.Context) (*client.GatewaySettings, error) {
		settings := &client.GatewaySettings{
			BaseURL:       fallback.BaseURL,
			MerchantID:    fallback.MerchantID,
			Secret:        fallback.Secret,
			WebhookSecret: fallback.WebhookSecret,
			Currency:      fallback.Currency,
			DemoMode:      fallback.DemoMode,
			MinTopup:      fallback.MinTopup,
		}

		overrides := []struct {
			key   string
			apply func(string)
		}{
			{SettingGatewayBaseURL, func(v string) { settings.BaseURL = v }},
			{SettingGatewayMerchantID, func(v string) { settings.MerchantID = v }},
			{SettingGatewaySecret, func(v string) { settings.Secret = v }},
			{SettingGatewayWebhookSecret, func(v string) { settings.WebhookSecret = v }},
			{SettingGatewayCurrency, func(v string) { settings.Currency = v }},
			{SettingGatewayDemoMode, func(v string) {
				if b, err := strconv.ParseBool(v); err == nil {
					settings.DemoMode = b
				}
			}},
			{SettingGatewayMinTopup, func(v string) {
				if n, err := strconv.ParseInt(v, 10, 64); err == nil {
					settings.MinTopup = n
				}
			}},
		}

		for _, o := range overrides {
			value, ok, err := settingRepo.Get(ctx, o.key)
			if err != nil {
				return nil, err
			}
			if ok {
				o.apply(value)
			}
		}

		return settings, nil
	}
}
