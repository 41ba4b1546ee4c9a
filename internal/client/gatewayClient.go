package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// ErrGateway wraps every transport-level failure talking to the payment
// gateway: network errors, non-2xx responses, unparseable bodies. Callers
// treat it as transient and leave local state untouched.
var ErrGateway = errors.New("payment gateway error")

// Transaction statuses reported by the gateway.
const (
	TxStatusPending      = "PENDING"
	TxStatusConfirmed    = "CONFIRMED"
	TxStatusCanceled     = "CANCELED"
	TxStatusChargebacked = "CHARGEBACKED"
)

// Gateway-side numeric payment method codes.
const (
	MethodSBP    = 1
	MethodCard   = 2
	MethodCrypto = 3
)

// MethodCode maps a client-facing method tag to the gateway's numeric code.
// Unrecognized tags fall back to SBP, the primary method.
func MethodCode(tag string) int {
	switch tag {
	case "sbp":
		return MethodSBP
	case "card":
		return MethodCard
	case "crypto":
		return MethodCrypto
	default:
		return MethodSBP
	}
}

// GatewaySettings is the per-call view of the gateway configuration. It is
// resolved freshly for every request so credential rotation in the settings
// store takes effect without a restart.
type GatewaySettings struct {
	BaseURL       string
	MerchantID    string
	Secret        string
	WebhookSecret string
	Currency      string
	DemoMode      bool
	MinTopup      int64
}

func (s *GatewaySettings) Configured() bool {
	return s.BaseURL != "" && s.MerchantID != "" && s.Secret != ""
}

// SettingsResolver returns the current gateway settings.
type SettingsResolver func(ctx context.Context) (*GatewaySettings, error)

type CreateTransactionRequest struct {
	Amount      int64  `json:"amount"`
	Currency    string `json:"currency"`
	Description string `json:"description"`
	SuccessURL  string `json:"success_url"`
	FailedURL   string `json:"failed_url"`
	// Payload is echoed back by the gateway; we use it to carry the user id
	// so the redirect can be correlated without server-side session state.
	Payload string `json:"payload"`
	Method  int    `json:"method"`
}

type CreateTransactionResponse struct {
	TransactionID string `json:"id"`
	RedirectURL   string `json:"url"`
	Status        string `json:"status"`
	Message       string `json:"message"`
}

type GatewayClient interface {
	CreateTransaction(ctx context.Context, req *CreateTransactionRequest) (*CreateTransactionResponse, error)
	GetTransactionStatus(ctx context.Context, transactionID string) (string, error)
}

type gatewayClientImpl struct {
	httpClient *http.Client
	resolve    SettingsResolver
}

func NewGatewayClient(resolve SettingsResolver) GatewayClient {
	return &gatewayClientImpl{
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		resolve: resolve,
	}
}

func (c *gatewayClientImpl) CreateTransaction(ctx context.Context, req *CreateTransactionRequest) (*CreateTransactionResponse, error) {
	settings, err := c.resolve(ctx)
	if err != nil {
		return nil, fmt.Errorf("resolve gateway settings: %w", err)
	}

	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal req payload: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost,
		settings.BaseURL+"/transactions",
		bytes.NewBuffer(body))
	if err != nil {
		return nil, fmt.Errorf("http new request: %w", err)
	}
	setMerchantHeaders(httpReq, settings)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGateway, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("%w: status=%d body=%s", ErrGateway, resp.StatusCode, string(b))
	}

	var result CreateTransactionResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("%w: decode response: %v", ErrGateway, err)
	}

	return &result, nil
}

func (c *gatewayClientImpl) GetTransactionStatus(ctx context.Context, transactionID string) (string, error) {
	settings, err := c.resolve(ctx)
	if err != nil {
		return "", fmt.Errorf("resolve gateway settings: %w", err)
	}

	url := fmt.Sprintf("%s/transactions/%s", settings.BaseURL, transactionID)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("http new request: %w", err)
	}
	setMerchantHeaders(httpReq, settings)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrGateway, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("%w: status=%d body=%s", ErrGateway, resp.StatusCode, string(b))
	}

	var result struct {
		ID     string `json:"id"`
		Status string `json:"status"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("%w: decode response: %v", ErrGateway, err)
	}

	return result.Status, nil
}

func setMerchantHeaders(req *http.Request, settings *GatewaySettings) {
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Merchant-Id", settings.MerchantID)
	req.Header.Set("X-Merchant-Secret", settings.Secret)
}
