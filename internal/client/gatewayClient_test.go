package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func staticResolver(settings *GatewaySettings) SettingsResolver {
	return func(ctx context.Context) (*GatewaySettings, error) {
		return settings, nil
	}
}

func TestCreateTransaction(t *testing.T) {
	var gotReq CreateTransactionRequest
	var gotMerchant, gotSecret string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/transactions", r.URL.Path)
		gotMerchant = r.Header.Get("X-Merchant-Id")
		gotSecret = r.Header.Get("X-Merchant-Secret")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))

		json.NewEncoder(w).Encode(map[string]string{
			"id":     "tx-42",
			"url":    "https://gateway.test/pay/tx-42",
			"status": TxStatusPending,
		})
	}))
	defer server.Close()

	c := NewGatewayClient(staticResolver(&GatewaySettings{
		BaseURL:    server.URL,
		MerchantID: "m-1",
		Secret:     "s-1",
	}))

	resp, err := c.CreateTransaction(context.Background(), &CreateTransactionRequest{
		Amount:      500,
		Currency:    "USD",
		Description: "Balance top-up",
		SuccessURL:  "https://shop.test/payment/success",
		FailedURL:   "https://shop.test/payment/failed",
		Payload:     "7",
		Method:      MethodCard,
	})
	require.NoError(t, err)

	assert.Equal(t, "tx-42", resp.TransactionID)
	assert.Equal(t, "https://gateway.test/pay/tx-42", resp.RedirectURL)
	assert.Equal(t, "m-1", gotMerchant)
	assert.Equal(t, "s-1", gotSecret)
	assert.Equal(t, int64(500), gotReq.Amount)
	assert.Equal(t, "7", gotReq.Payload)
	assert.Equal(t, MethodCard, gotReq.Method)
}

func TestGetTransactionStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodGet, r.Method)
		require.Equal(t, "/transactions/tx-42", r.URL.Path)
		json.NewEncoder(w).Encode(map[string]string{
			"id":     "tx-42",
			"status": TxStatusConfirmed,
		})
	}))
	defer server.Close()

	c := NewGatewayClient(staticResolver(&GatewaySettings{
		BaseURL:    server.URL,
		MerchantID: "m-1",
		Secret:     "s-1",
	}))

	status, err := c.GetTransactionStatus(context.Background(), "tx-42")
	require.NoError(t, err)
	assert.Equal(t, TxStatusConfirmed, status)
}

func TestNon2xxWrapsGatewayError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "merchant suspended", http.StatusForbidden)
	}))
	defer server.Close()

	c := NewGatewayClient(staticResolver(&GatewaySettings{BaseURL: server.URL}))

	_, err := c.CreateTransaction(context.Background(), &CreateTransactionRequest{Amount: 100})
	require.ErrorIs(t, err, ErrGateway)
	assert.Contains(t, err.Error(), "merchant suspended")

	_, err = c.GetTransactionStatus(context.Background(), "tx-1")
	require.ErrorIs(t, err, ErrGateway)
}

func TestMalformedResponseWrapsGatewayError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>not json</html>"))
	}))
	defer server.Close()

	c := NewGatewayClient(staticResolver(&GatewaySettings{BaseURL: server.URL}))

	_, err := c.CreateTransaction(context.Background(), &CreateTransactionRequest{Amount: 100})
	require.ErrorIs(t, err, ErrGateway)
}

func TestNetworkFailureWrapsGatewayError(t *testing.T) {
	c := NewGatewayClient(staticResolver(&GatewaySettings{BaseURL: "http://127.0.0.1:1"}))

	_, err := c.CreateTransaction(context.Background(), &CreateTransactionRequest{Amount: 100})
	require.ErrorIs(t, err, ErrGateway)
}

// Credentials are resolved per call, so a rotation is picked up between two
// requests on the same client.
func TestSettingsResolvedPerCall(t *testing.T) {
	var merchants []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		merchants = append(merchants, r.Header.Get("X-Merchant-Id"))
		json.NewEncoder(w).Encode(map[string]string{"id": "tx-1", "status": TxStatusPending})
	}))
	defer server.Close()

	settings := &GatewaySettings{BaseURL: server.URL, MerchantID: "before", Secret: "s"}
	c := NewGatewayClient(func(ctx context.Context) (*GatewaySettings, error) {
		return settings, nil
	})

	_, err := c.GetTransactionStatus(context.Background(), "tx-1")
	require.NoError(t, err)

	settings.MerchantID = "after"
	_, err = c.GetTransactionStatus(context.Background(), "tx-1")
	require.NoError(t, err)

	assert.Equal(t, []string{"before", "after"}, merchants)
}

func TestMethodCode(t *testing.T) {
	assert.Equal(t, MethodSBP, MethodCode("sbp"))
	assert.Equal(t, MethodCard, MethodCode("card"))
	assert.Equal(t, MethodCrypto, MethodCode("crypto"))
	// unknown tags fall back to the primary method
	assert.Equal(t, MethodSBP, MethodCode(""))
	assert.Equal(t, MethodSBP, MethodCode("paypal"))
}
