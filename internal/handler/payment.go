package handler

import (
	"errors"
	"net/http"

	"marketpay/internal/client"
	"marketpay/internal/dto"
	"marketpay/internal/middleware"
	"marketpay/internal/service"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

type PaymentHandler struct {
	paymentService service.PaymentService
}

func NewPaymentHandler(paymentService service.PaymentService) *PaymentHandler {
	return &PaymentHandler{
		paymentService: paymentService,
	}
}

func (h *PaymentHandler) Create(c echo.Context) error {
	ctx := c.Request().Context()

	userID, err := middleware.UserIDFromContext(c)
	if err != nil {
		return err
	}

	var req dto.CreatePaymentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid req body")
	}

	result, err := h.paymentService.CreateIntent(ctx, userID, &req)
	if err != nil {
		return mapPaymentError(err)
	}

	return c.JSON(http.StatusOK, result)
}

// Webhook acknowledges with 200 whenever the secret check passes, including
// no-ops, so the gateway does not keep retrying deliveries we have already
// absorbed. Non-200 means: malformed payload, bad secret, or an internal
// failure worth a gateway retry.
func (h *PaymentHandler) Webhook(c echo.Context) error {
	ctx := c.Request().Context()

	var payload dto.WebhookPayload
	if err := c.Bind(&payload); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid webhook payload")
	}
	if payload.ID == "" || payload.Status == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "missing transaction id or status")
	}

	secret := c.Request().Header.Get("X-Webhook-Secret")
	if err := h.paymentService.HandleWebhook(ctx, secret, &payload); err != nil {
		if errors.Is(err, service.ErrWebhookSecretMismatch) {
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid webhook secret")
		}
		return err
	}

	return c.String(http.StatusOK, "OK")
}

func (h *PaymentHandler) CheckReturn(c echo.Context) error {
	ctx := c.Request().Context()

	userID, err := middleware.UserIDFromContext(c)
	if err != nil {
		return err
	}

	result, err := h.paymentService.CheckReturn(ctx, userID)
	if err != nil {
		return mapPaymentError(err)
	}

	return c.JSON(http.StatusOK, result)
}

func mapPaymentError(err error) error {
	switch {
	case errors.Is(err, service.ErrAmountMismatch),
		errors.Is(err, service.ErrBelowMinimum):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrGatewayNotConfigured):
		return echo.NewHTTPError(http.StatusServiceUnavailable, err.Error())
	case errors.Is(err, client.ErrGateway):
		return echo.NewHTTPError(http.StatusBadGateway, "payment gateway unavailable, try again")
	case errors.Is(err, gorm.ErrRecordNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "not found")
	default:
		return err
	}
}
