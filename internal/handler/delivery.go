package handler

import (
	"errors"
	"net/http"

	"marketpay/internal/service"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

type DeliveryHandler struct {
	deliveryService service.DeliveryService
}

func NewDeliveryHandler(deliveryService service.DeliveryService) *DeliveryHandler {
	return &DeliveryHandler{
		deliveryService: deliveryService,
	}
}

// Resolve is unauthenticated: the token in the URL is the credential.
func (h *DeliveryHandler) Resolve(c echo.Context) error {
	ctx := c.Request().Context()

	token := c.Param("token")
	if token == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "missing token")
	}

	result, err := h.deliveryService.Resolve(ctx, token)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "not found")
		}
		return err
	}

	return c.JSON(http.StatusOK, result)
}
