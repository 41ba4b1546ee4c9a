package handler

import (
	"net/http"

	"marketpay/internal/middleware"
	"marketpay/internal/service"

	"github.com/labstack/echo/v4"
)

type UserHandler struct {
	userService service.UserService
}

func NewUserHandler(userService service.UserService) *UserHandler {
	return &UserHandler{
		userService: userService,
	}
}

func (h *UserHandler) GetBalance(c echo.Context) error {
	ctx := c.Request().Context()

	userID, err := middleware.UserIDFromContext(c)
	if err != nil {
		return err
	}

	balance, err := h.userService.GetBalance(ctx, userID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, balance)
}

func (h *UserHandler) GetPurchases(c echo.Context) error {
	ctx := c.Request().Context()

	userID, err := middleware.UserIDFromContext(c)
	if err != nil {
		return err
	}

	purchases, err := h.userService.GetPurchases(ctx, userID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, purchases)
}

func (h *UserHandler) GetNotifications(c echo.Context) error {
	ctx := c.Request().Context()

	userID, err := middleware.UserIDFromContext(c)
	if err != nil {
		return err
	}

	notifications, err := h.userService.GetNotifications(ctx, userID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, notifications)
}
