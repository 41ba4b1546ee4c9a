package handler

import (
	"net/http"

	"marketpay/internal/dto"
	"marketpay/internal/middleware"
	"marketpay/internal/repository"
	"marketpay/internal/service"

	"github.com/labstack/echo/v4"
)

// AdminHandler exposes the mutable settings store behind the late-bound
// gateway configuration.
type AdminHandler struct {
	settingRepo repository.SettingRepository
	userService service.UserService
}

func NewAdminHandler(settingRepo repository.SettingRepository, userService service.UserService) *AdminHandler {
	return &AdminHandler{
		settingRepo: settingRepo,
		userService: userService,
	}
}

func (h *AdminHandler) requireAdmin(c echo.Context) error {
	ctx := c.Request().Context()

	userID, err := middleware.UserIDFromContext(c)
	if err != nil {
		return err
	}

	isAdmin, err := h.userService.IsAdmin(ctx, userID)
	if err != nil {
		return err
	}
	if !isAdmin {
		return echo.NewHTTPError(http.StatusForbidden, "admin only")
	}

	return nil
}

func (h *AdminHandler) GetSettings(c echo.Context) error {
	if err := h.requireAdmin(c); err != nil {
		return err
	}

	settings, err := h.settingRepo.All(c.Request().Context())
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, settings)
}

func (h *AdminHandler) UpdateSettings(c echo.Context) error {
	if err := h.requireAdmin(c); err != nil {
		return err
	}

	var req dto.SettingsUpdateRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid req body")
	}

	ctx := c.Request().Context()
	for key, value := range req.Settings {
		if err := h.settingRepo.Set(ctx, key, value); err != nil {
			return err
		}
	}

	return c.JSON(http.StatusOK, map[string]string{"status": "updated"})
}
