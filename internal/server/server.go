package server

import (
	"marketpay/internal/handler"
	custommw "marketpay/internal/middleware"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

type Server struct {
	echo            *echo.Echo
	paymentHandler  *handler.PaymentHandler
	deliveryHandler *handler.DeliveryHandler
	productHandler  *handler.ProductHandler
	userHandler     *handler.UserHandler
	adminHandler    *handler.AdminHandler
	jwtSecret       string
}

func NewServer(
	paymentHandler *handler.PaymentHandler,
	deliveryHandler *handler.DeliveryHandler,
	productHandler *handler.ProductHandler,
	userHandler *handler.UserHandler,
	adminHandler *handler.AdminHandler,
	jwtSecret string,
) *Server {
	e := echo.New()

	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	s := &Server{
		echo:            e,
		paymentHandler:  paymentHandler,
		deliveryHandler: deliveryHandler,
		productHandler:  productHandler,
		userHandler:     userHandler,
		adminHandler:    adminHandler,
		jwtSecret:       jwtSecret,
	}

	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	api := s.echo.Group("/api")
	auth := custommw.AuthMiddleware(s.jwtSecret)

	api.GET("/health", func(c echo.Context) error {
		return c.JSON(200, map[string]string{"status": "ok"})
	})

	api.GET("/products", s.productHandler.List)
	api.GET("/products/:id", s.productHandler.Get)

	// bearer token in the URL, no auth
	api.GET("/delivery/:token", s.deliveryHandler.Resolve)

	// -------- payment --------
	payment := api.Group("/payment")
	payment.POST("/create", s.paymentHandler.Create, auth)
	payment.GET("/check-return", s.paymentHandler.CheckReturn, auth)

	// -------- gateway webhook --------
	payment.POST("/webhook", s.paymentHandler.Webhook)

	me := api.Group("/me", auth)
	me.GET("/balance", s.userHandler.GetBalance)
	me.GET("/purchases", s.userHandler.GetPurchases)
	me.GET("/notifications", s.userHandler.GetNotifications)

	admin := api.Group("/admin", auth)
	admin.GET("/settings", s.adminHandler.GetSettings)
	admin.PUT("/settings", s.adminHandler.UpdateSettings)
}

func (s *Server) Start(address string) error {
	return s.echo.Start(address)
}

func (s *Server) Shutdown() error {
	return s.echo.Close()
}
