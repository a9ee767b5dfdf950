package server

import (
	"shop/internal/config"
	"shop/internal/handler"
	"shop/internal/middleware"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// ルート登録に必要なhandler一式
type Handlers struct {
	Auth          *handler.AuthHandler
	Product       *handler.ProductHandler
	Cart          *handler.CartHandler
	Order         *handler.OrderHandler
	Admin         *handler.AdminHandler
	AdminProduct  *handler.AdminProductHandler
	AdminDiscount *handler.AdminDiscountHandler
}

// echoを組み立てて返す。Startは呼び出し側で。
func New(cfg config.Config, logger *zap.Logger, h Handlers) *echo.Echo {
	e := echo.New()
	e.HideBanner = true

	e.Use(middleware.RequestLogger(logger))

	//認証系は総当たり対策で絞る（1秒5回・バースト10）
	authLimiter := middleware.NewRateLimiter(rate.Limit(5), 10)

	h.Auth.RegisterRoutes(e, authLimiter)
	h.Product.RegisterRoutes(e)
	h.Cart.RegisterRoutes(e, cfg)
	h.Order.RegisterRoutes(e, cfg)
	h.Admin.RegisterRoutes(e, cfg)
	h.AdminProduct.RegisterRoutes(e, cfg)
	h.AdminDiscount.RegisterRoutes(e, cfg)

	return e
}

func Start(e *echo.Echo, addr string) error {
	return e.Start(addr)
}
