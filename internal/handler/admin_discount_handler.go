package handler

import (
	"net/http"

	"shop/internal/config"
	"shop/internal/middleware"
	"shop/internal/usecase"

	"github.com/labstack/echo/v4"
)

// /admin/discounts のHTTP
type AdminDiscountHandler struct {
	uc *usecase.DiscountUsecase
}

// DI
func NewAdminDiscountHandler(uc *usecase.DiscountUsecase) *AdminDiscountHandler {
	return &AdminDiscountHandler{uc: uc}
}

type DiscountCreateRequest struct {
	DiscountPercentage      int64  `json:"discount_percentage"`
	GeneratedForOrderNumber int64  `json:"generated_for_order_number"`
	UserID                  *int64 `json:"user_id,omitempty"`
}

func (h *AdminDiscountHandler) RegisterRoutes(e *echo.Echo, cfg config.Config) {
	admin := e.Group("/admin")

	admin.Use(middleware.AuthJWT(cfg))
	admin.Use(middleware.AdminRoleGuard())

	admin.GET("/discounts", h.list)
	admin.GET("/discounts/available", h.listAvailable)
	admin.GET("/discounts/used", h.listUsed)
	admin.GET("/discounts/:code", h.getByCode)
	admin.POST("/discounts", h.create)
}

func (h *AdminDiscountHandler) list(c echo.Context) error {
	out, err := h.uc.ListAll(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *AdminDiscountHandler) listAvailable(c echo.Context) error {
	out, err := h.uc.ListAvailable(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *AdminDiscountHandler) listUsed(c echo.Context) error {
	out, err := h.uc.ListUsed(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *AdminDiscountHandler) getByCode(c echo.Context) error {
	out, err := h.uc.GetByCode(c.Request().Context(), c.Param("code"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *AdminDiscountHandler) create(c echo.Context) error {
	var req DiscountCreateRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	adminID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	out, err := h.uc.AdminCreateDiscount(c.Request().Context(), adminID, usecase.AdminCreateDiscountInput{
		DiscountPercentage:      req.DiscountPercentage,
		GeneratedForOrderNumber: req.GeneratedForOrderNumber,
		UserID:                  req.UserID,
	})
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusCreated, out)
}
