package middleware_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"shop/internal/middleware"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

type guardErrorResponse struct {
	Error string `json:"error"`
}

// roleをcontextに仕込んでからguardを通すハンドラを組む
func newGuardedEcho(role string, withRole bool) *echo.Echo {
	e := echo.New()

	setRole := func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if withRole {
				c.Set(middleware.CtxUserRoleKey, role)
			}
			return next(c)
		}
	}

	e.GET("/admin/ping", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"ok": "true"})
	}, setRole, middleware.AdminRoleGuard())

	return e
}

func decodeGuardError(t *testing.T, rec *httptest.ResponseRecorder) guardErrorResponse {
	t.Helper()
	var r guardErrorResponse
	_ = json.NewDecoder(rec.Body).Decode(&r)
	return r
}

// roleが無い（AuthJWTを通っていない）=> 401
func TestAdminRoleGuard_Unauthorized_MissingRole(t *testing.T) {
	e := newGuardedEcho("", false)

	req := httptest.NewRequest(http.MethodGet, "/admin/ping", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "unauthorized", decodeGuardError(t, rec).Error)
}

// USER => 403
func TestAdminRoleGuard_Forbidden_UserRole(t *testing.T) {
	e := newGuardedEcho("USER", true)

	req := httptest.NewRequest(http.MethodGet, "/admin/ping", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "admin only", decodeGuardError(t, rec).Error)
}

// ADMIN => 通る
func TestAdminRoleGuard_AllowsAdmin(t *testing.T) {
	e := newGuardedEcho("ADMIN", true)

	req := httptest.NewRequest(http.MethodGet, "/admin/ping", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

// 空文字roleは401扱い
func TestAdminRoleGuard_Unauthorized_EmptyRole(t *testing.T) {
	e := newGuardedEcho("", true)

	req := httptest.NewRequest(http.MethodGet, "/admin/ping", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
