package middleware

import (
	"net/http"

	"shop/internal/domain/model"

	"github.com/labstack/echo/v4"
)

// AuthJWTの後段に置く。roleクレームがADMINのリクエストだけ通す。
func AdminRoleGuard() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, ok := roleFromContext(c)
			if !ok {
				//AuthJWTを通っていない（roleが無い）
				return c.JSON(http.StatusUnauthorized, errorJSON("unauthorized"))
			}
			if role != model.RoleAdmin {
				return c.JSON(http.StatusForbidden, errorJSON("admin only"))
			}
			return next(c)
		}
	}
}

func roleFromContext(c echo.Context) (model.Role, bool) {
	s, ok := c.Get(CtxUserRoleKey).(string)
	if !ok || s == "" {
		return "", false
	}
	return model.Role(s), true
}
