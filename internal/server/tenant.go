package server

import (
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/wolfeidau/aistudio/internal/models"
)

const tenantContextKey = "tenant_id"

// TenantContext resolves the acting tenant for each request. Authentication
// is out of scope for now, so every request acts as the seeded system user;
// when real identity lands this middleware is the only place that changes.
func TenantContext() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Set(tenantContextKey, models.SystemUserID)
			return next(c)
		}
	}
}

// tenantID returns the tenant bound to the request by TenantContext.
func tenantID(c echo.Context) uuid.UUID {
	id, _ := c.Get(tenantContextKey).(uuid.UUID)
	return id
}
