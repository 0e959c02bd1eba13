package catalog

import (
	"go-sirh/internal/middleware"
	"go-sirh/internal/resource"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes mounts every catalog under /settings.
func RegisterRoutes(r *gin.RouterGroup, catalogs []*resource.Handler, handler *Handler, rbacService middleware.RBACService) {
	settings := r.Group("/settings")
	settings.GET("/payroll", middleware.RBACAuthorize(rbacService, "settings", "read"), handler.GetPayroll)
	for _, h := range catalogs {
		resource.RegisterRoutes(settings, h, rbacService)
	}
}
