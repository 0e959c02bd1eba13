package attendance

import (
	"go-sirh/internal/middleware"
	"go-sirh/internal/resource"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, crud *resource.Handler, h *Handler, rbacService middleware.RBACService) {
	pointages := resource.RegisterRoutes(r, crud, rbacService)
	pointages.POST("/clock-in", middleware.RBACAuthorize(rbacService, "pointages", "create"), h.ClockIn)
	pointages.POST("/clock-out", middleware.RBACAuthorize(rbacService, "pointages", "create"), h.ClockOut)
}
