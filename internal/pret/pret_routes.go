package pret

import (
	"go-sirh/internal/middleware"
	"go-sirh/internal/resource"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	crud *resource.Handler,
	handler *Handler,
	rbacService middleware.RBACService,
) {
	prets := resource.RegisterRoutes(r, crud, rbacService)
	prets.GET("/simulate", middleware.RBACAuthorize(rbacService, "prets", "read"), handler.Simulate)
	prets.GET("/:id/echeancier", middleware.RBACAuthorize(rbacService, "prets", "read"), handler.GetSchedule)
}
