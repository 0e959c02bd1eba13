package payroll

import (
	"go-sirh/internal/middleware"
	"go-sirh/internal/resource"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	periods *resource.Handler,
	payslips *resource.Handler,
	handler *Handler,
	rbacService middleware.RBACService,
) {
	group := resource.RegisterRoutes(r, periods, rbacService)
	group.POST("/:id/generer", middleware.RBACAuthorize(rbacService, "periodes-paie", "generer"), handler.Generate)

	resource.RegisterRoutes(r, payslips, rbacService)
}
