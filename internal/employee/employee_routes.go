package employee

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
	employees := resource.RegisterRoutes(r, crud, rbacService)
	employees.GET("/options",
		middleware.RateLimitByUser(5, 20),
		middleware.RBACAuthorize(rbacService, "employees", "read"),
		handler.GetOptions,
	)
}
