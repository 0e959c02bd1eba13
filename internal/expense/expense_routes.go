package expense

import (
	"go-sirh/internal/middleware"
	"go-sirh/internal/resource"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *resource.Handler, rbacService middleware.RBACService) {
	resource.RegisterRoutes(r, handler, rbacService)
}
