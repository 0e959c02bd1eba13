package accident

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
	accidents := resource.RegisterRoutes(r, crud, rbacService)
	accidents.GET("/statistiques", middleware.RBACAuthorize(rbacService, "accidents-travail", "read"), handler.Statistics)
}
