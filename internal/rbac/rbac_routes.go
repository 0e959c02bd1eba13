package rbac

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes mounts /rbac. authorize guards the management endpoints.
func RegisterRoutes(r *gin.RouterGroup, handler *Handler, authorize func(resource, action string) gin.HandlerFunc) {
	group := r.Group("/rbac")
	{
		group.POST("/enforce", handler.Enforce)
		group.GET("/policy", authorize("rbac", "read"), handler.GetPolicy)
		group.POST("/reload", authorize("rbac", "manage"), handler.Reload)
	}
}
