package resource

import (
	"go-sirh/internal/middleware"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes mounts the CRUD, export and action routes of a resource under /<name>.
// createMiddleware runs before Create only. The returned group accepts feature specific routes.
func RegisterRoutes(r *gin.RouterGroup, handler *Handler, rbacService middleware.RBACService, createMiddleware ...gin.HandlerFunc) *gin.RouterGroup {
	def := handler.service.Definition()
	authorize := func(action string) gin.HandlerFunc {
		return middleware.RBACAuthorize(rbacService, def.rbacResource(), action)
	}

	group := r.Group("/" + def.Name)
	{
		group.GET("", authorize("read"), handler.GetAll)
		group.GET("/export", authorize("export"), handler.Export)
		group.GET("/:id", authorize("read"), handler.GetByID)
	}
	if def.ReadOnly {
		return group
	}

	create := append([]gin.HandlerFunc{authorize("create")}, createMiddleware...)
	group.POST("", append(create, handler.Create)...)
	group.PUT("/:id", authorize("update"), handler.Update)
	group.PATCH("/:id", authorize("update"), handler.Patch)
	group.DELETE("/:id", authorize("delete"), handler.Delete)

	for _, action := range def.actionNames() {
		h := handler.Action(action)
		group.POST("/:id/"+action, authorize(action), h)
		group.PATCH("/:id/"+action, authorize(action), h)
	}
	return group
}
