package avance

import (
	"go-sirh/internal/middleware"
	"go-sirh/internal/resource"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// RegisterRoutes mounts /avances. POST is idempotent when rdb is set and the client sends an Idempotency-Key.
func RegisterRoutes(r *gin.RouterGroup, handler *resource.Handler, rbacService middleware.RBACService, rdb redis.Cmdable) {
	var createMiddleware []gin.HandlerFunc
	if rdb != nil {
		createMiddleware = append(createMiddleware, middleware.Idempotency(rdb))
	}
	resource.RegisterRoutes(r, handler, rbacService, createMiddleware...)
}
