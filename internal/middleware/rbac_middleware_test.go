package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"go-sirh/internal/rbac"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

type fakeEnforcer struct {
	EnforceFn func(req rbac.EnforceRequest) (bool, error)
}

func (f *fakeEnforcer) Enforce(req rbac.EnforceRequest) (bool, error) {
	return f.EnforceFn(req)
}

func TestRBACAuthorize(t *testing.T) {
	gin.SetMode(gin.TestMode)

	enforcer := &fakeEnforcer{
		EnforceFn: func(req rbac.EnforceRequest) (bool, error) {
			switch req.Role {
			case "boom":
				return false, errors.New("casbin down")
			case "rh":
				return true, nil
			}
			return req.Action == "read", nil
		},
	}

	tests := []struct {
		name, role, action string
		want               int
	}{
		{"allowed", "rh", "delete", http.StatusOK},
		{"read only role", "employe", "read", http.StatusOK},
		{"forbidden", "employe", "delete", http.StatusForbidden},
		{"no role", "", "read", http.StatusUnauthorized},
		{"enforcer failure", "boom", "read", http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := gin.New()
			r.Use(func(c *gin.Context) {
				if tt.role != "" {
					c.Set(ContextRole, tt.role)
				}
				c.Next()
			})
			r.GET("/contracts", Authorizer(enforcer)("contracts", tt.action), func(c *gin.Context) {
				c.Status(http.StatusOK)
			})

			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/contracts", nil))
			assert.Equal(t, tt.want, w.Code)
		})
	}
}

func TestRateLimitByIP(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RateLimitByIP(1, 2))
	r.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
		codes = append(codes, w.Code)
	}

	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
}

func TestRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestID())
	r.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(HeaderRequestID, "rid-1")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "rid-1", w.Header().Get(HeaderRequestID))

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
	assert.NotEmpty(t, w.Header().Get(HeaderRequestID))
}
