package employee_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"go-sirh/internal/employee"
	"go-sirh/internal/resource"
	"go-sirh/internal/shared/apperror"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeEmployeeService struct {
	GetOptionsFn func(ctx context.Context) ([]employee.Option, error)
}

func (f *fakeEmployeeService) Definition() *resource.Definition  { return &resource.Definition{Name: "employees"} }
func (f *fakeEmployeeService) InvalidateOptions(context.Context) {}
func (f *fakeEmployeeService) GetOptions(ctx context.Context) ([]employee.Option, error) {
	return f.GetOptionsFn(ctx)
}

func setupRouter(h *employee.Handler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/employees/options", h.GetOptions)
	return r
}

func TestEmployeeHandler_GetOptions(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		h := employee.NewHandler(&fakeEmployeeService{
			GetOptionsFn: func(context.Context) ([]employee.Option, error) {
				return []employee.Option{{ID: 7, Matricule: "EMP-000007", FirstName: "Yassine", LastName: "Alaoui"}}, nil
			},
		})

		w := httptest.NewRecorder()
		setupRouter(h).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/employees/options", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		var body struct {
			Status string            `json:"status"`
			Data   []employee.Option `json:"data"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, "success", body.Status)
		require.Len(t, body.Data, 1)
		assert.Equal(t, "EMP-000007", body.Data[0].Matricule)
	})

	t.Run("service error", func(t *testing.T) {
		h := employee.NewHandler(&fakeEmployeeService{
			GetOptionsFn: func(context.Context) ([]employee.Option, error) {
				return nil, apperror.ErrInternal
			},
		})

		w := httptest.NewRecorder()
		setupRouter(h).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/employees/options", nil))

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Contains(t, w.Body.String(), `"code":"INTERNAL_ERROR"`)
	})
}
