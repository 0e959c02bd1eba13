package payroll_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"go-sirh/internal/payroll"
	payrollerrors "go-sirh/internal/payroll/errors"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeService struct {
	GenerateForPeriodFn func(ctx context.Context, periodeID, actor string) (int, error)
	RequestGenerationFn func(ctx context.Context, periodeID string) error
}

func (f *fakeService) GenerateForPeriod(ctx context.Context, periodeID, actor string) (int, error) {
	return f.GenerateForPeriodFn(ctx, periodeID, actor)
}

func (f *fakeService) RequestGeneration(ctx context.Context, periodeID string) error {
	return f.RequestGenerationFn(ctx, periodeID)
}

func generateRouter(svc payroll.Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/periodes-paie/:id/generer", payroll.NewHandler(svc).Generate)
	return r
}

func TestHandler_Generate(t *testing.T) {
	t.Run("sync", func(t *testing.T) {
		r := generateRouter(&fakeService{
			GenerateForPeriodFn: func(_ context.Context, id, _ string) (int, error) {
				assert.Equal(t, "3", id)
				return 12, nil
			},
		})
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/periodes-paie/3/generer", nil))
		require.Equal(t, http.StatusOK, w.Code)

		var body struct {
			Data payroll.GenerateResponse `json:"data"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, 12, body.Data.Generated)
	})

	t.Run("async", func(t *testing.T) {
		called := false
		r := generateRouter(&fakeService{
			RequestGenerationFn: func(_ context.Context, id string) error {
				called = true
				return nil
			},
		})
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/periodes-paie/3/generer?async=true", nil))
		assert.Equal(t, http.StatusAccepted, w.Code)
		assert.True(t, called)
	})

	t.Run("closed period", func(t *testing.T) {
		r := generateRouter(&fakeService{
			GenerateForPeriodFn: func(context.Context, string, string) (int, error) {
				return 0, payrollerrors.ErrPeriodClosed
			},
		})
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/periodes-paie/3/generer", nil))
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "INVALID_STATE")
	})
}
