package app_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"go-sirh/internal/app"
	"go-sirh/internal/config"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type envelope struct {
	Status          string          `json:"status"`
	Code            string          `json:"code"`
	Message         string          `json:"message"`
	Data            json.RawMessage `json:"data"`
	RecordsTotal    int             `json:"recordsTotal"`
	RecordsFiltered int             `json:"recordsFiltered"`
}

func newTestApp(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{
		StoreDriver:     "memory",
		DefaultRole:     "rh",
		RateLimitRPS:    1000,
		RateLimitBurst:  1000,
		DefaultCurrency: "MAD",
		PhoneRegion:     "MA",
		SeedDefaults:    true,
	}
	r := gin.New()
	infra, err := app.BuildApp(context.Background(), r, cfg, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = infra.Close() })
	return r
}

func do(r *gin.Engine, method, path string, body any) (*httptest.ResponseRecorder, envelope) {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var env envelope
	_ = json.Unmarshal(w.Body.Bytes(), &env)
	return w, env
}

func TestBuildApp_Routes(t *testing.T) {
	r := newTestApp(t)

	w, env := do(r, http.MethodGet, "/api/settings/contract-types", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "success", env.Status)
	assert.Positive(t, env.RecordsTotal)

	w, _ = do(r, http.MethodGet, "/api/settings/payroll", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w, env = do(r, http.MethodGet, "/api/contracts/999", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "error", env.Status)
	assert.Equal(t, "NOT_FOUND", env.Code)

	w, _ = do(r, http.MethodGet, "/api/prets/simulate?montant=1200&duree_mois=12", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	for _, path := range []string{
		"/api/employees", "/api/users", "/api/absences", "/api/avances", "/api/prets",
		"/api/periodes-paie", "/api/paies", "/api/notes-frais", "/api/pointages",
		"/api/accidents-travail", "/api/accidents-travail/statistiques",
	} {
		w, _ := do(r, http.MethodGet, path, nil)
		assert.Equal(t, http.StatusOK, w.Code, path)
	}
}

func TestBuildApp_ContractFlow(t *testing.T) {
	r := newTestApp(t)

	w, env := do(r, http.MethodPost, "/api/contracts", map[string]any{
		"employeeId": 1, "typeContratId": 1, "dateDebut": "2025-01-01", "salaire": 7000,
	})
	require.Equal(t, http.StatusCreated, w.Code)
	var created struct {
		ID     float64 `json:"id"`
		Statut string  `json:"statut"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &created))
	assert.Equal(t, "Brouillon", created.Statut)

	w, _ = do(r, http.MethodPost, "/api/contracts/1/validate", nil)
	require.Equal(t, http.StatusOK, w.Code)

	w, env = do(r, http.MethodDelete, "/api/contracts/1", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "INVALID_STATE", env.Code)
}
