package resource

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"go-sirh/internal/rbac"
	"go-sirh/internal/shared/export"
	"go-sirh/internal/shared/response"
	"go-sirh/internal/store"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type allowAll struct {
	denied map[string]bool
}

func (a allowAll) Enforce(req rbac.EnforceRequest) (bool, error) {
	return !a.denied[req.Action], nil
}

func setupRouter(t *testing.T, def *Definition, rbacService allowAll) (*gin.Engine, fixture) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	f := newFixture(t, def)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("role", "rh")
		c.Next()
	})
	RegisterRoutes(r.Group(""), NewHandler(f.svc), rbacService)
	return r, f
}

func doJSON(r *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

type envelope struct {
	Status          string         `json:"status"`
	Message         string         `json:"message"`
	Code            string         `json:"code"`
	Data            map[string]any `json:"data"`
	RecordsTotal    *int           `json:"recordsTotal"`
	RecordsFiltered *int           `json:"recordsFiltered"`
}

func decode(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return env
}

func TestHandler_CRUDFlow(t *testing.T) {
	r, _ := setupRouter(t, contractDefinition(), allowAll{})

	w := doJSON(r, http.MethodPost, "/contracts", map[string]any{"employeeId": 7, "poste": "Comptable"})
	require.Equal(t, http.StatusCreated, w.Code)
	created := decode(t, w)
	assert.Equal(t, response.StatusSuccess, created.Status)
	assert.Equal(t, "Brouillon", created.Data["statut"])

	w = doJSON(r, http.MethodPatch, "/contracts/1", map[string]any{"poste": "Auditeur"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Auditeur", decode(t, w).Data["poste"])

	w = doJSON(r, http.MethodGet, "/contracts/1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	employee, ok := decode(t, w).Data["employee"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "Alaoui", employee["lastName"])

	w = doJSON(r, http.MethodPost, "/contracts/1/validate", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Actif", decode(t, w).Data["statut"])

	w = doJSON(r, http.MethodDelete, "/contracts/1", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	env := decode(t, w)
	assert.Equal(t, response.StatusError, env.Status)
	assert.Equal(t, "INVALID_STATE", env.Code)

	w = doJSON(r, http.MethodPatch, "/contracts/1/cancel", map[string]any{"motif": "Erreur de saisie"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Annulé", decode(t, w).Data["statut"])
}

func TestHandler_GetAllPaged(t *testing.T) {
	r, f := setupRouter(t, contractDefinition(), allowAll{})
	for i := 0; i < 4; i++ {
		_, err := f.svc.Create(context.Background(), store.Record{"employeeId": 7})
		require.NoError(t, err)
	}

	w := doJSON(r, http.MethodGet, "/contracts?start=1&length=2&sortBy=id&sortDir=desc", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var env struct {
		Data            []map[string]any `json:"data"`
		RecordsTotal    int              `json:"recordsTotal"`
		RecordsFiltered int              `json:"recordsFiltered"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	assert.Equal(t, 4, env.RecordsTotal)
	assert.Equal(t, 4, env.RecordsFiltered)
	require.Len(t, env.Data, 2)
	assert.Equal(t, 3.0, env.Data[0]["id"])
}

func TestHandler_NotFound(t *testing.T) {
	r, _ := setupRouter(t, contractDefinition(), allowAll{})

	for _, tc := range []struct{ method, path string }{
		{http.MethodGet, "/contracts/42"},
		{http.MethodDelete, "/contracts/42"},
		{http.MethodPost, "/contracts/42/validate"},
	} {
		w := doJSON(r, tc.method, tc.path, nil)
		assert.Equal(t, http.StatusNotFound, w.Code, tc.path)
		env := decode(t, w)
		assert.Equal(t, "error", env.Status)
		assert.Equal(t, "Contrat introuvable", env.Message)
	}
}

func TestHandler_InvalidBody(t *testing.T) {
	r, _ := setupRouter(t, contractDefinition(), allowAll{})

	req := httptest.NewRequest(http.MethodPost, "/contracts", bytes.NewBufferString(`[1,2]`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "INVALID_INPUT", decode(t, w).Code)
}

func TestHandler_Forbidden(t *testing.T) {
	r, _ := setupRouter(t, contractDefinition(), allowAll{denied: map[string]bool{"delete": true}})

	w := doJSON(r, http.MethodPost, "/contracts", map[string]any{"employeeId": 7})
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(r, http.MethodDelete, "/contracts/1", nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestHandler_ReadOnly(t *testing.T) {
	def := contractDefinition()
	def.ReadOnly = true
	r, _ := setupRouter(t, def, allowAll{})

	w := doJSON(r, http.MethodPost, "/contracts", map[string]any{"employeeId": 7})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHandler_Export(t *testing.T) {
	r, f := setupRouter(t, contractDefinition(), allowAll{})
	_, err := f.svc.Create(context.Background(), store.Record{"employeeId": 7, "poste": "Comptable"})
	require.NoError(t, err)

	w := doJSON(r, http.MethodGet, "/contracts/export", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, export.ContentTypeXLSX, w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "contracts-")
	assert.NotZero(t, w.Body.Len())
}

func TestFieldsOf(t *testing.T) {
	rows := []store.Record{
		{"id": 1, "poste": "A", "employee": map[string]any{"id": 7}},
		{"id": 2, "salaire": 10, "historique": []any{}},
	}
	assert.Equal(t, []string{"id", "poste", "salaire"}, fieldsOf(rows))
}
