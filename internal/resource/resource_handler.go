package resource

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sort"
	"time"

	"go-sirh/internal/query"
	"go-sirh/internal/shared/apperror"
	"go-sirh/internal/shared/export"
	"go-sirh/internal/shared/response"
	"go-sirh/internal/store"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handler struct {
	service Service
	logger  *zap.Logger
}

func NewHandler(service Service, logger ...*zap.Logger) *Handler {
	name := service.Definition().Name + ".handler"
	l := zap.L().Named(name)
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named(name)
	}
	return &Handler{service: service, logger: l}
}

func (h *Handler) Service() Service {
	return h.service
}

func (h *Handler) writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	h.logger.Warn("request failed",
		zap.String("method", c.Request.Method),
		zap.String("path", c.FullPath()),
		zap.Int("status", httpErr.Status),
		zap.String("code", httpErr.Code),
		zap.String("message", httpErr.Message),
		zap.Error(err),
	)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message)
}

// bindRecord decodes a JSON object body. An empty body yields an empty record when allowEmpty is set.
func (h *Handler) bindRecord(c *gin.Context, allowEmpty bool) (store.Record, bool) {
	var payload store.Record
	if err := c.ShouldBindJSON(&payload); err != nil {
		if allowEmpty && errors.Is(err, io.EOF) {
			return store.Record{}, true
		}
		h.logger.Warn("invalid payload", zap.String("path", c.FullPath()), zap.Error(err))
		h.writeServiceError(c, apperror.MapValidationError(err))
		return nil, false
	}
	if payload == nil {
		payload = store.Record{}
	}
	return payload, true
}

func (h *Handler) GetAll(c *gin.Context) {
	params := query.ParamsFromValues(c.Request.URL.Query())
	h.logger.Debug("http list", zap.Any("params", params))

	page, err := h.service.List(c.Request.Context(), params)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Paged(c, http.StatusOK, "Données récupérées avec succès", page.Data, page.RecordsTotal, page.RecordsFiltered)
}

func (h *Handler) GetByID(c *gin.Context) {
	rec, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Données récupérées avec succès", rec)
}

func (h *Handler) Create(c *gin.Context) {
	payload, ok := h.bindRecord(c, false)
	if !ok {
		return
	}

	rec, err := h.service.Create(c.Request.Context(), payload)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, fmt.Sprintf("%s créé avec succès", h.service.Definition().Label), rec)
}

func (h *Handler) Update(c *gin.Context) {
	h.update(c, false)
}

func (h *Handler) Patch(c *gin.Context) {
	h.update(c, true)
}

func (h *Handler) update(c *gin.Context, partial bool) {
	payload, ok := h.bindRecord(c, false)
	if !ok {
		return
	}

	rec, err := h.service.Update(c.Request.Context(), c.Param("id"), payload, partial)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, fmt.Sprintf("%s mis à jour avec succès", h.service.Definition().Label), rec)
}

func (h *Handler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, fmt.Sprintf("%s supprimé avec succès", h.service.Definition().Label), nil)
}

// Action returns the handler of one lifecycle action. The body is optional.
func (h *Handler) Action(name string) gin.HandlerFunc {
	return func(c *gin.Context) {
		payload, ok := h.bindRecord(c, true)
		if !ok {
			return
		}

		rec, err := h.service.Transition(c.Request.Context(), c.Param("id"), name, payload)
		if err != nil {
			h.writeServiceError(c, err)
			return
		}

		response.Success(c, http.StatusOK, "Action effectuée avec succès", rec)
	}
}

// Export writes every filtered and sorted row, ignoring paging, as an xlsx sheet.
func (h *Handler) Export(c *gin.Context) {
	def := h.service.Definition()
	params := query.ParamsFromValues(c.Request.URL.Query())

	rows, err := h.service.Search(c.Request.Context(), params)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	columns := def.Export
	if len(columns) == 0 {
		columns = export.ColumnsFor(fieldsOf(rows)...)
	}

	var buf bytes.Buffer
	if err := export.WriteXLSX(&buf, def.Label, columns, rows); err != nil {
		h.logger.Error("export failed", zap.Error(err))
		h.writeServiceError(c, err)
		return
	}

	filename := fmt.Sprintf("%s-%s.xlsx", def.Name, time.Now().Format("20060102"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, export.ContentTypeXLSX, buf.Bytes())
}

// fieldsOf lists the scalar fields found across rows, id first.
func fieldsOf(rows []store.Record) []string {
	seen := map[string]bool{"id": true}
	var fields []string
	for _, r := range rows {
		for k, v := range r {
			if seen[k] {
				continue
			}
			switch v.(type) {
			case map[string]any, store.Record, []any:
				continue
			}
			seen[k] = true
			fields = append(fields, k)
		}
	}
	sort.Strings(fields)
	return append([]string{"id"}, fields...)
}
