package accident

import (
	"net/http"

	"go-sirh/internal/query"
	"go-sirh/internal/shared/apperror"
	"go-sirh/internal/shared/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handler struct {
	service Service
	logger  *zap.Logger
}

func NewHandler(service Service, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("accident.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("accident.handler")
	}
	return &Handler{service: service, logger: l}
}

func (h *Handler) Statistics(c *gin.Context) {
	stats, err := h.service.Statistics(c.Request.Context(), query.ParamsFromValues(c.Request.URL.Query()))
	if err != nil {
		httpErr := apperror.ToHTTP(err)
		h.logger.Warn("request failed", zap.String("path", c.FullPath()), zap.Int("status", httpErr.Status), zap.Error(err))
		response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message)
		return
	}
	response.Success(c, http.StatusOK, "Statistiques récupérées avec succès", stats)
}
