package catalog

import (
	"net/http"

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
	l := zap.L().Named("catalog.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("catalog.handler")
	}
	return &Handler{service: service, logger: l}
}

func (h *Handler) GetPayroll(c *gin.Context) {
	settings, err := h.service.Settings(c.Request.Context())
	if err != nil {
		httpErr := apperror.ToHTTP(err)
		h.logger.Warn("get payroll settings failed", zap.Error(err))
		response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message)
		return
	}
	response.Success(c, http.StatusOK, "Paramètres de paie récupérés", settings)
}
