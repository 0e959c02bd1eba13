package payroll

import (
	"net/http"

	"go-sirh/internal/shared/apperror"
	"go-sirh/internal/shared/contextutil"
	"go-sirh/internal/shared/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handler struct {
	service Service
	logger  *zap.Logger
}

func NewHandler(service Service, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("payroll.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("payroll.handler")
	}
	return &Handler{service: service, logger: l}
}

func (h *Handler) writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	h.logger.Warn("request failed", zap.String("path", c.FullPath()), zap.Int("status", httpErr.Status), zap.Error(err))
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message)
}

// Generate computes the missing payslips of a period, or queues the job with ?async=true.
func (h *Handler) Generate(c *gin.Context) {
	ctx := c.Request.Context()
	id := c.Param("id")

	if c.Query("async") == "true" {
		if err := h.service.RequestGeneration(ctx, id); err != nil {
			h.writeServiceError(c, err)
			return
		}
		response.Success(c, http.StatusAccepted, "Génération des bulletins planifiée",
			GenerateQueuedResponse{PeriodeID: id, Status: "queued"})
		return
	}

	n, err := h.service.GenerateForPeriod(ctx, id, contextutil.GetActor(ctx))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Bulletins générés avec succès", GenerateResponse{PeriodeID: id, Generated: n})
}
