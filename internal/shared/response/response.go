package response

import (
	"github.com/gin-gonic/gin"
)

const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Envelope is the shape of every API response.
type Envelope struct {
	Status          string `json:"status"`
	Message         string `json:"message"`
	Data            any    `json:"data"`
	RecordsTotal    *int   `json:"recordsTotal,omitempty"`
	RecordsFiltered *int   `json:"recordsFiltered,omitempty"`
	Code            string `json:"code,omitempty"`
}

func Success(c *gin.Context, status int, message string, data any) {
	c.JSON(status, Envelope{
		Status:  StatusSuccess,
		Message: message,
		Data:    data,
	})
}

// Paged writes a list page with its unfiltered and filtered counts.
func Paged(c *gin.Context, status int, message string, data any, recordsTotal, recordsFiltered int) {
	c.JSON(status, Envelope{
		Status:          StatusSuccess,
		Message:         message,
		Data:            data,
		RecordsTotal:    &recordsTotal,
		RecordsFiltered: &recordsFiltered,
	})
}

func Error(c *gin.Context, status int, code string, message string) {
	c.JSON(status, Envelope{
		Status:  StatusError,
		Message: message,
		Data:    nil,
		Code:    code,
	})
}

// Abort writes an error envelope and stops the middleware chain.
func Abort(c *gin.Context, status int, code string, message string) {
	Error(c, status, code, message)
	c.Abort()
}
