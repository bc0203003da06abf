package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Nirob844/mini-e-commerce-microservices/shared/apperr"
)

// Response is the success envelope.
type Response struct {
	Success    bool      `json:"success"`
	StatusCode int       `json:"statusCode"`
	Message    string    `json:"message"`
	Data       any       `json:"data,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
}

// ErrorResponse is the failure envelope.
type ErrorResponse struct {
	Success    bool                `json:"success"`
	StatusCode int                 `json:"statusCode"`
	Code       string              `json:"code"`
	Message    string              `json:"message"`
	Timestamp  time.Time           `json:"timestamp"`
	Path       string              `json:"path"`
	Errors     map[string][]string `json:"errors,omitempty"`
}

func Respond(c *gin.Context, status int, message string, data any) {
	c.JSON(status, Response{
		Success:    true,
		StatusCode: status,
		Message:    message,
		Data:       data,
		Timestamp:  time.Now().UTC(),
	})
}

func RespondOK(c *gin.Context, message string, data any) {
	Respond(c, http.StatusOK, message, data)
}

func RespondCreated(c *gin.Context, message string, data any) {
	Respond(c, http.StatusCreated, message, data)
}

// RespondWithError renders err with the failure envelope. Unclassified
// errors are reported as internal errors and recorded on the context for the
// access log.
func RespondWithError(c *gin.Context, err error) {
	ae := apperr.From(err)
	if ae.Status() >= http.StatusInternalServerError {
		_ = c.Error(err)
	}
	status := ae.Status()
	c.JSON(status, ErrorResponse{
		Success:    false,
		StatusCode: status,
		Code:       ae.Code,
		Message:    ae.Message,
		Timestamp:  time.Now().UTC(),
		Path:       c.Request.URL.Path,
		Errors:     ae.Fields,
	})
}
