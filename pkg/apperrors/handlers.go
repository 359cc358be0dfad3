package apperrors

import (
	"sync/atomic"

	"eventix_backend/internal/logger"

	"github.com/gin-gonic/gin"
)

// ErrorResponse is the failure envelope.
type ErrorResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Code    ErrorCode   `json:"code"`
	Errors  interface{} `json:"errors,omitempty"`
}

var exposeCauses atomic.Bool

// SetDebug makes 5xx responses carry the underlying cause in "errors".
func SetDebug(debug bool) {
	exposeCauses.Store(debug)
}

// HandleError aborts the request with err rendered as an ErrorResponse.
// Errors that are not AppErrors become 500s.
func HandleError(c *gin.Context, err error) {
	appErr, ok := AsAppError(err)
	if !ok {
		appErr = InternalError(err)
	}

	details := appErr.Details
	if appErr.HTTPCode >= 500 {
		logger.CtxWithError(c.Request.Context(), "Server error", appErr,
			"path", c.Request.URL.Path,
			"code", string(appErr.Code),
		)
		if exposeCauses.Load() && appErr.Err != nil {
			details = appErr.Err.Error()
		}
	}

	c.AbortWithStatusJSON(appErr.HTTPCode, ErrorResponse{
		Success: false,
		Message: appErr.Message,
		Code:    appErr.Code,
		Errors:  details,
	})
}
