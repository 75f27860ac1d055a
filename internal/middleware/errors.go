package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/guttosm/cryptopulse/internal/domain/dto"
	"github.com/guttosm/cryptopulse/internal/logger"
)

// AbortWithError stops the handler chain and writes a standardized ErrorResponse.
//
// The response is also recorded on c.Errors so ErrorHandler can log it with
// the request id.
//
// Parameters:
//   - c: the current request context.
//   - status: HTTP status code to return.
//   - message: human-readable summary shown to the client.
//   - err: optional underlying error, exposed as the "error" field.
func AbortWithError(c *gin.Context, status int, message string, err error) {
	resp := dto.NewErrorResponse(message, err)
	_ = c.Error(resp)
	c.AbortWithStatusJSON(status, resp)
}

// ErrorHandler logs errors collected on the gin context once the chain has run.
//
// If a handler recorded an error without writing a response, a generic
// 500 ErrorResponse is sent.
func ErrorHandler(c *gin.Context) {
	c.Next()

	if len(c.Errors) == 0 {
		return
	}

	last := c.Errors.Last()
	rid, _ := c.Get(RequestIDKey)
	logger.L().Warn().
		Str("request_id", toString(rid)).
		Str("path", c.Request.URL.Path).
		Int("errors", len(c.Errors)).
		Err(last.Err).
		Msg("request_error")

	if c.Writer.Written() {
		return
	}
	c.AbortWithStatusJSON(http.StatusInternalServerError, dto.NewErrorResponse("Internal server error", last.Err))
}
