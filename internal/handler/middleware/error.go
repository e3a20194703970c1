package middleware

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"

	"salon-booking/internal/handler/httperr"

	"github.com/gin-gonic/gin"
)

// ErrorHandler renders the last recorded error when no handler wrote a body.
// Errors recorded through httperr carry their rendered response; anything
// else is classified here.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() || len(c.Errors) == 0 {
			return
		}

		last := c.Errors.Last()
		if resp, ok := last.Meta.(httperr.Response); ok && last.IsType(gin.ErrorTypePublic) {
			c.JSON(resp.Status, resp)
			return
		}
		httperr.Respond(c, last.Err)
	}
}

func CustomRecovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			// net/http uses this sentinel to abort a response on purpose.
			if err, ok := rec.(error); ok && errors.Is(err, http.ErrAbortHandler) {
				panic(rec)
			}

			attrs := []any{
				"error", fmt.Sprint(rec),
				"request_id", GetRequestID(c),
				"method", c.Request.Method,
				"path", c.Request.URL.Path,
			}
			if gin.Mode() != gin.ReleaseMode {
				attrs = append(attrs, "stack", string(debug.Stack()))
			}
			slog.Error("recovered from panic", attrs...)

			resp := httperr.InternalResponse()
			c.AbortWithStatusJSON(resp.Status, resp)
		}()
		c.Next()
	}
}
