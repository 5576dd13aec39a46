package server

import (
	"fmt"
	"io"
	"log/slog"
	"runtime/debug"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/kaba-chine/kaba-admin/internal/appstate"
	"github.com/kaba-chine/kaba-admin/internal/common"
)

// Request id header and context key.
const (
	HeaderRequestID = "X-Request-ID"
	ctxKeyRequestID = "request_id"
)

// RequestID reuses the caller's X-Request-ID or assigns a new one.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		rid := c.GetHeader(HeaderRequestID)
		if rid == "" {
			rid = uuid.NewString()
		}

		c.Set(ctxKeyRequestID, rid)
		c.Writer.Header().Set(HeaderRequestID, rid)

		c.Next()
	}
}

// GetRequestID returns the id set by RequestID.
func GetRequestID(c *gin.Context) string {
	return c.GetString(ctxKeyRequestID)
}

// Logger writes one access log line per request.
func Logger(l *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		path := c.Request.URL.Path
		if q := c.Request.URL.RawQuery; q != "" {
			path = path + "?" + q
		}

		c.Next()

		status := c.Writer.Status()
		level := slog.LevelInfo
		if status >= 500 {
			level = slog.LevelError
		} else if status >= 400 {
			level = slog.LevelWarn
		}

		attrs := []slog.Attr{
			slog.String("request_id", GetRequestID(c)),
			slog.String("method", c.Request.Method),
			slog.String("path", path),
			slog.Int("status", status),
			slog.Duration("latency", time.Since(start)),
			slog.Int("bytes", c.Writer.Size()),
			slog.String("client_ip", c.ClientIP()),
		}
		if len(c.Errors) > 0 {
			attrs = append(attrs, slog.String("errors", c.Errors.String()))
		}

		l.LogAttrs(c.Request.Context(), level, "http_request", attrs...)
	}
}

// Recovery logs a panic with its stack and answers 500.
func Recovery(l *slog.Logger) gin.HandlerFunc {
	// gin's own panic output is replaced by the structured log line.
	return gin.CustomRecoveryWithWriter(io.Discard, func(c *gin.Context, recovered any) {
		l.LogAttrs(c.Request.Context(), slog.LevelError, "panic_recovered",
			slog.String("request_id", GetRequestID(c)),
			slog.Any("panic", recovered),
			slog.String("stack", string(debug.Stack())),
		)

		fail(c, fmt.Errorf("panic: %v", recovered))
		writeError(c, l)
	})
}

// ErrorHandler renders the last error attached by a handler.
func ErrorHandler(l *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		writeError(c, l)
	}
}

func writeError(c *gin.Context, l *slog.Logger) {
	if c.Writer.Written() || len(c.Errors) == 0 {
		return
	}

	err := c.Errors.Last().Err
	status := httpStatus(err)
	if status >= 500 {
		l.LogAttrs(c.Request.Context(), slog.LevelError, "request_failed",
			slog.String("request_id", GetRequestID(c)),
			slog.Int("status", status),
			slog.Any("err", err),
		)
	}

	c.AbortWithStatusJSON(status, gin.H{
		"error":      publicMessage(err, status),
		"request_id": GetRequestID(c),
	})
}

// RequireBearer admits requests carrying the administrator password as a bearer token.
func RequireBearer(state *appstate.State) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || strings.TrimSpace(token) == "" {
			fail(c, common.NewUserError("Authentification requise", common.ErrUnauthorized))
			return
		}

		if err := state.CheckPassword(strings.TrimSpace(token)); err != nil {
			fail(c, err)
			return
		}
		c.Next()
	}
}

// fail attaches err for ErrorHandler and stops the chain.
func fail(c *gin.Context, err error) {
	_ = c.Error(err)
	c.Abort()
}
