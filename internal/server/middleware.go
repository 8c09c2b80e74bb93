package server

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/MarcoPoloResearchLab/inkwell/internal/auth"
	"github.com/MarcoPoloResearchLab/inkwell/internal/users"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	requestIDHeader     = "X-Request-ID"
	requestIDContextKey = "inkwell_request_id"
	maxRequestIDLength  = 128
)

type responseMode int

const (
	htmlResponse responseMode = iota
	jsonResponse
)

func requestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := strings.TrimSpace(c.GetHeader(requestIDHeader))
		if requestID == "" || len(requestID) > maxRequestIDLength {
			requestID = uuid.NewString()
		}
		c.Set(requestIDContextKey, requestID)
		c.Header(requestIDHeader, requestID)
		c.Next()
	}
}

func requestLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		started := time.Now()
		c.Next()

		status := c.Writer.Status()
		level := zapcore.InfoLevel
		if status >= http.StatusInternalServerError {
			level = zapcore.ErrorLevel
		}
		logger.Check(level, "http request").Write(
			zap.String("request_id", c.GetString(requestIDContextKey)),
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", status),
			zap.Duration("latency", time.Since(started)),
		)
	}
}

// requireAuthor resolves the session cookie into the current author.
// Pages redirect anonymous visitors to registration; JSON endpoints answer 401.
func (h *httpHandler) requireAuthor(mode responseMode) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := h.validator.ValidateRequest(c.Request)
		var authorID users.UserID
		if err == nil {
			authorID, err = claims.UserID()
		}
		if err != nil {
			h.logSessionFailure(c, err)
			if mode == jsonResponse {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Authentication required."})
				return
			}
			c.Redirect(http.StatusFound, "/register")
			c.Abort()
			return
		}
		c.Set(authorIDContextKey, authorID)
		c.Next()
	}
}

func (h *httpHandler) logSessionFailure(c *gin.Context, err error) {
	fields := []zap.Field{
		zap.String("request_id", c.GetString(requestIDContextKey)),
		zap.String("path", c.Request.URL.Path),
		zap.Error(err),
	}
	switch {
	case errors.Is(err, auth.ErrMissingSessionToken):
		h.logger.Debug("session cookie missing", fields...)
	case errors.Is(err, auth.ErrExpiredSessionToken):
		h.logger.Info("session validation failed", fields...)
	default:
		h.logger.Warn("session validation failed", fields...)
	}
}

func currentAuthor(c *gin.Context) users.UserID {
	value, ok := c.Get(authorIDContextKey)
	if !ok {
		return 0
	}
	authorID, _ := value.(users.UserID)
	return authorID
}
