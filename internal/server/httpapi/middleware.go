package httpapi

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/dmitrijs2005/tyrekeeper/internal/common"
	"github.com/dmitrijs2005/tyrekeeper/internal/logging"
	"github.com/dmitrijs2005/tyrekeeper/internal/server/auth"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const requestIDKey = "request_id"

// requestID propagates the caller's X-Request-Id or generates one.
func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(common.RequestIDHeaderName)
		if id == "" {
			id = uuid.New().String()
		}
		c.Set(requestIDKey, id)
		c.Header(common.RequestIDHeaderName, id)
		c.Next()
	}
}

func requestLogger(log logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		args := []any{
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", status,
			"latency", time.Since(start).String(),
			"client_ip", c.ClientIP(),
			requestIDKey, c.GetString(requestIDKey),
		}
		switch {
		case status >= http.StatusInternalServerError:
			log.Error(c.Request.Context(), "request", args...)
		case status >= http.StatusBadRequest:
			log.Warn(c.Request.Context(), "request", args...)
		default:
			log.Info(c.Request.Context(), "request", args...)
		}
	}
}

func corsAllowAll() gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.Writer.Header()
		h.Set("Access-Control-Allow-Origin", "*")
		h.Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		h.Set("Access-Control-Allow-Headers", "Authorization, Content-Type, X-Request-Id")
		h.Set("Access-Control-Expose-Headers", common.RequestIDHeaderName)

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

func recovery(log logging.Logger) gin.HandlerFunc {
	return gin.CustomRecoveryWithWriter(nil, func(c *gin.Context, rec any) {
		log.Error(c.Request.Context(), "panic recovered", "panic", fmt.Sprint(rec), requestIDKey, c.GetString(requestIDKey))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	})
}

// authenticate rejects the request unless it carries a valid bearer token,
// and otherwise attaches the token's identity to the request context.
func authenticate(secret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader(common.AuthorizationHeaderName)
		if header == "" {
			fail(c, common.ErrMissingAuthHeader, "")
			c.Abort()
			return
		}

		scheme, token, ok := strings.Cut(header, " ")
		token = strings.TrimSpace(token)
		if !ok || !strings.EqualFold(scheme, common.BearerScheme) || token == "" {
			fail(c, common.ErrInvalidToken, "")
			c.Abort()
			return
		}

		id, err := auth.ParseToken(token, secret)
		if err != nil {
			fail(c, err, "")
			c.Abort()
			return
		}

		c.Request = c.Request.WithContext(auth.WithIdentity(c.Request.Context(), id))
		c.Next()
	}
}

// errorResponder turns the last error a handler recorded into the JSON
// response. Handlers never write error bodies themselves.
func errorResponder(log logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		last := c.Errors.Last()
		fallback, _ := last.Meta.(string)
		status, msg := responseFor(last.Err, fallback)

		if status >= http.StatusInternalServerError {
			log.Error(c.Request.Context(), "request failed", "error", last.Err, requestIDKey, c.GetString(requestIDKey))
		} else {
			log.Debug(c.Request.Context(), "request rejected", "error", last.Err, requestIDKey, c.GetString(requestIDKey))
		}

		c.AbortWithStatusJSON(status, gin.H{"error": msg})
	}
}

// fail records err for errorResponder together with the route's fallback
// message for store failures.
func fail(c *gin.Context, err error, fallback string) {
	_ = c.Error(err).SetType(gin.ErrorTypePrivate).SetMeta(fallback)
}
