package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sanjeevkumarraob/file-extractor-service/internal/auth"
)

const (
	requestIDHeader = "X-Request-ID"
	clientIDKey     = "client_id"
)

// LoggerMiddleware creates a custom logging middleware
func LoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		// Start timer
		start := time.Now()
		path := c.Request.URL.Path

		requestID := c.GetHeader(requestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Header(requestIDHeader, requestID)

		// Process request
		c.Next()

		fields := []zap.Field{
			zap.String("request_id", requestID),
			zap.String("client_ip", c.ClientIP()),
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
		}
		if client := c.GetString(clientIDKey); client != "" {
			fields = append(fields, zap.String("client_id", client))
		}
		if len(c.Errors) > 0 {
			fields = append(fields, zap.String("errors", c.Errors.String()))
		}

		if c.Writer.Status() >= http.StatusInternalServerError {
			logger.Warn("request", fields...)
			return
		}
		logger.Info("request", fields...)
	}
}

// AuthMiddleware rejects requests without a valid bearer token.
func AuthMiddleware(jwtManager *auth.JWTManager, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := auth.BearerToken(c.GetHeader("Authorization"))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Missing bearer token"})
			return
		}

		claims, err := jwtManager.ValidateToken(token)
		if err != nil {
			logger.Debug("token rejected", zap.Error(err))
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid access token"})
			return
		}

		c.Set(clientIDKey, claims.ClientID)
		c.Next()
	}
}
