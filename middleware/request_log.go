package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/postly/postly/utils"
)

// ContextRequestIDKey stores the request id assigned to each request.
const ContextRequestIDKey = "request_id"

// RequestLogger tags every request with a uuid and writes one structured
// access log line when the handler chain finishes.
func RequestLogger() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		reqID := uuid.NewString()
		ctx.Set(ContextRequestIDKey, reqID)
		ctx.Header("X-Request-ID", reqID)

		start := time.Now()
		ctx.Next()

		if utils.Logger == nil {
			return
		}
		utils.Logger.Info("request",
			zap.String("request_id", reqID),
			zap.String("method", ctx.Request.Method),
			zap.String("path", ctx.Request.URL.Path),
			zap.Int("status", ctx.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("client_ip", ctx.ClientIP()),
		)
	}
}
