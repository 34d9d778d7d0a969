// Package middleware 提供基于 xlog 的请求日志中间件（gin HTTP 和 gRPC）。
package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shayaansultan/logkit/pkg/xlog"
)

// Logging 返回一个简单的 HTTP 请求日志中间件。
// 会记录 method、path、status、latency 等信息。
func Logging() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		// 处理请求
		c.Next()

		latency := time.Since(start)

		log := xlog.FromContext(c.Request.Context())
		log.Info("http request",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"latency", latency.String(),
			"client_ip", c.ClientIP(),
		)
	}
}

// Recovery 是一个简单的 panic 恢复中间件。
// 发生 panic 时返回 500，并通过 xlog 记录错误日志。
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				log := xlog.FromContext(c.Request.Context())
				log.Error("panic recovered in http handler", "panic", r)

				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
					"code":    http.StatusInternalServerError,
					"message": "internal server error",
				})
			}
		}()

		c.Next()
	}
}

// WithLogger 将指定 Logger 注入请求 context，
// 供后续中间件和 handler 通过 xlog.FromContext 获取。
func WithLogger(logger *xlog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := xlog.WithContext(c.Request.Context(), logger)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}
