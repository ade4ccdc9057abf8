package middleware

import (
	"context"
	"fmt"
	"runtime/debug"
	"strings"

	"github.com/cloudwego/hertz/pkg/app"
	"go.uber.org/zap"

	"TapTrack/config"
	"TapTrack/pkg/errors"
	"TapTrack/pkg/logger"
	"TapTrack/pkg/response"
)

// RecoverMiddleware 捕获 handler panic，记录日志并回 500
func RecoverMiddleware() app.HandlerFunc {
	isProduction := config.Cfg.IsProduction()

	return func(ctx context.Context, c *app.RequestContext) {
		defer func() {
			if err := recover(); err != nil {
				handlePanic(ctx, c, err, isProduction)
			}
		}()

		c.Next(ctx)
	}
}

func handlePanic(ctx context.Context, c *app.RequestContext, err interface{}, isProduction bool) {
	stack := debug.Stack()

	fields := []zap.Field{
		zap.String("panic", fmt.Sprintf("%v", err)),
		zap.String("path", string(c.Path())),
		zap.String("method", string(c.Method())),
		zap.String("client_ip", c.ClientIP()),
		zap.ByteString("stack", stack),
	}

	if requestID := string(c.GetHeader("X-Request-ID")); requestID != "" {
		fields = append(fields, zap.String("request_id", requestID))
	}

	logger.Logger.Error("[PANIC RECOVERED]", fields...)

	errDef := errors.Definition{
		Code:    "INTERNAL_SERVER_ERROR",
		Message: "Internal server error",
	}
	if !isProduction {
		errDef.Message = fmt.Sprintf("Internal error: %v", err)
		response.ErrorWithDetails(ctx, c, errDef, map[string]interface{}{
			"stack": firstStackLines(stack, 20),
		})
		return
	}

	response.Error(ctx, c, errDef)
}

// firstStackLines 开发环境下只回前若干行堆栈
func firstStackLines(stack []byte, n int) string {
	lines := strings.Split(string(stack), "\n")
	if len(lines) > n {
		lines = lines[:n]
	}
	return strings.Join(lines, "\n")
}
