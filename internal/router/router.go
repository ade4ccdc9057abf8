package router

import (
	"github.com/cloudwego/hertz/pkg/app/server"

	"TapTrack/internal/handler"
	"TapTrack/internal/middleware"
)

func Register(h *server.Hertz) {

	h.Use(middleware.RecoverMiddleware())
	h.Use(middleware.CORSMiddleware())
	h.Use(middleware.OpenTelemetryMiddleware())

	h.GET("/healthz", handler.Health)

	// 扫卡入口；终端有本地冷却，这里的限流只挡异常流量
	h.POST("/scan", middleware.RateLimitMiddleware(middleware.ScanRateLimitConfig()), handler.Scan)
}
