package handler

import (
	"context"
	"strings"
	"time"

	"github.com/cloudwego/hertz/pkg/app"
	"go.uber.org/zap"

	"TapTrack/internal/cache"
	"TapTrack/internal/mirror"
	"TapTrack/internal/model"
	"TapTrack/internal/service"
	apperrors "TapTrack/pkg/errors"
	"TapTrack/pkg/logger"
	"TapTrack/pkg/metrics"
	"TapTrack/pkg/response"
)

// 扫卡路径的依赖在启动时注入，便于测试替换
type scanDeps struct {
	debouncer  cache.Debouncer
	resolver   *service.TagResolver
	attendance *service.AttendanceService
	mirror     *mirror.Mirror
}

var deps scanDeps

// Init 注入扫卡路径依赖
func Init(debouncer cache.Debouncer, resolver *service.TagResolver, attendance *service.AttendanceService, m *mirror.Mirror) {
	deps = scanDeps{
		debouncer:  debouncer,
		resolver:   resolver,
		attendance: attendance,
		mirror:     m,
	}
}

// Scan 处理一次刷卡
// POST /scan
func Scan(ctx context.Context, c *app.RequestContext) {
	started := time.Now()

	var req model.ScanRequest
	if err := c.Bind(&req); err != nil {
		response.BindError(ctx, c, err)
		return
	}

	tagUID := strings.TrimSpace(req.TagUID)
	if tagUID == "" {
		response.Error(ctx, c, apperrors.TagRequired)
		return
	}

	// 冷却窗口内的重复刷卡直接拒绝；防抖层故障时放行，打卡优先于防重
	accepted, err := deps.debouncer.Accept(ctx, tagUID)
	if err != nil {
		logger.Logger.Warn("Debounce check failed, accepting scan",
			zap.String("tag_uid", tagUID),
			zap.Error(err),
		)
		accepted = true
	}
	if !accepted {
		metrics.RecordDebounced(ctx)
		response.Error(ctx, c, apperrors.ScanCooldownActive)
		return
	}

	binding, err := deps.resolver.Resolve(ctx, tagUID)
	if err != nil {
		if _, ok := err.(apperrors.Definition); !ok {
			logger.Logger.Error("Tag resolve failed",
				zap.String("tag_uid", tagUID),
				zap.Error(err),
			)
		}
		response.Error(ctx, c, err)
		return
	}

	record, action, err := deps.attendance.Process(ctx, binding.EmployeeID, binding.OwnerName)
	if err != nil {
		logger.Logger.Error("Attendance decision failed",
			zap.String("tag_uid", tagUID),
			zap.Int64("employee_id", binding.EmployeeID),
			zap.Error(err),
		)
		response.Error(ctx, c, apperrors.AttendanceStoreFailed)
		return
	}

	// 镜像表是尽力而为的视图，写失败只记日志，不影响打卡结果
	if err := deps.mirror.Upsert(ctx, record.FullName, record.EmployeeID, record.ClockInTime, record.ClockOutTime, record.Date); err != nil {
		metrics.RecordMirrorUpsertFailure(ctx)
		logger.Logger.Warn("Mirror upsert failed",
			zap.Int64("employee_id", record.EmployeeID),
			zap.String("date", record.Date),
			zap.Error(err),
		)
	}

	metrics.RecordScan(ctx, string(action), time.Since(started).Seconds())

	logger.Logger.Info("Scan processed",
		zap.String("tag_uid", tagUID),
		zap.Int64("employee_id", binding.EmployeeID),
		zap.String("action", string(action)),
	)

	response.Success(ctx, c, model.NewScanResponse(binding, record, action))
}
