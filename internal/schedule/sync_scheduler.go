package schedule

// 镜像同步调度器：周期性把表格镜像的数据行回写进数据库

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"TapTrack/internal/mirror"
	"TapTrack/internal/service"
	"TapTrack/pkg/logger"
	"TapTrack/pkg/metrics"
	"TapTrack/pkg/snowflake"
)

type SyncScheduler struct {
	logger     *zap.Logger
	attendance *service.AttendanceService
	mirror     *mirror.Mirror

	jobRunning  bool
	jobMu       sync.Mutex
	lastRunTime time.Time
}

func NewSyncScheduler(attendance *service.AttendanceService, m *mirror.Mirror) *SyncScheduler {
	return &SyncScheduler{
		logger:     logger.Logger,
		attendance: attendance,
		mirror:     m,
	}
}

// SyncMirror 单轮同步：读全表，逐行 last-write-wins 回写
// 单行失败只记日志，整批继续；空员工号的行静默跳过
func (s *SyncScheduler) SyncMirror(ctx context.Context) error {
	s.jobMu.Lock()
	if s.jobRunning {
		s.jobMu.Unlock()
		s.logger.Info("Mirror sync already running, skipping")
		return nil
	}
	s.jobRunning = true
	s.jobMu.Unlock()

	defer func() {
		s.jobMu.Lock()
		s.jobRunning = false
		s.jobMu.Unlock()
	}()

	startTime := time.Now()
	s.lastRunTime = startTime

	batchID, err := snowflake.NextID()
	if err != nil {
		s.logger.Warn("Failed to generate sync batch ID", zap.Error(err))
	}

	rows, err := s.mirror.ReadAll(ctx)
	if err != nil {
		s.logger.Error("Failed to read mirror rows",
			zap.Int64("batch_id", batchID),
			zap.Error(err),
		)
		return err
	}

	if len(rows) == 0 {
		s.logger.Info("No data found in mirror", zap.Int64("batch_id", batchID))
		return nil
	}

	var synced, skipped, failed int
	for _, row := range rows {
		if row.EmployeeID == 0 {
			skipped++
			continue
		}

		if err := s.attendance.UpsertFromMirror(ctx, row); err != nil {
			failed++
			metrics.RecordSyncRow(ctx, false)
			s.logger.Error("Failed to sync mirror row",
				zap.Int64("batch_id", batchID),
				zap.Int64("employee_id", row.EmployeeID),
				zap.Error(err),
			)
			continue
		}

		synced++
		metrics.RecordSyncRow(ctx, true)
	}

	s.logger.Info("Mirror sync completed",
		zap.Int64("batch_id", batchID),
		zap.Int("synced", synced),
		zap.Int("skipped", skipped),
		zap.Int("failed", failed),
		zap.Duration("duration", time.Since(startTime)),
	)

	return nil
}
