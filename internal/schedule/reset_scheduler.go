package schedule

// 镜像重置调度器：定时清空表头以下的所有数据行，表头损坏时顺手修复

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"TapTrack/internal/mirror"
	"TapTrack/pkg/logger"
	"TapTrack/pkg/metrics"
)

type ResetScheduler struct {
	logger *zap.Logger
	mirror *mirror.Mirror

	jobMu      sync.Mutex
	jobRunning bool
}

func NewResetScheduler(m *mirror.Mirror) *ResetScheduler {
	return &ResetScheduler{
		logger: logger.Logger,
		mirror: m,
	}
}

// ResetMirror 单次清理：确认表头后清掉数据区；只有表头时不动
// 这个任务从不触碰数据库
func (s *ResetScheduler) ResetMirror(ctx context.Context, trigger string) error {
	s.jobMu.Lock()
	if s.jobRunning {
		s.jobMu.Unlock()
		s.logger.Info("Mirror reset already running, skipping", zap.String("trigger", trigger))
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

	cleared, err := s.mirror.Clear(ctx)
	if err != nil {
		s.logger.Error("Failed to clear mirror",
			zap.String("trigger", trigger),
			zap.Error(err),
		)
		return err
	}

	if cleared == 0 {
		s.logger.Info("Nothing to clear, only header present",
			zap.String("trigger", trigger),
		)
		return nil
	}

	metrics.RecordResetCleared(ctx, cleared)
	s.logger.Info("Mirror cleared below header",
		zap.String("trigger", trigger),
		zap.Int64("rows_cleared", cleared),
		zap.Duration("duration", time.Since(startTime)),
	)

	return nil
}
