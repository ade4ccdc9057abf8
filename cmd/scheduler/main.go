package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"TapTrack/config"
	"TapTrack/internal/mirror"
	"TapTrack/internal/schedule"
	"TapTrack/internal/service"
	"TapTrack/pkg/logger"
	"TapTrack/pkg/metrics"
	"TapTrack/pkg/snowflake"
	"TapTrack/storage"
	"TapTrack/storage/database"
)

// 调度进程跑三个独立任务：
//  1. 镜像同步：每个周期把表格里的人工改动折回数据库
//  2. 每日重置：在本地 SHEET_RESET_HOUR 清空镜像数据区
//  3. 每小时重置：其余整点再清一次，兜住白天被误粘进来的行
func main() {
	logger.Init()
	defer logger.Sync()

	config.MustValidate()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		sig := <-sigChan
		logger.Logger.Info("Received shutdown signal",
			zap.String("signal", sig.String()),
		)
		cancel()
	}()

	if err := storage.Init(ctx); err != nil {
		logger.Logger.Fatal("Failed to initialize storage", zap.Error(err))
	}
	defer storage.Close()

	if err := snowflake.Init(config.Cfg.SnowflakeMachineID, config.Cfg.SnowflakeDataCenter); err != nil {
		logger.Logger.Fatal("Failed to initialize snowflake", zap.Error(err))
	}

	if err := metrics.InitMetrics(); err != nil {
		logger.Logger.Warn("Failed to initialize metrics", zap.Error(err))
	}

	attendance := service.NewAttendance(database.DB(), config.Cfg.Location())
	sheetMirror := mirror.NewGoogle()

	syncScheduler := schedule.NewSyncScheduler(attendance, sheetMirror)
	resetScheduler := schedule.NewResetScheduler(sheetMirror)

	logger.Logger.Info("Scheduler starting",
		zap.String("service", config.Cfg.ServiceName),
		zap.String("timezone", config.Cfg.Timezone),
		zap.Duration("sync_interval", config.Cfg.SheetSyncInterval()),
		zap.Int("reset_hour", config.Cfg.SheetResetHour),
	)

	go runMirrorSyncLoop(ctx, syncScheduler)
	go runDailyResetLoop(ctx, resetScheduler)
	go runHourlyResetLoop(ctx, resetScheduler)

	<-ctx.Done()
	logger.Logger.Info("Scheduler shutting down gracefully")
}

// runMirrorSyncLoop 启动时立刻同步一轮，之后按固定周期执行
func runMirrorSyncLoop(ctx context.Context, s *schedule.SyncScheduler) {
	interval := config.Cfg.SheetSyncInterval()

	runOnce := func() {
		runCtx, cancel := context.WithTimeout(ctx, interval)
		defer cancel()
		if err := s.SyncMirror(runCtx); err != nil {
			logger.Logger.Error("Mirror sync run failed", zap.Error(err))
		}
	}

	runOnce()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Logger.Info("Mirror sync loop stopped")
			return
		case <-ticker.C:
			runOnce()
		}
	}
}

// runDailyResetLoop 在每天本地 SHEET_RESET_HOUR 点触发一次全量清理
func runDailyResetLoop(ctx context.Context, s *schedule.ResetScheduler) {
	loc := config.Cfg.Location()

	for {
		next := nextDailyReset(time.Now().In(loc))
		logger.Logger.Info("Next daily mirror reset scheduled",
			zap.Time("at", next),
		)

		timer := time.NewTimer(time.Until(next))
		select {
		case <-ctx.Done():
			timer.Stop()
			logger.Logger.Info("Daily reset loop stopped")
			return
		case <-timer.C:
		}

		runCtx, cancel := context.WithTimeout(ctx, 2*time.Minute)
		if err := s.ResetMirror(runCtx, "daily"); err != nil {
			logger.Logger.Error("Daily mirror reset failed", zap.Error(err))
		}
		cancel()
	}
}

// runHourlyResetLoop 在每日重置之外的每个整点再清一次
func runHourlyResetLoop(ctx context.Context, s *schedule.ResetScheduler) {
	loc := config.Cfg.Location()

	for {
		next := nextHourlyReset(time.Now().In(loc))

		timer := time.NewTimer(time.Until(next))
		select {
		case <-ctx.Done():
			timer.Stop()
			logger.Logger.Info("Hourly reset loop stopped")
			return
		case <-timer.C:
		}

		runCtx, cancel := context.WithTimeout(ctx, 2*time.Minute)
		if err := s.ResetMirror(runCtx, "hourly"); err != nil {
			logger.Logger.Error("Hourly mirror reset failed", zap.Error(err))
		}
		cancel()
	}
}

// nextDailyReset 计算下一个每日重置时刻
func nextDailyReset(now time.Time) time.Time {
	next := time.Date(now.Year(), now.Month(), now.Day(), config.Cfg.SheetResetHour, 0, 0, 0, now.Location())
	if !next.After(now) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}

// nextHourlyReset 计算下一个整点，跳过归每日任务负责的那个小时
func nextHourlyReset(now time.Time) time.Time {
	next := now.Truncate(time.Hour).Add(time.Hour)
	if next.Hour() == config.Cfg.SheetResetHour {
		next = next.Add(time.Hour)
	}
	return next
}
