package cron

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Lifecycle 定时任务需要的条目生命周期操作，由 service.LifecycleService 实现
type Lifecycle interface {
	ExpireEntries(ctx context.Context) (int64, error)
	PurgeExpired(ctx context.Context, retentionDays int, dryRun bool) (int, error)
}

type Service struct {
	lifecycle      Lifecycle
	interval       time.Duration
	purgeAfterDays int
	log            *slog.Logger
	stopChan       chan struct{}
	stopOnce       sync.Once
	// 同一时间只执行一轮
	running sync.Mutex
}

func NewService(lifecycle Lifecycle, intervalMinutes, purgeAfterDays int, log *slog.Logger) *Service {
	if intervalMinutes <= 0 {
		intervalMinutes = 60
	}
	return &Service{
		lifecycle:      lifecycle,
		interval:       time.Duration(intervalMinutes) * time.Minute,
		purgeAfterDays: purgeAfterDays,
		log:            log,
		stopChan:       make(chan struct{}),
	}
}

// Start 启动定时任务
func (s *Service) Start() {
	go s.runSweep()
	s.log.Info("cron service started",
		slog.Duration("interval", s.interval),
		slog.Int("purge_after_days", s.purgeAfterDays))
}

// Stop 停止定时任务，可重复调用
func (s *Service) Stop() {
	s.stopOnce.Do(func() {
		close(s.stopChan)
		s.log.Info("cron service stopped")
	})
}

// runSweep 按固定间隔执行过期标记和清理
func (s *Service) runSweep() {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopChan:
			return
		case <-ticker.C:
			if err := s.RunNow(context.Background()); err != nil {
				s.log.Error("lifecycle sweep failed", slog.Any("error", err))
			}
		}
	}
}

// RunNow 立即执行一轮（用于测试或手动触发）。失败只影响本轮，下一轮会重试。
func (s *Service) RunNow(ctx context.Context) error {
	s.running.Lock()
	defer s.running.Unlock()

	expired, err := s.lifecycle.ExpireEntries(ctx)
	if err != nil {
		return err
	}
	if expired > 0 {
		s.log.Info("lifecycle sweep completed", slog.Int64("expired", expired))
	}

	if s.purgeAfterDays <= 0 {
		return nil
	}

	purged, err := s.lifecycle.PurgeExpired(ctx, s.purgeAfterDays, false)
	if err != nil {
		return err
	}
	if purged > 0 {
		s.log.Info("expired entries purged", slog.Int("purged", purged))
	}
	return nil
}
