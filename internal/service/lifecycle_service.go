package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"gorm.io/gorm"

	"github.com/qs3c/classifieds_server/internal/model"
	"github.com/qs3c/classifieds_server/internal/pkg/metrics"
	"github.com/qs3c/classifieds_server/internal/pkg/storage"
	"github.com/qs3c/classifieds_server/internal/repository"
)

const purgeBatchSize = 100

// IsVisible 公开列表和详情只返回未过期的条目
func IsVisible(entry *model.Entry) bool {
	return !entry.IsExpired
}

// IsWritable 只有所有者可以修改或删除，与是否过期无关
func IsWritable(entry *model.Entry, userID int64) bool {
	return entry.UserID == userID
}

type LifecycleService struct {
	planRepo  *repository.PlanRepository
	entryRepo *repository.EntryRepository
	store     storage.Store
	log       *slog.Logger
	now       func() time.Time
}

func NewLifecycleService(
	planRepo *repository.PlanRepository,
	entryRepo *repository.EntryRepository,
	store storage.Store,
	log *slog.Logger,
) *LifecycleService {
	return &LifecycleService{
		planRepo:  planRepo,
		entryRepo: entryRepo,
		store:     store,
		log:       log,
		now:       time.Now,
	}
}

func expiryCutoff(now time.Time, plan *model.Plan) time.Time {
	return now.Add(-time.Duration(plan.DaysToExpire) * 24 * time.Hour)
}

// ExpireEntries 按套餐把 now - created_at >= days_to_expire 的条目标记为过期。
// 没有套餐的用户的条目不会过期。单个套餐失败不影响其他套餐，下次执行会重试。
func (s *LifecycleService) ExpireEntries(ctx context.Context) (int64, error) {
	plans, err := s.planRepo.List()
	if err != nil {
		return 0, fmt.Errorf("list plans: %w", err)
	}

	now := s.now()
	var total int64
	var errs []error
	for i := range plans {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}

		plan := &plans[i]
		affected, err := s.entryRepo.MarkExpired(plan.ID, expiryCutoff(now, plan), now)
		if err != nil {
			s.log.Error("expire entries failed",
				slog.Int64("plan_id", plan.ID),
				slog.Any("error", err))
			errs = append(errs, fmt.Errorf("plan %d: %w", plan.ID, err))
			continue
		}
		if affected > 0 {
			s.log.Info("entries expired",
				slog.Int64("plan_id", plan.ID),
				slog.String("plan", plan.Name),
				slog.Int64("count", affected))
		}
		total += affected
	}

	metrics.EntriesExpired.Add(float64(total))
	return total, errors.Join(errs...)
}

// PendingExpirations 下次执行会被标记的条目数
func (s *LifecycleService) PendingExpirations(ctx context.Context) (int64, error) {
	plans, err := s.planRepo.List()
	if err != nil {
		return 0, err
	}

	now := s.now()
	var total int64
	for i := range plans {
		if err := ctx.Err(); err != nil {
			return total, err
		}
		count, err := s.entryRepo.CountExpirable(plans[i].ID, expiryCutoff(now, &plans[i]))
		if err != nil {
			return total, err
		}
		total += count
	}
	return total, nil
}

// PurgeExpired 删除过期超过 retentionDays 天的条目及其图片
func (s *LifecycleService) PurgeExpired(ctx context.Context, retentionDays int, dryRun bool) (int, error) {
	if retentionDays <= 0 {
		return 0, errors.New("retention days must be positive")
	}
	cutoff := s.now().AddDate(0, 0, -retentionDays)

	if dryRun {
		entries, err := s.entryRepo.ListPurgeable(cutoff, 10000)
		return len(entries), err
	}

	purged := 0
	for {
		if err := ctx.Err(); err != nil {
			return purged, err
		}

		entries, err := s.entryRepo.ListPurgeable(cutoff, purgeBatchSize)
		if err != nil {
			return purged, err
		}
		if len(entries) == 0 {
			break
		}

		for i := range entries {
			keys, err := s.entryRepo.Delete(entries[i].ID)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					continue
				}
				return purged, err
			}
			removeObjects(ctx, s.store, s.log, keys)
			purged++
		}

		if len(entries) < purgeBatchSize {
			break
		}
	}

	if purged > 0 {
		s.log.Info("expired entries purged", slog.Int("count", purged))
	}
	metrics.EntriesPurged.Add(float64(purged))
	return purged, nil
}
