package service

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/qs3c/classifieds_server/internal/model"
	"github.com/qs3c/classifieds_server/internal/model/dto"
	"github.com/qs3c/classifieds_server/internal/pkg/metrics"
	"github.com/qs3c/classifieds_server/internal/repository"
)

// 额度类型
const (
	LimitPlan           = "plan"
	LimitMaxEntries     = "max_entries"
	LimitMaxEntryImages = "max_entry_images"
)

var ErrQuotaExceeded = errors.New("quota exceeded")

// QuotaError 超出套餐限制，Limit 为触发的额度类型
type QuotaError struct {
	Limit   string
	Max     int
	Message string
}

func (e *QuotaError) Error() string {
	return e.Message
}

func (e *QuotaError) Is(target error) bool {
	return target == ErrQuotaExceeded
}

// ErrNoPlan 未分配套餐的用户没有任何额度
var ErrNoPlan = &QuotaError{
	Limit:   LimitPlan,
	Message: "No plan is assigned to this account.",
}

type QuotaService struct {
	accountRepo *repository.AccountRepository
	entryRepo   *repository.EntryRepository
	imageRepo   *repository.ImageRepository
}

func NewQuotaService(
	accountRepo *repository.AccountRepository,
	entryRepo *repository.EntryRepository,
	imageRepo *repository.ImageRepository,
) *QuotaService {
	return &QuotaService{
		accountRepo: accountRepo,
		entryRepo:   entryRepo,
		imageRepo:   imageRepo,
	}
}

func reject(err *QuotaError) error {
	metrics.QuotaRejections.WithLabelValues(err.Limit).Inc()
	return err
}

// CheckEntryQuota 检查能否再创建一个条目，account 需要已加载 Plan。
// 计数与插入不在同一事务中，同一用户并发创建时可能略微超出。
func (s *QuotaService) CheckEntryQuota(account *model.Account) error {
	if account.Plan == nil {
		return reject(ErrNoPlan)
	}

	count, err := s.entryRepo.CountByAccount(account.ID)
	if err != nil {
		return err
	}

	maxEntries := account.Plan.MaxEntries
	if count >= int64(maxEntries) {
		return reject(&QuotaError{
			Limit:   LimitMaxEntries,
			Max:     maxEntries,
			Message: fmt.Sprintf("User has reached the maximum of %d entries.", maxEntries),
		})
	}
	return nil
}

// CheckImageQuota 已存图片数加上本批数量不能超过 max_entry_images，超出则整批拒绝
func (s *QuotaService) CheckImageQuota(owner *model.Account, entryID int64, batch int) error {
	if owner.Plan == nil {
		return reject(ErrNoPlan)
	}

	maxImages := owner.Plan.MaxEntryImages
	exceeded := &QuotaError{
		Limit:   LimitMaxEntryImages,
		Max:     maxImages,
		Message: fmt.Sprintf("Maximum images allowed: %d", maxImages),
	}

	if batch > maxImages {
		return reject(exceeded)
	}

	stored, err := s.imageRepo.CountByEntry(entryID)
	if err != nil {
		return err
	}
	if stored+int64(batch) > int64(maxImages) {
		return reject(exceeded)
	}
	return nil
}

// GetQuotaInfo 当前套餐及使用情况
func (s *QuotaService) GetQuotaInfo(userID int64) (*dto.QuotaInfo, error) {
	account, err := s.accountRepo.GetByIDWithPlan(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, err
	}

	used, err := s.entryRepo.CountByAccount(account.ID)
	if err != nil {
		return nil, err
	}

	info := &dto.QuotaInfo{
		Plan:        toPlanInfo(account.Plan),
		EntriesUsed: used,
	}
	if account.Plan != nil {
		left := int64(account.Plan.MaxEntries) - used
		if left < 0 {
			left = 0
		}
		info.EntriesLeft = left
		info.MaxEntryImages = account.Plan.MaxEntryImages
		info.DaysToExpire = account.Plan.DaysToExpire
	}
	return info, nil
}
