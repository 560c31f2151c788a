package service

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/qs3c/classifieds_server/config"
	"github.com/qs3c/classifieds_server/internal/model"
	"github.com/qs3c/classifieds_server/internal/model/dto"
	"github.com/qs3c/classifieds_server/internal/pkg/validate"
	"github.com/qs3c/classifieds_server/internal/repository"
)

var (
	ErrPlanNotFound = errors.New("plan not found")
	// ErrDefaultPlanMissing 启动时未执行 seed
	ErrDefaultPlanMissing = errors.New("default plan is not provisioned")
)

type PlanService struct {
	planRepo *repository.PlanRepository
	cfg      *config.Config
}

func NewPlanService(planRepo *repository.PlanRepository, cfg *config.Config) *PlanService {
	return &PlanService{
		planRepo: planRepo,
		cfg:      cfg,
	}
}

// DefaultPlan 新注册用户使用的套餐，只读不创建
func (s *PlanService) DefaultPlan() (*model.Plan, error) {
	plan, err := s.planRepo.GetByName(s.cfg.Plans.Default.Name)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDefaultPlanMissing
		}
		return nil, err
	}
	return plan, nil
}

func (s *PlanService) Get(id int64) (*model.Plan, error) {
	plan, err := s.planRepo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPlanNotFound
		}
		return nil, err
	}
	return plan, nil
}

func (s *PlanService) List() ([]*dto.PlanInfo, error) {
	plans, err := s.planRepo.List()
	if err != nil {
		return nil, err
	}

	items := make([]*dto.PlanInfo, 0, len(plans))
	for i := range plans {
		items = append(items, toPlanInfo(&plans[i]))
	}
	return items, nil
}

func (s *PlanService) Create(req *dto.CreatePlanRequest) (*dto.PlanInfo, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, validate.Field("name", "This field may not be blank.")
	}

	exists, err := s.planRepo.ExistsByName(name)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, validate.Field("name", "plan with this name already exists.")
	}

	plan := &model.Plan{
		Name:           name,
		MaxEntries:     *req.MaxEntries,
		MaxEntryImages: *req.MaxEntryImages,
		DaysToExpire:   *req.DaysToExpire,
	}
	if err := s.planRepo.Create(plan); err != nil {
		return nil, err
	}
	return toPlanInfo(plan), nil
}
