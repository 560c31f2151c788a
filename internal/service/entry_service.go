package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/qs3c/classifieds_server/internal/model"
	"github.com/qs3c/classifieds_server/internal/model/dto"
	"github.com/qs3c/classifieds_server/internal/pkg/metrics"
	"github.com/qs3c/classifieds_server/internal/pkg/storage"
	"github.com/qs3c/classifieds_server/internal/pkg/validate"
	"github.com/qs3c/classifieds_server/internal/repository"
)

// ErrEntryNotFound 条目不存在、不可见或不属于当前用户时统一返回
var ErrEntryNotFound = errors.New("Not found.")

// decimal(10,2) 能表示的上限
var maxPrice = decimal.New(1, 8)

type entryAction int

const (
	actionList entryAction = iota
	actionListOwn
	actionRetrieve
	actionCreate
	actionUpdate
	actionPartialUpdate
	actionDestroy
	actionUploadImage
	actionDeleteImage
)

type entryScope int

const (
	// scopeVisible 任何登录用户，只能看到未过期的条目
	scopeVisible entryScope = iota
	// scopeOwner 只能操作自己的条目，包括已过期的
	scopeOwner
)

type entryShape int

const (
	shapeSummary entryShape = iota
	shapeDetail
	shapeImages
	shapeEmpty
)

type entryActionSpec struct {
	scope entryScope
	shape entryShape
	// partial 为 true 时未提交的字段保持不变
	partial bool
}

var entryActions = map[entryAction]entryActionSpec{
	actionList:          {scope: scopeVisible, shape: shapeSummary},
	actionListOwn:       {scope: scopeOwner, shape: shapeSummary},
	actionRetrieve:      {scope: scopeVisible, shape: shapeDetail},
	actionCreate:        {scope: scopeOwner, shape: shapeDetail},
	actionUpdate:        {scope: scopeOwner, shape: shapeDetail},
	actionPartialUpdate: {scope: scopeOwner, shape: shapeDetail, partial: true},
	actionDestroy:       {scope: scopeOwner, shape: shapeEmpty},
	actionUploadImage:   {scope: scopeOwner, shape: shapeImages},
	actionDeleteImage:   {scope: scopeOwner, shape: shapeEmpty},
}

// authorize 第二步权限判断；无权访问与不存在返回同一个错误
func authorize(action entryAction, entry *model.Entry, userID int64) error {
	switch entryActions[action].scope {
	case scopeVisible:
		if !IsVisible(entry) {
			return ErrEntryNotFound
		}
	case scopeOwner:
		if !IsWritable(entry, userID) {
			return ErrEntryNotFound
		}
	}
	return nil
}

func present(action entryAction, entry *model.Entry) interface{} {
	switch entryActions[action].shape {
	case shapeSummary:
		return toEntryListItem(entry)
	case shapeDetail:
		return toEntryDetail(entry)
	default:
		return nil
	}
}

func checkPrice(price decimal.Decimal, fe validate.FieldErrors) {
	switch {
	case price.IsNegative():
		fe["price"] = "Ensure this value is greater than or equal to 0."
	case !price.Equal(price.Truncate(2)):
		fe["price"] = "Ensure that there are no more than 2 decimal places."
	case price.GreaterThanOrEqual(maxPrice):
		fe["price"] = "Ensure that there are no more than 10 digits in total."
	}
}

type EntryService struct {
	entryRepo       *repository.EntryRepository
	accountRepo     *repository.AccountRepository
	quotaService    *QuotaService
	categoryService *CategoryService
	store           storage.Store
	log             *slog.Logger
}

func NewEntryService(
	entryRepo *repository.EntryRepository,
	accountRepo *repository.AccountRepository,
	quotaService *QuotaService,
	categoryService *CategoryService,
	store storage.Store,
	log *slog.Logger,
) *EntryService {
	return &EntryService{
		entryRepo:       entryRepo,
		accountRepo:     accountRepo,
		quotaService:    quotaService,
		categoryService: categoryService,
		store:           store,
		log:             log,
	}
}

// load 先确认条目存在，再按动作判断权限
func (s *EntryService) load(action entryAction, userID, id int64) (*model.Entry, error) {
	entry, err := s.entryRepo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEntryNotFound
		}
		return nil, err
	}

	if err := authorize(action, entry, userID); err != nil {
		return nil, err
	}
	return entry, nil
}

// List 公开列表；mine=true 时返回自己的全部条目（包含已过期）
func (s *EntryService) List(userID int64, query *dto.EntryListQuery) ([]interface{}, int64, error) {
	if query.Page <= 0 {
		query.Page = 1
	}
	if query.PageSize <= 0 {
		query.PageSize = 20
	}

	action := actionList
	var entries []model.Entry
	var total int64
	var err error
	if query.Mine {
		action = actionListOwn
		entries, total, err = s.entryRepo.ListByAccount(userID, query.Page, query.PageSize)
	} else {
		entries, total, err = s.entryRepo.ListVisible(repository.EntryFilter{
			Category: query.Category,
			Search:   query.Search,
		}, query.Page, query.PageSize)
	}
	if err != nil {
		return nil, 0, err
	}

	items := make([]interface{}, 0, len(entries))
	for i := range entries {
		if err := authorize(action, &entries[i], userID); err != nil {
			continue
		}
		items = append(items, present(action, &entries[i]))
	}
	return items, total, nil
}

// Get 详情，只返回未过期的条目
func (s *EntryService) Get(userID, id int64) (*dto.EntryDetail, error) {
	entry, err := s.load(actionRetrieve, userID, id)
	if err != nil {
		return nil, err
	}
	return present(actionRetrieve, entry).(*dto.EntryDetail), nil
}

// Create 校验字段和额度后创建条目，所有者为当前用户
func (s *EntryService) Create(userID int64, req *dto.CreateEntryRequest) (*dto.EntryDetail, error) {
	account, err := s.accountRepo.GetByIDWithPlan(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, err
	}

	fe := validate.FieldErrors{}
	if req.Price == nil {
		fe["price"] = "This field is required."
	} else {
		checkPrice(*req.Price, fe)
	}
	if !validate.IsPhone(req.PhoneNumber) {
		fe["phone_number"] = "Invalid phone number."
	}

	category, err := s.categoryService.Resolve(req.Category)
	if err := mergeFieldErrors(fe, err); err != nil {
		return nil, err
	}
	if len(fe) > 0 {
		return nil, fe
	}

	if err := s.quotaService.CheckEntryQuota(account); err != nil {
		return nil, err
	}

	entry := &model.Entry{
		UserID:      account.ID,
		CategoryID:  category.ID,
		Title:       req.Title,
		Description: req.Description,
		Price:       *req.Price,
		PhoneNumber: req.PhoneNumber,
	}
	if err := s.entryRepo.Create(entry); err != nil {
		return nil, err
	}
	metrics.EntriesCreated.Inc()

	created, err := s.entryRepo.GetByID(entry.ID)
	if err != nil {
		return nil, err
	}
	return present(actionCreate, created).(*dto.EntryDetail), nil
}

// Replace PUT，所有可编辑字段必须提交
func (s *EntryService) Replace(userID, id int64, req *dto.CreateEntryRequest) (*dto.EntryDetail, error) {
	return s.update(actionUpdate, userID, id, req.ToUpdate())
}

// Patch PATCH，只修改提交的字段
func (s *EntryService) Patch(userID, id int64, req *dto.UpdateEntryRequest) (*dto.EntryDetail, error) {
	return s.update(actionPartialUpdate, userID, id, req)
}

func (s *EntryService) update(action entryAction, userID, id int64, req *dto.UpdateEntryRequest) (*dto.EntryDetail, error) {
	entry, err := s.load(action, userID, id)
	if err != nil {
		return nil, err
	}
	spec := entryActions[action]

	fe := validate.FieldErrors{}
	if req.Title != nil {
		if strings.TrimSpace(*req.Title) == "" {
			fe["title"] = "This field may not be blank."
		}
		entry.Title = *req.Title
	}
	if req.Description != nil {
		if strings.TrimSpace(*req.Description) == "" {
			fe["description"] = "This field may not be blank."
		}
		entry.Description = *req.Description
	}
	if req.Price != nil {
		checkPrice(*req.Price, fe)
		entry.Price = *req.Price
	} else if !spec.partial {
		fe["price"] = "This field is required."
	}
	if req.PhoneNumber != nil {
		if !validate.IsPhone(*req.PhoneNumber) {
			fe["phone_number"] = "Invalid phone number."
		}
		entry.PhoneNumber = *req.PhoneNumber
	}
	if req.Category != nil || !spec.partial {
		category, err := s.categoryService.Resolve(req.Category)
		if err := mergeFieldErrors(fe, err); err != nil {
			return nil, err
		}
		if category != nil {
			entry.CategoryID = category.ID
			entry.Category = category
		}
	}
	if len(fe) > 0 {
		return nil, fe
	}

	if err := s.entryRepo.Update(entry); err != nil {
		return nil, err
	}

	updated, err := s.entryRepo.GetByID(entry.ID)
	if err != nil {
		return nil, err
	}
	return present(action, updated).(*dto.EntryDetail), nil
}

// Delete 删除条目及图片记录，存储中的图片在事务提交后清理
func (s *EntryService) Delete(ctx context.Context, userID, id int64) error {
	if _, err := s.load(actionDestroy, userID, id); err != nil {
		return err
	}

	keys, err := s.entryRepo.Delete(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrEntryNotFound
		}
		return err
	}

	removeObjects(ctx, s.store, s.log, keys)
	return nil
}
