package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"gorm.io/gorm"

	"github.com/qs3c/classifieds_server/internal/model"
	"github.com/qs3c/classifieds_server/internal/model/dto"
	"github.com/qs3c/classifieds_server/internal/pkg/cache"
	"github.com/qs3c/classifieds_server/internal/pkg/validate"
	"github.com/qs3c/classifieds_server/internal/repository"
)

const categoryCacheKey = "categories"

var ErrCategoryNotFound = errors.New("category not found")

type CategoryService struct {
	categoryRepo *repository.CategoryRepository
	entryRepo    *repository.EntryRepository
	cache        *cache.Cache
	log          *slog.Logger
}

func NewCategoryService(
	categoryRepo *repository.CategoryRepository,
	entryRepo *repository.EntryRepository,
	categoryCache *cache.Cache,
	log *slog.Logger,
) *CategoryService {
	return &CategoryService{
		categoryRepo: categoryRepo,
		entryRepo:    entryRepo,
		cache:        categoryCache,
		log:          log,
	}
}

// List 分类列表，优先读缓存，缓存故障时直接查库
func (s *CategoryService) List(ctx context.Context) ([]dto.CategoryInfo, error) {
	var items []dto.CategoryInfo
	hit, err := s.cache.Get(ctx, categoryCacheKey, &items)
	if err != nil {
		s.log.Warn("category cache read failed", slog.Any("error", err))
	}
	if hit {
		return items, nil
	}

	categories, err := s.categoryRepo.List()
	if err != nil {
		return nil, err
	}

	items = make([]dto.CategoryInfo, 0, len(categories))
	for i := range categories {
		items = append(items, toCategoryInfo(&categories[i]))
	}

	if err := s.cache.Set(ctx, categoryCacheKey, items); err != nil {
		s.log.Warn("category cache write failed", slog.Any("error", err))
	}
	return items, nil
}

// Resolve 按名称查找分类；未提供或不存在时返回字段错误，不会创建分类
func (s *CategoryService) Resolve(name *string) (*model.Category, error) {
	if name == nil {
		return nil, validate.Field("category", "This field is required.")
	}
	trimmed := strings.TrimSpace(*name)
	if trimmed == "" {
		return nil, validate.Field("category", "This field is required.")
	}

	category, err := s.categoryRepo.GetByName(trimmed)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, validate.Field("category", "The specified category does not exist.")
		}
		return nil, err
	}
	return category, nil
}

// Create 管理端创建分类，已存在时直接返回
func (s *CategoryService) Create(ctx context.Context, name string) (*dto.CategoryInfo, error) {
	category, err := s.GetOrCreate(name)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx)

	info := toCategoryInfo(category)
	return &info, nil
}

// GetOrCreate 维护命令使用
func (s *CategoryService) GetOrCreate(name string) (*model.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, validate.Field("name", "This field may not be blank.")
	}
	return s.categoryRepo.FirstOrCreate(name)
}

// Reassign 把 from 分类下的条目全部移到 to 分类，to 不存在时创建
func (s *CategoryService) Reassign(ctx context.Context, from, to string) (int64, error) {
	source, err := s.categoryRepo.GetByName(from)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, ErrCategoryNotFound
		}
		return 0, err
	}

	target, err := s.GetOrCreate(to)
	if err != nil {
		return 0, err
	}

	moved, err := s.entryRepo.ReassignCategory(source.ID, target.ID)
	if err != nil {
		return 0, err
	}
	s.invalidate(ctx)
	return moved, nil
}

func (s *CategoryService) invalidate(ctx context.Context) {
	if err := s.cache.Delete(ctx, categoryCacheKey); err != nil {
		s.log.Warn("category cache invalidation failed", slog.Any("error", err))
	}
}
