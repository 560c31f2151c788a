package service

import (
	"testing"

	"gorm.io/gorm"

	"github.com/qs3c/classifieds_server/config"
	"github.com/qs3c/classifieds_server/internal/database"
	"github.com/qs3c/classifieds_server/internal/model"
	"github.com/qs3c/classifieds_server/internal/pkg/cache"
	"github.com/qs3c/classifieds_server/internal/pkg/logger"
	"github.com/qs3c/classifieds_server/internal/pkg/storage"
	"github.com/qs3c/classifieds_server/internal/repository"
	"github.com/qs3c/classifieds_server/internal/testutil"
)

type testEnv struct {
	db    *gorm.DB
	cfg   *config.Config
	store *storage.MemoryStore
	basic *model.Plan
	misc  *model.Category

	plans      *PlanService
	accounts   *AccountService
	auth       *AuthService
	quota      *QuotaService
	categories *CategoryService
	entries    *EntryService
	images     *ImageService
	lifecycle  *LifecycleService
}

func testConfig() *config.Config {
	return &config.Config{
		JWT: config.JWTConfig{
			Secret:      "test-secret-key-for-testing",
			ExpireHours: 24,
		},
		Plans: config.PlansConfig{
			Default: config.PlanConfig{
				Name:           "Basic",
				MaxEntries:     3,
				MaxEntryImages: 4,
				DaysToExpire:   30,
			},
		},
		Categories: []string{"Misc", "Electronics"},
		Upload: config.UploadConfig{
			MaxSize:           1024,
			AllowedExtensions: []string{".jpg", ".jpeg", ".png"},
		},
	}
}

func setupEnv(t *testing.T) *testEnv {
	t.Helper()

	db := testutil.SetupTestDB(t)
	t.Cleanup(func() { testutil.CleanupTestDB(t, db) })

	cfg := testConfig()
	basic, err := database.Seed(db, cfg)
	if err != nil {
		t.Fatalf("Failed to seed test database: %v", err)
	}

	log := logger.Discard()
	store := storage.NewMemoryStore()

	planRepo := repository.NewPlanRepository(db)
	accountRepo := repository.NewAccountRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	entryRepo := repository.NewEntryRepository(db)
	imageRepo := repository.NewImageRepository(db)

	plans := NewPlanService(planRepo, cfg)
	quota := NewQuotaService(accountRepo, entryRepo, imageRepo)
	categories := NewCategoryService(categoryRepo, entryRepo, cache.New(nil, "", 0), log)
	entries := NewEntryService(entryRepo, accountRepo, quota, categories, store, log)

	misc, err := categoryRepo.GetByName("Misc")
	if err != nil {
		t.Fatalf("Failed to load seeded category: %v", err)
	}

	return &testEnv{
		db:         db,
		cfg:        cfg,
		store:      store,
		basic:      basic,
		misc:       misc,
		plans:      plans,
		accounts:   NewAccountService(accountRepo, plans),
		auth:       NewAuthService(accountRepo, cfg),
		quota:      quota,
		categories: categories,
		entries:    entries,
		images:     NewImageService(entries, accountRepo, imageRepo, quota, store, cfg.Upload, log),
		lifecycle:  NewLifecycleService(planRepo, entryRepo, store, log),
	}
}

func strPtr(s string) *string {
	return &s
}

func int64Ptr(v int64) *int64 {
	return &v
}
