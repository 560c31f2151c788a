package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/qs3c/classifieds_server/config"
	"github.com/qs3c/classifieds_server/internal/api/middleware"
	"github.com/qs3c/classifieds_server/internal/database"
	"github.com/qs3c/classifieds_server/internal/model"
	"github.com/qs3c/classifieds_server/internal/pkg/cache"
	"github.com/qs3c/classifieds_server/internal/pkg/logger"
	"github.com/qs3c/classifieds_server/internal/pkg/response"
	"github.com/qs3c/classifieds_server/internal/pkg/storage"
	"github.com/qs3c/classifieds_server/internal/repository"
	"github.com/qs3c/classifieds_server/internal/service"
	"github.com/qs3c/classifieds_server/internal/testutil"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type testContext struct {
	db    *gorm.DB
	cfg   *config.Config
	store *storage.MemoryStore
	basic *model.Plan
	misc  *model.Category

	authHandler     *AuthHandler
	accountHandler  *AccountHandler
	categoryHandler *CategoryHandler
	entryHandler    *EntryHandler
	imageHandler    *ImageHandler
	adminHandler    *AdminHandler
}

func setupTestContext(t *testing.T) *testContext {
	t.Helper()

	db := testutil.SetupTestDB(t)
	t.Cleanup(func() { testutil.CleanupTestDB(t, db) })

	cfg := &config.Config{
		JWT: config.JWTConfig{
			Secret:      "test-secret-key",
			ExpireHours: 24,
		},
		Plans: config.PlansConfig{
			Default: config.PlanConfig{Name: "Basic", MaxEntries: 3, MaxEntryImages: 4, DaysToExpire: 30},
		},
		Categories: []string{"Misc"},
		Upload: config.UploadConfig{
			MaxSize:           1024,
			AllowedExtensions: []string{".jpg", ".png"},
		},
	}

	basic, err := database.Seed(db, cfg)
	require.NoError(t, err)

	log := logger.Discard()
	store := storage.NewMemoryStore()

	planRepo := repository.NewPlanRepository(db)
	accountRepo := repository.NewAccountRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	entryRepo := repository.NewEntryRepository(db)
	imageRepo := repository.NewImageRepository(db)

	planService := service.NewPlanService(planRepo, cfg)
	accountService := service.NewAccountService(accountRepo, planService)
	authService := service.NewAuthService(accountRepo, cfg)
	quotaService := service.NewQuotaService(accountRepo, entryRepo, imageRepo)
	categoryService := service.NewCategoryService(categoryRepo, entryRepo, cache.New(nil, "", 0), log)
	entryService := service.NewEntryService(entryRepo, accountRepo, quotaService, categoryService, store, log)
	imageService := service.NewImageService(entryService, accountRepo, imageRepo, quotaService, store, cfg.Upload, log)

	misc, err := categoryRepo.GetByName("Misc")
	require.NoError(t, err)

	return &testContext{
		db:              db,
		cfg:             cfg,
		store:           store,
		basic:           basic,
		misc:            misc,
		authHandler:     NewAuthHandler(accountService, authService),
		accountHandler:  NewAccountHandler(accountService, quotaService),
		categoryHandler: NewCategoryHandler(categoryService),
		entryHandler:    NewEntryHandler(entryService),
		imageHandler:    NewImageHandler(imageService, cfg),
		adminHandler:    NewAdminHandler(planService, categoryService, accountService),
	}
}

func mockAuth(userID int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.UserIDKey, userID)
		c.Next()
	}
}

func performRequest(r http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	var reqBody *bytes.Buffer
	if body != nil {
		jsonBytes, _ := json.Marshal(body)
		reqBody = bytes.NewBuffer(jsonBytes)
	} else {
		reqBody = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, path, reqBody)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func parseResponse(t *testing.T, w *httptest.ResponseRecorder) response.Response {
	var resp response.Response
	err := json.Unmarshal(w.Body.Bytes(), &resp)
	require.NoError(t, err)
	return resp
}

func dataMap(t *testing.T, resp response.Response) map[string]interface{} {
	t.Helper()
	data, ok := resp.Data.(map[string]interface{})
	require.True(t, ok, "unexpected data: %#v", resp.Data)
	return data
}
