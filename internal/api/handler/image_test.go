package handler

import (
	"bytes"
	"fmt"
	"mime/multipart"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qs3c/classifieds_server/internal/model"
	"github.com/qs3c/classifieds_server/internal/pkg/response"
	"github.com/qs3c/classifieds_server/internal/testutil"
)

func imageRouter(ctx *testContext, userID int64) *gin.Engine {
	router := gin.New()
	router.Use(mockAuth(userID))
	router.POST("/entries/:id/upload-image", ctx.imageHandler.Upload)
	router.DELETE("/entries/:id/images/:imageId", ctx.imageHandler.Delete)
	return router
}

func performUpload(t *testing.T, r *gin.Engine, path string, files map[string][]byte) response.Response {
	t.Helper()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	for name, data := range files {
		part, err := writer.CreateFormFile("images", name)
		require.NoError(t, err)
		_, err = part.Write(data)
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())

	req := httptest.NewRequest("POST", path, body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return parseResponse(t, w)
}

func countImages(ctx *testContext, entryID int64) int64 {
	var count int64
	ctx.db.Model(&model.Image{}).Where("entry_id = ?", entryID).Count(&count)
	return count
}

func TestImageHandler_Upload(t *testing.T) {
	ctx := setupTestContext(t)
	account := testutil.TestAccount(t, ctx.db, testutil.WithPlan(ctx.basic))
	entry := testutil.TestEntry(t, ctx.db, account.ID, ctx.misc.ID)

	resp := performUpload(t, imageRouter(ctx, account.ID), fmt.Sprintf("/entries/%d/upload-image", entry.ID),
		map[string][]byte{"a.jpg": []byte("one"), "b.png": []byte("two")})
	require.Equal(t, response.CodeSuccess, resp.Code)
	assert.Equal(t, "Images uploaded successfully", resp.Message)

	data := dataMap(t, resp)
	assert.Equal(t, float64(entry.ID), data["entry_id"])
	assert.Len(t, data["images"], 2)
	assert.Equal(t, int64(2), countImages(ctx, entry.ID))
}

func TestImageHandler_Upload_OverLimit(t *testing.T) {
	ctx := setupTestContext(t)
	account := testutil.TestAccount(t, ctx.db, testutil.WithPlan(ctx.basic))
	entry := testutil.TestEntry(t, ctx.db, account.ID, ctx.misc.ID)

	files := map[string][]byte{}
	for i := 0; i < 5; i++ {
		files[fmt.Sprintf("%d.jpg", i)] = []byte("x")
	}

	resp := performUpload(t, imageRouter(ctx, account.ID), fmt.Sprintf("/entries/%d/upload-image", entry.ID), files)
	assert.Equal(t, response.CodeQuotaExceeded, resp.Code)
	assert.Equal(t, "Maximum images allowed: 4", resp.Message)
	assert.Equal(t, int64(0), countImages(ctx, entry.ID))
}

func TestImageHandler_Upload_NoImages(t *testing.T) {
	ctx := setupTestContext(t)
	account := testutil.TestAccount(t, ctx.db, testutil.WithPlan(ctx.basic))
	entry := testutil.TestEntry(t, ctx.db, account.ID, ctx.misc.ID)

	resp := performUpload(t, imageRouter(ctx, account.ID), fmt.Sprintf("/entries/%d/upload-image", entry.ID), nil)
	assert.Equal(t, response.CodeParamError, resp.Code)
	assert.Equal(t, "No images provided", resp.Message)
}

func TestImageHandler_Upload_TooLarge(t *testing.T) {
	ctx := setupTestContext(t)
	account := testutil.TestAccount(t, ctx.db, testutil.WithPlan(ctx.basic))
	entry := testutil.TestEntry(t, ctx.db, account.ID, ctx.misc.ID)

	resp := performUpload(t, imageRouter(ctx, account.ID), fmt.Sprintf("/entries/%d/upload-image", entry.ID),
		map[string][]byte{"big.jpg": bytes.Repeat([]byte("x"), 2048)})
	assert.Equal(t, response.CodeParamError, resp.Code)
	assert.Contains(t, dataMap(t, resp), "images")
	assert.Equal(t, int64(0), countImages(ctx, entry.ID))
}

func TestImageHandler_Upload_NotOwner(t *testing.T) {
	ctx := setupTestContext(t)
	owner := testutil.TestAccount(t, ctx.db, testutil.WithPlan(ctx.basic))
	other := testutil.TestAccount(t, ctx.db, testutil.WithPlan(ctx.basic))
	entry := testutil.TestEntry(t, ctx.db, owner.ID, ctx.misc.ID)

	resp := performUpload(t, imageRouter(ctx, other.ID), fmt.Sprintf("/entries/%d/upload-image", entry.ID),
		map[string][]byte{"a.jpg": []byte("one")})
	assert.Equal(t, response.CodeResourceNotFound, resp.Code)
	assert.Equal(t, int64(0), countImages(ctx, entry.ID))
}

func TestImageHandler_Delete(t *testing.T) {
	ctx := setupTestContext(t)
	account := testutil.TestAccount(t, ctx.db, testutil.WithPlan(ctx.basic))
	entry := testutil.TestEntry(t, ctx.db, account.ID, ctx.misc.ID)
	image := testutil.TestImage(t, ctx.db, entry.ID)
	router := imageRouter(ctx, account.ID)

	resp := parseResponse(t, performRequest(router, "DELETE", fmt.Sprintf("/entries/%d/images/%d", entry.ID, image.ID), nil))
	require.Equal(t, response.CodeSuccess, resp.Code)
	assert.Equal(t, int64(0), countImages(ctx, entry.ID))

	resp = parseResponse(t, performRequest(router, "DELETE", fmt.Sprintf("/entries/%d/images/%d", entry.ID, image.ID), nil))
	assert.Equal(t, response.CodeResourceNotFound, resp.Code)
}
