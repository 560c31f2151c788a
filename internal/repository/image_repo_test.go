package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qs3c/classifieds_server/internal/model"
	"github.com/qs3c/classifieds_server/internal/testutil"
)

func TestImageRepository_CreateBatch(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := NewImageRepository(db)
	account := testutil.TestAccount(t, db)
	category := testutil.TestCategory(t, db, "Misc")
	entry := testutil.TestEntry(t, db, account.ID, category.ID)

	images := []*model.Image{
		{EntryID: entry.ID, ObjectKey: "uploads/entry/a.jpg", URL: "/media/uploads/entry/a.jpg"},
		{EntryID: entry.ID, ObjectKey: "uploads/entry/b.jpg", URL: "/media/uploads/entry/b.jpg"},
	}
	require.NoError(t, repo.CreateBatch(images))
	for _, img := range images {
		assert.NotZero(t, img.ID)
		assert.False(t, img.UploadedAt.IsZero())
	}

	count, err := repo.CountByEntry(entry.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	listed, err := repo.ListByEntry(entry.ID)
	require.NoError(t, err)
	require.Len(t, listed, 2)
	assert.Equal(t, images[0].ID, listed[0].ID)
}

func TestImageRepository_CreateBatch_RollsBack(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := NewImageRepository(db)
	account := testutil.TestAccount(t, db)
	category := testutil.TestCategory(t, db, "Misc")
	entry := testutil.TestEntry(t, db, account.ID, category.ID)

	existing := testutil.TestImage(t, db, entry.ID)

	images := []*model.Image{
		{EntryID: entry.ID, ObjectKey: "uploads/entry/c.jpg", URL: "/media/uploads/entry/c.jpg"},
		// 主键冲突，整批回滚
		{ID: existing.ID, EntryID: entry.ID, ObjectKey: "uploads/entry/d.jpg", URL: "/media/uploads/entry/d.jpg"},
	}
	assert.Error(t, repo.CreateBatch(images))

	count, err := repo.CountByEntry(entry.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestImageRepository_GetAndDelete(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := NewImageRepository(db)
	account := testutil.TestAccount(t, db)
	category := testutil.TestCategory(t, db, "Misc")
	entry := testutil.TestEntry(t, db, account.ID, category.ID)
	image := testutil.TestImage(t, db, entry.ID)

	found, err := repo.GetByID(image.ID)
	require.NoError(t, err)
	assert.Equal(t, image.ObjectKey, found.ObjectKey)

	require.NoError(t, repo.Delete(image.ID))

	_, err = repo.GetByID(image.ID)
	assert.Error(t, err)
}
