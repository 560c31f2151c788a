package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qs3c/classifieds_server/internal/model"
	"github.com/qs3c/classifieds_server/internal/model/dto"
	"github.com/qs3c/classifieds_server/internal/testutil"
)

func daysAgo(days int) time.Time {
	return time.Now().Add(-time.Duration(days) * 24 * time.Hour)
}

func TestLifecycleService_ExpireEntries(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()
	owner := testutil.TestAccount(t, env.db, testutil.WithPlan(env.basic))
	viewer := testutil.TestAccount(t, env.db, testutil.WithPlan(env.basic))

	old := testutil.TestEntry(t, env.db, owner.ID, env.misc.ID, testutil.WithCreatedAt(daysAgo(31)))
	fresh := testutil.TestEntry(t, env.db, owner.ID, env.misc.ID, testutil.WithCreatedAt(daysAgo(29)))

	pending, err := env.lifecycle.PendingExpirations(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), pending)

	expired, err := env.lifecycle.ExpireEntries(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), expired)

	items, _, err := env.entries.List(viewer.ID, &dto.EntryListQuery{})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, fresh.ID, items[0].(dto.EntryListItem).ID)

	_, err = env.entries.Get(viewer.ID, old.ID)
	assert.ErrorIs(t, err, ErrEntryNotFound)

	var stored model.Entry
	require.NoError(t, env.db.First(&stored, old.ID).Error)
	assert.True(t, stored.IsExpired)
	require.NotNil(t, stored.ExpiredAt)

	// 再次执行不会重复标记
	expired, err = env.lifecycle.ExpireEntries(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(0), expired)
}

func TestLifecycleService_ExpireEntries_PerPlan(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()
	long := testutil.TestPlan(t, env.db, testutil.WithLimits(3, 4, 90))

	basicUser := testutil.TestAccount(t, env.db, testutil.WithPlan(env.basic))
	longUser := testutil.TestAccount(t, env.db, testutil.WithPlan(long))
	noPlanUser := testutil.TestAccount(t, env.db)

	basicEntry := testutil.TestEntry(t, env.db, basicUser.ID, env.misc.ID, testutil.WithCreatedAt(daysAgo(45)))
	longEntry := testutil.TestEntry(t, env.db, longUser.ID, env.misc.ID, testutil.WithCreatedAt(daysAgo(45)))
	noPlanEntry := testutil.TestEntry(t, env.db, noPlanUser.ID, env.misc.ID, testutil.WithCreatedAt(daysAgo(400)))

	_, err := env.lifecycle.ExpireEntries(ctx)
	require.NoError(t, err)

	isExpired := func(id int64) bool {
		var e model.Entry
		require.NoError(t, env.db.First(&e, id).Error)
		return e.IsExpired
	}
	assert.True(t, isExpired(basicEntry.ID))
	assert.False(t, isExpired(longEntry.ID))
	assert.False(t, isExpired(noPlanEntry.ID))
}

func TestLifecycleService_ExpireEntries_NeverRevives(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()
	long := testutil.TestPlan(t, env.db, testutil.WithLimits(3, 4, 365))
	account := testutil.TestAccount(t, env.db, testutil.WithPlan(env.basic))
	entry := testutil.TestEntry(t, env.db, account.ID, env.misc.ID, testutil.WithCreatedAt(daysAgo(31)))

	_, err := env.lifecycle.ExpireEntries(ctx)
	require.NoError(t, err)

	// 换成更长的套餐后也不会恢复
	_, err = env.accounts.AssignPlan(account.ID, &long.ID)
	require.NoError(t, err)
	_, err = env.lifecycle.ExpireEntries(ctx)
	require.NoError(t, err)

	var stored model.Entry
	require.NoError(t, env.db.First(&stored, entry.ID).Error)
	assert.True(t, stored.IsExpired)
}

func TestLifecycleService_PurgeExpired(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()
	account := testutil.TestAccount(t, env.db, testutil.WithPlan(env.basic))

	stale := testutil.TestEntry(t, env.db, account.ID, env.misc.ID, testutil.WithCreatedAt(daysAgo(100)))
	_, err := env.images.Upload(ctx, account.ID, stale.ID, uploads(2))
	require.NoError(t, err)
	recent := testutil.TestEntry(t, env.db, account.ID, env.misc.ID, testutil.WithCreatedAt(daysAgo(40)))

	require.NoError(t, env.db.Model(&model.Entry{}).Where("id = ?", stale.ID).
		UpdateColumns(map[string]interface{}{"is_expired": true, "expired_at": daysAgo(70)}).Error)
	require.NoError(t, env.db.Model(&model.Entry{}).Where("id = ?", recent.ID).
		UpdateColumns(map[string]interface{}{"is_expired": true, "expired_at": daysAgo(10)}).Error)

	count, err := env.lifecycle.PurgeExpired(ctx, 60, true)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
	assert.Equal(t, 2, env.store.Len(), "dry run must not delete anything")

	count, err = env.lifecycle.PurgeExpired(ctx, 60, false)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	var remaining []model.Entry
	require.NoError(t, env.db.Find(&remaining).Error)
	require.Len(t, remaining, 1)
	assert.Equal(t, recent.ID, remaining[0].ID)
	assert.Equal(t, 0, env.store.Len())

	_, err = env.lifecycle.PurgeExpired(ctx, 0, false)
	assert.Error(t, err)
}

func TestLifecycleService_Predicates(t *testing.T) {
	entry := &model.Entry{UserID: 7}
	assert.True(t, IsVisible(entry))
	assert.True(t, IsWritable(entry, 7))
	assert.False(t, IsWritable(entry, 8))

	entry.IsExpired = true
	assert.False(t, IsVisible(entry))
	assert.True(t, IsWritable(entry, 7))
}
