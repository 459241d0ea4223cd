package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/johnnycuong/mps-recruitment/errs"
	"github.com/johnnycuong/mps-recruitment/models"
	"github.com/johnnycuong/mps-recruitment/repository"
)

func newActivityFixture(t *testing.T, recentLimit int) (*fakeStore, *testClock, *ActivityRecorder, *ActivityService) {
	t.Helper()
	store := newFakeStore()
	clock := newTestClock()
	recorder := NewActivityRecorder(clock.Now)
	require.NoError(t, store.CreateUser(context.Background(), &models.User{ID: "user-linh", Username: "linh", Email: "linh@example.com", FullName: "Linh Tran", Role: models.RoleRecruiter}))
	require.NoError(t, store.CreateUser(context.Background(), &models.User{ID: "user-bao", Username: "bao", Email: "bao@example.com", FullName: "Bao Nguyen", Role: models.RoleManager}))
	return store, clock, recorder, NewActivityService(store, recorder, recentLimit)
}

func TestLogActivity(t *testing.T) {
	ctx := context.Background()
	store, _, _, activities := newActivityFixture(t, 0)
	actor := Actor{UserID: "user-linh", FullName: "Linh Tran", Role: models.RoleRecruiter}

	_, err := activities.LogActivity(ctx, actor, ActivityEntry{Type: models.ActivityEmailSent, Description: "  "})
	assert.True(t, errs.Is(err, errs.CodeValidation))

	_, err = activities.LogActivity(ctx, actor, ActivityEntry{Type: models.ActivityStatusChange, Description: "moved"})
	assert.True(t, errs.Is(err, errs.CodeValidation))

	missing := "no-such-candidate"
	_, err = activities.LogActivity(ctx, actor, ActivityEntry{Type: models.ActivityNoteAdded, Description: "called", CandidateID: &missing})
	assert.True(t, errs.Is(err, errs.CodeNotFound))
	assert.Empty(t, store.data.activities)

	logged, err := activities.LogActivity(ctx, actor, ActivityEntry{
		Type:        models.ActivityEmailSent,
		Description: "Sent offer letter",
		Details:     map[string]interface{}{"subject": "Offer"},
	})
	require.NoError(t, err)
	require.NotNil(t, logged.UserID)
	assert.Equal(t, "user-linh", *logged.UserID)
	assert.JSONEq(t, `{"subject":"Offer"}`, string(logged.Details))
	assert.Len(t, store.data.activities, 1)
}

func TestSystemActorHasNoUser(t *testing.T) {
	store, _, recorder, _ := newActivityFixture(t, 0)
	activity, err := recorder.Record(context.Background(), store, Actor{}, ActivityEntry{Type: models.ActivitySystemAction, Description: "nightly import"})
	require.NoError(t, err)
	assert.Nil(t, activity.UserID)
	assert.Equal(t, "System", Actor{}.displayName())
}

func TestListActivities(t *testing.T) {
	ctx := context.Background()
	store, clock, recorder, activities := newActivityFixture(t, 0)
	linh := Actor{UserID: "user-linh", FullName: "Linh Tran"}
	for i := 0; i < 3; i++ {
		_, err := recorder.Record(ctx, store, linh, ActivityEntry{Type: models.ActivityNoteAdded, Description: "note"})
		require.NoError(t, err)
		clock.Advance(time.Hour)
	}
	last, err := recorder.Record(ctx, store, linh, ActivityEntry{Type: models.ActivityStatusChange, Description: "moved"})
	require.NoError(t, err)

	page, err := activities.List(ctx, repository.ActivityFilter{}, repository.Page{})
	require.NoError(t, err)
	assert.Equal(t, 50, page.PerPage)
	assert.Equal(t, int64(4), page.Total)
	assert.Equal(t, 1, page.Pages)
	require.Len(t, page.Activities, 4)
	assert.Equal(t, last.ID, page.Activities[0].ID)

	noteType := models.ActivityNoteAdded
	page, err = activities.List(ctx, repository.ActivityFilter{Type: &noteType}, repository.Page{Page: 2, PerPage: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(3), page.Total)
	assert.Equal(t, 2, page.Pages)
	assert.Len(t, page.Activities, 1)

	page, err = activities.List(ctx, repository.ActivityFilter{}, repository.Page{PerPage: 1000})
	require.NoError(t, err)
	assert.Equal(t, 100, page.PerPage)
}

func TestRecentActivities(t *testing.T) {
	ctx := context.Background()
	store, clock, recorder, activities := newActivityFixture(t, 2)
	linh := Actor{UserID: "user-linh", FullName: "Linh Tran"}

	_, err := recorder.Record(ctx, store, linh, ActivityEntry{Type: models.ActivityNoteAdded, Description: "old"})
	require.NoError(t, err)
	clock.Advance(10 * 24 * time.Hour)
	for i := 0; i < 3; i++ {
		_, err := recorder.Record(ctx, store, linh, ActivityEntry{Type: models.ActivityNoteAdded, Description: "fresh"})
		require.NoError(t, err)
	}

	// Limit 20 is capped at the configured maximum of 2.
	recent, err := activities.Recent(ctx, 0, 0)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	for _, a := range recent {
		assert.Equal(t, "fresh", a.Description)
	}

	recent, err = activities.Recent(ctx, 30, 2)
	require.NoError(t, err)
	assert.Len(t, recent, 2)
}

func TestActivityStatistics(t *testing.T) {
	ctx := context.Background()
	store, clock, recorder, activities := newActivityFixture(t, 0)
	linh := Actor{UserID: "user-linh", FullName: "Linh Tran"}
	bao := Actor{UserID: "user-bao", FullName: "Bao Nguyen"}

	_, err := recorder.Record(ctx, store, linh, ActivityEntry{Type: models.ActivityNoteAdded, Description: "too old"})
	require.NoError(t, err)
	clock.Advance(40 * 24 * time.Hour)

	for _, e := range []struct {
		actor Actor
		typ   models.ActivityType
	}{
		{linh, models.ActivityStatusChange},
		{linh, models.ActivityStatusChange},
		{bao, models.ActivityNoteAdded},
	} {
		_, err := recorder.Record(ctx, store, e.actor, ActivityEntry{Type: e.typ, Description: "x"})
		require.NoError(t, err)
	}
	clock.Advance(24 * time.Hour)
	_, err = recorder.Record(ctx, store, Actor{}, ActivityEntry{Type: models.ActivitySystemAction, Description: "x"})
	require.NoError(t, err)

	stats, err := activities.Statistics(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, 30, stats.Days)

	require.Len(t, stats.ByType, 3)
	assert.Equal(t, repository.TypeCount{ActivityType: models.ActivityStatusChange, Count: 2}, stats.ByType[0])

	require.Len(t, stats.TopUsers, 2)
	assert.Equal(t, "Linh Tran", stats.TopUsers[0].FullName)
	assert.Equal(t, int64(2), stats.TopUsers[0].Count)

	assert.Equal(t, []repository.DailyCount{
		{Date: "2026-04-11", Count: 3},
		{Date: "2026-04-12", Count: 1},
	}, stats.Daily)
}
