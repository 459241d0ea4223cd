package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/johnnycuong/mps-recruitment/models"
)

func TestSeedDatabaseIsIdempotent(t *testing.T) {
	store := newFakeStore()
	seeder := NewDatabaseSeeder(store)
	ctx := context.Background()

	require.NoError(t, seeder.SeedDatabase(ctx))
	require.NoError(t, seeder.SeedDatabase(ctx))

	assert.Len(t, store.data.users, 1)
	assert.Len(t, store.data.clients, 1)
	assert.Len(t, store.data.jobs, 1)
	assert.Len(t, store.data.candidates, 1)

	recruiter, err := store.GetUserByEmail(ctx, seedRecruiterEmail)
	require.NoError(t, err)
	assert.Equal(t, models.RoleRecruiter, recruiter.Role)
	for _, job := range store.data.jobs {
		assert.Equal(t, models.JobStatusOpen, job.Status)
	}
	for _, a := range store.data.activities {
		require.NotNil(t, a.UserID)
		assert.Equal(t, recruiter.ID, *a.UserID)
	}
}

func TestSeedDatabaseRollsBackFailedRun(t *testing.T) {
	store := newFakeStore()
	seeder := NewDatabaseSeeder(store)
	ctx := context.Background()

	store.failOn["CreateCandidate"] = errors.New("disk full")
	require.Error(t, seeder.SeedDatabase(ctx))
	assert.Empty(t, store.data.users)
	assert.Empty(t, store.data.clients)
	assert.Empty(t, store.data.jobs)
	assert.Empty(t, store.data.activities)

	// A later run starts from scratch and completes.
	delete(store.failOn, "CreateCandidate")
	require.NoError(t, seeder.SeedDatabase(ctx))
	assert.Len(t, store.data.users, 1)
	assert.Len(t, store.data.candidates, 1)
}
