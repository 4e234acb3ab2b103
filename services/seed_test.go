package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tcs-suzini/club-backend/models"
	"github.com/tcs-suzini/club-backend/repositories"
)

func TestSeedIsIdempotent(t *testing.T) {
	achievements := repositories.NewMemoryAchievementRepository()
	trainings := repositories.NewMemoryTrainingRepository()
	users := repositories.NewMemoryUserRepository()
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		require.NoError(t, Seed(ctx, achievements, trainings, users, "admin@example.com", "admin-pass", testLogger()))
	}

	count, err := achievements.Count(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 5, count)

	trainingCount, err := trainings.Count(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, len(defaultTrainingSlots()), trainingCount)

	admin, err := users.GetByEmail(ctx, "admin@example.com")
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, admin.Role)
	assert.True(t, admin.Licensed)

	all, err := users.List(ctx, repositories.DefaultListLimit)
	require.NoError(t, err)
	assert.Len(t, all, 1, "second seed run must not duplicate the admin")
}

func TestSeedSkipsAdminWithoutCredentials(t *testing.T) {
	achievements := repositories.NewMemoryAchievementRepository()
	trainings := repositories.NewMemoryTrainingRepository()
	users := repositories.NewMemoryUserRepository()
	ctx := context.Background()

	require.NoError(t, Seed(ctx, achievements, trainings, users, "", "", testLogger()))

	all, err := users.List(ctx, repositories.DefaultListLimit)
	require.NoError(t, err)
	assert.Empty(t, all)
}
