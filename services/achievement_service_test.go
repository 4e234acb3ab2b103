package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tcs-suzini/club-backend/models"
	"github.com/tcs-suzini/club-backend/repositories"
)

func newTestAchievementService(t *testing.T) (AchievementService, *repositories.MemoryUserRepository, *repositories.MemoryUserAchievementRepository) {
	t.Helper()
	users := repositories.NewMemoryUserRepository()
	catalog := repositories.NewMemoryAchievementRepository()
	grants := repositories.NewMemoryUserAchievementRepository()

	require.NoError(t, catalog.InsertMany(context.Background(), achievementCatalog()))

	return NewAchievementService(users, catalog, grants), users, grants
}

func seedUser(t *testing.T, users *repositories.MemoryUserRepository, participations int) *models.User {
	t.Helper()
	user := &models.User{
		ID:             "user-1",
		Email:          "joueur@example.com",
		Licensed:       true,
		Participations: participations,
	}
	require.NoError(t, users.Create(context.Background(), user))
	return user
}

func TestNoGrantBelowThreshold(t *testing.T) {
	svc, users, grants := newTestAchievementService(t)
	user := seedUser(t, users, 3)

	require.NoError(t, svc.OnParticipationIncrement(context.Background(), user.ID))

	earned, err := grants.ListByUser(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Empty(t, earned)

	fresh, err := users.GetByID(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Zero(t, fresh.Points)
}

func TestGrantAtTenParticipations(t *testing.T) {
	svc, users, grants := newTestAchievementService(t)
	user := seedUser(t, users, 10)

	require.NoError(t, svc.OnParticipationIncrement(context.Background(), user.ID))

	earned, err := grants.ListByUser(context.Background(), user.ID)
	require.NoError(t, err)
	require.Len(t, earned, 1)
	assert.Equal(t, "membre_fidele", earned[0].AchievementID)

	fresh, err := users.GetByID(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, 100, fresh.Points)
}

func TestGrantIsIdempotent(t *testing.T) {
	svc, users, grants := newTestAchievementService(t)
	user := seedUser(t, users, 10)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		require.NoError(t, svc.OnParticipationIncrement(ctx, user.ID))
	}

	earned, err := grants.ListByUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Len(t, earned, 1)

	fresh, err := users.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, 100, fresh.Points)
}

func TestCatchUpGrantsEveryMissedThreshold(t *testing.T) {
	svc, users, grants := newTestAchievementService(t)
	user := seedUser(t, users, 50)
	ctx := context.Background()

	require.NoError(t, svc.OnParticipationIncrement(ctx, user.ID))

	earned, err := grants.ListByUser(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, earned, 3)

	ids := make(map[string]bool, len(earned))
	for _, g := range earned {
		ids[g.AchievementID] = true
	}
	assert.True(t, ids["membre_fidele"])
	assert.True(t, ids["toujours_present"])
	assert.True(t, ids["veteran"])

	// 100 + 250 + 500
	fresh, err := users.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, 850, fresh.Points)
}

func TestOnParticipationIncrementUnknownUser(t *testing.T) {
	svc, _, _ := newTestAchievementService(t)

	err := svc.OnParticipationIncrement(context.Background(), "ghost")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestListCatalog(t *testing.T) {
	svc, _, _ := newTestAchievementService(t)

	catalog, err := svc.ListCatalog(context.Background())
	require.NoError(t, err)
	assert.Len(t, catalog, 5)
}
