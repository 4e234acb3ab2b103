package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tcs-suzini/club-backend/models"
	"github.com/tcs-suzini/club-backend/repositories"
)

type tournamentFixture struct {
	svc         TournamentService
	users       *repositories.MemoryUserRepository
	tournaments *repositories.MemoryTournamentRepository
	grants      *repositories.MemoryUserAchievementRepository
}

func newTournamentFixture(t *testing.T) *tournamentFixture {
	t.Helper()
	users := repositories.NewMemoryUserRepository()
	tournaments := repositories.NewMemoryTournamentRepository()
	catalog := repositories.NewMemoryAchievementRepository()
	grants := repositories.NewMemoryUserAchievementRepository()

	require.NoError(t, catalog.InsertMany(context.Background(), achievementCatalog()))

	achievements := NewAchievementService(users, catalog, grants)
	svc := NewTournamentService(tournaments, users, achievements, testLogger())

	return &tournamentFixture{svc: svc, users: users, tournaments: tournaments, grants: grants}
}

func (f *tournamentFixture) addUser(t *testing.T, id string, licensed bool) *models.User {
	t.Helper()
	user := &models.User{
		ID:       id,
		Email:    id + "@example.com",
		Licensed: licensed,
	}
	require.NoError(t, f.users.Create(context.Background(), user))
	return user
}

func (f *tournamentFixture) addTournament(t *testing.T, max int) *models.Tournament {
	t.Helper()
	tournament, err := f.svc.Create(context.Background(), CreateTournamentInput{
		Name:            "Tournoi du club",
		StartDate:       time.Now().Add(24 * time.Hour),
		EndDate:         time.Now().Add(48 * time.Hour),
		MaxParticipants: max,
	})
	require.NoError(t, err)
	return tournament
}

func TestCreateTournamentDefaults(t *testing.T) {
	f := newTournamentFixture(t)

	tournament := f.addTournament(t, 0)
	assert.Equal(t, 16, tournament.MaxParticipants)
	assert.Equal(t, models.StatusUpcoming, tournament.Status)
	assert.NotNil(t, tournament.Participants)
	assert.Empty(t, tournament.Participants)
}

func TestCreateTournamentValidation(t *testing.T) {
	f := newTournamentFixture(t)
	ctx := context.Background()

	_, err := f.svc.Create(ctx, CreateTournamentInput{
		StartDate: time.Now(),
		EndDate:   time.Now().Add(time.Hour),
	})
	assert.ErrorIs(t, err, ErrValidationFailed)

	_, err = f.svc.Create(ctx, CreateTournamentInput{
		Name:      "Tournoi",
		StartDate: time.Now().Add(time.Hour),
		EndDate:   time.Now(),
	})
	assert.ErrorIs(t, err, ErrValidationFailed)
}

func TestRegisterHappyPath(t *testing.T) {
	f := newTournamentFixture(t)
	ctx := context.Background()
	user := f.addUser(t, "user-1", true)
	tournament := f.addTournament(t, 8)

	require.NoError(t, f.svc.Register(ctx, tournament.ID, user))

	stored, err := f.svc.GetByID(ctx, tournament.ID)
	require.NoError(t, err)
	assert.True(t, stored.HasParticipant(user.ID))
	assert.Equal(t, models.StatusUpcoming, stored.Status)

	fresh, err := f.users.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, fresh.Participations)
}

func TestRegisterRequiresLicence(t *testing.T) {
	f := newTournamentFixture(t)
	user := f.addUser(t, "user-1", false)
	tournament := f.addTournament(t, 8)

	err := f.svc.Register(context.Background(), tournament.ID, user)
	assert.ErrorIs(t, err, ErrNotLicensed)
}

func TestRegisterTwiceRejected(t *testing.T) {
	f := newTournamentFixture(t)
	ctx := context.Background()
	user := f.addUser(t, "user-1", true)
	tournament := f.addTournament(t, 8)

	require.NoError(t, f.svc.Register(ctx, tournament.ID, user))
	err := f.svc.Register(ctx, tournament.ID, user)
	assert.ErrorIs(t, err, ErrAlreadyRegistered)

	fresh, err := f.users.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, fresh.Participations, "rejected registration must not count")
}

func TestRegisterCapacity(t *testing.T) {
	f := newTournamentFixture(t)
	ctx := context.Background()
	tournament := f.addTournament(t, 2)

	for i := 0; i < 2; i++ {
		user := f.addUser(t, fmt.Sprintf("user-%d", i), true)
		require.NoError(t, f.svc.Register(ctx, tournament.ID, user))
	}

	// Filling the last spot flipped the status.
	stored, err := f.svc.GetByID(ctx, tournament.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusFull, stored.Status)

	late := f.addUser(t, "user-late", true)
	err = f.svc.Register(ctx, tournament.ID, late)
	assert.ErrorIs(t, err, ErrTournamentFull)
}

func TestRegisterClosedStatuses(t *testing.T) {
	f := newTournamentFixture(t)
	ctx := context.Background()
	user := f.addUser(t, "user-1", true)

	for _, status := range []models.TournamentStatus{models.StatusOngoing, models.StatusCompleted} {
		tournament := f.addTournament(t, 8)
		require.NoError(t, f.tournaments.UpdateStatus(ctx, tournament.ID, status))

		err := f.svc.Register(ctx, tournament.ID, user)
		assert.ErrorIs(t, err, ErrRegistrationClosed, "status %s", status)
	}
}

func TestRegisterUnknownTournament(t *testing.T) {
	f := newTournamentFixture(t)
	user := f.addUser(t, "user-1", true)

	err := f.svc.Register(context.Background(), "ghost", user)
	assert.ErrorIs(t, err, ErrTournamentNotFound)
}

func TestRegisterTriggersAchievements(t *testing.T) {
	f := newTournamentFixture(t)
	ctx := context.Background()
	user := f.addUser(t, "user-1", true)

	// Tenth participation crosses the first threshold.
	for i := 0; i < 10; i++ {
		tournament := f.addTournament(t, 8)
		require.NoError(t, f.svc.Register(ctx, tournament.ID, user))
	}

	earned, err := f.grants.ListByUser(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, earned, 1)
	assert.Equal(t, "membre_fidele", earned[0].AchievementID)

	fresh, err := f.users.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, 10, fresh.Participations)
	assert.Equal(t, 100, fresh.Points)
}

func TestUpdateTournamentPatch(t *testing.T) {
	f := newTournamentFixture(t)
	ctx := context.Background()
	tournament := f.addTournament(t, 8)

	_, err := f.svc.Update(ctx, tournament.ID, TournamentPatch{})
	assert.ErrorIs(t, err, ErrNoUpdatableFields)

	name := "Tournoi de Noël"
	updated, err := f.svc.Update(ctx, tournament.ID, TournamentPatch{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, name, updated.Name)
	assert.Equal(t, 8, updated.MaxParticipants, "untouched fields keep their value")

	badStatus := models.TournamentStatus("annulé")
	_, err = f.svc.Update(ctx, tournament.ID, TournamentPatch{Status: &badStatus})
	assert.ErrorIs(t, err, ErrValidationFailed)
}

func TestUpdateMaxParticipantsBelowCurrentCount(t *testing.T) {
	f := newTournamentFixture(t)
	ctx := context.Background()
	tournament := f.addTournament(t, 8)

	for i := 0; i < 3; i++ {
		user := f.addUser(t, fmt.Sprintf("user-%d", i), true)
		require.NoError(t, f.svc.Register(ctx, tournament.ID, user))
	}

	two := 2
	_, err := f.svc.Update(ctx, tournament.ID, TournamentPatch{MaxParticipants: &two})
	assert.ErrorIs(t, err, ErrValidationFailed)
}

func TestUpdateStatusesByDates(t *testing.T) {
	f := newTournamentFixture(t)
	ctx := context.Background()
	now := time.Now().UTC()

	past := &models.Tournament{
		ID:              "past",
		Name:            "Tournoi passé",
		StartDate:       now.Add(-48 * time.Hour),
		EndDate:         now.Add(-24 * time.Hour),
		Status:          models.StatusOngoing,
		Participants:    []string{},
		MaxParticipants: 8,
	}
	running := &models.Tournament{
		ID:              "running",
		Name:            "Tournoi en cours",
		StartDate:       now.Add(-time.Hour),
		EndDate:         now.Add(time.Hour),
		Status:          models.StatusUpcoming,
		Participants:    []string{},
		MaxParticipants: 8,
	}
	future := &models.Tournament{
		ID:              "future",
		Name:            "Tournoi futur",
		StartDate:       now.Add(24 * time.Hour),
		EndDate:         now.Add(48 * time.Hour),
		Status:          models.StatusUpcoming,
		Participants:    []string{},
		MaxParticipants: 8,
	}
	for _, tr := range []*models.Tournament{past, running, future} {
		require.NoError(t, f.tournaments.Create(ctx, tr))
	}

	require.NoError(t, f.svc.UpdateStatusesByDates(ctx))

	for id, want := range map[string]models.TournamentStatus{
		"past":    models.StatusCompleted,
		"running": models.StatusOngoing,
		"future":  models.StatusUpcoming,
	} {
		stored, err := f.svc.GetByID(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, want, stored.Status, "tournament %s", id)
	}
}

func TestFullTournamentStartsWhenDateArrives(t *testing.T) {
	f := newTournamentFixture(t)
	ctx := context.Background()
	now := time.Now().UTC()

	full := &models.Tournament{
		ID:              "full",
		Name:            "Tournoi complet",
		StartDate:       now.Add(-time.Hour),
		EndDate:         now.Add(time.Hour),
		Status:          models.StatusFull,
		Participants:    []string{"a", "b"},
		MaxParticipants: 2,
	}
	require.NoError(t, f.tournaments.Create(ctx, full))

	require.NoError(t, f.svc.UpdateStatusesByDates(ctx))

	stored, err := f.svc.GetByID(ctx, "full")
	require.NoError(t, err)
	assert.Equal(t, models.StatusOngoing, stored.Status)
}
