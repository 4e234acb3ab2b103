package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/tcs-suzini/club-backend/models"
	"github.com/tcs-suzini/club-backend/repositories"
)

// participationThresholds maps participation counts to catalog ids, ascending.
var participationThresholds = []struct {
	Required      int
	AchievementID string
}{
	{10, "membre_fidele"},
	{20, "toujours_present"},
	{50, "veteran"},
}

type AchievementService interface {
	// OnParticipationIncrement grants every threshold achievement the user
	// now qualifies for and has not yet been granted. Safe to invoke more
	// than once per event: the at-most-one-grant invariant prevents double
	// awards. Callable after any participation-incrementing action.
	OnParticipationIncrement(ctx context.Context, userID string) error
	ListCatalog(ctx context.Context) ([]models.Achievement, error)
}

type achievementService struct {
	userRepo        repositories.UserRepository
	achievementRepo repositories.AchievementRepository
	grantRepo       repositories.UserAchievementRepository
}

func NewAchievementService(
	userRepo repositories.UserRepository,
	achievementRepo repositories.AchievementRepository,
	grantRepo repositories.UserAchievementRepository,
) AchievementService {
	return &achievementService{
		userRepo:        userRepo,
		achievementRepo: achievementRepo,
		grantRepo:       grantRepo,
	}
}

func (s *achievementService) OnParticipationIncrement(ctx context.Context, userID string) error {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	for _, threshold := range participationThresholds {
		if user.Participations < threshold.Required {
			continue
		}

		_, err := s.grantRepo.Find(ctx, userID, threshold.AchievementID)
		if err == nil {
			continue // already granted
		}
		if !errors.Is(err, repositories.ErrAchievementNotFound) {
			return fmt.Errorf("failed to check existing grant: %w", err)
		}

		achievement, err := s.achievementRepo.GetByID(ctx, threshold.AchievementID)
		if err != nil {
			if errors.Is(err, repositories.ErrAchievementNotFound) {
				continue // catalog not seeded with this entry
			}
			return err
		}

		grant := &models.UserAchievement{
			UserID:        userID,
			AchievementID: achievement.ID,
			EarnedAt:      time.Now().UTC(),
		}
		if err := s.grantRepo.Create(ctx, grant); err != nil {
			if errors.Is(err, repositories.ErrGrantConflict) {
				continue // lost a race with a concurrent trigger
			}
			return fmt.Errorf("failed to record grant: %w", err)
		}

		if err := s.userRepo.IncrementPoints(ctx, userID, achievement.Points); err != nil {
			return fmt.Errorf("failed to add achievement points: %w", err)
		}
	}
	return nil
}

func (s *achievementService) ListCatalog(ctx context.Context) ([]models.Achievement, error) {
	return s.achievementRepo.List(ctx)
}
