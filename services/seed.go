package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/tcs-suzini/club-backend/models"
	"github.com/tcs-suzini/club-backend/repositories"
)

// Seed installs the static data the application expects: the achievement
// catalog, the default weekly training slots and an initial admin account.
// Idempotent: existing data is never touched.
func Seed(
	ctx context.Context,
	achievementRepo repositories.AchievementRepository,
	trainingRepo repositories.TrainingRepository,
	userRepo repositories.UserRepository,
	adminEmail, adminPassword string,
	logger *slog.Logger,
) error {
	count, err := achievementRepo.Count(ctx)
	if err != nil {
		return fmt.Errorf("failed to count achievements: %w", err)
	}
	if count == 0 {
		if err := achievementRepo.InsertMany(ctx, achievementCatalog()); err != nil {
			return fmt.Errorf("failed to seed achievements: %w", err)
		}
		logger.Info("achievement catalog seeded")
	}

	trainingCount, err := trainingRepo.Count(ctx)
	if err != nil {
		return fmt.Errorf("failed to count training slots: %w", err)
	}
	if trainingCount == 0 {
		if err := trainingRepo.InsertMany(ctx, defaultTrainingSlots()); err != nil {
			return fmt.Errorf("failed to seed training schedule: %w", err)
		}
		logger.Info("training schedule seeded")
	}

	if adminEmail != "" && adminPassword != "" {
		if _, err := userRepo.GetByEmail(ctx, adminEmail); err != nil {
			if !errors.Is(err, repositories.ErrUserNotFound) {
				return fmt.Errorf("failed to look up admin account: %w", err)
			}
			hash, err := hashPassword(adminPassword)
			if err != nil {
				return err
			}
			admin := &models.User{
				ID:           uuid.NewString(),
				Email:        adminEmail,
				PasswordHash: hash,
				LastName:     "Admin",
				FirstName:    "TCS",
				LicenceType:  models.LicenceCompetition,
				Licensed:     true,
				Role:         models.RoleAdmin,
				CreatedAt:    time.Now().UTC(),
			}
			if err := userRepo.Create(ctx, admin); err != nil {
				return fmt.Errorf("failed to seed admin account: %w", err)
			}
			logger.Info("admin account seeded", slog.String("email", adminEmail))
		}
	}

	return nil
}

func achievementCatalog() []models.Achievement {
	return []models.Achievement{
		{
			ID:          "membre_fidele",
			Name:        "Membre Fidèle",
			Description: "Participer à 10 événements du club",
			Icon:        "🏐",
			Points:      100,
		},
		{
			ID:          "toujours_present",
			Name:        "Toujours Présent",
			Description: "Participer à 20 événements du club",
			Icon:        "⭐",
			Points:      250,
		},
		{
			ID:          "veteran",
			Name:        "Vétéran",
			Description: "Participer à 50 événements du club",
			Icon:        "👑",
			Points:      500,
		},
		{
			ID:          "premier_tournoi",
			Name:        "Premier Tournoi",
			Description: "S'inscrire à son premier tournoi",
			Icon:        "🎯",
			Points:      50,
		},
		{
			ID:          "champion",
			Name:        "Champion du Club",
			Description: "Gagner 3 tournois",
			Icon:        "🏆",
			Points:      1000,
		},
	}
}

func defaultTrainingSlots() []models.TrainingSchedule {
	return []models.TrainingSchedule{
		{
			ID:              "lundi_entrainement",
			Day:             "Lundi",
			StartTime:       "18:00",
			EndTime:         "20:00",
			Type:            "Entraînement",
			RequiredLicence: "competition",
			Description:     "Entraînement dirigé pour les licenciés Compétition",
		},
		{
			ID:              "lundi_jeu_libre",
			Day:             "Lundi",
			StartTime:       "20:00",
			EndTime:         "22:00",
			Type:            "Jeu Libre",
			RequiredLicence: "tous",
			Description:     "Jeu libre ouvert à tous les licenciés",
		},
		{
			ID:              "mercredi_entrainement",
			Day:             "Mercredi",
			StartTime:       "18:00",
			EndTime:         "20:00",
			Type:            "Entraînement",
			RequiredLicence: "competition",
			Description:     "Entraînement dirigé pour les licenciés Compétition",
		},
		{
			ID:              "mercredi_jeu_libre",
			Day:             "Mercredi",
			StartTime:       "20:00",
			EndTime:         "22:00",
			Type:            "Jeu Libre",
			RequiredLicence: "tous",
			Description:     "Jeu libre ouvert à tous les licenciés",
		},
		{
			ID:              "vendredi_jeu_libre",
			Day:             "Vendredi",
			StartTime:       "18:00",
			EndTime:         "22:00",
			Type:            "Jeu Libre",
			RequiredLicence: "tous",
			Description:     "Jeu libre ouvert à tous les licenciés",
		},
	}
}
