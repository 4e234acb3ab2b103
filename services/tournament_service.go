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

type TournamentService interface {
	List(ctx context.Context) ([]models.Tournament, error)
	GetByID(ctx context.Context, id string) (*models.Tournament, error)
	Create(ctx context.Context, input CreateTournamentInput) (*models.Tournament, error)
	Update(ctx context.Context, id string, patch TournamentPatch) (*models.Tournament, error)
	// Register runs the registration state machine for one user and, on
	// success, increments the participation counter and invokes the
	// achievement engine.
	Register(ctx context.Context, tournamentID string, user *models.User) error
	// UpdateStatusesByDates advances statut along à_venir/complet →
	// en_cours → terminé based on the date range. Invoked periodically.
	UpdateStatusesByDates(ctx context.Context) error
}

type CreateTournamentInput struct {
	Name            string    `json:"nom"`
	Description     string    `json:"description"`
	StartDate       time.Time `json:"date_debut"`
	EndDate         time.Time `json:"date_fin"`
	MaxParticipants int       `json:"max_participants"`
	Paid            bool      `json:"est_payant"`
	Price           *float64  `json:"prix"`
}

// TournamentPatch is a partial update: only non-nil fields are applied.
type TournamentPatch struct {
	Name            *string                  `json:"nom"`
	Description     *string                  `json:"description"`
	StartDate       *time.Time               `json:"date_debut"`
	EndDate         *time.Time               `json:"date_fin"`
	Status          *models.TournamentStatus `json:"statut"`
	MaxParticipants *int                     `json:"max_participants"`
	Paid            *bool                    `json:"est_payant"`
	Price           *float64                 `json:"prix"`
}

func (p TournamentPatch) isEmpty() bool {
	return p.Name == nil && p.Description == nil && p.StartDate == nil && p.EndDate == nil &&
		p.Status == nil && p.MaxParticipants == nil && p.Paid == nil && p.Price == nil
}

type tournamentService struct {
	tournamentRepo repositories.TournamentRepository
	userRepo       repositories.UserRepository
	achievements   AchievementService
	logger         *slog.Logger
}

func NewTournamentService(
	tournamentRepo repositories.TournamentRepository,
	userRepo repositories.UserRepository,
	achievements AchievementService,
	logger *slog.Logger,
) TournamentService {
	return &tournamentService{
		tournamentRepo: tournamentRepo,
		userRepo:       userRepo,
		achievements:   achievements,
		logger:         logger,
	}
}

func (s *tournamentService) List(ctx context.Context) ([]models.Tournament, error) {
	return s.tournamentRepo.List(ctx, repositories.DefaultListLimit)
}

func (s *tournamentService) GetByID(ctx context.Context, id string) (*models.Tournament, error) {
	tournament, err := s.tournamentRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, ErrTournamentNotFound
		}
		return nil, err
	}
	return tournament, nil
}

func (s *tournamentService) Create(ctx context.Context, input CreateTournamentInput) (*models.Tournament, error) {
	if input.Name == "" {
		return nil, fmt.Errorf("%w: nom is required", ErrValidationFailed)
	}
	if input.MaxParticipants <= 0 {
		input.MaxParticipants = 16
	}
	if !input.EndDate.After(input.StartDate) {
		return nil, fmt.Errorf("%w: date_fin must be after date_debut", ErrValidationFailed)
	}

	tournament := &models.Tournament{
		ID:              uuid.NewString(),
		Name:            input.Name,
		Description:     input.Description,
		StartDate:       input.StartDate,
		EndDate:         input.EndDate,
		Status:          models.StatusUpcoming,
		Participants:    []string{},
		MaxParticipants: input.MaxParticipants,
		Paid:            input.Paid,
		Price:           input.Price,
		CreatedAt:       time.Now().UTC(),
	}

	if err := s.tournamentRepo.Create(ctx, tournament); err != nil {
		return nil, fmt.Errorf("failed to create tournament: %w", err)
	}
	return tournament, nil
}

func (s *tournamentService) Update(ctx context.Context, id string, patch TournamentPatch) (*models.Tournament, error) {
	if patch.isEmpty() {
		return nil, ErrNoUpdatableFields
	}

	tournament, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if patch.Name != nil {
		tournament.Name = *patch.Name
	}
	if patch.Description != nil {
		tournament.Description = *patch.Description
	}
	if patch.StartDate != nil {
		tournament.StartDate = *patch.StartDate
	}
	if patch.EndDate != nil {
		tournament.EndDate = *patch.EndDate
	}
	if patch.Status != nil {
		switch *patch.Status {
		case models.StatusUpcoming, models.StatusFull, models.StatusOngoing, models.StatusCompleted:
			tournament.Status = *patch.Status
		default:
			return nil, fmt.Errorf("%w: invalid statut %q", ErrValidationFailed, *patch.Status)
		}
	}
	if patch.MaxParticipants != nil {
		if *patch.MaxParticipants < len(tournament.Participants) {
			return nil, fmt.Errorf("%w: max_participants below current participant count", ErrValidationFailed)
		}
		tournament.MaxParticipants = *patch.MaxParticipants
	}
	if patch.Paid != nil {
		tournament.Paid = *patch.Paid
	}
	if patch.Price != nil {
		tournament.Price = patch.Price
	}

	if err := s.tournamentRepo.Update(ctx, tournament); err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, ErrTournamentNotFound
		}
		return nil, err
	}
	return tournament, nil
}

func (s *tournamentService) Register(ctx context.Context, tournamentID string, user *models.User) error {
	if !user.Licensed {
		return ErrNotLicensed
	}

	tournament, err := s.GetByID(ctx, tournamentID)
	if err != nil {
		return err
	}

	switch tournament.Status {
	case models.StatusOngoing, models.StatusCompleted:
		return ErrRegistrationClosed
	case models.StatusFull:
		return ErrTournamentFull
	}
	if tournament.HasParticipant(user.ID) {
		return ErrAlreadyRegistered
	}
	if tournament.IsFull() {
		return ErrTournamentFull
	}

	if err := s.tournamentRepo.AddParticipant(ctx, tournamentID, user.ID); err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return ErrTournamentNotFound
		}
		return fmt.Errorf("failed to add participant: %w", err)
	}

	if len(tournament.Participants)+1 >= tournament.MaxParticipants {
		if err := s.tournamentRepo.UpdateStatus(ctx, tournamentID, models.StatusFull); err != nil {
			s.logger.Error("failed to mark tournament full",
				slog.String("tournament_id", tournamentID), slog.Any("error", err))
		}
	}

	if err := s.userRepo.IncrementParticipations(ctx, user.ID, 1); err != nil {
		return fmt.Errorf("failed to increment participations: %w", err)
	}

	if err := s.achievements.OnParticipationIncrement(ctx, user.ID); err != nil {
		// Registration already succeeded; grants can be recovered by any
		// later participation event thanks to engine idempotence.
		s.logger.Error("achievement check failed",
			slog.String("user_id", user.ID), slog.Any("error", err))
	}
	return nil
}

func (s *tournamentService) UpdateStatusesByDates(ctx context.Context) error {
	tournaments, err := s.tournamentRepo.List(ctx, repositories.DefaultListLimit)
	if err != nil {
		return fmt.Errorf("failed to list tournaments: %w", err)
	}

	now := time.Now().UTC()
	for i := range tournaments {
		t := &tournaments[i]
		var next models.TournamentStatus
		switch {
		case now.After(t.EndDate) && t.Status != models.StatusCompleted:
			next = models.StatusCompleted
		case now.After(t.StartDate) && now.Before(t.EndDate) &&
			(t.Status == models.StatusUpcoming || t.Status == models.StatusFull):
			next = models.StatusOngoing
		default:
			continue
		}
		if err := s.tournamentRepo.UpdateStatus(ctx, t.ID, next); err != nil {
			s.logger.Error("failed to update tournament status",
				slog.String("tournament_id", t.ID), slog.Any("error", err))
			continue
		}
		s.logger.Info("tournament status updated",
			slog.String("tournament_id", t.ID),
			slog.String("from", string(t.Status)),
			slog.String("to", string(next)))
	}
	return nil
}
