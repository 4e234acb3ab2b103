package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/tcs-suzini/club-backend/models"
	"github.com/tcs-suzini/club-backend/repositories"
)

// LiveBroadcaster pushes score updates to connected websocket clients.
type LiveBroadcaster interface {
	BroadcastScore(tournamentID string, match *models.Match)
}

type MatchService interface {
	List(ctx context.Context) ([]models.Match, error)
	Create(ctx context.Context, input CreateMatchInput) (*models.Match, error)
	Update(ctx context.Context, id string, patch MatchPatch) (*models.Match, error)
	Delete(ctx context.Context, id string) error
}

type CreateMatchInput struct {
	TournamentID *string `json:"tournament_id"`
	TeamA        string  `json:"equipe_a"`
	TeamB        string  `json:"equipe_b"`
	Date         string  `json:"date"`
	Time         string  `json:"heure"`
	Location     string  `json:"lieu"`
}

// MatchPatch is a partial update: only non-nil fields are applied.
type MatchPatch struct {
	TeamA    *string `json:"equipe_a"`
	TeamB    *string `json:"equipe_b"`
	Date     *string `json:"date"`
	Time     *string `json:"heure"`
	Location *string `json:"lieu"`
	ScoreA   *int    `json:"score_a"`
	ScoreB   *int    `json:"score_b"`
}

func (p MatchPatch) isEmpty() bool {
	return p.TeamA == nil && p.TeamB == nil && p.Date == nil && p.Time == nil &&
		p.Location == nil && p.ScoreA == nil && p.ScoreB == nil
}

type matchService struct {
	matchRepo      repositories.MatchRepository
	tournamentRepo repositories.TournamentRepository
	live           LiveBroadcaster
}

func NewMatchService(
	matchRepo repositories.MatchRepository,
	tournamentRepo repositories.TournamentRepository,
	live LiveBroadcaster,
) MatchService {
	return &matchService{
		matchRepo:      matchRepo,
		tournamentRepo: tournamentRepo,
		live:           live,
	}
}

func (s *matchService) List(ctx context.Context) ([]models.Match, error) {
	return s.matchRepo.List(ctx, repositories.DefaultListLimit)
}

func (s *matchService) Create(ctx context.Context, input CreateMatchInput) (*models.Match, error) {
	if input.TeamA == "" || input.TeamB == "" {
		return nil, fmt.Errorf("%w: equipe_a and equipe_b are required", ErrValidationFailed)
	}

	// Referenced tournament must exist at creation time.
	if input.TournamentID != nil && *input.TournamentID != "" {
		if _, err := s.tournamentRepo.GetByID(ctx, *input.TournamentID); err != nil {
			if errors.Is(err, repositories.ErrTournamentNotFound) {
				return nil, ErrTournamentNotFound
			}
			return nil, err
		}
	}

	match := &models.Match{
		ID:           uuid.NewString(),
		TournamentID: input.TournamentID,
		TeamA:        input.TeamA,
		TeamB:        input.TeamB,
		Date:         input.Date,
		Time:         input.Time,
		Location:     input.Location,
	}

	if err := s.matchRepo.Create(ctx, match); err != nil {
		return nil, fmt.Errorf("failed to create match: %w", err)
	}
	return match, nil
}

func (s *matchService) Update(ctx context.Context, id string, patch MatchPatch) (*models.Match, error) {
	if patch.isEmpty() {
		return nil, ErrNoUpdatableFields
	}

	match, err := s.matchRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrMatchNotFound) {
			return nil, ErrMatchNotFound
		}
		return nil, err
	}

	scoreChanged := patch.ScoreA != nil || patch.ScoreB != nil

	if patch.TeamA != nil {
		match.TeamA = *patch.TeamA
	}
	if patch.TeamB != nil {
		match.TeamB = *patch.TeamB
	}
	if patch.Date != nil {
		match.Date = *patch.Date
	}
	if patch.Time != nil {
		match.Time = *patch.Time
	}
	if patch.Location != nil {
		match.Location = *patch.Location
	}
	if patch.ScoreA != nil {
		match.ScoreA = patch.ScoreA
	}
	if patch.ScoreB != nil {
		match.ScoreB = patch.ScoreB
	}

	if err := s.matchRepo.Update(ctx, match); err != nil {
		if errors.Is(err, repositories.ErrMatchNotFound) {
			return nil, ErrMatchNotFound
		}
		return nil, err
	}

	if scoreChanged && s.live != nil && match.TournamentID != nil {
		s.live.BroadcastScore(*match.TournamentID, match)
	}
	return match, nil
}

func (s *matchService) Delete(ctx context.Context, id string) error {
	if err := s.matchRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repositories.ErrMatchNotFound) {
			return ErrMatchNotFound
		}
		return err
	}
	return nil
}
