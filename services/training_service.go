package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/tcs-suzini/club-backend/models"
	"github.com/tcs-suzini/club-backend/repositories"
)

type TrainingService interface {
	List(ctx context.Context) ([]models.TrainingSchedule, error)
	Create(ctx context.Context, input TrainingSlotInput) (*models.TrainingSchedule, error)
	// Replace swaps the whole slot (PUT semantics).
	Replace(ctx context.Context, id string, input TrainingSlotInput) (*models.TrainingSchedule, error)
	Delete(ctx context.Context, id string) error
}

type TrainingSlotInput struct {
	Day             string `json:"jour"`
	StartTime       string `json:"heure_debut"`
	EndTime         string `json:"heure_fin"`
	Type            string `json:"type"`
	RequiredLicence string `json:"licence_requise"`
	Description     string `json:"description"`
}

func (in TrainingSlotInput) validate() error {
	if in.Day == "" || in.StartTime == "" || in.EndTime == "" {
		return fmt.Errorf("%w: jour, heure_debut and heure_fin are required", ErrValidationFailed)
	}
	switch in.RequiredLicence {
	case "tous", string(models.LicenceCompetition), string(models.LicenceJeuLibre):
		return nil
	default:
		return fmt.Errorf("%w: licence_requise must be tous, competition or jeu_libre", ErrValidationFailed)
	}
}

type trainingService struct {
	trainingRepo repositories.TrainingRepository
}

func NewTrainingService(trainingRepo repositories.TrainingRepository) TrainingService {
	return &trainingService{trainingRepo: trainingRepo}
}

func (s *trainingService) List(ctx context.Context) ([]models.TrainingSchedule, error) {
	return s.trainingRepo.List(ctx)
}

func (s *trainingService) Create(ctx context.Context, input TrainingSlotInput) (*models.TrainingSchedule, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	slot := &models.TrainingSchedule{
		ID:              uuid.NewString(),
		Day:             input.Day,
		StartTime:       input.StartTime,
		EndTime:         input.EndTime,
		Type:            input.Type,
		RequiredLicence: input.RequiredLicence,
		Description:     input.Description,
	}

	if err := s.trainingRepo.Create(ctx, slot); err != nil {
		return nil, fmt.Errorf("failed to create training slot: %w", err)
	}
	return slot, nil
}

func (s *trainingService) Replace(ctx context.Context, id string, input TrainingSlotInput) (*models.TrainingSchedule, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	slot := &models.TrainingSchedule{
		ID:              id,
		Day:             input.Day,
		StartTime:       input.StartTime,
		EndTime:         input.EndTime,
		Type:            input.Type,
		RequiredLicence: input.RequiredLicence,
		Description:     input.Description,
	}

	if err := s.trainingRepo.Update(ctx, slot); err != nil {
		if errors.Is(err, repositories.ErrScheduleNotFound) {
			return nil, ErrScheduleNotFound
		}
		return nil, err
	}
	return slot, nil
}

func (s *trainingService) Delete(ctx context.Context, id string) error {
	if err := s.trainingRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repositories.ErrScheduleNotFound) {
			return ErrScheduleNotFound
		}
		return err
	}
	return nil
}
