package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tcs-suzini/club-backend/repositories"
)

func validSlotInput() TrainingSlotInput {
	return TrainingSlotInput{
		Day:             "mardi",
		StartTime:       "19:00",
		EndTime:         "21:00",
		Type:            "entrainement",
		RequiredLicence: "competition",
	}
}

func TestTrainingSlotLifecycle(t *testing.T) {
	svc := NewTrainingService(repositories.NewMemoryTrainingRepository())
	ctx := context.Background()

	slot, err := svc.Create(ctx, validSlotInput())
	require.NoError(t, err)
	require.NotEmpty(t, slot.ID)

	replacement := validSlotInput()
	replacement.Day = "jeudi"
	replacement.Description = ""
	replaced, err := svc.Replace(ctx, slot.ID, replacement)
	require.NoError(t, err)
	assert.Equal(t, "jeudi", replaced.Day)
	assert.Empty(t, replaced.Description, "replace overwrites every field")

	require.NoError(t, svc.Delete(ctx, slot.ID))
	assert.ErrorIs(t, svc.Delete(ctx, slot.ID), ErrScheduleNotFound)
}

func TestTrainingSlotValidation(t *testing.T) {
	svc := NewTrainingService(repositories.NewMemoryTrainingRepository())
	ctx := context.Background()

	missing := validSlotInput()
	missing.Day = ""
	_, err := svc.Create(ctx, missing)
	assert.ErrorIs(t, err, ErrValidationFailed)

	badLicence := validSlotInput()
	badLicence.RequiredLicence = "platine"
	_, err = svc.Create(ctx, badLicence)
	assert.ErrorIs(t, err, ErrValidationFailed)

	_, err = svc.Replace(ctx, "ghost", validSlotInput())
	assert.ErrorIs(t, err, ErrScheduleNotFound)
}
