package services

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/tcs-suzini/club-backend/models"
	"github.com/tcs-suzini/club-backend/repositories"
)

const rankingsLimit = 50

type UserService interface {
	// GetProfile assembles the user with earned achievements.
	GetProfile(ctx context.Context, user *models.User) (*models.Profile, error)
	UpdateSelf(ctx context.Context, user *models.User, patch UserPatch) (*models.User, error)
	DeleteUser(ctx context.Context, id string) error
	// Rankings returns the licensed top by points.
	Rankings(ctx context.Context) ([]models.User, error)

	// Member management, referent only.
	ListUsers(ctx context.Context) ([]models.User, error)
	UpdateUser(ctx context.Context, id string, patch MemberPatch) (*models.User, error)
	ToggleLicense(ctx context.Context, id string) (*models.User, error)
}

// UserPatch is the self-service partial update. Only non-nil fields are
// applied; unknown payload fields are discarded at decode time.
type UserPatch struct {
	LastName    *string             `json:"nom"`
	FirstName   *string             `json:"prenom"`
	LicenceType *models.LicenceType `json:"type_licence"`
}

func (p UserPatch) isEmpty() bool {
	return p.LastName == nil && p.FirstName == nil && p.LicenceType == nil
}

// MemberPatch is the referent-side partial update of a member record.
type MemberPatch struct {
	Licensed    *bool               `json:"est_licencie"`
	LicenceType *models.LicenceType `json:"type_licence"`
	Role        *models.UserRole    `json:"role"`
}

func (p MemberPatch) isEmpty() bool {
	return p.Licensed == nil && p.LicenceType == nil && p.Role == nil
}

type userService struct {
	userRepo        repositories.UserRepository
	achievementRepo repositories.AchievementRepository
	grantRepo       repositories.UserAchievementRepository
}

func NewUserService(
	userRepo repositories.UserRepository,
	achievementRepo repositories.AchievementRepository,
	grantRepo repositories.UserAchievementRepository,
) UserService {
	return &userService{
		userRepo:        userRepo,
		achievementRepo: achievementRepo,
		grantRepo:       grantRepo,
	}
}

func (s *userService) GetProfile(ctx context.Context, user *models.User) (*models.Profile, error) {
	var (
		grants  []models.UserAchievement
		catalog []models.Achievement
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		grants, err = s.grantRepo.ListByUser(gctx, user.ID)
		return err
	})
	g.Go(func() error {
		var err error
		catalog, err = s.achievementRepo.List(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to assemble profile: %w", err)
	}

	byID := make(map[string]models.Achievement, len(catalog))
	for _, a := range catalog {
		byID[a.ID] = a
	}

	earned := make([]models.EarnedAchievement, 0, len(grants))
	for _, grant := range grants {
		a, ok := byID[grant.AchievementID]
		if !ok {
			continue
		}
		earned = append(earned, models.EarnedAchievement{
			ID:          a.ID,
			Name:        a.Name,
			Description: a.Description,
			Icon:        a.Icon,
			Points:      a.Points,
			EarnedAt:    grant.EarnedAt,
		})
	}

	return &models.Profile{User: *user, Achievements: earned}, nil
}

func (s *userService) UpdateSelf(ctx context.Context, user *models.User, patch UserPatch) (*models.User, error) {
	if patch.isEmpty() {
		return nil, ErrNoUpdatableFields
	}

	if patch.LastName != nil {
		user.LastName = *patch.LastName
	}
	if patch.FirstName != nil {
		user.FirstName = *patch.FirstName
	}
	if patch.LicenceType != nil {
		if *patch.LicenceType != models.LicenceCompetition && *patch.LicenceType != models.LicenceJeuLibre {
			return nil, fmt.Errorf("%w: type_licence must be competition or jeu_libre", ErrValidationFailed)
		}
		user.LicenceType = *patch.LicenceType
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

// DeleteUser removes the user and cascades to their grant records.
func (s *userService) DeleteUser(ctx context.Context, id string) error {
	if err := s.userRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	if err := s.grantRepo.DeleteByUser(ctx, id); err != nil {
		return fmt.Errorf("failed to delete user grants: %w", err)
	}
	return nil
}

func (s *userService) Rankings(ctx context.Context) ([]models.User, error) {
	return s.userRepo.ListLicensedByPoints(ctx, rankingsLimit)
}

func (s *userService) ListUsers(ctx context.Context) ([]models.User, error) {
	return s.userRepo.List(ctx, repositories.DefaultListLimit)
}

func (s *userService) UpdateUser(ctx context.Context, id string, patch MemberPatch) (*models.User, error) {
	if patch.isEmpty() {
		return nil, ErrNoUpdatableFields
	}

	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	if patch.Licensed != nil {
		user.Licensed = *patch.Licensed
	}
	if patch.LicenceType != nil {
		if *patch.LicenceType != models.LicenceCompetition && *patch.LicenceType != models.LicenceJeuLibre {
			return nil, fmt.Errorf("%w: type_licence must be competition or jeu_libre", ErrValidationFailed)
		}
		user.LicenceType = *patch.LicenceType
	}
	if patch.Role != nil {
		switch *patch.Role {
		case models.RoleUser, models.RoleReferent, models.RoleAdmin:
			user.Role = *patch.Role
		default:
			return nil, fmt.Errorf("%w: invalid role %q", ErrValidationFailed, *patch.Role)
		}
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *userService) ToggleLicense(ctx context.Context, id string) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	user.Licensed = !user.Licensed
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}
