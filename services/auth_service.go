package services

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/tcs-suzini/club-backend/models"
	"github.com/tcs-suzini/club-backend/repositories"
)

const (
	minPasswordLength  = 6
	resetTokenTTL      = 1 * time.Hour
	referentRequestTTL = 15 * time.Minute
)

type AuthService interface {
	Register(ctx context.Context, input RegisterInput) (*models.User, string, error)
	Login(ctx context.Context, input LoginInput) (*models.User, string, error)
	ForgotPassword(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, token, newPassword string) error
	RegisterReferent(ctx context.Context, input ReferentRegisterInput) error
	VerifyReferent(ctx context.Context, email, code string) (*models.User, string, error)
}

type RegisterInput struct {
	Email       string             `json:"email"`
	Password    string             `json:"password"`
	LastName    string             `json:"nom"`
	FirstName   string             `json:"prenom"`
	LicenceType models.LicenceType `json:"type_licence"`
	Licensed    bool               `json:"est_licencie"`
}

type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type ReferentRegisterInput struct {
	Email      string `json:"email"`
	Password   string `json:"password"`
	LastName   string `json:"nom"`
	FirstName  string `json:"prenom"`
	SecretCode string `json:"code_secret"`
}

type authService struct {
	userRepo       repositories.UserRepository
	requestRepo    repositories.ReferentRequestRepository
	tokens         *TokenService
	mailer         Mailer
	referentSecret string
	logger         *slog.Logger
}

func NewAuthService(
	userRepo repositories.UserRepository,
	requestRepo repositories.ReferentRequestRepository,
	tokens *TokenService,
	mailer Mailer,
	referentSecret string,
	logger *slog.Logger,
) AuthService {
	return &authService{
		userRepo:       userRepo,
		requestRepo:    requestRepo,
		tokens:         tokens,
		mailer:         mailer,
		referentSecret: referentSecret,
		logger:         logger,
	}
}

func (s *authService) Register(ctx context.Context, input RegisterInput) (*models.User, string, error) {
	if err := validateEmail(input.Email); err != nil {
		return nil, "", err
	}
	if len(input.Password) < minPasswordLength {
		return nil, "", ErrPasswordTooShort
	}
	if input.LicenceType != models.LicenceCompetition && input.LicenceType != models.LicenceJeuLibre {
		return nil, "", fmt.Errorf("%w: type_licence must be competition or jeu_libre", ErrValidationFailed)
	}

	hash, err := hashPassword(input.Password)
	if err != nil {
		return nil, "", err
	}

	user := &models.User{
		ID:           uuid.NewString(),
		Email:        strings.ToLower(input.Email),
		PasswordHash: hash,
		LastName:     input.LastName,
		FirstName:    input.FirstName,
		LicenceType:  input.LicenceType,
		Licensed:     input.Licensed,
		Role:         models.RoleUser,
		CreatedAt:    time.Now().UTC(),
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repositories.ErrUserEmailConflict) {
			return nil, "", ErrEmailTaken
		}
		return nil, "", fmt.Errorf("failed to create user: %w", err)
	}

	token, err := s.tokens.Issue(user.ID, PurposeAccess, AccessTokenTTL)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

func (s *authService) Login(ctx context.Context, input LoginInput) (*models.User, string, error) {
	user, err := s.userRepo.GetByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			// Generic failure: do not reveal whether the email exists.
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", fmt.Errorf("failed to find user by email: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", fmt.Errorf("failed to compare password hash: %w", err)
	}

	token, err := s.tokens.Issue(user.ID, PurposeAccess, AccessTokenTTL)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

func (s *authService) ForgotPassword(ctx context.Context, email string) error {
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		// Same response whether or not the email is registered.
		return nil
	}

	resetToken, err := s.tokens.Issue(user.ID, PurposePasswordReset, resetTokenTTL)
	if err != nil {
		return err
	}

	s.dispatch(func() error { return s.mailer.SendPasswordReset(user.Email, resetToken) })
	return nil
}

func (s *authService) ResetPassword(ctx context.Context, token, newPassword string) error {
	subjectID, purpose, err := s.tokens.Verify(token)
	if err != nil {
		return err
	}
	if purpose != PurposePasswordReset {
		return ErrTokenInvalid
	}
	if len(newPassword) < minPasswordLength {
		return ErrPasswordTooShort
	}

	user, err := s.userRepo.GetByID(ctx, subjectID)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return ErrTokenInvalid
		}
		return err
	}

	hash, err := hashPassword(newPassword)
	if err != nil {
		return err
	}
	user.PasswordHash = hash
	if err := s.userRepo.Update(ctx, user); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	return nil
}

func (s *authService) RegisterReferent(ctx context.Context, input ReferentRegisterInput) error {
	if s.referentSecret == "" || input.SecretCode != s.referentSecret {
		return ErrInvalidReferentCode
	}
	if err := validateEmail(input.Email); err != nil {
		return err
	}
	if len(input.Password) < minPasswordLength {
		return ErrPasswordTooShort
	}
	if _, err := s.userRepo.GetByEmail(ctx, input.Email); err == nil {
		return ErrEmailTaken
	}

	hash, err := hashPassword(input.Password)
	if err != nil {
		return err
	}

	code, err := generateVerificationCode()
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	request := &models.ReferentRequest{
		Email:            strings.ToLower(input.Email),
		PasswordHash:     hash,
		LastName:         input.LastName,
		FirstName:        input.FirstName,
		VerificationCode: code,
		CreatedAt:        now,
		ExpiresAt:        now.Add(referentRequestTTL),
	}

	// Upsert: a new request replaces any prior one for the same email.
	if err := s.requestRepo.Upsert(ctx, request); err != nil {
		return fmt.Errorf("failed to store referent request: %w", err)
	}

	s.dispatch(func() error { return s.mailer.SendReferentCode(request.Email, code) })
	return nil
}

func (s *authService) VerifyReferent(ctx context.Context, email, code string) (*models.User, string, error) {
	request, err := s.requestRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repositories.ErrReferentRequestNotFound) {
			return nil, "", ErrVerificationFailed
		}
		return nil, "", err
	}

	if request.Expired(time.Now().UTC()) {
		_ = s.requestRepo.DeleteByEmail(ctx, request.Email)
		return nil, "", ErrVerificationFailed
	}
	if request.VerificationCode != code {
		return nil, "", ErrVerificationFailed
	}

	user := &models.User{
		ID:           uuid.NewString(),
		Email:        request.Email,
		PasswordHash: request.PasswordHash,
		LastName:     request.LastName,
		FirstName:    request.FirstName,
		LicenceType:  models.LicenceCompetition,
		Licensed:     true,
		Role:         models.RoleReferent,
		CreatedAt:    time.Now().UTC(),
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repositories.ErrUserEmailConflict) {
			return nil, "", ErrEmailTaken
		}
		return nil, "", fmt.Errorf("failed to create referent user: %w", err)
	}

	// The pending request is consumed exactly once.
	_ = s.requestRepo.DeleteByEmail(ctx, request.Email)

	token, err := s.tokens.Issue(user.ID, PurposeAccess, AccessTokenTTL)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// dispatch runs a delivery function without blocking the request. Failures
// are logged only; the mail layer already falls back to local files.
func (s *authService) dispatch(send func() error) {
	go func() {
		if err := send(); err != nil {
			s.logger.Error("email dispatch failed", slog.Any("error", err))
		}
	}()
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

func validateEmail(email string) error {
	if _, err := mail.ParseAddress(email); err != nil {
		return fmt.Errorf("%w: invalid email address", ErrValidationFailed)
	}
	return nil
}

func generateVerificationCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1_000_000))
	if err != nil {
		return "", fmt.Errorf("failed to generate verification code: %w", err)
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
