package services

import "errors"

// Sentinel errors shared across services and the HTTP mapping layer.
var (
	// Validation and business rules
	ErrValidationFailed  = errors.New("validation failed")
	ErrPasswordTooShort  = errors.New("password must be at least 6 characters")
	ErrNoUpdatableFields = errors.New("no updatable fields provided")

	// Authentication
	ErrInvalidCredentials = errors.New("email ou mot de passe incorrect")
	ErrEmailTaken         = errors.New("cet email est déjà utilisé")
	ErrTokenInvalid       = errors.New("token invalide")
	ErrTokenExpired       = errors.New("token expiré")

	// Authorization
	ErrForbiddenOperation = errors.New("operation not allowed for the current user")

	// Tournament registration
	ErrNotLicensed        = errors.New("une licence active est requise pour s'inscrire")
	ErrAlreadyRegistered  = errors.New("vous êtes déjà inscrit à ce tournoi")
	ErrTournamentFull     = errors.New("le tournoi est complet")
	ErrRegistrationClosed = errors.New("les inscriptions sont fermées pour ce tournoi")

	// Referent onboarding
	ErrInvalidReferentCode = errors.New("code référent invalide")
	ErrVerificationFailed  = errors.New("code de vérification invalide ou expiré")

	// Missing resources
	ErrUserNotFound        = errors.New("utilisateur non trouvé")
	ErrTournamentNotFound  = errors.New("tournoi non trouvé")
	ErrMatchNotFound       = errors.New("match non trouvé")
	ErrNewsNotFound        = errors.New("actualité non trouvée")
	ErrScheduleNotFound    = errors.New("créneau non trouvé")
	ErrAchievementNotFound = errors.New("succès non trouvé")

	// Infrastructure
	ErrUploaderNotConfigured = errors.New("file uploads are not configured")
)
