package models

import "time"

type UserRole string

const (
	RoleUser     UserRole = "user"
	RoleReferent UserRole = "referent"
	RoleAdmin    UserRole = "admin"
)

type LicenceType string

const (
	LicenceCompetition LicenceType = "competition"
	LicenceJeuLibre    LicenceType = "jeu_libre"
)

// User is the club membership record. JSON and BSON field names follow the
// historical API (French), which the deployed frontend depends on.
type User struct {
	ID             string      `json:"id" bson:"id"`
	Email          string      `json:"email" bson:"email"`
	PasswordHash   string      `json:"-" bson:"password_hash"`
	LastName       string      `json:"nom" bson:"nom"`
	FirstName      string      `json:"prenom" bson:"prenom"`
	LicenceType    LicenceType `json:"type_licence" bson:"type_licence"`
	Licensed       bool        `json:"est_licencie" bson:"est_licencie"`
	Role           UserRole    `json:"role" bson:"role"`
	Points         int         `json:"points" bson:"points"`
	Participations int         `json:"participations" bson:"participations"`
	CreatedAt      time.Time   `json:"date_creation" bson:"date_creation"`
}

// Profile is the /users/me view: the user plus earned achievements.
type Profile struct {
	User
	Achievements []EarnedAchievement `json:"achievements"`
}
