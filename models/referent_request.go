package models

import "time"

// ReferentRequest is a pending referent self-registration. It lives until the
// verification code is consumed or the request expires; at most one per email.
type ReferentRequest struct {
	Email            string    `json:"email" bson:"email"`
	PasswordHash     string    `json:"-" bson:"password_hash"`
	LastName         string    `json:"nom" bson:"nom"`
	FirstName        string    `json:"prenom" bson:"prenom"`
	VerificationCode string    `json:"-" bson:"code_verification"`
	CreatedAt        time.Time `json:"date_creation" bson:"date_creation"`
	ExpiresAt        time.Time `json:"expire_at" bson:"expire_at"`
}

// Expired reports whether the request is past its expiry at the given instant.
func (r *ReferentRequest) Expired(now time.Time) bool {
	return now.After(r.ExpiresAt)
}
