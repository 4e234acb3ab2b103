package models

import "time"

// TournamentStatus mirrors the statut values stored in the tournaments collection.
type TournamentStatus string

const (
	StatusUpcoming  TournamentStatus = "à_venir"
	StatusFull      TournamentStatus = "complet"
	StatusOngoing   TournamentStatus = "en_cours"
	StatusCompleted TournamentStatus = "terminé"
)

type Tournament struct {
	ID              string           `json:"id" bson:"id"`
	Name            string           `json:"nom" bson:"nom"`
	Description     string           `json:"description" bson:"description"`
	StartDate       time.Time        `json:"date_debut" bson:"date_debut"`
	EndDate         time.Time        `json:"date_fin" bson:"date_fin"`
	Status          TournamentStatus `json:"statut" bson:"statut"`
	Participants    []string         `json:"participants" bson:"participants"`
	MaxParticipants int              `json:"max_participants" bson:"max_participants"`
	Paid            bool             `json:"est_payant" bson:"est_payant"`
	Price           *float64         `json:"prix,omitempty" bson:"prix,omitempty"`
	CreatedAt       time.Time        `json:"date_creation" bson:"date_creation"`
}

// IsFull reports whether the participant list has reached capacity.
func (t *Tournament) IsFull() bool {
	return len(t.Participants) >= t.MaxParticipants
}

// HasParticipant reports whether userID is already registered.
func (t *Tournament) HasParticipant(userID string) bool {
	for _, id := range t.Participants {
		if id == userID {
			return true
		}
	}
	return false
}
