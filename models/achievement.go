package models

import "time"

// Achievement is a static catalog entry, seeded at startup and read-only after.
type Achievement struct {
	ID          string `json:"id" bson:"id"`
	Name        string `json:"nom" bson:"nom"`
	Description string `json:"description" bson:"description"`
	Icon        string `json:"icone" bson:"icone"`
	Points      int    `json:"points" bson:"points"`
}

// UserAchievement links a user to an achievement. At most one per (user, achievement) pair.
type UserAchievement struct {
	UserID        string    `json:"user_id" bson:"user_id"`
	AchievementID string    `json:"achievement_id" bson:"achievement_id"`
	EarnedAt      time.Time `json:"date_obtenu" bson:"date_obtenu"`
}

// EarnedAchievement is the catalog entry joined with the grant date, as served
// inside a profile.
type EarnedAchievement struct {
	ID          string    `json:"id"`
	Name        string    `json:"nom"`
	Description string    `json:"description"`
	Icon        string    `json:"icone"`
	Points      int       `json:"points"`
	EarnedAt    time.Time `json:"date_obtenu"`
}
