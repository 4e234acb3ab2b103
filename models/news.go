package models

import "time"

type News struct {
	ID          string    `json:"id" bson:"id"`
	Title       string    `json:"titre" bson:"titre"`
	Content     string    `json:"contenu" bson:"contenu"`
	AuthorID    string    `json:"auteur_id" bson:"auteur_id"`
	AuthorName  string    `json:"auteur_nom" bson:"auteur_nom"`
	PublishedAt time.Time `json:"date_publication" bson:"date_publication"`
	ImageURL    *string   `json:"image_url,omitempty" bson:"image_url,omitempty"`
}
