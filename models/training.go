package models

// TrainingSchedule is a weekly training slot. licence_requise is either a
// LicenceType value or "tous" for slots open to every member.
type TrainingSchedule struct {
	ID              string `json:"id" bson:"id"`
	Day             string `json:"jour" bson:"jour"`
	StartTime       string `json:"heure_debut" bson:"heure_debut"`
	EndTime         string `json:"heure_fin" bson:"heure_fin"`
	Type            string `json:"type" bson:"type"`
	RequiredLicence string `json:"licence_requise" bson:"licence_requise"`
	Description     string `json:"description" bson:"description"`
}
