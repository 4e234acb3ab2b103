package models

type Match struct {
	ID           string  `json:"id" bson:"id"`
	TournamentID *string `json:"tournament_id,omitempty" bson:"tournament_id,omitempty"`
	TeamA        string  `json:"equipe_a" bson:"equipe_a"`
	TeamB        string  `json:"equipe_b" bson:"equipe_b"`
	Date         string  `json:"date" bson:"date"`
	Time         string  `json:"heure" bson:"heure"`
	Location     string  `json:"lieu" bson:"lieu"`
	ScoreA       *int    `json:"score_a" bson:"score_a"`
	ScoreB       *int    `json:"score_b" bson:"score_b"`
}
