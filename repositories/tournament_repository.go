package repositories

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/tcs-suzini/club-backend/models"
)

type TournamentRepository interface {
	Create(ctx context.Context, tournament *models.Tournament) error
	GetByID(ctx context.Context, id string) (*models.Tournament, error)
	Update(ctx context.Context, tournament *models.Tournament) error
	List(ctx context.Context, limit int) ([]models.Tournament, error)
	// AddParticipant appends userID to the participant list as a single
	// atomic document update.
	AddParticipant(ctx context.Context, tournamentID, userID string) error
	UpdateStatus(ctx context.Context, id string, status models.TournamentStatus) error
}

type mongoTournamentRepository struct {
	coll *mongo.Collection
}

func NewMongoTournamentRepository(db *mongo.Database) TournamentRepository {
	return &mongoTournamentRepository{coll: db.Collection("tournaments")}
}

func (r *mongoTournamentRepository) Create(ctx context.Context, tournament *models.Tournament) error {
	_, err := r.coll.InsertOne(ctx, tournament)
	return err
}

func (r *mongoTournamentRepository) GetByID(ctx context.Context, id string) (*models.Tournament, error) {
	var tournament models.Tournament
	err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&tournament)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrTournamentNotFound
		}
		return nil, err
	}
	return &tournament, nil
}

func (r *mongoTournamentRepository) Update(ctx context.Context, tournament *models.Tournament) error {
	res, err := r.coll.ReplaceOne(ctx, bson.M{"id": tournament.ID}, tournament)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrTournamentNotFound
	}
	return nil
}

func (r *mongoTournamentRepository) List(ctx context.Context, limit int) ([]models.Tournament, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "date_debut", Value: -1}}).
		SetLimit(int64(limit))
	cursor, err := r.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	tournaments := make([]models.Tournament, 0)
	if err := cursor.All(ctx, &tournaments); err != nil {
		return nil, err
	}
	return tournaments, nil
}

func (r *mongoTournamentRepository) AddParticipant(ctx context.Context, tournamentID, userID string) error {
	res, err := r.coll.UpdateOne(ctx,
		bson.M{"id": tournamentID},
		bson.M{"$addToSet": bson.M{"participants": userID}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrTournamentNotFound
	}
	return nil
}

func (r *mongoTournamentRepository) UpdateStatus(ctx context.Context, id string, status models.TournamentStatus) error {
	res, err := r.coll.UpdateOne(ctx,
		bson.M{"id": id},
		bson.M{"$set": bson.M{"statut": status}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrTournamentNotFound
	}
	return nil
}
