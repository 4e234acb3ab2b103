package repositories

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/tcs-suzini/club-backend/models"
)

type MatchRepository interface {
	Create(ctx context.Context, match *models.Match) error
	GetByID(ctx context.Context, id string) (*models.Match, error)
	Update(ctx context.Context, match *models.Match) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, limit int) ([]models.Match, error)
}

type mongoMatchRepository struct {
	coll *mongo.Collection
}

func NewMongoMatchRepository(db *mongo.Database) MatchRepository {
	return &mongoMatchRepository{coll: db.Collection("matches")}
}

func (r *mongoMatchRepository) Create(ctx context.Context, match *models.Match) error {
	_, err := r.coll.InsertOne(ctx, match)
	return err
}

func (r *mongoMatchRepository) GetByID(ctx context.Context, id string) (*models.Match, error) {
	var match models.Match
	err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&match)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrMatchNotFound
		}
		return nil, err
	}
	return &match, nil
}

func (r *mongoMatchRepository) Update(ctx context.Context, match *models.Match) error {
	res, err := r.coll.ReplaceOne(ctx, bson.M{"id": match.ID}, match)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrMatchNotFound
	}
	return nil
}

func (r *mongoMatchRepository) Delete(ctx context.Context, id string) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrMatchNotFound
	}
	return nil
}

func (r *mongoMatchRepository) List(ctx context.Context, limit int) ([]models.Match, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "date", Value: 1}}).
		SetLimit(int64(limit))
	cursor, err := r.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	matches := make([]models.Match, 0)
	if err := cursor.All(ctx, &matches); err != nil {
		return nil, err
	}
	return matches, nil
}
