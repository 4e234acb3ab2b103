package repositories

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/tcs-suzini/club-backend/models"
)

type NewsRepository interface {
	Create(ctx context.Context, news *models.News) error
	GetByID(ctx context.Context, id string) (*models.News, error)
	Update(ctx context.Context, news *models.News) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, limit int) ([]models.News, error)
}

type mongoNewsRepository struct {
	coll *mongo.Collection
}

func NewMongoNewsRepository(db *mongo.Database) NewsRepository {
	return &mongoNewsRepository{coll: db.Collection("news")}
}

func (r *mongoNewsRepository) Create(ctx context.Context, news *models.News) error {
	_, err := r.coll.InsertOne(ctx, news)
	return err
}

func (r *mongoNewsRepository) GetByID(ctx context.Context, id string) (*models.News, error) {
	var news models.News
	err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&news)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNewsNotFound
		}
		return nil, err
	}
	return &news, nil
}

func (r *mongoNewsRepository) Update(ctx context.Context, news *models.News) error {
	res, err := r.coll.ReplaceOne(ctx, bson.M{"id": news.ID}, news)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNewsNotFound
	}
	return nil
}

func (r *mongoNewsRepository) Delete(ctx context.Context, id string) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNewsNotFound
	}
	return nil
}

func (r *mongoNewsRepository) List(ctx context.Context, limit int) ([]models.News, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "date_publication", Value: -1}}).
		SetLimit(int64(limit))
	cursor, err := r.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	posts := make([]models.News, 0)
	if err := cursor.All(ctx, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}
