package repositories

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/tcs-suzini/club-backend/models"
)

// AchievementRepository serves the static achievement catalog.
type AchievementRepository interface {
	List(ctx context.Context) ([]models.Achievement, error)
	GetByID(ctx context.Context, id string) (*models.Achievement, error)
	Count(ctx context.Context) (int64, error)
	InsertMany(ctx context.Context, achievements []models.Achievement) error
}

// UserAchievementRepository stores grant records. Find before Create is the
// caller's duty; the pair is never updated in place.
type UserAchievementRepository interface {
	Find(ctx context.Context, userID, achievementID string) (*models.UserAchievement, error)
	ListByUser(ctx context.Context, userID string) ([]models.UserAchievement, error)
	Create(ctx context.Context, grant *models.UserAchievement) error
	DeleteByUser(ctx context.Context, userID string) error
}

// EnsureGrantIndexes creates the unique (user_id, achievement_id) index
// backing the at-most-one-grant invariant.
func EnsureGrantIndexes(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection("user_achievements").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "achievement_id", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}

type mongoAchievementRepository struct {
	coll *mongo.Collection
}

func NewMongoAchievementRepository(db *mongo.Database) AchievementRepository {
	return &mongoAchievementRepository{coll: db.Collection("achievements")}
}

func (r *mongoAchievementRepository) List(ctx context.Context) ([]models.Achievement, error) {
	cursor, err := r.coll.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	achievements := make([]models.Achievement, 0)
	if err := cursor.All(ctx, &achievements); err != nil {
		return nil, err
	}
	return achievements, nil
}

func (r *mongoAchievementRepository) GetByID(ctx context.Context, id string) (*models.Achievement, error) {
	var achievement models.Achievement
	err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&achievement)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrAchievementNotFound
		}
		return nil, err
	}
	return &achievement, nil
}

func (r *mongoAchievementRepository) Count(ctx context.Context) (int64, error) {
	return r.coll.CountDocuments(ctx, bson.M{})
}

func (r *mongoAchievementRepository) InsertMany(ctx context.Context, achievements []models.Achievement) error {
	docs := make([]interface{}, len(achievements))
	for i := range achievements {
		docs[i] = achievements[i]
	}
	_, err := r.coll.InsertMany(ctx, docs)
	return err
}

type mongoUserAchievementRepository struct {
	coll *mongo.Collection
}

func NewMongoUserAchievementRepository(db *mongo.Database) UserAchievementRepository {
	return &mongoUserAchievementRepository{coll: db.Collection("user_achievements")}
}

func (r *mongoUserAchievementRepository) Find(ctx context.Context, userID, achievementID string) (*models.UserAchievement, error) {
	var grant models.UserAchievement
	err := r.coll.FindOne(ctx, bson.M{"user_id": userID, "achievement_id": achievementID}).Decode(&grant)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrAchievementNotFound
		}
		return nil, err
	}
	return &grant, nil
}

func (r *mongoUserAchievementRepository) ListByUser(ctx context.Context, userID string) ([]models.UserAchievement, error) {
	cursor, err := r.coll.Find(ctx, bson.M{"user_id": userID})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	grants := make([]models.UserAchievement, 0)
	if err := cursor.All(ctx, &grants); err != nil {
		return nil, err
	}
	return grants, nil
}

func (r *mongoUserAchievementRepository) Create(ctx context.Context, grant *models.UserAchievement) error {
	_, err := r.coll.InsertOne(ctx, grant)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrGrantConflict
		}
		return err
	}
	return nil
}

func (r *mongoUserAchievementRepository) DeleteByUser(ctx context.Context, userID string) error {
	_, err := r.coll.DeleteMany(ctx, bson.M{"user_id": userID})
	return err
}
