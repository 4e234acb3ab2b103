package repositories

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/tcs-suzini/club-backend/models"
)

type TrainingRepository interface {
	Create(ctx context.Context, slot *models.TrainingSchedule) error
	GetByID(ctx context.Context, id string) (*models.TrainingSchedule, error)
	Update(ctx context.Context, slot *models.TrainingSchedule) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]models.TrainingSchedule, error)
	Count(ctx context.Context) (int64, error)
	InsertMany(ctx context.Context, slots []models.TrainingSchedule) error
}

type mongoTrainingRepository struct {
	coll *mongo.Collection
}

func NewMongoTrainingRepository(db *mongo.Database) TrainingRepository {
	return &mongoTrainingRepository{coll: db.Collection("training_schedule")}
}

func (r *mongoTrainingRepository) Create(ctx context.Context, slot *models.TrainingSchedule) error {
	_, err := r.coll.InsertOne(ctx, slot)
	return err
}

func (r *mongoTrainingRepository) GetByID(ctx context.Context, id string) (*models.TrainingSchedule, error) {
	var slot models.TrainingSchedule
	err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&slot)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrScheduleNotFound
		}
		return nil, err
	}
	return &slot, nil
}

func (r *mongoTrainingRepository) Update(ctx context.Context, slot *models.TrainingSchedule) error {
	res, err := r.coll.ReplaceOne(ctx, bson.M{"id": slot.ID}, slot)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrScheduleNotFound
	}
	return nil
}

func (r *mongoTrainingRepository) Delete(ctx context.Context, id string) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrScheduleNotFound
	}
	return nil
}

func (r *mongoTrainingRepository) List(ctx context.Context) ([]models.TrainingSchedule, error) {
	cursor, err := r.coll.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	slots := make([]models.TrainingSchedule, 0)
	if err := cursor.All(ctx, &slots); err != nil {
		return nil, err
	}
	return slots, nil
}

func (r *mongoTrainingRepository) Count(ctx context.Context) (int64, error) {
	return r.coll.CountDocuments(ctx, bson.M{})
}

func (r *mongoTrainingRepository) InsertMany(ctx context.Context, slots []models.TrainingSchedule) error {
	docs := make([]interface{}, len(slots))
	for i := range slots {
		docs[i] = slots[i]
	}
	_, err := r.coll.InsertMany(ctx, docs)
	return err
}
