package repositories

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/tcs-suzini/club-backend/models"
)

// ReferentRequestRepository stores pending referent self-registrations keyed
// by email. Upsert replaces any prior request for the same address.
type ReferentRequestRepository interface {
	Upsert(ctx context.Context, request *models.ReferentRequest) error
	GetByEmail(ctx context.Context, email string) (*models.ReferentRequest, error)
	DeleteByEmail(ctx context.Context, email string) error
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

type mongoReferentRequestRepository struct {
	coll *mongo.Collection
}

func NewMongoReferentRequestRepository(db *mongo.Database) ReferentRequestRepository {
	return &mongoReferentRequestRepository{coll: db.Collection("referent_requests")}
}

func (r *mongoReferentRequestRepository) Upsert(ctx context.Context, request *models.ReferentRequest) error {
	request.Email = strings.ToLower(request.Email)
	_, err := r.coll.ReplaceOne(ctx,
		bson.M{"email": request.Email},
		request,
		options.Replace().SetUpsert(true),
	)
	return err
}

func (r *mongoReferentRequestRepository) GetByEmail(ctx context.Context, email string) (*models.ReferentRequest, error) {
	var request models.ReferentRequest
	err := r.coll.FindOne(ctx, bson.M{"email": strings.ToLower(email)}).Decode(&request)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrReferentRequestNotFound
		}
		return nil, err
	}
	return &request, nil
}

func (r *mongoReferentRequestRepository) DeleteByEmail(ctx context.Context, email string) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"email": strings.ToLower(email)})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrReferentRequestNotFound
	}
	return nil
}

func (r *mongoReferentRequestRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	res, err := r.coll.DeleteMany(ctx, bson.M{"expire_at": bson.M{"$lt": now}})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
