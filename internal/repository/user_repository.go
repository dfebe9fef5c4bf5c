package repository

import (
	"context"
	"errors"
	"time"

	"github.com/alimikegami/e-commerce/storefront-service/internal/domain"
	pkgdto "github.com/alimikegami/e-commerce/storefront-service/pkg/dto"
	"github.com/alimikegami/e-commerce/storefront-service/pkg/errs"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const usersCollection = "users"

type UserRepositoryImpl struct {
	db *mongo.Database
}

func CreateUserRepository(db *mongo.Database) UserRepository {
	return &UserRepositoryImpl{db: db}
}

func (r *UserRepositoryImpl) AddUser(ctx context.Context, data domain.User) (id primitive.ObjectID, err error) {
	now := time.Now().UTC()
	data.CreatedAt, data.UpdatedAt = now, now

	result, err := r.db.Collection(usersCollection).InsertOne(ctx, data)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return id, errs.ErrEmailAlreadyUsed
		}
		log.Ctx(ctx).Error().Err(err).Str("component", "AddUser").Msg("")
		return
	}

	return result.InsertedID.(primitive.ObjectID), nil
}

func (r *UserRepositoryImpl) GetUserByID(ctx context.Context, id string) (user domain.User, err error) {
	userID, err := parseObjectID(id)
	if err != nil {
		return
	}

	return r.findOne(ctx, bson.D{{Key: "_id", Value: userID}}, "GetUserByID")
}

func (r *UserRepositoryImpl) GetUserByEmail(ctx context.Context, email string) (user domain.User, err error) {
	return r.findOne(ctx, bson.D{{Key: "email", Value: email}}, "GetUserByEmail")
}

func (r *UserRepositoryImpl) findOne(ctx context.Context, filter bson.D, component string) (user domain.User, err error) {
	err = r.db.Collection(usersCollection).FindOne(ctx, filter).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return user, errs.ErrNotFound
		}
		log.Ctx(ctx).Error().Err(err).Str("component", component).Msg("")
		return
	}

	return user, nil
}

func (r *UserRepositoryImpl) GetUsers(ctx context.Context, param pkgdto.Filter) (data []domain.User, total int64, err error) {
	filter := bson.D{}
	if param.Q != "" {
		filter = bson.D{{Key: "$or", Value: bson.A{
			bson.D{{Key: "name", Value: containsPattern(param.Q)}},
			bson.D{{Key: "email", Value: containsPattern(param.Q)}},
		}}}
	}

	total, err = r.db.Collection(usersCollection).CountDocuments(ctx, filter)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Str("component", "GetUsers").Msg("")
		return
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetSkip(param.Skip()).
		SetLimit(int64(param.Limit))

	cursor, err := r.db.Collection(usersCollection).Find(ctx, filter, opts)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Str("component", "GetUsers").Msg("")
		return
	}

	data = []domain.User{}
	if err = cursor.All(ctx, &data); err != nil {
		log.Ctx(ctx).Error().Err(err).Str("component", "GetUsers").Msg("")
		return
	}

	return data, total, nil
}

func (r *UserRepositoryImpl) UpdateUser(ctx context.Context, data domain.User) (err error) {
	filter := bson.D{{Key: "_id", Value: data.ID}}

	update := bson.D{{Key: "$set", Value: bson.D{
		{Key: "name", Value: data.Name},
		{Key: "email", Value: data.Email},
		{Key: "password", Value: data.Password},
		{Key: "role", Value: data.Role},
		{Key: "updatedAt", Value: time.Now().UTC()},
	}}}

	result, err := r.db.Collection(usersCollection).UpdateOne(ctx, filter, update)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return errs.ErrEmailAlreadyUsed
		}
		log.Ctx(ctx).Error().Err(err).Str("component", "UpdateUser").Msg("")
		return
	}

	if result.MatchedCount == 0 {
		return errs.ErrNotFound
	}

	return nil
}

func (r *UserRepositoryImpl) DeleteUserByID(ctx context.Context, id string) (err error) {
	userID, err := parseObjectID(id)
	if err != nil {
		return
	}

	return r.deleteOne(ctx, bson.D{{Key: "_id", Value: userID}}, "DeleteUserByID")
}

func (r *UserRepositoryImpl) deleteOne(ctx context.Context, filter bson.D, component string) (err error) {
	result, err := r.db.Collection(usersCollection).DeleteOne(ctx, filter)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Str("component", component).Msg("")
		return
	}

	if result.DeletedCount == 0 {
		return errs.ErrNotFound
	}

	return nil
}
