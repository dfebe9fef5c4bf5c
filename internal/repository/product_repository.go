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

const productsCollection = "products"

type ProductRepositoryImpl struct {
	db *mongo.Database
}

func CreateProductRepository(db *mongo.Database) ProductRepository {
	return &ProductRepositoryImpl{db: db}
}

func (r *ProductRepositoryImpl) AddProduct(ctx context.Context, data domain.Product) (id primitive.ObjectID, err error) {
	now := time.Now().UTC()
	data.CreatedAt, data.UpdatedAt = now, now
	if data.Reviews == nil {
		data.Reviews = []domain.Review{}
	}

	result, err := r.db.Collection(productsCollection).InsertOne(ctx, data)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Str("component", "AddProduct").Msg("")
		return
	}

	return result.InsertedID.(primitive.ObjectID), nil
}

func (r *ProductRepositoryImpl) GetProducts(ctx context.Context, param pkgdto.Filter) (data []domain.Product, total int64, err error) {
	filter := bson.D{}
	if param.Q != "" {
		filter = bson.D{{Key: "name", Value: containsPattern(param.Q)}}
	}

	total, err = r.db.Collection(productsCollection).CountDocuments(ctx, filter)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Str("component", "GetProducts").Msg("")
		return
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetSkip(param.Skip()).
		SetLimit(int64(param.Limit))

	cursor, err := r.db.Collection(productsCollection).Find(ctx, filter, opts)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Str("component", "GetProducts").Msg("")
		return
	}

	data = []domain.Product{}
	if err = cursor.All(ctx, &data); err != nil {
		log.Ctx(ctx).Error().Err(err).Str("component", "GetProducts").Msg("")
		return
	}

	return data, total, nil
}

func (r *ProductRepositoryImpl) GetProductByID(ctx context.Context, id string) (product domain.Product, err error) {
	productID, err := parseObjectID(id)
	if err != nil {
		return
	}

	filter := bson.D{{Key: "_id", Value: productID}}

	err = r.db.Collection(productsCollection).FindOne(ctx, filter).Decode(&product)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return product, errs.ErrNotFound
		}
		log.Ctx(ctx).Error().Err(err).Str("component", "GetProductByID").Msg("")
		return
	}

	return product, nil
}

func (r *ProductRepositoryImpl) GetProductsByIDs(ctx context.Context, ids []primitive.ObjectID) (data []domain.Product, err error) {
	filter := bson.D{{Key: "_id", Value: bson.D{{Key: "$in", Value: ids}}}}

	cursor, err := r.db.Collection(productsCollection).Find(ctx, filter)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Str("component", "GetProductsByIDs").Msg("")
		return
	}

	data = []domain.Product{}
	if err = cursor.All(ctx, &data); err != nil {
		log.Ctx(ctx).Error().Err(err).Str("component", "GetProductsByIDs").Msg("")
		return
	}

	return data, nil
}

func (r *ProductRepositoryImpl) UpdateProduct(ctx context.Context, data domain.Product) (err error) {
	filter := bson.D{{Key: "_id", Value: data.ID}}

	update := bson.D{{Key: "$set", Value: bson.D{
		{Key: "name", Value: data.Name},
		{Key: "image", Value: data.Image},
		{Key: "brand", Value: data.Brand},
		{Key: "category", Value: data.Category},
		{Key: "description", Value: data.Description},
		{Key: "price", Value: data.Price},
		{Key: "countInStock", Value: data.CountInStock},
		{Key: "updatedAt", Value: time.Now().UTC()},
	}}}

	result, err := r.db.Collection(productsCollection).UpdateOne(ctx, filter, update)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Str("component", "UpdateProduct").Msg("Failed to update product")
		return
	}

	if result.MatchedCount == 0 {
		return errs.ErrNotFound
	}

	return nil
}

func (r *ProductRepositoryImpl) DeleteProduct(ctx context.Context, id string) (err error) {
	productID, err := parseObjectID(id)
	if err != nil {
		return
	}

	result, err := r.db.Collection(productsCollection).DeleteOne(ctx, bson.D{{Key: "_id", Value: productID}})
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Str("component", "DeleteProduct").Msg("")
		return
	}

	if result.DeletedCount == 0 {
		return errs.ErrNotFound
	}

	return nil
}

func (r *ProductRepositoryImpl) AddReview(ctx context.Context, productID primitive.ObjectID, review domain.Review) (product domain.Product, err error) {
	filter := bson.D{
		{Key: "_id", Value: productID},
		{Key: "reviews.user", Value: bson.D{{Key: "$ne", Value: review.User}}},
	}

	// Pipeline update so the append and the aggregate are computed against
	// the same document version.
	update := mongo.Pipeline{
		{{Key: "$set", Value: bson.D{
			{Key: "reviews", Value: bson.D{{Key: "$concatArrays", Value: bson.A{
				bson.D{{Key: "$ifNull", Value: bson.A{"$reviews", bson.A{}}}},
				bson.D{{Key: "$literal", Value: bson.A{review}}},
			}}}},
			{Key: "updatedAt", Value: time.Now().UTC()},
		}}},
		{{Key: "$set", Value: bson.D{
			{Key: "numReviews", Value: bson.D{{Key: "$size", Value: "$reviews"}}},
			{Key: "rating", Value: bson.D{{Key: "$avg", Value: "$reviews.rating"}}},
		}}},
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	err = r.db.Collection(productsCollection).FindOneAndUpdate(ctx, filter, update, opts).Decode(&product)
	if err == nil {
		return product, nil
	}

	if !errors.Is(err, mongo.ErrNoDocuments) {
		log.Ctx(ctx).Error().Err(err).Str("component", "AddReview").Msg("")
		return
	}

	count, cerr := r.db.Collection(productsCollection).CountDocuments(ctx, bson.D{{Key: "_id", Value: productID}})
	if cerr != nil {
		log.Ctx(ctx).Error().Err(cerr).Str("component", "AddReview").Msg("")
		return product, cerr
	}

	if count == 0 {
		return product, errs.ErrNotFound
	}

	return product, errs.ErrAlreadyReviewed
}

func (r *ProductRepositoryImpl) UpdateRating(ctx context.Context, productID primitive.ObjectID, numReviews int, rating float64) (err error) {
	filter := bson.D{{Key: "_id", Value: productID}}
	update := bson.D{{Key: "$set", Value: bson.D{
		{Key: "numReviews", Value: numReviews},
		{Key: "rating", Value: rating},
	}}}

	result, err := r.db.Collection(productsCollection).UpdateOne(ctx, filter, update)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Str("component", "UpdateRating").Msg("")
		return
	}

	if result.MatchedCount == 0 {
		return errs.ErrNotFound
	}

	return nil
}

func (r *ProductRepositoryImpl) IterateProducts(ctx context.Context, fn func(domain.Product) error) (err error) {
	opts := options.Find().SetProjection(bson.D{
		{Key: "reviews", Value: 1},
		{Key: "rating", Value: 1},
		{Key: "numReviews", Value: 1},
	})

	cursor, err := r.db.Collection(productsCollection).Find(ctx, bson.D{}, opts)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Str("component", "IterateProducts").Msg("")
		return
	}
	defer cursor.Close(ctx)

	for cursor.Next(ctx) {
		var product domain.Product
		if err = cursor.Decode(&product); err != nil {
			log.Ctx(ctx).Error().Err(err).Str("component", "IterateProducts").Msg("")
			return
		}

		if err = fn(product); err != nil {
			return
		}
	}

	return cursor.Err()
}
