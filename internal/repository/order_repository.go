package repository

import (
	"context"
	"time"

	"github.com/alimikegami/e-commerce/storefront-service/internal/domain"
	pkgdto "github.com/alimikegami/e-commerce/storefront-service/pkg/dto"
	"github.com/alimikegami/e-commerce/storefront-service/pkg/errs"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

const ordersCollection = "orders"

type OrderRepositoryImpl struct {
	db *mongo.Database
}

func CreateOrderRepository(db *mongo.Database) OrderRepository {
	return &OrderRepositoryImpl{db: db}
}

// ownerLookup joins the owning user's name and email as "owner".
func ownerLookup() mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$lookup", Value: bson.D{
			{Key: "from", Value: usersCollection},
			{Key: "let", Value: bson.D{{Key: "owner_id", Value: "$user"}}},
			{Key: "pipeline", Value: bson.A{
				bson.D{{Key: "$match", Value: bson.D{{Key: "$expr", Value: bson.D{
					{Key: "$eq", Value: bson.A{"$_id", "$$owner_id"}},
				}}}}},
				bson.D{{Key: "$project", Value: bson.D{{Key: "name", Value: 1}, {Key: "email", Value: 1}}}},
			}},
			{Key: "as", Value: "owner"},
		}}},
		{{Key: "$unwind", Value: bson.D{
			{Key: "path", Value: "$owner"},
			{Key: "preserveNullAndEmptyArrays", Value: true},
		}}},
	}
}

func (r *OrderRepositoryImpl) aggregate(ctx context.Context, stages mongo.Pipeline, component string) (data []domain.OrderWithUser, err error) {
	cursor, err := r.db.Collection(ordersCollection).Aggregate(ctx, stages)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Str("component", component).Msg("")
		return
	}

	data = []domain.OrderWithUser{}
	if err = cursor.All(ctx, &data); err != nil {
		log.Ctx(ctx).Error().Err(err).Str("component", component).Msg("")
		return
	}

	return data, nil
}

func (r *OrderRepositoryImpl) AddOrder(ctx context.Context, data domain.Order) (id primitive.ObjectID, err error) {
	now := time.Now().UTC()
	data.CreatedAt, data.UpdatedAt = now, now

	result, err := r.db.Collection(ordersCollection).InsertOne(ctx, data)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Str("component", "AddOrder").Msg("")
		return
	}

	return result.InsertedID.(primitive.ObjectID), nil
}

func (r *OrderRepositoryImpl) GetOrderByID(ctx context.Context, id string) (order domain.OrderWithUser, err error) {
	orderID, err := parseObjectID(id)
	if err != nil {
		return
	}

	stages := append(mongo.Pipeline{
		{{Key: "$match", Value: bson.D{{Key: "_id", Value: orderID}}}},
	}, ownerLookup()...)

	data, err := r.aggregate(ctx, stages, "GetOrderByID")
	if err != nil {
		return
	}

	if len(data) == 0 {
		return order, errs.ErrNotFound
	}

	return data[0], nil
}

func (r *OrderRepositoryImpl) GetOrders(ctx context.Context, param pkgdto.Filter) (data []domain.OrderWithUser, total int64, err error) {
	total, err = r.db.Collection(ordersCollection).CountDocuments(ctx, bson.D{})
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Str("component", "GetOrders").Msg("")
		return
	}

	stages := append(mongo.Pipeline{
		{{Key: "$sort", Value: bson.D{{Key: "createdAt", Value: -1}}}},
		{{Key: "$skip", Value: param.Skip()}},
		{{Key: "$limit", Value: int64(param.Limit)}},
	}, ownerLookup()...)

	data, err = r.aggregate(ctx, stages, "GetOrders")
	if err != nil {
		return
	}

	return data, total, nil
}

func (r *OrderRepositoryImpl) GetOrdersByUserID(ctx context.Context, userID primitive.ObjectID) (data []domain.OrderWithUser, err error) {
	stages := append(mongo.Pipeline{
		{{Key: "$match", Value: bson.D{{Key: "user", Value: userID}}}},
		{{Key: "$sort", Value: bson.D{{Key: "createdAt", Value: -1}}}},
	}, ownerLookup()...)

	return r.aggregate(ctx, stages, "GetOrdersByUserID")
}

func (r *OrderRepositoryImpl) MarkOrderPaid(ctx context.Context, id primitive.ObjectID, paidAt time.Time, result domain.PaymentResult) (err error) {
	update := bson.D{{Key: "$set", Value: bson.D{
		{Key: "isPaid", Value: true},
		{Key: "paidAt", Value: paidAt},
		{Key: "paymentResult", Value: result},
		{Key: "updatedAt", Value: paidAt},
	}}}

	return r.updateOne(ctx, id, update, "MarkOrderPaid")
}

func (r *OrderRepositoryImpl) MarkOrderDelivered(ctx context.Context, id primitive.ObjectID, deliveredAt time.Time) (err error) {
	update := bson.D{{Key: "$set", Value: bson.D{
		{Key: "isDelivered", Value: true},
		{Key: "deliveredAt", Value: deliveredAt},
		{Key: "updatedAt", Value: deliveredAt},
	}}}

	return r.updateOne(ctx, id, update, "MarkOrderDelivered")
}

func (r *OrderRepositoryImpl) updateOne(ctx context.Context, id primitive.ObjectID, update bson.D, component string) (err error) {
	result, err := r.db.Collection(ordersCollection).UpdateOne(ctx, bson.D{{Key: "_id", Value: id}}, update)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Str("component", component).Msg("")
		return
	}

	if result.MatchedCount == 0 {
		return errs.ErrNotFound
	}

	return nil
}
