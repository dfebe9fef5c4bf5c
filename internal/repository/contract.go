package repository

import (
	"context"
	"time"

	"github.com/alimikegami/e-commerce/storefront-service/internal/domain"
	pkgdto "github.com/alimikegami/e-commerce/storefront-service/pkg/dto"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type UserRepository interface {
	AddUser(ctx context.Context, data domain.User) (id primitive.ObjectID, err error)
	GetUserByID(ctx context.Context, id string) (user domain.User, err error)
	GetUserByEmail(ctx context.Context, email string) (user domain.User, err error)
	GetUsers(ctx context.Context, param pkgdto.Filter) (data []domain.User, total int64, err error)
	UpdateUser(ctx context.Context, data domain.User) (err error)
	DeleteUserByID(ctx context.Context, id string) (err error)
}

type ProductRepository interface {
	AddProduct(ctx context.Context, data domain.Product) (id primitive.ObjectID, err error)
	GetProducts(ctx context.Context, param pkgdto.Filter) (data []domain.Product, total int64, err error)
	GetProductByID(ctx context.Context, id string) (product domain.Product, err error)
	GetProductsByIDs(ctx context.Context, ids []primitive.ObjectID) (data []domain.Product, err error)
	UpdateProduct(ctx context.Context, data domain.Product) (err error)
	DeleteProduct(ctx context.Context, id string) (err error)
	// AddReview appends review and recomputes the aggregates in one atomic
	// update. It fails with errs.ErrAlreadyReviewed when the reviewer already
	// has a review on the product.
	AddReview(ctx context.Context, productID primitive.ObjectID, review domain.Review) (product domain.Product, err error)
	UpdateRating(ctx context.Context, productID primitive.ObjectID, numReviews int, rating float64) (err error)
	IterateProducts(ctx context.Context, fn func(domain.Product) error) (err error)
}

type OrderRepository interface {
	AddOrder(ctx context.Context, data domain.Order) (id primitive.ObjectID, err error)
	GetOrderByID(ctx context.Context, id string) (order domain.OrderWithUser, err error)
	GetOrders(ctx context.Context, param pkgdto.Filter) (data []domain.OrderWithUser, total int64, err error)
	GetOrdersByUserID(ctx context.Context, userID primitive.ObjectID) (data []domain.OrderWithUser, err error)
	MarkOrderPaid(ctx context.Context, id primitive.ObjectID, paidAt time.Time, result domain.PaymentResult) (err error)
	MarkOrderDelivered(ctx context.Context, id primitive.ObjectID, deliveredAt time.Time) (err error)
}
