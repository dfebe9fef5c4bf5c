package service

import (
	"context"

	"github.com/alimikegami/e-commerce/storefront-service/internal/dto"
	pkgdto "github.com/alimikegami/e-commerce/storefront-service/pkg/dto"
)

type UserService interface {
	Signup(ctx context.Context, req dto.SignupRequest) (resp dto.TokenResponse, err error)
	Login(ctx context.Context, req dto.LoginRequest) (resp dto.TokenResponse, err error)
	GetSelf(ctx context.Context) (resp dto.UserResponse, err error)
	UpdateSelf(ctx context.Context, req dto.UpdateSelfRequest) (resp dto.UserResponse, err error)
	GetUsers(ctx context.Context, filter pkgdto.Filter) (resp pkgdto.PaginationResponse, err error)
	GetUserByID(ctx context.Context, id string) (resp dto.UserResponse, err error)
	UpdateUserByID(ctx context.Context, id string, req dto.UpdateUserRequest) (resp dto.UserResponse, err error)
	DeleteUserByID(ctx context.Context, id string) (err error)
	SeedAdmin(ctx context.Context, name, email, password string) (err error)
}

type ProductService interface {
	GetProducts(ctx context.Context, filter pkgdto.Filter) (resp pkgdto.PaginationResponse, err error)
	GetProductByID(ctx context.Context, id string) (resp dto.ProductResponse, err error)
	AddProduct(ctx context.Context, req dto.ProductRequest, image *dto.FileUpload) (resp dto.ProductResponse, err error)
	UpdateProduct(ctx context.Context, id string, req dto.ProductRequest, image *dto.FileUpload) (resp dto.ProductResponse, err error)
	DeleteProduct(ctx context.Context, id string) (err error)
	AddReview(ctx context.Context, id string, req dto.ReviewRequest) (resp dto.ProductResponse, err error)
	ReconcileRatings(ctx context.Context) (err error)
}

type OrderService interface {
	CreateOrder(ctx context.Context, req dto.OrderRequest) (resp dto.OrderResponse, err error)
	GetMyOrders(ctx context.Context) (resp []dto.OrderResponse, err error)
	GetOrders(ctx context.Context, filter pkgdto.Filter) (resp pkgdto.PaginationResponse, err error)
	GetOrderByID(ctx context.Context, id string) (resp dto.OrderResponse, err error)
	MarkOrderPaid(ctx context.Context, id string, req dto.PaymentResultRequest) (resp dto.OrderResponse, err error)
	MarkOrderDelivered(ctx context.Context, id string) (resp dto.OrderResponse, err error)
}

type NotificationService interface {
	ConsumeEvent(ctx context.Context)
	HandleMessage(ctx context.Context, value []byte) (err error)
}

// ImageStorage persists uploaded product images.
type ImageStorage interface {
	Save(ctx context.Context, upload dto.FileUpload) (path string, err error)
	Delete(ctx context.Context, path string) (err error)
}

type EventPublisher interface {
	Publish(ctx context.Context, key string, msg dto.KafkaMessage) error
}
