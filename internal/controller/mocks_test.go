package controller

import (
	"context"
	"testing"
	"time"

	"github.com/alimikegami/e-commerce/storefront-service/internal/dto"
	"github.com/alimikegami/e-commerce/storefront-service/internal/middleware"
	pkgdto "github.com/alimikegami/e-commerce/storefront-service/pkg/dto"
	"github.com/alimikegami/e-commerce/storefront-service/pkg/response"
	"github.com/alimikegami/e-commerce/storefront-service/pkg/utils"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const (
	testSecret = "controller-test-secret"
	testHeader = "x-auth-token"
	adminID    = "6630f0c2a1b2c3d4e5f60718"
	customerID = "6630f0c2a1b2c3d4e5f60719"
)

func newTestEcho() (*echo.Echo, *echo.Group, echo.MiddlewareFunc) {
	e := echo.New()
	e.Validator = utils.NewValidator()
	e.HTTPErrorHandler = response.HTTPErrorHandler
	return e, e.Group("/api/v1"), middleware.IsLoggedIn(testSecret, testHeader)
}

func tokenFor(t *testing.T, id, role string) string {
	token, err := utils.CreateJWTToken(id, role, testSecret, time.Hour)
	require.NoError(t, err)
	return token
}

type mockUserService struct {
	mock.Mock
}

func (m *mockUserService) Signup(ctx context.Context, req dto.SignupRequest) (dto.TokenResponse, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(dto.TokenResponse), args.Error(1)
}

func (m *mockUserService) Login(ctx context.Context, req dto.LoginRequest) (dto.TokenResponse, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(dto.TokenResponse), args.Error(1)
}

func (m *mockUserService) GetSelf(ctx context.Context) (dto.UserResponse, error) {
	args := m.Called(ctx)
	return args.Get(0).(dto.UserResponse), args.Error(1)
}

func (m *mockUserService) UpdateSelf(ctx context.Context, req dto.UpdateSelfRequest) (dto.UserResponse, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(dto.UserResponse), args.Error(1)
}

func (m *mockUserService) GetUsers(ctx context.Context, filter pkgdto.Filter) (pkgdto.PaginationResponse, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(pkgdto.PaginationResponse), args.Error(1)
}

func (m *mockUserService) GetUserByID(ctx context.Context, id string) (dto.UserResponse, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(dto.UserResponse), args.Error(1)
}

func (m *mockUserService) UpdateUserByID(ctx context.Context, id string, req dto.UpdateUserRequest) (dto.UserResponse, error) {
	args := m.Called(ctx, id, req)
	return args.Get(0).(dto.UserResponse), args.Error(1)
}

func (m *mockUserService) DeleteUserByID(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockUserService) SeedAdmin(ctx context.Context, name, email, password string) error {
	args := m.Called(ctx, name, email, password)
	return args.Error(0)
}

type mockProductService struct {
	mock.Mock
}

func (m *mockProductService) GetProducts(ctx context.Context, filter pkgdto.Filter) (pkgdto.PaginationResponse, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(pkgdto.PaginationResponse), args.Error(1)
}

func (m *mockProductService) GetProductByID(ctx context.Context, id string) (dto.ProductResponse, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(dto.ProductResponse), args.Error(1)
}

func (m *mockProductService) AddProduct(ctx context.Context, req dto.ProductRequest, image *dto.FileUpload) (dto.ProductResponse, error) {
	args := m.Called(ctx, req, image)
	return args.Get(0).(dto.ProductResponse), args.Error(1)
}

func (m *mockProductService) UpdateProduct(ctx context.Context, id string, req dto.ProductRequest, image *dto.FileUpload) (dto.ProductResponse, error) {
	args := m.Called(ctx, id, req, image)
	return args.Get(0).(dto.ProductResponse), args.Error(1)
}

func (m *mockProductService) DeleteProduct(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockProductService) AddReview(ctx context.Context, id string, req dto.ReviewRequest) (dto.ProductResponse, error) {
	args := m.Called(ctx, id, req)
	return args.Get(0).(dto.ProductResponse), args.Error(1)
}

func (m *mockProductService) ReconcileRatings(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

type mockOrderService struct {
	mock.Mock
}

func (m *mockOrderService) CreateOrder(ctx context.Context, req dto.OrderRequest) (dto.OrderResponse, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(dto.OrderResponse), args.Error(1)
}

func (m *mockOrderService) GetMyOrders(ctx context.Context) ([]dto.OrderResponse, error) {
	args := m.Called(ctx)
	return args.Get(0).([]dto.OrderResponse), args.Error(1)
}

func (m *mockOrderService) GetOrders(ctx context.Context, filter pkgdto.Filter) (pkgdto.PaginationResponse, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(pkgdto.PaginationResponse), args.Error(1)
}

func (m *mockOrderService) GetOrderByID(ctx context.Context, id string) (dto.OrderResponse, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(dto.OrderResponse), args.Error(1)
}

func (m *mockOrderService) MarkOrderPaid(ctx context.Context, id string, req dto.PaymentResultRequest) (dto.OrderResponse, error) {
	args := m.Called(ctx, id, req)
	return args.Get(0).(dto.OrderResponse), args.Error(1)
}

func (m *mockOrderService) MarkOrderDelivered(ctx context.Context, id string) (dto.OrderResponse, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(dto.OrderResponse), args.Error(1)
}
