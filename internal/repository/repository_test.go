package repository

import (
	"context"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/alimikegami/e-commerce/storefront-service/internal/domain"
	"github.com/alimikegami/e-commerce/storefront-service/internal/infrastructure/database/mongodb"
	pkgdto "github.com/alimikegami/e-commerce/storefront-service/pkg/dto"
	"github.com/alimikegami/e-commerce/storefront-service/pkg/errs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

func TestParseObjectID(t *testing.T) {
	id := primitive.NewObjectID()

	got, err := parseObjectID(id.Hex())
	assert.NoError(t, err)
	assert.Equal(t, id, got)

	_, err = parseObjectID("not-hex")
	assert.ErrorIs(t, err, errs.ErrNotFound)
}

func TestContainsPattern(t *testing.T) {
	pattern := containsPattern("a.b(c")

	assert.Equal(t, `a\.b\(c`, pattern.Pattern)
	assert.Equal(t, "i", pattern.Options)
}

// RepositoryTestSuite runs against a real server and is skipped unless
// MONGO_TEST_URI is set.
type RepositoryTestSuite struct {
	suite.Suite
	db       *mongo.Database
	users    UserRepository
	products ProductRepository
	orders   OrderRepository
}

func (s *RepositoryTestSuite) SetupSuite() {
	uri := os.Getenv("MONGO_TEST_URI")
	if uri == "" {
		s.T().Skip("MONGO_TEST_URI not set")
	}

	db, err := mongodb.ConnectToMongoDB(context.Background(), uri, fmt.Sprintf("storefront_test_%d", time.Now().UnixNano()))
	s.Require().NoError(err)
	s.Require().NoError(mongodb.EnsureIndexes(context.Background(), db))

	s.db = db
	s.users = CreateUserRepository(db)
	s.products = CreateProductRepository(db)
	s.orders = CreateOrderRepository(db)
}

func (s *RepositoryTestSuite) TearDownSuite() {
	if s.db == nil {
		return
	}
	s.NoError(s.db.Drop(context.Background()))
	s.NoError(s.db.Client().Disconnect(context.Background()))
}

func (s *RepositoryTestSuite) addUser(name, email string) domain.User {
	user := domain.User{Name: name, Email: email, Password: "hash", Role: domain.RoleCustomer}
	id, err := s.users.AddUser(context.Background(), user)
	s.Require().NoError(err)
	user.ID = id
	return user
}

func (s *RepositoryTestSuite) Test_Users() {
	ctx := context.Background()
	user := s.addUser("Jane", "jane.repo@example.com")

	_, err := s.users.AddUser(ctx, domain.User{Name: "Other", Email: "jane.repo@example.com", Role: domain.RoleCustomer})
	s.ErrorIs(err, errs.ErrEmailAlreadyUsed)

	got, err := s.users.GetUserByEmail(ctx, "jane.repo@example.com")
	s.Require().NoError(err)
	s.Equal(user.ID, got.ID)
	s.False(got.CreatedAt.IsZero())

	got.Name = "Jane Doe"
	s.Require().NoError(s.users.UpdateUser(ctx, got))

	got, err = s.users.GetUserByID(ctx, user.ID.Hex())
	s.Require().NoError(err)
	s.Equal("Jane Doe", got.Name)

	list, total, err := s.users.GetUsers(ctx, pkgdto.Filter{Q: "doe"}.Normalize())
	s.Require().NoError(err)
	s.EqualValues(1, total)
	s.Len(list, 1)

	s.Require().NoError(s.users.DeleteUserByID(ctx, user.ID.Hex()))
	_, err = s.users.GetUserByID(ctx, user.ID.Hex())
	s.ErrorIs(err, errs.ErrNotFound)
	s.ErrorIs(s.users.DeleteUserByID(ctx, user.ID.Hex()), errs.ErrNotFound)
}

func (s *RepositoryTestSuite) Test_AddUser_KeepsAssignedID() {
	ctx := context.Background()
	assigned := primitive.NewObjectID()

	id, err := s.users.AddUser(ctx, domain.User{ID: assigned, Name: "Ann", Email: "ann.repo@example.com", Role: domain.RoleCustomer})
	s.Require().NoError(err)
	s.Equal(assigned, id)

	s.Require().NoError(s.users.DeleteUserByID(ctx, assigned.Hex()))
	_, err = s.users.GetUserByEmail(ctx, "ann.repo@example.com")
	s.ErrorIs(err, errs.ErrNotFound)
}

func (s *RepositoryTestSuite) Test_AddReview_IsAtomic() {
	ctx := context.Background()
	productID, err := s.products.AddProduct(ctx, domain.Product{Name: "Camera", Price: 10})
	s.Require().NoError(err)

	reviewer := primitive.NewObjectID()

	var wg sync.WaitGroup
	results := make([]error, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, results[i] = s.products.AddReview(ctx, productID, domain.Review{
				ID:     primitive.NewObjectID(),
				Name:   "Jane",
				Rating: float64(i%5 + 1),
				User:   reviewer,
			})
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range results {
		if err == nil {
			succeeded++
			continue
		}
		s.ErrorIs(err, errs.ErrAlreadyReviewed)
	}
	s.Equal(1, succeeded)

	product, err := s.products.GetProductByID(ctx, productID.Hex())
	s.Require().NoError(err)
	s.Len(product.Reviews, 1)
	s.Equal(1, product.NumReviews)
	s.Equal(product.Reviews[0].Rating, product.Rating)

	_, err = s.products.AddReview(ctx, primitive.NewObjectID(), domain.Review{ID: primitive.NewObjectID(), User: reviewer, Rating: 3})
	s.ErrorIs(err, errs.ErrNotFound)
}

func (s *RepositoryTestSuite) Test_AddReview_RecomputesAggregates() {
	ctx := context.Background()
	productID, err := s.products.AddProduct(ctx, domain.Product{Name: "Phone", Price: 10})
	s.Require().NoError(err)

	for _, rating := range []float64{5, 4, 3} {
		_, err = s.products.AddReview(ctx, productID, domain.Review{ID: primitive.NewObjectID(), User: primitive.NewObjectID(), Rating: rating, Comment: "$notAField"})
		s.Require().NoError(err)
	}

	product, err := s.products.GetProductByID(ctx, productID.Hex())
	s.Require().NoError(err)
	s.Equal(3, product.NumReviews)
	s.InDelta(4.0, product.Rating, 1e-9)
	s.Equal("$notAField", product.Reviews[0].Comment)
}

func (s *RepositoryTestSuite) Test_Orders_JoinOwner() {
	ctx := context.Background()
	owner := s.addUser("John", "john.repo@example.com")

	orderID, err := s.orders.AddOrder(ctx, domain.Order{
		User:       owner.ID,
		OrderItems: []domain.OrderItem{{Name: "Camera", Qty: 1, Price: 10, Product: primitive.NewObjectID()}},
		TotalPrice: 21.5,
	})
	s.Require().NoError(err)

	order, err := s.orders.GetOrderByID(ctx, orderID.Hex())
	s.Require().NoError(err)
	s.Require().NotNil(order.Owner)
	s.Equal("John", order.Owner.Name)
	s.Equal("john.repo@example.com", order.Owner.Email)

	paidAt := time.Now().UTC().Truncate(time.Millisecond)
	s.Require().NoError(s.orders.MarkOrderPaid(ctx, orderID, paidAt, domain.PaymentResult{ID: "PAY-1", Status: "COMPLETED"}))
	s.Require().NoError(s.orders.MarkOrderDelivered(ctx, orderID, paidAt))

	order, err = s.orders.GetOrderByID(ctx, orderID.Hex())
	s.Require().NoError(err)
	s.True(order.IsPaid)
	s.True(order.IsDelivered)
	s.Require().NotNil(order.PaymentResult)
	s.Equal("PAY-1", order.PaymentResult.ID)

	mine, err := s.orders.GetOrdersByUserID(ctx, owner.ID)
	s.Require().NoError(err)
	s.Len(mine, 1)

	s.ErrorIs(s.orders.MarkOrderDelivered(ctx, primitive.NewObjectID(), paidAt), errs.ErrNotFound)
}

func TestRepositoryTestSuite(t *testing.T) {
	suite.Run(t, new(RepositoryTestSuite))
}
