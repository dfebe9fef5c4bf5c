package service

import (
	"context"
	"errors"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/alimikegami/e-commerce/storefront-service/internal/domain"
	"github.com/alimikegami/e-commerce/storefront-service/internal/dto"
	pkgdto "github.com/alimikegami/e-commerce/storefront-service/pkg/dto"
	"github.com/alimikegami/e-commerce/storefront-service/pkg/errs"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var errStoreDown = errors.New("server selection error: context deadline exceeded")

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[primitive.ObjectID]domain.User
	calls int

	failAdd    bool
	failDelete bool
	deletedBy  []string
	// racedBy, when set, is stored in place of the next AddUser document and
	// that write reports a store error.
	racedBy *domain.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[primitive.ObjectID]domain.User{}}
}

func (r *fakeUserRepo) seed(u domain.User) domain.User {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u.ID.IsZero() {
		u.ID = primitive.NewObjectID()
	}
	r.users[u.ID] = u
	return u
}

func (r *fakeUserRepo) touched() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.calls
}

func (r *fakeUserRepo) AddUser(_ context.Context, data domain.User) (primitive.ObjectID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	for _, u := range r.users {
		if u.Email == data.Email {
			return primitive.NilObjectID, errs.ErrEmailAlreadyUsed
		}
	}
	if r.racedBy != nil {
		other := *r.racedBy
		r.racedBy = nil
		r.users[other.ID] = other
		return primitive.NilObjectID, errStoreDown
	}
	if data.ID.IsZero() {
		data.ID = primitive.NewObjectID()
	}
	data.CreatedAt, data.UpdatedAt = time.Now().UTC(), time.Now().UTC()
	r.users[data.ID] = data
	if r.failAdd {
		return primitive.NilObjectID, errStoreDown
	}
	return data.ID, nil
}

func (r *fakeUserRepo) GetUserByID(_ context.Context, id string) (domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.User{}, errs.ErrNotFound
	}
	u, ok := r.users[oid]
	if !ok {
		return domain.User{}, errs.ErrNotFound
	}
	return u, nil
}

func (r *fakeUserRepo) GetUserByEmail(_ context.Context, email string) (domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return domain.User{}, errs.ErrNotFound
}

func (r *fakeUserRepo) GetUsers(_ context.Context, param pkgdto.Filter) ([]domain.User, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	all := []domain.User{}
	for _, u := range r.users {
		if param.Q == "" || strings.Contains(strings.ToLower(u.Name), strings.ToLower(param.Q)) {
			all = append(all, u)
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID.Hex() < all[j].ID.Hex() })
	return page(all, param), int64(len(all)), nil
}

func (r *fakeUserRepo) UpdateUser(_ context.Context, data domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	if _, ok := r.users[data.ID]; !ok {
		return errs.ErrNotFound
	}
	data.UpdatedAt = time.Now().UTC()
	r.users[data.ID] = data
	return nil
}

func (r *fakeUserRepo) DeleteUserByID(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	r.deletedBy = append(r.deletedBy, id)
	if r.failDelete {
		return errStoreDown
	}
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return errs.ErrNotFound
	}
	if _, ok := r.users[oid]; !ok {
		return errs.ErrNotFound
	}
	delete(r.users, oid)
	return nil
}


func page[T any](all []T, param pkgdto.Filter) []T {
	start := int(param.Skip())
	if start > len(all) {
		start = len(all)
	}
	end := start + param.Limit
	if end > len(all) {
		end = len(all)
	}
	return all[start:end]
}

type fakeProductRepo struct {
	mu       sync.Mutex
	products map[primitive.ObjectID]domain.Product
	calls    int
}

func newFakeProductRepo() *fakeProductRepo {
	return &fakeProductRepo{products: map[primitive.ObjectID]domain.Product{}}
}

func (r *fakeProductRepo) seed(p domain.Product) domain.Product {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p.ID.IsZero() {
		p.ID = primitive.NewObjectID()
	}
	r.products[p.ID] = p
	return p
}

func (r *fakeProductRepo) get(id primitive.ObjectID) (domain.Product, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.products[id]
	return p, ok
}

func (r *fakeProductRepo) touched() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.calls
}

func (r *fakeProductRepo) AddProduct(_ context.Context, data domain.Product) (primitive.ObjectID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	data.ID = primitive.NewObjectID()
	data.CreatedAt, data.UpdatedAt = time.Now().UTC(), time.Now().UTC()
	r.products[data.ID] = data
	return data.ID, nil
}

func (r *fakeProductRepo) GetProducts(_ context.Context, param pkgdto.Filter) ([]domain.Product, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	all := []domain.Product{}
	for _, p := range r.products {
		if param.Q == "" || strings.Contains(strings.ToLower(p.Name), strings.ToLower(param.Q)) {
			all = append(all, p)
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID.Hex() < all[j].ID.Hex() })
	return page(all, param), int64(len(all)), nil
}

func (r *fakeProductRepo) GetProductByID(_ context.Context, id string) (domain.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.Product{}, errs.ErrNotFound
	}
	p, ok := r.products[oid]
	if !ok {
		return domain.Product{}, errs.ErrNotFound
	}
	return p, nil
}

func (r *fakeProductRepo) GetProductsByIDs(_ context.Context, ids []primitive.ObjectID) ([]domain.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	data := []domain.Product{}
	for _, id := range ids {
		if p, ok := r.products[id]; ok {
			data = append(data, p)
		}
	}
	return data, nil
}

func (r *fakeProductRepo) UpdateProduct(_ context.Context, data domain.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	current, ok := r.products[data.ID]
	if !ok {
		return errs.ErrNotFound
	}
	data.Reviews, data.Rating, data.NumReviews = current.Reviews, current.Rating, current.NumReviews
	data.UpdatedAt = time.Now().UTC()
	r.products[data.ID] = data
	return nil
}

func (r *fakeProductRepo) DeleteProduct(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return errs.ErrNotFound
	}
	if _, ok := r.products[oid]; !ok {
		return errs.ErrNotFound
	}
	delete(r.products, oid)
	return nil
}

func (r *fakeProductRepo) AddReview(_ context.Context, productID primitive.ObjectID, review domain.Review) (domain.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	p, ok := r.products[productID]
	if !ok {
		return domain.Product{}, errs.ErrNotFound
	}
	if p.HasReviewFrom(review.User) {
		return domain.Product{}, errs.ErrAlreadyReviewed
	}
	p.Reviews = append(append([]domain.Review{}, p.Reviews...), review)
	p.NumReviews, p.Rating = CalculateRating(p.Reviews)
	r.products[productID] = p
	return p, nil
}

func (r *fakeProductRepo) UpdateRating(_ context.Context, productID primitive.ObjectID, numReviews int, rating float64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	p, ok := r.products[productID]
	if !ok {
		return errs.ErrNotFound
	}
	p.NumReviews, p.Rating = numReviews, rating
	r.products[productID] = p
	return nil
}

func (r *fakeProductRepo) IterateProducts(_ context.Context, fn func(domain.Product) error) error {
	r.mu.Lock()
	snapshot := make([]domain.Product, 0, len(r.products))
	for _, p := range r.products {
		snapshot = append(snapshot, p)
	}
	r.mu.Unlock()

	for _, p := range snapshot {
		if err := fn(p); err != nil {
			return err
		}
	}
	return nil
}

type fakeOrderRepo struct {
	mu     sync.Mutex
	orders map[primitive.ObjectID]domain.Order
	users  *fakeUserRepo
	calls  int
}

func newFakeOrderRepo(users *fakeUserRepo) *fakeOrderRepo {
	return &fakeOrderRepo{orders: map[primitive.ObjectID]domain.Order{}, users: users}
}

func (r *fakeOrderRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.orders)
}

func (r *fakeOrderRepo) touched() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.calls
}

func (r *fakeOrderRepo) withOwner(o domain.Order) domain.OrderWithUser {
	out := domain.OrderWithUser{Order: o}
	if u, err := r.users.GetUserByID(context.Background(), o.User.Hex()); err == nil {
		out.Owner = &domain.UserSummary{ID: u.ID, Name: u.Name, Email: u.Email}
	}
	return out
}

func (r *fakeOrderRepo) AddOrder(_ context.Context, data domain.Order) (primitive.ObjectID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	data.ID = primitive.NewObjectID()
	data.CreatedAt, data.UpdatedAt = time.Now().UTC(), time.Now().UTC()
	r.orders[data.ID] = data
	return data.ID, nil
}

func (r *fakeOrderRepo) GetOrderByID(_ context.Context, id string) (domain.OrderWithUser, error) {
	r.mu.Lock()
	r.calls++
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		r.mu.Unlock()
		return domain.OrderWithUser{}, errs.ErrNotFound
	}
	o, ok := r.orders[oid]
	r.mu.Unlock()
	if !ok {
		return domain.OrderWithUser{}, errs.ErrNotFound
	}
	return r.withOwner(o), nil
}

func (r *fakeOrderRepo) GetOrders(_ context.Context, param pkgdto.Filter) ([]domain.OrderWithUser, int64, error) {
	r.mu.Lock()
	r.calls++
	all := []domain.Order{}
	for _, o := range r.orders {
		all = append(all, o)
	}
	r.mu.Unlock()
	sort.Slice(all, func(i, j int) bool { return all[i].ID.Hex() < all[j].ID.Hex() })

	data := []domain.OrderWithUser{}
	for _, o := range page(all, param) {
		data = append(data, r.withOwner(o))
	}
	return data, int64(len(all)), nil
}

func (r *fakeOrderRepo) GetOrdersByUserID(_ context.Context, userID primitive.ObjectID) ([]domain.OrderWithUser, error) {
	r.mu.Lock()
	r.calls++
	mine := []domain.Order{}
	for _, o := range r.orders {
		if o.User == userID {
			mine = append(mine, o)
		}
	}
	r.mu.Unlock()

	data := []domain.OrderWithUser{}
	for _, o := range mine {
		data = append(data, r.withOwner(o))
	}
	return data, nil
}

func (r *fakeOrderRepo) MarkOrderPaid(_ context.Context, id primitive.ObjectID, paidAt time.Time, result domain.PaymentResult) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	o, ok := r.orders[id]
	if !ok {
		return errs.ErrNotFound
	}
	o.IsPaid, o.PaidAt, o.PaymentResult = true, &paidAt, &result
	r.orders[id] = o
	return nil
}

func (r *fakeOrderRepo) MarkOrderDelivered(_ context.Context, id primitive.ObjectID, deliveredAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	o, ok := r.orders[id]
	if !ok {
		return errs.ErrNotFound
	}
	o.IsDelivered, o.DeliveredAt = true, &deliveredAt
	r.orders[id] = o
	return nil
}

type fakeStorage struct {
	mu      sync.Mutex
	saved   []string
	deleted []string
}

func (s *fakeStorage) Save(_ context.Context, upload dto.FileUpload) (string, error) {
	if !strings.HasSuffix(strings.ToLower(upload.Filename), ".png") && !strings.HasSuffix(strings.ToLower(upload.Filename), ".jpg") {
		return "", errs.ErrNotAnImage
	}
	if _, err := io.ReadAll(upload.Content); err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	p := "/uploads/" + primitive.NewObjectID().Hex() + "-" + upload.Filename
	s.saved = append(s.saved, p)
	return p, nil
}

func (s *fakeStorage) Delete(_ context.Context, path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deleted = append(s.deleted, path)
	return nil
}

type mockPublisher struct {
	mock.Mock
}

func (m *mockPublisher) Publish(ctx context.Context, key string, msg dto.KafkaMessage) error {
	args := m.Called(ctx, key, msg)
	return args.Error(0)
}

func asAdmin(id primitive.ObjectID) context.Context {
	return domain.WithIdentity(context.Background(), domain.Identity{UserID: id.Hex(), Role: domain.RoleAdmin})
}

func asCustomer(id primitive.ObjectID) context.Context {
	return domain.WithIdentity(context.Background(), domain.Identity{UserID: id.Hex(), Role: domain.RoleCustomer})
}

func eventType(t string) interface{} {
	return mock.MatchedBy(func(msg dto.KafkaMessage) bool { return msg.EventType == t })
}
