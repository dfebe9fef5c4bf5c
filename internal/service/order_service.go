package service

import (
	"context"
	"math"
	"strings"
	"time"

	"github.com/alimikegami/e-commerce/storefront-service/internal/domain"
	"github.com/alimikegami/e-commerce/storefront-service/internal/dto"
	"github.com/alimikegami/e-commerce/storefront-service/internal/repository"
	pkgdto "github.com/alimikegami/e-commerce/storefront-service/pkg/dto"
	"github.com/alimikegami/e-commerce/storefront-service/pkg/errs"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type OrderServiceImpl struct {
	orderRepo   repository.OrderRepository
	productRepo repository.ProductRepository
	pricing     PriceCalculator
	emitter     *EventEmitter
	now         func() time.Time
}

func CreateOrderService(orderRepo repository.OrderRepository, productRepo repository.ProductRepository, pricing PriceCalculator, emitter *EventEmitter) OrderService {
	return &OrderServiceImpl{
		orderRepo:   orderRepo,
		productRepo: productRepo,
		pricing:     pricing,
		emitter:     emitter,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// CreateOrder snapshots the requested products and prices the order from the
// catalogue. Repeated lines for the same product are merged.
func (s *OrderServiceImpl) CreateOrder(ctx context.Context, req dto.OrderRequest) (resp dto.OrderResponse, err error) {
	identity, err := currentIdentity(ctx)
	if err != nil {
		return
	}

	owner, err := callerObjectID(identity)
	if err != nil {
		return
	}

	if len(req.OrderItems) == 0 {
		return resp, errs.ErrValidation
	}

	quantities := map[primitive.ObjectID]int{}
	ids := []primitive.ObjectID{}
	for _, item := range req.OrderItems {
		productID, err := primitive.ObjectIDFromHex(item.Product)
		if err != nil {
			return resp, errs.ErrNotFound
		}
		if item.Qty < 1 {
			return resp, errs.ErrValidation
		}
		if _, seen := quantities[productID]; !seen {
			ids = append(ids, productID)
		}
		quantities[productID] += item.Qty
	}

	products, err := s.productRepo.GetProductsByIDs(ctx, ids)
	if err != nil {
		return resp, errs.ErrInternalServer
	}

	byID := make(map[primitive.ObjectID]domain.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	items := make([]domain.OrderItem, 0, len(ids))
	for _, id := range ids {
		p, ok := byID[id]
		if !ok {
			return resp, errs.ErrNotFound
		}
		// Documents written outside the service may carry prices that cannot be priced.
		if math.IsInf(p.Price, 0) || math.IsNaN(p.Price) || p.Price < 0 {
			log.Ctx(ctx).Error().Str("component", "CreateOrder").Str("product_id", p.ID.Hex()).Float64("price", p.Price).Msg("product price is not a valid amount")
			return resp, errs.ErrInternalServer
		}
		items = append(items, domain.OrderItem{
			Name:    p.Name,
			Qty:     quantities[id],
			Image:   p.Image,
			Price:   p.Price,
			Product: p.ID,
		})
	}

	prices := s.pricing.Calculate(items)

	order := domain.Order{
		User:       owner,
		OrderItems: items,
		ShippingAddress: domain.ShippingAddress{
			Address:    strings.TrimSpace(req.ShippingAddress.Address),
			City:       strings.TrimSpace(req.ShippingAddress.City),
			PostalCode: strings.TrimSpace(req.ShippingAddress.PostalCode),
			Country:    strings.TrimSpace(req.ShippingAddress.Country),
		},
		PaymentMethod: req.PaymentMethod,
		ItemsPrice:    prices.ItemsPrice,
		TaxPrice:      prices.TaxPrice,
		ShippingPrice: prices.ShippingPrice,
		TotalPrice:    prices.TotalPrice,
	}

	orderID, err := s.orderRepo.AddOrder(ctx, order)
	if err != nil {
		return resp, errs.ErrInternalServer
	}

	created, err := s.orderRepo.GetOrderByID(ctx, orderID.Hex())
	if err != nil {
		return resp, storeError(err)
	}

	s.emitter.Emit(ctx, created.ID.Hex(), dto.EventOrderCreated, toOrderEvent(created))

	return toOrderResponse(created), nil
}

func (s *OrderServiceImpl) GetMyOrders(ctx context.Context) (resp []dto.OrderResponse, err error) {
	identity, err := currentIdentity(ctx)
	if err != nil {
		return
	}

	owner, err := callerObjectID(identity)
	if err != nil {
		return
	}

	orders, err := s.orderRepo.GetOrdersByUserID(ctx, owner)
	if err != nil {
		return resp, errs.ErrInternalServer
	}

	return toOrderResponses(orders), nil
}

func (s *OrderServiceImpl) GetOrders(ctx context.Context, filter pkgdto.Filter) (resp pkgdto.PaginationResponse, err error) {
	if _, err = requireAdmin(ctx); err != nil {
		return
	}

	filter = filter.Normalize()
	orders, total, err := s.orderRepo.GetOrders(ctx, filter)
	if err != nil {
		return resp, errs.ErrInternalServer
	}

	return pkgdto.NewPaginationResponse(filter, total, toOrderResponses(orders)), nil
}

func (s *OrderServiceImpl) GetOrderByID(ctx context.Context, id string) (resp dto.OrderResponse, err error) {
	order, err := s.loadVisibleOrder(ctx, id)
	if err != nil {
		return
	}

	return toOrderResponse(order), nil
}

// MarkOrderPaid records the client-supplied payment receipt. Paying an order
// that is already paid overwrites the receipt and timestamp.
func (s *OrderServiceImpl) MarkOrderPaid(ctx context.Context, id string, req dto.PaymentResultRequest) (resp dto.OrderResponse, err error) {
	order, err := s.loadVisibleOrder(ctx, id)
	if err != nil {
		return
	}

	receipt := domain.PaymentResult{
		ID:           req.ID,
		Status:       req.Status,
		UpdateTime:   req.UpdateTime,
		EmailAddress: req.Payer.EmailAddress,
	}

	if err = s.orderRepo.MarkOrderPaid(ctx, order.ID, s.now(), receipt); err != nil {
		return resp, storeError(err)
	}

	updated, err := s.orderRepo.GetOrderByID(ctx, id)
	if err != nil {
		return resp, storeError(err)
	}

	s.emitter.Emit(ctx, updated.ID.Hex(), dto.EventOrderPaid, toOrderEvent(updated))

	return toOrderResponse(updated), nil
}

// MarkOrderDelivered only touches the delivery fields.
func (s *OrderServiceImpl) MarkOrderDelivered(ctx context.Context, id string) (resp dto.OrderResponse, err error) {
	if _, err = requireAdmin(ctx); err != nil {
		return
	}

	orderID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return resp, errs.ErrNotFound
	}

	if err = s.orderRepo.MarkOrderDelivered(ctx, orderID, s.now()); err != nil {
		return resp, storeError(err)
	}

	updated, err := s.orderRepo.GetOrderByID(ctx, id)
	if err != nil {
		return resp, storeError(err)
	}

	s.emitter.Emit(ctx, updated.ID.Hex(), dto.EventOrderDelivered, toOrderEvent(updated))

	return toOrderResponse(updated), nil
}

// loadVisibleOrder returns the order when the caller owns it or is an admin.
// Other callers get ErrForbidden.
func (s *OrderServiceImpl) loadVisibleOrder(ctx context.Context, id string) (order domain.OrderWithUser, err error) {
	identity, err := currentIdentity(ctx)
	if err != nil {
		return
	}

	order, err = s.orderRepo.GetOrderByID(ctx, id)
	if err != nil {
		return order, storeError(err)
	}

	if identity.Role.CanAdminister() || order.User.Hex() == identity.UserID {
		return order, nil
	}

	return order, errs.ErrForbidden
}

func toOrderResponses(orders []domain.OrderWithUser) []dto.OrderResponse {
	resp := make([]dto.OrderResponse, 0, len(orders))
	for _, o := range orders {
		resp = append(resp, toOrderResponse(o))
	}

	return resp
}
