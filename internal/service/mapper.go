package service

import (
	"github.com/alimikegami/e-commerce/storefront-service/internal/domain"
	"github.com/alimikegami/e-commerce/storefront-service/internal/dto"
)

func toUserResponse(u domain.User) dto.UserResponse {
	return dto.UserResponse{
		ID:        u.ID.Hex(),
		Name:      u.Name,
		Email:     u.Email,
		Role:      string(u.Role),
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

func toProductResponse(p domain.Product) dto.ProductResponse {
	reviews := make([]dto.ReviewResponse, 0, len(p.Reviews))
	for _, r := range p.Reviews {
		reviews = append(reviews, dto.ReviewResponse{
			ID:        r.ID.Hex(),
			Name:      r.Name,
			Rating:    r.Rating,
			Comment:   r.Comment,
			User:      r.User.Hex(),
			CreatedAt: r.CreatedAt,
		})
	}

	return dto.ProductResponse{
		ID:           p.ID.Hex(),
		User:         p.User.Hex(),
		Name:         p.Name,
		Image:        p.Image,
		Brand:        p.Brand,
		Category:     p.Category,
		Description:  p.Description,
		Reviews:      reviews,
		Rating:       p.Rating,
		NumReviews:   p.NumReviews,
		Price:        p.Price,
		CountInStock: p.CountInStock,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
}

func toOrderResponse(o domain.OrderWithUser) dto.OrderResponse {
	items := make([]dto.OrderItemResponse, 0, len(o.OrderItems))
	for _, item := range o.OrderItems {
		items = append(items, dto.OrderItemResponse{
			Name:    item.Name,
			Qty:     item.Qty,
			Image:   item.Image,
			Price:   item.Price,
			Product: item.Product.Hex(),
		})
	}

	owner := dto.UserSummaryResponse{ID: o.User.Hex()}
	if o.Owner != nil {
		owner.Name = o.Owner.Name
		owner.Email = o.Owner.Email
	}

	resp := dto.OrderResponse{
		ID:         o.ID.Hex(),
		User:       owner,
		OrderItems: items,
		ShippingAddress: dto.ShippingAddressResponse{
			Address:    o.ShippingAddress.Address,
			City:       o.ShippingAddress.City,
			PostalCode: o.ShippingAddress.PostalCode,
			Country:    o.ShippingAddress.Country,
		},
		PaymentMethod: o.PaymentMethod,
		ItemsPrice:    o.ItemsPrice,
		TaxPrice:      o.TaxPrice,
		ShippingPrice: o.ShippingPrice,
		TotalPrice:    o.TotalPrice,
		IsPaid:        o.IsPaid,
		PaidAt:        o.PaidAt,
		IsDelivered:   o.IsDelivered,
		DeliveredAt:   o.DeliveredAt,
		CreatedAt:     o.CreatedAt,
		UpdatedAt:     o.UpdatedAt,
	}

	if o.PaymentResult != nil {
		resp.PaymentResult = &dto.PaymentResultResponse{
			ID:           o.PaymentResult.ID,
			Status:       o.PaymentResult.Status,
			UpdateTime:   o.PaymentResult.UpdateTime,
			EmailAddress: o.PaymentResult.EmailAddress,
		}
	}

	return resp
}

func toOrderEvent(o domain.OrderWithUser) dto.OrderEvent {
	event := dto.OrderEvent{
		OrderID:     o.ID.Hex(),
		UserID:      o.User.Hex(),
		TotalPrice:  o.TotalPrice,
		IsPaid:      o.IsPaid,
		IsDelivered: o.IsDelivered,
	}

	if o.Owner != nil {
		event.UserName = o.Owner.Name
		event.UserEmail = o.Owner.Email
	}

	if o.PaidAt != nil {
		event.PaidAt = o.PaidAt.Unix()
	}

	if o.DeliveredAt != nil {
		event.DeliveredAt = o.DeliveredAt.Unix()
	}

	return event
}
