package dto

// OrderRequest carries no prices: totals are computed from the catalogue.
type OrderRequest struct {
	OrderItems      []OrderItemRequest     `json:"orderItems" validate:"required,min=1,dive"`
	ShippingAddress ShippingAddressRequest `json:"shippingAddress" validate:"required"`
	PaymentMethod   string                 `json:"paymentMethod" validate:"required,max=50"`
}

type OrderItemRequest struct {
	Product string `json:"product" validate:"required,mongodb"`
	Qty     int    `json:"qty" validate:"required,gte=1,lte=1000"`
}

type ShippingAddressRequest struct {
	Address    string `json:"address" validate:"required"`
	City       string `json:"city" validate:"required"`
	PostalCode string `json:"postalCode" validate:"required"`
	Country    string `json:"country" validate:"required"`
}

type PaymentResultRequest struct {
	ID         string `json:"id" validate:"required"`
	Status     string `json:"status" validate:"required"`
	UpdateTime string `json:"update_time"`
	Payer      Payer  `json:"payer"`
}

type Payer struct {
	EmailAddress string `json:"email_address" validate:"omitempty,email"`
}
