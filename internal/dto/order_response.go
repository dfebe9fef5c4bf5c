package dto

import "time"

type OrderResponse struct {
	ID              string                  `json:"_id"`
	User            UserSummaryResponse     `json:"user"`
	OrderItems      []OrderItemResponse     `json:"orderItems"`
	ShippingAddress ShippingAddressResponse `json:"shippingAddress"`
	PaymentMethod   string                  `json:"paymentMethod"`
	PaymentResult   *PaymentResultResponse  `json:"paymentResult,omitempty"`
	ItemsPrice      float64                 `json:"itemsPrice"`
	TaxPrice        float64                 `json:"taxPrice"`
	ShippingPrice   float64                 `json:"shippingPrice"`
	TotalPrice      float64                 `json:"totalPrice"`
	IsPaid          bool                    `json:"isPaid"`
	PaidAt          *time.Time              `json:"paidAt,omitempty"`
	IsDelivered     bool                    `json:"isDelivered"`
	DeliveredAt     *time.Time              `json:"deliveredAt,omitempty"`
	CreatedAt       time.Time               `json:"createdAt"`
	UpdatedAt       time.Time               `json:"updatedAt"`
}

type OrderItemResponse struct {
	Name    string  `json:"name"`
	Qty     int     `json:"qty"`
	Image   string  `json:"image"`
	Price   float64 `json:"price"`
	Product string  `json:"product"`
}

type ShippingAddressResponse struct {
	Address    string `json:"address"`
	City       string `json:"city"`
	PostalCode string `json:"postalCode"`
	Country    string `json:"country"`
}

type PaymentResultResponse struct {
	ID           string `json:"id"`
	Status       string `json:"status"`
	UpdateTime   string `json:"update_time"`
	EmailAddress string `json:"email_address"`
}
