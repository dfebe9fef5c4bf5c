package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Order struct {
	ID              primitive.ObjectID `bson:"_id,omitempty"`
	User            primitive.ObjectID `bson:"user"`
	OrderItems      []OrderItem        `bson:"orderItems"`
	ShippingAddress ShippingAddress    `bson:"shippingAddress"`
	PaymentMethod   string             `bson:"paymentMethod"`
	PaymentResult   *PaymentResult     `bson:"paymentResult,omitempty"`
	ItemsPrice      float64            `bson:"itemsPrice"`
	TaxPrice        float64            `bson:"taxPrice"`
	ShippingPrice   float64            `bson:"shippingPrice"`
	TotalPrice      float64            `bson:"totalPrice"`
	IsPaid          bool               `bson:"isPaid"`
	PaidAt          *time.Time         `bson:"paidAt,omitempty"`
	IsDelivered     bool               `bson:"isDelivered"`
	DeliveredAt     *time.Time         `bson:"deliveredAt,omitempty"`
	CreatedAt       time.Time          `bson:"createdAt"`
	UpdatedAt       time.Time          `bson:"updatedAt"`
}

// OrderItem is a snapshot of the product at ordering time.
type OrderItem struct {
	Name    string             `bson:"name"`
	Qty     int                `bson:"qty"`
	Image   string             `bson:"image"`
	Price   float64            `bson:"price"`
	Product primitive.ObjectID `bson:"product"`
}

type ShippingAddress struct {
	Address    string `bson:"address"`
	City       string `bson:"city"`
	PostalCode string `bson:"postalCode"`
	Country    string `bson:"country"`
}

type PaymentResult struct {
	ID           string `bson:"id"`
	Status       string `bson:"status"`
	UpdateTime   string `bson:"update_time"`
	EmailAddress string `bson:"email_address"`
}

// OrderWithUser is an order with its owner's public fields joined in.
type OrderWithUser struct {
	Order `bson:",inline"`
	Owner *UserSummary `bson:"owner,omitempty"`
}
