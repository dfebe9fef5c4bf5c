package dto

const (
	EventUserRegistered  = "user_registered"
	EventProductCreated  = "product_created"
	EventProductUpdated  = "product_updated"
	EventProductDeleted  = "product_deleted"
	EventProductReviewed = "product_reviewed"
	EventOrderCreated    = "order_created"
	EventOrderPaid       = "order_paid"
	EventOrderDelivered  = "order_delivered"
)

type KafkaMessage struct {
	EventType string      `json:"event_type"`
	Data      interface{} `json:"data"`
}

type UserEvent struct {
	UserID string `json:"user_id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
}

type ProductEvent struct {
	ProductID  string  `json:"product_id"`
	Name       string  `json:"name"`
	Price      float64 `json:"price"`
	Rating     float64 `json:"rating,omitempty"`
	NumReviews int     `json:"num_reviews,omitempty"`
}

type OrderEvent struct {
	OrderID     string  `json:"order_id"`
	UserID      string  `json:"user_id"`
	UserName    string  `json:"user_name"`
	UserEmail   string  `json:"user_email"`
	TotalPrice  float64 `json:"total_price"`
	IsPaid      bool    `json:"is_paid"`
	PaidAt      int64   `json:"paid_at,omitempty"`
	IsDelivered bool    `json:"is_delivered"`
	DeliveredAt int64   `json:"delivered_at,omitempty"`
}
