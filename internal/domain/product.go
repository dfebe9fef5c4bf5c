package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Product struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	User         primitive.ObjectID `bson:"user"`
	Name         string             `bson:"name"`
	Image        string             `bson:"image"`
	Brand        string             `bson:"brand"`
	Category     string             `bson:"category"`
	Description  string             `bson:"description"`
	Reviews      []Review           `bson:"reviews"`
	Rating       float64            `bson:"rating"`
	NumReviews   int                `bson:"numReviews"`
	Price        float64            `bson:"price"`
	CountInStock int                `bson:"countInStock"`
	CreatedAt    time.Time          `bson:"createdAt"`
	UpdatedAt    time.Time          `bson:"updatedAt"`
}

type Review struct {
	ID        primitive.ObjectID `bson:"_id"`
	Name      string             `bson:"name"`
	Rating    float64            `bson:"rating"`
	Comment   string             `bson:"comment"`
	User      primitive.ObjectID `bson:"user"`
	CreatedAt time.Time          `bson:"createdAt"`
}

// HasReviewFrom reports whether userID already reviewed the product.
func (p Product) HasReviewFrom(userID primitive.ObjectID) bool {
	for _, r := range p.Reviews {
		if r.User == userID {
			return true
		}
	}

	return false
}
