package service

import (
	"math"

	"github.com/alimikegami/e-commerce/storefront-service/internal/domain"
)

// CalculateRating returns the review count and the mean rating. An empty list
// yields zero for both.
func CalculateRating(reviews []domain.Review) (numReviews int, rating float64) {
	if len(reviews) == 0 {
		return 0, 0
	}

	var sum float64
	for _, r := range reviews {
		sum += r.Rating
	}

	return len(reviews), sum / float64(len(reviews))
}

// ratingDrifted compares with a tolerance because the store computes the mean
// with its own float arithmetic.
func ratingDrifted(p domain.Product, numReviews int, rating float64) bool {
	return p.NumReviews != numReviews || math.Abs(p.Rating-rating) > 1e-9
}
