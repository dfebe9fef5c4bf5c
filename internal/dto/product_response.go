package dto

import "time"

type ProductResponse struct {
	ID           string           `json:"_id"`
	User         string           `json:"user"`
	Name         string           `json:"name"`
	Image        string           `json:"image"`
	Brand        string           `json:"brand"`
	Category     string           `json:"category"`
	Description  string           `json:"description"`
	Reviews      []ReviewResponse `json:"reviews"`
	Rating       float64          `json:"rating"`
	NumReviews   int              `json:"numReviews"`
	Price        float64          `json:"price"`
	CountInStock int              `json:"countInStock"`
	CreatedAt    time.Time        `json:"createdAt"`
	UpdatedAt    time.Time        `json:"updatedAt"`
}

type ReviewResponse struct {
	ID        string    `json:"_id"`
	Name      string    `json:"name"`
	Rating    float64   `json:"rating"`
	Comment   string    `json:"comment"`
	User      string    `json:"user"`
	CreatedAt time.Time `json:"createdAt"`
}
