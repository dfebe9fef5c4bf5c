package dto

import "io"

type ProductRequest struct {
	Name         string  `form:"name" json:"name" validate:"required,max=200"`
	Brand        string  `form:"brand" json:"brand" validate:"required,max=100"`
	Category     string  `form:"category" json:"category" validate:"required,max=100"`
	Description  string  `form:"description" json:"description" validate:"required"`
	Price        float64 `form:"price" json:"price" validate:"gte=0,lte=1000000"`
	CountInStock int     `form:"countInStock" json:"countInStock" validate:"gte=0,lte=1000000"`
}

// FileUpload is an uploaded file detached from the HTTP layer.
type FileUpload struct {
	Filename string
	Size     int64
	Content  io.Reader
}

type ReviewRequest struct {
	Rating  float64 `json:"rating" validate:"required,gte=1,lte=5"`
	Comment string  `json:"comment" validate:"required,max=2000"`
}
