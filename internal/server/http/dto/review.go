package dto

import "github.com/polkiloo/chatpack/internal/domain/model"

// ReviewRequest is the body of POST /api/reviews.
type ReviewRequest struct {
	AuthorName string `json:"author_name"`
	Rating     int    `json:"rating"`
	Comment    string `json:"comment"`
}

// ReviewListResponse lists approved reviews.
type ReviewListResponse struct {
	Reviews       []model.Review `json:"reviews"`
	AverageRating float64        `json:"averageRating"`
	Count         int            `json:"count"`
}
