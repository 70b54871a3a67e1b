package usecase

import (
	"context"
	"strings"

	domainErrors "github.com/polkiloo/chatpack/internal/domain/errors"
	"github.com/polkiloo/chatpack/internal/domain/model"
	"github.com/polkiloo/chatpack/internal/domain/repository"
)

// ReviewUseCase collects and lists storefront reviews.
type ReviewUseCase struct {
	reviews repository.ReviewRepository
}

// NewReviewUseCase constructs ReviewUseCase.
func NewReviewUseCase(reviews repository.ReviewRepository) *ReviewUseCase {
	return &ReviewUseCase{reviews: reviews}
}

// Create stores a review. Reviews are published without moderation.
func (u *ReviewUseCase) Create(ctx context.Context, author string, rating int, comment string) (*model.Review, error) {
	author = strings.TrimSpace(author)
	comment = strings.TrimSpace(comment)
	if author == "" || comment == "" {
		return nil, domainErrors.Validation("Name and comment are required.")
	}
	if rating < 1 || rating > 5 {
		return nil, domainErrors.Validation("Rating must be between 1 and 5.")
	}
	return u.reviews.Create(ctx, &model.Review{
		AuthorName: author,
		Rating:     rating,
		Comment:    comment,
		IsApproved: true,
	})
}

// Approved lists approved reviews newest first with their average rating.
func (u *ReviewUseCase) Approved(ctx context.Context) ([]model.Review, float64, error) {
	reviews, err := u.reviews.Filter(ctx, map[string]any{"is_approved": true}, model.NewestFirst)
	if err != nil {
		return nil, 0, err
	}
	return reviews, model.AverageRating(reviews), nil
}
