package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/polkiloo/chatpack/internal/domain/model"
	"github.com/polkiloo/chatpack/internal/server/http/dto"
)

// ReviewHandler serves storefront reviews.
type ReviewHandler struct {
	facade ReviewFacade
}

// NewReviewHandler constructs ReviewHandler.
func NewReviewHandler(facade ReviewFacade) *ReviewHandler {
	return &ReviewHandler{facade: facade}
}

// List handles GET /api/reviews.
func (h *ReviewHandler) List(c *gin.Context) {
	reviews, avg, err := h.facade.Reviews(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	if reviews == nil {
		reviews = []model.Review{}
	}

	c.JSON(http.StatusOK, dto.ReviewListResponse{Reviews: reviews, AverageRating: avg, Count: len(reviews)})
}

// Create handles POST /api/reviews.
func (h *ReviewHandler) Create(c *gin.Context) {
	var req dto.ReviewRequest
	if err := decodeBody(c, &req); err != nil {
		writeError(c, err)
		return
	}

	review, err := h.facade.CreateReview(c.Request.Context(), req.AuthorName, req.Rating, req.Comment)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, review)
}
