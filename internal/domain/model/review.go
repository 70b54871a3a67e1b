package model

// Review is a storefront testimonial.
type Review struct {
	ID          string `json:"id"`
	AuthorName  string `json:"author_name"`
	Rating      int    `json:"rating"`
	Comment     string `json:"comment"`
	IsApproved  bool   `json:"is_approved"`
	CreatedDate string `json:"created_date,omitempty"`
}

const defaultAverageRating = 5.0

// AverageRating returns the mean rating, or 5 when there are no reviews.
func AverageRating(reviews []Review) float64 {
	if len(reviews) == 0 {
		return defaultAverageRating
	}
	var sum int
	for _, r := range reviews {
		sum += r.Rating
	}
	return float64(sum) / float64(len(reviews))
}
