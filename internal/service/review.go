package service

import (
	"context"

	"github.com/dukerupert/shopapi/internal/command"
	"github.com/dukerupert/shopapi/internal/domain"
)

// AddReview stores a review awaiting acceptance.
func (s *Shop) AddReview(ctx context.Context, cmd command.AddReview) error {
	if _, err := s.catalog.FindProduct(ctx, cmd.ProductCode); err != nil {
		return err
	}

	return s.catalog.AddReview(ctx, &domain.ProductReview{
		ProductCode: cmd.ProductCode,
		Title:       cmd.Title,
		Rating:      cmd.Rating,
		Comment:     cmd.Comment,
		AuthorEmail: cmd.Email,
		Status:      domain.ReviewStatusNew,
		CreatedAt:   s.now(),
	})
}
