package memory

import (
	"context"
	"sort"

	"github.com/dukerupert/shopapi/internal/domain"
)

func (s *Store) FindProduct(ctx context.Context, code string) (*domain.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.data.products[code]
	if !ok {
		return nil, domain.ErrProductNotFound
	}
	return &p, nil
}

func (s *Store) FindProductByVariant(ctx context.Context, variantCode string) (*domain.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	code, ok := s.data.variants[variantCode]
	if !ok {
		return nil, domain.ErrProductNotFound
	}
	p := s.data.products[code]
	return &p, nil
}

func (s *Store) ListReviews(ctx context.Context, productCode, status string) ([]domain.ProductReview, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []domain.ProductReview
	for _, r := range s.data.reviews {
		if r.ProductCode == productCode && r.Status == status {
			out = append(out, r)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (s *Store) AddReview(ctx context.Context, review *domain.ProductReview) error {
	unlock := s.write(ctx)
	defer unlock()

	if _, ok := s.data.products[review.ProductCode]; !ok {
		return domain.ErrProductNotFound
	}
	s.data.lastReviewID++
	review.ID = s.data.lastReviewID
	s.data.reviews = append(s.data.reviews, *review)
	return nil
}
