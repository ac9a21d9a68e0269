package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/dukerupert/shopapi/internal/domain"
)

func (s *Store) FindProduct(ctx context.Context, code string) (*domain.Product, error) {
	return findDocument[domain.Product](ctx, s.db(ctx), domain.ErrProductNotFound,
		`SELECT data FROM products WHERE code = $1`, code)
}

func (s *Store) FindProductByVariant(ctx context.Context, variantCode string) (*domain.Product, error) {
	return findDocument[domain.Product](ctx, s.db(ctx), domain.ErrProductNotFound,
		`SELECT p.data FROM products p
		 JOIN product_variants v ON v.product_code = p.code
		 WHERE v.code = $1`, variantCode)
}

func (s *Store) ListReviews(ctx context.Context, productCode, status string) ([]domain.ProductReview, error) {
	rows, err := s.db(ctx).Query(ctx,
		`SELECT id, product_code, title, rating, comment, author_email, status, created_at
		 FROM product_reviews
		 WHERE product_code = $1 AND status = $2
		 ORDER BY created_at DESC, id DESC`, productCode, status)
	if err != nil {
		return nil, fmt.Errorf("failed to list reviews: %w", err)
	}

	reviews, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.ProductReview, error) {
		var r domain.ProductReview
		err := row.Scan(&r.ID, &r.ProductCode, &r.Title, &r.Rating, &r.Comment, &r.AuthorEmail, &r.Status, &r.CreatedAt)
		return r, err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan reviews: %w", err)
	}
	return reviews, nil
}

func (s *Store) AddReview(ctx context.Context, review *domain.ProductReview) error {
	err := s.db(ctx).QueryRow(ctx,
		`INSERT INTO product_reviews (product_code, title, rating, comment, author_email, status, created_at)
		 SELECT code, $2, $3, $4, $5, $6, $7 FROM products WHERE code = $1
		 RETURNING id`,
		review.ProductCode, review.Title, review.Rating, review.Comment, review.AuthorEmail, review.Status, review.CreatedAt,
	).Scan(&review.ID)
	return notFound(err, domain.ErrProductNotFound)
}
