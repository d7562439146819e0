package db

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"procurement/models"
)

func (s *Storage) CreateReview(ctx context.Context, r models.Review) error {
	q := psql.Insert("review").
		Columns("id", "description", "bid_id", "created_at").
		Values(r.ID, r.Description, r.BidID, r.CreatedAt)
	if _, err := s.exec(ctx, q); err != nil {
		return fmt.Errorf("db.Storage.CreateReview: %w", err)
	}
	return nil
}

func (s *Storage) ListReviews(ctx context.Context, bidID uuid.UUID, page models.Page) ([]models.Review, error) {
	q := psql.Select("id", "description", "bid_id", "created_at").
		From("review").
		Where(sq.Eq{"bid_id": bidID}).
		OrderBy("created_at", "id")
	q = paginate(q, page)

	reviews := []models.Review{}
	if err := s.selectAll(ctx, &reviews, q); err != nil {
		return nil, fmt.Errorf("db.Storage.ListReviews: %w", err)
	}
	return reviews, nil
}
