package db

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"procurement/models"
)

var bidColumns = []string{
	"id", "name", "description", "status", "decision", "tender_id",
	"organization_id", "author_type", "author_id", "version", "created_at",
}

func (s *Storage) CreateBid(ctx context.Context, b models.Bid) error {
	q := psql.Insert("bid").
		Columns(bidColumns...).
		Values(b.ID, b.Name, b.Description, b.Status, b.Decision, b.TenderID,
			b.OrganizationID, b.AuthorType, b.AuthorID, b.Version, b.CreatedAt)
	if _, err := s.exec(ctx, q); err != nil {
		return fmt.Errorf("db.Storage.CreateBid: %w", err)
	}
	return nil
}

func (s *Storage) GetBid(ctx context.Context, id uuid.UUID) (models.Bid, error) {
	var b models.Bid
	q := psql.Select(bidColumns...).From("bid").Where(sq.Eq{"id": id})
	if err := s.get(ctx, &b, q); err != nil {
		return b, fmt.Errorf("db.Storage.GetBid: %w", err)
	}
	return b, nil
}

// LockBid читает предложение с блокировкой строки до конца транзакции.
func (s *Storage) LockBid(ctx context.Context, id uuid.UUID) (models.Bid, error) {
	var b models.Bid
	q := psql.Select(bidColumns...).From("bid").Where(sq.Eq{"id": id}).Suffix("FOR UPDATE")
	if err := s.get(ctx, &b, q); err != nil {
		return b, fmt.Errorf("db.Storage.LockBid: %w", err)
	}
	return b, nil
}

// UpdateBid сохраняет изменяемые поля, если версия в базе равна from.
func (s *Storage) UpdateBid(ctx context.Context, b models.Bid, from int) error {
	q := psql.Update("bid").
		SetMap(sq.Eq{
			"name":        b.Name,
			"description": b.Description,
			"status":      b.Status,
			"decision":    b.Decision,
			"version":     b.Version,
		}).
		Where(sq.Eq{"id": b.ID})
	if err := s.updateVersioned(ctx, q, from); err != nil {
		return fmt.Errorf("db.Storage.UpdateBid: %w", err)
	}
	return nil
}

func (s *Storage) ListBids(ctx context.Context, filter models.BidFilter) ([]models.Bid, error) {
	q := psql.Select(bidColumns...).From("bid")
	if filter.TenderID != nil {
		q = q.Where(sq.Eq{"tender_id": *filter.TenderID})
	}
	if filter.AuthorID != nil {
		q = q.Where(sq.Eq{"author_id": *filter.AuthorID})
	}
	q = paginate(q.OrderBy("name", "created_at"), filter.Page)

	bids := []models.Bid{}
	if err := s.selectAll(ctx, &bids, q); err != nil {
		return nil, fmt.Errorf("db.Storage.ListBids: %w", err)
	}
	return bids, nil
}

// FirstBidForTender возвращает самое раннее предложение по тендеру.
func (s *Storage) FirstBidForTender(ctx context.Context, tenderID uuid.UUID) (models.Bid, error) {
	var b models.Bid
	q := psql.Select(bidColumns...).
		From("bid").
		Where(sq.Eq{"tender_id": tenderID}).
		OrderBy("created_at", "id").
		Limit(1)
	if err := s.get(ctx, &b, q); err != nil {
		return b, fmt.Errorf("db.Storage.FirstBidForTender: %w", err)
	}
	return b, nil
}
