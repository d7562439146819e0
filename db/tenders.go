package db

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"procurement/models"
)

var tenderColumns = []string{
	"id", "name", "description", "service_type", "status",
	"organization_id", "version", "creator_username", "created_at",
}

func (s *Storage) CreateTender(ctx context.Context, t models.Tender) error {
	q := psql.Insert("tender").
		Columns(tenderColumns...).
		Values(t.ID, t.Name, t.Description, t.ServiceType, t.Status,
			t.OrganizationID, t.Version, t.CreatorUsername, t.CreatedAt)
	if _, err := s.exec(ctx, q); err != nil {
		return fmt.Errorf("db.Storage.CreateTender: %w", err)
	}
	return nil
}

func (s *Storage) GetTender(ctx context.Context, id uuid.UUID) (models.Tender, error) {
	var t models.Tender
	q := psql.Select(tenderColumns...).From("tender").Where(sq.Eq{"id": id})
	if err := s.get(ctx, &t, q); err != nil {
		return t, fmt.Errorf("db.Storage.GetTender: %w", err)
	}
	return t, nil
}

// LockTender читает тендер с блокировкой строки до конца транзакции.
func (s *Storage) LockTender(ctx context.Context, id uuid.UUID) (models.Tender, error) {
	var t models.Tender
	q := psql.Select(tenderColumns...).From("tender").Where(sq.Eq{"id": id}).Suffix("FOR UPDATE")
	if err := s.get(ctx, &t, q); err != nil {
		return t, fmt.Errorf("db.Storage.LockTender: %w", err)
	}
	return t, nil
}

// UpdateTender сохраняет изменяемые поля, если версия в базе равна from.
func (s *Storage) UpdateTender(ctx context.Context, t models.Tender, from int) error {
	q := psql.Update("tender").
		SetMap(sq.Eq{
			"name":         t.Name,
			"description":  t.Description,
			"service_type": t.ServiceType,
			"status":       t.Status,
			"version":      t.Version,
		}).
		Where(sq.Eq{"id": t.ID})
	if err := s.updateVersioned(ctx, q, from); err != nil {
		return fmt.Errorf("db.Storage.UpdateTender: %w", err)
	}
	return nil
}

func (s *Storage) ListTenders(ctx context.Context, filter models.TenderFilter) ([]models.Tender, error) {
	q := psql.Select(tenderColumns...).From("tender")
	if len(filter.ServiceTypes) > 0 {
		q = q.Where(sq.Eq{"service_type": filter.ServiceTypes})
	}
	if filter.CreatorUsername != "" {
		q = q.Where(sq.Eq{"creator_username": filter.CreatorUsername})
	}
	q = paginate(q.OrderBy("name", "created_at"), filter.Page)

	tenders := []models.Tender{}
	if err := s.selectAll(ctx, &tenders, q); err != nil {
		return nil, fmt.Errorf("db.Storage.ListTenders: %w", err)
	}
	return tenders, nil
}
