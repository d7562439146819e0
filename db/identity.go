package db

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"procurement/models"
)

func (s *Storage) CreateEmployee(ctx context.Context, e *models.Employee) error {
	q := psql.Insert("employee").
		Columns("id", "username", "first_name", "last_name").
		Values(e.ID, e.Username, e.FirstName, e.LastName).
		Suffix("RETURNING created_at")
	if err := s.get(ctx, &e.CreatedAt, q); err != nil {
		return fmt.Errorf("db.Storage.CreateEmployee: %w", err)
	}
	return nil
}

func (s *Storage) EmployeeByUsername(ctx context.Context, username string) (models.Employee, error) {
	var e models.Employee
	q := psql.Select("id", "username", "first_name", "last_name", "created_at").
		From("employee").
		Where(sq.Eq{"username": username})
	if err := s.get(ctx, &e, q); err != nil {
		return e, fmt.Errorf("db.Storage.EmployeeByUsername: %w", err)
	}
	return e, nil
}

func (s *Storage) EmployeeByID(ctx context.Context, id uuid.UUID) (models.Employee, error) {
	var e models.Employee
	q := psql.Select("id", "username", "first_name", "last_name", "created_at").
		From("employee").
		Where(sq.Eq{"id": id})
	if err := s.get(ctx, &e, q); err != nil {
		return e, fmt.Errorf("db.Storage.EmployeeByID: %w", err)
	}
	return e, nil
}

func (s *Storage) CreateOrganization(ctx context.Context, o *models.Organization) error {
	q := psql.Insert("organization").
		Columns("id", "name", "description", "type").
		Values(o.ID, o.Name, o.Description, o.Type).
		Suffix("RETURNING created_at")
	if err := s.get(ctx, &o.CreatedAt, q); err != nil {
		return fmt.Errorf("db.Storage.CreateOrganization: %w", err)
	}
	return nil
}

func (s *Storage) Organization(ctx context.Context, id uuid.UUID) (models.Organization, error) {
	var o models.Organization
	q := psql.Select("id", "name", "description", "type", "created_at").
		From("organization").
		Where(sq.Eq{"id": id})
	if err := s.get(ctx, &o, q); err != nil {
		return o, fmt.Errorf("db.Storage.Organization: %w", err)
	}
	return o, nil
}

func (s *Storage) AddResponsible(ctx context.Context, r models.OrganizationResponsible) error {
	q := psql.Insert("organization_responsible").
		Columns("id", "organization_id", "user_id").
		Values(r.ID, r.OrganizationID, r.UserID)
	if _, err := s.exec(ctx, q); err != nil {
		return fmt.Errorf("db.Storage.AddResponsible: %w", err)
	}
	return nil
}

func (s *Storage) IsResponsible(ctx context.Context, userID, organizationID uuid.UUID) (bool, error) {
	var count int
	q := psql.Select("COUNT(*)").
		From("organization_responsible").
		Where(sq.Eq{"user_id": userID, "organization_id": organizationID})
	if err := s.get(ctx, &count, q); err != nil {
		return false, fmt.Errorf("db.Storage.IsResponsible: %w", err)
	}
	return count > 0, nil
}

// ResponsibleOrganization возвращает организацию, за которую отвечает сотрудник.
// Если организаций несколько, берется связь, созданная первой.
func (s *Storage) ResponsibleOrganization(ctx context.Context, userID uuid.UUID) (uuid.UUID, error) {
	var orgID uuid.UUID
	q := psql.Select("organization_id").
		From("organization_responsible").
		Where(sq.Eq{"user_id": userID}).
		OrderBy("created_at", "id").
		Limit(1)
	if err := s.get(ctx, &orgID, q); err != nil {
		return uuid.Nil, fmt.Errorf("db.Storage.ResponsibleOrganization: %w", err)
	}
	return orgID, nil
}
