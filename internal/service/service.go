package service

import (
	"context"
	"errors"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"procurement/models"
)

// Store - хранилище, с которым работает сервис. Реализации: db.Storage и memstore.Store.
type Store interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error

	CreateEmployee(ctx context.Context, e *models.Employee) error
	EmployeeByUsername(ctx context.Context, username string) (models.Employee, error)
	EmployeeByID(ctx context.Context, id uuid.UUID) (models.Employee, error)
	CreateOrganization(ctx context.Context, o *models.Organization) error
	Organization(ctx context.Context, id uuid.UUID) (models.Organization, error)
	AddResponsible(ctx context.Context, r models.OrganizationResponsible) error
	IsResponsible(ctx context.Context, userID, organizationID uuid.UUID) (bool, error)
	ResponsibleOrganization(ctx context.Context, userID uuid.UUID) (uuid.UUID, error)

	CreateTender(ctx context.Context, t models.Tender) error
	GetTender(ctx context.Context, id uuid.UUID) (models.Tender, error)
	LockTender(ctx context.Context, id uuid.UUID) (models.Tender, error)
	UpdateTender(ctx context.Context, t models.Tender, from int) error
	ListTenders(ctx context.Context, filter models.TenderFilter) ([]models.Tender, error)

	CreateBid(ctx context.Context, b models.Bid) error
	GetBid(ctx context.Context, id uuid.UUID) (models.Bid, error)
	LockBid(ctx context.Context, id uuid.UUID) (models.Bid, error)
	UpdateBid(ctx context.Context, b models.Bid, from int) error
	ListBids(ctx context.Context, filter models.BidFilter) ([]models.Bid, error)
	FirstBidForTender(ctx context.Context, tenderID uuid.UUID) (models.Bid, error)

	CreateReview(ctx context.Context, r models.Review) error
	ListReviews(ctx context.Context, bidID uuid.UUID, page models.Page) ([]models.Review, error)
}

type Service struct {
	store Store
	log   *zap.Logger
	now   func() time.Time
}

type Option func(*Service)

// WithClock подменяет источник времени для createdAt.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

func New(store Store, log *zap.Logger, opts ...Option) *Service {
	s := &Service{store: store, log: log, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) timestamp() time.Time {
	return s.now().UTC().Truncate(time.Microsecond)
}

func parseID(field, raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, models.Invalid(field, "must be a UUID")
	}
	return id, nil
}

func validateText(field, value string, max int, required bool) error {
	n := utf8.RuneCountInString(value)
	if required && n == 0 {
		return models.Invalid(field, "is required")
	}
	if n > max {
		return models.Invalid(field, fmt.Sprintf("exceeds %d characters", max))
	}
	return nil
}

// notFound подменяет ErrNotFound хранилища на конкретную ошибку сущности.
func notFound(err, specific error) error {
	if errors.Is(err, models.ErrNotFound) {
		return specific
	}
	return err
}
