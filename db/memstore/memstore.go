// Package memstore хранит данные сервиса в памяти процесса.
//
// Используется при STORAGE=memory и в тестах. Транзакция берет общий мьютекс
// и снимает копию состояния; при ошибке копия восстанавливается.
package memstore

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"procurement/models"
)

type state struct {
	employees     []models.Employee
	organizations []models.Organization
	responsible   []models.OrganizationResponsible
	tenders       []models.Tender
	bids          []models.Bid
	reviews       []models.Review
}

func (s state) clone() state {
	return state{
		employees:     slices.Clone(s.employees),
		organizations: slices.Clone(s.organizations),
		responsible:   slices.Clone(s.responsible),
		tenders:       slices.Clone(s.tenders),
		bids:          slices.Clone(s.bids),
		reviews:       slices.Clone(s.reviews),
	}
}

type Store struct {
	mu    sync.Mutex
	state state
	now   func() time.Time
}

func New() *Store {
	return &Store{now: time.Now}
}

type txKey struct{}

// WithinTx выполняет fn под эксклюзивной блокировкой хранилища.
func (s *Store) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if ctx.Value(txKey{}) == s {
		return fn(ctx)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := s.state.clone()
	defer func() {
		if p := recover(); p != nil {
			s.state = snapshot
			panic(p)
		}
	}()

	if err := fn(context.WithValue(ctx, txKey{}, s)); err != nil {
		s.state = snapshot
		return err
	}
	return nil
}

// lock берет мьютекс, если вызов идет не из транзакции этого хранилища.
func (s *Store) lock(ctx context.Context) func() {
	if ctx.Value(txKey{}) == s {
		return func() {}
	}
	s.mu.Lock()
	return s.mu.Unlock
}

func (s *Store) CreateEmployee(ctx context.Context, e *models.Employee) error {
	defer s.lock(ctx)()

	if slices.ContainsFunc(s.state.employees, func(x models.Employee) bool { return x.Username == e.Username }) {
		return fmt.Errorf("memstore.Store.CreateEmployee: username %q already exists", e.Username)
	}
	e.CreatedAt = s.now().UTC()
	s.state.employees = append(s.state.employees, *e)
	return nil
}

func (s *Store) EmployeeByUsername(ctx context.Context, username string) (models.Employee, error) {
	defer s.lock(ctx)()

	i := slices.IndexFunc(s.state.employees, func(x models.Employee) bool { return x.Username == username })
	if i < 0 {
		return models.Employee{}, fmt.Errorf("memstore.Store.EmployeeByUsername: %w", models.ErrNotFound)
	}
	return s.state.employees[i], nil
}

func (s *Store) EmployeeByID(ctx context.Context, id uuid.UUID) (models.Employee, error) {
	defer s.lock(ctx)()

	i := slices.IndexFunc(s.state.employees, func(x models.Employee) bool { return x.ID == id })
	if i < 0 {
		return models.Employee{}, fmt.Errorf("memstore.Store.EmployeeByID: %w", models.ErrNotFound)
	}
	return s.state.employees[i], nil
}

func (s *Store) CreateOrganization(ctx context.Context, o *models.Organization) error {
	defer s.lock(ctx)()

	o.CreatedAt = s.now().UTC()
	s.state.organizations = append(s.state.organizations, *o)
	return nil
}

func (s *Store) Organization(ctx context.Context, id uuid.UUID) (models.Organization, error) {
	defer s.lock(ctx)()

	i := slices.IndexFunc(s.state.organizations, func(x models.Organization) bool { return x.ID == id })
	if i < 0 {
		return models.Organization{}, fmt.Errorf("memstore.Store.Organization: %w", models.ErrNotFound)
	}
	return s.state.organizations[i], nil
}

func (s *Store) AddResponsible(ctx context.Context, r models.OrganizationResponsible) error {
	defer s.lock(ctx)()

	if s.responsibleLocked(r.UserID, r.OrganizationID) {
		return fmt.Errorf("memstore.Store.AddResponsible: edge already exists")
	}
	s.state.responsible = append(s.state.responsible, r)
	return nil
}

func (s *Store) IsResponsible(ctx context.Context, userID, organizationID uuid.UUID) (bool, error) {
	defer s.lock(ctx)()
	return s.responsibleLocked(userID, organizationID), nil
}

func (s *Store) responsibleLocked(userID, organizationID uuid.UUID) bool {
	return slices.ContainsFunc(s.state.responsible, func(r models.OrganizationResponsible) bool {
		return r.UserID == userID && r.OrganizationID == organizationID
	})
}

func (s *Store) ResponsibleOrganization(ctx context.Context, userID uuid.UUID) (uuid.UUID, error) {
	defer s.lock(ctx)()

	i := slices.IndexFunc(s.state.responsible, func(r models.OrganizationResponsible) bool { return r.UserID == userID })
	if i < 0 {
		return uuid.Nil, fmt.Errorf("memstore.Store.ResponsibleOrganization: %w", models.ErrNotFound)
	}
	return s.state.responsible[i].OrganizationID, nil
}

func (s *Store) CreateTender(ctx context.Context, t models.Tender) error {
	defer s.lock(ctx)()
	s.state.tenders = append(s.state.tenders, t)
	return nil
}

func (s *Store) GetTender(ctx context.Context, id uuid.UUID) (models.Tender, error) {
	defer s.lock(ctx)()

	i := s.tenderIndex(id)
	if i < 0 {
		return models.Tender{}, fmt.Errorf("memstore.Store.GetTender: %w", models.ErrNotFound)
	}
	return s.state.tenders[i], nil
}

// LockTender совпадает с GetTender: блокировка уже держится транзакцией.
func (s *Store) LockTender(ctx context.Context, id uuid.UUID) (models.Tender, error) {
	return s.GetTender(ctx, id)
}

func (s *Store) UpdateTender(ctx context.Context, t models.Tender, from int) error {
	defer s.lock(ctx)()

	i := s.tenderIndex(t.ID)
	if i < 0 || s.state.tenders[i].Version != from {
		return fmt.Errorf("memstore.Store.UpdateTender: %w", models.ErrVersionConflict)
	}
	cur := &s.state.tenders[i]
	cur.Name = t.Name
	cur.Description = t.Description
	cur.ServiceType = t.ServiceType
	cur.Status = t.Status
	cur.Version = t.Version
	return nil
}

func (s *Store) ListTenders(ctx context.Context, filter models.TenderFilter) ([]models.Tender, error) {
	defer s.lock(ctx)()

	out := []models.Tender{}
	for _, t := range s.state.tenders {
		if len(filter.ServiceTypes) > 0 && !slices.Contains(filter.ServiceTypes, t.ServiceType) {
			continue
		}
		if filter.CreatorUsername != "" && t.CreatorUsername != filter.CreatorUsername {
			continue
		}
		out = append(out, t)
	}
	slices.SortStableFunc(out, func(a, b models.Tender) int {
		return cmp.Or(cmp.Compare(a.Name, b.Name), a.CreatedAt.Compare(b.CreatedAt))
	})
	return paginate(out, filter.Page), nil
}

func (s *Store) tenderIndex(id uuid.UUID) int {
	return slices.IndexFunc(s.state.tenders, func(t models.Tender) bool { return t.ID == id })
}

func (s *Store) CreateBid(ctx context.Context, b models.Bid) error {
	defer s.lock(ctx)()

	if s.tenderIndex(b.TenderID) < 0 {
		return fmt.Errorf("memstore.Store.CreateBid: tender %s does not exist", b.TenderID)
	}
	s.state.bids = append(s.state.bids, b)
	return nil
}

func (s *Store) GetBid(ctx context.Context, id uuid.UUID) (models.Bid, error) {
	defer s.lock(ctx)()

	i := s.bidIndex(id)
	if i < 0 {
		return models.Bid{}, fmt.Errorf("memstore.Store.GetBid: %w", models.ErrNotFound)
	}
	return s.state.bids[i], nil
}

// LockBid совпадает с GetBid: блокировка уже держится транзакцией.
func (s *Store) LockBid(ctx context.Context, id uuid.UUID) (models.Bid, error) {
	return s.GetBid(ctx, id)
}

func (s *Store) UpdateBid(ctx context.Context, b models.Bid, from int) error {
	defer s.lock(ctx)()

	i := s.bidIndex(b.ID)
	if i < 0 || s.state.bids[i].Version != from {
		return fmt.Errorf("memstore.Store.UpdateBid: %w", models.ErrVersionConflict)
	}
	cur := &s.state.bids[i]
	cur.Name = b.Name
	cur.Description = b.Description
	cur.Status = b.Status
	cur.Decision = b.Decision
	cur.Version = b.Version
	return nil
}

func (s *Store) ListBids(ctx context.Context, filter models.BidFilter) ([]models.Bid, error) {
	defer s.lock(ctx)()

	out := []models.Bid{}
	for _, b := range s.state.bids {
		if filter.TenderID != nil && b.TenderID != *filter.TenderID {
			continue
		}
		if filter.AuthorID != nil && b.AuthorID != *filter.AuthorID {
			continue
		}
		out = append(out, b)
	}
	slices.SortStableFunc(out, func(a, b models.Bid) int {
		return cmp.Or(cmp.Compare(a.Name, b.Name), a.CreatedAt.Compare(b.CreatedAt))
	})
	return paginate(out, filter.Page), nil
}

// FirstBidForTender возвращает самое раннее предложение по тендеру.
func (s *Store) FirstBidForTender(ctx context.Context, tenderID uuid.UUID) (models.Bid, error) {
	defer s.lock(ctx)()

	var (
		first models.Bid
		found bool
	)
	for _, b := range s.state.bids {
		if b.TenderID != tenderID {
			continue
		}
		if !found || b.CreatedAt.Before(first.CreatedAt) {
			first, found = b, true
		}
	}
	if !found {
		return models.Bid{}, fmt.Errorf("memstore.Store.FirstBidForTender: %w", models.ErrNotFound)
	}
	return first, nil
}

func (s *Store) bidIndex(id uuid.UUID) int {
	return slices.IndexFunc(s.state.bids, func(b models.Bid) bool { return b.ID == id })
}

func (s *Store) CreateReview(ctx context.Context, r models.Review) error {
	defer s.lock(ctx)()

	if s.bidIndex(r.BidID) < 0 {
		return fmt.Errorf("memstore.Store.CreateReview: bid %s does not exist", r.BidID)
	}
	s.state.reviews = append(s.state.reviews, r)
	return nil
}

func (s *Store) ListReviews(ctx context.Context, bidID uuid.UUID, page models.Page) ([]models.Review, error) {
	defer s.lock(ctx)()

	out := []models.Review{}
	for _, r := range s.state.reviews {
		if r.BidID == bidID {
			out = append(out, r)
		}
	}
	slices.SortStableFunc(out, func(a, b models.Review) int {
		return a.CreatedAt.Compare(b.CreatedAt)
	})
	return paginate(out, page), nil
}

func paginate[T any](items []T, page models.Page) []T {
	if page.Offset >= len(items) {
		return items[:0]
	}
	items = items[page.Offset:]
	if page.Limit != models.NoLimit && page.Limit < len(items) {
		items = items[:page.Limit]
	}
	return items
}
