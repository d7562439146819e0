package db_test

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"procurement/db"
	"procurement/db/migrations"
	"procurement/models"
)

// newTestStorage подключается к POSTGRES_TEST_CONN и пересоздает схему.
// Без переменной окружения тесты пропускаются.
func newTestStorage(t *testing.T) *db.Storage {
	t.Helper()
	dsn := os.Getenv("POSTGRES_TEST_CONN")
	if dsn == "" {
		t.Skip("POSTGRES_TEST_CONN is not set")
	}

	conn, err := db.Open(context.Background(), dsn, db.PoolConfig{MaxOpenConns: 4, MaxIdleConns: 2})
	require.NoError(t, err)
	require.NoError(t, migrations.Reset(conn.DB))
	require.NoError(t, migrations.Run(conn.DB))

	s := db.NewStorage(conn, zaptest.NewLogger(t))
	t.Cleanup(func() { s.Close() })
	return s
}

type seed struct {
	employee models.Employee
	org      models.Organization
	tender   models.Tender
}

func seedData(t *testing.T, s *db.Storage) seed {
	t.Helper()
	ctx := context.Background()

	e := models.Employee{ID: uuid.New(), Username: gofakeit.Username(), FirstName: gofakeit.FirstName()}
	require.NoError(t, s.CreateEmployee(ctx, &e))
	o := models.Organization{ID: uuid.New(), Name: gofakeit.Company(), Type: models.OrganizationLLC}
	require.NoError(t, s.CreateOrganization(ctx, &o))
	require.NoError(t, s.AddResponsible(ctx, models.OrganizationResponsible{ID: uuid.New(), OrganizationID: o.ID, UserID: e.ID}))

	tender := models.Tender{
		ID:              uuid.New(),
		Name:            "Tender",
		Description:     gofakeit.Sentence(5),
		ServiceType:     models.ServiceTypeDelivery,
		Status:          models.TenderCreated,
		OrganizationID:  o.ID,
		Version:         1,
		CreatorUsername: e.Username,
		CreatedAt:       time.Now().UTC().Truncate(time.Microsecond),
	}
	require.NoError(t, s.CreateTender(ctx, tender))
	return seed{employee: e, org: o, tender: tender}
}

func TestIdentity(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()
	d := seedData(t, s)

	got, err := s.EmployeeByUsername(ctx, d.employee.Username)
	require.NoError(t, err)
	require.Equal(t, d.employee.ID, got.ID)

	_, err = s.EmployeeByUsername(ctx, "missing")
	require.ErrorIs(t, err, models.ErrNotFound)

	ok, err := s.IsResponsible(ctx, d.employee.ID, d.org.ID)
	require.NoError(t, err)
	require.True(t, ok)

	orgID, err := s.ResponsibleOrganization(ctx, d.employee.ID)
	require.NoError(t, err)
	require.Equal(t, d.org.ID, orgID)
}

func TestUpdateTenderCompareAndSwap(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()
	d := seedData(t, s)

	err := s.WithinTx(ctx, func(ctx context.Context) error {
		cur, err := s.LockTender(ctx, d.tender.ID)
		if err != nil {
			return err
		}
		cur.Status = models.TenderPublished
		cur.Version = 2
		return s.UpdateTender(ctx, cur, 1)
	})
	require.NoError(t, err)

	stale := d.tender
	stale.Version = 2
	err = s.UpdateTender(ctx, stale, 1)
	require.ErrorIs(t, err, models.ErrVersionConflict)

	got, err := s.GetTender(ctx, d.tender.ID)
	require.NoError(t, err)
	require.Equal(t, models.TenderPublished, got.Status)
	require.Equal(t, 2, got.Version)
}

func TestWithinTxRollsBack(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()
	d := seedData(t, s)

	boom := errors.New("boom")
	err := s.WithinTx(ctx, func(ctx context.Context) error {
		cur, err := s.LockTender(ctx, d.tender.ID)
		require.NoError(t, err)
		cur.Name = "changed"
		cur.Version = 2
		require.NoError(t, s.UpdateTender(ctx, cur, 1))
		return boom
	})
	require.ErrorIs(t, err, boom)

	got, err := s.GetTender(ctx, d.tender.ID)
	require.NoError(t, err)
	require.Equal(t, "Tender", got.Name)
	require.Equal(t, 1, got.Version)
}

func TestWithinTxRollsBackOnPanic(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()
	d := seedData(t, s)

	require.Panics(t, func() {
		_ = s.WithinTx(ctx, func(ctx context.Context) error {
			cur, err := s.LockTender(ctx, d.tender.ID)
			require.NoError(t, err)
			cur.Name = "changed"
			cur.Version = 2
			require.NoError(t, s.UpdateTender(ctx, cur, 1))
			panic("boom")
		})
	})

	got, err := s.GetTender(ctx, d.tender.ID)
	require.NoError(t, err)
	require.Equal(t, "Tender", got.Name)
	require.Equal(t, 1, got.Version)
}

func TestBidsAndReviews(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()
	d := seedData(t, s)
	now := time.Now().UTC().Truncate(time.Microsecond)

	newBid := func(name string, at time.Time) models.Bid {
		return models.Bid{
			ID:             uuid.New(),
			Name:           name,
			Status:         models.BidCreated,
			TenderID:       d.tender.ID,
			OrganizationID: d.org.ID,
			AuthorType:     models.AuthorUser,
			AuthorID:       d.employee.ID,
			Version:        1,
			CreatedAt:      at,
		}
	}
	late := newBid("a", now.Add(time.Minute))
	early := newBid("b", now)
	require.NoError(t, s.CreateBid(ctx, late))
	require.NoError(t, s.CreateBid(ctx, early))

	bids, err := s.ListBids(ctx, models.BidFilter{TenderID: &d.tender.ID, Page: models.Page{Limit: 5}})
	require.NoError(t, err)
	require.Len(t, bids, 2)
	require.Equal(t, "a", bids[0].Name)
	require.Equal(t, models.DecisionUnset, bids[0].Decision)

	first, err := s.FirstBidForTender(ctx, d.tender.ID)
	require.NoError(t, err)
	require.Equal(t, early.ID, first.ID)

	early.Decision = models.DecisionRejected
	early.Status = models.BidCanceled
	early.Version = 2
	require.NoError(t, s.UpdateBid(ctx, early, 1))
	got, err := s.GetBid(ctx, early.ID)
	require.NoError(t, err)
	require.Equal(t, models.DecisionRejected, got.Decision)

	for i, text := range []string{"one", "two"} {
		require.NoError(t, s.CreateReview(ctx, models.Review{
			ID:          uuid.New(),
			Description: text,
			BidID:       early.ID,
			CreatedAt:   now.Add(time.Duration(i) * time.Second),
		}))
	}
	reviews, err := s.ListReviews(ctx, early.ID, models.Page{Limit: 1, Offset: 1})
	require.NoError(t, err)
	require.Len(t, reviews, 1)
	require.Equal(t, "two", reviews[0].Description)
}

func TestListTendersFilters(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()
	d := seedData(t, s)

	other := d.tender
	other.ID = uuid.New()
	other.Name = "Another"
	other.ServiceType = models.ServiceTypeManufacture
	require.NoError(t, s.CreateTender(ctx, other))

	all, err := s.ListTenders(ctx, models.TenderFilter{Page: models.AllPages()})
	require.NoError(t, err)
	require.Len(t, all, 2)
	require.Equal(t, "Another", all[0].Name)

	delivery, err := s.ListTenders(ctx, models.TenderFilter{ServiceTypes: []models.ServiceType{models.ServiceTypeDelivery}, Page: models.AllPages()})
	require.NoError(t, err)
	require.Len(t, delivery, 1)

	mine, err := s.ListTenders(ctx, models.TenderFilter{CreatorUsername: d.employee.Username, Page: models.Page{Limit: 1}})
	require.NoError(t, err)
	require.Len(t, mine, 1)
}
