package models_test

import (
	"encoding/json"
	"sort"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"procurement/models"
)

func TestTenderViewShape(t *testing.T) {
	id := uuid.New()
	loc := time.FixedZone("MSK", 3*60*60)
	tender := models.Tender{
		ID:              id,
		Name:            "Доставка",
		Description:     "Доставка материалов",
		ServiceType:     models.ServiceTypeDelivery,
		Status:          models.TenderCreated,
		OrganizationID:  uuid.New(),
		Version:         3,
		CreatorUsername: "alice",
		CreatedAt:       time.Date(2024, 9, 1, 15, 4, 5, 999, loc),
	}

	data, err := json.Marshal(tender.View())
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal(data, &got))
	require.Len(t, got, 7)
	require.Equal(t, id.String(), got["id"])
	require.Equal(t, "Delivery", got["serviceType"])
	require.Equal(t, "2024-09-01T12:04:05Z", got["createdAt"])
	require.NotContains(t, got, "creatorUsername")
	require.NotContains(t, got, "organizationId")
}

func TestBidViewShape(t *testing.T) {
	bid := models.Bid{
		ID:         uuid.New(),
		Name:       "Предложение",
		Status:     models.BidCanceled,
		Decision:   models.DecisionRejected,
		AuthorType: models.AuthorUser,
		AuthorID:   uuid.New(),
		Version:    2,
		CreatedAt:  time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
	}

	data, err := json.Marshal(bid.View())
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal(data, &got))
	require.Equal(t, []string{"authorId", "authorType", "createdAt", "id", "name", "status", "version"}, keys(got))
	require.Equal(t, "Canceled", got["status"])
	require.Equal(t, "2024-01-02T03:04:05Z", got["createdAt"])
}

func TestEmptyViewsEncodeAsArrays(t *testing.T) {
	data, err := json.Marshal(models.ReviewViews(nil))
	require.NoError(t, err)
	require.JSONEq(t, `[]`, string(data))
}

func TestValidationErrorIsInvalidRequest(t *testing.T) {
	err := models.Invalid("name", "too long")
	require.ErrorIs(t, err, models.ErrInvalidRequest)
	require.EqualError(t, err, "invalid name: too long")
}

func keys(m map[string]any) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
