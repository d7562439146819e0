package handlers_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"procurement/db/memstore"
	"procurement/internal/handlers"
	"procurement/internal/service"
	"procurement/models"
)

type apiFixture struct {
	srv  *httptest.Server
	orgA models.Organization
	bob  models.Employee
}

func newAPI(t *testing.T) *apiFixture {
	t.Helper()
	ctx := context.Background()
	log := zap.NewNop()
	svc := service.New(memstore.New(), log)

	alice, err := svc.RegisterEmployee(ctx, "alice", gofakeit.FirstName(), gofakeit.LastName())
	require.NoError(t, err)
	bob, err := svc.RegisterEmployee(ctx, "bob", gofakeit.FirstName(), gofakeit.LastName())
	require.NoError(t, err)
	orgA, err := svc.RegisterOrganization(ctx, gofakeit.Company(), models.OrganizationLLC, alice.ID)
	require.NoError(t, err)
	_, err = svc.RegisterOrganization(ctx, gofakeit.Company(), models.OrganizationIE, bob.ID)
	require.NoError(t, err)

	router := handlers.NewRouter(handlers.NewHandler(svc, log), log, prometheus.NewRegistry())
	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return &apiFixture{srv: srv, orgA: orgA, bob: bob}
}

func (a *apiFixture) do(t *testing.T, method, path, body string, out any) int {
	t.Helper()
	req, err := http.NewRequest(method, a.srv.URL+path, strings.NewReader(body))
	require.NoError(t, err)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := a.srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func TestAPITenderAndBidFlow(t *testing.T) {
	api := newAPI(t)

	var tender models.TenderView
	code := api.do(t, http.MethodPost, "/api/tenders/new",
		`{"name":"Тендер 1","description":"Описание","serviceType":"Construction","organizationId":"`+api.orgA.ID.String()+`","creatorUsername":"alice"}`,
		&tender)
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, models.TenderCreated, tender.Status)
	require.Equal(t, 1, tender.Version)

	code = api.do(t, http.MethodPut, "/api/tenders/"+tender.ID+"/status?status=Published&username=alice", "", &tender)
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, 2, tender.Version)

	var reason struct {
		Reason string `json:"reason"`
	}
	code = api.do(t, http.MethodPut, "/api/tenders/"+tender.ID+"/status?status=Closed&username=bob", "", &reason)
	require.Equal(t, http.StatusUnauthorized, code)
	require.NotEmpty(t, reason.Reason)

	var status string
	code = api.do(t, http.MethodGet, "/api/tenders/"+tender.ID+"/status?username=alice", "", &status)
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, "Published", status)

	var bid models.BidView
	code = api.do(t, http.MethodPost, "/api/bids/new",
		`{"name":"Предложение","description":"D","tenderId":"`+tender.ID+`","authorType":"User","authorId":"`+api.bob.ID.String()+`"}`,
		&bid)
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, models.BidCreated, bid.Status)

	code = api.do(t, http.MethodPut, "/api/bids/"+bid.ID+"/feedback?bidFeedback="+url.QueryEscape("Отлично")+"&username=bob", "", &bid)
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, 2, bid.Version)

	code = api.do(t, http.MethodPut, "/api/bids/"+bid.ID+"/submit_decision?decision=Rejected&username=bob", "", &bid)
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, models.BidCanceled, bid.Status)
	require.Equal(t, 3, bid.Version)

	code = api.do(t, http.MethodPut, "/api/bids/"+bid.ID+"/rollback/1?username=bob", "", &bid)
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, 1, bid.Version)
	require.Equal(t, models.BidCanceled, bid.Status)

	var bids []models.BidView
	code = api.do(t, http.MethodGet, "/api/bids/"+tender.ID+"/list?username=alice", "", &bids)
	require.Equal(t, http.StatusOK, code)
	require.Len(t, bids, 1)

	var reviews []models.ReviewView
	code = api.do(t, http.MethodGet, "/api/bids/"+tender.ID+"/reviews?authorUsername=bob&requesterUsername=bob", "", &reviews)
	require.Equal(t, http.StatusOK, code)
	require.Len(t, reviews, 1)
	require.Equal(t, "Отлично", reviews[0].Description)

	code = api.do(t, http.MethodGet, "/api/bids/"+tender.ID+"/reviews?authorUsername=bob&requesterUsername=alice", "", nil)
	require.Equal(t, http.StatusForbidden, code)
}

func TestAPIMetricsEndpoint(t *testing.T) {
	api := newAPI(t)

	require.Equal(t, http.StatusOK, api.do(t, http.MethodGet, "/api/ping", "", nil))

	resp, err := api.srv.Client().Get(api.srv.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	buf := new(strings.Builder)
	_, err = io.Copy(buf, resp.Body)
	require.NoError(t, err)
	require.Contains(t, buf.String(), `procurement_http_requests_total{method="GET",route="/api/ping",status="200"} 1`)
}

func TestAPIPaginationAcceptsAnyNonNegativeLimit(t *testing.T) {
	api := newAPI(t)

	tests := []struct {
		path     string
		wantCode int
	}{
		{path: "/api/bids/my?username=bob&limit=0", wantCode: http.StatusOK},
		{path: "/api/bids/my?username=bob&limit=100", wantCode: http.StatusOK},
		{path: "/api/bids/my?username=bob&limit=5", wantCode: http.StatusOK},
		{path: "/api/bids/my?username=bob&limit=-1", wantCode: http.StatusBadRequest},
		{path: "/api/tenders?limit=100&offset=0", wantCode: http.StatusOK},
		// пустая страница своих тендеров дает 401
		{path: "/api/tenders/my?username=alice&limit=0", wantCode: http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			require.Equal(t, tt.wantCode, api.do(t, http.MethodGet, tt.path, "", nil))
		})
	}
}

func TestAPIEditWithEmptyBodyBumpsVersion(t *testing.T) {
	api := newAPI(t)

	var tender models.TenderView
	code := api.do(t, http.MethodPost, "/api/tenders/new",
		`{"name":"T","description":"D","serviceType":"Delivery","organizationId":"`+api.orgA.ID.String()+`","creatorUsername":"alice"}`,
		&tender)
	require.Equal(t, http.StatusOK, code)

	var edited models.TenderView
	code = api.do(t, http.MethodPatch, "/api/tenders/"+tender.ID+"/edit?username=alice", `{}`, &edited)
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, "T", edited.Name)
	require.Equal(t, 2, edited.Version)
}
