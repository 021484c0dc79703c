package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skyclaim/flight-claims/internal/application/port"
	"github.com/skyclaim/flight-claims/internal/application/service"
	"github.com/skyclaim/flight-claims/internal/domain/claim"
	"github.com/skyclaim/flight-claims/internal/domain/geo"
	"github.com/skyclaim/flight-claims/internal/domain/lifecycle"
	"github.com/skyclaim/flight-claims/internal/domain/notification"
)

type stubClaimService struct {
	submitFn  func(ctx context.Context, req service.SubmitClaimRequest) (*claim.Claim, []notification.Intent, error)
	advanceFn func(ctx context.Context, req service.AdvanceClaimRequest) (*claim.Claim, []notification.Intent, error)
	getFn     func(ctx context.Context, id string) (*claim.Claim, error)
	listFn    func(ctx context.Context, limit, offset int) ([]*claim.Claim, error)
}

func (s *stubClaimService) Submit(ctx context.Context, req service.SubmitClaimRequest) (*claim.Claim, []notification.Intent, error) {
	return s.submitFn(ctx, req)
}

func (s *stubClaimService) Advance(ctx context.Context, req service.AdvanceClaimRequest) (*claim.Claim, []notification.Intent, error) {
	return s.advanceFn(ctx, req)
}

func (s *stubClaimService) Get(ctx context.Context, id string) (*claim.Claim, error) {
	return s.getFn(ctx, id)
}

func (s *stubClaimService) List(ctx context.Context, limit, offset int) ([]*claim.Claim, error) {
	return s.listFn(ctx, limit, offset)
}

type stubExportService struct {
	workbook []byte
	err      error
}

func (s *stubExportService) ClaimsRegister(ctx context.Context) ([]byte, error) {
	return s.workbook, s.err
}

type nopLogger struct{}

func (nopLogger) Info(msg string, keysAndValues ...interface{})  {}
func (nopLogger) Error(msg string, keysAndValues ...interface{}) {}

func newTestRouter(claims *stubClaimService, export service.ExportService) *gin.Engine {
	if export == nil {
		export = &stubExportService{}
	}
	return NewServer(ServerConfig{}, claims, export, nopLogger{}).Router()
}

func testClaim() *claim.Claim {
	departure := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
	arrival := departure.Add(2 * time.Hour)
	return claim.New("claim-1", "REF-1", "passenger", claim.DisruptionFacts{
		ScheduledDeparture: departure,
		ScheduledArrival:   arrival,
		DepartureAirport:   "LHR",
		ArrivalAirport:     "CDG",
		Category:           claim.CategoryCancellation,
	}, departure)
}

func submitBody(t *testing.T) []byte {
	t.Helper()
	body, err := json.Marshal(map[string]interface{}{
		"reference":           "REF-1",
		"actor":               "passenger",
		"scheduled_departure": "2024-06-01T10:00:00Z",
		"scheduled_arrival":   "2024-06-01T12:00:00Z",
		"departure_airport":   "LHR",
		"arrival_airport":     "CDG",
		"category":            "cancellation",
	})
	require.NoError(t, err)
	return body
}

func TestHealthCheck(t *testing.T) {
	router := newTestRouter(&stubClaimService{}, nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
}

func TestSubmitClaim(t *testing.T) {
	var got service.SubmitClaimRequest
	claims := &stubClaimService{
		submitFn: func(ctx context.Context, req service.SubmitClaimRequest) (*claim.Claim, []notification.Intent, error) {
			got = req
			return testClaim(), nil, nil
		},
	}
	router := newTestRouter(claims, nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/claims", bytes.NewReader(submitBody(t)))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "REF-1", got.Reference)
	assert.Equal(t, claim.CategoryCancellation, got.Facts.Category)

	var resp Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.True(t, resp.Success)

	data := resp.Data.(map[string]interface{})
	assert.Equal(t, "claim-1", data["id"])
	assert.Equal(t, "submitted", data["status"])
}

func TestSubmitClaim_MissingFields(t *testing.T) {
	router := newTestRouter(&stubClaimService{}, nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/claims", bytes.NewReader([]byte(`{"actor":"passenger"}`)))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSubmitClaim_InvalidFacts(t *testing.T) {
	claims := &stubClaimService{
		submitFn: func(ctx context.Context, req service.SubmitClaimRequest) (*claim.Claim, []notification.Intent, error) {
			return nil, nil, claim.DisruptionFacts{}.Validate()
		},
	}
	router := newTestRouter(claims, nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/claims", bytes.NewReader(submitBody(t)))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetClaim(t *testing.T) {
	claims := &stubClaimService{
		getFn: func(ctx context.Context, id string) (*claim.Claim, error) {
			assert.Equal(t, "claim-1", id)
			return testClaim(), nil
		},
	}
	router := newTestRouter(claims, nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/claims/claim-1", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestGetClaim_NotFound(t *testing.T) {
	claims := &stubClaimService{
		getFn: func(ctx context.Context, id string) (*claim.Claim, error) {
			return nil, port.ErrClaimNotFound
		},
	}
	router := newTestRouter(claims, nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/claims/missing", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestListClaims_DefaultsLimit(t *testing.T) {
	var gotLimit, gotOffset int
	claims := &stubClaimService{
		listFn: func(ctx context.Context, limit, offset int) ([]*claim.Claim, error) {
			gotLimit, gotOffset = limit, offset
			return []*claim.Claim{testClaim()}, nil
		},
	}
	router := newTestRouter(claims, nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/claims?limit=500&offset=-3", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 20, gotLimit)
	assert.Equal(t, 0, gotOffset)
}

func TestTransitionClaim(t *testing.T) {
	var got service.AdvanceClaimRequest
	claims := &stubClaimService{
		advanceFn: func(ctx context.Context, req service.AdvanceClaimRequest) (*claim.Claim, []notification.Intent, error) {
			got = req
			return testClaim(), nil, nil
		},
	}
	router := newTestRouter(claims, nil)

	body := []byte(`{"target_state":"under_review","actor":"reviewer","reason":"triage"}`)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/claims/claim-1/transition", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "claim-1", got.ClaimID)
	assert.Equal(t, lifecycle.StatusUnderReview, got.Target)
	assert.Equal(t, "triage", got.Reason)
}

func TestTransitionClaim_ErrorMapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"not found", port.ErrClaimNotFound, http.StatusNotFound},
		{"invalid transition", &lifecycle.InvalidTransitionError{From: lifecycle.StatusSubmitted, To: lifecycle.StatusPaid}, http.StatusConflict},
		{"concurrent modification", port.ErrConcurrentModification, http.StatusConflict},
		{"missing reason", &lifecycle.MissingReasonError{Target: lifecycle.StatusRejected}, http.StatusBadRequest},
		{"unknown airport", &geo.UnknownAirportError{Code: "XXX"}, http.StatusUnprocessableEntity},
		{"other", assert.AnError, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims := &stubClaimService{
				advanceFn: func(ctx context.Context, req service.AdvanceClaimRequest) (*claim.Claim, []notification.Intent, error) {
					return nil, nil, tt.err
				},
			}
			router := newTestRouter(claims, nil)

			body := []byte(`{"target_state":"paid","actor":"reviewer"}`)
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/api/claims/claim-1/transition", bytes.NewReader(body))
			req.Header.Set("Content-Type", "application/json")
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.want, w.Code)

			var resp Response
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.False(t, resp.Success)
			assert.NotEmpty(t, resp.Error)
		})
	}
}

func TestExportClaims(t *testing.T) {
	export := &stubExportService{workbook: []byte("workbook-bytes")}
	router := newTestRouter(&stubClaimService{}, export)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/claims/export", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t,
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "claims_register.xlsx")
	assert.Equal(t, "workbook-bytes", w.Body.String())
}
