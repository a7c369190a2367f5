package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bluewave-swim/backoffice/backend/internal/config"
	"github.com/bluewave-swim/backoffice/backend/internal/domain"
	"github.com/bluewave-swim/backoffice/backend/internal/metrics"
)

const (
	testSecret    = "test-secret"
	adminEmail    = "coach@example.com"
	parentEmail   = "parent@example.com"
	testNamespace = "test"
)

func newTestHandler(t *testing.T) *Handler {
	t.Helper()
	return newTestHandlerWithStore(t, nil)
}

func newTestHandlerWithStore(t *testing.T, store Store) *Handler {
	t.Helper()

	cfg := &config.Config{AdminEmails: []string{adminEmail}}
	cfg.JWT.Secret = testSecret
	cfg.JWT.Expiration = 1
	cfg.RabbitMQ.Queue = "email_queue"
	cfg.Clinic.DefaultLaneCapacity = 3
	cfg.Clinic.MaxRecommendations = 10

	h, err := NewHandler(cfg, store, nil, nil, metrics.NewManager(testNamespace))
	require.NoError(t, err)
	h.RegisterRoutes()
	return h
}

func tokenFor(t *testing.T, h *Handler, id int64, email string) string {
	t.Helper()
	token, _, err := h.issueToken(&domain.Account{ID: id, Email: email})
	require.NoError(t, err)
	return token
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	return body.Error
}

func TestAdminGuard(t *testing.T) {
	h := newTestHandler(t)

	reached := false
	guarded := h.auth(h.adminGuard(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reached = true
		w.WriteHeader(http.StatusNoContent)
	})))

	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, AuthClaims{
		Email: adminEmail,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		},
	})
	expiredToken, err := expired.SignedString([]byte(testSecret))
	require.NoError(t, err)

	tests := []struct {
		name          string
		authorization string
		wantStatus    int
		wantReached   bool
	}{
		{name: "no token", wantStatus: http.StatusUnauthorized},
		{name: "garbage token", authorization: "Bearer not-a-jwt", wantStatus: http.StatusUnauthorized},
		{name: "wrong scheme", authorization: "Basic " + tokenFor(t, h, 1, adminEmail), wantStatus: http.StatusUnauthorized},
		{name: "expired token", authorization: "Bearer " + expiredToken, wantStatus: http.StatusUnauthorized},
		{name: "parent", authorization: "Bearer " + tokenFor(t, h, 2, parentEmail), wantStatus: http.StatusForbidden},
		{name: "admin", authorization: "Bearer " + tokenFor(t, h, 1, adminEmail), wantStatus: http.StatusNoContent, wantReached: true},
		{name: "admin with different case", authorization: "Bearer " + tokenFor(t, h, 1, "Coach@Example.com"), wantStatus: http.StatusNoContent, wantReached: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reached = false
			req := httptest.NewRequest(http.MethodGet, "/placements", nil)
			if tt.authorization != "" {
				req.Header.Set("Authorization", tt.authorization)
			}
			rec := httptest.NewRecorder()

			guarded.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantReached, reached)
			if !tt.wantReached {
				assert.NotEmpty(t, decodeError(t, rec))
			}
		})
	}
}

func TestTokenFromCookie(t *testing.T) {
	h := newTestHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/clinics/aggregate?season=summer-2025", nil)
	req.AddCookie(&http.Cookie{Name: tokenCookieName, Value: tokenFor(t, h, 2, parentEmail)})
	rec := httptest.NewRecorder()

	h.Mux.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestAdminRoutesRejectBeforeStorage(t *testing.T) {
	h := newTestHandler(t)
	admin := "Bearer " + tokenFor(t, h, 1, adminEmail)
	parent := "Bearer " + tokenFor(t, h, 2, parentEmail)

	tests := []struct {
		name          string
		method        string
		target        string
		body          string
		authorization string
		wantStatus    int
		wantError     string
	}{
		{name: "placements without token", method: http.MethodGet, target: "/placements?season=s", wantStatus: http.StatusUnauthorized},
		{name: "placements as parent", method: http.MethodGet, target: "/placements?season=s", authorization: parent, wantStatus: http.StatusForbidden},
		{name: "recommendations as parent", method: http.MethodGet, target: "/recommendations?season=s&activityId=1", authorization: parent, wantStatus: http.StatusForbidden},
		{name: "delete placement as parent", method: http.MethodDelete, target: "/placements/4", authorization: parent, wantStatus: http.StatusForbidden},
		{name: "aggregate with bad activity", method: http.MethodGet, target: "/clinics/aggregate?activityId=-2", authorization: admin, wantStatus: http.StatusBadRequest, wantError: "activityId"},
		{name: "recommendations without activity", method: http.MethodGet, target: "/recommendations?season=s", authorization: admin, wantStatus: http.StatusBadRequest, wantError: "activityId"},
		{name: "recommendations with bad activity", method: http.MethodGet, target: "/recommendations?season=s&activityId=x", authorization: admin, wantStatus: http.StatusBadRequest, wantError: "activityId"},
		{name: "placement with bad id", method: http.MethodDelete, target: "/placements/abc", authorization: admin, wantStatus: http.StatusBadRequest, wantError: "id"},
		{name: "malformed placement body", method: http.MethodPost, target: "/placements", body: `{"lanes":`, authorization: admin, wantStatus: http.StatusBadRequest, wantError: "malformed JSON"},
		{name: "placement without season", method: http.MethodPost, target: "/placements", body: `{"activityID":1,"location":"Main","slotLabel":"Jun 14 9AM"}`, authorization: admin, wantStatus: http.StatusBadRequest, wantError: "Season"},
		{name: "placement with negative version", method: http.MethodPost, target: "/placements", body: `{"activityID":1,"season":"s","location":"Main","slotLabel":"Jun 14 9AM","version":-1}`, authorization: admin, wantStatus: http.StatusBadRequest, wantError: "Version"},
		{name: "activity without kind", method: http.MethodPost, target: "/activities", body: `{"season":"s","name":"June clinic"}`, authorization: admin, wantStatus: http.StatusBadRequest, wantError: "Kind"},
		{name: "submission without swimmer", method: http.MethodPost, target: "/submissions", body: `{"season":"s"}`, authorization: parent, wantStatus: http.StatusBadRequest, wantError: "SwimmerName"},
		{name: "submission for another parent", method: http.MethodPost, target: "/submissions", body: `{"season":"s","swimmerName":"Ada","parentEmail":"other@example.com"}`, authorization: parent, wantStatus: http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var req *http.Request
			if tt.body != "" {
				req = httptest.NewRequest(tt.method, tt.target, strings.NewReader(tt.body))
				req.Header.Set("Content-Type", "application/json")
			} else {
				req = httptest.NewRequest(tt.method, tt.target, nil)
			}
			if tt.authorization != "" {
				req.Header.Set("Authorization", tt.authorization)
			}
			rec := httptest.NewRecorder()

			h.Mux.ServeHTTP(rec, req)

			require.Equal(t, tt.wantStatus, rec.Code)
			msg := decodeError(t, rec)
			assert.Contains(t, msg, tt.wantError)
		})
	}
}

func TestErrorResponse(t *testing.T) {
	h := newTestHandler(t)

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantError  string
	}{
		{name: "validation", err: domain.NewValidationError("lanes", "lane 1 is over capacity"), wantStatus: http.StatusBadRequest, wantError: "lanes: lane 1 is over capacity"},
		{name: "unauthenticated", err: domain.ErrUnauthenticated, wantStatus: http.StatusUnauthorized},
		{name: "forbidden", err: domain.ErrForbidden, wantStatus: http.StatusForbidden},
		{name: "not found", err: fmt.Errorf("activity 9: %w", domain.ErrNotFound), wantStatus: http.StatusNotFound, wantError: "activity 9"},
		{name: "conflict", err: fmt.Errorf("placement moved on: %w", domain.ErrConflict), wantStatus: http.StatusConflict, wantError: "placement moved on"},
		{name: "unknown", err: errors.New("connection reset by peer"), wantStatus: http.StatusInternalServerError, wantError: "internal server error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/", nil)

			h.errorResponse(rec, req, tt.err)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
			msg := decodeError(t, rec)
			assert.Contains(t, msg, tt.wantError)
			assert.NotContains(t, msg, "connection reset")
		})
	}
}

func TestHealthzAndMetrics(t *testing.T) {
	h := newTestHandler(t)

	rec := httptest.NewRecorder()
	h.Mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	h.Mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `test_http_requests_total{method="GET",route="/healthz",status_code="200"} 1`)
}

func TestLogoutClearsCookie(t *testing.T) {
	h := newTestHandler(t)

	rec := httptest.NewRecorder()
	h.Mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/auth/logout", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, tokenCookieName, cookies[0].Name)
	assert.Empty(t, cookies[0].Value)
}
