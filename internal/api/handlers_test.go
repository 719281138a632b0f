package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/insulindose/interest-api/internal/config"
	"github.com/insulindose/interest-api/internal/domain"
	"github.com/insulindose/interest-api/internal/service/interest"
)

const testAPIKey = "test-admin-key"

// stubRepo is a canned-response repository for handler tests.
type stubRepo struct {
	insertID  int64
	insertErr error
	inserts   int

	rows       []domain.Submission
	total      int
	listErr    error
	listCalls  int
	lastFilter interest.Filter

	countries []string
}

func (s *stubRepo) Insert(_ context.Context, title *string, name, email, country string) (int64, error) {
	s.inserts++
	if s.insertErr != nil {
		return 0, s.insertErr
	}
	return s.insertID, nil
}

func (s *stubRepo) List(_ context.Context, f interest.Filter) ([]domain.Submission, int, error) {
	s.listCalls++
	s.lastFilter = f
	if s.listErr != nil {
		return nil, 0, s.listErr
	}
	return s.rows, s.total, nil
}

func (s *stubRepo) DistinctCountries(_ context.Context) ([]string, error) {
	return s.countries, nil
}

func newTestRouter(repo *stubRepo, verifier interest.Verifier, includeDetails bool) http.Handler {
	svc := interest.NewService(repo, verifier, nil, nil)
	h := NewHandlers(svc, nil, includeDetails)
	cfg := &config.Config{}
	cfg.Admin.APIKey = testAPIKey
	return SetupRoutes(h, NewHealthChecker(nil), cfg)
}

func postJSON(t *testing.T, router http.Handler, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var m map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &m))
	return m
}

func validPayload() map[string]string {
	return map[string]string{
		"name":    "Ada Lovelace",
		"email":   "ada@example.com",
		"country": "United Kingdom",
	}
}

func TestSubmitSuccess(t *testing.T) {
	repo := &stubRepo{insertID: 42}
	router := newTestRouter(repo, nil, false)

	rec := postJSON(t, router, "/api/interest", validPayload())

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "Thank you for your interest. We'll be in touch.", body["message"])
	assert.Equal(t, float64(42), body["id"])
	assert.Equal(t, 1, repo.inserts)
}

func TestSubmitMissingFields(t *testing.T) {
	repo := &stubRepo{}
	router := newTestRouter(repo, nil, false)

	payload := validPayload()
	delete(payload, "country")
	rec := postJSON(t, router, "/api/interest", payload)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "Missing required fields: name, email, and country are required", body["error"])
	assert.Zero(t, repo.inserts, "no store insert on validation failure")
}

func TestSubmitInvalidEmail(t *testing.T) {
	repo := &stubRepo{}
	router := newTestRouter(repo, nil, false)

	payload := validPayload()
	payload["email"] = "bob@example"
	rec := postJSON(t, router, "/api/interest", payload)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid email format", decodeBody(t, rec)["error"])
	assert.Zero(t, repo.inserts)
}

func TestSubmitMalformedJSON(t *testing.T) {
	router := newTestRouter(&stubRepo{}, nil, false)

	req := httptest.NewRequest(http.MethodPost, "/api/interest", bytes.NewReader([]byte("{nope")))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

type verifierFunc func(ctx context.Context, token, ip string) (interest.VerifyStatus, error)

func (f verifierFunc) Verify(ctx context.Context, token, ip string) (interest.VerifyStatus, error) {
	return f(ctx, token, ip)
}

func TestSubmitVerificationRejected(t *testing.T) {
	repo := &stubRepo{}
	rejectAll := verifierFunc(func(context.Context, string, string) (interest.VerifyStatus, error) {
		return interest.VerifyRejected, nil
	})
	router := newTestRouter(repo, rejectAll, false)

	payload := validPayload()
	payload["cf-turnstile-response"] = "bad-token"
	rec := postJSON(t, router, "/api/interest", payload)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Turnstile verification failed", decodeBody(t, rec)["error"])
	assert.Zero(t, repo.inserts)
}

func TestSubmitVerificationTransportErrorIs500(t *testing.T) {
	broken := verifierFunc(func(context.Context, string, string) (interest.VerifyStatus, error) {
		return interest.VerifySkipped, fmt.Errorf("connection refused")
	})
	router := newTestRouter(&stubRepo{}, broken, false)

	rec := postJSON(t, router, "/api/interest", validPayload())
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestSubmitDuplicate409(t *testing.T) {
	repo := &stubRepo{insertErr: interest.ErrDuplicate}
	router := newTestRouter(repo, nil, false)

	rec := postJSON(t, router, "/api/interest", validPayload())

	require.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, decodeBody(t, rec)["error"], "already been registered")
}

func TestSubmitStoreErrorDetailsGated(t *testing.T) {
	repo := &stubRepo{insertErr: fmt.Errorf("pq: connection reset")}

	// Production: generic message, no details
	rec := postJSON(t, newTestRouter(repo, nil, false), "/api/interest", validPayload())
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	body := decodeBody(t, rec)
	assert.NotContains(t, body, "details")
	assert.NotContains(t, body["error"], "pq:")

	// Development: details echoed
	rec = postJSON(t, newTestRouter(repo, nil, true), "/api/interest", validPayload())
	body = decodeBody(t, rec)
	assert.Contains(t, body["details"], "connection reset")
}

func adminGet(router http.Handler, path, key string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if key != "" {
		req.Header.Set("X-API-Key", key)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestAdminListUnauthorized(t *testing.T) {
	repo := &stubRepo{}
	router := newTestRouter(repo, nil, false)

	rec := adminGet(router, "/api/admin/interest", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = adminGet(router, "/api/admin/interest", "wrong-key")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	assert.Zero(t, repo.listCalls, "no store access without a valid key")
}

func TestAdminListKeyViaQueryParam(t *testing.T) {
	repo := &stubRepo{countries: []string{}}
	router := newTestRouter(repo, nil, false)

	rec := adminGet(router, "/api/admin/interest?api_key="+testAPIKey, "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAdminListPagination(t *testing.T) {
	// 25 matching rows total; page 2 of 10 returns rows 11-20
	var pageRows []domain.Submission
	for i := 11; i <= 20; i++ {
		pageRows = append(pageRows, domain.Submission{
			ID: int64(i), Name: fmt.Sprintf("User %d", i),
			Email: fmt.Sprintf("u%d@example.com", i), Country: "Portugal",
			SubmittedAt: time.Now(),
		})
	}
	repo := &stubRepo{rows: pageRows, total: 25, countries: []string{"Portugal"}}
	router := newTestRouter(repo, nil, false)

	rec := adminGet(router, "/api/admin/interest?page=2&limit=10", testAPIKey)
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Success    bool                `json:"success"`
		Data       []domain.Submission `json:"data"`
		Pagination PaginationMeta      `json:"pagination"`
		Filters    struct {
			Countries []string `json:"countries"`
		} `json:"filters"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))

	assert.True(t, body.Success)
	assert.Len(t, body.Data, 10)
	assert.Equal(t, int64(11), body.Data[0].ID)
	assert.Equal(t, 2, body.Pagination.Page)
	assert.Equal(t, 10, body.Pagination.Limit)
	assert.Equal(t, 25, body.Pagination.Total)
	assert.Equal(t, 3, body.Pagination.TotalPages)
	assert.Equal(t, []string{"Portugal"}, body.Filters.Countries)

	// Repository saw the right offset
	assert.Equal(t, 10, repo.lastFilter.Offset)
	assert.Equal(t, 10, repo.lastFilter.Limit)
}

func TestAdminListFiltersPassedThrough(t *testing.T) {
	repo := &stubRepo{}
	router := newTestRouter(repo, nil, false)

	rec := adminGet(router, "/api/admin/interest?search=ada&country=UK&sortBy=name&sortOrder=ASC", testAPIKey)
	require.Equal(t, http.StatusOK, rec.Code)

	assert.Equal(t, "ada", repo.lastFilter.Search)
	assert.Equal(t, "UK", repo.lastFilter.Country)
	assert.Equal(t, "name", repo.lastFilter.SortBy)
	assert.Equal(t, "ASC", repo.lastFilter.SortOrder)
}

func TestAdminListLimitClamped(t *testing.T) {
	repo := &stubRepo{}
	router := newTestRouter(repo, nil, false)

	rec := adminGet(router, "/api/admin/interest?limit=100000", testAPIKey)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, MaxLimit, repo.lastFilter.Limit)
}

func TestAdminListEmptyStoreShape(t *testing.T) {
	repo := &stubRepo{}
	router := newTestRouter(repo, nil, false)

	rec := adminGet(router, "/api/admin/interest", testAPIKey)
	require.Equal(t, http.StatusOK, rec.Code)

	// data and countries serialize as [], never null
	assert.Contains(t, rec.Body.String(), `"data":[]`)
	assert.Contains(t, rec.Body.String(), `"countries":[]`)
}

func TestAllowOrigin(t *testing.T) {
	cfg := config.CORSConfig{
		Origins:       []string{"https://insulindosescalculator.com"},
		PreviewSuffix: ".pages.dev",
	}
	allow := allowOrigin(cfg)

	assert.True(t, allow(nil, "https://insulindosescalculator.com"))
	assert.True(t, allow(nil, "https://branch-preview.myproject.pages.dev"))
	assert.False(t, allow(nil, "https://evil.example.com"))

	// Unconfigured deployments fall back to allowing everything
	open := allowOrigin(config.CORSConfig{})
	assert.True(t, open(nil, "https://anything.example.com"))
}

func TestHealthEndpoint(t *testing.T) {
	router := newTestRouter(&stubRepo{}, nil, false)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	// No DB wired in this test router
	assert.Equal(t, "unhealthy", body["status"])
}
