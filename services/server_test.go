package services

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/johnnycuong/mps-recruitment/errs"
	"github.com/johnnycuong/mps-recruitment/models"
)

type testAPI struct {
	t       *testing.T
	handler http.Handler
	store   *fakeStore
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	store := newFakeStore()
	server := NewServer(&Config{
		JWT:       JWTConfig{Secret: "test-secret", Expiry: time.Hour},
		CORS:      CORSConfig{AllowedOrigins: "http://localhost:5173"},
		RateLimit: RateLimitConfig{RPS: 1000, Burst: 1000},
		Activity:  ActivityConfig{RecentLimit: 100},
	})
	server.SetDatabase(store, nil)
	require.NoError(t, server.InitializeServices())
	return &testAPI{t: t, handler: server.SetupRoutes(), store: store}
}

func (a *testAPI) do(method, path, token string, body interface{}) *httptest.ResponseRecorder {
	a.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(a.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	a.handler.ServeHTTP(rec, req)
	return rec
}

// register creates a user with the given role and returns its access token.
func (a *testAPI) register(username, role string) string {
	a.t.Helper()
	rec := a.do(http.MethodPost, "/api/v1/auth/register", "", map[string]string{
		"username":  username,
		"email":     username + "@example.com",
		"password":  "s3cret-pass",
		"full_name": "Test " + username,
		"role":      role,
	})
	require.Equal(a.t, http.StatusCreated, rec.Code, rec.Body.String())
	var resp struct {
		AccessToken string `json:"access_token"`
		TokenType   string `json:"token_type"`
	}
	require.NoError(a.t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(a.t, "Bearer", resp.TokenType)
	return resp.AccessToken
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func TestHealth(t *testing.T) {
	api := newTestAPI(t)
	rec := api.do(http.MethodGet, "/health", "", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody[map[string]string](t, rec)
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, "not configured", body["database"])
}

func TestRegisterLoginAndMe(t *testing.T) {
	api := newTestAPI(t)
	api.register("linh", "")

	rec := api.do(http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"email":    "LINH@example.com",
		"password": "s3cret-pass",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	login := decodeBody[struct {
		AccessToken string      `json:"access_token"`
		ExpiresIn   int         `json:"expires_in"`
		User        models.User `json:"user"`
	}](t, rec)
	assert.Equal(t, 3600, login.ExpiresIn)
	assert.Equal(t, models.RoleRecruiter, login.User.Role)

	rec = api.do(http.MethodGet, "/api/v1/auth/me", login.AccessToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	me := decodeBody[struct {
		User models.User `json:"user"`
	}](t, rec)
	assert.Equal(t, "linh@example.com", me.User.Email)
	assert.NotContains(t, rec.Body.String(), "password")
}

func TestRegisterErrors(t *testing.T) {
	api := newTestAPI(t)
	api.register("linh", "")

	rec := api.do(http.MethodPost, "/api/v1/auth/register", "", map[string]string{
		"username":  "linh2",
		"email":     "linh@example.com",
		"password":  "s3cret-pass",
		"full_name": "Linh Again",
	})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = api.do(http.MethodPost, "/api/v1/auth/register", "", map[string]string{
		"username":  "minh",
		"email":     "not-an-email",
		"password":  "short",
		"full_name": "Minh",
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	body := decodeBody[errorResponse](t, rec)
	assert.Equal(t, errs.CodeValidation, body.Error)
	assert.Equal(t, "must be a valid email", body.Fields["email"])
	assert.Equal(t, "must be at least 8", body.Fields["password"])

	rec = api.do(http.MethodPost, "/api/v1/auth/register", "", map[string]string{
		"username":  "minh",
		"email":     "minh@example.com",
		"password":  "s3cret-pass",
		"full_name": "Minh",
		"role":      "overlord",
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, errs.CodeInvalidEnumValue, decodeBody[errorResponse](t, rec).Error)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	api := newTestAPI(t)
	api.register("linh", "")

	rec := api.do(http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"email":    "linh@example.com",
		"password": "wrong-password",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = api.do(http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"email":    "nobody@example.com",
		"password": "wrong-password",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestProtectedRoutes(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do(http.MethodGet, "/api/v1/candidates", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = api.do(http.MethodGet, "/api/v1/candidates", "not-a-jwt", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	clientToken := api.register("acme", "client")
	rec = api.do(http.MethodGet, "/api/v1/candidates", clientToken, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, errs.CodePermissionDenied, decodeBody[errorResponse](t, rec).Error)
}

func TestRecruitmentFlowOverHTTP(t *testing.T) {
	api := newTestAPI(t)
	token := api.register("linh", "recruiter")

	rec := api.do(http.MethodPost, "/api/v1/candidates", token, map[string]interface{}{
		"full_name": "Pham Minh Chau",
		"email":     "Chau@Example.com",
		"source":    "referral",
		"gender":    "female",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	candidate := decodeBody[models.Candidate](t, rec)
	assert.Equal(t, "chau@example.com", candidate.Email)
	assert.Equal(t, models.CandidateStatusNew, candidate.Status)

	rec = api.do(http.MethodPost, "/api/v1/clients", token, map[string]interface{}{"company_name": "Mekong Logistics"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	client := decodeBody[models.Client](t, rec)

	rec = api.do(http.MethodPost, "/api/v1/jobs", token, map[string]interface{}{
		"client_id": client.ID,
		"title":     "Warehouse Lead",
		"status":    "open",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	job := decodeBody[models.JobPosition](t, rec)
	assert.Equal(t, models.JobStatusOpen, job.Status)

	rec = api.do(http.MethodPost, "/api/v1/applications", token, map[string]interface{}{
		"candidate_id":    candidate.ID,
		"job_position_id": job.ID,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	app := decodeBody[models.Application](t, rec)

	rec = api.do(http.MethodPost, "/api/v1/applications", token, map[string]interface{}{
		"candidate_id":    candidate.ID,
		"job_position_id": job.ID,
	})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = api.do(http.MethodPut, "/api/v1/applications/"+app.ID+"/status", token, map[string]string{"status": "shortlisted"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, models.ApplicationStatusShortlisted, decodeBody[models.Application](t, rec).Status)

	rec = api.do(http.MethodPut, "/api/v1/applications/"+app.ID+"/status", token, map[string]string{"status": "promoted"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = api.do(http.MethodGet, "/api/v1/candidates/"+candidate.ID, token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, models.CandidateStatusShortlisted, decodeBody[models.Candidate](t, rec).Status)

	rec = api.do(http.MethodGet, "/api/v1/candidates?status=shortlisted", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	list := decodeBody[struct {
		Items   []models.Candidate `json:"items"`
		Total   int64              `json:"total"`
		PerPage int                `json:"per_page"`
		Pages   int                `json:"pages"`
	}](t, rec)
	assert.Equal(t, int64(1), list.Total)
	assert.Equal(t, 20, list.PerPage)
	assert.Equal(t, 1, list.Pages)

	rec = api.do(http.MethodGet, "/api/v1/activities?activity_type=status_change", token, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	activities := decodeBody[ActivityPage](t, rec)
	require.Len(t, activities.Activities, 1)
	assert.Equal(t, "Application status changed from new to shortlisted", activities.Activities[0].Description)
	assert.Equal(t, 50, activities.PerPage)

	rec = api.do(http.MethodGet, "/api/v1/candidates/missing", token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAnalyticsExportRequiresManager(t *testing.T) {
	api := newTestAPI(t)
	recruiter := api.register("linh", "recruiter")
	manager := api.register("hoa", "manager")

	rec := api.do(http.MethodGet, "/api/v1/analytics/export", recruiter, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = api.do(http.MethodGet, "/api/v1/analytics/export", manager, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	export := decodeBody[map[string]json.RawMessage](t, rec)
	for _, key := range []string{"report_date", "date_range", "summary", "recruitment_funnel", "time_to_hire", "source_effectiveness"} {
		assert.Contains(t, export, key)
	}

	rec = api.do(http.MethodGet, "/api/v1/analytics/recruitment-funnel?date_from=2026-02-01&date_to=2026-01-01", recruiter, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = api.do(http.MethodGet, "/api/v1/analytics/dashboard", recruiter, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestCORSPreflight(t *testing.T) {
	api := newTestAPI(t)

	preflight := func(origin string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodOptions, "/api/v1/candidates", nil)
		req.Header.Set("Origin", origin)
		req.Header.Set("Access-Control-Request-Method", http.MethodPost)
		rec := httptest.NewRecorder()
		api.handler.ServeHTTP(rec, req)
		return rec
	}

	rec := preflight("http://localhost:5173")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "http://localhost:5173", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, rec.Header().Get("Access-Control-Allow-Headers"), "Authorization")

	rec = preflight("http://evil.example")
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestRoutesDisabledWithoutJWTSecret(t *testing.T) {
	server := NewServer(&Config{RateLimit: RateLimitConfig{RPS: 10, Burst: 10}})
	server.SetDatabase(newFakeStore(), nil)
	require.NoError(t, server.InitializeServices())

	rec := httptest.NewRecorder()
	server.SetupRoutes().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/candidates", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestIPRateLimiter(t *testing.T) {
	limiter := NewIPRateLimiter(1, 2)
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	limiter.now = func() time.Time { return now }

	assert.True(t, limiter.Allow("10.0.0.1"))
	assert.True(t, limiter.Allow("10.0.0.1"))
	assert.False(t, limiter.Allow("10.0.0.1"))
	assert.True(t, limiter.Allow("10.0.0.2"))

	now = now.Add(time.Second)
	assert.True(t, limiter.Allow("10.0.0.1"))

	// Idle buckets are dropped.
	now = now.Add(time.Hour)
	limiter.Allow("10.0.0.3")
	limiter.mu.Lock()
	assert.Len(t, limiter.clients, 1)
	limiter.mu.Unlock()
}

func TestIPRateLimiterSweepsOncePerWindow(t *testing.T) {
	limiter := NewIPRateLimiter(1, 1)
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	now := start
	limiter.now = func() time.Time { return now }
	clients := func() int {
		limiter.mu.Lock()
		defer limiter.mu.Unlock()
		return len(limiter.clients)
	}

	limiter.Allow("10.0.0.1")
	now = start.Add(10 * time.Minute)
	limiter.Allow("10.0.0.2")
	assert.Equal(t, 2, clients())

	// 10.0.0.1 is stale but the last sweep was only five minutes ago.
	now = start.Add(15 * time.Minute)
	limiter.Allow("10.0.0.3")
	assert.Equal(t, 3, clients())

	now = start.Add(20 * time.Minute)
	limiter.Allow("10.0.0.3")
	assert.Equal(t, 2, clients())
}

func TestRateLimitMiddleware(t *testing.T) {
	limiter := NewIPRateLimiter(1, 1)
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	limiter.now = func() time.Time { return now }
	handler := limiter.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	serve := func() *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		return rec
	}

	assert.Equal(t, http.StatusOK, serve().Code)
	rec := serve()
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "1", rec.Header().Get("Retry-After"))
}

func TestWriteError(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		status  int
		message string
	}{
		{"not found", errs.NotFound("candidate", "42"), http.StatusNotFound, "candidate not found: 42"},
		{"duplicate", errs.Duplicate("already applied"), http.StatusConflict, "already applied"},
		{"unauthorized", errs.New(errs.CodeUnauthorized, "invalid credentials"), http.StatusUnauthorized, "invalid credentials"},
		{"internal detail hidden", errors.New("pq: relation does not exist"), http.StatusInternalServerError, "internal server error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			writeError(rec, tt.err)

			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
			assert.Equal(t, tt.message, decodeBody[errorResponse](t, rec).Message)
		})
	}
}

func TestJSONFieldName(t *testing.T) {
	assert.Equal(t, "candidate_id", jsonFieldName("CandidateID"))
	assert.Equal(t, "full_name", jsonFieldName("FullName"))
	assert.Equal(t, "job_position_id", jsonFieldName("JobPositionID"))
	assert.Equal(t, "email", jsonFieldName("Email"))
}

func TestQueryTime(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/?date_from=2026-03-01&date_to=2026-03-01&at=2026-03-01T08:00:00Z&bad=yesterday", nil)

	from, err := queryTime(req, "date_from")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), *from)

	to, err := queryTime(req, "date_to")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 3, 1, 23, 59, 59, 999999999, time.UTC), *to)

	at, err := queryTime(req, "at")
	require.NoError(t, err)
	assert.Equal(t, 8, at.Hour())

	missing, err := queryTime(req, "missing")
	require.NoError(t, err)
	assert.Nil(t, missing)

	_, err = queryTime(req, "bad")
	assert.True(t, errs.Is(err, errs.CodeValidation))
}
