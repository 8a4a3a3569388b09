package routes

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/templui/macrotrack/internal/app"
	"github.com/templui/macrotrack/internal/config"
	"github.com/templui/macrotrack/internal/ratelimit"
	"github.com/templui/macrotrack/internal/repository/repotest"
	"github.com/templui/macrotrack/internal/service"
)

const (
	testUser   = "7b1f0c2e-3d4a-4c5b-8e6f-0a1b2c3d4e5f"
	testIngest = "ingest-secret"
)

func newTestApp(t *testing.T, rateLimitMax int) (*app.App, string) {
	t.Helper()

	loc, err := time.LoadLocation("Europe/Paris")
	require.NoError(t, err)

	mockDB, _, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { mockDB.Close() })

	limiter := ratelimit.NewMemoryLimiter(rateLimitMax, time.Minute)
	t.Cleanup(limiter.Close)

	cfg := &config.Config{
		AppEnv:       "development",
		Location:     loc,
		IngestSecret: testIngest,
	}

	store := repotest.NewStore()
	authService := service.NewAuthService("test-secret", time.Hour)
	summaryService := service.NewSummaryService(store.Meals(), store.Summaries(), loc)
	mealService := service.NewMealService(store.Meals(), summaryService, loc, 0.7)
	goalsService := service.NewGoalsService(store.Goals())
	dashboardService := service.NewDashboardService(mealService, goalsService, store.Summaries())

	a := &app.App{
		Cfg:              cfg,
		DB:               sqlx.NewDb(mockDB, "sqlmock"),
		Limiter:          limiter,
		AuthService:      authService,
		MealService:      mealService,
		SummaryService:   summaryService,
		DashboardService: dashboardService,
		GoalsService:     goalsService,
		ExportService:    service.NewExportService(dashboardService, nil, time.Hour),
	}

	token, err := authService.GenerateJWT(testUser)
	require.NoError(t, err)
	return a, token
}

func serve(h http.Handler, method, target, body string, headers map[string]string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestRoutes(t *testing.T) {
	a, token := newTestApp(t, 100)
	h := SetupRoutes(a)
	bearer := map[string]string{"Authorization": "Bearer " + token}
	dashboard := map[string]string{"Authorization": "Bearer " + token, "X-Dashboard-UI": "1"}

	tests := []struct {
		name    string
		method  string
		target  string
		body    string
		headers map[string]string
		want    int
	}{
		{"healthz", http.MethodGet, "/healthz", "", nil, http.StatusOK},
		{"metrics", http.MethodGet, "/metrics", "", nil, http.StatusOK},
		{"create without token", http.MethodPost, "/api/meals", `{}`, nil, http.StatusUnauthorized},
		{"list meals", http.MethodGet, "/api/meals/day?date=2025-03-10", "", bearer, http.StatusOK},
		{"delete day without dashboard header", http.MethodDelete, "/api/meals/day?date=2025-03-10", "", bearer, http.StatusForbidden},
		{"delete day", http.MethodDelete, "/api/meals/day?date=2025-03-10", "", dashboard, http.StatusOK},
		{"patch without dashboard header", http.MethodPatch, "/api/meals/" + testUser, `{"kcal":1}`, bearer, http.StatusForbidden},
		{"patch without header or token", http.MethodPatch, "/api/meals/" + testUser, `{"kcal":1}`, nil, http.StatusForbidden},
		{"delete without header or token", http.MethodDelete, "/api/meals/" + testUser, "", nil, http.StatusForbidden},
		{"delete day without header or token", http.MethodDelete, "/api/meals/day?date=2025-03-10", "", nil, http.StatusForbidden},
		{"dashboard header without token", http.MethodDelete, "/api/meals/" + testUser, "", map[string]string{"X-Dashboard-UI": "1"}, http.StatusUnauthorized},
		{"patch missing meal", http.MethodPatch, "/api/meals/" + testUser, `{"kcal":1}`, dashboard, http.StatusNotFound},
		{"delete missing meal", http.MethodDelete, "/api/meals/" + testUser, "", dashboard, http.StatusNotFound},
		{"ingest without key", http.MethodPost, "/api/meals/ingest", `{}`, nil, http.StatusUnauthorized},
		{"dashboard day", http.MethodGet, "/api/dashboard/day?date=2025-03-10", "", bearer, http.StatusOK},
		{"dashboard range", http.MethodGet, "/api/dashboard/range?from=2025-03-01&to=2025-03-10", "", bearer, http.StatusOK},
		{"goals", http.MethodGet, "/api/profile/goals", "", bearer, http.StatusOK},
		{"export", http.MethodGet, "/api/export?from=2025-03-01&to=2025-03-10", "", bearer, http.StatusOK},
		{"unknown route", http.MethodGet, "/api/unknown", "", bearer, http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(h, tt.method, tt.target, tt.body, tt.headers)
			assert.Equal(t, tt.want, rec.Code, rec.Body.String())
		})
	}
}

func TestRoutesIngestAndCreate(t *testing.T) {
	a, token := newTestApp(t, 100)
	h := SetupRoutes(a)

	body := `{"user_id":"` + testUser + `","title":"Shake","kcal":250,"protein_g":30,"carbs_g":10,"fat_g":5}`
	rec := serve(h, http.MethodPost, "/api/meals/ingest", body, map[string]string{"X-Ingest-Key": testIngest})
	assert.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	body = `{"author":"manual","source_detail":"app","eaten_at":"2025-03-10T12:00:00+01:00","meal_type":"lunch","title":"Soup","kcal":300,"protein_g":10,"carbs_g":40,"fat_g":8,"confidence":null}`
	rec = serve(h, http.MethodPost, "/api/meals", body, map[string]string{"Authorization": "Bearer " + token})
	assert.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
}

func TestRoutesRateLimitBeforeAuth(t *testing.T) {
	a, _ := newTestApp(t, 2)
	h := SetupRoutes(a)

	for i := 0; i < 2; i++ {
		rec := serve(h, http.MethodGet, "/api/profile/goals", "", nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	}
	rec := serve(h, http.MethodGet, "/api/profile/goals", "", nil)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)

	// Buckets are per operation
	rec = serve(h, http.MethodGet, "/api/dashboard/day?date=2025-03-10", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
