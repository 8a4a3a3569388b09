package routes

import (
	"net/http"

	"github.com/go-chi/cors"
	"github.com/templui/macrotrack/internal/app"
	"github.com/templui/macrotrack/internal/handler"
	"github.com/templui/macrotrack/internal/metrics"
	"github.com/templui/macrotrack/internal/middleware"
)

func SetupRoutes(app *app.App) http.Handler {
	// Handlers
	meals := handler.NewMealHandler(app.MealService)
	dashboard := handler.NewDashboardHandler(app.DashboardService)
	goals := handler.NewGoalsHandler(app.GoalsService)
	export := handler.NewExportHandler(app.ExportService)
	health := handler.NewHealthHandler(app.DB)

	// Every API route is rate limited per operation before auth runs.
	// Guards sit between the two, so a rejected origin never reaches auth.
	authed := func(operation string, h http.HandlerFunc, guards ...func(http.HandlerFunc) http.HandlerFunc) http.HandlerFunc {
		mws := []func(http.HandlerFunc) http.HandlerFunc{
			middleware.RateLimit(app.Limiter, operation),
		}
		mws = append(mws, guards...)
		mws = append(mws, middleware.RequireAuth(app.AuthService))
		return middleware.ChainFunc(h, mws...)
	}

	mux := http.NewServeMux()

	// ============================================================================
	// OPERATIONAL
	// ============================================================================

	mux.HandleFunc("GET /healthz", health.Healthz)
	mux.Handle("GET /metrics", metrics.Handler())

	// ============================================================================
	// MEALS
	// ============================================================================

	mux.HandleFunc("POST /api/meals", authed("meals_create", meals.Create))
	mux.HandleFunc("GET /api/meals/day", authed("meals_list", meals.ListForDate))
	mux.HandleFunc("DELETE /api/meals/day", authed("meals_delete_day", meals.DeleteForDate, middleware.DashboardOnly))
	mux.HandleFunc("PATCH /api/meals/{id}", authed("meals_patch", meals.Patch, middleware.DashboardOnly))
	mux.HandleFunc("DELETE /api/meals/{id}", authed("meals_delete", meals.Delete, middleware.DashboardOnly))

	// Ingestion uses a shared key instead of a user token
	mux.HandleFunc("POST /api/meals/ingest", middleware.ChainFunc(
		meals.Ingest,
		middleware.RateLimit(app.Limiter, "meals_ingest"),
		middleware.RequireIngestKey(app.Cfg.IngestSecret),
	))

	// ============================================================================
	// DASHBOARD & PROFILE
	// ============================================================================

	mux.HandleFunc("GET /api/dashboard/day", authed("dashboard_day", dashboard.Day))
	mux.HandleFunc("GET /api/dashboard/range", authed("dashboard_range", dashboard.Range))
	mux.HandleFunc("GET /api/profile/goals", authed("goals_get", goals.Get))
	mux.HandleFunc("PUT /api/profile/goals", authed("goals_put", goals.Put))
	mux.HandleFunc("GET /api/export", authed("export", export.Export))

	// Global middleware - executed in order (top to bottom)
	mws := []func(http.Handler) http.Handler{
		middleware.SecurityHeaders,
		middleware.RequestLogging,
	}
	if app.Cfg.CORSEnabled() {
		mws = append(mws, cors.Handler(cors.Options{
			AllowedOrigins:   app.Cfg.CORSAllowedOrigins,
			AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Authorization", "Content-Type", middleware.DashboardHeader, middleware.IngestKeyHeader},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}
	// Metrics reads the matched pattern, so it must sit directly on the mux
	mws = append(mws, middleware.Metrics)

	return middleware.Chain(mux, mws...)
}
