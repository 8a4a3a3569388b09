package handler

import (
	"net/http"

	"github.com/templui/macrotrack/internal/ctxkeys"
	"github.com/templui/macrotrack/internal/respond"
	"github.com/templui/macrotrack/internal/service"
	"github.com/templui/macrotrack/internal/validation"
)

type DashboardHandler struct {
	dashboardService *service.DashboardService
}

func NewDashboardHandler(dashboardService *service.DashboardService) *DashboardHandler {
	return &DashboardHandler{
		dashboardService: dashboardService,
	}
}

func (h *DashboardHandler) Day(w http.ResponseWriter, r *http.Request) {
	userID := ctxkeys.UserID(r.Context())
	date := r.URL.Query().Get("date")

	err := validation.ValidateDate("date", date)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	view, err := h.dashboardService.Day(r.Context(), userID, date)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.Data(w, http.StatusOK, view)
}

func (h *DashboardHandler) Range(w http.ResponseWriter, r *http.Request) {
	userID := ctxkeys.UserID(r.Context())
	from := r.URL.Query().Get("from")
	to := r.URL.Query().Get("to")

	err := validation.ValidateRange(from, to)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	view, err := h.dashboardService.Range(r.Context(), userID, from, to)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.Data(w, http.StatusOK, view)
}
