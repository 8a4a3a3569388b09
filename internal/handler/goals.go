package handler

import (
	"net/http"

	"github.com/templui/macrotrack/internal/ctxkeys"
	"github.com/templui/macrotrack/internal/model"
	"github.com/templui/macrotrack/internal/respond"
	"github.com/templui/macrotrack/internal/service"
	"github.com/templui/macrotrack/internal/validation"
)

type GoalsHandler struct {
	goalsService *service.GoalsService
}

func NewGoalsHandler(goalsService *service.GoalsService) *GoalsHandler {
	return &GoalsHandler{
		goalsService: goalsService,
	}
}

// Get returns the stored goals, or null when the user relies on defaults.
func (h *GoalsHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID := ctxkeys.UserID(r.Context())

	goals, err := h.goalsService.Get(r.Context(), userID)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.Data(w, http.StatusOK, goals)
}

func (h *GoalsHandler) Put(w http.ResponseWriter, r *http.Request) {
	userID := ctxkeys.UserID(r.Context())

	var input model.GoalsInput
	err := decodeJSON(w, r, &input, true)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	err = validation.ValidateGoals(&input)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	goals, err := h.goalsService.Upsert(r.Context(), userID, input)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.Data(w, http.StatusOK, goals)
}
