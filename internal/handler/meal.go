package handler

import (
	"net/http"

	"github.com/templui/macrotrack/internal/ctxkeys"
	"github.com/templui/macrotrack/internal/metrics"
	"github.com/templui/macrotrack/internal/model"
	"github.com/templui/macrotrack/internal/respond"
	"github.com/templui/macrotrack/internal/service"
	"github.com/templui/macrotrack/internal/validation"
)

type MealHandler struct {
	mealService *service.MealService
}

func NewMealHandler(mealService *service.MealService) *MealHandler {
	return &MealHandler{
		mealService: mealService,
	}
}

func (h *MealHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID := ctxkeys.UserID(r.Context())

	var input model.MealInput
	err := decodeJSON(w, r, &input, false)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	err = validation.ValidateMealInput(&input)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	meal, err := h.mealService.Create(r.Context(), userID, input)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	metrics.MealWritten("create")
	respond.Data(w, http.StatusCreated, meal)
}

func (h *MealHandler) Ingest(w http.ResponseWriter, r *http.Request) {
	var input model.IngestInput
	err := decodeJSON(w, r, &input, true)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	err = validation.ValidateIngestInput(&input)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	meal, err := h.mealService.Ingest(r.Context(), input)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	metrics.MealWritten("ingest")
	respond.Data(w, http.StatusCreated, meal)
}

func (h *MealHandler) ListForDate(w http.ResponseWriter, r *http.Request) {
	userID := ctxkeys.UserID(r.Context())
	date := r.URL.Query().Get("date")

	err := validation.ValidateDate("date", date)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	meals, err := h.mealService.ListForDate(r.Context(), userID, date)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.Data(w, http.StatusOK, meals)
}

func (h *MealHandler) DeleteForDate(w http.ResponseWriter, r *http.Request) {
	userID := ctxkeys.UserID(r.Context())
	date := r.URL.Query().Get("date")

	err := validation.ValidateDate("date", date)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	deleted, err := h.mealService.DeleteForDate(r.Context(), userID, date)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	metrics.MealWritten("delete_day")
	respond.Data(w, http.StatusOK, map[string]int{"deleted_count": deleted})
}

func (h *MealHandler) Patch(w http.ResponseWriter, r *http.Request) {
	userID := ctxkeys.UserID(r.Context())
	mealID := r.PathValue("id")

	err := validation.ValidateMealID(mealID)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	// Unknown keys are dropped rather than rejected.
	var patch model.MealPatch
	err = decodeJSON(w, r, &patch, false)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	err = validation.ValidateMealPatch(&patch)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	meal, err := h.mealService.Patch(r.Context(), userID, mealID, &patch)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	metrics.MealWritten("patch")
	respond.Data(w, http.StatusOK, meal)
}

func (h *MealHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID := ctxkeys.UserID(r.Context())
	mealID := r.PathValue("id")

	err := validation.ValidateMealID(mealID)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	err = h.mealService.DeleteOne(r.Context(), userID, mealID)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	metrics.MealWritten("delete")
	w.WriteHeader(http.StatusNoContent)
}
