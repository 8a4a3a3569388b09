package handler

import (
	"fmt"
	"net/http"

	"github.com/templui/macrotrack/internal/ctxkeys"
	"github.com/templui/macrotrack/internal/respond"
	"github.com/templui/macrotrack/internal/service"
	"github.com/templui/macrotrack/internal/validation"
)

type ExportHandler struct {
	exportService *service.ExportService
}

func NewExportHandler(exportService *service.ExportService) *ExportHandler {
	return &ExportHandler{
		exportService: exportService,
	}
}

// Export returns a download link when export storage is configured and the
// document itself as an attachment otherwise.
func (h *ExportHandler) Export(w http.ResponseWriter, r *http.Request) {
	userID := ctxkeys.UserID(r.Context())
	from := r.URL.Query().Get("from")
	to := r.URL.Query().Get("to")

	err := validation.ValidateRange(from, to)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	export, err := h.exportService.Export(r.Context(), userID, from, to)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	if !h.exportService.HasStorage() {
		w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="macrotrack_%s_%s.json"`, from, to))
		respond.Data(w, http.StatusOK, export)
		return
	}

	published, err := h.exportService.Publish(r.Context(), export)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.Data(w, http.StatusOK, published)
}
