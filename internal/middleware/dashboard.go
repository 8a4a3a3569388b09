package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/templui/macrotrack/internal/apperror"
	"github.com/templui/macrotrack/internal/respond"
)

const (
	DashboardHeader = "X-Dashboard-UI"
	IngestKeyHeader = "X-Ingest-Key"
)

// DashboardOnly restricts destructive meal routes to the dashboard client,
// which sends X-Dashboard-UI: 1. Cross-site form posts cannot set custom
// headers.
func DashboardOnly(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get(DashboardHeader) != "1" {
			respond.Error(w, r, apperror.Forbidden("This action is only available from the dashboard"))
			return
		}
		next(w, r)
	}
}

// RequireIngestKey checks X-Ingest-Key against secret in constant time.
// An unset secret disables ingestion.
func RequireIngestKey(secret string) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			if secret == "" {
				respond.Error(w, r, &apperror.Error{
					Kind:    apperror.KindPersistence,
					Message: "Ingestion is not configured",
				})
				return
			}

			key := r.Header.Get(IngestKeyHeader)
			if subtle.ConstantTimeCompare([]byte(key), []byte(secret)) != 1 {
				respond.Error(w, r, apperror.Auth("Invalid ingest key"))
				return
			}
			next(w, r)
		}
	}
}
