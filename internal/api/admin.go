package api

import (
	"net/http"

	"github.com/ericminessale/ai-call-center-core/internal/auth"
	"github.com/ericminessale/ai-call-center-core/internal/storage"
	"github.com/rs/zerolog"
)

// AdminHandler handles administrative resets
type AdminHandler struct {
	archive storage.Store
	logger  zerolog.Logger
}

// NewAdminHandler creates a new AdminHandler
func NewAdminHandler(archive storage.Store, logger zerolog.Logger) *AdminHandler {
	return &AdminHandler{
		archive: archive,
		logger:  logger.With().Str("component", "admin_handler").Logger(),
	}
}

// RequireAdmin middleware — only admin role allowed
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := auth.GetUserFromContext(r.Context())
		if !ok || !auth.HasRole(claims, "admin") {
			w.Header().Set("Content-Type", "application/json")
			http.Error(w, `{"error":"admin role required"}`, http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireSupervisorOrAdmin middleware — supervisor or admin role allowed
func RequireSupervisorOrAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := auth.GetUserFromContext(r.Context())
		if !ok || (claims.Role != "admin" && claims.Role != "supervisor") {
			w.Header().Set("Content-Type", "application/json")
			http.Error(w, `{"error":"supervisor or admin role required"}`, http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// TruncateArchive handles POST /api/admin/archive/truncate
func (h *AdminHandler) TruncateArchive(w http.ResponseWriter, r *http.Request) {
	if err := h.archive.TruncateAll(); err != nil {
		h.logger.Error().Err(err).Msg("failed to truncate archive")
		http.Error(w, `{"error":"truncate failed"}`, http.StatusInternalServerError)
		return
	}

	h.logger.Warn().Msg("archive truncated via admin API")
	writeOK(w, map[string]string{"message": "archive truncated"})
}
