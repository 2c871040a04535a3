package api

import (
	"encoding/json"
	"net/http"

	"github.com/ericminessale/ai-call-center-core/internal/storage"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// HistoryHandler provides REST endpoints for archived call data
type HistoryHandler struct {
	archive storage.Store
	logger  zerolog.Logger
}

// NewHistoryHandler creates a new HistoryHandler
func NewHistoryHandler(archive storage.Store, logger zerolog.Logger) *HistoryHandler {
	return &HistoryHandler{
		archive: archive,
		logger:  logger.With().Str("component", "history_handler").Logger(),
	}
}

// GetCalls returns archived call records for a date
// GET /api/history/calls?date=YYYY-MM-DD
func (h *HistoryHandler) GetCalls(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	if date == "" {
		http.Error(w, "date query parameter is required (YYYY-MM-DD)", http.StatusBadRequest)
		return
	}

	records, err := h.archive.GetCallRecords(date)
	if err != nil {
		h.logger.Error().Err(err).Str("date", date).Msg("failed to get call records")
		http.Error(w, "failed to retrieve history", http.StatusInternalServerError)
		return
	}

	if records == nil {
		records = []storage.CallRecord{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(records)
}

// GetTransfers returns the archived transfer log for a call
// GET /api/history/calls/{callId}/transfers
func (h *HistoryHandler) GetTransfers(w http.ResponseWriter, r *http.Request) {
	callID := chi.URLParam(r, "callId")
	if callID == "" {
		http.Error(w, "callId is required", http.StatusBadRequest)
		return
	}

	records, err := h.archive.GetTransferRecords(callID)
	if err != nil {
		h.logger.Error().Err(err).Str("call_id", callID).Msg("failed to get transfer records")
		http.Error(w, "failed to retrieve transfers", http.StatusInternalServerError)
		return
	}

	if records == nil {
		records = []storage.TransferRecord{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(records)
}

// GetAgentCalls returns archived calls handled by an agent on a date
// GET /api/history/agents/{agentId}/calls?date=YYYY-MM-DD
func (h *HistoryHandler) GetAgentCalls(w http.ResponseWriter, r *http.Request) {
	agentID := chi.URLParam(r, "agentId")
	if agentID == "" {
		http.Error(w, "agentId is required", http.StatusBadRequest)
		return
	}

	date := r.URL.Query().Get("date")
	if date == "" {
		http.Error(w, "date query parameter is required (YYYY-MM-DD)", http.StatusBadRequest)
		return
	}

	records, err := h.archive.GetAgentCallsByDate(agentID, date)
	if err != nil {
		h.logger.Error().Err(err).
			Str("agent_id", agentID).
			Str("date", date).
			Msg("failed to get agent calls")
		http.Error(w, "failed to retrieve calls", http.StatusInternalServerError)
		return
	}

	if records == nil {
		records = []storage.CallRecord{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(records)
}
