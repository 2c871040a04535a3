package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/ericminessale/ai-call-center-core/internal/auth"
	"github.com/ericminessale/ai-call-center-core/internal/fabric"
	"github.com/ericminessale/ai-call-center-core/internal/transfer"
	"github.com/ericminessale/ai-call-center-core/internal/types"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// ActionsHandler provides REST endpoints for agent call-control actions
type ActionsHandler struct {
	commander   fabric.Commander
	coordinator *transfer.Coordinator
	logger      zerolog.Logger
}

// NewActionsHandler creates a new ActionsHandler
func NewActionsHandler(commander fabric.Commander, coordinator *transfer.Coordinator, logger zerolog.Logger) *ActionsHandler {
	return &ActionsHandler{
		commander:   commander,
		coordinator: coordinator,
		logger:      logger.With().Str("component", "actions_handler").Logger(),
	}
}

// TakeCall handles POST /api/calls/{callId}/take
func (h *ActionsHandler) TakeCall(w http.ResponseWriter, r *http.Request) {
	callID := chi.URLParam(r, "callId")
	claims, ok := auth.GetUserFromContext(r.Context())
	if !ok || claims.AgentID == "" {
		http.Error(w, "no agent identity", http.StatusBadRequest)
		return
	}

	if err := h.commander.TakeCall(r.Context(), claims.AgentID, callID); err != nil {
		h.writeActionError(w, err, "take_call", callID)
		return
	}

	h.logger.Info().
		Str("agent_id", claims.AgentID).
		Str("call_id", callID).
		Msg("take call requested")

	writeOK(w, map[string]string{"message": "take requested", "callId": callID})
}

// Transfer handles POST /api/calls/{callId}/transfer
func (h *ActionsHandler) Transfer(w http.ResponseWriter, r *http.Request) {
	callID := chi.URLParam(r, "callId")
	claims, ok := auth.GetUserFromContext(r.Context())
	if !ok || claims.AgentID == "" {
		http.Error(w, "no agent identity", http.StatusBadRequest)
		return
	}

	var req transfer.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	req.CallID = callID
	req.InitiatedBy = claims.AgentID
	if req.Type == "" {
		req.Type = types.TransferCold
	}

	if err := h.coordinator.Execute(r.Context(), req); err != nil {
		h.writeActionError(w, err, "transfer", callID)
		return
	}

	writeOK(w, map[string]string{
		"message":     "transfer completed",
		"callId":      callID,
		"destination": req.Destination,
	})
}

// Hold handles POST /api/calls/{callId}/hold and /unhold
func (h *ActionsHandler) Hold(hold bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		callID := chi.URLParam(r, "callId")

		if err := h.commander.Hold(r.Context(), callID, hold); err != nil {
			h.writeActionError(w, err, "hold", callID)
			return
		}

		message := "hold requested"
		if !hold {
			message = "unhold requested"
		}
		writeOK(w, map[string]string{"message": message, "callId": callID})
	}
}

// Mute handles POST /api/calls/{callId}/mute and /unmute
func (h *ActionsHandler) Mute(mute bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		callID := chi.URLParam(r, "callId")

		var body struct {
			ParticipantID string `json:"participantId"`
		}
		if r.Body != nil {
			_ = json.NewDecoder(r.Body).Decode(&body)
		}

		if err := h.commander.Mute(r.Context(), callID, body.ParticipantID, mute); err != nil {
			h.writeActionError(w, err, "mute", callID)
			return
		}

		message := "mute requested"
		if !mute {
			message = "unmute requested"
		}
		writeOK(w, map[string]string{"message": message, "callId": callID})
	}
}

// SendDigits handles POST /api/calls/{callId}/digits
func (h *ActionsHandler) SendDigits(w http.ResponseWriter, r *http.Request) {
	callID := chi.URLParam(r, "callId")

	var body struct {
		Digits string `json:"digits"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Digits == "" {
		http.Error(w, "digits are required", http.StatusBadRequest)
		return
	}

	if err := h.commander.SendDigits(r.Context(), callID, body.Digits); err != nil {
		h.writeActionError(w, err, "send_digits", callID)
		return
	}

	writeOK(w, map[string]string{"message": "digits sent", "callId": callID})
}

// SetAgentStatus handles POST /api/agents/status
func (h *ActionsHandler) SetAgentStatus(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.GetUserFromContext(r.Context())
	if !ok || claims.AgentID == "" {
		http.Error(w, "no agent identity", http.StatusBadRequest)
		return
	}

	var body struct {
		Status types.AgentStatus `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Status == "" {
		http.Error(w, "status is required", http.StatusBadRequest)
		return
	}

	if err := h.commander.SetAgentStatus(r.Context(), claims.AgentID, body.Status); err != nil {
		h.writeActionError(w, err, "set_agent_status", claims.AgentID)
		return
	}

	h.logger.Info().
		Str("agent_id", claims.AgentID).
		Str("status", string(body.Status)).
		Msg("agent status change requested")

	writeOK(w, map[string]string{"message": "status updated", "status": string(body.Status)})
}

// writeActionError maps the recoverable error taxonomy onto HTTP statuses
func (h *ActionsHandler) writeActionError(w http.ResponseWriter, err error, action, subject string) {
	h.logger.Warn().Err(err).
		Str("action", action).
		Str("subject", subject).
		Msg("action failed")

	switch {
	case errors.Is(err, types.ErrNoDestination):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, types.ErrInvalidCall):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, types.ErrAlreadyInFlight), errors.Is(err, types.ErrStaleUpdate):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.Is(err, types.ErrFabricTimeout):
		http.Error(w, err.Error(), http.StatusGatewayTimeout)
	default:
		http.Error(w, "action failed", http.StatusInternalServerError)
	}
}

func writeOK(w http.ResponseWriter, payload any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(payload)
}
