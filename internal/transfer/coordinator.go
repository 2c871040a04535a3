// Package transfer coordinates call handoffs: validation, the outbound
// fabric command, and the local state change once the fabric acknowledges.
package transfer

import (
	"context"
	"sync"
	"time"

	"github.com/ericminessale/ai-call-center-core/internal/fabric"
	"github.com/ericminessale/ai-call-center-core/internal/storage"
	"github.com/ericminessale/ai-call-center-core/internal/store"
	"github.com/ericminessale/ai-call-center-core/internal/types"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Mutator serializes store mutations with event ingest. Satisfied by the
// ingest loop.
type Mutator interface {
	Do(ctx context.Context, fn func(*store.Store) error) error
}

// Request is one agent-initiated transfer
type Request struct {
	CallID           string             `json:"callId"`
	Destination      string             `json:"destination"`
	Type             types.TransferType `json:"type"`
	Notes            string             `json:"notes,omitempty"`
	IncludeAIContext bool               `json:"includeAiContext"`
	InitiatedBy      string             `json:"-"` // from auth claims, not the body
}

// pendingTransfer remembers the command ID across retries so the fabric can
// deduplicate. inFlight guards against concurrent duplicates.
type pendingTransfer struct {
	commandID string
	inFlight  bool
}

// Coordinator validates transfer requests, sends them to the fabric, and
// applies the confirmed handoff to local state.
type Coordinator struct {
	store     *store.Store
	mutator   Mutator
	commander fabric.Commander
	archive   storage.Store
	logger    zerolog.Logger

	mu      sync.Mutex
	pending map[string]*pendingTransfer // keyed by call ID
}

// NewCoordinator creates a transfer coordinator. archive may be a NoopStore.
func NewCoordinator(st *store.Store, mutator Mutator, commander fabric.Commander, archive storage.Store, logger zerolog.Logger) *Coordinator {
	return &Coordinator{
		store:     st,
		mutator:   mutator,
		commander: commander,
		archive:   archive,
		logger:    logger.With().Str("component", "transfer").Logger(),
		pending:   make(map[string]*pendingTransfer),
	}
}

// Execute runs one transfer end to end. On fabric timeout no local state
// changes and the same command ID is reused if the agent retries.
func (c *Coordinator) Execute(ctx context.Context, req Request) error {
	if req.Destination == "" {
		return types.ErrNoDestination
	}

	call, ok := c.store.Get(req.CallID)
	if !ok || !call.Status.Transferable() {
		return types.ErrInvalidCall
	}

	commandID, err := c.acquire(req.CallID)
	if err != nil {
		return err
	}

	cmd := types.TransferCommand{
		CommandID:   commandID,
		CallID:      req.CallID,
		From:        req.InitiatedBy,
		Destination: req.Destination,
		Type:        req.Type,
		Notes:       req.Notes,
		Timestamp:   time.Now(),
	}
	if req.IncludeAIContext {
		cmd.AIContext = &types.AIContext{
			Summary:       call.AISummary,
			Confidence:    call.AIConfidence,
			ExtractedInfo: call.ExtractedInfo,
		}
	}

	if err := c.commander.Transfer(ctx, cmd); err != nil {
		// Keep the pending entry so a retry reuses the command ID
		c.release(req.CallID, false)
		c.logger.Warn().Err(err).
			Str("call_id", req.CallID).
			Str("command_id", commandID).
			Str("destination", req.Destination).
			Msg("transfer command failed")
		return err
	}

	record := types.Transfer{
		From:             req.InitiatedBy,
		To:               req.Destination,
		Type:             req.Type,
		Timestamp:        cmd.Timestamp,
		Notes:            req.Notes,
		IncludeAIContext: req.IncludeAIContext,
	}

	err = c.mutator.Do(ctx, func(s *store.Store) error {
		current, ok := s.Get(req.CallID)
		if !ok {
			return types.ErrInvalidCall
		}
		if current.Status.Terminal() {
			return types.ErrStaleUpdate
		}
		current.TransferHistory = append(current.TransferHistory, record)
		current.QueueID = req.Destination
		current.Status = types.CallStatusWaiting
		current.HandlerType = types.HandlerNone
		current.AssignedAgentID = ""
		return s.Upsert(current)
	})
	c.release(req.CallID, err == nil)
	if err != nil {
		return err
	}

	c.archiveTransfer(req.CallID, record)
	c.logger.Info().
		Str("call_id", req.CallID).
		Str("destination", req.Destination).
		Str("type", string(req.Type)).
		Bool("ai_context", req.IncludeAIContext).
		Msg("transfer completed")
	return nil
}

// acquire marks the call's transfer as in flight, minting a command ID on
// first use and reusing it on retries.
func (c *Coordinator) acquire(callID string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	p, ok := c.pending[callID]
	if !ok {
		p = &pendingTransfer{commandID: uuid.New().String()}
		c.pending[callID] = p
	}
	if p.inFlight {
		return "", types.ErrAlreadyInFlight
	}
	p.inFlight = true
	return p.commandID, nil
}

// release clears the in-flight flag; done drops the entry entirely
func (c *Coordinator) release(callID string, done bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if done {
		delete(c.pending, callID)
		return
	}
	if p, ok := c.pending[callID]; ok {
		p.inFlight = false
	}
}

// archiveTransfer writes the audit-log entry asynchronously
func (c *Coordinator) archiveTransfer(callID string, t types.Transfer) {
	record := storage.RecordFromTransfer(callID, t)
	go func() {
		if err := c.archive.SaveTransferRecord(record); err != nil {
			c.logger.Error().Err(err).Str("call_id", callID).Msg("failed to archive transfer record")
		}
	}()
}
