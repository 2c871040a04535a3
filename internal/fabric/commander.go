// Package fabric talks to the telephony fabric: outbound call-control
// commands over HTTP and the inbound event stream over WebSocket.
package fabric

import (
	"context"

	"github.com/ericminessale/ai-call-center-core/internal/types"
)

// Commander sends call-control commands to the fabric. Implementations must
// honor the context deadline and map an expired deadline to ErrFabricTimeout.
type Commander interface {
	TakeCall(ctx context.Context, agentID, callID string) error
	Transfer(ctx context.Context, cmd types.TransferCommand) error
	Hold(ctx context.Context, callID string, hold bool) error
	Mute(ctx context.Context, callID, participantID string, mute bool) error
	SendDigits(ctx context.Context, callID, digits string) error
	SetAgentStatus(ctx context.Context, agentID string, status types.AgentStatus) error
}
