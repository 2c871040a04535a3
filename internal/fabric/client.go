package fabric

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/ericminessale/ai-call-center-core/internal/metrics"
	"github.com/ericminessale/ai-call-center-core/internal/types"
	"github.com/rs/zerolog"
)

// Client sends commands to the fabric's control API
type Client struct {
	baseURL    string
	timeout    time.Duration
	httpClient *http.Client
	logger     zerolog.Logger
}

// NewClient creates a fabric command client. timeout is the per-command
// acknowledgment deadline.
func NewClient(baseURL string, timeout time.Duration, logger zerolog.Logger) *Client {
	return &Client{
		baseURL:    baseURL,
		timeout:    timeout,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger.With().Str("component", "fabric_client").Logger(),
	}
}

func (c *Client) TakeCall(ctx context.Context, agentID, callID string) error {
	return c.post(ctx, types.CommandTakeCall, map[string]string{
		"agentId": agentID,
		"callId":  callID,
	})
}

func (c *Client) Transfer(ctx context.Context, cmd types.TransferCommand) error {
	return c.post(ctx, types.CommandTransfer, cmd)
}

func (c *Client) Hold(ctx context.Context, callID string, hold bool) error {
	command := types.CommandHold
	if !hold {
		command = types.CommandUnhold
	}
	return c.post(ctx, command, map[string]string{"callId": callID})
}

func (c *Client) Mute(ctx context.Context, callID, participantID string, mute bool) error {
	command := types.CommandMute
	if !mute {
		command = types.CommandUnmute
	}
	return c.post(ctx, command, map[string]string{
		"callId":        callID,
		"participantId": participantID,
	})
}

func (c *Client) SendDigits(ctx context.Context, callID, digits string) error {
	return c.post(ctx, types.CommandSendDigits, map[string]string{
		"callId": callID,
		"digits": digits,
	})
}

func (c *Client) SetAgentStatus(ctx context.Context, agentID string, status types.AgentStatus) error {
	return c.post(ctx, types.CommandSetAgentStatus, map[string]string{
		"agentId": agentID,
		"status":  string(status),
	})
}

// post sends one command and waits for the fabric's acknowledgment. A missed
// deadline maps to ErrFabricTimeout so callers can treat it uniformly.
func (c *Client) post(ctx context.Context, command types.CommandType, payload any) error {
	m := metrics.Get()

	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal %s command: %w", command, err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	url := fmt.Sprintf("%s/commands/%s", c.baseURL, command)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	m.RecordCommandSent()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		if isTimeout(err) {
			m.RecordCommandTimeout()
			c.logger.Warn().Str("command", string(command)).Msg("command timed out")
			return types.ErrFabricTimeout
		}
		m.RecordCommandFailed()
		return fmt.Errorf("failed to send %s command: %w", command, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusAccepted {
		m.RecordCommandRejected()
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("%s command rejected: status %d, body: %s", command, resp.StatusCode, string(body))
	}

	return nil
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr interface{ Timeout() bool }
	return errors.As(err, &netErr) && netErr.Timeout()
}
