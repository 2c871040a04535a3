package metrics

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/ericminessale/ai-call-center-core/internal/types"
)

// Metrics holds all application metrics
type Metrics struct {
	mu sync.RWMutex

	// Ingest metrics
	EventsIngestedTotal   int64
	EventsDuplicateTotal  int64
	EventsOutOfOrderTotal int64
	StaleUpdatesTotal     int64
	IngestErrorsTotal     int64

	// Command metrics
	CommandsSentTotal     int64
	CommandsFailedTotal   int64
	CommandsTimedOutTotal int64
	CommandsRejectedTotal int64 // conflicting in-flight commands

	// WebSocket metrics
	WebSocketConnectionsTotal    int64
	WebSocketDisconnectionsTotal int64
	activeConnections            int64

	// Broadcast metrics
	BroadcastCyclesTotal  int64
	BroadcastErrorsTotal  int64
	lastBroadcastDuration time.Duration

	// Call distribution
	callsByStatus map[types.CallStatus]int
	totalCalls    int

	startTime time.Time
}

var instance *Metrics
var once sync.Once

// Get returns the singleton metrics instance
func Get() *Metrics {
	once.Do(func() {
		instance = &Metrics{
			callsByStatus: make(map[types.CallStatus]int),
			startTime:     time.Now(),
		}
	})
	return instance
}

// RecordEventIngested increments the ingested-event counter
func (m *Metrics) RecordEventIngested() {
	m.mu.Lock()
	m.EventsIngestedTotal++
	m.mu.Unlock()
}

// RecordEventDuplicate counts a suppressed duplicate delivery
func (m *Metrics) RecordEventDuplicate() {
	m.mu.Lock()
	m.EventsDuplicateTotal++
	m.mu.Unlock()
}

// RecordEventOutOfOrder counts an event dropped for arriving late
func (m *Metrics) RecordEventOutOfOrder() {
	m.mu.Lock()
	m.EventsOutOfOrderTotal++
	m.mu.Unlock()
}

// RecordStaleUpdate counts a mutation dropped against a terminal call
func (m *Metrics) RecordStaleUpdate() {
	m.mu.Lock()
	m.StaleUpdatesTotal++
	m.mu.Unlock()
}

// RecordIngestError increments the ingest error counter
func (m *Metrics) RecordIngestError() {
	m.mu.Lock()
	m.IngestErrorsTotal++
	m.mu.Unlock()
}

// RecordCommandSent increments the outbound-command counter
func (m *Metrics) RecordCommandSent() {
	m.mu.Lock()
	m.CommandsSentTotal++
	m.mu.Unlock()
}

// RecordCommandFailed increments the failed-command counter
func (m *Metrics) RecordCommandFailed() {
	m.mu.Lock()
	m.CommandsFailedTotal++
	m.mu.Unlock()
}

// RecordCommandTimeout increments the timed-out-command counter
func (m *Metrics) RecordCommandTimeout() {
	m.mu.Lock()
	m.CommandsTimedOutTotal++
	m.mu.Unlock()
}

// RecordCommandRejected counts a command rejected while another was in flight
func (m *Metrics) RecordCommandRejected() {
	m.mu.Lock()
	m.CommandsRejectedTotal++
	m.mu.Unlock()
}

// RecordWebSocketConnect increments connection counters
func (m *Metrics) RecordWebSocketConnect() {
	m.mu.Lock()
	m.WebSocketConnectionsTotal++
	m.activeConnections++
	m.mu.Unlock()
}

// RecordWebSocketDisconnect increments the disconnection counter
func (m *Metrics) RecordWebSocketDisconnect() {
	m.mu.Lock()
	m.WebSocketDisconnectionsTotal++
	m.activeConnections--
	m.mu.Unlock()
}

// RecordBroadcastCycle records one snapshot broadcast
func (m *Metrics) RecordBroadcastCycle(duration time.Duration) {
	m.mu.Lock()
	m.BroadcastCyclesTotal++
	m.lastBroadcastDuration = duration
	m.mu.Unlock()
}

// RecordBroadcastError increments the broadcast error counter
func (m *Metrics) RecordBroadcastError() {
	m.mu.Lock()
	m.BroadcastErrorsTotal++
	m.mu.Unlock()
}

// UpdateCallStats updates the call distribution gauges
func (m *Metrics) UpdateCallStats(calls []types.Call) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.callsByStatus = make(map[types.CallStatus]int)
	m.totalCalls = len(calls)
	for i := range calls {
		m.callsByStatus[calls[i].Status]++
	}
}

// Handler returns an HTTP handler for the /metrics endpoint
func (m *Metrics) Handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		m.mu.RLock()
		defer m.mu.RUnlock()

		w.Header().Set("Content-Type", "text/plain; charset=utf-8")

		write := func(name string, value interface{}, labels ...string) {
			labelStr := ""
			if len(labels) > 0 {
				labelStr = "{"
				for i := 0; i < len(labels); i += 2 {
					if i > 0 {
						labelStr += ","
					}
					labelStr += labels[i] + "=\"" + labels[i+1] + "\""
				}
				labelStr += "}"
			}

			switch v := value.(type) {
			case int:
				w.Write([]byte(name + labelStr + " " + strconv.Itoa(v) + "\n"))
			case int64:
				w.Write([]byte(name + labelStr + " " + strconv.FormatInt(v, 10) + "\n"))
			case float64:
				w.Write([]byte(name + labelStr + " " + strconv.FormatFloat(v, 'f', 6, 64) + "\n"))
			}
		}

		write("triage_uptime_seconds", time.Since(m.startTime).Seconds())

		write("triage_events_ingested_total", m.EventsIngestedTotal)
		write("triage_events_duplicate_total", m.EventsDuplicateTotal)
		write("triage_events_out_of_order_total", m.EventsOutOfOrderTotal)
		write("triage_stale_updates_total", m.StaleUpdatesTotal)
		write("triage_ingest_errors_total", m.IngestErrorsTotal)

		write("triage_commands_sent_total", m.CommandsSentTotal)
		write("triage_commands_failed_total", m.CommandsFailedTotal)
		write("triage_commands_timed_out_total", m.CommandsTimedOutTotal)
		write("triage_commands_rejected_total", m.CommandsRejectedTotal)

		write("triage_websocket_connections_total", m.WebSocketConnectionsTotal)
		write("triage_websocket_disconnections_total", m.WebSocketDisconnectionsTotal)
		write("triage_websocket_active_connections", m.activeConnections)

		write("triage_broadcast_cycles_total", m.BroadcastCyclesTotal)
		write("triage_broadcast_errors_total", m.BroadcastErrorsTotal)
		write("triage_broadcast_duration_seconds", m.lastBroadcastDuration.Seconds())

		write("triage_calls_total", m.totalCalls)
		for status, count := range m.callsByStatus {
			write("triage_calls_by_status", count, "status", string(status))
		}
	}
}
