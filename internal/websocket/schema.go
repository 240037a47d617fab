package websocket

import (
	"encoding/json"

	"github.com/examhall/examhall-backend/internal/model"
)

// ─── Events (Server → Admin) ────────────────────────────────────────

type Event string

const (
	EventSnapshot Event = "snapshot"
	EventMonitor  Event = "event"
	EventPing     Event = "ping"
	EventError    Event = "error"
)

// SnapshotMessage carries the full roster. It is sent on connect and again
// after activity so counters stay accurate.
type SnapshotMessage struct {
	Event Event                  `json:"event"`
	Data  *model.MonitorSnapshot `json:"data"`
}

// MonitorMessage forwards a published model.MonitorEvent untouched.
type MonitorMessage struct {
	Event Event           `json:"event"`
	Data  json.RawMessage `json:"data"`
}

type PingMessage struct {
	Event Event `json:"event"`
}

type ErrorMessage struct {
	Event Event  `json:"event"`
	Error string `json:"error"`
}
