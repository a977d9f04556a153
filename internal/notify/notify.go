// Package notify pushes job lifecycle events to an external listener.
// Delivery is best effort: a job never fails because its progress updates
// could not be sent.
package notify

import (
	"log/slog"
	"sync"

	"github.com/gorilla/websocket"
)

// Notifier receives job lifecycle events keyed by job id.
type Notifier interface {
	Status(jobID, status string)
	Progress(jobID string, percent float64)
	Log(jobID, message string)
	InputSize(jobID string, size int)
	Close() error
}

// Nop discards every event. Used by tests and CLI-only runs.
type Nop struct{}

func (Nop) Status(string, string)    {}
func (Nop) Progress(string, float64) {}
func (Nop) Log(string, string)       {}
func (Nop) InputSize(string, int)    {}
func (Nop) Close() error             { return nil }

type event struct {
	Type      string   `json:"type"`
	JobID     string   `json:"job_id"`
	Status    string   `json:"status,omitempty"`
	Progress  *float64 `json:"progress,omitempty"`
	Message   string   `json:"message,omitempty"`
	InputSize *int     `json:"input_size,omitempty"`
}

// Websocket sends events as JSON messages over a websocket connection. The
// connection is dialed on first use; a failed send triggers one reconnect
// attempt, after which the event is logged and dropped.
type Websocket struct {
	url    string
	logger *slog.Logger

	mu   sync.Mutex
	conn *websocket.Conn
}

var _ Notifier = (*Websocket)(nil)

// NewWebsocket creates a websocket notifier for the given endpoint.
func NewWebsocket(url string, logger *slog.Logger) *Websocket {
	if logger == nil {
		logger = slog.Default()
	}
	return &Websocket{url: url, logger: logger}
}

func (w *Websocket) Status(jobID, status string) {
	w.send(event{Type: "status", JobID: jobID, Status: status})
}

func (w *Websocket) Progress(jobID string, percent float64) {
	w.send(event{Type: "progress", JobID: jobID, Progress: &percent})
}

func (w *Websocket) Log(jobID, message string) {
	w.send(event{Type: "log", JobID: jobID, Message: message})
}

func (w *Websocket) InputSize(jobID string, size int) {
	w.send(event{Type: "input_size", JobID: jobID, InputSize: &size})
}

func (w *Websocket) send(ev event) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.write(ev); err == nil {
		return
	}

	// One reconnect attempt; a stale connection is the common failure.
	w.reset()
	if err := w.write(ev); err != nil {
		w.reset()
		w.logger.Warn("notification dropped",
			"job_id", ev.JobID, "type", ev.Type, "err", err)
	}
}

func (w *Websocket) write(ev event) error {
	if w.conn == nil {
		conn, _, err := websocket.DefaultDialer.Dial(w.url, nil)
		if err != nil {
			return err
		}
		w.conn = conn
	}
	return w.conn.WriteJSON(ev)
}

func (w *Websocket) reset() {
	if w.conn != nil {
		w.conn.Close()
		w.conn = nil
	}
}

func (w *Websocket) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.conn == nil {
		return nil
	}
	err := w.conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	w.conn.Close()
	w.conn = nil
	return err
}
