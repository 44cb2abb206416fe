package command

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"ai-workbench/internal/storage"

	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

// Wails event names shared with the bridge script.
const (
	EventCommand = "shell:command"
	EventAck     = "shell:command:ack"
)

// Journal statuses.
const (
	StatusDelivered = "delivered"
	StatusUnhandled = "unhandled"
	StatusFailed    = "failed"
	StatusTimeout   = "timeout"
	StatusThrottled = "throttled"
)

var (
	ErrUnknownCommand = errors.New("unknown command")
	ErrThrottled      = errors.New("command throttled")
	ErrClosed         = errors.New("dispatcher closed")
)

// Envelope is emitted to the page for each dispatched command.
type Envelope struct {
	ID       string `json:"id"`
	Command  string `json:"command"`
	Function string `json:"function"`
}

// Ack is sent back by the bridge after it tried to run the page function.
type Ack struct {
	ID      string `json:"id"`
	Handled bool   `json:"handled"`
	Error   string `json:"error,omitempty"`
}

// Events is the shell/page event channel (Wails runtime events).
type Events interface {
	Emit(name string, data ...interface{})
	On(name string, cb func(data ...interface{})) func()
}

// Journal stores dispatch outcomes. *storage.Storage implements it.
type Journal interface {
	RecordCommand(rec storage.CommandRecord) error
}

type Options struct {
	AckTimeout time.Duration
	Rate       rate.Limit
	Burst      int
}

const (
	DefaultAckTimeout = 2 * time.Second
	DefaultRate       = rate.Limit(10)
	DefaultBurst      = 5
)

type inflight struct {
	env   Envelope
	timer *time.Timer
}

// Dispatcher sends commands to the page and records what became of them.
type Dispatcher struct {
	events     Events
	journal    Journal
	logger     *slog.Logger
	limiter    *rate.Limiter
	ackTimeout time.Duration

	mu      sync.Mutex
	pending map[string]*inflight
	off     func()
	closed  bool
}

// NewDispatcher subscribes to page acknowledgements. journal may be nil.
func NewDispatcher(events Events, journal Journal, logger *slog.Logger, opts Options) *Dispatcher {
	if opts.AckTimeout <= 0 {
		opts.AckTimeout = DefaultAckTimeout
	}
	if opts.Rate <= 0 {
		opts.Rate = DefaultRate
	}
	if opts.Burst <= 0 {
		opts.Burst = DefaultBurst
	}

	d := &Dispatcher{
		events:     events,
		journal:    journal,
		logger:     logger,
		limiter:    rate.NewLimiter(opts.Rate, opts.Burst),
		ackTimeout: opts.AckTimeout,
		pending:    make(map[string]*inflight),
	}
	d.off = events.On(EventAck, d.handleAck)
	return d
}

// Dispatch emits cmd to the page and returns its envelope id without waiting
// for the page to run it.
func (d *Dispatcher) Dispatch(cmd Command) (string, error) {
	if !cmd.Valid() {
		return "", fmt.Errorf("%w: %s", ErrUnknownCommand, cmd)
	}

	env := Envelope{
		ID:       uuid.New().String(),
		Command:  cmd.String(),
		Function: cmd.Function(),
	}

	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return "", ErrClosed
	}
	if !d.limiter.Allow() {
		d.mu.Unlock()
		d.finish(env, StatusThrottled, "")
		return "", fmt.Errorf("%w: %s", ErrThrottled, cmd)
	}
	id := env.ID
	d.pending[id] = &inflight{
		env:   env,
		timer: time.AfterFunc(d.ackTimeout, func() { d.expire(id) }),
	}
	d.mu.Unlock()

	d.logger.Info("Dispatching command", "command", env.Command, "function", env.Function, "id", id)
	d.events.Emit(EventCommand, env)
	return id, nil
}

func (d *Dispatcher) handleAck(data ...interface{}) {
	if len(data) == 0 {
		return
	}
	ack, err := decodeAck(data[0])
	if err != nil {
		d.logger.Warn("Malformed command ack", "error", err)
		return
	}

	d.mu.Lock()
	f, ok := d.pending[ack.ID]
	if ok {
		f.timer.Stop()
		delete(d.pending, ack.ID)
	}
	d.mu.Unlock()
	if !ok {
		d.logger.Debug("Ack for unknown or expired command", "id", ack.ID)
		return
	}

	switch {
	case !ack.Handled:
		d.finish(f.env, StatusUnhandled, "page function not defined")
	case ack.Error != "":
		d.finish(f.env, StatusFailed, ack.Error)
	default:
		d.finish(f.env, StatusDelivered, "")
	}
}

func decodeAck(v interface{}) (Ack, error) {
	var ack Ack
	raw, err := json.Marshal(v)
	if err != nil {
		return ack, err
	}
	if err := json.Unmarshal(raw, &ack); err != nil {
		return ack, err
	}
	if ack.ID == "" {
		return ack, errors.New("missing id")
	}
	return ack, nil
}

func (d *Dispatcher) expire(id string) {
	d.mu.Lock()
	f, ok := d.pending[id]
	delete(d.pending, id)
	d.mu.Unlock()
	if ok {
		d.finish(f.env, StatusTimeout, "no acknowledgement from page")
	}
}

func (d *Dispatcher) finish(env Envelope, status, detail string) {
	if status == StatusDelivered {
		d.logger.Debug("Command delivered", "command", env.Command, "id", env.ID)
	} else {
		d.logger.Warn("Command not handled by page", "command", env.Command, "function", env.Function, "status", status, "detail", detail)
	}

	if d.journal == nil {
		return
	}
	rec := storage.CommandRecord{
		ID:       env.ID,
		Command:  env.Command,
		Function: env.Function,
		Status:   status,
		Detail:   detail,
	}
	if err := d.journal.RecordCommand(rec); err != nil {
		d.logger.Error("Failed to journal command", "id", env.ID, "error", err)
	}
}

// Pending returns the number of commands awaiting acknowledgement.
func (d *Dispatcher) Pending() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.pending)
}

// Close unsubscribes from acknowledgements and drops in-flight commands.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return
	}
	d.closed = true
	for id, f := range d.pending {
		f.timer.Stop()
		delete(d.pending, id)
	}
	if d.off != nil {
		d.off()
	}
}
