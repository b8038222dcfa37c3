package sync

import (
	gosync "sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// SyncState represents the state of the last refresh.
type SyncState int

const (
	SyncIdle SyncState = iota
	SyncRunning
	SyncError
)

func (s SyncState) String() string {
	switch s {
	case SyncRunning:
		return "syncing"
	case SyncError:
		return "error"
	default:
		return "idle"
	}
}

// SyncStatus describes the most recent refresh.
type SyncStatus struct {
	State    SyncState
	LastSync time.Time
	Error    error
}

// Reason says why a refresh was requested.
type Reason int

const (
	ReasonInterval Reason = iota
	ReasonManual
	ReasonMutation
)

// RefreshMsg asks the application to re-fetch the active project.
// The refresher never fetches by itself.
type RefreshMsg struct {
	Reason Reason
	At     time.Time
}

// defaultInterval applies when the configured interval is not positive.
const defaultInterval = 60 * time.Second

// Refresher emits RefreshMsg on a fixed interval and on demand.
type Refresher struct {
	interval  time.Duration
	msgCh     chan RefreshMsg
	triggerCh chan Reason
	stopCh    chan struct{}
	mu        gosync.Mutex
	running   bool
	status    SyncStatus
}

// New creates a refresher ticking every interval.
func New(interval time.Duration) *Refresher {
	if interval <= 0 {
		interval = defaultInterval
	}
	return &Refresher{
		interval:  interval,
		msgCh:     make(chan RefreshMsg, 1),
		triggerCh: make(chan Reason, 4),
		stopCh:    make(chan struct{}),
	}
}

// Interval returns the tick interval.
func (r *Refresher) Interval() time.Duration { return r.interval }

// Start launches the ticking goroutine and returns a command that waits
// for the first RefreshMsg. Calling Start twice returns nil.
func (r *Refresher) Start() tea.Cmd {
	r.mu.Lock()
	if r.running {
		r.mu.Unlock()
		return nil
	}
	r.running = true
	r.mu.Unlock()

	go r.loop()

	return r.WaitForNext()
}

// Stop halts the ticking goroutine.
func (r *Refresher) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.running {
		return
	}

	close(r.stopCh)
	r.running = false
}

// Trigger requests an immediate refresh without blocking. Requests made
// while one is already pending are dropped.
func (r *Refresher) Trigger(reason Reason) {
	select {
	case r.triggerCh <- reason:
	default:
	}
}

// WaitForNext returns a command that delivers the next RefreshMsg. Call it
// again after each RefreshMsg to keep listening.
func (r *Refresher) WaitForNext() tea.Cmd {
	return func() tea.Msg {
		select {
		case msg := <-r.msgCh:
			return msg
		case <-r.stopCh:
			return nil
		}
	}
}

// Begin marks a refresh as running.
func (r *Refresher) Begin() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.status.State = SyncRunning
}

// Record stores the outcome of a refresh.
func (r *Refresher) Record(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.status.Error = err
	if err != nil {
		r.status.State = SyncError
		return
	}
	r.status.State = SyncIdle
	r.status.LastSync = time.Now()
}

// Status returns a copy of the current sync status.
func (r *Refresher) Status() SyncStatus {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.status
}

func (r *Refresher) loop() {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-r.stopCh:
			return
		case t := <-ticker.C:
			r.send(RefreshMsg{Reason: ReasonInterval, At: t})
		case reason := <-r.triggerCh:
			r.send(RefreshMsg{Reason: reason, At: time.Now()})
		}
	}
}

// send delivers msg unless one is already waiting to be consumed.
func (r *Refresher) send(msg RefreshMsg) {
	select {
	case r.msgCh <- msg:
	default:
	}
}
