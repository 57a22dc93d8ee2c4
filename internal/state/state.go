// Package state provides thread-safe state management for the application.
package state

import (
	"sync"
	"time"

	"github.com/litescript/ls-natal/internal/chart"
	"github.com/litescript/ls-natal/internal/client"
)

// EventType represents the type of state change event.
type EventType string

const (
	EventChartLoaded   EventType = "CHART_LOADED"
	EventChartReplaced EventType = "CHART_REPLACED"
	EventRequestFailed EventType = "REQUEST_FAILED"
)

// Event represents a change of the current chart.
type Event struct {
	Type      EventType `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Name      string    `json:"name,omitempty"`
	Previous  string    `json:"previous,omitempty"`
	Message   string    `json:"message,omitempty"`
}

// HistoryEntry records one chart request.
type HistoryEntry struct {
	Request   client.Request `json:"request"`
	Timestamp time.Time      `json:"timestamp"`
	Duration  time.Duration  `json:"duration"`
	Cached    bool           `json:"cached"`
	Bodies    int            `json:"bodies"`
	Aspects   int            `json:"aspects"`
	Error     string         `json:"error,omitempty"`
}

// Manager handles all shared application state with thread-safe access.
type Manager struct {
	mu sync.RWMutex

	// Current state
	current       *chart.Snapshot
	lastRequest   client.Request
	lastFetch     time.Time
	lastError     error
	fetchDuration time.Duration
	source        string

	// Request history (ring buffer)
	history        []HistoryEntry
	maxHistory     int
	historyWriteAt int

	// Event log (ring buffer)
	events       []Event
	maxEvents    int
	eventWriteAt int

	now func() time.Time
}

// Config holds configuration for the state manager.
type Config struct {
	MaxHistory int
	MaxEvents  int
}

// DefaultConfig returns sensible default configuration.
func DefaultConfig() Config {
	return Config{
		MaxHistory: 20,
		MaxEvents:  50,
	}
}

// NewManager creates a new state manager.
func NewManager(cfg Config) *Manager {
	maxHistory := cfg.MaxHistory
	if maxHistory <= 0 {
		maxHistory = 20
	}
	maxEvents := cfg.MaxEvents
	if maxEvents <= 0 {
		maxEvents = 50
	}
	return &Manager{
		maxHistory: maxHistory,
		history:    make([]HistoryEntry, 0, maxHistory),
		maxEvents:  maxEvents,
		events:     make([]Event, 0, maxEvents),
		now:        time.Now,
	}
}

// Apply records the outcome of a generate call. A failed call keeps the
// current chart.
func (m *Manager) Apply(res client.Result) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	m.lastFetch = now
	m.lastError = res.Err
	m.fetchDuration = res.Duration
	m.lastRequest = res.Request

	entry := HistoryEntry{
		Request:   res.Request,
		Timestamp: now,
		Duration:  res.Duration,
		Cached:    res.Cached,
	}
	if res.Snapshot != nil {
		entry.Bodies = len(res.Snapshot.Bodies)
		entry.Aspects = len(res.Snapshot.Aspects)
	}
	if res.Err != nil {
		entry.Error = res.Err.Error()
	}
	m.addHistory(entry)

	if res.Err != nil || res.Snapshot == nil {
		msg := "no chart returned"
		if res.Err != nil {
			msg = res.Err.Error()
		}
		m.addEvent(Event{Type: EventRequestFailed, Timestamp: now, Name: res.Request.Name, Message: msg})
		return
	}
	m.replace(res.Snapshot.Clone(), "service", now)
}

// Load replaces the current chart with one read from a file or other local
// source.
func (m *Manager) Load(snap *chart.Snapshot, source string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	m.lastFetch = now
	m.lastError = nil
	m.fetchDuration = 0
	if snap == nil {
		return
	}
	m.replace(snap.Clone(), source, now)
}

// Fail records an error without touching the current chart.
func (m *Manager) Fail(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	m.lastFetch = now
	m.lastError = err
	if err != nil {
		m.addEvent(Event{Type: EventRequestFailed, Timestamp: now, Message: err.Error()})
	}
}

func (m *Manager) replace(snap *chart.Snapshot, source string, now time.Time) {
	ev := Event{Type: EventChartLoaded, Timestamp: now, Name: snap.Name}
	if m.current != nil {
		ev.Type = EventChartReplaced
		ev.Previous = m.current.Name
	}
	m.addEvent(ev)

	m.current = snap
	m.source = source
}

func (m *Manager) addHistory(e HistoryEntry) {
	if len(m.history) < m.maxHistory {
		m.history = append(m.history, e)
	} else {
		m.history[m.historyWriteAt] = e
		m.historyWriteAt = (m.historyWriteAt + 1) % m.maxHistory
	}
}

// addEvent adds an event to the ring buffer.
func (m *Manager) addEvent(e Event) {
	if len(m.events) < m.maxEvents {
		m.events = append(m.events, e)
	} else {
		m.events[m.eventWriteAt] = e
		m.eventWriteAt = (m.eventWriteAt + 1) % m.maxEvents
	}
}

// Snapshot represents an immutable snapshot of current state.
type Snapshot struct {
	Chart         *chart.Snapshot
	Source        string
	LastRequest   client.Request
	LastFetch     time.Time
	LastError     error
	FetchDuration time.Duration
	History       []HistoryEntry
	Events        []Event
}

// Snapshot returns a consistent snapshot of current state. The chart is a
// deep copy.
func (m *Manager) Snapshot() Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return Snapshot{
		Chart:         m.current.Clone(),
		Source:        m.source,
		LastRequest:   m.lastRequest,
		LastFetch:     m.lastFetch,
		LastError:     m.lastError,
		FetchDuration: m.fetchDuration,
		History:       ordered(m.history, m.maxHistory, m.historyWriteAt),
		Events:        ordered(m.events, m.maxEvents, m.eventWriteAt),
	}
}

// Chart returns a copy of the current chart, or nil.
func (m *Manager) Chart() *chart.Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current.Clone()
}

// ordered returns ring buffer contents oldest first.
func ordered[T any](buf []T, capacity, writeAt int) []T {
	if len(buf) == 0 {
		return nil
	}
	result := make([]T, len(buf))
	if len(buf) < capacity {
		copy(result, buf)
		return result
	}
	for i := 0; i < capacity; i++ {
		result[i] = buf[(writeAt+i)%capacity]
	}
	return result
}

// RecentEvents returns the last n events.
func (m *Manager) RecentEvents(n int) []Event {
	m.mu.RLock()
	defer m.mu.RUnlock()

	all := ordered(m.events, m.maxEvents, m.eventWriteAt)
	if len(all) <= n {
		return all
	}
	return all[len(all)-n:]
}

// LastRequest returns the most recent request, successful or not.
func (m *Manager) LastRequest() client.Request {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.lastRequest
}

// HasData returns true once a chart has been loaded.
func (m *Manager) HasData() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current != nil
}
