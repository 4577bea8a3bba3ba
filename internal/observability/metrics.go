package observability

import (
	"strconv"
	"sync"
	"time"
)

// Metrics provides basic in-memory counters for inbound commands, HTTP
// requests and failed best-effort effects.
type Metrics struct {
	mu           sync.Mutex
	requestCount map[string]int64
	commandCount map[string]int64
	effectErrors map[string]int64
}

// NewMetrics initializes metrics storage.
func NewMetrics() *Metrics {
	return &Metrics{
		requestCount: make(map[string]int64),
		commandCount: make(map[string]int64),
		effectErrors: make(map[string]int64),
	}
}

// RecordRequest increments counters for ops HTTP requests.
func (m *Metrics) RecordRequest(path, method string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	key := path + "|" + method + "|" + strconv.Itoa(status)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requestCount[key]++
}

// RecordCommand increments counters for handled platform commands.
func (m *Metrics) RecordCommand(kind string, failed bool) {
	if m == nil {
		return
	}
	key := kind
	if failed {
		key += "|failed"
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.commandCount[key]++
}

// RecordEffectFailure increments counters for swallowed effect failures.
func (m *Metrics) RecordEffectFailure(effect string) {
	if m == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.effectErrors[effect]++
}

// EffectFailures returns a copy of the effect failure counters.
func (m *Metrics) EffectFailures() map[string]int64 {
	if m == nil {
		return nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[string]int64, len(m.effectErrors))
	for k, v := range m.effectErrors {
		out[k] = v
	}
	return out
}
