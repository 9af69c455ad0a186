package session

import (
	"sync"
)

// Snapshot is a consistent read of everything the store holds, taken
// under a single lock so HTTP and WebSocket readers never observe a
// state/sample mismatch.
type Snapshot struct {
	State     State      `json:"state"`
	Samples   []Sample   `json:"samples"`
	Logs      []LogEntry `json:"logs"`
	LiveLine  string     `json:"liveLine,omitempty"`
	RateHz    float64    `json:"rateHz"`
	Connected bool       `json:"connected"`
}

// Store is the published view of the monitor's state. The monitor is the
// only writer; HTTP handlers and the broadcaster read copies.
type Store struct {
	mu         sync.RWMutex
	state      State
	samples    []Sample
	logs       []LogEntry
	liveLine   string
	rateHz     float64
	connected  bool
	maxLogs    int
	maxSamples int
}

func NewStore(maxLogs, maxSamples int) *Store {
	if maxLogs <= 0 {
		maxLogs = 1000
	}
	if maxSamples <= 0 {
		maxSamples = 2000
	}
	return &Store{
		maxLogs:    maxLogs,
		maxSamples: maxSamples,
	}
}

func (s *Store) SetState(st State) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if st.LastUpdate != nil {
		t := *st.LastUpdate
		st.LastUpdate = &t
	}
	s.state = st
}

func (s *Store) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st := s.state
	if st.LastUpdate != nil {
		t := *st.LastUpdate
		st.LastUpdate = &t
	}
	return st
}

func (s *Store) AppendLog(e LogEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.logs = append(s.logs, e)
	if over := len(s.logs) - s.maxLogs; over > 0 {
		s.logs = append(s.logs[:0:0], s.logs[over:]...)
	}
}

func (s *Store) Logs() []LogEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]LogEntry(nil), s.logs...)
}

func (s *Store) AppendSample(sm Sample) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.samples = append(s.samples, sm)
	if over := len(s.samples) - s.maxSamples; over > 0 {
		s.samples = append(s.samples[:0:0], s.samples[over:]...)
	}
}

func (s *Store) Samples() []Sample {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Sample(nil), s.samples...)
}

// ClearSamples drops the plot history. Used by the manual reset path;
// device-initiated resets keep the plot running.
func (s *Store) ClearSamples() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.samples = nil
}

func (s *Store) SetLive(line string, rateHz float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.liveLine = line
	s.rateHz = rateHz
}

func (s *Store) Live() (string, float64) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.liveLine, s.rateHz
}

func (s *Store) SetConnected(connected bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.connected = connected
}

func (s *Store) Connected() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.connected
}

func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st := s.state
	if st.LastUpdate != nil {
		t := *st.LastUpdate
		st.LastUpdate = &t
	}
	return Snapshot{
		State:     st,
		Samples:   append([]Sample(nil), s.samples...),
		Logs:      append([]LogEntry(nil), s.logs...),
		LiveLine:  s.liveLine,
		RateHz:    s.rateHz,
		Connected: s.connected,
	}
}
