package monitor

import (
	"strings"
	"testing"
	"time"

	"github.com/arc-monitor/arcmon/internal/logfile"
	"github.com/arc-monitor/arcmon/internal/session"
)

type fakePublisher struct {
	states  []session.State
	changes []session.Change
	samples []*session.Sample
	logs    []session.LogEntry
	lives   []string
	rates   []float64
}

func (p *fakePublisher) QueueState(st session.State, ch session.Change, sm *session.Sample) {
	p.states = append(p.states, st)
	p.changes = append(p.changes, ch)
	p.samples = append(p.samples, sm)
}

func (p *fakePublisher) QueueLog(e session.LogEntry) { p.logs = append(p.logs, e) }

func (p *fakePublisher) QueueLive(line string, rateHz float64) {
	p.lives = append(p.lives, line)
	p.rates = append(p.rates, rateHz)
}

type fakeConn struct {
	lines chan string
	sent  []string
}

func newFakeConn() *fakeConn { return &fakeConn{lines: make(chan string, 16)} }

func (c *fakeConn) Lines() <-chan string { return c.lines }

func (c *fakeConn) Send(cmd string) error {
	c.sent = append(c.sent, cmd)
	return nil
}

func (c *fakeConn) Close() error { return nil }
func (c *fakeConn) Err() error   { return nil }

func newTestMonitor(t *testing.T) (*Monitor, *fakePublisher, *time.Time) {
	t.Helper()
	now := time.Date(2026, 8, 25, 10, 0, 0, 0, time.UTC)
	pub := &fakePublisher{}
	logw := logfile.New(t.TempDir())
	t.Cleanup(func() { logw.Close() })

	m := New(Options{
		Store:     session.NewStore(0, 0),
		Publisher: pub,
		LogWriter: logw,
	})
	m.now = func() time.Time { return now }
	m.start = now
	return m, pub, &now
}

func TestHandleLiveLine(t *testing.T) {
	m, pub, _ := newTestMonitor(t)

	m.handleLine("[Live] Stage: 2 Total: 7 Wait: 50 ms")

	line, hz := m.store.Live()
	if line != "[Live] Stage: 2 Total: 7 Wait: 50 ms" {
		t.Errorf("live line = %q", line)
	}
	if hz != 20 {
		t.Errorf("rate = %v, want 20", hz)
	}
	if len(pub.lives) != 1 {
		t.Fatalf("published %d live updates, want 1", len(pub.lives))
	}
	if len(pub.logs) != 0 {
		t.Errorf("live line must not produce log entries")
	}
	if st := m.store.State(); st.Stage != 2 || st.Total != 7 {
		t.Errorf("state = %+v, want stage 2 total 7", st)
	}
}

func TestHandleReportLineLogged(t *testing.T) {
	m, pub, _ := newTestMonitor(t)

	m.handleLine("*** [STAGE REPORT] Duration: 1500 ms")

	logs := m.store.Logs()
	if len(logs) != 1 || !strings.Contains(logs[0].Line, "STAGE REPORT") {
		t.Fatalf("store logs = %+v", logs)
	}
	if len(pub.logs) != 1 {
		t.Errorf("published %d log entries, want 1", len(pub.logs))
	}
	if st := m.store.State(); st.ActiveTimeSeconds != 1.5 {
		t.Errorf("active time = %v, want 1.5", st.ActiveTimeSeconds)
	}
}

func TestSampleOnTotalIncrease(t *testing.T) {
	m, _, now := newTestMonitor(t)

	m.handleLine("[Live] Total: 1")
	*now = now.Add(time.Second)
	m.handleLine("[Live] Total: 2")

	samples := m.store.Samples()
	if len(samples) != 2 {
		t.Fatalf("got %d samples, want 2", len(samples))
	}
	if samples[1].T != 1 || samples[1].Total != 2 || samples[1].Gap {
		t.Errorf("sample = %+v, want T=1 Total=2 no gap", samples[1])
	}
}

func TestSampleGapAfterSilence(t *testing.T) {
	m, _, now := newTestMonitor(t)

	m.handleLine("[Live] Total: 1")
	*now = now.Add(6 * time.Second)
	m.handleLine("[Live] Total: 2")

	samples := m.store.Samples()
	if len(samples) != 2 {
		t.Fatalf("got %d samples, want 2", len(samples))
	}
	if samples[0].Gap {
		t.Error("first sample must not be a gap")
	}
	if !samples[1].Gap {
		t.Error("sample after 6s silence must carry the gap mark")
	}
}

func TestNoSampleOnRollback(t *testing.T) {
	m, pub, _ := newTestMonitor(t)

	m.handleLine("[Live] Total: 10")
	m.handleLine("[Live] Total: 3")

	samples := m.store.Samples()
	if len(samples) != 1 {
		t.Fatalf("got %d samples, want 1 (rollback adds none)", len(samples))
	}
	last := pub.changes[len(pub.changes)-1]
	if !last.SessionReset {
		t.Error("rollback must publish a session reset change")
	}
	if pub.samples[len(pub.samples)-1] != nil {
		t.Error("rollback must not publish a sample")
	}
}

func TestUnchangedLineNotPublished(t *testing.T) {
	m, pub, _ := newTestMonitor(t)

	m.handleLine("[Live] Total: 5")
	before := len(pub.states)
	m.handleLine("[Live] Total: 5")
	if len(pub.states) != before {
		t.Errorf("repeat total published a state update")
	}
}

func TestManualReset(t *testing.T) {
	m, pub, _ := newTestMonitor(t)
	conn := newFakeConn()

	m.handleLine("[Live] Stage: 3 Total: 50 Wait: 20 ms")
	m.doReset(conn)

	if len(conn.sent) != 1 || conn.sent[0] != "R\n" {
		t.Errorf("sent = %v, want [R\\n]", conn.sent)
	}
	if st := m.store.State(); st.Total != 0 || st.Stage != 0 {
		t.Errorf("state after reset = %+v, want zero", st)
	}
	if samples := m.store.Samples(); len(samples) != 0 {
		t.Errorf("samples after reset = %d, want 0", len(samples))
	}
	if _, hz := m.store.Live(); hz != 0 {
		t.Errorf("rate after reset = %v, want 0", hz)
	}

	var banner bool
	for _, e := range pub.logs {
		if strings.Contains(e.Line, "SYSTEM RESET") {
			banner = true
		}
	}
	if !banner {
		t.Error("reset must publish the separator banner")
	}
	last := pub.changes[len(pub.changes)-1]
	if !last.SessionReset {
		t.Error("reset must publish a session reset change")
	}
}
