// Package monitor runs the device pipeline: it owns the connection, the
// protocol decoder and the pulse-rate tracker, keeps the session store
// current, persists report lines to the daily log file, and hands every
// change to the publisher for fan-out.
package monitor

import (
	"context"
	"log"
	"time"

	"github.com/arc-monitor/arcmon/internal/logfile"
	"github.com/arc-monitor/arcmon/internal/protocol"
	"github.com/arc-monitor/arcmon/internal/session"
	"github.com/arc-monitor/arcmon/internal/transport"
)

// pulseGapThreshold marks a plot sample as following a silence, so the
// chart breaks the line instead of drawing a ramp across the pause.
const pulseGapThreshold = 5 * time.Second

// Publisher receives everything worth pushing to connected clients.
type Publisher interface {
	QueueState(st session.State, ch session.Change, sample *session.Sample)
	QueueLog(entry session.LogEntry)
	QueueLive(line string, rateHz float64)
}

// Options configures a Monitor.
type Options struct {
	Store     *session.Store
	Publisher Publisher
	LogWriter *logfile.Writer
	// Dial establishes the device connection; called again after every
	// disconnect, with exponential backoff between attempts.
	Dial              func() (transport.Conn, error)
	ReconnectMinDelay time.Duration
	ReconnectMaxDelay time.Duration
}

// Monitor is the single writer of session state. Run processes lines on
// one goroutine; Reset may be called from any goroutine and serializes
// through the same path via a channel.
type Monitor struct {
	store   *session.Store
	pub     Publisher
	logw    *logfile.Writer
	dial    func() (transport.Conn, error)
	minWait time.Duration
	maxWait time.Duration

	decoder   *protocol.Decoder
	rate      rateTracker
	start     time.Time
	lastPulse time.Time

	resets chan struct{}
	now    func() time.Time
}

func New(opts Options) *Monitor {
	if opts.ReconnectMinDelay <= 0 {
		opts.ReconnectMinDelay = time.Second
	}
	if opts.ReconnectMaxDelay < opts.ReconnectMinDelay {
		opts.ReconnectMaxDelay = 30 * time.Second
	}
	return &Monitor{
		store:   opts.Store,
		pub:     opts.Publisher,
		logw:    opts.LogWriter,
		dial:    opts.Dial,
		minWait: opts.ReconnectMinDelay,
		maxWait: opts.ReconnectMaxDelay,
		decoder: protocol.NewDecoder(),
		resets:  make(chan struct{}, 1),
		now:     time.Now,
	}
}

// Reset requests a manual counter reset: the reset command is sent to
// the device and the local session state, plot and rate estimate are
// cleared. Safe to call from any goroutine.
func (m *Monitor) Reset() {
	select {
	case m.resets <- struct{}{}:
	default:
	}
}

// Run connects and processes lines until ctx is canceled, reconnecting
// with exponential backoff after failures.
func (m *Monitor) Run(ctx context.Context) {
	m.start = m.now()

	wait := m.minWait
	for {
		if ctx.Err() != nil {
			return
		}

		conn, err := m.dial()
		if err != nil {
			log.Printf("monitor: connect failed: %v (retrying in %v)", err, wait)
			select {
			case <-ctx.Done():
				return
			case <-time.After(wait):
			}
			if wait *= 2; wait > m.maxWait {
				wait = m.maxWait
			}
			continue
		}

		wait = m.minWait
		m.store.SetConnected(true)
		log.Printf("monitor: device connected")

		m.consume(ctx, conn)

		m.store.SetConnected(false)
		conn.Close()
		if err := conn.Err(); err != nil && ctx.Err() == nil {
			log.Printf("monitor: connection lost: %v", err)
		}
	}
}

func (m *Monitor) consume(ctx context.Context, conn transport.Conn) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-m.resets:
			m.doReset(conn)
		case line, ok := <-conn.Lines():
			if !ok {
				return
			}
			m.handleLine(line)
		}
	}
}

func (m *Monitor) handleLine(raw string) {
	line := protocol.Sanitize(raw)
	if line == "" {
		return
	}

	prevTotal := m.decoder.State().Total
	ch := m.decoder.Decode(line)
	st := m.decoder.State()

	if protocol.IsLive(line) {
		m.rate.observe(line)
		hz := m.rate.rateHz()
		m.store.SetLive(line, hz)
		m.pub.QueueLive(line, hz)
	} else {
		entry := session.LogEntry{Time: m.now(), Line: line}
		m.store.AppendLog(entry)
		m.logw.WriteLine(line)
		m.pub.QueueLog(entry)
	}

	var sample *session.Sample
	if ch.TotalChanged && st.Total > prevTotal {
		now := m.now()
		// Gap is judged against the previous pulse before recording
		// this one, so the first sample after a silence carries it.
		gap := !m.lastPulse.IsZero() && now.Sub(m.lastPulse) > pulseGapThreshold
		m.lastPulse = now
		sm := session.Sample{
			T:     now.Sub(m.start).Seconds(),
			Total: st.Total,
			Gap:   gap,
		}
		m.store.AppendSample(sm)
		sample = &sm
	}

	m.store.SetState(st)
	if ch.Any() {
		m.pub.QueueState(st, ch, sample)
	}
}

func (m *Monitor) doReset(conn transport.Conn) {
	if err := conn.Send("R\n"); err != nil {
		log.Printf("monitor: reset command failed: %v", err)
	}

	banner := "===== SYSTEM RESET ====="
	entry := session.LogEntry{Time: m.now(), Line: banner}
	m.store.AppendLog(entry)
	m.logw.WriteLine(banner)
	m.pub.QueueLog(entry)

	m.decoder.Reset()
	m.rate.reset()
	m.store.ClearSamples()
	m.store.SetLive("", 0)
	m.lastPulse = time.Time{}
	m.start = m.now()

	st := m.decoder.State()
	m.store.SetState(st)
	m.pub.QueueState(st, session.Change{SessionReset: true}, nil)
}
