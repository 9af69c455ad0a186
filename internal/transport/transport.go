// Package transport connects to the device over a serial port or a TCP
// socket and frames its byte stream into discrete text lines. One
// reader goroutine per connection blocks on reads with a short timeout
// and pushes framed lines into a bounded channel; closing the
// connection ends the goroutine, no separate cancellation signal is
// needed.
package transport

import (
	"log"
	"sync"
	"time"
)

const (
	// lineChanSize bounds the line channel. If the consumer stalls,
	// excess lines are dropped (and counted) rather than growing the
	// queue without limit.
	lineChanSize = 256

	readBufSize = 1024
	readTimeout = 100 * time.Millisecond
	dropLogGap  = 10 * time.Second
)

// Conn is a line-framed device connection. Lines delivers sanitizable
// text lines in arrival order until the connection dies, then closes.
// Send writes a raw command string; it is safe for concurrent use.
type Conn interface {
	Lines() <-chan string
	Send(cmd string) error
	Close() error
	// Err reports why the line stream ended, nil for a clean close.
	Err() error
}

// lineSink owns the bounded line channel shared by the transports.
// Sends are non-blocking; drops are counted and logged at most once
// per dropLogGap to avoid log spam under sustained backpressure.
type lineSink struct {
	lines chan string

	mu          sync.Mutex
	dropped     int64
	lastDropLog time.Time
}

func newLineSink() *lineSink {
	return &lineSink{lines: make(chan string, lineChanSize)}
}

func (s *lineSink) emit(line string) {
	select {
	case s.lines <- line:
	default:
		s.mu.Lock()
		s.dropped++
		now := time.Now()
		if s.lastDropLog.IsZero() || now.Sub(s.lastDropLog) >= dropLogGap {
			log.Printf("transport: dropped %d lines (channel full)", s.dropped)
			s.dropped = 0
			s.lastDropLog = now
		}
		s.mu.Unlock()
	}
}

// errHolder records the first terminal error of a connection.
type errHolder struct {
	mu  sync.Mutex
	err error
}

func (h *errHolder) set(err error) {
	h.mu.Lock()
	if h.err == nil {
		h.err = err
	}
	h.mu.Unlock()
}

func (h *errHolder) get() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.err
}
