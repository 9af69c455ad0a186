package transport

import (
	"errors"
	"fmt"
	"net"
	"sync"
	"time"
)

const dialTimeout = 5 * time.Second

// TCPConn reads device lines from a TCP socket (e.g. a serial-over-IP
// bridge).
type TCPConn struct {
	conn net.Conn
	sink *lineSink
	errs errHolder

	writeMu   sync.Mutex
	closeOnce sync.Once
	closed    chan struct{}
}

// DialTCP connects to host:port and starts the reader goroutine.
func DialTCP(host string, port int) (*TCPConn, error) {
	addr := net.JoinHostPort(host, fmt.Sprintf("%d", port))
	conn, err := net.DialTimeout("tcp", addr, dialTimeout)
	if err != nil {
		return nil, fmt.Errorf("dialing %s: %w", addr, err)
	}

	c := &TCPConn{
		conn:   conn,
		sink:   newLineSink(),
		closed: make(chan struct{}),
	}
	go c.readLoop()
	return c, nil
}

func (c *TCPConn) readLoop() {
	defer close(c.sink.lines)

	var frame lineBuffer
	buf := make([]byte, readBufSize)
	for {
		c.conn.SetReadDeadline(time.Now().Add(readTimeout))
		n, err := c.conn.Read(buf)
		if n > 0 {
			for _, line := range frame.feed(buf[:n]) {
				c.sink.emit(line)
			}
		}
		if err != nil {
			var nerr net.Error
			if errors.As(err, &nerr) && nerr.Timeout() {
				select {
				case <-c.closed:
					return
				default:
					continue
				}
			}
			select {
			case <-c.closed:
			default:
				c.errs.set(err)
			}
			return
		}
	}
}

func (c *TCPConn) Lines() <-chan string { return c.sink.lines }

func (c *TCPConn) Send(cmd string) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	_, err := c.conn.Write([]byte(cmd))
	return err
}

func (c *TCPConn) Close() error {
	var err error
	c.closeOnce.Do(func() {
		close(c.closed)
		err = c.conn.Close()
	})
	return err
}

func (c *TCPConn) Err() error { return c.errs.get() }
