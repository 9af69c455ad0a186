package transport

import (
	"fmt"
	"sync"

	"go.bug.st/serial"
)

// SerialConn reads device lines from a local serial port.
type SerialConn struct {
	port serial.Port
	sink *lineSink
	errs errHolder

	writeMu   sync.Mutex
	closeOnce sync.Once
	closed    chan struct{}
}

// OpenSerial opens the named port at the given baud rate (8N1) and
// starts the reader goroutine.
func OpenSerial(name string, baud int) (*SerialConn, error) {
	port, err := serial.Open(name, &serial.Mode{BaudRate: baud})
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", name, err)
	}
	if err := port.SetReadTimeout(readTimeout); err != nil {
		port.Close()
		return nil, fmt.Errorf("configuring %s: %w", name, err)
	}

	c := &SerialConn{
		port:   port,
		sink:   newLineSink(),
		closed: make(chan struct{}),
	}
	go c.readLoop()
	return c, nil
}

func (c *SerialConn) readLoop() {
	defer close(c.sink.lines)

	var frame lineBuffer
	buf := make([]byte, readBufSize)
	for {
		n, err := c.port.Read(buf)
		if n > 0 {
			for _, line := range frame.feed(buf[:n]) {
				c.sink.emit(line)
			}
		}
		if err != nil {
			select {
			case <-c.closed:
			default:
				c.errs.set(err)
			}
			return
		}
		// A timeout surfaces as n == 0 with a nil error.
		if n == 0 {
			select {
			case <-c.closed:
				return
			default:
			}
		}
	}
}

func (c *SerialConn) Lines() <-chan string { return c.sink.lines }

func (c *SerialConn) Send(cmd string) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	_, err := c.port.Write([]byte(cmd))
	return err
}

func (c *SerialConn) Close() error {
	var err error
	c.closeOnce.Do(func() {
		close(c.closed)
		err = c.port.Close()
	})
	return err
}

func (c *SerialConn) Err() error { return c.errs.get() }
