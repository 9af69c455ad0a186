package transport

import "strings"

// lineBuffer accumulates raw bytes and splits them into lines on CR or
// LF. Trailing spaces and tabs are trimmed and empty lines are skipped,
// so CRLF-terminated streams produce one line per terminator pair.
type lineBuffer struct {
	buf []byte
}

// feed appends data and returns every complete line it closes off.
// Bytes after the last terminator stay buffered for the next call.
func (b *lineBuffer) feed(data []byte) []string {
	b.buf = append(b.buf, data...)

	var out []string
	start := 0
	for i, c := range b.buf {
		if c != '\r' && c != '\n' {
			continue
		}
		line := strings.TrimRight(string(b.buf[start:i]), " \t")
		if line != "" {
			out = append(out, line)
		}
		start = i + 1
	}
	b.buf = b.buf[:copy(b.buf, b.buf[start:])]
	return out
}
