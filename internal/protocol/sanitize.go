package protocol

import "strings"

// Sanitize strips control bytes from a raw line, keeping only tab and
// bytes >= 0x20, then trims surrounding whitespace. Bytes are kept
// one-to-one; multi-byte encodings are not decoded (known limitation,
// the device speaks ASCII).
func Sanitize(raw string) string {
	var b strings.Builder
	b.Grow(len(raw))
	for i := 0; i < len(raw); i++ {
		c := raw[i]
		if c == '\t' || c >= 0x20 {
			b.WriteByte(c)
		}
	}
	return strings.TrimSpace(b.String())
}
