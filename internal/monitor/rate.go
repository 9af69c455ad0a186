package monitor

import (
	"strconv"
	"strings"
)

// rateTracker estimates the pulse rate from the Wait: values on live
// lines. The device reports the delay it will sleep before the next
// pulse, so averaging the last two waits and inverting gives a smoothed
// instantaneous rate.
type rateTracker struct {
	waits [2]float64
	n     int
}

func (r *rateTracker) observe(line string) {
	ms, ok := parseWaitMS(line)
	if !ok || ms <= 0 {
		return
	}
	r.waits[0] = r.waits[1]
	r.waits[1] = ms
	if r.n < 2 {
		r.n++
	}
}

// rateHz returns the current estimate in pulses per second, clamped to
// [1, 1000]. Zero means no samples yet.
func (r *rateTracker) rateHz() float64 {
	if r.n == 0 {
		return 0
	}
	var avg float64
	if r.n == 1 {
		avg = r.waits[1]
	} else {
		avg = (r.waits[0] + r.waits[1]) / 2
	}
	hz := 1000 / avg
	if hz < 1 {
		hz = 1
	}
	if hz > 1000 {
		hz = 1000
	}
	return hz
}

func (r *rateTracker) reset() {
	*r = rateTracker{}
}

// parseWaitMS extracts the numeric value from a "Wait: <n> ms" fragment.
func parseWaitMS(line string) (float64, bool) {
	i := strings.Index(line, "Wait:")
	if i < 0 {
		return 0, false
	}
	rest := line[i+len("Wait:"):]
	if j := strings.Index(rest, "ms"); j >= 0 {
		rest = rest[:j]
	}
	ms, err := strconv.ParseFloat(strings.TrimSpace(rest), 64)
	if err != nil {
		return 0, false
	}
	return ms, true
}
