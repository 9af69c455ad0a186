package logfile

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func newTestWriter(t *testing.T, now time.Time) (*Writer, string) {
	t.Helper()
	dir := t.TempDir()
	w := New(dir)
	w.now = func() time.Time { return now }
	// Reopen under the injected clock's date.
	w.currentDate = now.Format("2006-01-02")
	if w.file != nil {
		w.file.Close()
	}
	w.file = openForDate(dir, w.currentDate)
	t.Cleanup(func() { w.Close() })
	return w, dir
}

func readLog(t *testing.T, dir, date string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(dir, date+".txt"))
	if err != nil {
		t.Fatalf("reading log: %v", err)
	}
	return string(data)
}

func TestWriteLineTimestamped(t *testing.T) {
	now := time.Date(2026, 8, 25, 14, 30, 45, 0, time.UTC)
	w, dir := newTestWriter(t, now)

	w.WriteLine("[STAGE REPORT] Duration: 1500 ms")

	got := readLog(t, dir, "2026-08-25")
	want := "[14:30:45] [STAGE REPORT] Duration: 1500 ms\r\n"
	if got != want {
		t.Errorf("log content = %q, want %q", got, want)
	}
}

func TestWriteLineBannersSkipTimestamp(t *testing.T) {
	now := time.Date(2026, 8, 25, 9, 0, 0, 0, time.UTC)
	w, dir := newTestWriter(t, now)

	banners := []string{
		"",
		"===== SYSTEM RESET =====",
		"*** stage banner",
		"--- separator",
		"device said SYSTEM RESET OK",
	}
	for _, b := range banners {
		w.WriteLine(b)
	}

	got := readLog(t, dir, "2026-08-25")
	if strings.Contains(got, "[09:00:00]") {
		t.Errorf("banner lines must not carry timestamps:\n%s", got)
	}
	if !strings.HasSuffix(got, "\r\n") {
		t.Errorf("log lines must end with CRLF")
	}
	if lines := strings.Count(got, "\r\n"); lines != len(banners) {
		t.Errorf("wrote %d lines, want %d", lines, len(banners))
	}
}

func TestRotationOnDateChange(t *testing.T) {
	now := time.Date(2026, 8, 25, 23, 59, 0, 0, time.UTC)
	w, dir := newTestWriter(t, now)

	w.WriteLine("before midnight")

	now = now.Add(2 * time.Minute)
	w.now = func() time.Time { return now }
	w.WriteLine("after midnight")

	day1 := readLog(t, dir, "2026-08-25")
	day2 := readLog(t, dir, "2026-08-26")
	if !strings.Contains(day1, "before midnight") {
		t.Errorf("day1 log = %q", day1)
	}
	if !strings.Contains(day2, "after midnight") {
		t.Errorf("day2 log = %q", day2)
	}
	if strings.Contains(day1, "after midnight") {
		t.Error("post-rotation line landed in the old file")
	}
}

func TestWriterSurvivesBadDir(t *testing.T) {
	file := filepath.Join(t.TempDir(), "not-a-dir")
	if err := os.WriteFile(file, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	w := New(filepath.Join(file, "logs"))
	// Must not panic; writes are dropped.
	w.WriteLine("lost line")
	w.Close()
}

func TestIsBanner(t *testing.T) {
	tests := []struct {
		line string
		want bool
	}{
		{"", true},
		{"= separator", true},
		{"- dash", true},
		{"* star", true},
		{"SYSTEM RESET OK", true},
		{"contains SYSTEM inside", true},
		{"[STAGE REPORT] normal", false},
		{"system lowercase", false},
	}
	for _, tt := range tests {
		if got := isBanner(tt.line); got != tt.want {
			t.Errorf("isBanner(%q) = %v, want %v", tt.line, got, tt.want)
		}
	}
}
