// Package logfile persists device report lines to date-rotated text
// files (one file per day, named YYYY-MM-DD.txt).
package logfile

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"
)

type Writer struct {
	dir         string
	currentDate string
	file        *os.File
	now         func() time.Time
}

// New opens (or creates) today's log file under dir. A nil file is
// tolerated: writes become no-ops after the open failure is logged, so
// a bad log folder never takes the monitor down.
func New(dir string) *Writer {
	w := &Writer{
		dir: dir,
		now: time.Now,
	}
	w.currentDate = w.now().Format("2006-01-02")
	w.file = openForDate(dir, w.currentDate)
	return w
}

func openForDate(dir, date string) *os.File {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		log.Printf("logfile: creating %s: %v", dir, err)
		return nil
	}

	path := filepath.Join(dir, date+".txt")
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		log.Printf("logfile: opening %s: %v", path, err)
		return nil
	}
	log.Printf("logfile: writing to %s", path)
	return f
}

func (w *Writer) rotateIfNeeded() {
	today := w.now().Format("2006-01-02")
	if today == w.currentDate {
		return
	}
	if w.file != nil {
		w.file.Close()
	}
	w.currentDate = today
	w.file = openForDate(w.dir, today)
}

// WriteLine appends one line with a [HH:MM:SS] prefix. Banner lines get
// no timestamp: empty lines, lines starting with '*', '-' or '=', and
// lines containing "SYSTEM" (reset separators and device reset
// acknowledgements).
func (w *Writer) WriteLine(content string) {
	w.rotateIfNeeded()
	if w.file == nil {
		return
	}

	out := w.formatLine(content)
	if _, err := w.file.Write([]byte(out)); err != nil {
		log.Printf("logfile: write failed: %v", err)
		return
	}
	w.file.Sync()
}

func (w *Writer) formatLine(content string) string {
	if isBanner(content) {
		return content + "\r\n"
	}
	return fmt.Sprintf("[%s] %s\r\n", w.now().Format("15:04:05"), content)
}

func isBanner(content string) bool {
	if content == "" {
		return true
	}
	switch content[0] {
	case '*', '-', '=':
		return true
	}
	return strings.Contains(content, "SYSTEM")
}

// Close releases the current file. Further writes are no-ops.
func (w *Writer) Close() error {
	if w.file == nil {
		return nil
	}
	err := w.file.Close()
	w.file = nil
	return err
}
