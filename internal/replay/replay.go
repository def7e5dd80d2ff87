// Package replay reads and writes input-event capture logs.
//
// A capture is a JSONL file: a header line identifying the session,
// then one canonical input event per line. Captures make recognition
// debuggable offline: a host records a session once and the replay
// tool feeds it through an engine with the original timestamps, so
// every timing-sensitive classification reproduces exactly.
package replay

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/google/uuid"

	"easteregg/internal/input"
)

// ErrBadHeader is returned when a capture does not start with a
// parseable header line.
var ErrBadHeader = errors.New("replay: malformed capture header")

// Header is the first line of a capture file.
type Header struct {
	Session   string `json:"session"`
	CreatedMs int64  `json:"created_ms"`
}

// Writer appends events to a capture stream.
type Writer struct {
	w      io.Writer
	header Header
}

// NewWriter writes a fresh capture header to w and returns the writer.
func NewWriter(w io.Writer) (*Writer, error) {
	h := Header{
		Session:   uuid.NewString(),
		CreatedMs: time.Now().UnixMilli(),
	}
	if err := writeLine(w, h); err != nil {
		return nil, fmt.Errorf("replay: write header: %w", err)
	}
	return &Writer{w: w, header: h}, nil
}

// Header returns the session header written at construction.
func (w *Writer) Header() Header { return w.header }

// Write appends one event line.
func (w *Writer) Write(ev input.Event) error {
	if err := writeLine(w.w, ev); err != nil {
		return fmt.Errorf("replay: write event: %w", err)
	}
	return nil
}

func writeLine(w io.Writer, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	data = append(data, '\n')
	_, err = w.Write(data)
	return err
}

// Read streams a capture, invoking fn for every event line in order.
// It returns the header and the number of events delivered. Blank
// lines are skipped; a malformed event line aborts the read.
func Read(r io.Reader, fn func(input.Event) error) (Header, int, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	if !sc.Scan() {
		if err := sc.Err(); err != nil {
			return Header{}, 0, fmt.Errorf("replay: read header: %w", err)
		}
		return Header{}, 0, ErrBadHeader
	}
	var h Header
	if err := json.Unmarshal(sc.Bytes(), &h); err != nil || h.Session == "" {
		return Header{}, 0, ErrBadHeader
	}

	count := 0
	for sc.Scan() {
		line := sc.Bytes()
		if len(line) == 0 {
			continue
		}
		var ev input.Event
		if err := json.Unmarshal(line, &ev); err != nil {
			return h, count, fmt.Errorf("replay: event %d: %w", count+1, err)
		}
		if err := fn(ev); err != nil {
			return h, count, err
		}
		count++
	}
	if err := sc.Err(); err != nil {
		return h, count, fmt.Errorf("replay: scan: %w", err)
	}
	return h, count, nil
}

// ReadFile streams a capture file through fn.
func ReadFile(path string, fn func(input.Event) error) (Header, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return Header{}, 0, fmt.Errorf("replay: open capture: %w", err)
	}
	defer f.Close()
	return Read(f, fn)
}
