package replay

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"easteregg/internal/input"
)

// Follow tails a growing capture file, delivering each appended event
// to fn as it lands. It consumes the whole existing file first, then
// blocks on filesystem notifications until ctx is cancelled. The
// header line is validated but not delivered.
func Follow(ctx context.Context, path string, fn func(input.Event) error) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("replay: open capture: %w", err)
	}
	defer f.Close()

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("replay: create watcher: %w", err)
	}
	defer watcher.Close()
	// Watch the directory, not the file: editors and atomic writers
	// replace files, and directory watches survive that.
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		return fmt.Errorf("replay: watch %s: %w", filepath.Dir(path), err)
	}

	r := bufio.NewReader(f)
	sawHeader := false
	count := 0

	drain := func() error {
		for {
			line, err := r.ReadBytes('\n')
			if err == io.EOF {
				// Partial line: rewind so the next drain re-reads it
				// once the writer finishes the line.
				if len(line) > 0 {
					if _, serr := f.Seek(-int64(len(line)), io.SeekCurrent); serr != nil {
						return fmt.Errorf("replay: rewind partial line: %w", serr)
					}
					r.Reset(f)
				}
				return nil
			}
			if err != nil {
				return fmt.Errorf("replay: read: %w", err)
			}
			line = line[:len(line)-1]
			if len(line) == 0 {
				continue
			}
			if !sawHeader {
				var h Header
				if jerr := json.Unmarshal(line, &h); jerr != nil || h.Session == "" {
					return ErrBadHeader
				}
				sawHeader = true
				continue
			}
			var ev input.Event
			if jerr := json.Unmarshal(line, &ev); jerr != nil {
				return fmt.Errorf("replay: event %d: %w", count+1, jerr)
			}
			if ferr := fn(ev); ferr != nil {
				return ferr
			}
			count++
		}
	}

	if err := drain(); err != nil {
		return err
	}

	base := filepath.Base(path)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Base(ev.Name) != base {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if err := drain(); err != nil {
				return err
			}
		case werr, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			return fmt.Errorf("replay: watch: %w", werr)
		}
	}
}
