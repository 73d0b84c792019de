package observe

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/coder/quartz"
	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

// DefaultPollInterval is the fallback poll when no file event arrives.
const DefaultPollInterval = 500 * time.Millisecond

// Tailer follows an observation file as the scraper appends to it.
type Tailer struct {
	path      string
	cleanPath string
	logger    zerolog.Logger
	clock     quartz.Clock
	poll      time.Duration

	offset  int64
	partial []byte
	current os.FileInfo
}

// TailerOption configures a Tailer.
type TailerOption func(*Tailer)

// FromEnd skips whatever the file already holds.
func FromEnd() TailerOption {
	return func(t *Tailer) { t.offset = -1 }
}

func WithPollInterval(d time.Duration) TailerOption {
	return func(t *Tailer) {
		if d > 0 {
			t.poll = d
		}
	}
}

func WithTailerClock(clock quartz.Clock) TailerOption {
	return func(t *Tailer) { t.clock = clock }
}

func NewTailer(path string, logger zerolog.Logger, opts ...TailerOption) *Tailer {
	t := &Tailer{
		path:      path,
		cleanPath: filepath.Clean(path),
		logger:    logger.With().Str("path", path).Logger(),
		clock:     quartz.NewReal(),
		poll:      DefaultPollInterval,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Run emits observations appended to the file until ctx is cancelled.
func (t *Tailer) Run(ctx context.Context, out chan<- Observation) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create fsnotify watcher: %w", err)
	}
	defer w.Close()

	// Watch the directory so the file may be created or replaced later.
	dir := filepath.Dir(t.path)
	if err := w.Add(dir); err != nil {
		return fmt.Errorf("watch directory %s: %w", dir, err)
	}

	if t.offset < 0 {
		t.offset = 0
		if info, err := os.Stat(t.path); err == nil {
			t.offset = info.Size()
			t.current = info
		}
	}

	t.logger.Info().Int64("offset", t.offset).Msg("Tailing observations")
	t.readNew(ctx, out)

	ticker := t.clock.NewTicker(t.poll)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) == t.cleanPath && (event.Has(fsnotify.Write) || event.Has(fsnotify.Create)) {
				t.readNew(ctx, out)
			}
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			t.logger.Warn().Err(err).Msg("Watcher error")
		case <-ticker.C:
			t.readNew(ctx, out)
		}
	}
}

func (t *Tailer) readNew(ctx context.Context, out chan<- Observation) {
	data, err := t.readFrom()
	if err != nil {
		if !os.IsNotExist(err) {
			t.logger.Warn().Err(err).Msg("Failed to read observations")
		}
		return
	}
	if len(data) == 0 {
		return
	}

	data = append(t.partial, data...)
	for {
		i := bytes.IndexByte(data, '\n')
		if i < 0 {
			break
		}
		if !emit(ctx, string(data[:i]), out, t.logger) {
			return
		}
		data = data[i+1:]
	}
	t.partial = append([]byte(nil), data...)
}

// readFrom returns bytes appended since the last read. A file that shrank
// was truncated, and a different file at the path replaced the old one;
// both are read again from the start.
func (t *Tailer) readFrom() ([]byte, error) {
	f, err := os.Open(t.path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, err
	}
	replaced := t.current != nil && !os.SameFile(t.current, info)
	if replaced || info.Size() < t.offset {
		t.logger.Info().Bool("replaced", replaced).Int64("offset", t.offset).Msg("Observation file reset, reading from start")
		t.offset = 0
		t.partial = nil
	}
	t.current = info
	if info.Size() == t.offset {
		return nil, nil
	}
	if _, err := f.Seek(t.offset, io.SeekStart); err != nil {
		return nil, err
	}
	data, err := io.ReadAll(f)
	if err != nil {
		return nil, err
	}
	t.offset += int64(len(data))
	return data, nil
}
