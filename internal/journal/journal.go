// Package journal keeps a per-session record of every exchange with the
// agent and writes it to disk as TOML.
package journal

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/coder/quartz"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/lox/acpcbridge/internal/fileutil"
)

const defaultFlushEvery = 10

// Record is one decision point.
type Record struct {
	Time         time.Time `toml:"time"`
	HandIndex    int       `toml:"hand_index"`
	HandID       string    `toml:"hand_id"`
	Seat         int       `toml:"seat"`
	RawActions   string    `toml:"raw_actions"`
	Actions      string    `toml:"actions"`
	ReferenceBet int       `toml:"reference_bet"`
	Malformed    []string  `toml:"malformed,omitempty"`
	Line         string    `toml:"line"`
	Advice       string    `toml:"advice,omitempty"`
	Decision     string    `toml:"decision,omitempty"`
	Error        string    `toml:"error,omitempty"`
}

// Document is the on-disk layout of a journal.
type Document struct {
	SessionID string    `toml:"session_id"`
	StartedAt time.Time `toml:"started_at"`
	Records   []Record  `toml:"records"`
}

// Config controls where and how often the journal is written.
type Config struct {
	// Path of the TOML file. Empty keeps records in memory only.
	Path string

	// FlushEvery writes the file after this many new records.
	FlushEvery int

	Clock quartz.Clock
}

// Journal collects records for one session. Only records not yet written
// are held in memory; each flush appends them to the file. It is safe for
// concurrent use.
type Journal struct {
	cfg    Config
	logger zerolog.Logger
	header Document

	mu      sync.Mutex
	pending []Record
	written int
	started bool
}

func New(cfg Config, logger zerolog.Logger) *Journal {
	if cfg.FlushEvery <= 0 {
		cfg.FlushEvery = defaultFlushEvery
	}
	if cfg.Clock == nil {
		cfg.Clock = quartz.NewReal()
	}
	id := uuid.NewString()
	return &Journal{
		cfg:    cfg,
		logger: logger.With().Str("session_id", id).Logger(),
		header: Document{
			SessionID: id,
			StartedAt: cfg.Clock.Now().UTC(),
		},
		pending: make([]Record, 0, cfg.FlushEvery),
	}
}

// SessionID identifies this journal.
func (j *Journal) SessionID() string {
	return j.header.SessionID
}

// Append adds a record, stamping it with the current time when unset, and
// flushes once FlushEvery records are pending.
func (j *Journal) Append(rec Record) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	if rec.Time.IsZero() {
		rec.Time = j.cfg.Clock.Now().UTC()
	}
	j.pending = append(j.pending, rec)
	if len(j.pending) >= j.cfg.FlushEvery {
		return j.flushLocked()
	}
	return nil
}

// Records returns a copy of the records not yet flushed.
func (j *Journal) Records() []Record {
	j.mu.Lock()
	defer j.mu.Unlock()
	return append([]Record(nil), j.pending...)
}

// Written is the number of records flushed so far.
func (j *Journal) Written() int {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.written
}

// Flush writes pending records. Without a Path they are discarded.
func (j *Journal) Flush() error {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.flushLocked()
}

// Close flushes outstanding records.
func (j *Journal) Close() error {
	return j.Flush()
}

// flushLocked creates the file with the session header on the first flush
// and appends [[records]] tables after that. Pending records are kept when
// the write fails.
func (j *Journal) flushLocked() error {
	if len(j.pending) == 0 {
		return nil
	}
	if j.cfg.Path != "" {
		var err error
		if !j.started {
			doc := j.header
			doc.Records = j.pending
			err = fileutil.WriteAtomic(j.cfg.Path, 0o644, func(w io.Writer) error {
				return Encode(w, &doc)
			})
		} else {
			err = j.appendRecords()
		}
		if err != nil {
			return fmt.Errorf("flush journal: %w", err)
		}
		j.started = true
		j.logger.Debug().Str("path", j.cfg.Path).Int("records", len(j.pending)).Msg("Journal flushed")
	}
	j.written += len(j.pending)
	j.pending = j.pending[:0]
	return nil
}

func (j *Journal) appendRecords() error {
	var buf bytes.Buffer
	if err := encodeRecords(&buf, j.pending); err != nil {
		return err
	}
	f, err := os.OpenFile(j.cfg.Path, os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	if _, err := f.Write(buf.Bytes()); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Encode writes doc as TOML.
func Encode(w io.Writer, doc *Document) error {
	if doc == nil {
		return fmt.Errorf("journal: document is nil")
	}
	return newEncoder(w).Encode(doc)
}

func encodeRecords(w io.Writer, records []Record) error {
	return newEncoder(w).Encode(struct {
		Records []Record `toml:"records"`
	}{records})
}

func newEncoder(w io.Writer) *toml.Encoder {
	enc := toml.NewEncoder(w)
	enc.Indent = "\t"
	return enc
}

// Load reads a journal file written by Flush.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var doc Document
	if _, err := toml.Decode(string(data), &doc); err != nil {
		return nil, fmt.Errorf("decode journal %s: %w", path, err)
	}
	return &doc, nil
}
