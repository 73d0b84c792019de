// Package observe reads table observations produced by the page scraper.
//
// The scraper writes one JSON object per line:
//
//	{"hand_id":"42","seat":1,"hole":"AsKd","actions":"b200c/kb100","board":"2c3d4h"}
//
// Lines can arrive on a pipe (ReadLines) or be appended to a file (Tailer).
package observe

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	jsoniter "github.com/json-iterator/go"
	"github.com/rs/zerolog"
)

// Observation is the table state seen at one decision point.
type Observation struct {
	// HandID is the table's identifier for the hand. A change starts a new hand.
	HandID string `json:"hand_id"`
	Seat   int    `json:"seat"`

	// HoleCards are our two cards, e.g. "AsKd".
	HoleCards string `json:"hole"`

	// Actions is the raw action history in table notation.
	Actions string `json:"actions"`

	// Board is the concatenated community cards, empty preflop.
	Board string `json:"board"`
}

// Decode parses one observation line.
func Decode(line string) (Observation, error) {
	var obs Observation
	if err := jsoniter.ConfigCompatibleWithStandardLibrary.UnmarshalFromString(line, &obs); err != nil {
		return Observation{}, fmt.Errorf("decode observation: %w", err)
	}
	return obs, nil
}

// ReadLines decodes observations from r until EOF or cancellation. Lines that
// fail to decode are logged and skipped.
func ReadLines(ctx context.Context, r io.Reader, out chan<- Observation, logger zerolog.Logger) error {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		if !emit(ctx, scanner.Text(), out, logger) {
			return ctx.Err()
		}
	}
	return scanner.Err()
}

// emit decodes and forwards one line. It reports false once ctx is done.
func emit(ctx context.Context, line string, out chan<- Observation, logger zerolog.Logger) bool {
	line = strings.TrimSpace(line)
	if line == "" {
		return ctx.Err() == nil
	}
	obs, err := Decode(line)
	if err != nil {
		logger.Warn().Err(err).Str("line", line).Msg("Skipping observation")
		return ctx.Err() == nil
	}
	select {
	case out <- obs:
		return true
	case <-ctx.Done():
		return false
	}
}
