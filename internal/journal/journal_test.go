package journal

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/coder/quartz"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleRecord(hand int) Record {
	return Record{
		HandIndex:    hand,
		HandID:       "table-hand",
		Seat:         0,
		RawActions:   "b100c/b200",
		Actions:      "r100c/r300",
		ReferenceBet: 300,
		Line:         "MATCHSTATE:0:1:r100c/r300:AsKd|/2c3d4h\n",
		Advice:       "900",
		Decision:     "pot",
	}
}

func TestJournalFlushesEveryN(t *testing.T) {
	path := filepath.Join(t.TempDir(), "journal.toml")
	mockClock := quartz.NewMock(t)
	j := New(Config{Path: path, FlushEvery: 2, Clock: mockClock}, zerolog.Nop())

	require.NoError(t, j.Append(sampleRecord(1)))
	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err), "flushed before FlushEvery records")

	mockClock.Advance(time.Second)
	require.NoError(t, j.Append(sampleRecord(2)))

	doc, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, j.SessionID(), doc.SessionID)
	require.Len(t, doc.Records, 2)
	assert.Equal(t, "r100c/r300", doc.Records[0].Actions)
	assert.Equal(t, "MATCHSTATE:0:1:r100c/r300:AsKd|/2c3d4h\n", doc.Records[1].Line)
	assert.Equal(t, time.Second, doc.Records[1].Time.Sub(doc.Records[0].Time))
}

func TestJournalCloseFlushesRemainder(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "journal.toml")
	j := New(Config{Path: path, FlushEvery: 100}, zerolog.Nop())

	rec := sampleRecord(1)
	rec.Malformed = []string{`acpc: malformed raise segment "x" (street 0, raise 1)`}
	require.NoError(t, j.Append(rec))
	require.NoError(t, j.Close())

	doc, err := Load(path)
	require.NoError(t, err)
	require.Len(t, doc.Records, 1)
	assert.Equal(t, rec.Malformed, doc.Records[0].Malformed)
}

func TestJournalWithoutPathDiscardsFlushed(t *testing.T) {
	j := New(Config{FlushEvery: 2}, zerolog.Nop())
	require.NoError(t, j.Append(sampleRecord(1)))
	assert.Len(t, j.Records(), 1)
	assert.False(t, j.Records()[0].Time.IsZero())

	require.NoError(t, j.Close())
	assert.Empty(t, j.Records())
	assert.Equal(t, 1, j.Written())
}

func TestJournalAppendsWithoutRewriting(t *testing.T) {
	path := filepath.Join(t.TempDir(), "journal.toml")
	j := New(Config{Path: path, FlushEvery: 2}, zerolog.Nop())

	require.NoError(t, j.Append(sampleRecord(1)))
	require.NoError(t, j.Append(sampleRecord(2)))
	assert.Empty(t, j.Records(), "flushed records are released")

	// Anything already on disk must survive later flushes untouched.
	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0o644)
	require.NoError(t, err)
	_, err = f.WriteString("# first flush\n")
	require.NoError(t, err)
	require.NoError(t, f.Close())

	for hand := 3; hand <= 5; hand++ {
		rec := sampleRecord(hand)
		rec.HandID = fmt.Sprintf("hand-%d", hand)
		require.NoError(t, j.Append(rec))
	}
	require.NoError(t, j.Close())
	assert.Equal(t, 5, j.Written())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(string(data), "# first flush"))
	assert.Equal(t, 1, strings.Count(string(data), "session_id"))

	doc, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, j.SessionID(), doc.SessionID)
	require.Len(t, doc.Records, 5)
	for i, rec := range doc.Records {
		assert.Equal(t, i+1, rec.HandIndex)
	}
	assert.Equal(t, "hand-5", doc.Records[4].HandID)
}

func TestEncodeLayout(t *testing.T) {
	doc := &Document{
		SessionID: "abc",
		StartedAt: time.Date(2025, time.March, 1, 12, 0, 0, 0, time.UTC),
	}
	var buf strings.Builder
	require.NoError(t, Encode(&buf, doc))
	assert.Contains(t, buf.String(), `session_id = "abc"`)
	assert.Contains(t, buf.String(), "started_at = 2025-03-01T12:00:00Z")

	assert.Error(t, Encode(&buf, nil))
}
