package logger_adapter

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Venuja2003/Estate-Agent/internal/core/port"
)

type fakePoster struct {
	tags    []string
	records []map[string]interface{}
	closed  bool
}

func (f *fakePoster) Post(tag string, message interface{}) error {
	f.tags = append(f.tags, tag)
	f.records = append(f.records, message.(port.Fields))
	return nil
}

func (f *fakePoster) Close() error {
	f.closed = true
	return nil
}

func TestSlogAdapter_JSON(t *testing.T) {
	var buf bytes.Buffer
	log := NewSlogAdapter(SlogConfig{Writer: &buf, IsJSON: true, Level: slog.LevelDebug})

	log.WithFields(port.Fields{"use_case": "Search"}).Error("boom", errors.New("bad"), port.Fields{"n": 2})

	var line map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "ERROR", line["level"])
	assert.Equal(t, "boom", line["msg"])
	assert.Equal(t, "Search", line["use_case"])
	assert.Equal(t, "bad", line["error"])
	assert.EqualValues(t, 2, line["n"])
}

func TestSlogAdapter_LevelFilter(t *testing.T) {
	var buf bytes.Buffer
	log := NewSlogAdapter(SlogConfig{Writer: &buf})

	log.Debug("hidden", nil)
	assert.Zero(t, buf.Len())
	log.Info("shown", nil)
	assert.Contains(t, buf.String(), "shown")
}

func TestFluentAdapter(t *testing.T) {
	poster := &fakePoster{}
	log, err := NewFluentLoggerAdapter(poster, slog.LevelInfo)
	require.NoError(t, err)

	log.Debug("dropped", nil)
	scoped := log.WithFields(port.Fields{"trace_id": "abc"})
	scoped.Warn("careful", port.Fields{"k": "v"})
	scoped.Error("failed", errors.New("nope"), nil)

	require.Equal(t, []string{"warn", "error"}, poster.tags)
	assert.Equal(t, "abc", poster.records[0]["trace_id"])
	assert.Equal(t, "v", poster.records[0]["k"])
	assert.Equal(t, "careful", poster.records[0]["message"])
	assert.Equal(t, "nope", poster.records[1]["error"])

	// parent logger is not affected by WithFields
	log.Info("plain", nil)
	_, has := poster.records[2]["trace_id"]
	assert.False(t, has)

	require.NoError(t, log.Close())
	assert.True(t, poster.closed)

	_, err = NewFluentLoggerAdapter(nil, nil)
	assert.Error(t, err)
}

func TestMultiLoggerAdapter(t *testing.T) {
	a, b := &fakePoster{}, &fakePoster{}
	la, _ := NewFluentLoggerAdapter(a, slog.LevelDebug)
	lb, _ := NewFluentLoggerAdapter(b, slog.LevelWarn)

	multi, err := NewMultiLoggerAdapter(la, lb)
	require.NoError(t, err)

	multi.WithFields(port.Fields{"x": 1}).Info("hello", nil)
	multi.Warn("warned", nil)

	assert.Equal(t, []string{"info", "warn"}, a.tags)
	assert.Equal(t, []string{"warn"}, b.tags)
	assert.Equal(t, 1, a.records[0]["x"])

	_, err = NewMultiLoggerAdapter()
	assert.Error(t, err)
}
