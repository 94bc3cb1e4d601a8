package logging

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWithWriter_Formats(t *testing.T) {
	tests := []struct {
		format string
		check  func(t *testing.T, buf *bytes.Buffer)
	}{
		{
			format: "json",
			check: func(t *testing.T, buf *bytes.Buffer) {
				entry := decodeLine(t, buf)
				assert.Equal(t, "transition applied", entry["msg"])
				assert.Equal(t, "brccsis", entry["service_name"])
				assert.Equal(t, "1.4.0", entry["service_version"])
				assert.Equal(t, "finalize", entry["action"])
			},
		},
		{
			format: "text",
			check: func(t *testing.T, buf *bytes.Buffer) {
				assert.Contains(t, buf.String(), `msg="transition applied"`)
				assert.Contains(t, buf.String(), "action=finalize")
			},
		},
		{
			format: "pretty",
			check: func(t *testing.T, buf *bytes.Buffer) {
				assert.Contains(t, buf.String(), "transition applied")
				assert.Contains(t, buf.String(), "brccsis")
			},
		},
		{
			format: "",
			check: func(t *testing.T, buf *bytes.Buffer) {
				assert.Equal(t, "transition applied", decodeLine(t, buf)["msg"])
			},
		},
	}

	for _, tt := range tests {
		t.Run("format "+tt.format, func(t *testing.T) {
			var buf bytes.Buffer
			logger := NewWithWriter(&Config{Level: "info", Format: tt.format, Service: "brccsis", Version: "1.4.0"}, &buf)

			logger.Info("transition applied", slog.String("action", "finalize"))

			tt.check(t, &buf)
		})
	}
}

func TestNewWithWriter_RotatingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "brccsis.log")

	var buf bytes.Buffer
	logger := NewWithWriter(&Config{
		Level:   "info",
		Format:  "pretty",
		Service: "brccsis",
		File:    FileConfig{Enabled: true, Path: path, MaxSizeMB: 1, MaxBackups: 2, MaxAgeDays: 7},
	}, &buf)

	logger.Info("notification stored", slog.String("dsn", "postgres://brccsis:s3nh4@db/brccsis"))

	assert.Contains(t, buf.String(), "notification stored")

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(content), `"msg":"notification stored"`)
	assert.NotContains(t, string(content), "s3nh4")
}

func TestNewWithWriter_FileNeedsPath(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter(&Config{Format: "json", File: FileConfig{Enabled: true}}, &buf)

	_, multi := logger.Handler().(*MultiHandler)
	assert.False(t, multi)
}

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"trace":   LevelTrace,
		"DEBUG":   slog.LevelDebug,
		"info":    slog.LevelInfo,
		"warn":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"verbose": slog.LevelInfo,
	}

	for in, want := range tests {
		assert.Equal(t, want, parseLevel(in), in)
	}
}

func TestTraceLevelReachesJSON(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter(&Config{Level: "trace", Format: "json"}, &buf)

	logger.Log(context.Background(), LevelTrace, "row scanned")
	assert.Contains(t, buf.String(), "row scanned")

	buf.Reset()
	NewWithWriter(&Config{Level: "debug", Format: "json"}, &buf).Log(context.Background(), LevelTrace, "row scanned")
	assert.Empty(t, buf.String())
}

func TestSlogToCharmLevel(t *testing.T) {
	tests := []struct {
		in   slog.Level
		want log.Level
	}{
		{LevelTrace, log.DebugLevel},
		{slog.LevelDebug, log.DebugLevel},
		{slog.LevelInfo, log.InfoLevel},
		{slog.LevelWarn, log.WarnLevel},
		{slog.LevelError, log.ErrorLevel},
		{slog.LevelError + 4, log.ErrorLevel},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, slogToCharmLevel(tt.in), tt.in.String())
	}
}

type failingHandler struct {
	slog.Handler
}

func (failingHandler) Handle(context.Context, slog.Record) error { //nolint:gocritic // slog.Handler signature
	return errors.New("disk full")
}

func TestMultiHandler(t *testing.T) {
	var info, debug bytes.Buffer
	infoHandler := slog.NewJSONHandler(&info, &slog.HandlerOptions{Level: slog.LevelInfo})
	debugHandler := slog.NewJSONHandler(&debug, &slog.HandlerOptions{Level: slog.LevelDebug})

	h := NewMultiHandler(infoHandler, debugHandler)
	ctx := context.Background()

	assert.True(t, h.Enabled(ctx, slog.LevelDebug))
	assert.False(t, h.Enabled(ctx, LevelTrace))

	logger := slog.New(h).With(slog.Int64("quotation_id", 3)).WithGroup("transition")
	logger.Debug("checked", slog.String("action", "accept_by_operator"))
	logger.Info("applied", slog.String("action", "accept_by_operator"))

	assert.NotContains(t, info.String(), "checked")
	assert.Contains(t, info.String(), "applied")
	assert.Contains(t, debug.String(), "checked")
	assert.Contains(t, debug.String(), `"quotation_id":3`)
	assert.Contains(t, debug.String(), `"transition":{"action":"accept_by_operator"}`)

	t.Run("every handler runs and failures are joined", func(t *testing.T) {
		var out bytes.Buffer
		h := NewMultiHandler(
			failingHandler{Handler: slog.NewJSONHandler(&bytes.Buffer{}, nil)},
			slog.NewJSONHandler(&out, nil),
			failingHandler{Handler: slog.NewJSONHandler(&bytes.Buffer{}, nil)},
		)

		rec := slog.NewRecord(time.Now(), slog.LevelInfo, "stored", 0)
		err := h.Handle(ctx, rec)

		require.Error(t, err)
		assert.Equal(t, 2, strings.Count(err.Error(), "disk full"))
		assert.Contains(t, out.String(), "stored")
	})

	t.Run("nil destinations are dropped", func(t *testing.T) {
		var out bytes.Buffer
		h := NewMultiHandler(nil, slog.NewJSONHandler(&out, nil))

		require.NoError(t, slog.New(h).Handler().Handle(ctx, slog.NewRecord(time.Now(), slog.LevelWarn, "kept", 0)))
		assert.Contains(t, out.String(), "kept")
	})

	t.Run("empty group and attrs keep the handler", func(t *testing.T) {
		h := NewMultiHandler(slog.NewJSONHandler(&bytes.Buffer{}, nil))

		assert.Same(t, h, h.WithGroup(""))
		assert.Same(t, h, h.WithAttrs(nil))
	})
}
