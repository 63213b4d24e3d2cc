package handlers

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSetLogger(t *testing.T) {
	orig := logger
	t.Cleanup(func() { logger = orig })

	var buf bytes.Buffer
	custom := slog.New(slog.NewJSONHandler(&buf, nil))

	SetLogger(custom)
	assert.Same(t, custom, logger)

	logger.Error("boom")
	assert.Contains(t, buf.String(), "boom")

	SetLogger(nil)
	assert.Same(t, custom, logger, "nil leaves the installed logger in place")
}
