package main

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWarnNoUser(t *testing.T) {
	var buf bytes.Buffer
	warnNoUser(slog.New(slog.NewTextHandler(&buf, nil)))

	out := buf.String()
	assert.Contains(t, out, "level=WARN")
	assert.Contains(t, out, "message_received_or_sent")
	assert.NotContains(t, out, "count as received")
}
