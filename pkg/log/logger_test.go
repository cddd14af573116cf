package log

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewContextWithLogger_JSON(t *testing.T) {
	var buf bytes.Buffer
	ctx, flush := NewContextWithLogger(context.Background(), Options{JSON: true, Out: &buf})

	ctx = With(ctx, "driver", "netconf", "dangling")
	FromCtx(ctx).Info().Str("interface", "Loopback66070046").Msg("created")
	FromCtx(ctx).Debug().Msg("hidden")
	flush()

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 1)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(lines[0], &entry))
	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, "created", entry["message"])
	assert.Equal(t, "netconf", entry["driver"])
	assert.Equal(t, "Loopback66070046", entry["interface"])
	assert.NotContains(t, entry, "dangling")
}

func TestNewContextWithLogger_Debug(t *testing.T) {
	var buf bytes.Buffer
	ctx, flush := NewContextWithLogger(context.Background(), Options{Debug: true, Out: &buf})

	FromCtx(ctx).Debug().Msg("debug line")
	flush()

	assert.Contains(t, buf.String(), "debug line")
}
