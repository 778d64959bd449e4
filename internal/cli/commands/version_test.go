package commands

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewVersionCommand(t *testing.T) {
	cmd := NewVersionCommand("1.2.3", "2026-01-15", "abc1234")
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)

	require.NoError(t, cmd.Execute())

	out := buf.String()
	assert.Contains(t, out, "ccforge 1.2.3")
	assert.Contains(t, out, "2026-01-15")
	assert.Contains(t, out, "abc1234")
	assert.Contains(t, out, "go version:")
}

func TestVersionCommandMetadata(t *testing.T) {
	cmd := NewVersionCommand("dev", "unknown", "unknown")

	assert.Equal(t, "version", cmd.Use)
	assert.NotEmpty(t, cmd.Short, "Short should not be empty")
}
