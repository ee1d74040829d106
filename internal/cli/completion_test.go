package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenBashCompletion(t *testing.T) {
	var buf bytes.Buffer
	err := rootCmd.GenBashCompletion(&buf)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "wakeboard")
}

func TestGenZshCompletion(t *testing.T) {
	var buf bytes.Buffer
	err := rootCmd.GenZshCompletion(&buf)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "wakeboard")
}

func TestRootCommandRegistrations(t *testing.T) {
	names := make(map[string]bool)
	for _, cmd := range rootCmd.Commands() {
		names[cmd.Name()] = true
	}

	for _, want := range []string{"check", "wake", "run", "init", "version", "completion"} {
		assert.True(t, names[want], "command %q should be registered", want)
	}
}
