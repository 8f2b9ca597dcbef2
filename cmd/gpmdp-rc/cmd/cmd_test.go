package cmd

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestSplitSeekArgs(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		offsets []string
		rest    []string
	}{
		{"negative", []string{"-10"}, []string{"-10"}, nil},
		{"positive with flags", []string{"--url", "ws://x", "+5"}, []string{"+5"}, []string{"--url", "ws://x"}},
		{"word", []string{"backward", "-d"}, nil, []string{"backward", "-d"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			offsets, rest := splitSeekArgs(tt.args)
			assert.Equal(t, tt.offsets, offsets)
			assert.Equal(t, tt.rest, rest)
		})
	}
}

func TestLoggerLevel(t *testing.T) {
	level, err := loggerLevel("warn", false, false)
	require.NoError(t, err)
	assert.Equal(t, zap.WarnLevel, level)

	level, err = loggerLevel("warn", true, false)
	require.NoError(t, err)
	assert.Equal(t, zap.InfoLevel, level)

	level, err = loggerLevel("error", true, true)
	require.NoError(t, err)
	assert.Equal(t, zap.DebugLevel, level)

	level, err = loggerLevel("ERROR", false, false)
	require.NoError(t, err)
	assert.Equal(t, zap.ErrorLevel, level)

	_, err = loggerLevel("loud", false, false)
	assert.Error(t, err)
}

func TestLinePrompter(t *testing.T) {
	t.Run("reads one line", func(t *testing.T) {
		var out bytes.Buffer
		p := newLinePrompter(strings.NewReader("4321\r\nextra\n"), &out)

		code, err := p.PromptCode(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "4321", code)
		assert.Equal(t, codePrompt, out.String())
	})

	t.Run("accepts a final line without newline", func(t *testing.T) {
		p := newLinePrompter(strings.NewReader("9999"), &bytes.Buffer{})
		code, err := p.PromptCode(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "9999", code)
	})

	t.Run("empty input", func(t *testing.T) {
		p := newLinePrompter(strings.NewReader(""), &bytes.Buffer{})
		_, err := p.PromptCode(context.Background())
		assert.Error(t, err)
	})
}

func TestVerbCommands(t *testing.T) {
	for _, verb := range []string{"auth", "status", "seek", "search", "volume", "lyrics"} {
		c, _, err := rootCmd.Find([]string{verb})
		require.NoError(t, err, verb)
		assert.Equal(t, verb, c.Name())
	}

	for verb := range verbArgs {
		_, _, err := rootCmd.Find([]string{verb})
		assert.NoError(t, err, verb)
	}
}
