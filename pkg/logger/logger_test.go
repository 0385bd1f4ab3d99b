package logger

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewFiltersBelowConfiguredLevel(t *testing.T) {
	var buf bytes.Buffer
	l := New(&Config{Level: WarnLevel, TimeFormat: time.RFC3339, Output: &buf})

	l.Info().Msg("routine detail")
	assert.Empty(t, buf.String())

	l.Error().Msg("upstream unreachable")
	assert.Contains(t, buf.String(), "upstream unreachable")
}

func TestNewNilConfigDefaultsToInfo(t *testing.T) {
	l := New(nil)
	assert.Equal(t, InfoLevel, l.GetLevel())
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, DebugLevel, ParseLevel("debug"))
	assert.Equal(t, ErrorLevel, ParseLevel("error"))
	assert.Equal(t, InfoLevel, ParseLevel(""))
	assert.Equal(t, InfoLevel, ParseLevel("shouting"))
}
