package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestNew(t *testing.T) {
	testCases := []struct {
		name     string
		level    string
		format   string
		expected zapcore.Level
	}{
		{name: "Debug json", level: "debug", format: "json", expected: zapcore.DebugLevel},
		{name: "Warn console", level: "warn", format: "console", expected: zapcore.WarnLevel},
		{name: "Unknown level falls back to info", level: "verbose", format: "json", expected: zapcore.InfoLevel},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			l, err := New(tc.level, tc.format, "medtrackd")
			require.NoError(t, err)
			assert.True(t, l.Core().Enabled(tc.expected))
			assert.False(t, l.Core().Enabled(tc.expected-1))
		})
	}
}
