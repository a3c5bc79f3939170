package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name  string
		level string
		dev   bool
		want  zapcore.Level
	}{
		{name: "production info", level: "info", want: zapcore.InfoLevel},
		{name: "development debug", level: "debug", dev: true, want: zapcore.DebugLevel},
		{name: "warn", level: "warn", want: zapcore.WarnLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, err := New(tt.level, tt.dev)
			require.NoError(t, err)
			assert.True(t, l.Core().Enabled(tt.want))
			assert.False(t, l.Core().Enabled(tt.want-1))
		})
	}
}

func TestNew_InvalidLevel(t *testing.T) {
	_, err := New("loud", false)
	require.Error(t, err)
}

func TestMust_FallsBackToNop(t *testing.T) {
	l := Must("loud", false)
	require.NotNil(t, l)
	assert.False(t, l.Core().Enabled(zapcore.FatalLevel))
}
