package logging

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestFromContextFallsBackToNop(t *testing.T) {
	require.NotNil(t, FromContext(context.Background()))
	require.NotNil(t, FromContext(nil)) //nolint:staticcheck // nil context is tolerated on purpose
}

func TestWithLoggerRoundTrip(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	ctx := WithLogger(context.Background(), zap.New(core))

	FromContext(ctx).Debug("group synthesized", zap.String("type", "Prefs"))

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	require.Equal(t, "group synthesized", entry.Message)
	require.Equal(t, "Prefs", entry.ContextMap()["type"])
}

func TestNewLevels(t *testing.T) {
	l, err := New("off")
	require.NoError(t, err)
	require.False(t, l.Core().Enabled(zapcore.ErrorLevel))

	l, err = New("debug")
	require.NoError(t, err)
	require.True(t, l.Core().Enabled(zapcore.DebugLevel))

	l, err = New("")
	require.NoError(t, err)
	require.False(t, l.Core().Enabled(zapcore.InfoLevel))
	require.True(t, l.Core().Enabled(zapcore.WarnLevel))

	_, err = New("loud")
	require.Error(t, err)
}
