package logger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestInitialize(t *testing.T) {
	tests := []struct {
		name       string
		jsonOutput bool
		verbosity  int
	}{
		{name: "JSON output mode", jsonOutput: true},
		{name: "Console output mode", jsonOutput: false},
		{name: "Console debug", jsonOutput: false, verbosity: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			restore := Use(nil)
			defer restore()
			JSONOutput = false

			require.NoError(t, Initialize(tt.jsonOutput, tt.verbosity))
			require.NotNil(t, Logger)
			assert.Equal(t, tt.jsonOutput, JSONOutput)
			assert.Equal(t, tt.verbosity > 0, Logger.Desugar().Core().Enabled(zapcore.DebugLevel))
		})
	}
}

func TestVerbosityToLevel(t *testing.T) {
	assert.Equal(t, zapcore.WarnLevel, VerbosityToLevel(-1))
	assert.Equal(t, zapcore.InfoLevel, VerbosityToLevel(0))
	assert.Equal(t, zapcore.DebugLevel, VerbosityToLevel(1))
	assert.Equal(t, zapcore.DebugLevel, VerbosityToLevel(5))
}

func TestLevelName(t *testing.T) {
	assert.Equal(t, "Quiet", LevelName(-1))
	assert.Equal(t, "Default", LevelName(0))
	assert.Equal(t, "Debug (-v)", LevelName(1))
	assert.Equal(t, "Trace (-vv)", LevelName(2))
	assert.True(t, ShouldLogTrace(2))
	assert.False(t, ShouldLogTrace(1))
}

func TestLoggerFromContext(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	base := zap.New(core).Sugar()

	ctx := WithRunID(context.Background(), "run-1")
	assert.Equal(t, "run-1", RunIDFromContext(ctx))

	LoggerFromContext(ctx, base).Infow("collected", FieldCount, 3)
	LoggerFromContext(context.Background(), base).Infow("plain")

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, "run-1", entries[0].ContextMap()[FieldRunID])
	assert.EqualValues(t, 3, entries[0].ContextMap()[FieldCount])
	assert.NotContains(t, entries[1].ContextMap(), FieldRunID)
}

func TestPackageHelpersUseGlobal(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	restore := Use(zap.New(core).Sugar())
	defer restore()

	Infow("info", FieldSource, "octo/site")
	Warnw("warn")
	Errorw("error")
	Debugw("debug")
	ComponentLogger("collect").Infow("named")

	require.Equal(t, 5, logs.Len())
	assert.Equal(t, "collect", logs.All()[4].LoggerName)
}
