package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveConfig_FlagsOverrideEnv(t *testing.T) {
	t.Setenv("RETRACE_DEBOUNCE", "3s")
	t.Setenv("RETRACE_MAX_DEPTH", "7")

	require.NoError(t, runCmd.ParseFlags([]string{"--debounce=25ms", "--undo-floor=0", "--log-level=debug"}))

	cfg, err := resolveConfig(runCmd)
	require.NoError(t, err)

	assert.Equal(t, 25*time.Millisecond, cfg.History.Debounce)
	assert.Equal(t, 0, cfg.History.UndoFloor)
	assert.Equal(t, 7, cfg.History.MaxDepth)
	assert.Equal(t, "debug", cfg.Logging.Level)
}
