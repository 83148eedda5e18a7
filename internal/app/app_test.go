package app

import (
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/blockflow/internal/hcl"
)

func writeScheme(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scheme.hcl")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func newTestApp(t *testing.T, schemeHCL string) *App {
	t.Helper()
	cfg, err := NewConfig(Config{
		SchemePath: writeScheme(t, schemeHCL),
		LogFormat:  "text",
		LogLevel:   "error",
		TickPeriod: time.Millisecond,
	})
	require.NoError(t, err)

	a, err := NewApp(io.Discard, cfg, hcl.NewLoader())
	require.NoError(t, err)
	return a
}

func TestAssembleScheme(t *testing.T) {
	a := newTestApp(t, `
block "sine" "gen" {
  arguments {
    amplitude = 1.5
  }
}

block "pid" "ctl" {}

block "console" "out" {}

connect {
  from = "gen.out"
  to   = "ctl.feedback"
}

connect {
  from = "ctl.command"
  to   = "out.in"
}

group "loop" {
  members = ["gen", "ctl", "out"]
}
`)

	s := a.Scheme()
	assert.Equal(t, []string{"gen", "ctl", "out"}, s.GetExecutionOrder())
	assert.Equal(t, []string{"loop"}, s.GetGroups())

	t.Run("blocks arrive configured and stopped", func(t *testing.T) {
		for _, name := range s.GetBlocks() {
			h, ok := s.Block(name)
			require.True(t, ok)
			assert.True(t, h.IsConfigured())
			assert.False(t, h.IsRunning())
		}
	})

	t.Run("group drives the whole loop", func(t *testing.T) {
		require.True(t, s.EnableBlocks([]string{"loop"}, true, false))
		s.Update(time.Now())
		require.True(t, s.DisableBlocks([]string{"loop"}, true))
	})
}

func TestAssembleLatchedFeedback(t *testing.T) {
	a := newTestApp(t, `
block "pid" "outer" {}

block "pid" "inner" {}

connect {
  from = "outer.command"
  to   = "inner.setpoint"
}

connect {
  from    = "inner.command"
  to      = "outer.feedback"
  latched = true
}
`)

	assert.Equal(t, []string{"outer", "inner"}, a.Scheme().GetExecutionOrder())
}

func TestAssembleErrors(t *testing.T) {
	t.Run("unknown block type", func(t *testing.T) {
		cfg, err := NewConfig(Config{SchemePath: writeScheme(t, `
block "warp_drive" "engage" {}
`), LogLevel: "error", TickPeriod: time.Millisecond})
		require.NoError(t, err)
		_, err = NewApp(io.Discard, cfg, hcl.NewLoader())
		assert.ErrorContains(t, err, "unknown block type")
	})

	t.Run("duplicate instance name", func(t *testing.T) {
		cfg, err := NewConfig(Config{SchemePath: writeScheme(t, `
block "sine" "gen" {}
block "sine" "gen" {}
`), LogLevel: "error", TickPeriod: time.Millisecond})
		require.NoError(t, err)
		_, err = NewApp(io.Discard, cfg, hcl.NewLoader())
		assert.ErrorContains(t, err, "declared twice")
	})

	t.Run("unlatched feedback loop", func(t *testing.T) {
		cfg, err := NewConfig(Config{SchemePath: writeScheme(t, `
block "pid" "outer" {}
block "pid" "inner" {}

connect {
  from = "outer.command"
  to   = "inner.setpoint"
}

connect {
  from = "inner.command"
  to   = "outer.feedback"
}
`), LogLevel: "error", TickPeriod: time.Millisecond})
		require.NoError(t, err)
		_, err = NewApp(io.Discard, cfg, hcl.NewLoader())
		assert.ErrorContains(t, err, "rejected")
	})
}
