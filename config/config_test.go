package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))

	require.NoError(t, err)
	require.Equal(t, Default(), cfg)
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
search:
  iterations: 250
  exploration: 0.9
  thinking_time: 0.5
  goroutines: 8
  multithread: true
server:
  addr: ":9999"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := Load(path)

	require.NoError(t, err)
	require.Equal(t, 250, cfg.Search.Iterations)
	require.Equal(t, 0.9, cfg.Search.Exploration)
	require.Equal(t, 8, cfg.Search.Goroutines)
	require.Equal(t, ":9999", cfg.Server.Addr)
	require.Equal(t, "standard", cfg.Engine.Setup, "Untouched sections keep their defaults")

	sc := cfg.SearcherConfig()
	require.Equal(t, 500*time.Millisecond, sc.ThinkingTime)
}

func TestLoadClampsBadValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
search:
  iterations: -5
  goroutines: 0
  thinking_time: -1
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := Load(path)

	require.NoError(t, err)
	require.Equal(t, 1, cfg.Search.Iterations)
	require.Equal(t, 1, cfg.Search.Goroutines)
	require.Positive(t, cfg.Search.ThinkingTime)
}

func TestLoadMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("search: ["), 0644))

	_, err := Load(path)

	require.Error(t, err)
}
