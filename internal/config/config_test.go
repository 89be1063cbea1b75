package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rostering/internal/lns"
)

func TestDefault_MatchesSolverDefaults(t *testing.T) {
	f := Default()
	require.NoError(t, f.Validate())
	assert.Equal(t, lns.DefaultConfig(), f.LNSConfig())
}

func TestDecode_OverridesDefaults(t *testing.T) {
	f, err := Decode(strings.NewReader(`
instance:
  path: data/roster.txt
lns:
  fix_probability: 0.9
  iterations: 50
  time_limit: 2s
  max_slots_per_employee: 3
seed: 42
log_level: debug
`))
	require.NoError(t, err)

	assert.Equal(t, "data/roster.txt", f.Instance.Path)
	assert.Equal(t, int64(42), f.Seed)
	assert.Equal(t, "debug", f.LogLevel)

	cfg := f.LNSConfig()
	assert.Equal(t, 0.9, cfg.FixProbability)
	assert.Equal(t, 50, cfg.Iterations)
	assert.Equal(t, 2*time.Second, cfg.TimeLimit)
	assert.Equal(t, 3, cfg.MaxSlotsPerEmployee)
	assert.Equal(t, 1000, cfg.FailureLimit, "untouched keys keep defaults")
}

func TestDecode_Empty(t *testing.T) {
	f, err := Decode(strings.NewReader(""))
	require.NoError(t, err)
	assert.Equal(t, Default(), f)
}

func TestDecode_Invalid(t *testing.T) {
	cases := map[string]string{
		"probability": "lns:\n  fix_probability: 1.5\n",
		"failures":    "lns:\n  failure_limit: 0\n",
		"log level":   "log_level: loud\n",
		"unknown key": "lns:\n  fix_prob: 0.5\n",
		"generator":   "instance:\n  random:\n    slots: 0\n",
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Decode(strings.NewReader(doc))
			require.Error(t, err)
		})
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.yaml")
	require.NoError(t, os.WriteFile(path, []byte("seed: 7\n"), 0o644))

	f, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, int64(7), f.Seed)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}

func TestLoad_ExampleFile(t *testing.T) {
	f, err := Load(filepath.Join("..", "..", "configs", "roster.yaml"))
	require.NoError(t, err)
	assert.Equal(t, 30*time.Second, f.LNS.TimeLimit)
	assert.Equal(t, 20, f.Instance.Random.Employees)
}
