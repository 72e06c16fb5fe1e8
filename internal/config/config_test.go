package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaultsWhenNoConfigFilePresent(t *testing.T) {
	dir := t.TempDir()
	restore := chdir(t, dir)
	defer restore()

	cfg, err := Load()
	require.NoError(t, err)
	require.False(t, cfg.StrictLayout)
	require.False(t, cfg.SharedPointers)
}

func TestLoadReadsConfigFile(t *testing.T) {
	dir := t.TempDir()
	restore := chdir(t, dir)
	defer restore()

	contents := "strict_layout: true\nshared_pointers: true\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "archvalidate-config.yaml"), []byte(contents), 0o644))

	cfg, err := Load()
	require.NoError(t, err)
	require.True(t, cfg.StrictLayout)
	require.True(t, cfg.SharedPointers)
}

func TestLoadEnvOverridesDefault(t *testing.T) {
	dir := t.TempDir()
	restore := chdir(t, dir)
	defer restore()

	t.Setenv("ARCHVALIDATE_STRICT_LAYOUT", "true")

	cfg, err := Load()
	require.NoError(t, err)
	require.True(t, cfg.StrictLayout)
}

func chdir(t *testing.T, dir string) func() {
	t.Helper()
	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	return func() { os.Chdir(prev) }
}
