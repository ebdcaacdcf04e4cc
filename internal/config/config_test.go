package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetConfigInitializesDefaultFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	cfg, err := GetConfig(path, "default", path)
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, "default", cfg.GetProfile())
	assert.Equal(t, path, cfg.GetPath())
	assert.Equal(t, "text", cfg.GetString("output"))
	assert.FileExists(t, path)
}

func TestGetConfigMissingExplicitPathFails(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nope.yaml")

	_, err := GetConfig(path, "default", filepath.Join(dir, "other.yaml"))
	require.Error(t, err)
}

func TestGetIntOrElse(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	cfg, err := GetConfig(path, "default", path)
	require.NoError(t, err)

	assert.Equal(t, 25, cfg.GetIntOrElse("browse.page-size", 25))
	cfg.Set("browse.page-size", 10)
	assert.Equal(t, 10, cfg.GetIntOrElse("browse.page-size", 25))
}
