package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadJSONConfigMissingFileIsNotAnError(t *testing.T) {
	var out AppConfig
	assert.NoError(t, loadJSONConfig(filepath.Join(t.TempDir(), "nope.json"), &out))
}

func TestLoadJSONConfigRejectsMalformedJSON(t *testing.T) {
	path := writeConfigFile(t, `{"app": {`)

	var out AppConfig
	assert.Error(t, loadJSONConfig(path, &out))
}

func TestLoadJSONConfigGroupedKeys(t *testing.T) {
	path := writeConfigFile(t, `{
		"app": {
			"AppPort": "9090",
			"JWTSecret": "sekrit",
			"DefaultPageSize": 5,
			"MaxPageSize": 20,
			"AllowedOrigins": ["https://example.com"]
		},
		"database": {"DBHost": "db.internal", "DBName": "blog"},
		"log": {"Level": "debug", "Compress": true}
	}`)

	var out AppConfig
	require.NoError(t, loadJSONConfig(path, &out))
	assert.Equal(t, "9090", out.AppPort)
	assert.Equal(t, "sekrit", out.JWTSecret)
	assert.Equal(t, 5, out.DefaultPageSize)
	assert.Equal(t, 20, out.MaxPageSize)
	assert.Equal(t, []string{"https://example.com"}, out.AllowedOrigins)
	assert.Equal(t, "db.internal", out.DBHost)
	assert.Equal(t, "blog", out.DBName)
	assert.Equal(t, "debug", out.LogLevel)
	assert.True(t, out.LogCompress)
}
