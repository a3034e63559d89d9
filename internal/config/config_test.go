package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	c := def()
	assert.Equal(t, "8080", c.Port)
	assert.Equal(t, "resources/dict", c.DictDir)
	assert.Equal(t, "FIX.5.0SP2", c.DefaultVersion)
	assert.False(t, c.LazyLoad)
	assert.Equal(t, "info", c.LogLevel)
}

func TestLoadJSONOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fixdict.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"port":"9090","lazyLoad":true}`), 0o644))

	c, err := loadJSON(path)
	require.NoError(t, err)
	assert.Equal(t, "9090", c.Port)
	assert.True(t, c.LazyLoad)
	// untouched keys keep their defaults
	assert.Equal(t, "FIX.5.0SP2", c.DefaultVersion)
}

func TestLoadJSONBadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fixdict.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"port":`), 0o644))

	_, err := loadJSON(path)
	assert.Error(t, err)
}

func TestEnvHelpers(t *testing.T) {
	t.Setenv("FIXDICT_TEST_STR", "value")
	assert.Equal(t, "value", getenv("FIXDICT_TEST_STR", "fallback"))
	assert.Equal(t, "fallback", getenv("FIXDICT_TEST_MISSING", "fallback"))

	t.Setenv("FIXDICT_TEST_BLANK", "   ")
	assert.Equal(t, "fallback", getenv("FIXDICT_TEST_BLANK", "fallback"))

	t.Setenv("FIXDICT_TEST_BOOL", "yes")
	assert.True(t, getenvBool("FIXDICT_TEST_BOOL", false))
	t.Setenv("FIXDICT_TEST_BOOL", "0")
	assert.False(t, getenvBool("FIXDICT_TEST_BOOL", true))
	t.Setenv("FIXDICT_TEST_BOOL", "maybe")
	assert.True(t, getenvBool("FIXDICT_TEST_BOOL", true))
}

func TestZerologLevel(t *testing.T) {
	assert.Equal(t, zerolog.DebugLevel, Config{LogLevel: "debug"}.ZerologLevel())
	assert.Equal(t, zerolog.WarnLevel, Config{LogLevel: "WARN"}.ZerologLevel())
	assert.Equal(t, zerolog.InfoLevel, Config{LogLevel: "verbose"}.ZerologLevel())
	assert.Equal(t, zerolog.InfoLevel, Config{}.ZerologLevel())
}
