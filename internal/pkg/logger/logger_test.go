package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zerolog.DebugLevel, ParseLevel("DEBUG"))
	assert.Equal(t, zerolog.WarnLevel, ParseLevel(" warn "))
	assert.Equal(t, zerolog.InfoLevel, ParseLevel("verbose"))
	assert.Equal(t, zerolog.InfoLevel, ParseLevel(""))
}

func TestConfigureWritesJSON(t *testing.T) {
	t.Cleanup(func() { Configure(Config{Level: "info", Pretty: true}) })

	var buf bytes.Buffer
	Configure(Config{Level: "debug", Output: &buf})

	child := WithField("component", "test")
	child.Info().Str("codigo_doador", "D1").Msg("hello")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "hello", entry["message"])
	assert.Equal(t, "test", entry["component"])
	assert.Equal(t, "D1", entry["codigo_doador"])
	assert.Equal(t, "info", entry["level"])
}
