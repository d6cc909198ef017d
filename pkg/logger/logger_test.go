package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWithWriter_JSONOutsideDevelopment(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(&buf, "hourbook-api", "production")

	log.WithComponent("report").WithUserID(42).Info().Msg("generated")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "hourbook-api", line["service"])
	assert.Equal(t, "report", line["component"])
	assert.Equal(t, "42", line["user_id"])
	assert.Equal(t, "generated", line["message"])
}

func TestSetLevel(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(&buf, "hourbook-api", "production").SetLevel("warn")

	log.Info().Msg("hidden")
	assert.Empty(t, buf.String())

	log.Warn().Msg("shown")
	assert.Contains(t, buf.String(), "shown")
}

func TestSecurity(t *testing.T) {
	var buf bytes.Buffer
	NewWithWriter(&buf, "hourbook-api", "production").Security().Warn().Msg("login failed")
	assert.Contains(t, buf.String(), `"component":"security"`)
}
