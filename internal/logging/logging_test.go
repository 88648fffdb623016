package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupJSONOutsideDev(t *testing.T) {
	var buf bytes.Buffer
	logger := setup(&buf, "prod", "warn")

	logger.Info().Msg("dropped")
	logger.Warn().Str("route", "/api/tags").Msg("kept")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "kept", line["message"])
	assert.Equal(t, "/api/tags", line["route"])
	assert.Equal(t, "storefront-api", line["service"])
}

func TestSetupFallsBackToInfo(t *testing.T) {
	var buf bytes.Buffer
	logger := setup(&buf, "prod", "loud")
	assert.Equal(t, zerolog.InfoLevel, logger.GetLevel())
}
