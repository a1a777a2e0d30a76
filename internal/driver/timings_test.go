package driver

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWriteTimings(t *testing.T) {
	f := newFixture().typ("Prefs", "LocalSettingsBase").setting("Prefs", "Login", "string", "")
	res := run(t, f.tbl, Options{})

	var text bytes.Buffer
	require.NoError(t, WriteTimings(&text, "prefs", res, false))
	require.True(t, strings.HasPrefix(text.String(), "timings for prefs (1 groups, 0 cached):\n"), text.String())
	require.Contains(t, text.String(), "1 candidates, 1 groups")
	require.Contains(t, text.String(), "  total ")

	var js bytes.Buffer
	require.NoError(t, WriteTimings(&js, "prefs", res, true))
	var payload timingPayload
	require.NoError(t, json.Unmarshal(js.Bytes(), &payload))
	require.Equal(t, 1, payload.Groups)
	require.Equal(t, 3, payload.Artifacts)
	require.Len(t, payload.Phases, 4)
	require.NotEmpty(t, payload.Slowest)

	var none bytes.Buffer
	require.NoError(t, WriteTimings(&none, "x", nil, true))
	require.Zero(t, none.Len())
}
