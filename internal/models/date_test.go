package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2025-06-15")
	require.NoError(t, err)
	require.Equal(t, "2025-06-15", d.String())

	// RFC 3339 input is accepted and truncated to the day.
	d, err = ParseDate("2025-06-15T13:45:00Z")
	require.NoError(t, err)
	require.Equal(t, "2025-06-15", d.String())

	_, err = ParseDate("15/06/2025")
	require.Error(t, err)
}

func TestDateJSONRoundTrip(t *testing.T) {
	type doc struct {
		When Date `json:"when"`
	}

	out, err := json.Marshal(doc{When: NewDate(2025, time.June, 15)})
	require.NoError(t, err)
	require.JSONEq(t, `{"when":"2025-06-15"}`, string(out))

	var in doc
	require.NoError(t, json.Unmarshal([]byte(`{"when":"2025-06-15"}`), &in))
	require.Equal(t, "2025-06-15", in.When.String())

	require.Error(t, json.Unmarshal([]byte(`{"when":"junk"}`), &in))
}

func TestDateScan(t *testing.T) {
	var d Date
	require.NoError(t, d.Scan(time.Date(2025, time.June, 15, 0, 0, 0, 0, time.UTC)))
	require.Equal(t, "2025-06-15", d.String())

	require.NoError(t, d.Scan("2025-07-01"))
	require.Equal(t, "2025-07-01", d.String())

	require.NoError(t, d.Scan([]byte("2025-08-01 00:00:00")))
	require.Equal(t, "2025-08-01", d.String())

	require.Error(t, d.Scan(42))
}
