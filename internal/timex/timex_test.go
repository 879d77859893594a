package timex

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDuration_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    time.Duration
		wantErr bool
	}{
		{"string seconds", `"3s"`, 3 * time.Second, false},
		{"string composite", `"1m30s"`, 90 * time.Second, false},
		{"integer nanoseconds", `2000000000`, 2 * time.Second, false},
		{"zero", `0`, 0, false},
		{"bad string", `"forever"`, 0, true},
		{"bad type", `true`, 0, true},
		{"bad json", `{`, 0, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var d Duration
			err := json.Unmarshal([]byte(tc.input), &d)
			if tc.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, d.Duration)
		})
	}
}

func TestDuration_MarshalJSON(t *testing.T) {
	d := Duration{Duration: 90 * time.Second}
	data, err := json.Marshal(d)
	require.NoError(t, err)
	assert.Equal(t, `"1m30s"`, string(data))
}

func TestDuration_RoundTripInStruct(t *testing.T) {
	type cfg struct {
		Interval Duration `json:"interval"`
	}

	var c cfg
	require.NoError(t, json.Unmarshal([]byte(`{"interval":"500ms"}`), &c))
	assert.Equal(t, 500*time.Millisecond, c.Interval.Duration)
}
