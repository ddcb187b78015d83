package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExDecimalUnmarshal(t *testing.T) {
	tests := []struct {
		input string
		want  float64
	}{
		{`"0.05"`, 0.05},
		{`0.05`, 0.05},
		{`""`, 0},
		{`null`, 0},
	}
	for _, tt := range tests {
		var d ExDecimal
		require.NoError(t, json.Unmarshal([]byte(tt.input), &d), tt.input)
		assert.InDelta(t, tt.want, d.InexactFloat64(), 1e-12, tt.input)
	}
}

func TestExDecimalUnmarshalInvalid(t *testing.T) {
	var d ExDecimal
	assert.Error(t, json.Unmarshal([]byte(`"abc"`), &d))
}

func TestExDecimalInStruct(t *testing.T) {
	var payload struct {
		Free   ExDecimal `json:"free"`
		Locked ExDecimal `json:"locked"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"free":"4723846.89208129","locked":""}`), &payload))
	assert.InDelta(t, 4723846.89208129, payload.Free.InexactFloat64(), 1e-6)
	assert.True(t, payload.Locked.IsZero())
}
