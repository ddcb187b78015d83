package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTimestampEpoch(t *testing.T) {
	ts, err := ParseTimestamp("1517138156")
	require.NoError(t, err)
	assert.Equal(t, int64(1517138156), ts.Unix())
}

func TestParseTimestampMillisRounding(t *testing.T) {
	// 毫秒转秒四舍五入，不截断
	ts, err := ParseTimestamp("1517138156600")
	require.NoError(t, err)
	assert.Equal(t, int64(1517138157), ts.Unix())

	ts, err = ParseTimestamp("1517138156400")
	require.NoError(t, err)
	assert.Equal(t, int64(1517138156), ts.Unix())
}

func TestParseTimestampISO(t *testing.T) {
	tests := []struct {
		input string
		want  time.Time
	}{
		// Bittrex 不带时区
		{"2017-12-28T14:15:27.26", time.Date(2017, 12, 28, 14, 15, 27, 260000000, time.UTC)},
		{"2017-12-28T14:15:27", time.Date(2017, 12, 28, 14, 15, 27, 0, time.UTC)},
		// OKEx RFC3339
		{"2019-03-20T02:20:25.000Z", time.Date(2019, 3, 20, 2, 20, 25, 0, time.UTC)},
	}
	for _, tt := range tests {
		ts, err := ParseTimestamp(tt.input)
		require.NoError(t, err, tt.input)
		assert.True(t, ts.Equal(tt.want), "%s: got %v", tt.input, ts)
	}
}

func TestParseTimestampEmpty(t *testing.T) {
	for _, input := range []string{"", "null", `""`} {
		ts, err := ParseTimestamp(input)
		require.NoError(t, err, input)
		assert.True(t, ts.IsZero(), input)
	}
}

func TestParseTimestampInvalid(t *testing.T) {
	for _, input := range []string{"123", "not-a-date", "15171381561"} {
		_, err := ParseTimestamp(input)
		assert.Error(t, err, input)
	}
}

func TestUnixFromMillis(t *testing.T) {
	assert.Equal(t, int64(1), UnixFromMillis(500).Unix())
	assert.Equal(t, int64(0), UnixFromMillis(499).Unix())
}
