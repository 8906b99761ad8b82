package dirshare_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dirshare"
)

func TestParseRange(t *testing.T) {
	tests := []struct {
		name      string
		header    string
		size      int64
		wantStart uint64
		wantEnd   uint64
	}{
		{"bounded", "bytes=0-99", 1000, 0, 99},
		{"open ended", "bytes=500-", 1000, 500, 999},
		{"dash only end", "bytes=0-", 1, 0, 0},
		{"end clamped to size", "bytes=0-99", 50, 0, 49},
		{"single byte", "bytes=10-10", 1000, 10, 10},
		{"last byte", "bytes=999-999", 1000, 999, 999},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := dirshare.ParseRange(tt.header, tt.size)
			require.NoError(t, err)
			assert.Equal(t, tt.wantStart, got.Start)
			assert.Equal(t, tt.wantEnd, got.End)
			assert.Equal(t, int64(tt.wantEnd-tt.wantStart)+1, got.Length())
		})
	}
}

func TestParseRange_Malformed(t *testing.T) {
	tests := []struct {
		name   string
		header string
		size   int64
	}{
		{"no prefix", "0-99", 1000},
		{"wrong unit", "items=0-99", 1000},
		{"non numeric", "bytes=abc-xyz", 1000},
		{"non numeric end", "bytes=0-xyz", 1000},
		{"multi range", "bytes=0-10,20-30", 1000},
		{"start past end of file", "bytes=2000-", 1000},
		{"inverted", "bytes=50-10", 1000},
		{"negative start", "bytes=-5-10", 1000},
		{"empty resource", "bytes=0-", 0},
		{"empty spec", "bytes=", 1000},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := dirshare.ParseRange(tt.header, tt.size)
			assert.ErrorIs(t, err, dirshare.ErrMalformedRange)
		})
	}
}
