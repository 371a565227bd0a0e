package provider

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToMajor(t *testing.T) {
	assert.Equal(t, "0.00", toMajor(0))
	assert.Equal(t, "0.05", toMajor(5))
	assert.Equal(t, "1250.50", toMajor(125050))
	assert.Equal(t, "-3.10", toMajor(-310))
}

func TestFromMajor(t *testing.T) {
	tests := []struct {
		in   string
		want int64
	}{
		{"0", 0},
		{"12", 1200},
		{"12.5", 1250},
		{"1250.50", 125050},
		{"0.01", 1},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := fromMajor(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFromMajor_Rejects(t *testing.T) {
	_, err := fromMajor("1.005")
	assert.ErrorContains(t, err, "sub-minor precision")

	_, err = fromMajor("twelve")
	assert.Error(t, err)
}
