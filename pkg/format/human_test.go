package format

import (
	"math"
	"testing"

	"github.com/dreams-labs/datacore/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHuman(t *testing.T) {
	tests := []struct {
		name  string
		input float64
		want  string
	}{
		{name: "zero", input: 0, want: "0.0"},
		{name: "small integer", input: 1, want: "1.0"},
		{name: "under a thousand", input: 999, want: "999.0"},
		{name: "thousands", input: 1234, want: "1.2k"},
		{name: "millions", input: 7437283, want: "7.4M"},
		{name: "negative millions", input: -2500000, want: "-2.5M"},
		{name: "trillions", input: 3939393272371, want: "3.9T"},
		{name: "decimal keeps two significant figures", input: 0.00037, want: "0.00037"},
		{name: "decimal truncates rather than rounds", input: 0.0678, want: "0.067"},
		{name: "single digit decimal", input: 0.4, want: "0.4"},
		{name: "negative decimal", input: -0.0011, want: "-0.0011"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Human(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)

			// Deterministic across repeated calls.
			again, err := Human(tt.input)
			require.NoError(t, err)
			assert.Equal(t, got, again)
		})
	}
}

func TestHumanRejectsNonFinite(t *testing.T) {
	for _, input := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		_, err := Human(input)
		require.Error(t, err)
		assert.True(t, core.IsValidation(err))
	}
}
