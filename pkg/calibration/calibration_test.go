package calibration

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseGamma(t *testing.T) {
	tests := []struct {
		in      string
		want    [3]float64
		wantErr bool
	}{
		{in: "1.0", want: [3]float64{1, 1, 1}},
		{in: "0.8", want: [3]float64{0.8, 0.8, 0.8}},
		{in: "1:0.9:0.8", want: [3]float64{1, 0.9, 0.8}},
		{in: "2.2:2.2:2.2", want: [3]float64{2.2, 2.2, 2.2}},
		{in: "", wantErr: true},
		{in: "1:0.9", wantErr: true},
		{in: "1:0.9:0.8:0.7", wantErr: true},
		{in: "abc", wantErr: true},
		{in: "1:x:1", wantErr: true},
		{in: "0", wantErr: true},
		{in: "-1", wantErr: true},
		{in: "1:0:1", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseGamma(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRequestValidate(t *testing.T) {
	assert.NoError(t, Request{Gamma: [3]float64{1, 1, 1}, Temperature: 6500}.Validate())
	assert.Error(t, Request{Gamma: [3]float64{1, 0, 1}, Temperature: 6500}.Validate())
	assert.Error(t, Request{Gamma: [3]float64{-0.5, 1, 1}, Temperature: 6500}.Validate())
}

func TestBlackbodyRGB(t *testing.T) {
	neutral := BlackbodyRGB(6500)
	for c, v := range neutral {
		assert.GreaterOrEqualf(t, v, 0.97, "6500K channel %d should be near neutral", c)
		assert.LessOrEqual(t, v, 1.0)
	}

	// Warmer temperatures lose blue.
	prev := 1.1
	for _, kelvin := range []int{6500, 5000, 3400, 2000} {
		blue := BlackbodyRGB(kelvin)[2]
		assert.Lessf(t, blue, prev, "blue at %dK should be below the previous, cooler temperature", kelvin)
		prev = blue
	}

	// Out-of-range inputs clamp to the model bounds.
	assert.Equal(t, BlackbodyRGB(MinTemperature), BlackbodyRGB(200))
	assert.Equal(t, BlackbodyRGB(MaxTemperature), BlackbodyRGB(100000))
}
