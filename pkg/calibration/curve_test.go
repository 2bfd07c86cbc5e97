package calibration

import (
	"math"
	"testing"
)

func TestGenerateSampleCount(t *testing.T) {
	gammas := [][3]float64{
		{1, 1, 1},
		{0.1, 0.1, 0.1},
		{0.9, 1.1, 2.2},
		{9.99, 9.99, 9.99},
	}
	for _, g := range gammas {
		table := Generate(Request{Gamma: g, Temperature: DefaultTemperature})
		if len(table) != NumSamples {
			t.Errorf("Generate(gamma=%v) returned %d samples, want %d", g, len(table), NumSamples)
		}
	}
}

func TestGenerateNeutralIsLinearRamp(t *testing.T) {
	req := Request{Gamma: [3]float64{1, 1, 1}, Temperature: DefaultTemperature}
	white := BlackbodyRGB(req.Temperature)
	table := Generate(req)

	for i, sample := range table {
		step := float64(i) / (NumSamples - 1)
		for c := 0; c < 3; c++ {
			want := white[c] * step
			if math.Abs(sample[c]-want) > 1e-9 {
				t.Fatalf("sample %d channel %d = %v, want %v", i, c, sample[c], want)
			}
		}
	}
}

func TestGenerateMonotonic(t *testing.T) {
	table := Generate(Request{Gamma: [3]float64{1, 1, 1}, Temperature: 5000})
	for i := 1; i < len(table); i++ {
		for c := 0; c < 3; c++ {
			if table[i][c] < table[i-1][c] {
				t.Fatalf("channel %d decreases at index %d: %v < %v", c, i, table[i][c], table[i-1][c])
			}
		}
	}
}

func TestGenerateBoundaries(t *testing.T) {
	tests := []struct {
		name        string
		gamma       [3]float64
		temperature int
	}{
		{name: "neutral", gamma: [3]float64{1, 1, 1}, temperature: 6500},
		{name: "high gamma", gamma: [3]float64{2.2, 2.2, 2.2}, temperature: 6500},
		{name: "warm", gamma: [3]float64{1, 1, 1}, temperature: 3400},
		{name: "mixed", gamma: [3]float64{1.5, 1, 2}, temperature: 5000},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table := Generate(Request{Gamma: tt.gamma, Temperature: tt.temperature})
			white := BlackbodyRGB(tt.temperature)
			for c := 0; c < 3; c++ {
				if table[0][c] != 0 {
					t.Errorf("index 0 channel %d = %v, want 0", c, table[0][c])
				}
				if math.Abs(table[NumSamples-1][c]-white[c]) > 1e-9 {
					t.Errorf("index 255 channel %d = %v, want white point %v", c, table[NumSamples-1][c], white[c])
				}
			}
		})
	}
}

func TestGenerateClamped(t *testing.T) {
	table := Generate(Request{Gamma: [3]float64{0.2, 0.2, 0.2}, Temperature: 1000})
	for i, sample := range table {
		for c := 0; c < 3; c++ {
			if sample[c] < 0 || sample[c] > 1 {
				t.Fatalf("sample %d channel %d = %v out of [0,1]", i, c, sample[c])
			}
		}
	}
}
