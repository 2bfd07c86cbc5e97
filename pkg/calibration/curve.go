package calibration

import "math"

// NumSamples is the number of entries in a generated calibration table,
// matching the video card gamma table resolution.
const NumSamples = 256

// Table is an ordered calibration table. Each entry is an (R, G, B) triple
// with every channel in [0, 1].
type Table [][3]float64

// Generate computes the calibration table for the request: each channel is
// the blackbody white point scaled by step^(1/gamma), clamped to [0, 1].
// Gamma 1.0 reduces to a linear ramp scaled by the white point. The result
// always has exactly NumSamples entries.
func Generate(req Request) Table {
	white := BlackbodyRGB(req.Temperature)

	var factor [3]float64
	for c := range factor {
		factor[c] = 1 / req.Gamma[c]
	}

	table := make(Table, NumSamples)
	for i := range table {
		step := float64(i) / (NumSamples - 1)
		for c := 0; c < 3; c++ {
			table[i][c] = clamp01(white[c] * math.Pow(step, factor[c]))
		}
	}
	return table
}
