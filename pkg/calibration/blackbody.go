package calibration

import "math"

// Temperature bounds of the blackbody model. Inputs outside this range are
// clamped rather than rejected.
const (
	MinTemperature = 1000
	MaxTemperature = 40000
)

// BlackbodyRGB returns the white point of a blackbody radiator at the given
// color temperature in Kelvin, as an RGB triple with each channel in [0, 1].
// 6500 K is near-neutral; lower temperatures shift toward red.
//
// Uses a piecewise logarithmic fit of the Planckian locus.
func BlackbodyRGB(kelvin int) [3]float64 {
	if kelvin < MinTemperature {
		kelvin = MinTemperature
	}
	if kelvin > MaxTemperature {
		kelvin = MaxTemperature
	}
	t := float64(kelvin) / 100

	var r, g, b float64

	if t <= 66 {
		r = 255
	} else {
		r = 329.698727446 * math.Pow(t-60, -0.1332047592)
	}

	if t <= 66 {
		g = 99.4708025861*math.Log(t) - 161.1195681661
	} else {
		g = 288.1221695283 * math.Pow(t-60, -0.0755148492)
	}

	if t >= 66 {
		b = 255
	} else if t <= 19 {
		b = 0
	} else {
		b = 138.5177312231*math.Log(t-10) - 305.0447927307
	}

	return [3]float64{
		clamp01(r / 255),
		clamp01(g / 255),
		clamp01(b / 255),
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
