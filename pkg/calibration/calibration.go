// Package calibration computes display calibration curves from a target
// gamma and color temperature.
package calibration

import (
	"strconv"
	"strings"

	pkgerrors "github.com/pkg/errors"
)

// Request holds the calibration parameters for one run. It is built once
// from user input and shared read-only across all processed devices.
type Request struct {
	// Gamma per channel (R, G, B). 1.0 is neutral. Must be > 0.
	Gamma [3]float64

	// Temperature is the target color temperature in Kelvin. 6500 is
	// neutral.
	Temperature int
}

// DefaultTemperature is the neutral color temperature in Kelvin.
const DefaultTemperature = 6500

// ParseGamma parses a gamma argument of the form "G" or "R:G:B". A single
// value applies to all three channels.
func ParseGamma(s string) ([3]float64, error) {
	var gamma [3]float64

	parts := strings.Split(s, ":")
	switch len(parts) {
	case 1:
		v, err := strconv.ParseFloat(parts[0], 64)
		if err != nil {
			return gamma, pkgerrors.Wrapf(err, "invalid gamma %q", s)
		}
		gamma = [3]float64{v, v, v}
	case 3:
		for i, p := range parts {
			v, err := strconv.ParseFloat(p, 64)
			if err != nil {
				return gamma, pkgerrors.Wrapf(err, "invalid gamma %q", s)
			}
			gamma[i] = v
		}
	default:
		return gamma, pkgerrors.Errorf("invalid gamma %q: expected G or R:G:B", s)
	}

	for _, v := range gamma {
		if v <= 0 {
			return gamma, pkgerrors.Errorf("invalid gamma %q: channels must be > 0", s)
		}
	}

	return gamma, nil
}

// Validate checks that the request parameters are usable.
func (r Request) Validate() error {
	for _, v := range r.Gamma {
		if v <= 0 {
			return pkgerrors.Errorf("gamma channels must be > 0, got %v:%v:%v",
				r.Gamma[0], r.Gamma[1], r.Gamma[2])
		}
	}
	return nil
}
