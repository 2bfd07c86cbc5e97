// Package naming encodes calibration parameters into profile filenames and
// decodes them back. A profile whose basename carries the tool prefix is
// considered owned by this tool.
package naming

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	pkgerrors "github.com/pkg/errors"

	"github.com/cdutil/gamma-tool/pkg/calibration"
)

// Prefix marks profiles created by this tool.
const Prefix = "gamma-tool-"

// Extension of generated profile files.
const Extension = ".icc"

// decodePattern matches the encoded parameter fields: three 3-digit gamma
// groups (gamma * 100) and a variable-width temperature, terminated by the
// random token separator. Gamma values >= 10.0 widen the gamma fields and
// do not decode; see Decode.
var decodePattern = regexp.MustCompile(`^` + Prefix + `g(\d{3})(\d{3})(\d{3})t(\d+)-`)

// Encode builds the profile basename for a request and a random token, e.g.
// "gamma-tool-g090090090t5000-<token>.icc". Gamma values are scaled by 100
// and truncated; values >= 10.0 produce a name Decode cannot parse.
func Encode(req calibration.Request, token string) string {
	return fmt.Sprintf("%sg%03d%03d%03dt%d-%s%s",
		Prefix,
		gammaField(req.Gamma[0]),
		gammaField(req.Gamma[1]),
		gammaField(req.Gamma[2]),
		req.Temperature,
		token,
		Extension)
}

// gammaField truncates gamma*100 to an integer. The epsilon keeps exact
// multiples of 0.01 from landing one below due to binary rounding
// (0.29*100 == 28.999...).
func gammaField(v float64) int {
	return int(v*100 + 1e-9)
}

// Decode recovers the gamma triple and temperature from an encoded profile
// basename. Gamma is recovered with 1/100 precision. The decode is only
// defined for gamma channels in [0.00, 9.99]; names written with larger
// values fail to parse and are reported as errors.
func Decode(basename string) (gamma [3]float64, temperature int, err error) {
	m := decodePattern.FindStringSubmatch(basename)
	if m == nil {
		return gamma, 0, pkgerrors.Errorf("could not parse parameters from profile name %q", basename)
	}
	for i := 0; i < 3; i++ {
		v, err := strconv.Atoi(m[i+1])
		if err != nil {
			return gamma, 0, pkgerrors.Wrapf(err, "could not parse parameters from profile name %q", basename)
		}
		gamma[i] = float64(v) / 100
	}
	temperature, err = strconv.Atoi(m[4])
	if err != nil {
		return gamma, 0, pkgerrors.Wrapf(err, "could not parse parameters from profile name %q", basename)
	}
	return gamma, temperature, nil
}

// IsToolProfile reports whether the profile at filename was created by this
// tool, judged by the basename prefix. An empty filename (a profile with no
// backing file) is never ours.
func IsToolProfile(filename string) bool {
	if filename == "" {
		return false
	}
	return strings.HasPrefix(filepath.Base(filename), Prefix)
}
