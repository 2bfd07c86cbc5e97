// Package lifecycle drives the profile lifecycle: it selects display
// devices, computes their calibration profile, publishes it through the
// color-management service, and retires superseded profiles created by
// earlier runs.
package lifecycle

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	pkgerrors "github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/cdutil/gamma-tool/pkg/calibration"
	"github.com/cdutil/gamma-tool/pkg/colord"
	"github.com/cdutil/gamma-tool/pkg/icc"
)

// Mode selects the per-device operation.
type Mode int

const (
	// ModeApply synthesizes and installs a new calibration profile.
	ModeApply Mode = iota
	// ModeRemove retires the current profile if this tool created it.
	ModeRemove
	// ModeInfo decodes and prints the current profile's parameters.
	ModeInfo
)

func (m Mode) String() string {
	switch m {
	case ModeApply:
		return "apply"
	case ModeRemove:
		return "remove"
	case ModeInfo:
		return "info"
	}
	return fmt.Sprintf("mode(%d)", int(m))
}

// AllDevices selects every display device instead of a single index.
const AllDevices = -1

const (
	// discoveryTimeout bounds the wait for the service to notice a newly
	// written profile file.
	discoveryTimeout = 4 * time.Second

	// pollInterval is the sleep between discovery attempts.
	pollInterval = 10 * time.Millisecond

	// fallbackProfileName is the well-known name of the neutral reference
	// profile used when a device has no profile at all.
	fallbackProfileName = "sRGB.icc"
)

// Manager owns one run of the tool. All fields are set by New; tests
// override them as needed.
type Manager struct {
	Client colord.Client
	Codec  Codec

	// ProfileDir is where new profile files are written.
	ProfileDir string

	DiscoveryTimeout time.Duration
	PollInterval     time.Duration

	// Out receives primary program output. Diagnostics go to logrus.
	Out io.Writer

	// NewToken returns a fresh uniqueness token for artifact names.
	NewToken func() string
}

// New returns a Manager with production collaborators wired in.
func New(client colord.Client) *Manager {
	return &Manager{
		Client:           client,
		Codec:            ICCCodec,
		ProfileDir:       DefaultProfileDir(),
		DiscoveryTimeout: discoveryTimeout,
		PollInterval:     pollInterval,
		Out:              os.Stdout,
		NewToken:         uuid.NewString,
	}
}

// ICCCodec is the production Codec, backed by pkg/icc.
func ICCCodec(raw []byte) (Document, error) {
	return icc.Load(raw)
}

// DefaultProfileDir returns the per-user color-profile directory,
// $XDG_DATA_HOME/icc or ~/.local/share/icc.
func DefaultProfileDir() string {
	if dir := os.Getenv("XDG_DATA_HOME"); dir != "" {
		return filepath.Join(dir, "icc")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "icc"
	}
	return filepath.Join(home, ".local", "share", "icc")
}

// Run processes all display devices (or the one at deviceIndex) with the
// given mode and calibration request. Per-device failures are reported and
// contained; the returned error is only non-nil for run-fatal conditions
// (service failure, invalid device index).
func (m *Manager) Run(mode Mode, req calibration.Request, deviceIndex int) error {
	devices, err := m.displayDevices()
	if err != nil {
		return err
	}

	if len(devices) == 0 {
		fmt.Fprintln(m.Out, "No display devices found.")
		return nil
	}

	if deviceIndex != AllDevices {
		if deviceIndex < 0 || deviceIndex >= len(devices) {
			return pkgerrors.Errorf("invalid device index %d: only %d devices found (0 to %d)",
				deviceIndex, len(devices), len(devices)-1)
		}
		devices = devices[deviceIndex : deviceIndex+1]
	}

	for _, device := range devices {
		m.processDevice(device, mode, req)
	}
	return nil
}

// displayDevices enumerates and connects the service's devices, keeping
// displays. Devices that fail to connect are skipped with a diagnostic.
func (m *Manager) displayDevices() ([]colord.Device, error) {
	all, err := m.Client.Devices()
	if err != nil {
		return nil, pkgerrors.Wrap(err, "failed to get devices")
	}

	var displays []colord.Device
	for _, device := range all {
		if err := device.Connect(); err != nil {
			logrus.Warnf("could not connect to device: %v", err)
			continue
		}
		if device.Kind() == colord.KindDisplay {
			displays = append(displays, device)
		}
	}
	return displays, nil
}
