package lifecycle

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	pkgerrors "github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/cdutil/gamma-tool/pkg/calibration"
	"github.com/cdutil/gamma-tool/pkg/colord"
	"github.com/cdutil/gamma-tool/pkg/naming"
)

// Document is a mutable in-memory profile produced by a Codec.
type Document interface {
	SetDescription(title string)
	AddMetadata(key, value string)
	SetVCGT(table [][3]float64) error
	Save(path string) error
}

// Codec loads raw profile bytes into an editable Document.
type Codec func(raw []byte) (Document, error)

// ErrDiscoveryTimeout is reported when the service does not notice a newly
// written profile file within the discovery deadline. The file stays on
// disk unlinked.
var ErrDiscoveryTimeout = pkgerrors.New("timed out waiting for service to detect new profile")

type publishResult struct {
	// found is true once the service has discovered the new artifact,
	// even if later linking steps failed. Cleanup of the superseded
	// profile keys off this.
	found bool

	profile colord.Profile
	path    string
}

// publish runs the publication protocol for one device: load the base
// profile, describe and mutate it, save the artifact, wait for the service
// to discover it, then link it to the device. Linking failures are
// reported but leave the result found; everything earlier is terminal for
// this device.
func (m *Manager) publish(device colord.Device, base colord.Profile, req calibration.Request) publishResult {
	var result publishResult

	raw, err := base.ReadData()
	if err != nil {
		logrus.Warnf("could not get ICC data from base profile: %v", err)
		return result
	}
	doc, err := m.Codec(raw)
	if err != nil {
		logrus.Warnf("could not get ICC data from base profile: %v", err)
		return result
	}

	title := fmt.Sprintf("gamma-tool: g=%.2f:%.2f:%.2f t=%d",
		req.Gamma[0], req.Gamma[1], req.Gamma[2], req.Temperature)
	doc.SetDescription(title)

	// The token makes byte-identical artifacts distinct so the service's
	// content cache cannot collapse them, and guarantees a unique
	// filename.
	token := m.NewToken()
	doc.AddMetadata("uuid", token)

	if err := doc.SetVCGT(calibration.Generate(req)); err != nil {
		logrus.Warnf("failed to set VCGT: %v", err)
	}

	if err := os.MkdirAll(m.ProfileDir, 0o755); err != nil {
		logrus.Warnf("could not create profile directory %s: %v", m.ProfileDir, err)
		return result
	}
	result.path = filepath.Join(m.ProfileDir, naming.Encode(req, token))
	if err := doc.Save(result.path); err != nil {
		logrus.Warnf("could not save new profile to %s: %v", result.path, err)
		return result
	}

	profile, err := m.discover(result.path)
	if err != nil {
		logrus.Warnf("%v: %s", err, result.path)
		return result
	}
	result.found = true
	result.profile = profile

	if err := profile.Connect(); err != nil {
		logrus.Warnf("could not connect to new profile: %v", err)
		return result
	}

	fmt.Fprintf(m.Out, "New profile is %s\n", profile.Filename())
	if err := device.AddProfile(colord.RelationHard, profile); err != nil {
		logrus.Warnf("failed to add new profile to device: %v", err)
	}
	if err := device.MakeProfileDefault(profile); err != nil {
		logrus.Warnf("failed to make new profile default: %v", err)
	}
	return result
}

// discover polls the service until it knows the profile at path, yielding
// to the service's event processing between attempts. The service notices
// new files asynchronously, so visibility cannot be assumed; the wait is
// bounded by DiscoveryTimeout.
func (m *Manager) discover(path string) (colord.Profile, error) {
	deadline := time.Now().Add(m.DiscoveryTimeout)
	for time.Now().Before(deadline) {
		profile, err := m.Client.FindProfileByFilename(path)
		if err == nil {
			return profile, nil
		}
		if !pkgerrors.Is(err, colord.ErrProfileNotFound) {
			logrus.Debugf("profile lookup failed, retrying: %v", err)
		}
		m.Client.ProcessEvents()
		time.Sleep(m.PollInterval)
	}
	return nil, ErrDiscoveryTimeout
}
