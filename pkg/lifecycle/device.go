package lifecycle

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"github.com/cdutil/gamma-tool/pkg/calibration"
	"github.com/cdutil/gamma-tool/pkg/colord"
	"github.com/cdutil/gamma-tool/pkg/naming"
)

// processDevice resolves the device's current profile and dispatches to
// the handler for the active mode. Every failure is diagnosed and ends
// this device only.
func (m *Manager) processDevice(device colord.Device, mode Mode, req calibration.Request) {
	fmt.Fprintf(m.Out, "\ndevice: %s\n", device.ID())

	profiles, err := device.Profiles()
	if err != nil {
		logrus.Warnf("could not get profiles of %s: %v. Skipping.", device.ID(), err)
		return
	}

	var current colord.Profile
	if len(profiles) > 0 {
		// The service returns profiles in priority order; the first one
		// is authoritative.
		current = profiles[0]
	} else {
		fmt.Fprintln(m.Out, "No default profile, using sRGB")
		current = m.installFallback(device)
		if current == nil {
			logrus.Warnf("could not set sRGB profile for %s. Skipping.", device.ID())
			return
		}
	}

	if err := current.Connect(); err != nil {
		logrus.Warnf("could not connect to base profile: %v", err)
		return
	}

	switch mode {
	case ModeInfo:
		m.handleInfo(current)
	case ModeRemove:
		m.handleRemove(device, current)
	default:
		m.handleApply(device, current, req)
	}
}

// installFallback locates the neutral sRGB reference profile, links it to
// the device, and makes it default. Returns nil if any step fails.
func (m *Manager) installFallback(device colord.Device) colord.Profile {
	profile, err := m.Client.FindProfileByFilename(fallbackProfileName)
	if err != nil {
		logrus.Warnf("failed to find %s profile: %v", fallbackProfileName, err)
		return nil
	}
	if err := profile.Connect(); err != nil {
		logrus.Warnf("could not connect to sRGB profile: %v", err)
		return nil
	}
	if err := device.AddProfile(colord.RelationHard, profile); err != nil {
		logrus.Warnf("failed to add sRGB profile: %v", err)
		return nil
	}
	if err := device.MakeProfileDefault(profile); err != nil {
		logrus.Warnf("failed to make sRGB profile default: %v", err)
		return nil
	}
	return profile
}

func (m *Manager) handleInfo(profile colord.Profile) {
	filename := profile.Filename()
	if filename == "" {
		fmt.Fprintln(m.Out, "Current profile has no filename.")
		return
	}
	if !naming.IsToolProfile(filename) {
		fmt.Fprintf(m.Out, "Current profile is not a gamma-tool profile: %s\n", filename)
		return
	}

	gamma, temperature, err := naming.Decode(filepath.Base(filename))
	if err != nil {
		fmt.Fprintf(m.Out, "Could not parse parameters from profile name: %s\n", filepath.Base(filename))
		return
	}
	fmt.Fprintf(m.Out, "gamma: %.2f:%.2f:%.2f\n", gamma[0], gamma[1], gamma[2])
	fmt.Fprintf(m.Out, "temperature: %d\n", temperature)
}

func (m *Manager) handleRemove(device colord.Device, profile colord.Profile) {
	filename := profile.Filename()
	fmt.Fprintf(m.Out, "Current profile is %s\n", profileName(profile))

	if !naming.IsToolProfile(filename) {
		fmt.Fprintln(m.Out, "Current profile was not created by this tool. Not removing.")
		return
	}

	fmt.Fprintln(m.Out, "Removing profile from device...")
	if err := device.RemoveProfile(profile); err != nil {
		// Never delete a file the service still considers associated.
		logrus.Warnf("could not remove profile from device: %v", err)
		return
	}
	fmt.Fprintf(m.Out, "Deleting file %s\n", filename)
	if err := os.Remove(filename); err != nil {
		logrus.Warnf("could not delete profile file %s: %v", filename, err)
	}
}

func (m *Manager) handleApply(device colord.Device, current colord.Profile, req calibration.Request) {
	ownedBefore := naming.IsToolProfile(current.Filename())
	fmt.Fprintf(m.Out, "Current profile is %s\n", profileName(current))

	result := m.publish(device, current, req)
	if !result.found {
		return
	}

	// The replacement is confirmed visible; now the superseded artifact
	// may be retired.
	if ownedBefore {
		m.cleanup(device, current)
	}
}

// cleanup disassociates the device's old tool-owned profile and deletes
// its file. Disassociation failure aborts the deletion.
func (m *Manager) cleanup(device colord.Device, old colord.Profile) {
	fmt.Fprintln(m.Out, "Removing old profile...")
	if err := device.RemoveProfile(old); err != nil {
		logrus.Warnf("could not remove old profile from device: %v", err)
		return
	}
	filename := old.Filename()
	fmt.Fprintf(m.Out, "Deleting file %s\n", filename)
	if err := os.Remove(filename); err != nil {
		logrus.Warnf("could not delete old profile file %s: %v", filename, err)
	}
}

func profileName(profile colord.Profile) string {
	if filename := profile.Filename(); filename != "" {
		return filename
	}
	return profile.ID()
}
