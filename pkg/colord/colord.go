// Package colord talks to the color-management service. The interfaces
// model the handful of operations gamma-tool needs; the default
// implementation speaks the org.freedesktop.ColorManager D-Bus API.
package colord

// DeviceKind classifies a device. Only displays are calibrated.
type DeviceKind string

const (
	KindDisplay DeviceKind = "display"
	KindUnknown DeviceKind = "unknown"
)

// Relation is the strength of a device-profile association.
type Relation string

const (
	// RelationHard marks a profile explicitly chosen for the device.
	RelationHard Relation = "hard"
	RelationSoft Relation = "soft"
)

// Client is a connection to the color-management service. It is not safe
// for concurrent use; gamma-tool processes devices sequentially.
type Client interface {
	// Devices returns all devices known to the service, as unconnected
	// handles.
	Devices() ([]Device, error)

	// FindProfileByFilename looks a profile up by the exact path of its
	// backing file. It returns ErrProfileNotFound while the service has
	// not yet discovered the file.
	FindProfileByFilename(filename string) (Profile, error)

	// ProcessEvents lets pending service notifications be processed. The
	// discovery poll loop must call it between attempts or a freshly
	// written file may never become visible.
	ProcessEvents()

	// Close releases the connection.
	Close() error
}

// Device is a handle to one device. Connect must succeed before any other
// method is meaningful.
type Device interface {
	Connect() error
	ID() string
	Kind() DeviceKind

	// Profiles returns the device's associated profiles in the service's
	// priority order; the first entry is the current profile.
	Profiles() ([]Profile, error)

	AddProfile(relation Relation, profile Profile) error
	MakeProfileDefault(profile Profile) error
	RemoveProfile(profile Profile) error
}

// Profile is a handle to one profile. Connect must succeed before
// properties are read.
type Profile interface {
	Connect() error
	ID() string

	// Filename is the path of the profile's backing file, or "" for
	// synthetic profiles with no file.
	Filename() string

	// ReadData returns the raw bytes of the profile's backing file.
	ReadData() ([]byte, error)
}
