package colord

import (
	"os"
	"runtime"
	"strings"

	"github.com/godbus/dbus/v5"
	pkgerrors "github.com/pkg/errors"
)

const (
	busName     = "org.freedesktop.ColorManager"
	managerPath = "/org/freedesktop/ColorManager"

	ifaceManager = "org.freedesktop.ColorManager"
	ifaceDevice  = "org.freedesktop.ColorManager.Device"
	ifaceProfile = "org.freedesktop.ColorManager.Profile"

	errNotFound = "org.freedesktop.ColorManager.NotFound"
)

// dbusClient implements Client against colord on the system bus.
type dbusClient struct {
	conn *dbus.Conn
	obj  dbus.BusObject
}

// Connect opens a system-bus connection to colord and verifies the daemon
// is reachable.
func Connect() (Client, error) {
	conn, err := dbus.SystemBus()
	if err != nil {
		return nil, pkgerrors.Wrap(ErrServiceUnavailable, err.Error())
	}

	c := &dbusClient{
		conn: conn,
		obj:  conn.Object(busName, managerPath),
	}

	var version string
	if err := c.obj.StoreProperty(ifaceManager+".DaemonVersion", &version); err != nil {
		return nil, pkgerrors.Wrap(ErrServiceUnavailable, err.Error())
	}
	return c, nil
}

func (c *dbusClient) Devices() ([]Device, error) {
	var paths []dbus.ObjectPath
	if err := c.obj.Call(ifaceManager+".GetDevices", 0).Store(&paths); err != nil {
		return nil, pkgerrors.Wrap(err, "failed to get devices")
	}
	devices := make([]Device, 0, len(paths))
	for _, path := range paths {
		devices = append(devices, &dbusDevice{client: c, obj: c.conn.Object(busName, path)})
	}
	return devices, nil
}

func (c *dbusClient) FindProfileByFilename(filename string) (Profile, error) {
	var path dbus.ObjectPath
	err := c.obj.Call(ifaceManager+".FindProfileByFilename", 0, filename).Store(&path)
	if err != nil {
		var dbusErr dbus.Error
		if pkgerrors.As(err, &dbusErr) && dbusErr.Name == errNotFound {
			return nil, ErrProfileNotFound
		}
		// Older daemons report lookup misses as a generic failure.
		if strings.Contains(err.Error(), "not found") {
			return nil, ErrProfileNotFound
		}
		return nil, pkgerrors.Wrapf(err, "failed to find profile %s", filename)
	}
	return &dbusProfile{obj: c.conn.Object(busName, path)}, nil
}

// ProcessEvents yields the scheduler. The bus connection reads replies and
// signals on its own goroutines, so a yield is all the poll loop needs.
func (c *dbusClient) ProcessEvents() {
	runtime.Gosched()
}

func (c *dbusClient) Close() error {
	return c.conn.Close()
}

type dbusDevice struct {
	client *dbusClient
	obj    dbus.BusObject

	id   string
	kind DeviceKind
}

// Connect fetches the device properties, mirroring libcolord's
// connect-before-use contract.
func (d *dbusDevice) Connect() error {
	if err := d.obj.StoreProperty(ifaceDevice+".DeviceId", &d.id); err != nil {
		return pkgerrors.Wrapf(err, "could not connect to device %s", d.obj.Path())
	}
	var kind string
	if err := d.obj.StoreProperty(ifaceDevice+".Kind", &kind); err != nil {
		return pkgerrors.Wrapf(err, "could not connect to device %s", d.obj.Path())
	}
	if kind == string(KindDisplay) {
		d.kind = KindDisplay
	} else {
		d.kind = DeviceKind(kind)
	}
	return nil
}

func (d *dbusDevice) ID() string       { return d.id }
func (d *dbusDevice) Kind() DeviceKind { return d.kind }

func (d *dbusDevice) Profiles() ([]Profile, error) {
	var paths []dbus.ObjectPath
	if err := d.obj.StoreProperty(ifaceDevice+".Profiles", &paths); err != nil {
		return nil, pkgerrors.Wrapf(err, "failed to get profiles of device %s", d.id)
	}
	profiles := make([]Profile, 0, len(paths))
	for _, path := range paths {
		profiles = append(profiles, &dbusProfile{obj: d.client.conn.Object(busName, path)})
	}
	return profiles, nil
}

func (d *dbusDevice) AddProfile(relation Relation, profile Profile) error {
	p, ok := profile.(*dbusProfile)
	if !ok {
		return pkgerrors.Errorf("foreign profile handle %T", profile)
	}
	call := d.obj.Call(ifaceDevice+".AddProfile", 0, string(relation), p.obj.Path())
	return pkgerrors.Wrapf(call.Err, "failed to add profile to device %s", d.id)
}

func (d *dbusDevice) MakeProfileDefault(profile Profile) error {
	p, ok := profile.(*dbusProfile)
	if !ok {
		return pkgerrors.Errorf("foreign profile handle %T", profile)
	}
	call := d.obj.Call(ifaceDevice+".MakeProfileDefault", 0, p.obj.Path())
	return pkgerrors.Wrapf(call.Err, "failed to make profile default on device %s", d.id)
}

func (d *dbusDevice) RemoveProfile(profile Profile) error {
	p, ok := profile.(*dbusProfile)
	if !ok {
		return pkgerrors.Errorf("foreign profile handle %T", profile)
	}
	call := d.obj.Call(ifaceDevice+".RemoveProfile", 0, p.obj.Path())
	return pkgerrors.Wrapf(call.Err, "failed to remove profile from device %s", d.id)
}

type dbusProfile struct {
	obj dbus.BusObject

	id       string
	filename string
}

func (p *dbusProfile) Connect() error {
	if err := p.obj.StoreProperty(ifaceProfile+".ProfileId", &p.id); err != nil {
		return pkgerrors.Wrapf(err, "could not connect to profile %s", p.obj.Path())
	}
	if err := p.obj.StoreProperty(ifaceProfile+".Filename", &p.filename); err != nil {
		return pkgerrors.Wrapf(err, "could not connect to profile %s", p.obj.Path())
	}
	return nil
}

func (p *dbusProfile) ID() string       { return p.id }
func (p *dbusProfile) Filename() string { return p.filename }

// ReadData loads the profile's backing file. Like libcolord, profile data
// is read client-side from the filename the service reports.
func (p *dbusProfile) ReadData() ([]byte, error) {
	if p.filename == "" {
		return nil, ErrNoFilename
	}
	data, err := os.ReadFile(p.filename)
	if err != nil {
		return nil, pkgerrors.Wrapf(err, "failed to read profile data from %s", p.filename)
	}
	return data, nil
}
