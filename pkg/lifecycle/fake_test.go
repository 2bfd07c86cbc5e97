package lifecycle

import (
	"os"
	"path/filepath"

	pkgerrors "github.com/pkg/errors"

	"github.com/cdutil/gamma-tool/pkg/colord"
)

// fakeClient simulates the color-management service. Files written under
// watch become visible to FindProfileByFilename only after ProcessEvents
// has run, modelling the service's asynchronous discovery.
type fakeClient struct {
	devices []colord.Device
	known   map[string]*fakeProfile

	// watch is the directory scanned for new files on ProcessEvents.
	// Empty means discovery never happens.
	watch string

	events int
	closed bool
}

func newFakeClient() *fakeClient {
	return &fakeClient{known: map[string]*fakeProfile{}}
}

func (c *fakeClient) addKnown(p *fakeProfile) {
	c.known[p.filename] = p
}

func (c *fakeClient) Devices() ([]colord.Device, error) {
	return c.devices, nil
}

func (c *fakeClient) FindProfileByFilename(filename string) (colord.Profile, error) {
	if p, ok := c.known[filename]; ok {
		return p, nil
	}
	return nil, colord.ErrProfileNotFound
}

func (c *fakeClient) ProcessEvents() {
	c.events++
	if c.watch == "" {
		return
	}
	entries, err := os.ReadDir(c.watch)
	if err != nil {
		return
	}
	for _, e := range entries {
		path := filepath.Join(c.watch, e.Name())
		if _, ok := c.known[path]; !ok {
			c.known[path] = &fakeProfile{id: e.Name(), filename: path}
		}
	}
}

func (c *fakeClient) Close() error {
	c.closed = true
	return nil
}

type fakeDevice struct {
	id         string
	kind       colord.DeviceKind
	profiles   []colord.Profile
	connectErr error

	addErr     error
	defaultErr error
	removeErr  error

	added    []colord.Profile
	defaults []colord.Profile
	removed  []colord.Profile
}

func (d *fakeDevice) Connect() error          { return d.connectErr }
func (d *fakeDevice) ID() string              { return d.id }
func (d *fakeDevice) Kind() colord.DeviceKind { return d.kind }

func (d *fakeDevice) Profiles() ([]colord.Profile, error) {
	return d.profiles, nil
}

func (d *fakeDevice) AddProfile(_ colord.Relation, p colord.Profile) error {
	if d.addErr != nil {
		return d.addErr
	}
	d.added = append(d.added, p)
	return nil
}

func (d *fakeDevice) MakeProfileDefault(p colord.Profile) error {
	if d.defaultErr != nil {
		return d.defaultErr
	}
	d.defaults = append(d.defaults, p)
	return nil
}

func (d *fakeDevice) RemoveProfile(p colord.Profile) error {
	if d.removeErr != nil {
		return d.removeErr
	}
	d.removed = append(d.removed, p)
	return nil
}

type fakeProfile struct {
	id         string
	filename   string
	raw        []byte
	connectErr error
	connected  bool
}

func (p *fakeProfile) Connect() error {
	if p.connectErr != nil {
		return p.connectErr
	}
	p.connected = true
	return nil
}

func (p *fakeProfile) ID() string       { return p.id }
func (p *fakeProfile) Filename() string { return p.filename }

func (p *fakeProfile) ReadData() ([]byte, error) {
	if p.raw != nil {
		return p.raw, nil
	}
	if p.filename == "" {
		return nil, colord.ErrNoFilename
	}
	return os.ReadFile(p.filename)
}

// fakeDocument records codec mutations and writes a marker file on save.
type fakeDocument struct {
	description string
	metadata    map[string]string
	vcgt        [][3]float64
	saveErr     error
	savedTo     string
}

func (d *fakeDocument) SetDescription(title string) { d.description = title }

func (d *fakeDocument) AddMetadata(key, value string) {
	if d.metadata == nil {
		d.metadata = map[string]string{}
	}
	d.metadata[key] = value
}

func (d *fakeDocument) SetVCGT(table [][3]float64) error {
	d.vcgt = table
	return nil
}

func (d *fakeDocument) Save(path string) error {
	if d.saveErr != nil {
		return d.saveErr
	}
	d.savedTo = path
	return os.WriteFile(path, []byte("fake profile"), 0o644)
}

// fakeCodec returns a Codec yielding the given document, so tests can
// observe what was written into it.
func fakeCodec(doc *fakeDocument) Codec {
	return func(raw []byte) (Document, error) {
		if len(raw) == 0 {
			return nil, pkgerrors.New("empty profile data")
		}
		return doc, nil
	}
}
