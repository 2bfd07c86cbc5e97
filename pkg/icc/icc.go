// Package icc provides tag-level editing of ICC profiles: just enough to
// load a base display profile, stamp a description, metadata, and a video
// card gamma table onto it, and write the result back out.
//
// Tag payloads other than the ones this package writes are carried through
// untouched.
package icc

import (
	"encoding/binary"

	pkgerrors "github.com/pkg/errors"
)

const (
	headerSize = 128

	// Header field offsets (ICC.1:2001-04).
	offMagic      = 36
	offFlags      = 44
	offIntent     = 64
	offProfileID  = 84
	magic         = "acsp"
	profileIDSize = 16
)

var (
	// ErrTruncated is returned when the input is too short to be a profile.
	ErrTruncated = pkgerrors.New("icc: truncated profile data")

	// ErrBadMagic is returned when the profile signature is missing.
	ErrBadMagic = pkgerrors.New("icc: bad profile signature")
)

type tag struct {
	sig  string
	data []byte
}

// Profile is a mutable in-memory ICC profile.
type Profile struct {
	header [headerSize]byte
	tags   []tag
}

// Load parses raw profile bytes.
func Load(data []byte) (*Profile, error) {
	if len(data) < headerSize+4 {
		return nil, ErrTruncated
	}
	if string(data[offMagic:offMagic+4]) != magic {
		return nil, ErrBadMagic
	}

	p := &Profile{}
	copy(p.header[:], data)

	count := binary.BigEndian.Uint32(data[headerSize:])
	tableEnd := headerSize + 4 + int(count)*12
	if tableEnd > len(data) {
		return nil, pkgerrors.Wrapf(ErrTruncated, "tag table needs %d bytes, have %d", tableEnd, len(data))
	}

	for i := 0; i < int(count); i++ {
		entry := data[headerSize+4+i*12:]
		sig := string(entry[0:4])
		offset := binary.BigEndian.Uint32(entry[4:8])
		size := binary.BigEndian.Uint32(entry[8:12])
		if int64(offset)+int64(size) > int64(len(data)) {
			return nil, pkgerrors.Wrapf(ErrTruncated, "tag %q points past end of data", sig)
		}
		payload := make([]byte, size)
		copy(payload, data[offset:offset+size])
		p.tags = append(p.tags, tag{sig: sig, data: payload})
	}

	return p, nil
}

func (p *Profile) setTag(sig string, data []byte) {
	for i := range p.tags {
		if p.tags[i].sig == sig {
			p.tags[i].data = data
			return
		}
	}
	p.tags = append(p.tags, tag{sig: sig, data: data})
}

func (p *Profile) tagData(sig string) []byte {
	for i := range p.tags {
		if p.tags[i].sig == sig {
			return p.tags[i].data
		}
	}
	return nil
}

// Description returns the profile description, if the desc tag is in the
// textDescriptionType form this package writes. Missing or foreign forms
// return "".
func (p *Profile) Description() string {
	data := p.tagData("desc")
	if len(data) < 12 || string(data[0:4]) != "desc" {
		return ""
	}
	n := binary.BigEndian.Uint32(data[8:12])
	if n == 0 || 12+int(n) > len(data) {
		return ""
	}
	return string(data[12 : 12+n-1]) // drop the NUL
}

// SetDescription replaces the profile description with a
// textDescriptionType carrying desc in the ASCII field.
func (p *Profile) SetDescription(desc string) {
	ascii := append([]byte(desc), 0)
	data := make([]byte, 0, 90+len(ascii))

	data = append(data, "desc"...)
	data = append(data, 0, 0, 0, 0)
	data = binary.BigEndian.AppendUint32(data, uint32(len(ascii)))
	data = append(data, ascii...)
	data = binary.BigEndian.AppendUint32(data, 0) // unicode language code
	data = binary.BigEndian.AppendUint32(data, 0) // unicode count
	data = append(data, 0, 0)                     // scriptcode code
	data = append(data, 0)                        // macintosh count
	data = append(data, make([]byte, 67)...)      // macintosh description

	p.setTag("desc", data)
}
