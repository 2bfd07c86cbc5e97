package icc

import (
	"crypto/md5"
	"encoding/binary"
	"os"

	pkgerrors "github.com/pkg/errors"
)

// Bytes serializes the profile: header, tag table, then 4-byte-aligned tag
// payloads. The header size field and the profile ID (MD5 per the ICC
// specification, with flags, rendering intent, and ID zeroed) are
// recomputed.
func (p *Profile) Bytes() []byte {
	tableSize := 4 + len(p.tags)*12
	size := headerSize + tableSize
	offsets := make([]int, len(p.tags))
	for i, t := range p.tags {
		size = align4(size)
		offsets[i] = size
		size += len(t.data)
	}
	size = align4(size)

	out := make([]byte, size)
	copy(out, p.header[:])
	binary.BigEndian.PutUint32(out[0:4], uint32(size))

	binary.BigEndian.PutUint32(out[headerSize:], uint32(len(p.tags)))
	for i, t := range p.tags {
		entry := out[headerSize+4+i*12:]
		copy(entry[0:4], t.sig)
		binary.BigEndian.PutUint32(entry[4:8], uint32(offsets[i]))
		binary.BigEndian.PutUint32(entry[8:12], uint32(len(t.data)))
		copy(out[offsets[i]:], t.data)
	}

	writeProfileID(out)
	return out
}

// Save writes the serialized profile to path.
func (p *Profile) Save(path string) error {
	if err := os.WriteFile(path, p.Bytes(), 0o644); err != nil {
		return pkgerrors.Wrapf(err, "could not save profile to %s", path)
	}
	return nil
}

func writeProfileID(out []byte) {
	sum := func() [md5.Size]byte {
		h := make([]byte, len(out))
		copy(h, out)
		for i := 0; i < 4; i++ {
			h[offFlags+i] = 0
			h[offIntent+i] = 0
		}
		for i := 0; i < profileIDSize; i++ {
			h[offProfileID+i] = 0
		}
		return md5.Sum(h)
	}()
	copy(out[offProfileID:offProfileID+profileIDSize], sum[:])
}

func align4(n int) int {
	return (n + 3) &^ 3
}
