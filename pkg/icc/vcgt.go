package icc

import (
	"encoding/binary"
	"math"

	pkgerrors "github.com/pkg/errors"
)

// SetVCGT replaces the profile's video card gamma table with the given
// samples. Each sample is an (R, G, B) triple in [0, 1]; values outside the
// range are clamped. The table form of videoCardGammaType is written: 3
// channels, 16 bits per entry, channel-major.
func (p *Profile) SetVCGT(table [][3]float64) error {
	if len(table) == 0 {
		return pkgerrors.New("icc: empty vcgt table")
	}
	if len(table) > math.MaxUint16 {
		return pkgerrors.Errorf("icc: vcgt table too large (%d entries)", len(table))
	}

	data := make([]byte, 0, 18+len(table)*6)
	data = append(data, "vcgt"...)
	data = append(data, 0, 0, 0, 0)
	data = binary.BigEndian.AppendUint32(data, 0) // gamma type: table
	data = binary.BigEndian.AppendUint16(data, 3) // channels
	data = binary.BigEndian.AppendUint16(data, uint16(len(table)))
	data = binary.BigEndian.AppendUint16(data, 2) // bytes per entry

	for c := 0; c < 3; c++ {
		for _, sample := range table {
			v := sample[c]
			if v < 0 {
				v = 0
			}
			if v > 1 {
				v = 1
			}
			data = binary.BigEndian.AppendUint16(data, uint16(math.Round(v*math.MaxUint16)))
		}
	}

	p.setTag("vcgt", data)
	return nil
}

// VCGT reads back the table written by SetVCGT. Profiles without a
// table-form vcgt tag return nil.
func (p *Profile) VCGT() [][3]float64 {
	data := p.tagData("vcgt")
	if len(data) < 18 || string(data[0:4]) != "vcgt" {
		return nil
	}
	if binary.BigEndian.Uint32(data[8:12]) != 0 {
		return nil // formula form, not carried
	}
	channels := binary.BigEndian.Uint16(data[12:14])
	count := int(binary.BigEndian.Uint16(data[14:16]))
	entrySize := binary.BigEndian.Uint16(data[16:18])
	if channels != 3 || entrySize != 2 || 18+count*6 > len(data) {
		return nil
	}

	table := make([][3]float64, count)
	for c := 0; c < 3; c++ {
		base := 18 + c*count*2
		for i := 0; i < count; i++ {
			raw := binary.BigEndian.Uint16(data[base+i*2:])
			table[i][c] = float64(raw) / math.MaxUint16
		}
	}
	return table
}
