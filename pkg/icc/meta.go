package icc

import (
	"encoding/binary"
	"unicode/utf16"
)

// Metadata returns the key/value pairs of the meta tag, in record order.
func (p *Profile) Metadata() map[string]string {
	meta := map[string]string{}
	for _, rec := range p.metadataRecords() {
		meta[rec[0]] = rec[1]
	}
	return meta
}

// AddMetadata sets a string metadata key in the profile's meta dict,
// replacing any existing record with the same key.
func (p *Profile) AddMetadata(key, value string) {
	records := p.metadataRecords()
	replaced := false
	for i := range records {
		if records[i][0] == key {
			records[i][1] = value
			replaced = true
		}
	}
	if !replaced {
		records = append(records, [2]string{key, value})
	}
	p.setTag("meta", encodeDict(records))
}

// metadataRecords parses the meta tag (dictType). Records are read from the
// leading name/value offsets regardless of the stored record size, so dicts
// with display-name extensions survive with their core pairs intact.
func (p *Profile) metadataRecords() [][2]string {
	data := p.tagData("meta")
	if len(data) < 16 || string(data[0:4]) != "dict" {
		return nil
	}
	count := binary.BigEndian.Uint32(data[8:12])
	recordSize := binary.BigEndian.Uint32(data[12:16])
	if recordSize < 16 {
		return nil
	}

	var records [][2]string
	for i := uint32(0); i < count; i++ {
		rec := 16 + i*recordSize
		if int(rec)+16 > len(data) {
			break
		}
		name, ok := dictString(data, data[rec:])
		if !ok {
			continue
		}
		value, ok := dictString(data, data[rec+8:])
		if !ok {
			continue
		}
		records = append(records, [2]string{name, value})
	}
	return records
}

func dictString(data, entry []byte) (string, bool) {
	offset := binary.BigEndian.Uint32(entry[0:4])
	size := binary.BigEndian.Uint32(entry[4:8])
	if size%2 != 0 || int64(offset)+int64(size) > int64(len(data)) {
		return "", false
	}
	raw := data[offset : offset+size]
	u := make([]uint16, len(raw)/2)
	for i := range u {
		u[i] = binary.BigEndian.Uint16(raw[i*2:])
	}
	return string(utf16.Decode(u)), true
}

func encodeDict(records [][2]string) []byte {
	const recordSize = 16

	data := make([]byte, 0, 64)
	data = append(data, "dict"...)
	data = append(data, 0, 0, 0, 0)
	data = binary.BigEndian.AppendUint32(data, uint32(len(records)))
	data = binary.BigEndian.AppendUint32(data, recordSize)

	// Reserve the record array, then append the UTF-16BE string pool.
	recBase := len(data)
	data = append(data, make([]byte, recordSize*len(records))...)

	appendString := func(rec int, s string) {
		start := len(data)
		for _, u := range utf16.Encode([]rune(s)) {
			data = binary.BigEndian.AppendUint16(data, u)
		}
		binary.BigEndian.PutUint32(data[rec:], uint32(start))
		binary.BigEndian.PutUint32(data[rec+4:], uint32(len(data)-start))
		// dict string pool entries are 4-byte aligned
		for len(data)%4 != 0 {
			data = append(data, 0)
		}
	}
	for i, record := range records {
		rec := recBase + i*recordSize
		appendString(rec, record[0])
		appendString(rec+8, record[1])
	}
	return data
}
