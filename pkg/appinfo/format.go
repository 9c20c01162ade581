// Package appinfo reads, patches, and rewrites Steam's appcache/appinfo.vdf:
// a header followed by an append-log of per-application records and, from
// format version 29 on, a trailing string table. Only the target record is
// ever re-encoded; every other byte of the file is copied verbatim.
package appinfo

import (
	"encoding/binary"

	"github.com/savelocker/steamufs/pkg/errors"
	"github.com/savelocker/steamufs/pkg/vdf"
)

// Magic values of the supported format versions.
const (
	magicV27 uint32 = 0x07564427
	magicV28 uint32 = 0x07564428
	magicV29 uint32 = 0x07564429
)

// binaryChecksumVersion is the first version whose record header carries a
// second, binary SHA-1 alongside the text one.
const binaryChecksumVersion = 28

// stringTableVersion is the first version with a trailing string table.
const stringTableVersion = 29

type header struct {
	magic             uint32
	version           int
	universe          uint32
	stringTableOffset uint64 // meaningful for version >= 29 only
}

// parseHeader reads the fixed file header. An unrecognized magic fails with
// UnsupportedVersion before anything else is looked at.
func parseHeader(c *vdf.Cursor) (*header, error) {
	magic, err := c.Uint32()
	if err != nil {
		return nil, err
	}

	h := &header{magic: magic}
	switch magic {
	case magicV27:
		h.version = 27
	case magicV28:
		h.version = 28
	case magicV29:
		h.version = 29
	default:
		return nil, errors.UnsupportedVersion{Magic: magic}
	}

	if h.universe, err = c.Uint32(); err != nil {
		return nil, err
	}
	if h.version >= stringTableVersion {
		if h.stringTableOffset, err = c.Uint64(); err != nil {
			return nil, err
		}
	}
	return h, nil
}

// encodeHeader renders the header back to bytes. For version >= 29 the
// string table offset is written as given; Patch overwrites it once the new
// end of file is known.
func (h *header) encode() []byte {
	buf := make([]byte, 8, 16)
	binary.LittleEndian.PutUint32(buf[0:], h.magic)
	binary.LittleEndian.PutUint32(buf[4:], h.universe)
	if h.version >= stringTableVersion {
		var off [8]byte
		binary.LittleEndian.PutUint64(off[:], h.stringTableOffset)
		buf = append(buf, off[:]...)
	}
	return buf
}

// stringTableOffsetPos is where the u64 string table offset lives in a
// version >= 29 header.
const stringTableOffsetPos = 8

// record is one application's entry. size counts everything after the size
// field itself: the fixed fields below plus the tree payload.
type record struct {
	appID          uint32
	size           uint32
	infoState      uint32
	lastUpdated    uint32
	accessToken    uint64
	textChecksum   [20]byte
	changeNumber   uint32
	binaryChecksum [20]byte // version >= 28

	payload []byte

	// start and end delimit the whole record (app id through payload)
	// within the file.
	start, end int
}

// recordFieldsLen is the byte length of the fixed fields counted inside
// size, i.e. size minus the payload length.
func recordFieldsLen(version int) int {
	n := 4 + 4 + 8 + 20 + 4 // infostate, lastupdated, token, text sha, changenumber
	if version >= binaryChecksumVersion {
		n += 20
	}
	return n
}

// findRecord scans records from the cursor's position until it reaches the
// target app id or the zero-id sentinel. Non-matching records are skipped
// without parsing their bodies.
func findRecord(c *vdf.Cursor, data []byte, version int, target uint32) (*record, error) {
	for {
		start := c.Pos()
		appID, err := c.Uint32()
		if err != nil {
			return nil, err
		}
		if appID == 0 {
			return nil, errors.AppNotFound{AppID: target}
		}

		size, err := c.Uint32()
		if err != nil {
			return nil, err
		}
		end := start + 8 + int(size)
		if end > len(data) {
			return nil, errors.FormatError{
				Offset: start,
				Reason: "record extends past end of file",
			}
		}

		if appID != target {
			c.Seek(end)
			continue
		}

		rec := &record{appID: appID, size: size, start: start, end: end}
		if rec.infoState, err = c.Uint32(); err != nil {
			return nil, err
		}
		if rec.lastUpdated, err = c.Uint32(); err != nil {
			return nil, err
		}
		if rec.accessToken, err = c.Uint64(); err != nil {
			return nil, err
		}
		sum, err := c.Bytes(20)
		if err != nil {
			return nil, err
		}
		copy(rec.textChecksum[:], sum)
		if rec.changeNumber, err = c.Uint32(); err != nil {
			return nil, err
		}
		if version >= binaryChecksumVersion {
			if sum, err = c.Bytes(20); err != nil {
				return nil, err
			}
			copy(rec.binaryChecksum[:], sum)
		}

		fields := recordFieldsLen(version)
		if int(size) < fields {
			return nil, errors.FormatError{
				Offset: start,
				Reason: "record size smaller than its fixed fields",
			}
		}
		if rec.payload, err = c.Bytes(int(size) - fields); err != nil {
			return nil, err
		}
		return rec, nil
	}
}

// encode renders the record with a replacement payload and freshly computed
// checksums; size is recomputed from the payload length.
func (r *record) encode(version int, payload []byte, textSum, binarySum [20]byte) []byte {
	size := recordFieldsLen(version) + len(payload)
	buf := make([]byte, 0, 8+size)

	var word [8]byte
	binary.LittleEndian.PutUint32(word[:4], r.appID)
	buf = append(buf, word[:4]...)
	binary.LittleEndian.PutUint32(word[:4], uint32(size))
	buf = append(buf, word[:4]...)
	binary.LittleEndian.PutUint32(word[:4], r.infoState)
	buf = append(buf, word[:4]...)
	binary.LittleEndian.PutUint32(word[:4], r.lastUpdated)
	buf = append(buf, word[:4]...)
	binary.LittleEndian.PutUint64(word[:], r.accessToken)
	buf = append(buf, word[:]...)
	buf = append(buf, textSum[:]...)
	binary.LittleEndian.PutUint32(word[:4], r.changeNumber)
	buf = append(buf, word[:4]...)
	if version >= binaryChecksumVersion {
		buf = append(buf, binarySum[:]...)
	}
	return append(buf, payload...)
}
