package appinfo

import (
	"encoding/binary"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/savelocker/steamufs/pkg/errors"
	"github.com/savelocker/steamufs/pkg/vdf"
)

func TestHeaderRoundTrip(t *testing.T) {
	tests := []struct {
		version int
		magic   uint32
		len     int
	}{
		{version: 27, magic: magicV27, len: 8},
		{version: 28, magic: magicV28, len: 8},
		{version: 29, magic: magicV29, len: 16},
	}
	for _, test := range tests {
		t.Run(fmt.Sprintf("v%d", test.version), func(t *testing.T) {
			hdr := &header{magic: test.magic, version: test.version, universe: 1}
			if test.version >= stringTableVersion {
				hdr.stringTableOffset = 0x1234
			}

			buf := hdr.encode()
			assert.Len(t, buf, test.len)

			parsed, err := parseHeader(vdf.NewCursor(buf))
			assert.NoError(t, err)
			assert.Equal(t, hdr, parsed)
			assert.Equal(t, buf, parsed.encode())
		})
	}
}

func TestParseHeaderUnknownMagic(t *testing.T) {
	// Only the magic is present; an unsupported value must fail before the
	// parser reads anything else.
	buf := make([]byte, 4)
	binary.LittleEndian.PutUint32(buf, 0xDEADBEEF)

	_, err := parseHeader(vdf.NewCursor(buf))
	assert.Error(t, err)
	assert.Equal(t, errors.UnsupportedVersion{Magic: 0xDEADBEEF}, err)
}

func TestParseHeaderTruncated(t *testing.T) {
	buf := make([]byte, 4)
	binary.LittleEndian.PutUint32(buf, magicV28)

	_, err := parseHeader(vdf.NewCursor(buf))
	assert.Error(t, err)
	assert.IsType(t, errors.FormatError{}, err)
}

func TestFindRecord(t *testing.T) {
	payload10 := plainPayload(28, nil, "First")
	payload20 := ufsPayload(28, nil, "Second")
	data := buildFile(28, nil,
		buildRecord(28, 10, payload10),
		buildRecord(28, 20, payload20),
		buildRecord(28, 30, plainPayload(28, nil, "Third")),
	)

	c := vdf.NewCursor(data)
	_, err := parseHeader(c)
	assert.NoError(t, err)

	rec, err := findRecord(c, data, 28, 20)
	assert.NoError(t, err)
	assert.Equal(t, uint32(20), rec.appID)
	assert.Equal(t, uint32(2), rec.infoState)
	assert.Equal(t, uint32(1700000000), rec.lastUpdated)
	assert.Equal(t, uint64(777), rec.accessToken)
	assert.Equal(t, uint32(42), rec.changeNumber)
	assert.Equal(t, payload20, rec.payload)
}

func TestFindRecordNotFound(t *testing.T) {
	data := buildFile(28, nil, buildRecord(28, 10, plainPayload(28, nil, "Only")))

	c := vdf.NewCursor(data)
	_, err := parseHeader(c)
	assert.NoError(t, err)

	_, err = findRecord(c, data, 28, 99)
	assert.Equal(t, errors.AppNotFound{AppID: 99}, err)
}

func TestFindRecordOversizedEntry(t *testing.T) {
	data := buildFile(28, nil, buildRecord(28, 10, plainPayload(28, nil, "Bad")))
	// Inflate the first record's size field past the end of the file.
	binary.LittleEndian.PutUint32(data[12:], uint32(len(data)))

	c := vdf.NewCursor(data)
	_, err := parseHeader(c)
	assert.NoError(t, err)

	_, err = findRecord(c, data, 28, 10)
	assert.Error(t, err)
	assert.IsType(t, errors.FormatError{}, err)
}

func TestRecordEncodeVersionWidths(t *testing.T) {
	payload := plainPayload(27, nil, "Game")

	v27 := buildRecord(27, 10, payload)
	v28 := buildRecord(28, 10, payload)
	// Version 28 adds the 20-byte binary checksum to the fixed fields.
	assert.Equal(t, len(v27)+20, len(v28))

	size := binary.LittleEndian.Uint32(v28[4:])
	assert.Equal(t, uint32(recordFieldsLen(28)+len(payload)), size)
}
