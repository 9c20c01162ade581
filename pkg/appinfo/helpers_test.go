package appinfo

import (
	"encoding/binary"

	"github.com/savelocker/steamufs/pkg/vdf"
)

// treeBuilder assembles binary VDF payloads for test files, inlining keys
// for versions 27/28 and interning them for 29.
type treeBuilder struct {
	buf     []byte
	version int
	table   *vdf.StringTable
}

func newTree(version int, table *vdf.StringTable) *treeBuilder {
	return &treeBuilder{version: version, table: table}
}

func (b *treeBuilder) key(k string) {
	if b.version >= stringTableVersion {
		var idx [4]byte
		binary.LittleEndian.PutUint32(idx[:], uint32(b.table.GetOrCreate(k)))
		b.buf = append(b.buf, idx[:]...)
		return
	}
	b.buf = append(b.buf, k...)
	b.buf = append(b.buf, 0)
}

func (b *treeBuilder) sec(k string) *treeBuilder {
	b.buf = append(b.buf, 0x00)
	b.key(k)
	return b
}

func (b *treeBuilder) str(k, v string) *treeBuilder {
	b.buf = append(b.buf, 0x01)
	b.key(k)
	b.buf = append(b.buf, v...)
	b.buf = append(b.buf, 0)
	return b
}

func (b *treeBuilder) int32(k string, v int32) *treeBuilder {
	b.buf = append(b.buf, 0x02)
	b.key(k)
	var word [4]byte
	binary.LittleEndian.PutUint32(word[:], uint32(v))
	b.buf = append(b.buf, word[:]...)
	return b
}

func (b *treeBuilder) end() *treeBuilder {
	b.buf = append(b.buf, 0x08)
	return b
}

// ufsPayload is a record body with an existing savefiles entry.
func ufsPayload(version int, table *vdf.StringTable, name string) []byte {
	return newTree(version, table).
		sec("appinfo").
		sec("common").
		str("name", name).
		end().
		sec("ufs").
		int32("quota", 1048576).
		sec("savefiles").
		sec("0").
		str("root", "WinMyDocuments").
		str("path", "Old/").
		str("pattern", "*.sav").
		end().
		end().
		end().
		end().
		buf
}

// plainPayload is a record body with no ufs section at all.
func plainPayload(version int, table *vdf.StringTable, name string) []byte {
	return newTree(version, table).
		sec("appinfo").
		sec("common").
		str("name", name).
		end().
		end().
		buf
}

// buildRecord renders a full record for appID around the given payload. The
// stored checksums are deliberately stale; patching never trusts them.
func buildRecord(version int, appID uint32, payload []byte) []byte {
	rec := &record{
		appID:        appID,
		infoState:    2,
		lastUpdated:  1700000000,
		accessToken:  777,
		changeNumber: 42,
	}
	var stale [20]byte
	return rec.encode(version, payload, stale, stale)
}

func magicFor(version int) uint32 {
	switch version {
	case 27:
		return magicV27
	case 28:
		return magicV28
	default:
		return magicV29
	}
}

// buildFile assembles a complete appinfo.vdf: header, records, the zero-id
// sentinel, and (v29) the trailing string table with its header offset.
func buildFile(version int, table *vdf.StringTable, records ...[]byte) []byte {
	hdr := &header{magic: magicFor(version), version: version, universe: 1}
	out := hdr.encode()
	for _, r := range records {
		out = append(out, r...)
	}
	out = append(out, 0, 0, 0, 0) // sentinel

	if version >= stringTableVersion {
		binary.LittleEndian.PutUint64(out[stringTableOffsetPos:], uint64(len(out)))
		out = table.AppendTo(out)
	}
	return out
}
