package vdf

import (
	"unicode/utf8"
)

// maxStringTableEntries caps string table parsing. A table this large means
// the header offset pointed into garbage, so we stop rather than interning
// the rest of the file.
const maxStringTableEntries = 50000

// StringTable is the append-only interned string list that version 29 files
// carry after the last record. Indices are stable for the lifetime of the
// table, so a key interned while encoding one subtree stays valid for every
// other subtree of the same mutation pass.
type StringTable struct {
	strings []string
	index   map[string]int
}

// NewStringTable returns an empty table.
func NewStringTable() *StringTable {
	return &StringTable{index: map[string]int{}}
}

// ParseStringTable reads null-terminated strings from data[offset:] to the
// end of the buffer. Empty and non-UTF8 entries are skipped, and parsing
// stops after maxStringTableEntries.
func ParseStringTable(data []byte, offset int) *StringTable {
	t := NewStringTable()
	if offset < 0 || offset >= len(data) {
		return t
	}

	pos := offset
	for pos < len(data) && t.Len() < maxStringTableEntries {
		start := pos
		for pos < len(data) && data[pos] != 0 {
			pos++
		}
		raw := data[start:pos]
		pos++ // the terminator

		if len(raw) == 0 || !utf8.Valid(raw) {
			continue
		}
		s := string(raw)
		if _, ok := t.index[s]; !ok {
			t.index[s] = len(t.strings)
		}
		t.strings = append(t.strings, s)
	}
	return t
}

// GetOrCreate returns the index of s, appending it first if it isn't
// already interned. Repeated calls with the same string are idempotent:
// they never grow the table or move the index.
func (t *StringTable) GetOrCreate(s string) int {
	if idx, ok := t.index[s]; ok {
		return idx
	}
	idx := len(t.strings)
	t.strings = append(t.strings, s)
	t.index[s] = idx
	return idx
}

// Lookup returns the string at index i.
func (t *StringTable) Lookup(i int) (string, bool) {
	if t == nil || i < 0 || i >= len(t.strings) {
		return "", false
	}
	return t.strings[i], true
}

// Len returns the number of interned strings.
func (t *StringTable) Len() int {
	if t == nil {
		return 0
	}
	return len(t.strings)
}

// AppendTo serializes the table as consecutive null-terminated strings.
func (t *StringTable) AppendTo(buf []byte) []byte {
	for _, s := range t.strings {
		buf = append(buf, s...)
		buf = append(buf, 0)
	}
	return buf
}
