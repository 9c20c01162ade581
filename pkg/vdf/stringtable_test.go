package vdf

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStringTableGetOrCreateIdempotent(t *testing.T) {
	table := NewStringTable()

	first := table.GetOrCreate("root")
	second := table.GetOrCreate("path")
	assert.Equal(t, 0, first)
	assert.Equal(t, 1, second)

	// Interning again must not grow the table or move the index.
	assert.Equal(t, first, table.GetOrCreate("root"))
	assert.Equal(t, second, table.GetOrCreate("path"))
	assert.Equal(t, 2, table.Len())
}

func TestStringTableLookup(t *testing.T) {
	table := NewStringTable()
	table.GetOrCreate("ufs")

	s, ok := table.Lookup(0)
	assert.True(t, ok)
	assert.Equal(t, "ufs", s)

	_, ok = table.Lookup(1)
	assert.False(t, ok)
	_, ok = table.Lookup(-1)
	assert.False(t, ok)

	var nilTable *StringTable
	_, ok = nilTable.Lookup(0)
	assert.False(t, ok)
	assert.Equal(t, 0, nilTable.Len())
}

func TestParseStringTable(t *testing.T) {
	data := []byte("prefix\x00ufs\x00savefiles\x00\x00root\x00")
	table := ParseStringTable(data, len("prefix\x00"))

	assert.Equal(t, 3, table.Len())
	s, ok := table.Lookup(0)
	assert.True(t, ok)
	assert.Equal(t, "ufs", s)
	s, ok = table.Lookup(2)
	assert.True(t, ok)
	assert.Equal(t, "root", s)
}

func TestParseStringTableOffsetOutOfRange(t *testing.T) {
	data := []byte("ufs\x00")
	assert.Equal(t, 0, ParseStringTable(data, len(data)).Len())
	assert.Equal(t, 0, ParseStringTable(data, -1).Len())
}

func TestStringTableRoundTrip(t *testing.T) {
	table := NewStringTable()
	table.GetOrCreate("ufs")
	table.GetOrCreate("savefiles")
	table.GetOrCreate("root")

	buf := table.AppendTo(nil)
	assert.Equal(t, []byte("ufs\x00savefiles\x00root\x00"), buf)

	parsed := ParseStringTable(buf, 0)
	assert.Equal(t, table.Len(), parsed.Len())
	for i := 0; i < table.Len(); i++ {
		want, _ := table.Lookup(i)
		got, ok := parsed.Lookup(i)
		assert.True(t, ok)
		assert.Equal(t, want, got)
	}
}
