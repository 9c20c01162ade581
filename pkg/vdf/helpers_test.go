package vdf

// payloadBuilder assembles binary VDF trees for tests. It deliberately goes
// through the same low-level append helpers as the encoder so v28 and v29
// trees can be built from one description; the encoder's own output shape
// is asserted against hand-written bytes in encode_test.go.
type payloadBuilder struct {
	buf     []byte
	version int
	table   *StringTable
}

func newPayload(version int, table *StringTable) *payloadBuilder {
	return &payloadBuilder{version: version, table: table}
}

func (b *payloadBuilder) section(key string) *payloadBuilder {
	b.buf = appendSectionOpen(b.buf, key, b.version, b.table)
	return b
}

func (b *payloadBuilder) end() *payloadBuilder {
	b.buf = append(b.buf, tagSectionEnd)
	return b
}

func (b *payloadBuilder) str(key, value string) *payloadBuilder {
	b.buf = appendStringField(b.buf, key, value, b.version, b.table)
	return b
}

func (b *payloadBuilder) int32(key string, v int32) *payloadBuilder {
	b.buf = append(b.buf, tagInt32)
	b.buf = appendKey(b.buf, key, b.version, b.table)
	b.buf = append(b.buf, byte(v), byte(v>>8), byte(v>>16), byte(v>>24))
	return b
}

func (b *payloadBuilder) int64(key string, v uint64) *payloadBuilder {
	b.buf = append(b.buf, tagInt64)
	b.buf = appendKey(b.buf, key, b.version, b.table)
	for i := 0; i < 8; i++ {
		b.buf = append(b.buf, byte(v>>(8*i)))
	}
	return b
}

func (b *payloadBuilder) bytes() []byte {
	return b.buf
}

// sectionsBalanced reports whether every Section in the payload has a
// matching SectionEnd and nothing dangles.
func sectionsBalanced(payload []byte, version int, table *StringTable) bool {
	c := NewCursor(payload)
	depth := 0
	for !c.EOF() {
		tag, err := c.Uint8()
		if err != nil {
			return false
		}
		if tag == tagSectionEnd {
			depth--
			if depth < 0 {
				return false
			}
			continue
		}
		if _, err := readKey(c, version, table); err != nil {
			return false
		}
		switch tag {
		case tagSection:
			depth++
		case tagString:
			_ = c.String()
		case tagInt32:
			if err := c.Skip(4); err != nil {
				return false
			}
		case tagInt64:
			if err := c.Skip(8); err != nil {
				return false
			}
		}
	}
	return depth == 0
}
