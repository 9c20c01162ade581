package vdf

import (
	"crypto/sha1"
	"fmt"
	"strings"
)

// BinaryChecksum is the SHA-1 of the raw record payload bytes.
func BinaryChecksum(payload []byte) [20]byte {
	return sha1.Sum(payload)
}

// TextChecksum is the SHA-1 Steam stores next to every record: the payload
// is re-rendered into Steam's pseudo-text form, every backslash is doubled,
// and the result is hashed. The rendering is an exact external contract
// (see renderChecksumText); both steps must match what Steam's own
// serializer produces bit-for-bit or Steam will consider the record corrupt.
func TextChecksum(payload []byte, version int, table *StringTable) ([20]byte, error) {
	text, err := renderChecksumText(payload, version, table)
	if err != nil {
		return [20]byte{}, err
	}
	escaped := strings.ReplaceAll(text, `\`, `\\`)
	return sha1.Sum([]byte(escaped)), nil
}

// renderChecksumText reproduces Steam's checksum re-serialization:
//
//   - a Section renders as an indented quoted key line, an indented "{"
//     line, its children one level deeper, and an indented "}" line;
//   - a leaf renders as an indented quoted key, the four bytes `\t\t`, and
//     the quoted value (integers in decimal);
//   - indentation is real tab bytes, one per depth level, but every "line"
//     ends with the two bytes `\n` - a literal backslash and letter n, not
//     a newline byte.
//
// The mix of real tabs and backslash escapes looks like a bug. It is the
// contract: Steam's own serializer produces exactly this before hashing.
func renderChecksumText(payload []byte, version int, table *StringTable) (string, error) {
	var out strings.Builder
	c := NewCursor(payload)
	if err := renderSection(c, version, table, 0, &out); err != nil {
		return "", err
	}
	return out.String(), nil
}

func renderSection(c *Cursor, version int, table *StringTable, indent int, out *strings.Builder) error {
	prefix := strings.Repeat("\t", indent)

	for !c.EOF() {
		tag, err := c.Uint8()
		if err != nil {
			return err
		}
		if tag == tagSectionEnd {
			return nil
		}

		key, err := readKey(c, version, table)
		if err != nil {
			return err
		}

		switch tag {
		case tagSection:
			fmt.Fprintf(out, "%s\"%s\"\\n%s{\\n", prefix, key, prefix)
			if err := renderSection(c, version, table, indent+1, out); err != nil {
				return err
			}
			fmt.Fprintf(out, "%s}\\n", prefix)
		case tagString:
			fmt.Fprintf(out, "%s\"%s\"\\t\\t\"%s\"\\n", prefix, key, c.String())
		case tagInt32:
			v, err := c.Int32()
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "%s\"%s\"\\t\\t\"%d\"\\n", prefix, key, v)
		case tagInt64:
			// 64-bit values render unsigned.
			v, err := c.Uint64()
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "%s\"%s\"\\t\\t\"%d\"\\n", prefix, key, v)
		default:
			// Unknown tag: key consumed, nothing rendered (see package doc).
		}
	}
	return nil
}
