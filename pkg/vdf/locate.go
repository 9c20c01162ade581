package vdf

import (
	"strconv"

	"github.com/savelocker/steamufs/pkg/errors"
)

// Subtree keys the locator tracks. The ufs section always sits at depth 2
// (app id -> ufs) in appinfo records.
const (
	ufsKey           = "ufs"
	saveFilesKey     = "savefiles"
	rootOverridesKey = "rootoverrides"
	ufsDepth         = 2
)

// LocateResult records byte offsets within one record payload. Start
// offsets point at the Section tag byte; end offsets point at the matching
// SectionEnd tag byte. Absent subtrees are marked with -1.
type LocateResult struct {
	UfsStart int
	UfsEnd   int

	SaveFilesStart int
	SaveFilesEnd   int

	RootOverridesStart int
	RootOverridesEnd   int

	// MaxSaveFileIndex and MaxRootOverrideIndex are the highest numeric
	// child keys seen in the respective lists, or -1. They are informational
	// only: encoding always renumbers densely from 0.
	MaxSaveFileIndex     int
	MaxRootOverrideIndex int

	// RecordEnd is the offset of the SectionEnd closing the record's own
	// root section, or -1.
	RecordEnd int
}

// HasUfs reports whether a complete ufs subtree was found.
func (l *LocateResult) HasUfs() bool {
	return l.UfsStart >= 0 && l.UfsEnd >= 0
}

// readKey decodes a node key: an interned index for version 29 files, an
// inline null-terminated string before that. Missing table entries resolve
// to the empty string.
func readKey(c *Cursor, version int, table *StringTable) (string, error) {
	if version >= stringTableKeysVersion {
		idx, err := c.Uint32()
		if err != nil {
			return "", err
		}
		s, _ := table.Lookup(int(idx))
		return s, nil
	}
	return c.String(), nil
}

// Locate scans a record payload once, left to right, and records where the
// ufs subtree and its savefiles/rootoverrides children begin and end. It
// fails when a tracked section never closes, or when neither a ufs subtree
// nor the record's own end can be found (nothing to splice into).
func Locate(payload []byte, version int, table *StringTable) (*LocateResult, error) {
	loc := &LocateResult{
		UfsStart:             -1,
		UfsEnd:               -1,
		SaveFilesStart:       -1,
		SaveFilesEnd:         -1,
		RootOverridesStart:   -1,
		RootOverridesEnd:     -1,
		MaxSaveFileIndex:     -1,
		MaxRootOverrideIndex: -1,
		RecordEnd:            -1,
	}

	c := NewCursor(payload)
	depth := 0
	var inUfs, inSaveFiles, inRootOverrides bool
	var ufsOpenDepth, saveFilesOpenDepth, rootOverridesOpenDepth int

	for !c.EOF() {
		tagPos := c.Pos()
		tag, err := c.Uint8()
		if err != nil {
			return nil, err
		}

		if tag == tagSectionEnd {
			depth--
			switch {
			case inSaveFiles && depth < saveFilesOpenDepth:
				loc.SaveFilesEnd = tagPos
				inSaveFiles = false
			case inRootOverrides && depth < rootOverridesOpenDepth:
				loc.RootOverridesEnd = tagPos
				inRootOverrides = false
			case inUfs && depth < ufsOpenDepth:
				loc.UfsEnd = tagPos
				inUfs = false
			}
			if depth == 0 {
				loc.RecordEnd = tagPos
			}
			continue
		}

		key, err := readKey(c, version, table)
		if err != nil {
			return nil, err
		}

		switch tag {
		case tagSection:
			depth++
			switch {
			case depth == ufsDepth && key == ufsKey:
				loc.UfsStart = tagPos
				inUfs = true
				ufsOpenDepth = depth
			case inUfs && key == saveFilesKey:
				loc.SaveFilesStart = tagPos
				inSaveFiles = true
				saveFilesOpenDepth = depth
			case inUfs && key == rootOverridesKey:
				loc.RootOverridesStart = tagPos
				inRootOverrides = true
				rootOverridesOpenDepth = depth
			case inSaveFiles || inRootOverrides:
				if n, err := strconv.Atoi(key); err == nil && n >= 0 {
					if inSaveFiles && n > loc.MaxSaveFileIndex {
						loc.MaxSaveFileIndex = n
					}
					if inRootOverrides && n > loc.MaxRootOverrideIndex {
						loc.MaxRootOverrideIndex = n
					}
				}
			}
		case tagString:
			_ = c.String()
		case tagInt32:
			if err := c.Skip(4); err != nil {
				return nil, err
			}
		case tagInt64:
			if err := c.Skip(8); err != nil {
				return nil, err
			}
		default:
			// Unknown tag: the key is consumed, the value's width is
			// unknowable. Resynchronize on the next byte (see package doc).
		}
	}

	if inUfs || inSaveFiles || inRootOverrides {
		return nil, errors.FormatError{
			Offset: len(payload),
			Reason: "tracked section never closes",
		}
	}
	if loc.UfsStart < 0 && loc.RecordEnd < 0 {
		return nil, errors.FormatError{
			Offset: len(payload),
			Reason: "no ufs section and no record end: nowhere to splice",
		}
	}
	return loc, nil
}
