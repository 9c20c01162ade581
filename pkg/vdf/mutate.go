package vdf

import (
	"sort"

	"github.com/savelocker/steamufs/pkg/errors"
)

// Mutate produces a new record payload from the located offsets and the
// freshly encoded savefiles/rootoverrides blocks, by copy-skip-insert:
//
//   - When a complete ufs subtree exists, the existing savefiles and
//     rootoverrides subtrees (including their own SectionEnd bytes) are
//     skipped, the new blocks are inserted just before ufs's SectionEnd
//     (savefiles first, then rootoverrides), and everything from ufs's
//     SectionEnd onward is copied verbatim.
//   - When no ufs subtree exists at all, a brand-new one is spliced in just
//     before the record's own SectionEnd.
//   - A ufs subtree that opens but never closes, or a payload with no
//     anchor point at all, is unrecoverable.
//
// Empty blocks (nil) are simply not inserted, so mutating with no rules
// removes the corresponding subtree.
func Mutate(payload []byte, loc *LocateResult, saveFiles, rootOverrides []byte, version int, table *StringTable) ([]byte, error) {
	switch {
	case loc.HasUfs():
		return spliceIntoUfs(payload, loc, saveFiles, rootOverrides)

	case loc.UfsStart >= 0:
		return nil, errors.FormatError{
			Offset: loc.UfsStart,
			Reason: "ufs section opens but never closes",
		}

	case loc.RecordEnd >= 0:
		out := make([]byte, 0, len(payload)+len(saveFiles)+len(rootOverrides)+8)
		out = append(out, payload[:loc.RecordEnd]...)
		out = appendSectionOpen(out, ufsKey, version, table)
		out = append(out, saveFiles...)
		out = append(out, rootOverrides...)
		out = append(out, tagSectionEnd)
		out = append(out, payload[loc.RecordEnd:]...)
		return out, nil

	default:
		return nil, errors.FormatError{
			Offset: 0,
			Reason: "no ufs section and no record end: nowhere to splice",
		}
	}
}

type skipRange struct {
	start, end int // [start, end), end is one past the subtree's SectionEnd
}

func spliceIntoUfs(payload []byte, loc *LocateResult, saveFiles, rootOverrides []byte) ([]byte, error) {
	var skips []skipRange
	if loc.SaveFilesStart >= 0 && loc.SaveFilesEnd >= 0 {
		skips = append(skips, skipRange{loc.SaveFilesStart, loc.SaveFilesEnd + 1})
	}
	if loc.RootOverridesStart >= 0 && loc.RootOverridesEnd >= 0 {
		skips = append(skips, skipRange{loc.RootOverridesStart, loc.RootOverridesEnd + 1})
	}
	sort.Slice(skips, func(i, j int) bool { return skips[i].start < skips[j].start })

	for _, s := range skips {
		if s.start < loc.UfsStart || s.end > loc.UfsEnd {
			return nil, errors.FormatError{
				Offset: s.start,
				Reason: "tracked subtree lies outside its ufs section",
			}
		}
	}

	out := make([]byte, 0, len(payload)+len(saveFiles)+len(rootOverrides))
	pos := 0
	for _, s := range skips {
		out = append(out, payload[pos:s.start]...)
		pos = s.end
	}
	out = append(out, payload[pos:loc.UfsEnd]...)
	out = append(out, saveFiles...)
	out = append(out, rootOverrides...)
	// From ufs's own SectionEnd through the end of the payload, including
	// any sibling sections after ufs.
	out = append(out, payload[loc.UfsEnd:]...)
	return out, nil
}
