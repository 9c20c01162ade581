package vdf

import (
	"encoding/binary"
	"strconv"
	"strings"
)

func appendKey(buf []byte, key string, version int, table *StringTable) []byte {
	if version >= stringTableKeysVersion {
		var idx [4]byte
		binary.LittleEndian.PutUint32(idx[:], uint32(table.GetOrCreate(key)))
		return append(buf, idx[:]...)
	}
	buf = append(buf, key...)
	return append(buf, 0)
}

func appendSectionOpen(buf []byte, key string, version int, table *StringTable) []byte {
	buf = append(buf, tagSection)
	return appendKey(buf, key, version, table)
}

func appendStringField(buf []byte, key, value string, version int, table *StringTable) []byte {
	buf = append(buf, tagString)
	buf = appendKey(buf, key, version, table)
	buf = append(buf, value...)
	return append(buf, 0)
}

// CanonicalOSList folds arbitrary platform tokens into Steam's oslist form:
// case-insensitive substring match onto windows/macos/linux, duplicates
// collapsed in first-seen order, unrecognized tokens dropped, survivors
// joined by commas.
func CanonicalOSList(platforms []string) string {
	var out []string
	seen := map[string]bool{}
	for _, p := range platforms {
		l := strings.ToLower(p)
		var canon string
		switch {
		case strings.Contains(l, "win"):
			canon = "windows"
		case strings.Contains(l, "mac") || strings.Contains(l, "osx"):
			canon = "macos"
		case strings.Contains(l, "linux"):
			canon = "linux"
		default:
			continue
		}
		if !seen[canon] {
			seen[canon] = true
			out = append(out, canon)
		}
	}
	return strings.Join(out, ",")
}

// platformsAreAll reports whether the platform list means "no restriction":
// either empty or carrying the "all" sentinel.
func platformsAreAll(platforms []string) bool {
	if len(platforms) == 0 {
		return true
	}
	for _, p := range platforms {
		if strings.ToLower(p) == "all" {
			return true
		}
	}
	return false
}

// encodeSaveRule serializes one savefiles entry under the given numeric
// index. Fields are written in Steam's fixed order: root, path, pattern,
// then platforms only when the rule is platform-restricted.
func encodeSaveRule(rule SaveRule, index, version int, table *StringTable) []byte {
	buf := appendSectionOpen(nil, strconv.Itoa(index), version, table)
	buf = appendStringField(buf, "root", rule.Root, version, table)
	buf = appendStringField(buf, "path", rule.Path, version, table)
	buf = appendStringField(buf, "pattern", rule.Pattern, version, table)
	if !platformsAreAll(rule.Platforms) {
		buf = appendStringField(buf, "platforms", CanonicalOSList(rule.Platforms), version, table)
	}
	return append(buf, tagSectionEnd)
}

// encodeRootOverride serializes one rootoverrides entry under the given
// numeric index. The tail is mutually exclusive: pathtransforms when any
// are present, otherwise addpath when non-empty.
func encodeRootOverride(ov RootOverride, index, version int, table *StringTable) []byte {
	buf := appendSectionOpen(nil, strconv.Itoa(index), version, table)
	buf = appendStringField(buf, "root", ov.Root, version, table)
	buf = appendStringField(buf, "os", ov.OS, version, table)
	buf = appendStringField(buf, "oscompare", "=", version, table)
	buf = appendStringField(buf, "useinstead", ov.UseInstead, version, table)
	switch {
	case len(ov.PathTransforms) > 0:
		buf = appendSectionOpen(buf, "pathtransforms", version, table)
		for i, t := range ov.PathTransforms {
			buf = appendSectionOpen(buf, strconv.Itoa(i), version, table)
			buf = appendStringField(buf, "find", t.Find, version, table)
			buf = appendStringField(buf, "replace", t.Replace, version, table)
			buf = append(buf, tagSectionEnd)
		}
		buf = append(buf, tagSectionEnd)
	case ov.AddPath != "":
		buf = appendStringField(buf, "addpath", ov.AddPath, version, table)
	}
	return append(buf, tagSectionEnd)
}

// EncodeSaveFilesSection encodes a complete savefiles subtree (its Section
// tag through its SectionEnd) holding the given rules, numbered densely
// from 0 in emission order. Returns nil when there are no rules.
func EncodeSaveFilesSection(rules []SaveRule, version int, table *StringTable) []byte {
	if len(rules) == 0 {
		return nil
	}
	buf := appendSectionOpen(nil, saveFilesKey, version, table)
	for i, r := range rules {
		buf = append(buf, encodeSaveRule(r, i, version, table)...)
	}
	return append(buf, tagSectionEnd)
}

// EncodeRootOverridesSection encodes a complete rootoverrides subtree, or
// nil when there are no overrides.
func EncodeRootOverridesSection(overrides []RootOverride, version int, table *StringTable) []byte {
	if len(overrides) == 0 {
		return nil
	}
	buf := appendSectionOpen(nil, rootOverridesKey, version, table)
	for i, ov := range overrides {
		buf = append(buf, encodeRootOverride(ov, i, version, table)...)
	}
	return append(buf, tagSectionEnd)
}
