/*
The vdf package implements the binary "appinfo" VDF tree codec: just enough
surgery to replace the cloud-sync configuration of a single record without
disturbing any other byte of the payload.

A record payload is a flat tag stream describing a nested key/value tree:

	0x00 Section(key)     opens a subtree
	0x01 String(key, value)
	0x02 Int32(key, value)
	0x07 Int64(key, value)
	0x08 SectionEnd       closes the innermost open subtree

Keys are inline null-terminated strings through format version 28, and
uint32 indices into a trailing string table from version 29 on.

Rather than materializing the tree, the package scans byte offsets
(Locate), encodes replacement subtrees (EncodeSaveFilesSection,
EncodeRootOverridesSection), and splices them in with a copy-skip-insert
pass (Mutate). The two SHA-1 checksums Steam stores next to each record are
recomputed by BinaryChecksum and TextChecksum; the latter re-renders the
tree into Steam's own pseudo-text form, which is an exact external contract
and must not be "cleaned up".

Unknown tag bytes carry no length information. The scanner consumes the key
and resynchronizes on the next byte, exactly like Steam's own tooling; on a
stream that really contains an unknown tag this desynchronizes the scan.
That fragility is inherited from the format and is deliberate.
*/
package vdf
