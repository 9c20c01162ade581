package vdf

// Tag bytes of the binary VDF tree format.
const (
	tagSection    byte = 0x00
	tagString     byte = 0x01
	tagInt32      byte = 0x02
	tagInt64      byte = 0x07
	tagSectionEnd byte = 0x08
)

// stringTableKeysVersion is the first format version whose keys are string
// table indices rather than inline null-terminated strings.
const stringTableKeysVersion = 29

// SaveRule describes one "which local files sync to the cloud" entry of the
// savefiles list.
type SaveRule struct {
	// Root is the logical storage root the path is relative to, e.g.
	// "WinMyDocuments" or "gameinstall".
	Root string `json:"root"`

	// Path is the directory below Root to watch, in forward-slash form.
	Path string `json:"path"`

	// Pattern is the glob selecting files within Path, e.g. "*.sav".
	Pattern string `json:"pattern"`

	// Platforms restricts the rule to the named platforms. Tokens are
	// canonicalized into windows/macos/linux on encode. An empty list, or
	// any token reading "all", means every platform and encodes nothing.
	Platforms []string `json:"platforms,omitempty"`

	// Recursive reports whether subdirectories of Path are included. Steam
	// defaults it to true and the encoder never writes it; it is carried so
	// the read-only query can surface what a record already contains.
	Recursive bool `json:"recursive,omitempty"`
}

// PathTransform rewrites one path fragment when a root override applies.
type PathTransform struct {
	Find    string `json:"find"`
	Replace string `json:"replace"`
}

// RootOverride redirects a logical storage root to another one on a given
// OS, optionally rewriting paths along the way. AddPath and PathTransforms
// are mutually exclusive; when both are set, PathTransforms wins.
type RootOverride struct {
	// Root is the original root name being overridden.
	Root string `json:"root"`

	// OS is the platform the override applies to ("windows", "macos",
	// "linux").
	OS string `json:"os"`

	// UseInstead is the root name used in place of Root.
	UseInstead string `json:"useinstead"`

	// AddPath is a literal path segment appended after the new root.
	AddPath string `json:"addpath,omitempty"`

	// PathTransforms are find/replace rewrites applied to the path.
	PathTransforms []PathTransform `json:"pathtransforms,omitempty"`
}
