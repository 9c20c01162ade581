package vdf

import (
	"fmt"
	"strings"

	log "github.com/sirupsen/logrus"
)

// UfsConfig is the cloud-sync configuration decoded from an existing record
// by the read-only query path. Nothing here feeds back into mutation; it is
// for display.
type UfsConfig struct {
	Quota         int64
	MaxNumFiles   int32
	SaveFiles     []SaveRule
	RootOverrides []RootOverride

	// Text is a human-readable quoted-and-braced dump of the ufs subtree.
	Text string
}

// DecodeUfs extracts the existing ufs configuration of a record payload
// using the offsets Locate found. A payload without a ufs subtree decodes
// to an empty config.
func DecodeUfs(payload []byte, loc *LocateResult, version int, table *StringTable) (*UfsConfig, error) {
	cfg := &UfsConfig{}
	if loc.UfsStart < 0 {
		return cfg, nil
	}

	c := NewCursor(payload)
	c.Seek(loc.UfsStart)
	if _, err := c.Uint8(); err != nil { // the ufs Section tag
		return nil, err
	}
	if _, err := readKey(c, version, table); err != nil {
		return nil, err
	}

	d := &ufsDecoder{cfg: cfg, version: version, table: table}
	d.lines = append(d.lines, `"ufs"`, "{")
	if err := d.section(c, 1, nil); err != nil {
		return nil, err
	}
	d.lines = append(d.lines, "}")
	cfg.Text = strings.Join(d.lines, "\n")
	return cfg, nil
}

type ufsDecoder struct {
	cfg     *UfsConfig
	version int
	table   *StringTable
	lines   []string

	curSave      *SaveRule
	curOverride  *RootOverride
	curTransform *PathTransform
}

// displayKey resolves a key for the dump; unresolvable v29 indices show as
// "#idx" so the dump still lines up with the binary.
func (d *ufsDecoder) displayKey(c *Cursor) (string, error) {
	if d.version >= stringTableKeysVersion {
		idx, err := c.Uint32()
		if err != nil {
			return "", err
		}
		if s, ok := d.table.Lookup(int(idx)); ok {
			return s, nil
		}
		return fmt.Sprintf("#%d", idx), nil
	}
	return c.String(), nil
}

// section walks one subtree. path holds the section keys between ufs and
// the current nesting level, so leaves know which entry they belong to.
func (d *ufsDecoder) section(c *Cursor, indent int, path []string) error {
	prefix := strings.Repeat("    ", indent)

	for !c.EOF() {
		tag, err := c.Uint8()
		if err != nil {
			return err
		}
		if tag == tagSectionEnd {
			return nil
		}

		key, err := d.displayKey(c)
		if err != nil {
			return err
		}

		switch tag {
		case tagSection:
			d.lines = append(d.lines, prefix+`"`+key+`"`, prefix+"{")
			if err := d.enterSection(c, indent, path, key); err != nil {
				return err
			}
			d.lines = append(d.lines, prefix+"}")
		case tagString:
			value := c.String()
			d.lines = append(d.lines, fmt.Sprintf("%s\"%s\" \"%s\"", prefix, key, value))
			d.stringLeaf(path, key, value)
		case tagInt32:
			v, err := c.Int32()
			if err != nil {
				return err
			}
			d.lines = append(d.lines, fmt.Sprintf("%s\"%s\" \"%d\"", prefix, key, v))
			d.intLeaf(path, key, int64(v))
		case tagInt64:
			v, err := c.Uint64()
			if err != nil {
				return err
			}
			d.lines = append(d.lines, fmt.Sprintf("%s\"%s\" \"%d\"", prefix, key, v))
			d.intLeaf(path, key, int64(v))
		default:
			log.WithFields(log.Fields{"tag": fmt.Sprintf("0x%02x", tag), "key": key}).
				Debug("Unknown VDF tag in ufs subtree")
		}
	}
	return nil
}

// enterSection recurses into a child section, materializing savefiles /
// rootoverrides / pathtransforms entries as it passes their numeric keys.
func (d *ufsDecoder) enterSection(c *Cursor, indent int, path []string, key string) error {
	childPath := append(append([]string(nil), path...), key)
	parent := ""
	if len(path) > 0 {
		parent = path[len(path)-1]
	}

	switch {
	case parent == saveFilesKey && isNumeric(key):
		d.curSave = &SaveRule{Recursive: true}
		err := d.section(c, indent+1, childPath)
		d.cfg.SaveFiles = append(d.cfg.SaveFiles, *d.curSave)
		d.curSave = nil
		return err
	case parent == rootOverridesKey && isNumeric(key):
		d.curOverride = &RootOverride{}
		err := d.section(c, indent+1, childPath)
		d.cfg.RootOverrides = append(d.cfg.RootOverrides, *d.curOverride)
		d.curOverride = nil
		return err
	case parent == "pathtransforms" && isNumeric(key) && d.curOverride != nil:
		d.curTransform = &PathTransform{}
		err := d.section(c, indent+1, childPath)
		d.curOverride.PathTransforms = append(d.curOverride.PathTransforms, *d.curTransform)
		d.curTransform = nil
		return err
	default:
		return d.section(c, indent+1, childPath)
	}
}

func (d *ufsDecoder) stringLeaf(path []string, key, value string) {
	parent := ""
	if len(path) > 0 {
		parent = path[len(path)-1]
	}

	switch {
	case d.curTransform != nil:
		switch key {
		case "find":
			d.curTransform.Find = value
		case "replace":
			d.curTransform.Replace = value
		}
	case d.curSave != nil:
		if parent == "platforms" {
			d.curSave.Platforms = append(d.curSave.Platforms, value)
			return
		}
		switch key {
		case "root":
			d.curSave.Root = value
		case "path":
			d.curSave.Path = value
		case "pattern":
			d.curSave.Pattern = value
		case "platforms":
			d.curSave.Platforms = splitOSList(value)
		case "recursive":
			d.curSave.Recursive = value != "0"
		}
	case d.curOverride != nil:
		switch key {
		case "root", "originalroot":
			d.curOverride.Root = value
		case "os", "oslist":
			d.curOverride.OS = value
		case "useinstead", "newroot":
			d.curOverride.UseInstead = value
		case "addpath", "path":
			d.curOverride.AddPath = value
		}
	}
}

func (d *ufsDecoder) intLeaf(path []string, key string, value int64) {
	if d.curSave != nil {
		if key == "recursive" {
			d.curSave.Recursive = value != 0
		}
		return
	}
	if d.curSave == nil && d.curOverride == nil && len(path) == 0 {
		switch key {
		case "quota":
			d.cfg.Quota = value
		case "maxnumfiles":
			d.cfg.MaxNumFiles = int32(value)
		}
	}
}

func isNumeric(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func splitOSList(s string) []string {
	var out []string
	for _, tok := range strings.Split(s, ",") {
		if tok = strings.TrimSpace(tok); tok != "" {
			out = append(out, tok)
		}
	}
	return out
}
