package appinfo

import (
	"encoding/binary"
	"os"

	"github.com/jonboulle/clockwork"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/afero"

	"github.com/savelocker/steamufs/pkg/errors"
	"github.com/savelocker/steamufs/pkg/vdf"
)

// backupTimestampFormat is embedded in the backup filename next to the
// original file.
const backupTimestampFormat = "20060102_150405"

// Editor patches the ufs configuration of single records in an appinfo.vdf
// file. The whole operation is synchronous and touches no shared state, so
// callers on an interactive surface can run it from any worker goroutine.
//
// Steam itself may rewrite appinfo.vdf at any moment; the editor does not
// (and cannot) defend against that, it only guarantees that the file on
// disk is never left half-written by us: the backup copy completes first,
// and the destructive write starts only once the replacement buffer is
// fully built in memory.
type Editor struct {
	fs    afero.Fs
	clock clockwork.Clock
	path  string
}

// NewEditor returns an Editor for the appinfo.vdf at path.
func NewEditor(path string) *Editor {
	return &Editor{
		fs:    afero.NewOsFs(),
		clock: clockwork.NewRealClock(),
		path:  path,
	}
}

// Patch replaces the savefiles and rootoverrides subtrees of the record for
// appID with freshly encoded ones, recomputes the record's checksums, backs
// the original file up to a timestamped sibling, and rewrites the file in
// place. Supplying an empty slice removes the corresponding subtree.
func (e *Editor) Patch(appID uint32, rules []vdf.SaveRule, overrides []vdf.RootOverride) error {
	data, err := e.read()
	if err != nil {
		return err
	}

	patched, err := patch(data, appID, rules, overrides)
	if err != nil {
		return err
	}

	backupPath := e.path + "." + e.clock.Now().Format(backupTimestampFormat) + ".bak"
	mode := os.FileMode(0644)
	if info, err := e.fs.Stat(e.path); err == nil {
		mode = info.Mode()
	}
	if err := afero.WriteFile(e.fs, backupPath, data, mode); err != nil {
		return errors.WithContext(err, "write backup")
	}
	log.WithField("path", backupPath).Info("Backed up appinfo.vdf")

	if err := afero.WriteFile(e.fs, e.path, patched, mode); err != nil {
		return errors.WithContext(err, "write patched file")
	}
	log.WithFields(log.Fields{
		"app":     appID,
		"oldSize": len(data),
		"newSize": len(patched),
	}).Info("Patched ufs configuration")
	return nil
}

// CurrentConfig extracts the existing ufs configuration of the record for
// appID without modifying anything.
func (e *Editor) CurrentConfig(appID uint32) (*vdf.UfsConfig, error) {
	data, err := e.read()
	if err != nil {
		return nil, err
	}

	c := vdf.NewCursor(data)
	hdr, err := parseHeader(c)
	if err != nil {
		return nil, err
	}
	table := parseTable(data, hdr)

	rec, err := findRecord(c, data, hdr.version, appID)
	if err != nil {
		return nil, err
	}

	loc, err := vdf.Locate(rec.payload, hdr.version, table)
	if err != nil {
		return nil, errors.WithContext(err, "locate ufs section")
	}
	return vdf.DecodeUfs(rec.payload, loc, hdr.version, table)
}

func (e *Editor) read() ([]byte, error) {
	data, err := afero.ReadFile(e.fs, e.path)
	if err != nil {
		if isNotExist(err) {
			return nil, errors.FileNotFound{Path: e.path}
		}
		return nil, errors.WithContext(err, "read appinfo.vdf")
	}
	return data, nil
}

// isNotExist also recognizes the in-memory filesystem's not-found error,
// which os.IsNotExist doesn't.
func isNotExist(err error) bool {
	if os.IsNotExist(err) {
		return true
	}
	fileErr, ok := err.(*os.PathError)
	return ok && fileErr.Err.Error() == "file does not exist"
}

func parseTable(data []byte, hdr *header) *vdf.StringTable {
	if hdr.version >= stringTableVersion && hdr.stringTableOffset > 0 {
		return vdf.ParseStringTable(data, int(hdr.stringTableOffset))
	}
	return vdf.NewStringTable()
}

// patch is the pure in-memory transformation: it locates the target record,
// splices in the new subtrees, recomputes both checksums, and reassembles
// the full file with every other record byte-identical.
func patch(data []byte, appID uint32, rules []vdf.SaveRule, overrides []vdf.RootOverride) ([]byte, error) {
	c := vdf.NewCursor(data)
	hdr, err := parseHeader(c)
	if err != nil {
		return nil, err
	}

	// The owning process can rewrite the file at any time, so a stale or
	// corrupt string table offset is a realistic input, not a can't-happen.
	recordsEnd := len(data)
	if hdr.version >= stringTableVersion && hdr.stringTableOffset > 0 {
		if hdr.stringTableOffset > uint64(len(data)) {
			return nil, errors.FormatError{
				Offset: stringTableOffsetPos,
				Reason: "string table offset points past end of file",
			}
		}
		recordsEnd = int(hdr.stringTableOffset)
	}

	table := parseTable(data, hdr)
	recordsStart := c.Pos()

	rec, err := findRecord(c, data, hdr.version, appID)
	if err != nil {
		return nil, err
	}
	if rec.end > recordsEnd {
		return nil, errors.FormatError{
			Offset: rec.start,
			Reason: "record extends past the string table offset",
		}
	}

	loc, err := vdf.Locate(rec.payload, hdr.version, table)
	if err != nil {
		return nil, errors.WithContext(err, "locate ufs section")
	}
	log.WithFields(log.Fields{
		"app":       appID,
		"ufs":       loc.UfsStart,
		"savefiles": loc.SaveFilesStart,
		"overrides": loc.RootOverridesStart,
	}).Debug("Located record subtrees")

	saveFiles := vdf.EncodeSaveFilesSection(rules, hdr.version, table)
	rootOverrides := vdf.EncodeRootOverridesSection(overrides, hdr.version, table)

	payload, err := vdf.Mutate(rec.payload, loc, saveFiles, rootOverrides, hdr.version, table)
	if err != nil {
		return nil, errors.WithContext(err, "splice ufs section")
	}

	textSum, err := vdf.TextChecksum(payload, hdr.version, table)
	if err != nil {
		return nil, errors.WithContext(err, "compute text checksum")
	}
	binarySum := vdf.BinaryChecksum(payload)

	// Reassemble: header, records before the target, the re-encoded record,
	// records after it, and (v29) the possibly-grown string table.
	out := hdr.encode()
	out = append(out, data[recordsStart:rec.start]...)
	out = append(out, rec.encode(hdr.version, payload, textSum, binarySum)...)
	out = append(out, data[rec.end:recordsEnd]...)

	if hdr.version >= stringTableVersion {
		binary.LittleEndian.PutUint64(out[stringTableOffsetPos:], uint64(len(out)))
		out = table.AppendTo(out)
	}
	return out, nil
}
