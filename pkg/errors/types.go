package errors

import (
	"fmt"
)

// MissingFieldError represents a missing required field.
type MissingFieldError struct {
	Field string
}

func (err MissingFieldError) Error() string {
	return fmt.Sprintf("missing required field: %s", err.Field)
}

// FileNotFound represents when we were unable to access a file
// because the path didn't exist.
type FileNotFound struct {
	Path string
}

func (err FileNotFound) Error() string {
	return fmt.Sprintf("%q does not exist", err.Path)
}

// AppNotFound represents when the appinfo file has no record for the
// requested application.
type AppNotFound struct {
	AppID uint32
}

func (err AppNotFound) Error() string {
	return fmt.Sprintf("no record for app %d", err.AppID)
}

// UnsupportedVersion represents an appinfo file whose magic number doesn't
// map to any format version we know how to patch.
type UnsupportedVersion struct {
	Magic uint32
}

func (err UnsupportedVersion) Error() string {
	return fmt.Sprintf("unsupported appinfo.vdf magic 0x%08X", err.Magic)
}

// FormatError represents structurally invalid binary VDF data. Offset is the
// byte position at which parsing could no longer proceed.
type FormatError struct {
	Offset int
	Reason string
}

func (err FormatError) Error() string {
	return fmt.Sprintf("malformed binary VDF at offset %d: %s", err.Offset, err.Reason)
}
