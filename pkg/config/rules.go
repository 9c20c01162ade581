package config

import (
	"fmt"
	"os"

	"github.com/ghodss/yaml"
	"github.com/spf13/afero"

	"github.com/savelocker/steamufs/pkg/errors"
	"github.com/savelocker/steamufs/pkg/vdf"
)

const (
	// InitialRulesVersion is the version assumed for rules files that don't
	// specify one.
	InitialRulesVersion = "v1alpha1"

	// SupportedRulesVersion is the rules file version this binary supports.
	SupportedRulesVersion = "v1alpha1"
)

// parseRulesErrTemplate is a template for when the CLI fails to parse a
// rules file. This can happen for a multitude of reasons, including
// extraneous fields and incorrect field types. However, the yaml library
// constructs errors in a way that loses context, and so we can only pass
// the error message on.
const parseRulesErrTemplate = "Rules file could not be parsed. " +
	"Please review %q.\n" +
	"Common pitfalls include:\n" +
	" - Using the wrong types for fields\n" +
	" - Having extra fields inside the rules file\n\n" +
	"For reference, here is the error from the parser:\n" +
	"%s"

// Rules is the caller-supplied cloud-sync configuration to install into a
// record: the savefiles entries and, optionally, the root overrides.
type Rules struct {
	Version       string             `json:"version,omitempty"`
	SaveFiles     []vdf.SaveRule     `json:"savefiles"`
	RootOverrides []vdf.RootOverride `json:"rootoverrides,omitempty"`
}

type incompatibleVersionError struct {
	path, exp, actual string
}

func (err incompatibleVersionError) Error() string {
	return err.FriendlyMessage()
}

func (err incompatibleVersionError) FriendlyMessage() string {
	return fmt.Sprintf("The rules file %q is incompatible "+
		"with this version of steamufs.\n"+
		"Expected version %q, but got %q.", err.path, err.exp, err.actual)
}

// ParseRules reads and validates the rules file at path.
func ParseRules(path string) (Rules, error) {
	rulesBytes, err := afero.ReadFile(fs, path)
	if err != nil {
		if isPathNotFoundError(err) {
			return Rules{}, errors.FileNotFound{Path: path}
		}
		return Rules{}, errors.WithContext(err, "read file")
	}

	rules := Rules{Version: InitialRulesVersion}
	if err := yaml.Unmarshal(rulesBytes, &rules); err != nil {
		return Rules{}, errors.NewFriendlyError(parseRulesErrTemplate, path, err)
	}

	if rules.Version != SupportedRulesVersion {
		return Rules{}, incompatibleVersionError{path, SupportedRulesVersion, rules.Version}
	}

	// Do a strict unmarshal to check for any extra fields. We do a non-strict
	// unmarshal first so that we can catch version errors before erroring on
	// extra fields.
	if err := yaml.UnmarshalStrict(rulesBytes, &rules, yaml.DisallowUnknownFields); err != nil {
		return Rules{}, errors.NewFriendlyError(parseRulesErrTemplate, path, err)
	}

	if err := rules.validate(); err != nil {
		return Rules{}, err
	}
	return rules, nil
}

func (r Rules) validate() error {
	if len(r.SaveFiles) == 0 && len(r.RootOverrides) == 0 {
		return errors.NewFriendlyError(
			"The rules file must contain at least one savefiles entry or root override.")
	}
	for i, sf := range r.SaveFiles {
		if sf.Root == "" {
			return errors.MissingFieldError{Field: fmt.Sprintf("savefiles[%d].root", i)}
		}
		if sf.Pattern == "" {
			return errors.MissingFieldError{Field: fmt.Sprintf("savefiles[%d].pattern", i)}
		}
	}
	for i, ov := range r.RootOverrides {
		if ov.Root == "" {
			return errors.MissingFieldError{Field: fmt.Sprintf("rootoverrides[%d].root", i)}
		}
		if ov.OS == "" {
			return errors.MissingFieldError{Field: fmt.Sprintf("rootoverrides[%d].os", i)}
		}
		if ov.UseInstead == "" {
			return errors.MissingFieldError{Field: fmt.Sprintf("rootoverrides[%d].useinstead", i)}
		}
	}
	return nil
}

func isPathNotFoundError(err error) bool {
	if fileErr, ok := err.(*os.PathError); ok && fileErr.Op == "open" {
		switch fileErr.Err.Error() {
		case "no such file or directory", "file does not exist":
			return true
		}
	}
	return os.IsNotExist(err)
}
