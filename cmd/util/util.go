package util

import (
	"fmt"
	"os"
	"runtime/debug"

	homedir "github.com/mitchellh/go-homedir"

	"github.com/savelocker/steamufs/pkg/errors"
	"github.com/savelocker/steamufs/pkg/steampath"
)

// HandleFatalError prints the friendliest representation of `err` we can
// produce, then exits.
func HandleFatalError(err error) {
	fmt.Fprintln(os.Stderr, errors.GetPrintableMessage(err))
	os.Exit(1)
}

// HandlePanic is meant to be deferred at the top of the process. It turns
// panics into a printed report rather than a bare stack dump to a confused
// user.
func HandlePanic() {
	r := recover()
	if r == nil {
		return
	}
	fmt.Fprintf(os.Stderr, "steamufs hit an internal error: %v\n\n%s\n", r, debug.Stack())
	os.Exit(1)
}

// ResolveAppInfoPath turns the --steam-path flag value into the path of the
// appinfo.vdf to operate on, auto-detecting the Steam installation when the
// flag is empty.
func ResolveAppInfoPath(steamDir string) (string, error) {
	if steamDir == "" {
		found, err := steampath.Find()
		if err != nil {
			return "", err
		}
		return steampath.AppInfoPath(found), nil
	}

	expanded, err := homedir.Expand(steamDir)
	if err != nil {
		return "", errors.WithContext(err, "expand steam path")
	}
	return steampath.AppInfoPath(expanded), nil
}
