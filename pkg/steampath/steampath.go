// Package steampath locates the local Steam installation that owns the
// appinfo.vdf we patch.
package steampath

import (
	"os"
	"path/filepath"
	"runtime"

	homedir "github.com/mitchellh/go-homedir"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/afero"

	"github.com/savelocker/steamufs/pkg/errors"
)

// EnvKey is the environment variable users can set when Steam lives
// somewhere we don't guess.
const EnvKey = "STEAM_PATH"

// fs is used for mock tests. It will be overridden by afero.NewMemMapFs()
// in the tests.
var fs = afero.NewOsFs()

// Find returns the Steam installation directory: the EnvKey override if it
// points at a plausible install, otherwise the first matching per-OS
// default location.
func Find() (string, error) {
	if p := os.Getenv(EnvKey); p != "" {
		expanded, err := homedir.Expand(p)
		if err == nil && looksLikeSteam(expanded) {
			return expanded, nil
		}
		log.WithField("path", p).Warnf(
			"%s doesn't point at a Steam install, falling back to defaults", EnvKey)
	}

	for _, candidate := range candidates() {
		if looksLikeSteam(candidate) {
			log.WithField("path", candidate).Debug("Found Steam installation")
			return candidate, nil
		}
	}

	return "", errors.NewFriendlyError("Couldn't find a Steam installation.\n" +
		"Make sure the Steam client is installed and has been run at least once.\n" +
		"If Steam is installed somewhere unusual, set the " + EnvKey +
		" environment variable to its directory.")
}

// AppInfoPath returns the path of the appinfo.vdf inside a Steam
// installation.
func AppInfoPath(steamPath string) string {
	return filepath.Join(steamPath, "appcache", "appinfo.vdf")
}

// looksLikeSteam reports whether dir contains the directories every used
// Steam install has.
func looksLikeSteam(dir string) bool {
	for _, marker := range []string{"userdata", "appcache"} {
		if ok, err := afero.DirExists(fs, filepath.Join(dir, marker)); err == nil && ok {
			return true
		}
	}
	return false
}

func candidates() []string {
	switch runtime.GOOS {
	case "windows":
		var out []string
		for _, env := range []string{"PROGRAMFILES(X86)", "PROGRAMFILES", "LOCALAPPDATA", "APPDATA"} {
			if p := os.Getenv(env); p != "" {
				out = append(out, filepath.Join(p, "Steam"))
			}
		}
		return out
	case "darwin":
		home, err := homedir.Dir()
		if err != nil {
			return nil
		}
		return []string{filepath.Join(home, "Library", "Application Support", "Steam")}
	default:
		home, err := homedir.Dir()
		if err != nil {
			return nil
		}
		return []string{
			filepath.Join(home, ".steam", "steam"),
			filepath.Join(home, ".local", "share", "Steam"),
		}
	}
}
