package patch

import (
	"fmt"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/savelocker/steamufs/cmd/util"
	"github.com/savelocker/steamufs/pkg/appinfo"
	"github.com/savelocker/steamufs/pkg/config"
	"github.com/savelocker/steamufs/pkg/errors"
)

// New creates a new `patch` command.
func New() *cobra.Command {
	var appID uint32
	var rulesPath, steamDir string

	cmd := &cobra.Command{
		Use:   "patch",
		Short: "Install cloud sync rules into appinfo.vdf for one app.",
		Long: "Replace the savefiles and rootoverrides subtrees of one app's\n" +
			"record in Steam's appinfo.vdf with the entries from the rules file,\n" +
			"recompute the record's checksums, and rewrite the file in place.\n" +
			"The original file is backed up next to itself first.\n\n" +
			"Quit Steam before patching: Steam rewrites appinfo.vdf while it\n" +
			"runs and will clobber the change.",
		Run: func(_ *cobra.Command, _ []string) {
			if err := run(appID, rulesPath, steamDir); err != nil {
				util.HandleFatalError(err)
			}
		},
	}

	cmd.Flags().Uint32Var(&appID, "app", 0, "numeric Steam app id of the record to patch")
	cmd.Flags().StringVar(&rulesPath, "rules", "steamufs.yaml", "path to the sync rules file")
	cmd.Flags().StringVar(&steamDir, "steam-path", "",
		"Steam installation directory (defaults to auto-detection)")
	return cmd
}

func run(appID uint32, rulesPath, steamDir string) error {
	if appID == 0 {
		return errors.NewFriendlyError("--app is required and must be a non-zero app id.")
	}

	rules, err := config.ParseRules(rulesPath)
	if err != nil {
		return err
	}

	path, err := util.ResolveAppInfoPath(steamDir)
	if err != nil {
		return err
	}
	log.WithField("path", path).Debug("Patching appinfo.vdf")

	if err := appinfo.NewEditor(path).Patch(appID, rules.SaveFiles, rules.RootOverrides); err != nil {
		return errors.WithContext(err, "patch appinfo.vdf")
	}

	fmt.Printf("Patched app %d with %d savefiles entries and %d root overrides.\n",
		appID, len(rules.SaveFiles), len(rules.RootOverrides))
	fmt.Println("Restart Steam so it picks up the new configuration.")
	return nil
}
