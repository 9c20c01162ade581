package show

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/savelocker/steamufs/cmd/util"
	"github.com/savelocker/steamufs/pkg/appinfo"
	"github.com/savelocker/steamufs/pkg/errors"
)

// New creates a new `show` command.
func New() *cobra.Command {
	var appID uint32
	var steamDir string

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print an app's current cloud sync configuration.",
		Long: "Read the ufs subtree of one app's record in appinfo.vdf and print\n" +
			"it, without modifying anything.",
		Run: func(_ *cobra.Command, _ []string) {
			if err := run(appID, steamDir); err != nil {
				util.HandleFatalError(err)
			}
		},
	}

	cmd.Flags().Uint32Var(&appID, "app", 0, "numeric Steam app id of the record to show")
	cmd.Flags().StringVar(&steamDir, "steam-path", "",
		"Steam installation directory (defaults to auto-detection)")
	return cmd
}

func run(appID uint32, steamDir string) error {
	if appID == 0 {
		return errors.NewFriendlyError("--app is required and must be a non-zero app id.")
	}

	path, err := util.ResolveAppInfoPath(steamDir)
	if err != nil {
		return err
	}

	cfg, err := appinfo.NewEditor(path).CurrentConfig(appID)
	if err != nil {
		return errors.WithContext(err, "read current config")
	}

	if cfg.Quota > 0 {
		fmt.Printf("quota:        %d bytes\n", cfg.Quota)
	}
	if cfg.MaxNumFiles > 0 {
		fmt.Printf("maxnumfiles:  %d\n", cfg.MaxNumFiles)
	}
	fmt.Printf("savefiles:     %d\n", len(cfg.SaveFiles))
	fmt.Printf("rootoverrides: %d\n\n", len(cfg.RootOverrides))
	if cfg.Text == "" {
		fmt.Println("The record has no ufs section.")
		return nil
	}
	fmt.Println(cfg.Text)
	return nil
}
