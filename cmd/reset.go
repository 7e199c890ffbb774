package cmd

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dhabedank/activity-parser/internal/store"
	"github.com/dhabedank/activity-parser/internal/tui"
)

var resetYes bool

// ResetCmd deletes generated activities and uploaded assets.
var ResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Delete generated activities and uploads",
	Long: `Delete every activity document and uploaded asset that is not protected.

TEMPLATE.md and the files listed under protected and protected_assets in the
config are kept.`,
	Args: cobra.NoArgs,
	RunE: runReset,
}

func init() {
	ResetCmd.Flags().BoolVarP(&resetYes, "yes", "y", false, "Skip the confirmation prompt")
}

func runReset(cmd *cobra.Command, args []string) error {
	if err := loadConfig(cmd); err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	if !resetYes {
		fmt.Fprintf(out, "Delete unprotected files in %s and %s? [y/N] ", cfg.ActivitiesDir, cfg.AssetsDir)
		answer, _ := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
		if a := strings.ToLower(strings.TrimSpace(answer)); a != "y" && a != "yes" {
			fmt.Fprintln(out, "Aborted")
			return nil
		}
	}

	deleted, err := openStore().Reset(cfg.Protected)
	if err != nil {
		return err
	}
	assets, err := store.CleanDir(cfg.AssetsDir, cfg.ProtectedAssets)
	if err != nil {
		return err
	}
	deleted = append(deleted, assets...)

	for _, name := range deleted {
		fmt.Fprintf(out, "  %s %s\n", tui.ErrorStyle.Render("-"), name)
	}
	fmt.Fprintln(out, tui.SuccessStyle.Render(fmt.Sprintf("✓ Deleted %d files", len(deleted))))
	return nil
}
