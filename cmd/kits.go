// file: cmd/kits.go
// version: 1.0.0
// guid: c41e8a6d-2b7f-4d93-8a05-6f1c9e2b7d34

package cmd

import (
	"encoding/json"

	"github.com/jdfalk/kitfinder/internal/render"
	"github.com/spf13/cobra"
)

// kitsCmd lists the catalog
var kitsCmd = &cobra.Command{
	Use:   "kits",
	Short: "List the kits in the catalog",
	RunE: func(cmd *cobra.Command, args []string) error {
		asJSON, _ := cmd.Flags().GetBool("json")
		noColor, _ := cmd.Flags().GetBool("no-color")

		store, err := loadStore()
		if err != nil {
			return err
		}
		kits, _ := store.Snapshot()

		out := cmd.OutOrStdout()
		if asJSON {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(kits)
		}
		return render.WriteKits(out, kits, render.TextOptions{Color: useColor(noColor)})
	},
}

func init() {
	kitsCmd.Flags().Bool("json", false, "print the catalog as JSON")
	kitsCmd.Flags().Bool("no-color", false, "disable styling")
}
