// file: cmd/search.go
// version: 1.0.0
// guid: 0f6b3d2a-8e41-4c79-b5a2-91d7e4c3f806

package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/jdfalk/kitfinder/internal/render"
	"github.com/jdfalk/kitfinder/internal/search"
	"github.com/spf13/cobra"
)

// searchCmd runs one query against the catalog
var searchCmd = &cobra.Command{
	Use:   "search <query...>",
	Short: "Search the catalog for kits containing the given blocks",
	Long: `Search the catalog for kits containing the given blocks.

Separate blocks with spaces or commas. Spelling mistakes, plurals and partial
names are tolerated; kits are ranked by how well their blocks match.`,
	Example: `  kitfinder search --catalog kits.yaml "oak planks, glass"
  kitfinder search --catalog kits.yaml stome --kit castle --limit 3`,
	RunE: func(cmd *cobra.Command, args []string) error {
		kitFilter, _ := cmd.Flags().GetString("kit")
		limit, _ := cmd.Flags().GetInt("limit")
		asJSON, _ := cmd.Flags().GetBool("json")
		noColor, _ := cmd.Flags().GetBool("no-color")

		if limit < 0 {
			return fmt.Errorf("--limit must not be negative, got %d", limit)
		}

		store, err := loadStore()
		if err != nil {
			return err
		}
		svc, err := newService(store)
		if err != nil {
			return err
		}

		query := strings.Join(args, " ")
		resp, err := svc.Search(commandContext(cmd), search.Request{
			Query:     query,
			KitFilter: kitFilter,
			Limit:     limit,
		})
		if err != nil {
			return fmt.Errorf("search failed: %w", err)
		}

		out := cmd.OutOrStdout()
		if asJSON {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(render.NewSearchView(query, resp))
		}
		return render.WriteText(out, query, resp, render.TextOptions{Color: useColor(noColor)})
	},
}

func init() {
	searchCmd.Flags().String("kit", "", "only search kits whose name fuzzy-matches this filter")
	searchCmd.Flags().Int("limit", 0, "show at most this many kits (0 = all)")
	searchCmd.Flags().Bool("json", false, "print results as JSON")
	searchCmd.Flags().Bool("no-color", false, "disable highlighting")
}

// useColor honors --no-color and the NO_COLOR convention.
func useColor(noColor bool) bool {
	if noColor {
		return false
	}
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}
	return isTerminal(os.Stdout)
}

func isTerminal(f *os.File) bool {
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}

// commandContext returns the command's context, or Background when the
// command runs outside Execute.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
