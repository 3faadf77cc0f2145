// file: cmd/diagnostics.go
// version: 2.0.0
// guid: c8f6a0d4-2a8b-48cf-9d08-02cc9915d9fc

package cmd

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/jdfalk/kitfinder/internal/catalog"
	"github.com/jdfalk/kitfinder/internal/config"
	"github.com/jdfalk/kitfinder/internal/matcher"
	"github.com/jdfalk/kitfinder/internal/search"
	"github.com/spf13/cobra"
)

var (
	diagnosticsCmd = &cobra.Command{
		Use:   "diagnostics",
		Short: "Debugging helpers for catalogs and queries",
		Long:  "Diagnostic utilities for checking a catalog and seeing why a query does or does not match.",
	}

	validateCmd = &cobra.Command{
		Use:   "validate",
		Short: "Report suspicious catalog entries",
		RunE: func(cmd *cobra.Command, args []string) error {
			strict, _ := cmd.Flags().GetBool("strict")
			return runValidateCatalog(cmd.OutOrStdout(), config.AppConfig.CatalogPath, strict)
		},
	}

	explainCmd = &cobra.Command{
		Use:   "explain <query...>",
		Short: "Show every block score and threshold for a query",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			kitFilter, _ := cmd.Flags().GetString("kit")
			all, _ := cmd.Flags().GetBool("all")
			return runExplain(cmd.OutOrStdout(), config.AppConfig.CatalogPath, strings.Join(args, " "), kitFilter, all)
		},
	}
)

func init() {
	validateCmd.Flags().Bool("strict", false, "exit with an error when issues are found")

	explainCmd.Flags().String("kit", "", "only explain kits whose name fuzzy-matches this filter")
	explainCmd.Flags().Bool("all", false, "include blocks scoring below their threshold")

	diagnosticsCmd.AddCommand(validateCmd)
	diagnosticsCmd.AddCommand(explainCmd)
}

// catalogIssue describes one suspicious entry
type catalogIssue struct {
	Kit     string
	Message string
}

func findCatalogIssues(kits []matcher.Kit) []catalogIssue {
	var issues []catalogIssue
	seenKits := make(map[string]string)
	for _, kit := range kits {
		key := matcher.Normalize(kit.Name)
		if first, ok := seenKits[key]; ok {
			issues = append(issues, catalogIssue{kit.Name, fmt.Sprintf("duplicate kit name (same as %q)", first)})
		} else {
			seenKits[key] = kit.Name
		}

		if len(kit.Blocks) == 0 {
			issues = append(issues, catalogIssue{kit.Name, "kit has no blocks and can never match"})
			continue
		}

		seenBlocks := make(map[string]bool)
		for _, block := range kit.Blocks {
			norm := matcher.Normalize(block)
			if seenBlocks[norm] {
				issues = append(issues, catalogIssue{kit.Name, fmt.Sprintf("block %q is listed more than once", block)})
			}
			seenBlocks[norm] = true
		}
	}
	return issues
}

func runValidateCatalog(out io.Writer, path string, strict bool) error {
	if path == "" {
		return fmt.Errorf("catalog not specified: use --catalog or set catalog_path")
	}
	kits, err := catalog.LoadFile(path)
	if err != nil {
		return fmt.Errorf("failed to load catalog: %w", err)
	}

	blocks := 0
	for _, k := range kits {
		blocks += len(k.Blocks)
	}
	fmt.Fprintf(out, "Inspecting %s: %d kits, %d blocks\n", path, len(kits), blocks)

	issues := findCatalogIssues(kits)
	if len(issues) == 0 {
		fmt.Fprintln(out, "No issues detected.")
		return nil
	}

	fmt.Fprintf(out, "Found %d issues:\n", len(issues))
	for i, issue := range issues {
		fmt.Fprintf(out, "%2d. %s: %s\n", i+1, truncateString(issue.Kit, 40), issue.Message)
	}
	if strict {
		return fmt.Errorf("catalog has %d issues", len(issues))
	}
	return nil
}

func runExplain(out io.Writer, path, query, kitFilter string, all bool) error {
	if path == "" {
		return fmt.Errorf("catalog not specified: use --catalog or set catalog_path")
	}
	kits, err := catalog.LoadFile(path)
	if err != nil {
		return fmt.Errorf("failed to load catalog: %w", err)
	}

	tokens := matcher.Tokenize(query)
	if len(tokens) == 0 {
		fmt.Fprintln(out, "Nothing to explain: the query has no tokens.")
		return nil
	}

	fmt.Fprintf(out, "Tokens:")
	for _, tok := range tokens {
		fmt.Fprintf(out, " %s (threshold %.2f)", tok, matcher.ThresholdFor(utf8.RuneCountInString(tok)))
	}
	fmt.Fprintln(out)

	for _, kit := range search.FilterKits(kits, kitFilter) {
		var lines []string
		for _, block := range kit.Blocks {
			for _, tok := range tokens {
				span, word := matcher.MatchTokenToBlock(tok, block)
				threshold := matcher.ThresholdFor(utf8.RuneCountInString(tok))
				admitted := span.Score >= threshold
				if !admitted && !all {
					continue
				}
				mark := " "
				if admitted {
					mark = "+"
				}
				where := "full text"
				if word != matcher.NoPosition {
					where = fmt.Sprintf("word %d", word)
				}
				lines = append(lines, fmt.Sprintf("  %s %-30s %-15s %.3f  %s", mark, truncateString(block, 30), tok, span.Score, where))
			}
		}
		if len(lines) == 0 {
			continue
		}
		fmt.Fprintf(out, "\n%s\n%s\n", kit.Name, strings.Join(lines, "\n"))
	}
	return nil
}

func truncateString(in string, max int) string {
	if utf8.RuneCountInString(in) <= max {
		return in
	}
	return string([]rune(in)[:max]) + "..."
}
