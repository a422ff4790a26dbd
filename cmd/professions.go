package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/sells-group/robot-exposure/internal/resolver"
)

var (
	professionsSearch string
	professionsLimit  int
	professionsSorted bool
)

var professionsCmd = &cobra.Command{
	Use:   "professions",
	Short: "List the selectable professions",
	RunE: func(cmd *cobra.Command, _ []string) error {
		res, err := initResolver(cmd.Context(), "lookup")
		if err != nil {
			return err
		}
		if !professionsSorted {
			return writeLines(cmd.OutOrStdout(), res.Search(professionsSearch, professionsLimit))
		}
		return writeLines(cmd.OutOrStdout(), sortedMatches(res, professionsSearch, professionsLimit))
	},
}

// sortedMatches is Search in Italian collation order.
func sortedMatches(res *resolver.Resolver, q string, limit int) []string {
	match := make(map[string]bool)
	for _, desc := range res.Search(q, 0) {
		match[desc] = true
	}
	var out []string
	for _, desc := range res.SortedProfessions() {
		if !match[desc] {
			continue
		}
		out = append(out, desc)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out
}

func writeLines(w io.Writer, lines []string) error {
	for _, l := range lines {
		if _, err := fmt.Fprintln(w, l); err != nil {
			return err
		}
	}
	return nil
}

func init() {
	professionsCmd.Flags().StringVar(&professionsSearch, "search", "", "case and accent insensitive filter")
	professionsCmd.Flags().IntVar(&professionsLimit, "limit", 0, "maximum results (0 for all)")
	professionsCmd.Flags().BoolVar(&professionsSorted, "sorted", false, "list in Italian alphabetical order instead of table order")
	rootCmd.AddCommand(professionsCmd)
}
