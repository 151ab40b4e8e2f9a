package main

import (
	"github.com/spf13/cobra"

	"github.com/tesshy/catalyzer/pkg/catalog"
)

var (
	searchTags []string
	searchText string
)

// searchCmd represents the search command
var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Search records by tag and/or full text",
	Long: `Search the namespace partition. The two filters combine: --tags is a
comma-separated list with AND semantics (every tag must match), --query
matches records containing at least one term, ranked by relevance.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()

		ns, err := namespaceFromFlags()
		if err != nil {
			fatal("Invalid namespace", err)
		}

		store, err := openStore(ctx)
		if err != nil {
			fatal("Failed to open store", err)
		}
		defer store.Close()

		recs, err := store.Search(ctx, ns, catalog.Query{
			Tags: searchTags,
			Text: searchText,
		})
		if err != nil {
			fatal("Search failed", err)
		}
		if err := printJSON(recs); err != nil {
			fatal("Failed to print results", err)
		}
	},
}

func init() {
	searchCmd.Flags().StringSliceVar(&searchTags, "tags", nil, "Comma-separated tag filter (AND)")
	searchCmd.Flags().StringVarP(&searchText, "query", "q", "", "Free-text filter (OR over terms)")
	rootCmd.AddCommand(searchCmd)
}
