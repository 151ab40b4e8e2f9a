package main

import (
	"github.com/spf13/cobra"

	"github.com/tesshy/catalyzer/pkg/core"
)

var (
	createID        string
	createTitle     string
	createAuthor    string
	createURL       string
	createTags      []string
	createLocations []string
	createBody      string
)

// createCmd represents the create command
var createCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a record from structured fields",
	Long: `Create a catalog record from flags instead of a raw document. This is
the structured half of the ingest interface; use 'upload' for raw
frontmatter bytes.`,
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

		rec, err := store.Create(ctx, ns, core.CatalogRecord{
			ID:        createID,
			Title:     createTitle,
			Author:    createAuthor,
			URL:       createURL,
			Tags:      createTags,
			Locations: createLocations,
			Body:      createBody,
		})
		if err != nil {
			fatal("Create failed", err)
		}
		if err := printJSON(rec); err != nil {
			fatal("Failed to print record", err)
		}
	},
}

func init() {
	createCmd.Flags().StringVar(&createID, "id", "", "Record id (assigned if empty)")
	createCmd.Flags().StringVar(&createTitle, "title", "", "Record title")
	createCmd.Flags().StringVar(&createAuthor, "author", "", "Record author")
	createCmd.Flags().StringVar(&createURL, "url", "", "Record source URL")
	createCmd.Flags().StringSliceVar(&createTags, "tags", nil, "Comma-separated tag list")
	createCmd.Flags().StringSliceVar(&createLocations, "locations", nil, "Comma-separated location URLs")
	createCmd.Flags().StringVar(&createBody, "body", "", "Record body text")
	rootCmd.AddCommand(createCmd)
}
