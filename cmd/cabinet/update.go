package main

import (
	"github.com/spf13/cobra"

	"github.com/tesshy/catalyzer/pkg/core"
)

var (
	updateTitle     string
	updateAuthor    string
	updateURL       string
	updateTags      []string
	updateLocations []string
	updateBody      string
)

// updateCmd represents the update command
var updateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Update a record's fields",
	Long: `Merge the supplied flags over the existing record. Only flags that
were explicitly set are applied; everything else is left untouched.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()

		ns, err := namespaceFromFlags()
		if err != nil {
			fatal("Invalid namespace", err)
		}

		var patch core.Patch
		if cmd.Flags().Changed("title") {
			patch.Title = &updateTitle
		}
		if cmd.Flags().Changed("author") {
			patch.Author = &updateAuthor
		}
		if cmd.Flags().Changed("url") {
			patch.URL = &updateURL
		}
		if cmd.Flags().Changed("tags") {
			patch.Tags = &updateTags
		}
		if cmd.Flags().Changed("locations") {
			patch.Locations = &updateLocations
		}
		if cmd.Flags().Changed("body") {
			patch.Body = &updateBody
		}

		store, err := openStore(ctx)
		if err != nil {
			fatal("Failed to open store", err)
		}
		defer store.Close()

		rec, err := store.Update(ctx, ns, args[0], patch)
		if err != nil {
			fatal("Update failed", err)
		}
		if err := printJSON(rec); err != nil {
			fatal("Failed to print record", err)
		}
	},
}

func init() {
	updateCmd.Flags().StringVar(&updateTitle, "title", "", "New title")
	updateCmd.Flags().StringVar(&updateAuthor, "author", "", "New author")
	updateCmd.Flags().StringVar(&updateURL, "url", "", "New source URL")
	updateCmd.Flags().StringSliceVar(&updateTags, "tags", nil, "Replacement tag list")
	updateCmd.Flags().StringSliceVar(&updateLocations, "locations", nil, "Replacement location URLs")
	updateCmd.Flags().StringVar(&updateBody, "body", "", "New body text")
	rootCmd.AddCommand(updateCmd)
}
