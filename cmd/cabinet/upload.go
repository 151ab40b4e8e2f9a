package main

import (
	"os"

	"github.com/spf13/cobra"
)

// uploadCmd represents the upload command
var uploadCmd = &cobra.Command{
	Use:   "upload <file.md>",
	Short: "Upload a raw frontmatter document",
	Long: `Parse a markdown file's frontmatter header and catalog it into the
namespace given by --org/--group/--user. An 'id' frontmatter key
addresses the record; otherwise a fresh id is assigned.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()

		ns, err := namespaceFromFlags()
		if err != nil {
			fatal("Invalid namespace", err)
		}
		raw, err := os.ReadFile(args[0])
		if err != nil {
			fatal("Failed to read file", err)
		}

		store, err := openStore(ctx)
		if err != nil {
			fatal("Failed to open store", err)
		}
		defer store.Close()

		rec, err := store.Upload(ctx, ns, raw)
		if err != nil {
			fatal("Upload failed", err)
		}
		if err := printJSON(rec); err != nil {
			fatal("Failed to print record", err)
		}
	},
}

func init() {
	rootCmd.AddCommand(uploadCmd)
}
