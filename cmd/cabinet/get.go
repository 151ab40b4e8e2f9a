package main

import (
	"github.com/spf13/cobra"
)

// getCmd represents the get command
var getCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Fetch a record by id",
	Args:  cobra.ExactArgs(1),
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

		rec, err := store.Get(ctx, ns, args[0])
		if err != nil {
			fatal("Get failed", err)
		}
		if err := printJSON(rec); err != nil {
			fatal("Failed to print record", err)
		}
	},
}

func init() {
	rootCmd.AddCommand(getCmd)
}
