package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// deleteCmd represents the delete command
var deleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a record",
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

		if err := store.Delete(ctx, ns, args[0]); err != nil {
			fatal("Delete failed", err)
		}
		fmt.Printf("Deleted %s from %s\n", args[0], ns)
	},
}

func init() {
	rootCmd.AddCommand(deleteCmd)
}
