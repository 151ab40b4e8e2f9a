package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var listPattern string

// listCmd represents the list command
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List namespace partitions",
	Long: `Enumerate the store's partitions as org/group/user triples, optionally
filtered by a glob pattern (e.g. 'contoso/**' or '*/data/*').`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()

		store, err := openStore(ctx)
		if err != nil {
			fatal("Failed to open store", err)
		}
		defer store.Close()

		namespaces, err := store.Namespaces(listPattern)
		if err != nil {
			fatal("List failed", err)
		}
		for _, ns := range namespaces {
			fmt.Println(ns)
		}
	},
}

func init() {
	listCmd.Flags().StringVar(&listPattern, "pattern", "", "Glob over org/group/user")
	rootCmd.AddCommand(listCmd)
}
