package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/tesshy/catalyzer/pkg/catalog"
	"github.com/tesshy/catalyzer/pkg/core"
)

var (
	flagRoot    string
	flagOrg     string
	flagGroup   string
	flagUser    string
	flagVerbose bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "cabinet",
	Short: "A hierarchical catalog store for frontmatter markdown documents",
	Long: `Cabinet indexes markdown documents with YAML frontmatter into an
organization/group/user partitioned store, searchable by tag (AND) and
full text (OR).`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := initConfig(cmd.Root().PersistentFlags()); err != nil {
			return err
		}

		level := slog.LevelInfo
		if viper.GetBool("verbose") {
			level = slog.LevelDebug
		}
		logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
		slog.SetDefault(logger)
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagRoot, "root", "", "Store root directory (default ./cabinet)")
	rootCmd.PersistentFlags().StringVar(&flagOrg, "org", "", "Organization segment of the namespace")
	rootCmd.PersistentFlags().StringVar(&flagGroup, "group", "", "Group segment of the namespace")
	rootCmd.PersistentFlags().StringVar(&flagUser, "user", "", "User segment of the namespace")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Enable verbose logging")
}

// initConfig layers configuration: flags over environment over an
// optional cabinet.yaml (working directory or ~/.config/cabinet). The
// flag set is passed in rather than read from rootCmd so the package
// initializers stay acyclic.
func initConfig(flags *pflag.FlagSet) error {
	viper.SetConfigName("cabinet")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	if home, err := os.UserHomeDir(); err == nil {
		viper.AddConfigPath(filepath.Join(home, ".config", "cabinet"))
	}
	viper.SetEnvPrefix("CABINET")
	viper.AutomaticEnv()
	viper.SetDefault("root", "cabinet")

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("failed to read config: %w", err)
		}
	}

	for _, key := range []string{"root", "org", "group", "user", "verbose"} {
		if f := flags.Lookup(key); f != nil {
			if err := viper.BindPFlag(key, f); err != nil {
				return err
			}
		}
	}
	return nil
}

func openStore(ctx context.Context) (*catalog.Store, error) {
	return catalog.Open(ctx, viper.GetString("root"),
		catalog.WithLogger(slog.Default()),
	)
}

func namespaceFromFlags() (core.Namespace, error) {
	ns := core.Namespace{
		Org:   viper.GetString("org"),
		Group: viper.GetString("group"),
		User:  viper.GetString("user"),
	}
	if err := catalog.ValidateNamespace(ns); err != nil {
		return core.Namespace{}, fmt.Errorf("%w (set --org, --group and --user)", err)
	}
	return ns, nil
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func fatal(msg string, err error) {
	slog.Error(msg, "error", err)
	os.Exit(1)
}
