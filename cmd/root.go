package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/deploymenttheory/go-applesingle/internal/config"
	"github.com/deploymenttheory/go-applesingle/pkg/app"
)

var (
	// Global output flags only
	verbose      bool
	quiet        bool
	outputFormat string
	configFile   string

	// Set up by the root command before any subcommand runs
	v      *viper.Viper
	cfg    *config.Config
	appCtx *app.Context
)

var rootCmd = &cobra.Command{
	Use:   "applesingle",
	Short: "Inspect and extract AppleSingle containers",
	Long: `applesingle is a read-only command-line tool for AppleSingle containers:
single files carrying a classic Macintosh file's data fork, resource fork
and Finder metadata.

Commands:
  info        Show metadata, the entry table and fork digests
  extract     Write forks out as separate files
  verify      Decode with both decoders and compare the results
  config      Print the effective configuration`,
	Version:           "0.1.0-dev",
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}

func init() {
	// Only global output control flags
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "suppress output except errors")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "output", "o", "table", "output format (table, json, yaml, plist, dump)")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file (default: ./applesingle.yaml, $HOME/.applesingle/applesingle.yaml)")
	rootCmd.MarkFlagsMutuallyExclusive("verbose", "quiet")
}

// setup loads the configuration and builds the application context
func setup(cmd *cobra.Command, _ []string) error {
	v = config.New(configFile)

	// Explicit flags win over the file and the environment
	if err := v.BindPFlag("output_format", cmd.Flags().Lookup("output")); err != nil {
		return err
	}
	for _, name := range []string{"mode", "digest", "concurrency", "compress", "overwrite"} {
		if f := cmd.Flags().Lookup(name); f != nil {
			if err := v.BindPFlag(name, f); err != nil {
				return err
			}
		}
	}

	var err error
	cfg, err = config.Load(v)
	if err != nil {
		return app.NewError(app.ErrCodeInvalidInput, "invalid configuration", err)
	}
	if err := app.ValidateOutputFormat(cfg.OutputFormat); err != nil {
		return err
	}

	appCtx = app.NewContext()
	appCtx.Context = cmd.Context()
	appCtx.OutputFormat = cfg.OutputFormat
	appCtx.Verbose = verbose
	appCtx.Quiet = quiet
	appCtx.Stdout = cmd.OutOrStdout()
	appCtx.Stderr = cmd.ErrOrStderr()
	appCtx.SetLogLevel(cfg.LogLevel)

	if verbose && !quiet {
		appCtx.SetProgress(func(message string, percent int) {
			fmt.Fprintf(appCtx.Stderr, "[%3d%%] %s\n", percent, message)
		})
	}
	return nil
}
