package cmd

import (
	"github.com/spf13/cobra"

	"github.com/deploymenttheory/go-applesingle/pkg/app/inspect"
)

var infoCmd = &cobra.Command{
	Use:   "info <path|pattern>...",
	Short: "Show the metadata, entry table and forks of AppleSingle containers",
	Long: `Decode AppleSingle containers and report their metadata, their table of
contents and the size and sha256 digest of every fork.

Patterns use doublestar syntax and are expanded by the tool itself.

Examples:
  # Inspect one file
  applesingle info "Read Me.as"

  # Inspect a tree of containers, eight at a time, as JSON
  applesingle info 'archive/**/*.as' --concurrency 8 -o json

  # Use the seekable decoder and skip digests
  applesingle info file.as --mode seek --digest=false`,

	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runInfo(args)
	},
}

func init() {
	rootCmd.AddCommand(infoCmd)

	infoCmd.Flags().String("mode", "stream", "decoder to use (stream, seek)")
	infoCmd.Flags().Bool("digest", true, "compute sha256 digests of the forks")
	infoCmd.Flags().Int("concurrency", 0, "number of files decoded at once (default: number of CPUs)")
}

func runInfo(paths []string) error {
	req := &inspect.Request{
		Paths:       paths,
		Mode:        cfg.Mode,
		Digest:      cfg.Digest,
		Concurrency: cfg.Concurrency,
	}

	response, err := inspect.Handle(appCtx, req)
	if err != nil {
		return err
	}

	if !appCtx.Quiet {
		if err := inspect.FormatOutput(appCtx.Stdout, response, appCtx.OutputFormat); err != nil {
			return err
		}
	}
	if appCtx.Verbose {
		appCtx.Log(inspect.FormatSummary(response))
	}
	return nil
}
