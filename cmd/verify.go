package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/deploymenttheory/go-applesingle/pkg/app"
	"github.com/deploymenttheory/go-applesingle/pkg/app/verify"
)

var verifyCmd = &cobra.Command{
	Use:   "verify <path|pattern>...",
	Short: "Check that the streaming and seekable decoders agree",
	Long: `Decode each container twice, once as a forward-only stream and once with
random access, and compare the metadata and an xxhash of every fork.

A container that either decoder rejects counts as a failure.

Examples:
  applesingle verify file.as
  applesingle verify 'archive/**/*.as' -o json`,

	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runVerify(args)
	},
}

func init() {
	rootCmd.AddCommand(verifyCmd)
}

func runVerify(paths []string) error {
	response, err := verify.Handle(appCtx, &verify.Request{Paths: paths})
	if err != nil {
		return err
	}

	if !appCtx.Quiet {
		if appCtx.OutputFormat != app.FormatTable {
			if err := app.Encode(appCtx.Stdout, appCtx.OutputFormat, response); err != nil {
				return err
			}
		} else {
			for _, r := range response.Results {
				switch {
				case r.OK:
					fmt.Fprintf(appCtx.Stdout, "OK    %s (%d forks)\n", r.Path, len(r.Forks))
				case r.Error != "":
					fmt.Fprintf(appCtx.Stdout, "FAIL  %s: %s\n", r.Path, r.Error)
				default:
					fmt.Fprintf(appCtx.Stdout, "FAIL  %s: %s\n", r.Path, strings.Join(r.Mismatches, "; "))
				}
			}
			fmt.Fprintf(appCtx.Stdout, "\n%d passed, %d failed\n", response.Passed, response.Failed)
		}
	}

	return response.Err()
}
