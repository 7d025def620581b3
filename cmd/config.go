package cmd

import (
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/deploymenttheory/go-applesingle/pkg/app"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective configuration",
	Long: `Print the configuration after merging defaults, the config file,
APPLESINGLE_* environment variables and flags.`,

	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runConfig()
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
}

func runConfig() error {
	if used := v.ConfigFileUsed(); used != "" {
		appCtx.Log("configuration file", "path", used)
	}

	// The output flag selects the format here too; table falls back to YAML
	if appCtx.OutputFormat != app.FormatTable {
		return app.Encode(appCtx.Stdout, appCtx.OutputFormat, cfg)
	}

	encoder := yaml.NewEncoder(appCtx.Stdout)
	defer encoder.Close()
	encoder.SetIndent(2)
	return encoder.Encode(cfg)
}
