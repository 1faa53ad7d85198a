package config

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/marmos91/volcat/internal/cli/output"
	"github.com/marmos91/volcat/pkg/config"
)

var showOutput string

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Display the effective configuration",
	Long: `Display the effective volcat configuration after defaults are applied.

By default outputs YAML format. Use --output to change format.

Examples:
  # Show effective config as YAML
  volcat config show

  # Show as JSON
  volcat config show --output json

  # Show a specific config file
  volcat config show --config /etc/volcat/config.yaml`,
	Args: cobra.NoArgs,
	RunE: runConfigShow,
}

func init() {
	showCmd.Flags().StringVarP(&showOutput, "output", "o", "yaml", "Output format (yaml|json)")
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	configPath, _ := cmd.Flags().GetString("config")

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	format, err := output.ParseFormat(showOutput)
	if err != nil {
		return err
	}

	switch format {
	case output.FormatJSON:
		return output.PrintJSON(os.Stdout, cfg)
	default:
		return output.PrintYAML(os.Stdout, cfg)
	}
}
