package config

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/marmos91/volcat/pkg/config"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the configuration file",
	Long: `Validate the volcat configuration file.

Checks for syntax errors, missing required fields, and invalid values.

Examples:
  # Validate default config
  volcat config validate

  # Validate specific config file
  volcat config validate --config /etc/volcat/config.yaml`,
	Args: cobra.NoArgs,
	RunE: runConfigValidate,
}

func runConfigValidate(cmd *cobra.Command, args []string) error {
	configPath, _ := cmd.Flags().GetString("config")

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	displayPath := configPath
	if displayPath == "" {
		displayPath = config.GetDefaultConfigPath()
	}

	var warnings []string
	if len(cfg.Volumes) == 0 {
		warnings = append(warnings, "no volumes configured - every URL will fail to resolve")
	}
	for _, vc := range cfg.Volumes {
		if vc.Driver == config.DriverMemory && vc.Root != "" {
			warnings = append(warnings, fmt.Sprintf("volume %q: root is ignored by the memory driver", vc.Name))
		}
	}

	fmt.Printf("Configuration file: %s\n", displayPath)
	fmt.Println("Validation: OK")

	if len(warnings) > 0 {
		fmt.Println("\nWarnings:")
		for _, w := range warnings {
			fmt.Printf("  - %s\n", w)
		}
	}

	fmt.Printf("\nConfiguration summary:\n")
	fmt.Printf("  Volumes:     %d\n", len(cfg.Volumes))
	fmt.Printf("  Chunk size:  %s\n", cfg.ChunkSize)
	fmt.Printf("  Log level:   %s\n", cfg.Logging.Level)

	return nil
}
