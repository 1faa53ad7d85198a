package config

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/marmos91/volcat/internal/bytesize"
	"github.com/marmos91/volcat/internal/cli/prompt"
	"github.com/marmos91/volcat/pkg/config"
)

var initForce bool

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a sample configuration file",
	Long: `Create a sample volcat configuration file.

By default, the configuration file is created at $XDG_CONFIG_HOME/volcat/config.yaml.
Use --config to specify a custom path.

Examples:
  # Initialize with default location
  volcat config init

  # Initialize with custom path
  volcat config init --config /etc/volcat/config.yaml

  # Force overwrite existing config
  volcat config init --force`,
	Args: cobra.NoArgs,
	RunE: runInit,
}

func init() {
	initCmd.Flags().BoolVar(&initForce, "force", false, "Force overwrite existing config file")
}

func runInit(cmd *cobra.Command, args []string) error {
	configPath, _ := cmd.Flags().GetString("config")
	if configPath == "" {
		configPath = config.GetDefaultConfigPath()
	}

	if _, err := os.Stat(configPath); err == nil {
		ok, err := prompt.ConfirmWithForce(
			fmt.Sprintf("Configuration file %s exists, overwrite", configPath), initForce)
		if err != nil {
			if prompt.IsAborted(err) {
				return nil
			}
			return err
		}
		if !ok {
			return nil
		}
	}

	cfg := sampleConfig()
	if err := config.SaveConfig(cfg, configPath); err != nil {
		return fmt.Errorf("failed to initialize config: %w", err)
	}

	fmt.Printf("Configuration file created at: %s\n", configPath)
	fmt.Println("\nNext steps:")
	fmt.Println("  1. Edit the volume export table to point at your mounts")
	fmt.Println("  2. Stream a file with: volcat dfs://HOST/VOLUME/PATH")

	return nil
}

// sampleConfig returns the defaults plus one example volume entry, so
// the generated file shows the export table shape.
func sampleConfig() *config.Config {
	cfg := config.GetDefaultConfig()
	cfg.ChunkSize = 64 * bytesize.KiB
	cfg.Volumes = []config.VolumeConfig{
		{
			Name:   "media",
			Driver: config.DriverPosix,
			Root:   "/mnt/media",
		},
	}
	return cfg
}
