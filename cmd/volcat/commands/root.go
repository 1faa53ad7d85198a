// Package commands implements the volcat CLI.
package commands

import (
	"errors"
	"fmt"
	"os"
	"runtime/pprof"

	"github.com/spf13/cobra"

	configcmd "github.com/marmos91/volcat/cmd/volcat/commands/config"
	"github.com/marmos91/volcat/pkg/cat"
	"github.com/marmos91/volcat/pkg/registry"
	"github.com/marmos91/volcat/pkg/volume"
)

var (
	// Version information injected at build time.
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

var (
	flagConfig     string
	flagDebug      bool
	flagPort       string
	flagOptions    []string
	flagCPUProfile string
)

// rootCmd is the cat operation itself: volcat URL streams one remote
// file to stdout under an exclusive lock.
var rootCmd = &cobra.Command{
	Use:   "volcat [flags] dfs://host[:port]/volume/path",
	Short: "Stream a file from a distributed-filesystem volume under an exclusive lock",
	Long: `volcat opens a single file on a distributed-filesystem volume, takes an
exclusive non-blocking lock so no writer can mutate it mid-stream, writes
its bytes verbatim to stdout, and closes the handle. If the lock cannot be
acquired the operation fails immediately without reading any bytes.

Volumes are resolved through the export table in the configuration file
(see 'volcat config'). All diagnostics go to stderr; stdout carries only
file bytes.

Examples:
  # Stream a file from the "media" volume
  volcat dfs://storage.example.com/media/videos/clip.mov > clip.mov

  # Reach the volume on a non-standard port
  volcat -p 24010 dfs://storage.example.com/media/videos/clip.mov

  # Apply translator options at session setup (repeatable, ordered)
  volcat -o read-ahead.page-count=8 -o cache.enabled=off \
      dfs://storage.example.com/logs/app.log`,
	SilenceUsage:  true,
	SilenceErrors: true,
	Args: func(cmd *cobra.Command, args []string) error {
		if len(args) < 1 {
			return errors.New("missing file operand\nTry 'volcat --help' for more information")
		}
		if len(args) > 1 {
			return fmt.Errorf("unexpected argument %q\nTry 'volcat --help' for more information", args[1])
		}
		return nil
	},
	RunE: runCat,
}

// Execute runs the CLI and returns the first error encountered.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.Version = Version

	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to config file")
	rootCmd.PersistentFlags().BoolVarP(&flagDebug, "debug", "d", false, "Enable verbose diagnostics on stderr")

	rootCmd.Flags().StringVarP(&flagPort, "port", "p", "", "Port to reach the volume on (overrides the URL port)")
	rootCmd.Flags().StringArrayVarP(&flagOptions, "xlator-option", "o", nil, "Translator option KEY=VALUE (repeatable, applied in order)")
	rootCmd.Flags().StringVar(&flagCPUProfile, "cpuprofile", "", "Write a CPU profile to the given file")
	_ = rootCmd.Flags().MarkHidden("cpuprofile")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(shellCmd)
	rootCmd.AddCommand(volumesCmd)
	rootCmd.AddCommand(configcmd.Cmd)

	rootCmd.CompletionOptions.DisableDefaultCmd = true
}

func runCat(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	if flagCPUProfile != "" {
		f, err := os.Create(flagCPUProfile)
		if err != nil {
			return fmt.Errorf("cpuprofile: %w", err)
		}
		if err := pprof.StartCPUProfile(f); err != nil {
			_ = f.Close()
			return fmt.Errorf("cpuprofile: %w", err)
		}
		defer func() {
			pprof.StopCPUProfile()
			_ = f.Close()
		}()
	}

	reg, err := registry.FromConfig(cfg)
	if err != nil {
		return err
	}

	opts, err := volume.ParseOptions(flagOptions)
	if err != nil {
		return err
	}

	params := cat.Params{
		Options:   opts,
		ChunkSize: cfg.ChunkSize.Int(),
		Debug:     flagDebug,
		DebugSink: os.Stderr,
	}
	if flagPort != "" {
		port, err := volume.ParsePort(flagPort)
		if err != nil {
			return err
		}
		params.Port = port
	}

	return cat.Stream(cmd.Context(), reg, args[0], params, os.Stdout)
}
