package commands

import (
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/marmos91/volcat/internal/cli/output"
)

var volumesOutput string

var volumesCmd = &cobra.Command{
	Use:   "volumes",
	Short: "List configured volume exports",
	Long: `List the volume exports declared in the configuration file.

Examples:
  # List volumes as a table
  volcat volumes

  # List as JSON
  volcat volumes -o json`,
	Args: cobra.NoArgs,
	RunE: runVolumes,
}

func init() {
	volumesCmd.Flags().StringVarP(&volumesOutput, "output", "o", "table", "Output format (table|json|yaml)")
}

// volumeRow holds one export for display.
type volumeRow struct {
	Name   string   `json:"name" yaml:"name"`
	Driver string   `json:"driver" yaml:"driver"`
	Root   string   `json:"root,omitempty" yaml:"root,omitempty"`
	Hosts  []string `json:"hosts,omitempty" yaml:"hosts,omitempty"`
}

// volumeList is a list of exports for table rendering.
type volumeList []volumeRow

// Headers implements output.TableRenderer.
func (vl volumeList) Headers() []string {
	return []string{"NAME", "DRIVER", "ROOT", "HOSTS"}
}

// Rows implements output.TableRenderer.
func (vl volumeList) Rows() [][]string {
	rows := make([][]string, 0, len(vl))
	for _, v := range vl {
		hosts := "*"
		if len(v.Hosts) > 0 {
			hosts = strings.Join(v.Hosts, ",")
		}
		rows = append(rows, []string{v.Name, v.Driver, v.Root, hosts})
	}
	return rows
}

func runVolumes(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	format, err := output.ParseFormat(volumesOutput)
	if err != nil {
		return err
	}
	printer := output.NewPrinter(os.Stdout, format)

	rows := make(volumeList, 0, len(cfg.Volumes))
	for _, vc := range cfg.Volumes {
		rows = append(rows, volumeRow{
			Name:   vc.Name,
			Driver: vc.Driver,
			Root:   vc.Root,
			Hosts:  vc.Hosts,
		})
	}

	if len(rows) == 0 && format == output.FormatTable {
		printer.Println("No volumes configured.")
		return nil
	}

	return printer.Print(rows)
}
