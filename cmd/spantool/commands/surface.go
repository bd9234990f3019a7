package commands

import (
	"fmt"
	"log/slog"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Sumatoshi-tech/spanlib/pkg/spanmap"
)

const surfaceArgCount = 1

// layerPalette colors table rows by priority, cycling when the stack is
// deeper than the palette.
var layerPalette = []*color.Color{
	color.New(color.FgCyan),
	color.New(color.FgGreen),
	color.New(color.FgYellow),
	color.New(color.FgMagenta),
	color.New(color.FgBlue),
	color.New(color.FgRed),
}

// NewSurfaceCommand creates the surface subcommand.
func NewSurfaceCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "surface <layers.(yaml|json)>",
		Short: "Compose all layers into the visible decomposition",
		Args:  cobra.ExactArgs(surfaceArgCount),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSurface(cmd, args[0])
		},
	}
}

func runSurface(cmd *cobra.Command, path string) error {
	m, err := loadMap(path)
	if err != nil {
		return err
	}

	s := m.Surface()
	slog.Debug("surfaced layers", "entries", m.Len(), "visible", s.Len())

	fmt.Fprintln(cmd.OutOrStdout(), surfaceTable(s))
	fmt.Fprintf(cmd.OutOrStdout(), "%s visible pieces over %s points (%s layers loaded)\n",
		humanize.Comma(int64(s.Len())),
		humanize.Comma(int64(coveredPoints(s))),
		humanize.Comma(int64(m.Len())))

	return nil
}

// surfaceTable renders the visible decomposition as a go-pretty table.
func surfaceTable(s spanmap.Map[string]) string {
	colorize := viper.GetBool(cfgSurfaceColor)

	tbl := table.NewWriter()
	tbl.SetStyle(table.StyleLight)
	tbl.AppendHeader(table.Row{"Span", "Priority", "Value"})

	for seg := range s.Entries() {
		value := seg.Value
		if colorize {
			value = layerPalette[seg.Priority%len(layerPalette)].Sprint(value)
		}

		tbl.AppendRow(table.Row{seg.Span.String(), seg.Priority, value})
	}

	return tbl.Render()
}

// coveredPoints sums the lengths of the visible pieces.
func coveredPoints(s spanmap.Map[string]) int {
	total := 0
	for e := range s.Entries() {
		total += e.Span.Len()
	}

	return total
}
