package commands

import (
	"fmt"
	"log/slog"
	"os"
	"sort"
	"strconv"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Sumatoshi-tech/spanlib/pkg/spanmap"
	"github.com/Sumatoshi-tech/spanlib/pkg/spantree"
)

const (
	renderArgCount    = 1
	renderOutputFlag  = "output"
	renderOutputShort = "o"
	renderOutputUsage = "output HTML file"
	renderFilePerm    = 0o644
)

// NewRenderCommand creates the render subcommand.
func NewRenderCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "render <layers.(yaml|json)>",
		Short: "Plot the layer stack and its surface as HTML",
		Args:  cobra.ExactArgs(renderArgCount),
		RunE: func(_ *cobra.Command, args []string) error {
			return runRender(args[0], output)
		},
	}

	cmd.Flags().StringVarP(&output, renderOutputFlag, renderOutputShort, "layers.html", renderOutputUsage)

	return cmd
}

func runRender(path, output string) error {
	m, err := loadMap(path)
	if err != nil {
		return err
	}

	line := buildLayerChart(m)

	f, err := os.OpenFile(output, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, renderFilePerm)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	defer f.Close()

	if err := line.Render(f); err != nil {
		return fmt.Errorf("render chart: %w", err)
	}

	slog.Debug("rendered layers", "layers", m.Len(), "output", output)

	return nil
}

// buildLayerChart plots each priority layer as a step series at its
// priority height, with the composed surface on top.
func buildLayerChart(m spanmap.Map[string]) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle: viper.GetString(cfgRenderTitle),
			Width:     viper.GetString(cfgRenderWidth),
			Height:    viper.GetString(cfgRenderHeight),
		}),
		charts.WithTitleOpts(opts.Title{Title: viper.GetString(cfgRenderTitle)}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Position"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Priority"}),
	)

	width := chartWidth(m)
	labels := make([]string, width)

	for x := range width {
		labels[x] = strconv.Itoa(x)
	}

	line.SetXAxis(labels)

	for _, priority := range priorities(m) {
		line.AddSeries("layer "+strconv.Itoa(priority), layerSeries(m.Layer(priority), priority, width))
	}

	line.AddSeries("surface", surfaceSeries(m.Surface(), width),
		charts.WithLineStyleOpts(opts.LineStyle{Width: 3}),
	)

	return line
}

// chartWidth is the exclusive upper bound of the plotted range.
func chartWidth(m spanmap.Map[string]) int {
	width := 0

	for e := range m.Entries() {
		width = max(width, e.Span.Hi)
	}

	return width + 1
}

// priorities lists the distinct priorities in ascending order.
func priorities(m spanmap.Map[string]) []int {
	seen := map[int]struct{}{}

	var out []int

	for e := range m.Entries() {
		if _, ok := seen[e.Priority]; ok {
			continue
		}

		seen[e.Priority] = struct{}{}
		out = append(out, e.Priority)
	}

	sort.Ints(out)

	return out
}

// layerSeries plots one priority layer at its priority height, with gaps
// where the layer covers nothing.
func layerSeries(entries []spantree.Entry[string], priority, width int) []opts.LineData {
	data := make([]opts.LineData, width)

	for x := range width {
		covered := false

		for _, e := range entries {
			if e.Span.Contains(x) {
				covered = true

				break
			}
		}

		if covered {
			data[x] = opts.LineData{Value: priority}
		} else {
			data[x] = opts.LineData{Value: nil}
		}
	}

	return data
}

// surfaceSeries plots the visible owner's priority per point.
func surfaceSeries(s spanmap.Map[string], width int) []opts.LineData {
	data := make([]opts.LineData, width)

	for x := range width {
		data[x] = opts.LineData{Value: nil}
	}

	for e := range s.Entries() {
		for x := e.Span.Lo; x < e.Span.Hi && x < width; x++ {
			data[x] = opts.LineData{Value: e.Priority}
		}
	}

	return data
}
