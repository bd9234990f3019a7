package commands

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/spanlib/pkg/spanset"
)

const (
	setopsArgCount = 2
	setopsOpFlag   = "op"
	setopsOpUsage  = "operation: union, intersect, difference or complement"
)

// ErrUnknownOp is returned for an operation outside the supported set.
var ErrUnknownOp = errors.New("unknown set operation")

// NewSetopsCommand creates the setops subcommand.
func NewSetopsCommand() *cobra.Command {
	var op string

	cmd := &cobra.Command{
		Use:   "setops <a.(yaml|json)> <b.(yaml|json)>",
		Short: "Set algebra over two layer files",
		Long: `Setops treats each layer file as a plain point set (priorities and
values are ignored) and prints the canonical decomposition of the
requested combination. Complement applies to the first file only.`,
		Args: cobra.ExactArgs(setopsArgCount),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSetops(cmd, args[0], args[1], op)
		},
	}

	cmd.Flags().StringVar(&op, setopsOpFlag, "union", setopsOpUsage)

	return cmd
}

func runSetops(cmd *cobra.Command, pathA, pathB, op string) error {
	a, err := loadSet(pathA)
	if err != nil {
		return err
	}

	b, err := loadSet(pathB)
	if err != nil {
		return err
	}

	result, err := applySetop(a, b, op)
	if err != nil {
		return err
	}

	slog.Debug("set operation done", "op", op, "a", a.Len(), "b", b.Len(), "result", result.Len())

	for sp := range result.Spans() {
		fmt.Fprintln(cmd.OutOrStdout(), sp)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s spans, %s points\n",
		humanize.Comma(int64(result.Len())),
		humanize.Comma(int64(result.Size())))

	return nil
}

// applySetop dispatches the named operation.
func applySetop(a, b spanset.Set, op string) (spanset.Set, error) {
	switch op {
	case "union":
		return a.Union(b), nil
	case "intersect":
		return a.Intersect(b), nil
	case "difference":
		return a.Difference(b), nil
	case "complement":
		return a.Complement(), nil
	default:
		return spanset.Set{}, fmt.Errorf("%w: %q", ErrUnknownOp, op)
	}
}
