package commands

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/xeipuuv/gojsonschema"

	"github.com/Sumatoshi-tech/spanlib/pkg/spanmap"
)

//go:embed layer-schema.json
var layerSchema []byte

const validateArgCount = 1

// ErrInvalidLayers is returned when a layer file fails validation.
var ErrInvalidLayers = errors.New("layer file is invalid")

// NewValidateCommand creates the validate subcommand.
func NewValidateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <layers.json>",
		Short: "Check a layer file against the layer schema",
		Args:  cobra.ExactArgs(validateArgCount),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(cmd, args[0])
		},
	}
}

func runValidate(cmd *cobra.Command, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read layers: %w", err)
	}

	schemaLoader := gojsonschema.NewBytesLoader(layerSchema)
	inputLoader := gojsonschema.NewBytesLoader(data)

	result, err := gojsonschema.Validate(schemaLoader, inputLoader)
	if err != nil {
		return fmt.Errorf("schema validation: %w", err)
	}

	if !result.Valid() {
		color.New(color.FgRed).Fprintf(cmd.OutOrStdout(), "%s is invalid\n", path)

		for _, verr := range result.Errors() {
			fmt.Fprintf(cmd.OutOrStdout(), "  %s: %s\n", verr.Field(), verr.Description())
		}

		return fmt.Errorf("%w: %s", ErrInvalidLayers, path)
	}

	// Schema-clean input can still carry inverted bounds; the library
	// constructors catch those.
	segs, err := loadLayerFile(path)
	if err != nil {
		return err
	}

	if _, err := spanmap.FromSegments(segs); err != nil {
		color.New(color.FgRed).Fprintf(cmd.OutOrStdout(), "%s is invalid\n", path)

		return fmt.Errorf("%w: %s: %w", ErrInvalidLayers, path, err)
	}

	color.New(color.FgGreen).Fprintf(cmd.OutOrStdout(), "%s is valid (%d layers)\n", path, len(segs))

	return nil
}
