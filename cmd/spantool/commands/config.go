// Package commands implements the spantool subcommands.
package commands

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/viper"
)

// Config keys.
const (
	cfgRenderTitle   = "render.title"
	cfgRenderWidth   = "render.width"
	cfgRenderHeight  = "render.height"
	cfgSurfaceColor  = "surface.color"
	defaultTitle     = "Spantool"
	defaultChartSize = "900px"
	defaultChartH    = "420px"
)

// LoadConfig loads the optional spantool config file into viper. An
// explicit path must exist; the default lookup silently tolerates a
// missing file.
func LoadConfig(path string) error {
	viper.SetDefault(cfgRenderTitle, defaultTitle)
	viper.SetDefault(cfgRenderWidth, defaultChartSize)
	viper.SetDefault(cfgRenderHeight, defaultChartH)
	viper.SetDefault(cfgSurfaceColor, true)

	if path != "" {
		viper.SetConfigFile(path)

		if err := viper.ReadInConfig(); err != nil {
			return fmt.Errorf("read config %s: %w", path, err)
		}

		slog.Debug("loaded config", "path", path)

		return nil
	}

	viper.SetConfigName("spantool")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")

	err := viper.ReadInConfig()
	if err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}

		return fmt.Errorf("read config: %w", err)
	}

	slog.Debug("loaded config", "path", viper.ConfigFileUsed())

	return nil
}
