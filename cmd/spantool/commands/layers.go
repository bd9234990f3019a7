package commands

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/Sumatoshi-tech/spanlib/pkg/span"
	"github.com/Sumatoshi-tech/spanlib/pkg/spanmap"
	"github.com/Sumatoshi-tech/spanlib/pkg/spanset"
)

// ErrUnknownFormat is returned for a layer file with an unsupported
// extension.
var ErrUnknownFormat = errors.New("unknown layer file format")

// layerFile is the on-disk shape of a layer stack.
type layerFile struct {
	Layers []spanmap.Segment[string] `json:"layers" yaml:"layers"`
}

// loadLayerFile reads a YAML or JSON layer file, picked by extension.
func loadLayerFile(path string) ([]spanmap.Segment[string], error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read layers: %w", err)
	}

	var file layerFile

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &file); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	case ".json":
		if err := json.Unmarshal(data, &file); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownFormat, ext)
	}

	return file.Layers, nil
}

// loadMap builds a priority multimap from a layer file.
func loadMap(path string) (spanmap.Map[string], error) {
	segs, err := loadLayerFile(path)
	if err != nil {
		return spanmap.Map[string]{}, err
	}

	m, err := spanmap.FromSegments(segs)
	if err != nil {
		return spanmap.Map[string]{}, fmt.Errorf("%s: %w", path, err)
	}

	return m, nil
}

// loadSet builds a disjoint span set from a layer file, ignoring
// priorities and values.
func loadSet(path string) (spanset.Set, error) {
	segs, err := loadLayerFile(path)
	if err != nil {
		return spanset.Set{}, err
	}

	var s spanset.Set

	for _, seg := range segs {
		s, err = s.Add(span.Span{Lo: seg.Lo, Hi: seg.Hi})
		if err != nil {
			return spanset.Set{}, fmt.Errorf("%s: %w", path, err)
		}
	}

	return s, nil
}
