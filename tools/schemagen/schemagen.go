// Package main generates the JSON schema for spantool layer files from
// the flattened segment struct.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"reflect"
	"strings"

	"github.com/Sumatoshi-tech/spanlib/pkg/spanmap"
)

// Schema represents a JSON Schema.
type Schema struct {
	SchemaURI            string             `json:"$schema,omitempty"`
	Title                string             `json:"title,omitempty"`
	Type                 string             `json:"type,omitempty"`
	Required             []string           `json:"required,omitempty"`
	AdditionalProperties *bool              `json:"additionalProperties,omitempty"`
	Properties           map[string]*Schema `json:"properties,omitempty"`
	Items                *Schema            `json:"items,omitempty"`
	Minimum              *int               `json:"minimum,omitempty"`
}

const (
	draftURI = "http://json-schema.org/draft-07/schema#"
	filePerm = 0o644
)

func main() {
	output := flag.String("o", "cmd/spantool/commands/layer-schema.json", "Output schema file")
	flag.Parse()

	closed := false
	zero := 0

	segment := segmentSchema(reflect.TypeOf(spanmap.Segment[string]{}), &zero)

	schema := &Schema{
		SchemaURI:            draftURI,
		Title:                "Spantool layer file",
		Type:                 "object",
		Required:             []string{"layers"},
		AdditionalProperties: &closed,
		Properties: map[string]*Schema{
			"layers": {Type: "array", Items: segment},
		},
	}

	data, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error marshaling schema: %v\n", err)
		os.Exit(1)
	}

	if err := os.WriteFile(*output, append(data, '\n'), filePerm); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing %s: %v\n", *output, err)
		os.Exit(1)
	}

	fmt.Printf("wrote %s\n", *output)
}

// segmentSchema reflects the segment struct's json tags into a closed
// object schema. Bound fields get a zero minimum; the priority stays
// optional because the loader defaults it.
func segmentSchema(t reflect.Type, zero *int) *Schema {
	closed := false

	s := &Schema{
		Type:                 "object",
		AdditionalProperties: &closed,
		Properties:           map[string]*Schema{},
	}

	for i := range t.NumField() {
		field := t.Field(i)

		name := strings.Split(field.Tag.Get("json"), ",")[0]
		if name == "" || name == "-" {
			continue
		}

		prop := &Schema{}

		switch field.Type.Kind() {
		case reflect.Int, reflect.Int32, reflect.Int64:
			prop.Type = "integer"
		case reflect.String:
			prop.Type = "string"
		default:
			fmt.Fprintf(os.Stderr, "Error: unsupported field type %s for %s\n", field.Type, name)
			os.Exit(1)
		}

		if name == "lo" || name == "hi" {
			prop.Minimum = zero
		}

		if name != "priority" {
			s.Required = append(s.Required, name)
		}

		s.Properties[name] = prop
	}

	return s
}
