package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// Reporter writes results in the selected format, keeping the JSON field
// names and order for YAML output too.
type Reporter struct {
	writer io.Writer
	format string
}

func NewReporter(writer io.Writer) *Reporter {
	if writer == nil {
		writer = os.Stdout
	}
	return &Reporter{writer: writer, format: FormatJSON}
}

func (r *Reporter) SetFormat(format string) error {
	switch format {
	case FormatJSON, FormatYAML:
		r.format = format
		return nil
	default:
		return fmt.Errorf("unsupported output format %q (use json or yaml)", format)
	}
}

func (r *Reporter) Handle(v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode result: %w", err)
	}

	if r.format == FormatJSON {
		_, err = fmt.Fprintln(r.writer, string(b))
		return err
	}

	// JSON is valid YAML, so decoding it into a node keeps key order
	var node yaml.Node
	if err := yaml.Unmarshal(b, &node); err != nil {
		return fmt.Errorf("failed to convert result: %w", err)
	}
	blockStyle(&node)

	enc := yaml.NewEncoder(r.writer)
	enc.SetIndent(2)
	if err := enc.Encode(&node); err != nil {
		return fmt.Errorf("failed to encode result: %w", err)
	}

	return enc.Close()
}

func blockStyle(n *yaml.Node) {
	n.Style = 0
	for _, c := range n.Content {
		blockStyle(c)
	}
}
