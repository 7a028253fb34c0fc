package render

import (
	"encoding/json"
	"fmt"
	"io"
	"sync"

	"github.com/pkg/errors"
	"sigs.k8s.io/yaml"
)

// Output formats
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// Formats lists the supported output formats
var Formats = []string{FormatText, FormatJSON, FormatYAML}

// IsValidFormat reports whether format is one of Formats
func IsValidFormat(format string) bool {
	for _, f := range Formats {
		if f == format {
			return true
		}
	}
	return false
}

// Record is one printed event
type Record struct {
	Event string `json:"event"`
	Value any    `json:"value,omitempty"`
}

// Printer writes demo events to an output stream
type Printer struct {
	mu     sync.Mutex
	out    io.Writer
	format string
}

// NewPrinter creates a printer for one of Formats
func NewPrinter(out io.Writer, format string) (*Printer, error) {
	if !IsValidFormat(format) {
		return nil, errors.Errorf("unknown output format %q", format)
	}
	return &Printer{out: out, format: format}, nil
}

// Print writes an event with an optional value
func (p *Printer) Print(event string, value any) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	switch p.format {
	case FormatJSON:
		data, err := json.Marshal(Record{Event: event, Value: value})
		if err != nil {
			return errors.Wrap(err, "failed to marshal record")
		}
		_, err = fmt.Fprintf(p.out, "%s\n", data)
		return err

	case FormatYAML:
		data, err := yaml.Marshal(Record{Event: event, Value: value})
		if err != nil {
			return errors.Wrap(err, "failed to marshal record")
		}
		_, err = fmt.Fprintf(p.out, "---\n%s", data)
		return err

	default:
		if value == nil {
			_, err := fmt.Fprintln(p.out, event)
			return err
		}
		_, err := fmt.Fprintf(p.out, "%s %+v\n", event, value)
		return err
	}
}

// Separator prints a visual break; only text output has one
func (p *Printer) Separator() error {
	if p.format != FormatText {
		return nil
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	_, err := fmt.Fprintln(p.out, "====")
	return err
}
