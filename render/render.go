// Package render writes parse results for people and for machines.
//
// Supported formats:
//   - text: the canonical one-line rendering of each ingredient
//   - color: text with values, units, names and modifiers highlighted
//   - table: aligned columns, one row per input line
//   - json: indented JSON array
//   - yaml: YAML sequence
//
// Failed lines render as "error: <message>" in text, color and table output and carry
// an "error" field in json and yaml.
package render

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"gopkg.in/yaml.v3"

	"ingredient"
)

type Format string

const (
	FormatText  Format = "text"
	FormatColor Format = "color"
	FormatTable Format = "table"
	FormatJSON  Format = "json"
	FormatYAML  Format = "yaml"
)

func (f Format) IsUnknown() bool {
	switch f {
	case FormatText, FormatColor, FormatTable, FormatJSON, FormatYAML:
		return false
	default:
		return true
	}
}

// SupportedFormats lists every format ParseFormat accepts.
func SupportedFormats() []string {
	return []string{
		string(FormatText),
		string(FormatColor),
		string(FormatTable),
		string(FormatJSON),
		string(FormatYAML),
	}
}

// ParseFormat returns the Format named by s, case-insensitively.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	if f.IsUnknown() {
		return "", fmt.Errorf("unknown format %q, want one of %s", s, strings.Join(SupportedFormats(), ", "))
	}
	return f, nil
}

// Entry is the outcome of parsing one input line.
type Entry struct {
	Line       int                    `json:"line" yaml:"line"`
	Input      string                 `json:"input" yaml:"input"`
	Ingredient *ingredient.Ingredient `json:"ingredient,omitempty" yaml:"ingredient,omitempty"`
	Error      string                 `json:"error,omitempty" yaml:"error,omitempty"`
}

// NewEntry builds an Entry for the given line number. ing is ignored when err is set.
func NewEntry(line int, input string, ing ingredient.Ingredient, err error) Entry {
	e := Entry{Line: line, Input: input}
	if err != nil {
		e.Error = err.Error()
		return e
	}
	e.Ingredient = &ing
	return e
}

// Writer renders entries in a single format.
type Writer struct {
	format  Format
	output  io.Writer
	palette palette
}

// NewWriter returns a Writer for format. A nil output means stdout.
func NewWriter(format Format, output io.Writer) *Writer {
	if output == nil {
		output = os.Stdout
	}
	return &Writer{
		format:  format,
		output:  output,
		palette: newPalette(format == FormatColor),
	}
}

// Write renders entries.
func (w *Writer) Write(entries []Entry) error {
	switch w.format {
	case FormatText, FormatColor:
		for _, e := range entries {
			if _, err := fmt.Fprintln(w.output, w.line(e)); err != nil {
				return err
			}
		}
		return nil
	case FormatTable:
		return w.writeTable(entries)
	case FormatJSON:
		return w.encodeJSON(entries)
	case FormatYAML:
		return w.encodeYAML(entries)
	default:
		return fmt.Errorf("unsupported format: %s", w.format)
	}
}

// WriteAmounts renders the result of an amount-only parse.
func (w *Writer) WriteAmounts(amounts []ingredient.Amount) error {
	switch w.format {
	case FormatText, FormatColor, FormatTable:
		_, err := fmt.Fprintln(w.output, w.palette.amounts(amounts))
		return err
	case FormatJSON:
		return w.encodeJSON(amounts)
	case FormatYAML:
		return w.encodeYAML(amounts)
	default:
		return fmt.Errorf("unsupported format: %s", w.format)
	}
}

// Encode writes v as a single document. Only json and yaml can encode arbitrary values.
func (w *Writer) Encode(v any) error {
	switch w.format {
	case FormatJSON:
		return w.encodeJSON(v)
	case FormatYAML:
		return w.encodeYAML(v)
	default:
		return fmt.Errorf("format %s cannot encode %T", w.format, v)
	}
}

// Structured reports whether the format is machine readable.
func (w *Writer) Structured() bool {
	return w.format == FormatJSON || w.format == FormatYAML
}

func (w *Writer) line(e Entry) string {
	if e.Ingredient == nil {
		return w.palette.err("error: " + e.Error)
	}
	return w.palette.ingredient(*e.Ingredient)
}

func (w *Writer) encodeJSON(v any) error {
	encoder := json.NewEncoder(w.output)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(v); err != nil {
		return fmt.Errorf("failed to serialize to JSON: %w", err)
	}
	return nil
}

func (w *Writer) encodeYAML(v any) error {
	encoder := yaml.NewEncoder(w.output)
	encoder.SetIndent(2)
	if err := encoder.Encode(v); err != nil {
		return fmt.Errorf("failed to serialize to YAML: %w", err)
	}
	return encoder.Close()
}

// palette colors the pieces of a rendered ingredient. With color off every func is
// the identity and the output matches ingredient.FormatIngredient.
type palette struct {
	value    func(a ...any) string
	unit     func(a ...any) string
	name     func(a ...any) string
	modifier func(a ...any) string
	failure  func(a ...any) string
}

func newPalette(enabled bool) palette {
	if !enabled {
		return palette{value: fmt.Sprint, unit: fmt.Sprint, name: fmt.Sprint, modifier: fmt.Sprint, failure: fmt.Sprint}
	}
	sprint := func(attrs ...color.Attribute) func(a ...any) string {
		c := color.New(attrs...)
		c.EnableColor()
		return c.SprintFunc()
	}
	return palette{
		value:    sprint(color.FgGreen),
		unit:     sprint(color.FgYellow),
		name:     sprint(color.FgMagenta, color.Bold),
		modifier: sprint(color.FgRed, color.Italic),
		failure:  sprint(color.FgRed, color.Bold),
	}
}

func (p palette) amount(a ingredient.Amount) string {
	return p.value(ingredient.FormatValue(a.Value)) + " " + p.unit(a.Unit)
}

func (p palette) amounts(amounts []ingredient.Amount) string {
	if len(amounts) == 0 {
		return "n/a"
	}
	parts := make([]string, 0, len(amounts))
	for _, a := range amounts {
		parts = append(parts, p.amount(a))
	}
	return strings.Join(parts, " / ")
}

func (p palette) ingredient(i ingredient.Ingredient) string {
	s := p.amounts(i.Amounts) + " " + p.name(i.Name)
	if i.Modifier != nil {
		s += ", " + p.modifier(*i.Modifier)
	}
	return s
}

func (p palette) err(msg string) string {
	return p.failure(msg)
}
