// Copyright (c) 2025, NVIDIA CORPORATION.  All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package serializer

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"gopkg.in/yaml.v3"

	"github.com/zbs3d/logbundle/pkg/defaults"
)

// Serializer writes a value in some output format.
type Serializer interface {
	Serialize(ctx context.Context, v any) error
}

// Tabular is implemented by values that can be rendered as a table.
type Tabular interface {
	TableHeader() []string
	TableRows() [][]string
}

// Format is an output format.
type Format string

const (
	// FormatJSON outputs data in JSON format
	FormatJSON Format = "json"
	// FormatYAML outputs data in YAML format
	FormatYAML Format = "yaml"
	// FormatTable outputs data in table format
	FormatTable Format = "table"
)

// IsUnknown reports whether f is not a supported format.
func (f Format) IsUnknown() bool {
	switch f {
	case FormatJSON, FormatYAML, FormatTable:
		return false
	default:
		return true
	}
}

// SupportedFormats returns the supported format names.
func SupportedFormats() []string {
	return []string{
		string(FormatJSON),
		string(FormatYAML),
		string(FormatTable),
	}
}

// ParseFormat returns the Format named s.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	if f.IsUnknown() {
		return "", fmt.Errorf("unknown output format %q, supported: %s", s, strings.Join(SupportedFormats(), ", "))
	}
	return f, nil
}

// Writer serializes values to an io.Writer.
type Writer struct {
	format Format
	output io.Writer
	closer io.Closer
}

// NewWriter returns a Writer for output.
func NewWriter(format Format, output io.Writer) *Writer {
	return &Writer{
		format: format,
		output: output,
	}
}

// NewFileWriter creates path and returns a Writer for it. The caller must Close it.
func NewFileWriter(format Format, path string) (*Writer, error) {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, defaults.FilePerm)
	if err != nil {
		return nil, fmt.Errorf("failed to create output file: %w", err)
	}
	return &Writer{
		format: format,
		output: f,
		closer: f,
	}, nil
}

// Close closes the underlying file, if any.
func (w *Writer) Close() error {
	if w.closer != nil {
		return w.closer.Close()
	}
	return nil
}

// Serialize writes v in the writer's format.
func (w *Writer) Serialize(ctx context.Context, v any) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	switch w.format {
	case FormatJSON:
		enc := json.NewEncoder(w.output)
		enc.SetIndent("", "  ")
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("failed to serialize to JSON: %w", err)
		}
	case FormatYAML:
		enc := yaml.NewEncoder(w.output)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("failed to serialize to YAML: %w", err)
		}
		if err := enc.Close(); err != nil {
			return fmt.Errorf("failed to serialize to YAML: %w", err)
		}
	case FormatTable:
		t, ok := v.(Tabular)
		if !ok {
			return fmt.Errorf("%T cannot be rendered as a table", v)
		}
		return writeTable(w.output, t)
	default:
		return fmt.Errorf("unknown output format %q", w.format)
	}
	return nil
}

func writeTable(out io.Writer, t Tabular) error {
	header := t.TableHeader()
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(header, "\t"))

	dashes := make([]string, len(header))
	for i, h := range header {
		dashes[i] = strings.Repeat("-", len(h))
	}
	fmt.Fprintln(tw, strings.Join(dashes, "\t"))

	for _, row := range t.TableRows() {
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}
	if err := tw.Flush(); err != nil {
		return fmt.Errorf("failed to flush table: %w", err)
	}
	return nil
}
