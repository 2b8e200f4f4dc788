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

package file

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"regexp"
	"strings"
	"unicode/utf8"
)

// ErrNoMatch is returned by FirstMatch when no line matches.
var ErrNoMatch = errors.New("no matching line")

// Option configures a Parser.
type Option func(*Parser)

// Parser reads small text files line by line with customizable settings.
type Parser struct {
	delimiter    string
	maxSize      int
	skipComments bool
	trimSpace    bool
}

// WithDelimiter sets the delimiter used to split entries in the file.
// Default is newline ("\n").
func WithDelimiter(delim string) Option {
	return func(p *Parser) {
		p.delimiter = delim
	}
}

// WithMaxSize sets the maximum size (in bytes) of the file to be parsed.
// Default is 1MB.
func WithMaxSize(size int) Option {
	return func(p *Parser) {
		p.maxSize = size
	}
}

// WithSkipComments sets whether lines starting with "#" are dropped.
// Default is true.
func WithSkipComments(skip bool) Option {
	return func(p *Parser) {
		p.skipComments = skip
	}
}

// WithTrimSpace sets whether surrounding whitespace is removed from each line.
// Default is true. With trimming disabled, lines keep their leading whitespace
// and only the trailing carriage return is stripped.
func WithTrimSpace(trim bool) Option {
	return func(p *Parser) {
		p.trimSpace = trim
	}
}

// NewParser creates a new file parser with the provided options.
func NewParser(opts ...Option) *Parser {
	p := &Parser{
		delimiter:    "\n",
		maxSize:      1 << 20, // 1MB default
		skipComments: true,
		trimSpace:    true,
	}

	for _, opt := range opts {
		opt(p)
	}
	return p
}

// GetLines reads the file at path and splits it into non-empty lines.
// An error is returned if the file cannot be read, exceeds the maximum size,
// or contains invalid UTF-8 content.
func (p *Parser) GetLines(path string) ([]string, error) {
	if path == "" {
		return nil, fmt.Errorf("file path cannot be empty")
	}

	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %q: %w", path, err)
	}

	if len(b) > p.maxSize {
		return nil, fmt.Errorf("file %q exceeds maximum size of %d bytes", path, p.maxSize)
	}

	if !utf8.Valid(b) {
		return nil, fmt.Errorf("content of file %q is not valid UTF-8", path)
	}

	parts := strings.Split(string(b), p.delimiter)

	result := make([]string, 0, len(parts))
	for _, part := range parts {
		line := strings.TrimRight(part, "\r")
		if p.trimSpace {
			line = strings.TrimSpace(line)
		}
		if strings.TrimSpace(line) == "" {
			continue
		}

		if p.skipComments && strings.HasPrefix(strings.TrimSpace(line), "#") {
			continue
		}

		result = append(result, line)
	}

	return result, nil
}

// FirstMatch returns capture group 1 of re on the first line that starts
// with prefix and matches re. An empty prefix accepts every line.
// ErrNoMatch is returned when the file has no such line.
func (p *Parser) FirstMatch(path, prefix string, re *regexp.Regexp) (string, error) {
	if re.NumSubexp() < 1 {
		return "", fmt.Errorf("pattern %q has no capture group", re.String())
	}

	lines, err := p.GetLines(path)
	if err != nil {
		return "", err
	}

	for _, line := range lines {
		if !strings.HasPrefix(line, prefix) {
			continue
		}
		if m := re.FindStringSubmatch(line); m != nil {
			return m[1], nil
		}
		slog.Debug("line has marker but does not match pattern", "path", path, "line", line)
	}

	return "", ErrNoMatch
}
