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
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

type sample struct {
	Name  string `json:"name" yaml:"name"`
	Count int    `json:"count" yaml:"count"`
}

func (s sample) TableHeader() []string { return []string{"NAME", "COUNT"} }

func (s sample) TableRows() [][]string { return [][]string{{s.Name, "3"}} }

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{in: "json", want: FormatJSON},
		{in: "YAML", want: FormatYAML},
		{in: " table ", want: FormatTable},
		{in: "xml", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormat(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestWriter_Serialize(t *testing.T) {
	v := sample{Name: "klippy.log", Count: 3}

	t.Run("json", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, NewWriter(FormatJSON, &buf).Serialize(context.Background(), v))
		var got sample
		require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
		assert.Equal(t, v, got)
	})

	t.Run("yaml", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, NewWriter(FormatYAML, &buf).Serialize(context.Background(), v))
		assert.Equal(t, "name: klippy.log\ncount: 3\n", buf.String())
		var got sample
		require.NoError(t, yaml.Unmarshal(buf.Bytes(), &got))
		assert.Equal(t, v, got)
	})

	t.Run("table", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, NewWriter(FormatTable, &buf).Serialize(context.Background(), v))
		assert.Equal(t, "NAME        COUNT\n----        -----\nklippy.log  3\n", buf.String())
	})

	t.Run("table unsupported", func(t *testing.T) {
		var buf bytes.Buffer
		err := NewWriter(FormatTable, &buf).Serialize(context.Background(), map[string]int{"a": 1})
		assert.Error(t, err)
	})

	t.Run("canceled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		err := NewWriter(FormatJSON, &bytes.Buffer{}).Serialize(ctx, v)
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestNewFileWriter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.json")
	w, err := NewFileWriter(FormatJSON, path)
	require.NoError(t, err)
	require.NoError(t, w.Serialize(context.Background(), sample{Name: "a"}))
	require.NoError(t, w.Close())

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"a","count":0}`, string(b))

	_, err = NewFileWriter(FormatJSON, filepath.Join(t.TempDir(), "missing", "report.json"))
	assert.Error(t, err)
}
