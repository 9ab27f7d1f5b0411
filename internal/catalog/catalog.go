// Package catalog loads catalog metadata files and annotates their column
// types with nested-type information.
package catalog

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/leapstack-labs/coltype/pkg/core"
	"gopkg.in/yaml.v3"
)

// File is the on-disk catalog format, written as YAML or JSON.
type File struct {
	Tables []core.TableMetadata `yaml:"tables" json:"tables"`
}

// Load reads a YAML or JSON catalog file.
func Load(path string) ([]core.TableMetadata, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is user-provided
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file: %w", err)
	}
	tables, err := Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return tables, nil
}

// Decode reads a catalog document and validates its tables.
// Missing column positions default to the column's index in the file.
func Decode(r io.Reader) ([]core.TableMetadata, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog: %w", err)
	}

	var f File
	if trimmed := bytes.TrimSpace(data); len(trimmed) > 0 && trimmed[0] == '{' {
		dec := json.NewDecoder(bytes.NewReader(trimmed))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&f); err != nil {
			return nil, fmt.Errorf("failed to parse catalog JSON: %w", err)
		}
	} else {
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&f); err != nil {
			if errors.Is(err, io.EOF) {
				return nil, nil
			}
			return nil, fmt.Errorf("failed to parse catalog YAML: %w", err)
		}
	}

	for i := range f.Tables {
		t := &f.Tables[i]
		if err := validateTable(i, t); err != nil {
			return nil, err
		}
		if !hasPositions(t.Columns) {
			for j := range t.Columns {
				t.Columns[j].Position = j
			}
		}
	}
	return f.Tables, nil
}

func validateTable(i int, t *core.TableMetadata) error {
	t.Database = strings.ToLower(strings.TrimSpace(t.Database))
	switch {
	case t.Name == "":
		return fmt.Errorf("tables[%d]: name is required", i)
	case t.Database == "":
		return fmt.Errorf("table %q: database is required", t.Name)
	}
	seen := make(map[string]struct{}, len(t.Columns))
	for j, c := range t.Columns {
		if c.Name == "" {
			return fmt.Errorf("table %q: columns[%d]: name is required", t.Name, j)
		}
		if _, dup := seen[c.Name]; dup {
			return fmt.Errorf("table %q: duplicate column %q", t.Name, c.Name)
		}
		seen[c.Name] = struct{}{}
	}
	return nil
}

func hasPositions(cols []core.Column) bool {
	for _, c := range cols {
		if c.Position != 0 {
			return true
		}
	}
	return false
}
