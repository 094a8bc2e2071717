// Package dataloader reads the delimited sample tables written by the mesh
// post-processor, merges sharded tables and maps source column names onto the
// semantic field names used by the rest of mcwing.
package dataloader

import (
	"fmt"
	"math"
)

var identityFunc func([]float64) (float64, error) = func(d []float64) (float64, error) {
	if len(d) != 1 {
		return math.NaN(), fmt.Errorf("length of data is not 1")
	}
	return d[0], nil
}

// Dataset is a single table on disk.
type Dataset struct {
	Name     string // Identifier for the dataset, used in errors and logs
	Filename string // Path to the data file (includes filename)
	Format   Format // The format of the dataset
}

// Format reads a whole table from a file.
type Format interface {
	ReadTable(filename string) (*Table, error)
}

// FieldTransformer says which source columns are needed to build a field and
// how to combine them.
type FieldTransformer struct {
	InternalNames []string                         // Says which source columns need to be loaded
	Transformer   func([]float64) (float64, error) // Transforms the columns to the field value
}

// Field is one semantic column of a Schema. Optional fields are dropped when
// their source columns are absent instead of failing the load.
type Field struct {
	Name string
	*FieldTransformer
	Optional bool
}

// Rename returns a field that copies the source column unchanged.
func Rename(name, source string) Field {
	return Field{
		Name: name,
		FieldTransformer: &FieldTransformer{
			InternalNames: []string{source},
			Transformer:   identityFunc,
		},
	}
}

// Schema is an explicit mapping from source columns to semantic fields. With
// Strict set every source column must be consumed by some field.
type Schema struct {
	Fields []Field
	Strict bool
}

type plannedField struct {
	name string
	cols []int
	tr   func([]float64) (float64, error)
}

func (s Schema) plan(columns []string) ([]plannedField, error) {
	nameToCol := make(map[string]int, len(columns))
	for i, c := range columns {
		nameToCol[c] = i
	}
	used := make(map[string]bool, len(columns))
	plan := make([]plannedField, 0, len(s.Fields))
	for _, f := range s.Fields {
		if f.FieldTransformer == nil {
			return nil, fmt.Errorf("dataloader: field %q has no transformer", f.Name)
		}
		cols := make([]int, len(f.InternalNames))
		missing := ""
		for i, name := range f.InternalNames {
			idx, ok := nameToCol[name]
			if !ok {
				missing = name
				break
			}
			cols[i] = idx
		}
		if missing != "" {
			if f.Optional {
				continue
			}
			return nil, &MissingFieldError{Field: f.Name, Column: missing}
		}
		for _, name := range f.InternalNames {
			used[name] = true
		}
		tr := f.Transformer
		if tr == nil {
			tr = identityFunc
		}
		plan = append(plan, plannedField{name: f.Name, cols: cols, tr: tr})
	}
	if s.Strict {
		for _, c := range columns {
			if !used[c] {
				return nil, &UnmappedColumnError{Column: c}
			}
		}
	}
	return plan, nil
}

// Apply maps a source table onto the schema's fields, in schema order.
func (s Schema) Apply(t *Table) (*Table, error) {
	plan, err := s.plan(t.Columns)
	if err != nil {
		return nil, err
	}
	names := make([]string, len(plan))
	for j, p := range plan {
		names[j] = p.name
	}
	out := &Table{Columns: names, Rows: make([][]float64, len(t.Rows))}
	tmp := make([]float64, 0, 4)
	for i, row := range t.Rows {
		newRow := make([]float64, len(plan))
		for j, p := range plan {
			tmp = tmp[:0]
			for _, c := range p.cols {
				tmp = append(tmp, row[c])
			}
			newRow[j], err = p.tr(tmp)
			if err != nil {
				return nil, fmt.Errorf("dataloader: field %s, row %d: %w", p.name, i, err)
			}
		}
		out.Rows[i] = newRow
	}
	return out, nil
}

// LoadFromDataset reads one dataset and maps it through the schema.
func LoadFromDataset(schema Schema, dataset *Dataset) (*Table, error) {
	raw, err := dataset.Format.ReadTable(dataset.Filename)
	if err != nil {
		return nil, err
	}
	t, err := schema.Apply(raw)
	if err != nil {
		return nil, fmt.Errorf("dataset %s: %w", dataset.Name, err)
	}
	return t, nil
}
