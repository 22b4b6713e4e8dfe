package metadata

import (
	"encoding/csv"
	"os"

	"github.com/pkg/errors"
)

var (
	ErrMissingColumn     = errors.New("column not found")
	ErrNoSamples         = errors.New("sample sheet has no samples")
	ErrDuplicateSampleID = errors.New("duplicate sample id")
	ErrEmptySampleID     = errors.New("empty sample id")
	ErrEmptyValue        = errors.New("empty metadata value")
)

// Pair is one (sample id, value) entry of a column.
type Pair struct {
	SampleID string
	Value    string
}

// Column is a categorical metadata column in sheet order.
type Column struct {
	Name  string
	pairs []Pair
	index map[string]int
}

// LoadColumn reads column name from the sample sheet at path.
func LoadColumn(path, name string) (*Column, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "unable to open sample sheet %s", path)
	}
	defer file.Close()

	rdr := csv.NewReader(file)
	rdr.Comma = '\t'
	rdr.Comment = '#'
	rows, err := rdr.ReadAll()
	if err != nil {
		return nil, errors.Wrapf(err, "unable to read sample sheet %s", path)
	}
	if len(rows) == 0 {
		return nil, errors.Wrap(ErrNoSamples, path)
	}

	header := rows[0]
	col := -1
	for idx, field := range header[1:] {
		if field == name {
			col = idx + 1
			break
		}
	}
	if col < 0 {
		return nil, errors.Wrapf(ErrMissingColumn, "%q in %s", name, path)
	}

	column := &Column{Name: name, index: make(map[string]int)}
	for _, row := range rows[1:] {
		id, value := row[0], row[col]
		if id == "" {
			return nil, errors.Wrapf(ErrEmptySampleID, "column %q", name)
		}
		if _, ok := column.index[id]; ok {
			return nil, errors.Wrap(ErrDuplicateSampleID, id)
		}
		if value == "" {
			return nil, errors.Wrapf(ErrEmptyValue, "sample %s, column %q", id, name)
		}
		column.index[id] = len(column.pairs)
		column.pairs = append(column.pairs, Pair{SampleID: id, Value: value})
	}
	if len(column.pairs) == 0 {
		return nil, errors.Wrap(ErrNoSamples, path)
	}

	return column, nil
}

// Pairs returns the column entries in sheet order.
func (c *Column) Pairs() []Pair { return c.pairs }

// Len returns the number of samples in the column.
func (c *Column) Len() int { return len(c.pairs) }

// Value returns the value recorded for a sample id.
func (c *Column) Value(id string) (string, bool) {
	idx, ok := c.index[id]
	if !ok {
		return "", false
	}

	return c.pairs[idx].Value, true
}
