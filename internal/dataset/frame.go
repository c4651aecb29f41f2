package dataset

import (
	"errors"
	"fmt"
	"math"
	"path"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Kind is the storage kind of a column.
type Kind string

const (
	KindByte   Kind = "byte"
	KindInt    Kind = "int"
	KindDouble Kind = "double"
)

// Byte columns hold integers in the same range a Stata byte does.
const (
	minByte = -127
	maxByte = 100
)

var (
	// ErrUnknownColumn is returned when a column name does not exist.
	ErrUnknownColumn = errors.New("unknown column")

	// ErrColumnExists is returned when creating a column whose name is taken.
	ErrColumnExists = errors.New("column already exists")

	// ErrRowOutOfRange is returned for row positions outside [0, RowCount).
	ErrRowOutOfRange = errors.New("row out of range")

	// ErrInvalidValue is returned when a value does not fit the column kind.
	ErrInvalidValue = errors.New("invalid value for column kind")
)

// Missing is the value stored for a missing cell.
var Missing = math.NaN()

// IsMissing reports whether v is the missing value.
func IsMissing(v float64) bool {
	return math.IsNaN(v)
}

// ParseKind converts a stored kind name back into a Kind.
func ParseKind(s string) (Kind, error) {
	switch Kind(s) {
	case KindByte, KindInt, KindDouble:
		return Kind(s), nil
	}
	return "", fmt.Errorf("unknown column kind %q", s)
}

// accepts reports whether v can be stored in a column of kind k.
func (k Kind) accepts(v float64) bool {
	if IsMissing(v) || k == KindDouble {
		return true
	}
	if math.IsInf(v, 0) || v != math.Trunc(v) {
		return false
	}
	if k == KindByte {
		return v >= minByte && v <= maxByte
	}
	return true
}

// NormalizeName trims and NFC-normalizes a column name.
func NormalizeName(name string) string {
	return norm.NFC.String(strings.TrimSpace(name))
}

// Column is one named column of a Frame.
type Column struct {
	Name   string
	Kind   Kind
	Label  string
	Values []float64
}

// Frame is an in-memory columnar table.
type Frame struct {
	rows        int
	columns     []*Column
	index       map[string]int
	valueLabels map[string]map[int]string
	sortKey     []string
}

// New creates an empty frame with the given number of rows.
func New(rows int) *Frame {
	if rows < 0 {
		rows = 0
	}
	return &Frame{
		rows:        rows,
		index:       make(map[string]int),
		valueLabels: make(map[string]map[int]string),
	}
}

// RowCount returns the number of observations.
func (f *Frame) RowCount() int {
	return f.rows
}

// Names returns the column names in storage order.
func (f *Frame) Names() []string {
	names := make([]string, len(f.columns))
	for i, c := range f.columns {
		names[i] = c.Name
	}
	return names
}

// HasColumn reports whether the named column exists.
func (f *Frame) HasColumn(name string) bool {
	_, ok := f.index[NormalizeName(name)]
	return ok
}

// Column returns the named column. The returned column shares storage with
// the frame and must not be modified by the caller.
func (f *Frame) Column(name string) (*Column, error) {
	i, ok := f.index[NormalizeName(name)]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownColumn, name)
	}
	return f.columns[i], nil
}

// AddColumn appends a column with existing values. A nil slice creates a
// zero-filled column.
func (f *Frame) AddColumn(name string, kind Kind, values []float64) error {
	name = NormalizeName(name)
	if name == "" {
		return fmt.Errorf("add column: empty name")
	}
	if _, ok := f.index[name]; ok {
		return fmt.Errorf("add column: %w: %q", ErrColumnExists, name)
	}
	if values == nil {
		values = make([]float64, f.rows)
	}
	if len(values) != f.rows {
		return fmt.Errorf("add column %q: got %d values, frame has %d rows", name, len(values), f.rows)
	}
	for row, v := range values {
		if !kind.accepts(v) {
			return fmt.Errorf("add column %q row %d: %w: %v (%s)", name, row, ErrInvalidValue, v, kind)
		}
	}
	f.index[name] = len(f.columns)
	f.columns = append(f.columns, &Column{Name: name, Kind: kind, Values: values})
	return nil
}

// CreateColumn creates a zero-initialized column.
func (f *Frame) CreateColumn(name string, kind Kind) error {
	return f.AddColumn(name, kind, nil)
}

// ReadNumeric returns the value of one cell.
func (f *Frame) ReadNumeric(column string, row int) (float64, error) {
	c, err := f.Column(column)
	if err != nil {
		return Missing, err
	}
	if row < 0 || row >= f.rows {
		return Missing, fmt.Errorf("read %q: %w: %d", c.Name, ErrRowOutOfRange, row)
	}
	return c.Values[row], nil
}

// IsMissing reports whether v is the missing value.
func (f *Frame) IsMissing(v float64) bool {
	return IsMissing(v)
}

// WriteCell stores one value. Writing into a column of the declared sort key
// clears the key, since the order can no longer be vouched for.
func (f *Frame) WriteCell(column string, row int, v float64) error {
	c, err := f.Column(column)
	if err != nil {
		return err
	}
	if row < 0 || row >= f.rows {
		return fmt.Errorf("write %q: %w: %d", c.Name, ErrRowOutOfRange, row)
	}
	if !c.Kind.accepts(v) {
		return fmt.Errorf("write %q row %d: %w: %v (%s)", c.Name, row, ErrInvalidValue, v, c.Kind)
	}
	c.Values[row] = v
	for _, k := range f.sortKey {
		if k == c.Name {
			f.sortKey = nil
			break
		}
	}
	return nil
}

// SetColumnLabel sets the variable label of a column.
func (f *Frame) SetColumnLabel(column, text string) error {
	c, err := f.Column(column)
	if err != nil {
		return err
	}
	c.Label = text
	return nil
}

// ColumnLabel returns the variable label of a column, or "".
func (f *Frame) ColumnLabel(column string) string {
	c, err := f.Column(column)
	if err != nil {
		return ""
	}
	return c.Label
}

// SetValueLabel attaches text to an integer code of a column.
func (f *Frame) SetValueLabel(column string, value int, text string) error {
	c, err := f.Column(column)
	if err != nil {
		return err
	}
	labels, ok := f.valueLabels[c.Name]
	if !ok {
		labels = make(map[int]string)
		f.valueLabels[c.Name] = labels
	}
	labels[value] = text
	return nil
}

// LookupValueLabel returns the label attached to value in column, if any.
func (f *Frame) LookupValueLabel(column string, value int) (string, bool) {
	labels, ok := f.valueLabels[NormalizeName(column)]
	if !ok {
		return "", false
	}
	text, ok := labels[value]
	return text, ok
}

// ValueLabels returns a copy of the value labels of a column.
func (f *Frame) ValueLabels(column string) map[int]string {
	out := make(map[int]string, len(f.valueLabels[NormalizeName(column)]))
	for v, text := range f.valueLabels[NormalizeName(column)] {
		out[v] = text
	}
	return out
}

// DeclaredSortKey returns the columns the rows are known to be sorted by.
func (f *Frame) DeclaredSortKey() []string {
	out := make([]string, len(f.sortKey))
	copy(out, f.sortKey)
	return out
}

// SetDeclaredSortKey restores a previously persisted sort key. The caller
// vouches for the order; use SortBy to establish it.
func (f *Frame) SetDeclaredSortKey(columns []string) error {
	key := make([]string, 0, len(columns))
	for _, name := range columns {
		c, err := f.Column(name)
		if err != nil {
			return fmt.Errorf("sort key: %w", err)
		}
		key = append(key, c.Name)
	}
	f.sortKey = key
	return nil
}

// DropColumn removes one column together with its value labels.
func (f *Frame) DropColumn(name string) error {
	name = NormalizeName(name)
	i, ok := f.index[name]
	if !ok {
		return fmt.Errorf("drop: %w: %q", ErrUnknownColumn, name)
	}
	f.columns = append(f.columns[:i], f.columns[i+1:]...)
	delete(f.valueLabels, name)
	f.reindex()

	for j, k := range f.sortKey {
		if k == name {
			f.sortKey = f.sortKey[:j]
			break
		}
	}
	return nil
}

// DropColumnsMatching removes every column whose name matches the glob
// pattern (path.Match syntax) and returns the dropped names in storage order.
// No match is not an error.
func (f *Frame) DropColumnsMatching(pattern string) ([]string, error) {
	if _, err := path.Match(pattern, ""); err != nil {
		return nil, fmt.Errorf("drop %q: %w", pattern, err)
	}

	var dropped []string
	for _, c := range f.columns {
		if ok, _ := path.Match(pattern, c.Name); ok {
			dropped = append(dropped, c.Name)
		}
	}
	for _, name := range dropped {
		if err := f.DropColumn(name); err != nil {
			return nil, err
		}
	}
	return dropped, nil
}

func (f *Frame) reindex() {
	f.index = make(map[string]int, len(f.columns))
	for i, c := range f.columns {
		f.index[c.Name] = i
	}
}
