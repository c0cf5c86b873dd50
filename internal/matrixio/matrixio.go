// Package matrixio reads and writes matrix documents in JSON or YAML.
//
// A document carries an element type and the matrix as a list of rows:
//
//	{"dtype": "int", "rows": [[1, 2], [3, 4]]}
package matrixio

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"github.com/iKaeru/MatrixMultiplication-ThreadingTasks/internal/matrix"
)

var (
	ErrUnknownFormat = errors.New("matrixio: unknown format")
	ErrUnknownDType  = errors.New("matrixio: unknown dtype")
	ErrNotInteger    = errors.New("matrixio: non-integer value in int matrix")
	ErrOutOfRange    = errors.New("matrixio: value out of int range")
)

// Format is a document encoding.
type Format string

const (
	JSON Format = "json"
	YAML Format = "yaml"
)

// ParseFormat accepts "json", "yaml" and "yml".
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "json":
		return JSON, nil
	case "yaml", "yml":
		return YAML, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
}

// FormatFromPath picks a format from the file extension.
func FormatFromPath(path string) (Format, error) {
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	return ParseFormat(ext)
}

// DType is the element type of a document.
type DType string

const (
	DTypeInt   DType = "int"
	DTypeFloat DType = "float"
)

// ParseDType accepts the canonical names plus a few common aliases.
func ParseDType(s string) (DType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "int", "integer", "int64":
		return DTypeInt, nil
	case "float", "double", "float64":
		return DTypeFloat, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownDType, s)
}

// Document is the serialised form of a matrix.
type Document struct {
	DType DType       `json:"dtype" yaml:"dtype"`
	Rows  [][]float64 `json:"rows" yaml:"rows"`
}

// FromMatrix converts m into a document of the given dtype.
func FromMatrix[T matrix.Number](dtype DType, m *matrix.Mat[T]) Document {
	doc := Document{DType: dtype, Rows: make([][]float64, m.R)}
	for i := range doc.Rows {
		row := make([]float64, m.C)
		for j, v := range m.Row(i) {
			row[j] = float64(v)
		}
		doc.Rows[i] = row
	}
	return doc
}

// Ints converts the document to an int matrix. Values must be integral.
func (d Document) Ints() (*matrix.Mat[int], error) {
	rows := make([][]int, len(d.Rows))
	for i, src := range d.Rows {
		row := make([]int, len(src))
		for j, v := range src {
			if v != math.Trunc(v) || math.IsInf(v, 0) {
				return nil, fmt.Errorf("%w: row %d col %d = %v", ErrNotInteger, i, j, v)
			}
			// float64(math.MinInt) is exact; its negation is one past MaxInt.
			if v < float64(math.MinInt) || v >= -float64(math.MinInt) {
				return nil, fmt.Errorf("%w: row %d col %d = %v", ErrOutOfRange, i, j, v)
			}
			row[j] = int(v)
		}
		rows[i] = row
	}
	return matrix.FromRows(rows)
}

// Floats converts the document to a float64 matrix.
func (d Document) Floats() (*matrix.Mat[float64], error) {
	return matrix.FromRows(d.Rows)
}

// Validate checks the dtype and that rows are rectangular.
func (d Document) Validate() error {
	if _, err := ParseDType(string(d.DType)); err != nil {
		return err
	}
	for _, row := range d.Rows {
		if len(row) != len(d.Rows[0]) {
			return matrix.ErrRagged
		}
	}
	return nil
}

// Decode reads one document from r.
func Decode(r io.Reader, f Format) (Document, error) {
	var doc Document
	switch f {
	case JSON:
		if err := json.NewDecoder(r).Decode(&doc); err != nil {
			return Document{}, fmt.Errorf("decode json: %w", err)
		}
	case YAML:
		if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
			return Document{}, fmt.Errorf("decode yaml: %w", err)
		}
	default:
		return Document{}, fmt.Errorf("%w: %q", ErrUnknownFormat, f)
	}
	if doc.DType == "" {
		doc.DType = DTypeFloat
	}
	dtype, err := ParseDType(string(doc.DType))
	if err != nil {
		return Document{}, err
	}
	doc.DType = dtype
	if err := doc.Validate(); err != nil {
		return Document{}, err
	}
	return doc, nil
}

// Encode writes doc to w.
func Encode(w io.Writer, doc Document, f Format) error {
	switch f {
	case JSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(doc)
	case YAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return err
		}
		return enc.Close()
	}
	return fmt.Errorf("%w: %q", ErrUnknownFormat, f)
}

// ReadFile decodes the document at path, choosing the format from its extension.
func ReadFile(path string) (Document, error) {
	f, err := FormatFromPath(path)
	if err != nil {
		return Document{}, err
	}
	file, err := os.Open(path)
	if err != nil {
		return Document{}, err
	}
	defer func() { _ = file.Close() }()
	doc, err := Decode(file, f)
	if err != nil {
		return Document{}, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}
