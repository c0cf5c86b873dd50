package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/iKaeru/MatrixMultiplication-ThreadingTasks/internal/matmul"
	"github.com/iKaeru/MatrixMultiplication-ThreadingTasks/internal/matrixio"
)

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadOperandsAndMultiply(t *testing.T) {
	a := writeFile(t, "a.json", `{"dtype":"int","rows":[[1,2,3],[4,5,6],[7,8,9]]}`)
	b := writeFile(t, "b.yaml", "dtype: int\nrows:\n  - [1, 0]\n  - [1, 1]\n  - [0, 1]\n")

	docA, docB, err := loadOperands(context.Background(), a, b)
	if err != nil {
		t.Fatalf("loadOperands: %v", err)
	}
	var buf bytes.Buffer
	err = multiplyAndWrite(&buf, matmul.NaiveParallel, 2, "text", matrixio.DTypeInt, docA, docB, matrixio.Document.Ints)
	if err != nil {
		t.Fatalf("multiply: %v", err)
	}
	if got, want := buf.String(), "3 5\n9 11\n15 17\n"; got != want {
		t.Fatalf("output: got %q want %q", got, want)
	}
}

func TestLoadOperandsMissingFile(t *testing.T) {
	a := writeFile(t, "a.json", `{"rows":[[1]]}`)
	if _, _, err := loadOperands(context.Background(), a, filepath.Join(t.TempDir(), "nope.json")); err == nil {
		t.Fatal("expected error for missing operand file")
	}
}

func TestMultiplyAndWriteShapeMismatch(t *testing.T) {
	docA := matrixio.Document{DType: matrixio.DTypeFloat, Rows: [][]float64{{1, 2}}}
	docB := matrixio.Document{DType: matrixio.DTypeFloat, Rows: [][]float64{{1, 2}}}
	var buf bytes.Buffer
	if err := multiplyAndWrite(&buf, matmul.Reordered, 0, "json", matrixio.DTypeFloat, docA, docB, matrixio.Document.Floats); err == nil {
		t.Fatal("expected shape mismatch error")
	}
	if buf.Len() != 0 {
		t.Fatalf("nothing should be written on error, got %q", buf.String())
	}
}

func TestMultiplyAndWriteJSON(t *testing.T) {
	docA := matrixio.Document{DType: matrixio.DTypeFloat, Rows: [][]float64{{2}}}
	docB := matrixio.Document{DType: matrixio.DTypeFloat, Rows: [][]float64{{0.5, 4}}}
	var buf bytes.Buffer
	if err := multiplyAndWrite(&buf, matmul.ReorderedParallel, 0, "json", matrixio.DTypeFloat, docA, docB, matrixio.Document.Floats); err != nil {
		t.Fatalf("multiply: %v", err)
	}
	doc, err := matrixio.Decode(&buf, matrixio.JSON)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(doc.Rows) != 1 || doc.Rows[0][0] != 1 || doc.Rows[0][1] != 8 {
		t.Fatalf("unexpected product: %+v", doc)
	}
}

func TestDocumentFormat(t *testing.T) {
	if f, _ := documentFormat("", ""); f != matrixio.JSON {
		t.Fatalf("default: got %s", f)
	}
	if f, _ := documentFormat("", "out.yml"); f != matrixio.YAML {
		t.Fatalf("from path: got %s", f)
	}
	if f, _ := documentFormat("yaml", "out.json"); f != matrixio.YAML {
		t.Fatalf("explicit: got %s", f)
	}
	if _, err := documentFormat("csv", ""); err == nil {
		t.Fatal("expected error for unknown format")
	}
}
