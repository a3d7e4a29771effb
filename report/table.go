package report

import (
	"fmt"
	"math"
	"os"
	"path/filepath"

	"isd-hardness/isd"
)

// TableHeader is the first line of every results table.
const TableHeader = "alphabetSize codeRate weight optLevelNum paramL paramP runtime(log 2) runtime(log alphabetSize)"

// Table is the fixed-width results table. The file is truncated and the
// header written on creation; each row is appended by reopening the file, so
// rows already written survive a crash later in the sweep.
type Table struct {
	path string
}

// NewTable creates (or truncates) path and writes the header.
func NewTable(path string) (*Table, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}
	if err := os.WriteFile(path, []byte(TableHeader+"\n"), 0o644); err != nil {
		return nil, fmt.Errorf("create table: %w", err)
	}
	return &Table{path: path}, nil
}

// Path returns the file the table is written to.
func (t *Table) Path() string { return t.path }

// Write appends one row. It implements isd.Sink.
func (t *Table) Write(r isd.Result) error {
	f, err := os.OpenFile(t.path, os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open table: %w", err)
	}
	if _, err := f.WriteString(FormatRow(r) + "\n"); err != nil {
		_ = f.Close()
		return fmt.Errorf("append row q=%d: %w", r.AlphabetSize, err)
	}
	return f.Close()
}

// FormatRow renders r in the column layout of TableHeader.
func FormatRow(r isd.Result) string {
	return fmt.Sprintf("%03d          %.3f    %.3f  %03d         %.3f  %.3f  %.3f                     %.3f",
		r.AlphabetSize,
		r.CodeRate,
		r.Weight,
		r.OptLevelNum,
		r.ParamL,
		r.ParamP,
		r.Cost,
		CostLogQ(r),
	)
}

// CostLogQ is the cost exponent in base alphabetSize.
func CostLogQ(r isd.Result) float64 {
	return r.Cost / math.Log2(float64(r.AlphabetSize))
}

// DefaultTablePath is results.txt, or results_quantum.txt for the quantum
// model.
func DefaultTablePath(quantum bool) string {
	if quantum {
		return "results_quantum.txt"
	}
	return "results.txt"
}
