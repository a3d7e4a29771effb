package report

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"isd-hardness/isd"
)

// Row is the machine-readable form of one sweep result.
type Row struct {
	Metric       string  `json:"metric"`
	Algorithm    string  `json:"algorithm"`
	Quantum      bool    `json:"quantum"`
	AlphabetSize int     `json:"alphabet_size"`
	CodeRate     float64 `json:"code_rate"`
	Weight       float64 `json:"weight"`
	OptLevelNum  int     `json:"opt_level_num"`
	ParamL       float64 `json:"param_l"`
	ParamP       float64 `json:"param_p"`
	CostLog2     float64 `json:"cost_log2"`
	CostLogQ     float64 `json:"cost_logq"`
	ElapsedSec   float64 `json:"elapsed_sec"`
	ConfigDigest string  `json:"config_digest,omitempty"`
}

// NewRow flattens a result. digest identifies the run configuration and may
// be empty.
func NewRow(r isd.Result, digest string) Row {
	return Row{
		Metric:       r.Metric.String(),
		Algorithm:    r.Algorithm.String(),
		Quantum:      r.Quantum,
		AlphabetSize: r.AlphabetSize,
		CodeRate:     r.CodeRate,
		Weight:       r.Weight,
		OptLevelNum:  r.OptLevelNum,
		ParamL:       r.ParamL,
		ParamP:       r.ParamP,
		CostLog2:     r.Cost,
		CostLogQ:     CostLogQ(r),
		ElapsedSec:   r.Elapsed.Seconds(),
		ConfigDigest: digest,
	}
}

var csvHeader = []string{
	"metric", "algorithm", "quantum", "alphabet_size", "code_rate", "weight",
	"opt_level_num", "param_l", "param_p", "cost_log2", "cost_logq", "elapsed_sec",
}

func (r Row) record() []string {
	f := func(v float64) string { return strconv.FormatFloat(v, 'f', 6, 64) }
	return []string{
		r.Metric,
		r.Algorithm,
		strconv.FormatBool(r.Quantum),
		strconv.Itoa(r.AlphabetSize),
		f(r.CodeRate),
		f(r.Weight),
		strconv.Itoa(r.OptLevelNum),
		f(r.ParamL),
		f(r.ParamP),
		f(r.CostLog2),
		f(r.CostLogQ),
		strconv.FormatFloat(r.ElapsedSec, 'f', 3, 64),
	}
}

// Writer streams rows to an optional CSV file and an optional JSONL file.
// A Writer with neither path set accepts and drops every row.
type Writer struct {
	digest   string
	csv      *csv.Writer
	csvFile  *os.File
	jsonEnc  *json.Encoder
	jsonFile *os.File
	wroteHdr bool
}

// NewWriter creates the files named by csvPath and jsonPath; an empty path
// disables that output.
func NewWriter(csvPath, jsonPath, digest string) (*Writer, error) {
	w := &Writer{digest: digest}
	if csvPath != "" {
		f, err := create(csvPath)
		if err != nil {
			return nil, err
		}
		w.csvFile = f
		w.csv = csv.NewWriter(f)
	}
	if jsonPath != "" {
		f, err := create(jsonPath)
		if err != nil {
			_ = w.Close()
			return nil, err
		}
		w.jsonFile = f
		w.jsonEnc = json.NewEncoder(f)
	}
	return w, nil
}

func create(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	return os.Create(path)
}

// Write implements isd.Sink. CSV rows are flushed immediately.
func (w *Writer) Write(res isd.Result) error {
	row := NewRow(res, w.digest)
	if w.csv != nil {
		if !w.wroteHdr {
			if err := w.csv.Write(csvHeader); err != nil {
				return err
			}
			w.wroteHdr = true
		}
		if err := w.csv.Write(row.record()); err != nil {
			return err
		}
		w.csv.Flush()
		if err := w.csv.Error(); err != nil {
			return err
		}
	}
	if w.jsonEnc != nil {
		if err := w.jsonEnc.Encode(row); err != nil {
			return err
		}
	}
	return nil
}

// Close flushes and closes both files.
func (w *Writer) Close() error {
	if w == nil {
		return nil
	}
	var errs []error
	if w.csv != nil {
		w.csv.Flush()
		errs = append(errs, w.csv.Error())
	}
	if w.csvFile != nil {
		errs = append(errs, w.csvFile.Close())
	}
	if w.jsonFile != nil {
		errs = append(errs, w.jsonFile.Close())
	}
	return errors.Join(errs...)
}

// ReadJSONL decodes rows written by Writer. Blank lines are skipped; a
// malformed line is an error naming its line number.
func ReadJSONL(r io.Reader) ([]Row, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64<<10), 4<<20)
	var rows []Row
	line := 0
	for sc.Scan() {
		line++
		b := bytes.TrimSpace(sc.Bytes())
		if len(b) == 0 {
			continue
		}
		var row Row
		if err := json.Unmarshal(b, &row); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		rows = append(rows, row)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return rows, nil
}

// ReadJSONLFile is ReadJSONL on a file.
func ReadJSONLFile(path string) ([]Row, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	rows, err := ReadJSONL(f)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return rows, nil
}

// Tee fans each result out to every sink in order and stops at the first
// error.
func Tee(sinks ...isd.Sink) isd.Sink {
	return isd.SinkFunc(func(r isd.Result) error {
		for _, s := range sinks {
			if err := s.Write(r); err != nil {
				return err
			}
		}
		return nil
	})
}
