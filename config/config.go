// Package config holds the YAML run configuration of a hardness sweep.
package config

import (
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"

	"golang.org/x/crypto/sha3"
	"gopkg.in/yaml.v3"

	"isd-hardness/isd"
	"isd-hardness/report"
	"isd-hardness/space"
)

// DefaultAlphabetSizes is the sweep run when no sizes are configured.
var DefaultAlphabetSizes = []int{3, 5, 7, 13, 23, 31, 43, 83, 163, 331, 643}

// Run is one sweep: what to estimate, how precisely and where to write it.
type Run struct {
	Metric        string  `yaml:"metric"`
	Algorithm     string  `yaml:"algorithm"`
	Quantum       bool    `yaml:"quantum"`
	Tol           float64 `yaml:"tol"`
	Epsilon       float64 `yaml:"epsilon"`
	AlphabetSizes []int   `yaml:"alphabet_sizes"`
	// Parallelism bounds how many alphabet sizes run at once.
	Parallelism int    `yaml:"parallelism"`
	FailFast    bool   `yaml:"fail_fast"`
	Output      Output `yaml:"output"`
}

// Output names the result files. Empty CSV, JSONL and Chart paths disable
// that output; an empty Table selects results.txt or results_quantum.txt.
type Output struct {
	Table string `yaml:"table"`
	CSV   string `yaml:"csv"`
	JSONL string `yaml:"jsonl"`
	Chart string `yaml:"chart"`
}

// Default is a classical Prange sweep over the Hamming metric.
func Default() Run {
	d := isd.DefaultConfig()
	return Run{
		Metric:        space.Hamming.String(),
		Algorithm:     isd.Prange.String(),
		Quantum:       d.Quantum,
		Tol:           d.Tol,
		Epsilon:       d.Epsilon,
		AlphabetSizes: append([]int(nil), DefaultAlphabetSizes...),
		Parallelism:   1,
	}
}

// Load decodes YAML over Default and validates the result. Unknown keys are
// rejected; an empty document yields the defaults.
func Load(r io.Reader) (Run, error) {
	c := Default()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&c); err != nil && !errors.Is(err, io.EOF) {
		return Run{}, fmt.Errorf("decode config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return Run{}, fmt.Errorf("invalid config: %w", err)
	}
	return c, nil
}

// LoadFile is Load on the file at path.
func LoadFile(path string) (Run, error) {
	f, err := os.Open(path)
	if err != nil {
		return Run{}, fmt.Errorf("open config file: %w", err)
	}
	defer f.Close()
	return Load(f)
}

// Validate checks every field. Errors match isd.ErrInvalidDomain.
func (c Run) Validate() error {
	if _, err := space.ParseMetric(c.Metric); err != nil {
		return err
	}
	if _, err := isd.ParseAlgorithm(c.Algorithm); err != nil {
		return err
	}
	if err := c.ISD().Validate(); err != nil {
		return err
	}
	if len(c.AlphabetSizes) == 0 {
		return fmt.Errorf("%w: alphabet_sizes is empty", isd.ErrInvalidDomain)
	}
	for _, q := range c.AlphabetSizes {
		if q < 2 {
			return fmt.Errorf("%w: alphabet size %d must be >= 2", isd.ErrInvalidDomain, q)
		}
	}
	if c.Parallelism < 0 {
		return fmt.Errorf("%w: parallelism must be >= 0, got %d", isd.ErrInvalidDomain, c.Parallelism)
	}
	return nil
}

// ISD returns the model configuration.
func (c Run) ISD() isd.Config {
	return isd.Config{Quantum: c.Quantum, Tol: c.Tol, Epsilon: c.Epsilon}
}

// Target parses the metric and algorithm names.
func (c Run) Target() (space.Metric, isd.Algorithm, error) {
	m, err := space.ParseMetric(c.Metric)
	if err != nil {
		return 0, 0, err
	}
	alg, err := isd.ParseAlgorithm(c.Algorithm)
	if err != nil {
		return 0, 0, err
	}
	return m, alg, nil
}

// TablePath is Output.Table, or the default name for the cost model.
func (c Run) TablePath() string {
	if c.Output.Table != "" {
		return c.Output.Table
	}
	return report.DefaultTablePath(c.Quantum)
}

// Digest fingerprints the settings that determine the numbers: two runs with
// equal digests produce equal rows. Output paths and parallelism are left
// out.
func (c Run) Digest() (string, error) {
	key := struct {
		Metric        string  `yaml:"metric"`
		Algorithm     string  `yaml:"algorithm"`
		Quantum       bool    `yaml:"quantum"`
		Tol           float64 `yaml:"tol"`
		Epsilon       float64 `yaml:"epsilon"`
		AlphabetSizes []int   `yaml:"alphabet_sizes"`
	}{c.Metric, c.Algorithm, c.Quantum, c.Tol, c.Epsilon, c.AlphabetSizes}
	if m, alg, err := c.Target(); err == nil {
		key.Metric, key.Algorithm = m.String(), alg.String()
	}
	b, err := yaml.Marshal(key)
	if err != nil {
		return "", fmt.Errorf("digest: %w", err)
	}
	sum := sha3.Sum256(b)
	return hex.EncodeToString(sum[:16]), nil
}

// Marshal renders c as YAML.
func (c Run) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}
