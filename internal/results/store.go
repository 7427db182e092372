// internal/results/store.go
// Package results persists benchmark and perplexity measurements as
// append-only CSV tables under the data directory.
package results

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/mwiater/quantbench/internal/logging"
)

const (
	benchmarksFile   = "results.csv"
	perplexitiesFile = "perplexity.csv"
)

var (
	benchmarkHeader  = []string{"Model", "PromptID", "Load_s", "Eval_s", "TPS", "OutputTokens", "RuntimeRAM_MB", "NumParams_B"}
	perplexityHeader = []string{"Model", "PPL"}
)

// BenchmarkRow is one prompt run of one model variant. Model is the
// variant label ("<name>.<QUANT>"), so rows from different quantizations
// of the same base model never collide.
type BenchmarkRow struct {
	Model        string
	PromptID     int
	LoadSeconds  float64
	EvalSeconds  float64
	TPS          float64
	OutputTokens int
	RuntimeRAMMB float64
	NumParamsB   float64
}

// PerplexityRow is one perplexity measurement of one model variant.
type PerplexityRow struct {
	Model string
	PPL   float64
}

// Store appends to and reads the CSV tables under a results directory.
// Tables are append-only: re-running a benchmark adds rows rather than
// replacing older ones.
type Store struct {
	Dir string
}

// NewStore returns a store rooted at dir.
func NewStore(dir string) Store {
	return Store{Dir: dir}
}

// BenchmarksPath returns the benchmark table location.
func (s Store) BenchmarksPath() string {
	return filepath.Join(s.Dir, benchmarksFile)
}

// PerplexitiesPath returns the perplexity table location.
func (s Store) PerplexitiesPath() string {
	return filepath.Join(s.Dir, perplexitiesFile)
}

// AppendBenchmarks appends rows to the benchmark table, writing the
// header first when the table is new.
func (s Store) AppendBenchmarks(rows []BenchmarkRow) error {
	if len(rows) == 0 {
		return nil
	}

	records := make([][]string, 0, len(rows))
	for _, r := range rows {
		records = append(records, []string{
			r.Model,
			strconv.Itoa(r.PromptID),
			formatFloat(r.LoadSeconds),
			formatFloat(r.EvalSeconds),
			formatFloat(r.TPS),
			strconv.Itoa(r.OutputTokens),
			formatFloat(r.RuntimeRAMMB),
			formatFloat(r.NumParamsB),
		})
	}
	return s.appendRecords(s.BenchmarksPath(), benchmarkHeader, records)
}

// AppendPerplexity appends a single perplexity measurement.
func (s Store) AppendPerplexity(row PerplexityRow) error {
	record := []string{row.Model, formatFloat(row.PPL)}
	return s.appendRecords(s.PerplexitiesPath(), perplexityHeader, [][]string{record})
}

func (s Store) appendRecords(path string, header []string, records [][]string) error {
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return fmt.Errorf("could not create results directory %q: %w", s.Dir, err)
	}

	needHeader := true
	if info, err := os.Stat(path); err == nil && info.Size() > 0 {
		needHeader = false
	}

	file, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("could not open %q: %w", path, err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	if needHeader {
		if err := writer.Write(header); err != nil {
			return fmt.Errorf("could not write header to %q: %w", path, err)
		}
	}
	for _, record := range records {
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("could not write row to %q: %w", path, err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("could not flush %q: %w", path, err)
	}
	return nil
}

// ReadBenchmarks loads every parsable row from the benchmark table. Rows
// that do not parse are skipped with a logged warning so one corrupt line
// cannot take down a whole report.
func (s Store) ReadBenchmarks() ([]BenchmarkRow, error) {
	records, err := s.readRecords(s.BenchmarksPath(), len(benchmarkHeader))
	if err != nil {
		return nil, err
	}

	rows := make([]BenchmarkRow, 0, len(records))
	for _, record := range records {
		row, err := parseBenchmarkRecord(record)
		if err != nil {
			logging.LogWarning("skipping %s row: %v", benchmarksFile, err)
			continue
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// ReadPerplexities loads every parsable row from the perplexity table.
func (s Store) ReadPerplexities() ([]PerplexityRow, error) {
	records, err := s.readRecords(s.PerplexitiesPath(), len(perplexityHeader))
	if err != nil {
		return nil, err
	}

	rows := make([]PerplexityRow, 0, len(records))
	for _, record := range records {
		ppl, err := strconv.ParseFloat(strings.TrimSpace(record[1]), 64)
		if err != nil {
			logging.LogWarning("skipping %s row: bad PPL %q", perplexitiesFile, record[1])
			continue
		}
		rows = append(rows, PerplexityRow{Model: record[0], PPL: ppl})
	}
	return rows, nil
}

// readRecords returns every data record with the expected field count,
// skipping the header line and logging anything malformed.
func (s Store) readRecords(path string, wantFields int) ([][]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("could not open %q: %w", path, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1

	var records [][]string
	line := 0
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				logging.LogWarning("skipping %s line %d: %v", filepath.Base(path), line, err)
				continue
			}
			return nil, fmt.Errorf("could not read %q: %w", path, err)
		}
		if line == 1 {
			continue // header
		}
		if len(record) != wantFields {
			logging.LogWarning("skipping %s line %d: expected %d fields, got %d", filepath.Base(path), line, wantFields, len(record))
			continue
		}
		records = append(records, record)
	}
	return records, nil
}

func parseBenchmarkRecord(record []string) (BenchmarkRow, error) {
	var row BenchmarkRow
	row.Model = record[0]

	var err error
	if row.PromptID, err = strconv.Atoi(strings.TrimSpace(record[1])); err != nil {
		return BenchmarkRow{}, fmt.Errorf("bad PromptID %q", record[1])
	}
	if row.OutputTokens, err = strconv.Atoi(strings.TrimSpace(record[5])); err != nil {
		return BenchmarkRow{}, fmt.Errorf("bad OutputTokens %q", record[5])
	}

	floats := []struct {
		name string
		src  string
		dst  *float64
	}{
		{"Load_s", record[2], &row.LoadSeconds},
		{"Eval_s", record[3], &row.EvalSeconds},
		{"TPS", record[4], &row.TPS},
		{"RuntimeRAM_MB", record[6], &row.RuntimeRAMMB},
	}
	for _, f := range floats {
		v, err := strconv.ParseFloat(strings.TrimSpace(f.src), 64)
		if err != nil {
			return BenchmarkRow{}, fmt.Errorf("bad %s %q", f.name, f.src)
		}
		*f.dst = v
	}

	// NumParams_B is optional; older tables left it blank.
	if v := strings.TrimSpace(record[7]); v != "" {
		if row.NumParamsB, err = strconv.ParseFloat(v, 64); err != nil {
			return BenchmarkRow{}, fmt.Errorf("bad NumParams_B %q", record[7])
		}
	}
	return row, nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
