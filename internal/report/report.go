// internal/report/report.go
// Package report joins the persisted benchmark and perplexity tables into
// per-model comparisons and renders them as standalone HTML charts.
package report

import (
	"fmt"

	"github.com/mwiater/quantbench/internal/results"
)

// ModelAggregate is the per-model reduction of the benchmark table: mean
// throughput and RAM across every persisted run of that model, plus the
// first-seen parameter count.
type ModelAggregate struct {
	Model      string
	Runs       int
	MeanTPS    float64
	MeanRAMMB  float64
	NumParamsB float64
}

// ComparisonRow is one model present in both tables.
type ComparisonRow struct {
	Model      string
	MeanTPS    float64
	MeanRAMMB  float64
	NumParamsB float64
	PPL        float64
}

// Aggregate groups benchmark rows by model label, in first-appearance
// order. Means are unweighted across rows, so re-benchmarked models count
// every historical run equally.
func Aggregate(rows []results.BenchmarkRow) []ModelAggregate {
	type acc struct {
		runs   int
		tpsSum float64
		ramSum float64
		params float64
	}

	byModel := make(map[string]*acc)
	var order []string
	for _, row := range rows {
		a, ok := byModel[row.Model]
		if !ok {
			a = &acc{params: row.NumParamsB}
			byModel[row.Model] = a
			order = append(order, row.Model)
		}
		a.runs++
		a.tpsSum += row.TPS
		a.ramSum += row.RuntimeRAMMB
	}

	aggs := make([]ModelAggregate, 0, len(order))
	for _, model := range order {
		a := byModel[model]
		aggs = append(aggs, ModelAggregate{
			Model:      model,
			Runs:       a.runs,
			MeanTPS:    a.tpsSum / float64(a.runs),
			MeanRAMMB:  a.ramSum / float64(a.runs),
			NumParamsB: a.params,
		})
	}
	return aggs
}

// Join inner-joins benchmark aggregates with perplexity rows on the model
// label, keeping aggregate order. When a model was scored more than once,
// the last-appended perplexity wins. A join with no overlap is an error:
// the charts would be empty.
func Join(aggs []ModelAggregate, ppls []results.PerplexityRow) ([]ComparisonRow, error) {
	pplByModel := make(map[string]float64, len(ppls))
	for _, p := range ppls {
		pplByModel[p.Model] = p.PPL
	}

	rows := make([]ComparisonRow, 0, len(aggs))
	for _, a := range aggs {
		ppl, ok := pplByModel[a.Model]
		if !ok {
			continue
		}
		rows = append(rows, ComparisonRow{
			Model:      a.Model,
			MeanTPS:    a.MeanTPS,
			MeanRAMMB:  a.MeanRAMMB,
			NumParamsB: a.NumParamsB,
			PPL:        ppl,
		})
	}

	if len(rows) == 0 {
		return nil, fmt.Errorf("benchmark and perplexity tables share no model labels")
	}
	return rows, nil
}
