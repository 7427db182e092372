package report

import (
	"strings"
	"testing"
)

func TestRenderChartEmbedsPointsAndAxes(t *testing.T) {
	points := []chartPoint{
		{X: 30.5, Y: 15.2671, Label: "tiny.Q4_K_M"},
		{X: 12.25, Y: 10.5, Label: "tiny.F16"},
	}

	page, err := renderChart("Perplexity vs Throughput", "Lower is better.", "Mean tokens/sec", "Perplexity", points)
	if err != nil {
		t.Fatalf("renderChart: %v", err)
	}

	// Axis labels land in JS string context where html/template escapes
	// "/" to "\/", so assertions avoid slashes.
	for _, want := range []string{
		"<title>Perplexity vs Throughput</title>",
		"Mean tokens",
		"Perplexity",
		`"label":"tiny.Q4_K_M"`,
		`"x":30.5`,
		`"y":15.2671`,
		"chart.umd.min.js",
		"afterDatasetsDraw",
	} {
		if !strings.Contains(page, want) {
			t.Fatalf("rendered page is missing %q", want)
		}
	}
}

func TestChartPointBuilders(t *testing.T) {
	rows := []ComparisonRow{
		{Model: "tiny.F16", MeanTPS: 12, MeanRAMMB: 4000, NumParamsB: 1.1, PPL: 10},
		{Model: "tiny.Q2_K", MeanTPS: 48, MeanRAMMB: 900, NumParamsB: 1.1, PPL: 0}, // corrupt PPL
	}

	byFile := make(map[string][]chartPoint)
	for _, def := range chartDefs {
		byFile[def.File] = def.Points(rows)
	}

	if got := byFile["ppl_vs_tps.html"]; len(got) != 2 || got[0].X != 12 || got[0].Y != 10 {
		t.Fatalf("ppl_vs_tps points = %+v", got)
	}
	// A zero PPL cannot be inverted and must be dropped, not rendered as Inf.
	if got := byFile["inv_ppl_vs_ram.html"]; len(got) != 1 || got[0].X != 4000 || got[0].Y != 0.1 {
		t.Fatalf("inv_ppl_vs_ram points = %+v", got)
	}
	if got := byFile["ram_vs_params.html"]; len(got) != 2 || got[1].X != 1.1 || got[1].Y != 900 {
		t.Fatalf("ram_vs_params points = %+v", got)
	}
}
