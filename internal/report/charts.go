// internal/report/charts.go
package report

// chartDef describes one rendered chart: its output file, its axis
// labels, and how joined rows become points.
type chartDef struct {
	File     string
	Title    string
	Subtitle string
	XLabel   string
	YLabel   string
	Points   func(rows []ComparisonRow) []chartPoint
}

var chartDefs = []chartDef{
	{
		File:     "ppl_vs_tps.html",
		Title:    "Perplexity vs Throughput",
		Subtitle: "Down and to the right is better: lower perplexity at higher speed.",
		XLabel:   "Mean tokens/sec",
		YLabel:   "Perplexity",
		Points: func(rows []ComparisonRow) []chartPoint {
			points := make([]chartPoint, 0, len(rows))
			for _, r := range rows {
				points = append(points, chartPoint{X: r.MeanTPS, Y: r.PPL, Label: r.Model})
			}
			return points
		},
	},
	{
		File:     "inv_ppl_vs_ram.html",
		Title:    "Quality vs Runtime RAM",
		Subtitle: "Up and to the left is better: more quality (1/PPL) from less memory.",
		XLabel:   "Mean runtime RAM (MB)",
		YLabel:   "1 / Perplexity",
		Points: func(rows []ComparisonRow) []chartPoint {
			points := make([]chartPoint, 0, len(rows))
			for _, r := range rows {
				// 1/PPL is undefined at zero; only a hand-edited table
				// gets here.
				if r.PPL <= 0 {
					continue
				}
				points = append(points, chartPoint{X: r.MeanRAMMB, Y: 1 / r.PPL, Label: r.Model})
			}
			return points
		},
	},
	{
		File:     "ram_vs_params.html",
		Title:    "Runtime RAM vs Parameters",
		Subtitle: "Memory footprint against model size.",
		XLabel:   "Parameters (B)",
		YLabel:   "Mean runtime RAM (MB)",
		Points: func(rows []ComparisonRow) []chartPoint {
			points := make([]chartPoint, 0, len(rows))
			for _, r := range rows {
				points = append(points, chartPoint{X: r.NumParamsB, Y: r.MeanRAMMB, Label: r.Model})
			}
			return points
		},
	},
}
