// internal/report/html.go
package report

import (
	"bytes"
	"encoding/json"
	"html/template"
)

// chartPoint is one model on a scatter chart. Label is drawn above the
// point and echoed in the tooltip.
type chartPoint struct {
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Label string  `json:"label"`
}

type chartData struct {
	Title      string
	Subtitle   string
	XLabel     string
	YLabel     string
	PointsJSON template.JS
}

// renderChart renders one standalone scatter chart page. The payload is
// injected as JSON so the file works offline except for the Chart.js CDN.
func renderChart(title, subtitle, xLabel, yLabel string, points []chartPoint) (string, error) {
	payload, err := json.Marshal(points)
	if err != nil {
		return "", err
	}

	viewModel := chartData{
		Title:      title,
		Subtitle:   subtitle,
		XLabel:     xLabel,
		YLabel:     yLabel,
		PointsJSON: template.JS(payload),
	}

	var buf bytes.Buffer
	if err := chartTemplate.Execute(&buf, viewModel); err != nil {
		return "", err
	}
	return buf.String(), nil
}

var chartTemplate = template.Must(template.New("comparison-chart").Parse(chartTemplateHTML))

const chartTemplateHTML = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width, initial-scale=1">
  <title>{{ .Title }}</title>
  <style>
    :root {
      --primary: #334155;
      --secondary: #64748B;
      --accent: #3B82F6;
      --light: #F1F5F9;
      --background: #FFFFFF;
      --text: #0F172A;
      --border: #E2E8F0;
    }
    body {
      margin: 0;
      background-color: var(--light);
      color: var(--text);
      font-family: sans-serif;
    }
    .chart-card {
      background: var(--background);
      border: 1px solid var(--border);
      border-radius: 16px;
      box-shadow: 0 1px 3px rgba(15, 23, 42, 0.1);
      margin: 2rem auto;
      max-width: 960px;
      padding: 1.5rem;
    }
    .chart-title {
      font-size: 1.5rem;
      font-weight: 700;
      margin-bottom: 0.25rem;
    }
    .chart-subtitle {
      color: var(--secondary);
      margin-bottom: 1.5rem;
    }
    .chart-canvas {
      position: relative;
      height: 420px;
    }
  </style>
</head>
<body>
  <div class="chart-card">
    <div class="chart-title">{{ .Title }}</div>
    <div class="chart-subtitle">{{ .Subtitle }}</div>
    <div class="chart-canvas">
      <canvas id="comparisonChart" aria-label="{{ .Title }}" role="img"></canvas>
    </div>
  </div>

  <script src="https://cdn.jsdelivr.net/npm/chart.js@4.4.2/dist/chart.umd.min.js"></script>
  <script>
    var points = {{ .PointsJSON }};
    var xLabel = '{{ .XLabel }}';
    var yLabel = '{{ .YLabel }}';

    var labelPlugin = {
      id: 'modelLabels',
      afterDatasetsDraw: function(chart) {
        var ctx = chart.ctx;
        chart.data.datasets.forEach(function(dataset, datasetIndex) {
          var meta = chart.getDatasetMeta(datasetIndex);
          meta.data.forEach(function(element, index) {
            var point = points[index];
            if (!point || !point.label) {
              return;
            }
            ctx.fillStyle = '#0F172A';
            ctx.font = 'bold 11px sans-serif';
            ctx.textAlign = 'center';
            ctx.textBaseline = 'bottom';
            ctx.fillText(point.label, element.x, element.y - 12);
          });
        });
      }
    };

    new Chart(document.getElementById('comparisonChart'), {
      type: 'scatter',
      data: {
        datasets: [{
          data: points,
          pointRadius: 8,
          pointHoverRadius: 12,
          pointBackgroundColor: '#3B82F6',
          pointBorderColor: '#ffffff',
          pointBorderWidth: 2
        }]
      },
      options: {
        responsive: true,
        maintainAspectRatio: false,
        animation: false,
        scales: {
          x: {
            title: {
              display: true,
              text: xLabel,
              font: { size: 14, weight: 'bold' },
              color: '#64748B'
            },
            grid: { color: 'rgba(0, 0, 0, 0.05)' },
            ticks: { color: '#64748B' }
          },
          y: {
            title: {
              display: true,
              text: yLabel,
              font: { size: 14, weight: 'bold' },
              color: '#64748B'
            },
            grid: { color: 'rgba(0, 0, 0, 0.05)' },
            ticks: { color: '#64748B' }
          }
        },
        plugins: {
          legend: { display: false },
          tooltip: {
            callbacks: {
              title: function(items) {
                if (!items.length) {
                  return 'model';
                }
                var point = points[items[0].dataIndex] || {};
                return point.label || 'model';
              },
              label: function(context) {
                var point = context.raw || {};
                var x = typeof point.x === 'number' ? point.x.toFixed(2) : 'n/a';
                var y = typeof point.y === 'number' ? point.y.toFixed(4) : 'n/a';
                return [xLabel + ': ' + x, yLabel + ': ' + y];
              }
            }
          }
        }
      },
      plugins: [labelPlugin]
    });
  </script>
</body>
</html>
`
