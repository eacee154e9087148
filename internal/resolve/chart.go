package resolve

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/alnah/go-md2deck/internal/csvdata"
	"github.com/alnah/go-md2deck/internal/params"
	"github.com/alnah/go-md2deck/internal/tags"
)

// Chart defaults.
const (
	DefaultChartType   = "bar"
	DefaultChartHeight = "400"
	chartIDPrefix      = "chart"
)

// ChartSeries is one named dataset of a chart.
type ChartSeries struct {
	Label string    `json:"label"`
	Data  []float64 `json:"data"`
}

// ChartData is the labels/datasets payload handed to Chart.js.
type ChartData struct {
	Labels   []string      `json:"labels"`
	Datasets []ChartSeries `json:"datasets"`
}

// chartConfig mirrors the Chart.js configuration object.
type chartConfig struct {
	Type    string       `json:"type"`
	Data    ChartData    `json:"data"`
	Options chartOptions `json:"options"`
}

type chartOptions struct {
	Responsive          bool         `json:"responsive"`
	MaintainAspectRatio bool         `json:"maintainAspectRatio"`
	Plugins             chartPlugins `json:"plugins"`
}

type chartPlugins struct {
	Title chartTitle `json:"title"`
}

type chartTitle struct {
	Display bool   `json:"display"`
	Text    string `json:"text"`
}

// ChartResolver renders #chart tags as a Chart.js canvas fed from a CSV
// file. Column 0 supplies the labels; every other column becomes a series
// named after its header cell. Parameters: type (default "bar"), title,
// height (default 400).
type ChartResolver struct{}

// Resolve implements Resolver.
func (r *ChartResolver) Resolve(rc *Context, occ tags.Occurrence, p params.Set) (string, error) {
	table, err := rc.loadTable(occ.Primary)
	if err != nil {
		return "", err
	}

	title := p.Get("title", "")
	cfg := chartConfig{
		Type: p.Get("type", DefaultChartType),
		Data: BuildChartData(table),
		Options: chartOptions{
			Responsive:          true,
			MaintainAspectRatio: false,
			Plugins: chartPlugins{
				Title: chartTitle{Display: title != "", Text: title},
			},
		},
	}

	cfgJSON, err := json.MarshalIndent(cfg, "  ", "  ")
	if err != nil {
		return "", fmt.Errorf("encoding chart %s: %w", occ.Primary, err)
	}
	id := rc.IDs.Next(chartIDPrefix)
	idJSON, _ := json.Marshal(id)

	var b strings.Builder
	b.WriteString(`<div class="presentation-chart">` + "\n")
	fmt.Fprintf(&b, `  <canvas id="%s" height="%s"></canvas>`+"\n", attr(id), attr(p.Get("height", DefaultChartHeight)))
	b.WriteString("</div>\n<script>\n")
	fmt.Fprintf(&b, "  new Chart(document.getElementById(%s), %s);\n", idJSON, cfgJSON)
	b.WriteString("</script>")

	return b.String(), nil
}

// BuildChartData derives labels and series from a table. Cells that are not
// numbers, and cells missing from short rows, count as 0.
func BuildChartData(table *csvdata.Table) ChartData {
	data := ChartData{
		Labels:   make([]string, 0, len(table.Rows)),
		Datasets: make([]ChartSeries, 0, max(len(table.Header)-1, 0)),
	}

	for i := range table.Rows {
		data.Labels = append(data.Labels, table.Cell(i, 0))
	}

	for col := 1; col < len(table.Header); col++ {
		series := ChartSeries{
			Label: table.Header[col],
			Data:  make([]float64, 0, len(table.Rows)),
		}
		for i := range table.Rows {
			series.Data = append(series.Data, parseNumber(table.Cell(i, col)))
		}
		data.Datasets = append(data.Datasets, series)
	}

	return data
}

// parseNumber converts a cell to a float, coercing anything that is not a
// finite number to 0.
func parseNumber(s string) float64 {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
