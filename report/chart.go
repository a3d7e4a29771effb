package report

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
)

// seriesName groups rows of the same metric, algorithm and cost model.
func seriesName(r Row) string {
	name := r.Metric + "/" + r.Algorithm
	if r.Quantum {
		name += " (quantum)"
	}
	return name
}

type series struct {
	name string
	rows map[int]Row
}

func groupRows(rows []Row) ([]series, []int) {
	index := map[string]int{}
	var out []series
	seen := map[int]bool{}
	var sizes []int
	for _, r := range rows {
		name := seriesName(r)
		i, ok := index[name]
		if !ok {
			i = len(out)
			index[name] = i
			out = append(out, series{name: name, rows: map[int]Row{}})
		}
		out[i].rows[r.AlphabetSize] = r
		if !seen[r.AlphabetSize] {
			seen[r.AlphabetSize] = true
			sizes = append(sizes, r.AlphabetSize)
		}
	}
	sort.Ints(sizes)
	return out, sizes
}

func costChart(groups []series, sizes []int, title string) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:    title,
			Subtitle: "hardest-rate decoding cost, log2 per code length",
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Name: "alphabet size"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "runtime (log 2)", Type: "value"}),
		charts.WithToolboxOpts(opts.Toolbox{
			Show: opts.Bool(true),
			Feature: &opts.ToolBoxFeature{
				SaveAsImage: &opts.ToolBoxFeatureSaveAsImage{Show: opts.Bool(true)},
			},
		}),
	)
	labels := make([]string, len(sizes))
	for i, q := range sizes {
		labels[i] = strconv.Itoa(q)
	}
	bar.SetXAxis(labels)
	for _, g := range groups {
		items := make([]opts.BarData, len(sizes))
		for i, q := range sizes {
			r, ok := g.rows[q]
			if !ok {
				// echarts renders "-" as a gap.
				items[i] = opts.BarData{Value: "-"}
				continue
			}
			items[i] = opts.BarData{Value: round3(r.CostLog2)}
		}
		bar.AddSeries(g.name, items)
	}
	return bar
}

func rateChart(groups []series, sizes []int) *charts.Scatter {
	sc := charts.NewScatter()
	sc.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: "Hardest instances"}),
		charts.WithTooltipOpts(opts.Tooltip{
			Show:    opts.Bool(true),
			Trigger: "item",
			Formatter: opts.FuncOpts(`
function (p) {
  var v = p.value || [];
  return '<b>' + p.seriesName + '</b><br/>q=' + v[2] + '<br/>R=' + v[0] + ', w=' + v[1];
}`),
		}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Name: "code rate", Type: "value", Min: 0, Max: 1}),
		charts.WithYAxisOpts(opts.YAxis{Name: "weight", Type: "value", Min: 0, Max: 1}),
		charts.WithDataZoomOpts(
			opts.DataZoom{Type: "inside"},
			opts.DataZoom{Type: "slider"},
		),
	)
	for _, g := range groups {
		items := make([]opts.ScatterData, 0, len(g.rows))
		for _, q := range sizes {
			r, ok := g.rows[q]
			if !ok {
				continue
			}
			items = append(items, opts.ScatterData{Value: []interface{}{round3(r.CodeRate), round3(r.Weight), q}})
		}
		sc.AddSeries(g.name, items,
			charts.WithScatterChartOpts(opts.ScatterChart{Symbol: "circle", SymbolSize: 8}),
		)
	}
	return sc
}

func round3(v float64) float64 {
	f, _ := strconv.ParseFloat(strconv.FormatFloat(v, 'f', 3, 64), 64)
	return f
}

// RenderChart writes an HTML page with the cost per alphabet size and the
// location of every hardest instance. Rows of different metrics, algorithms
// or cost models become separate series.
func RenderChart(w io.Writer, rows []Row, title string) error {
	if len(rows) == 0 {
		return fmt.Errorf("render chart: no rows")
	}
	if title == "" {
		title = "ISD hardness"
	}
	groups, sizes := groupRows(rows)
	page := components.NewPage().SetPageTitle(title)
	page.AddCharts(costChart(groups, sizes, title), rateChart(groups, sizes))
	return page.Render(w)
}

// WriteChart renders rows into the HTML file at path.
func WriteChart(path string, rows []Row, title string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := RenderChart(f, rows, title); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
