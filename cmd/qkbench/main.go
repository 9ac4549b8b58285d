// Command qkbench runs a truncation-order sweep over three partition
// generating functions (partition_gf, distinct_parts_gf, odd_parts_gf) and
// renders the resulting timing and term-count data as two interactive
// go-echarts line charts, the same reporting shape as the teacher's PACS
// parameter sweeps.
package main

import (
	"flag"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"qkangaroo/session"
)

func usage() {
	fmt.Println(`usage: qkbench [options]

Sweeps the partition_gf, distinct_parts_gf and odd_parts_gf evaluations across
a range of truncation orders, recording series size and wall-clock time, and
renders the results as interactive HTML line charts.

Flags:
  -min-order  <int>     smallest truncation order swept (default: 10)
  -max-order  <int>     largest truncation order swept (default: 200)
  -step       <int>     step between swept orders (default: 10)
  -out        <string>  output HTML file (default: qkbench.html)`)
	os.Exit(1)
}

type sample struct {
	function  string
	order     int64
	termCount int
	elapsedUS int64
}

func runSweep(minOrder, maxOrder, step int64) []sample {
	var out []sample
	functions := []string{"partition_gf", "distinct_parts_gf", "odd_parts_gf"}
	for order := minOrder; order <= maxOrder; order += step {
		for _, fn := range functions {
			s := session.NewWithTruncOrder(order)
			start := time.Now()
			v, err := s.Call(fn)
			elapsed := time.Since(start)
			if err != nil {
				fmt.Fprintf(os.Stderr, "[warn] %s at order %d: %v\n", fn, order, err)
				continue
			}
			out = append(out, sample{
				function:  fn,
				order:     order,
				termCount: len(v.Series.Exponents()),
				elapsedUS: elapsed.Microseconds(),
			})
		}
	}
	return out
}

func buildChart(samples []sample, outPath string) error {
	page := components.NewPage().SetPageTitle("qkbench: q-series evaluation sweep")

	byFunc := map[string][]sample{}
	for _, s := range samples {
		byFunc[s.function] = append(byFunc[s.function], s)
	}
	names := make([]string, 0, len(byFunc))
	for name := range byFunc {
		names = append(names, name)
	}
	sort.Strings(names)

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: "Evaluation time vs. truncation order"}),
		charts.WithXAxisOpts(opts.XAxis{Name: "truncation order", Type: "value"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "time (us)", Type: "value"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
	)

	var orders []string
	if len(byFunc[names[0]]) > 0 {
		for _, s := range byFunc[names[0]] {
			orders = append(orders, fmt.Sprintf("%d", s.order))
		}
	}
	line.SetXAxis(orders)

	for _, name := range names {
		items := make([]opts.LineData, 0, len(byFunc[name]))
		for _, s := range byFunc[name] {
			items = append(items, opts.LineData{Value: s.elapsedUS})
		}
		line.AddSeries(name, items)
	}

	termLine := charts.NewLine()
	termLine.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: "Nonzero term count vs. truncation order"}),
		charts.WithXAxisOpts(opts.XAxis{Name: "truncation order", Type: "value"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "nonzero terms", Type: "value"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
	)
	termLine.SetXAxis(orders)
	for _, name := range names {
		items := make([]opts.LineData, 0, len(byFunc[name]))
		for _, s := range byFunc[name] {
			items = append(items, opts.LineData{Value: s.termCount})
		}
		termLine.AddSeries(name, items)
	}

	page.AddCharts(line, termLine)

	f, err := os.Create(outPath)
	if err != nil {
		return err
	}
	defer f.Close()
	return page.Render(f)
}

func main() {
	minOrder := flag.Int64("min-order", 10, "smallest truncation order swept")
	maxOrder := flag.Int64("max-order", 200, "largest truncation order swept")
	step := flag.Int64("step", 10, "step between swept orders")
	out := flag.String("out", "qkbench.html", "output HTML file")
	flag.Usage = usage
	flag.Parse()

	if *minOrder <= 0 || *maxOrder < *minOrder || *step <= 0 {
		fmt.Fprintln(os.Stderr, "invalid sweep bounds")
		usage()
	}

	samples := runSweep(*minOrder, *maxOrder, *step)
	if len(samples) == 0 {
		fmt.Fprintln(os.Stderr, "no samples collected")
		os.Exit(1)
	}

	if err := buildChart(samples, *out); err != nil {
		fmt.Fprintf(os.Stderr, "render error: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("wrote %s | %d samples across orders %d..%d step %d\n",
		*out, len(samples), *minOrder, *maxOrder, *step)
}
