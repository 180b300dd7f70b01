// Package report renders PNG charts from a run's CSV artifacts: the L1
// time series (spread, mid-price, depths, imbalance) and the latency
// histogram.
package report

import (
	"os"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	"fenrir/metrics"
)

// PlotSeries renders the four L1 charts into dir/figures and returns the
// chart-name → path map.
func PlotSeries(s metrics.Series, dir string) (map[string]string, error) {
	figs := filepath.Join(dir, "figures")
	if err := os.MkdirAll(figs, 0o755); err != nil {
		return nil, err
	}
	out := make(map[string]string, 4)

	charts := []struct {
		name  string
		title string
		yAxis string
		lines map[string][]float64
	}{
		{"spread", "Spread", "ticks", map[string][]float64{"spread": s.Spread}},
		{"midprice", "Mid-price", "ticks", map[string][]float64{"mid": s.Mid}},
		{"depths", "Top-of-book depth", "qty", map[string][]float64{"bid_depth": s.BidDepth, "ask_depth": s.AskDepth}},
		{"imbalance", "Order-flow imbalance", "imbalance", map[string][]float64{"imbalance": s.Imbalance}},
	}
	for _, c := range charts {
		path := filepath.Join(figs, c.name+".png")
		if err := lineChart(path, c.title, c.yAxis, s.Events, c.lines); err != nil {
			return nil, err
		}
		out[c.name] = path
	}
	return out, nil
}

// PlotLatencyHist renders a histogram of per-operation latencies.
func PlotLatencyHist(ns []int64, dir string) (string, error) {
	figs := filepath.Join(dir, "figures")
	if err := os.MkdirAll(figs, 0o755); err != nil {
		return "", err
	}

	vals := make(plotter.Values, len(ns))
	for i, v := range ns {
		vals[i] = float64(v)
	}

	p := plot.New()
	p.Title.Text = "Per-operation latency"
	p.X.Label.Text = "ns"
	p.Y.Label.Text = "count"

	h, err := plotter.NewHist(vals, 50)
	if err != nil {
		return "", err
	}
	p.Add(h)

	path := filepath.Join(figs, "latency_hist.png")
	if err := p.Save(8*vg.Inch, 4*vg.Inch, path); err != nil {
		return "", err
	}
	return path, nil
}

func lineChart(path, title, yAxis string, events []int64, lines map[string][]float64) error {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "event"
	p.Y.Label.Text = yAxis
	p.Legend.Top = true

	// Stable legend order regardless of map iteration.
	names := make([]string, 0, len(lines))
	for name := range lines {
		names = append(names, name)
	}
	if len(names) == 2 && names[0] > names[1] {
		names[0], names[1] = names[1], names[0]
	}

	for i, name := range names {
		ys := lines[name]
		xys := make(plotter.XYs, len(ys))
		for j, y := range ys {
			xys[j].X = float64(events[j])
			xys[j].Y = y
		}
		line, err := plotter.NewLine(xys)
		if err != nil {
			return err
		}
		line.Color = plotutil.Color(i)
		p.Add(line)
		p.Legend.Add(name, line)
	}
	return p.Save(8*vg.Inch, 4*vg.Inch, path)
}
