package chart

import (
	"fmt"
	"io"
	"os"

	"github.com/nathanhack/blockcodes/cmd/internal/tools"
	"github.com/spf13/cobra"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
)

var OutputFile string
var Metric string

var ChartRun = func(cmd *cobra.Command, args []string) {
	if len(args) < 1 {
		fmt.Println("requires at least one RESULTS_JSON")
		return
	}

	f, err := os.Create(OutputFile)
	if err != nil {
		fmt.Println(err)
		return
	}
	defer f.Close()

	err = Render(f, args, tools.Metric(Metric))
	if err != nil {
		fmt.Println(err)
	}
}

//Render draws a bar chart with a series per results file.
func Render(w io.Writer, resultFiles []string, metric tools.Metric) error {
	// loop through all the results files and collect data needed for displaying
	stats, points, err := tools.LoadAllResults(resultFiles)
	if err != nil {
		return err
	}

	//now make the x axis values
	xnames := make([]string, 0, len(points))
	for _, p := range points {
		xnames = append(xnames, fmt.Sprint(p))
	}

	// create a new bar instance
	bar := charts.NewBar()
	// set some global options like Title/Legend/ToolTip or anything else
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:    "Results",
			Subtitle: fmt.Sprintf("Remaining %v error rate", metric),
			Left:     "20%",
		}),
		charts.WithLegendOpts(opts.Legend{Show: true,
			Orient: "vertical",
			Right:  "0",
			Top:    "top",
			Type:   "scroll",
		}),
		charts.WithXAxisOpts(opts.XAxis{
			Name:      "Channel",
			SplitLine: &opts.SplitLine{Show: true},
		}),
		charts.WithYAxisOpts(opts.YAxis{
			Name:      "Remaining Error",
			SplitLine: &opts.SplitLine{Show: true},
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: true}),
	)

	bar.SetXAxis(xnames)

	// Put data into instance
	for i, s := range stats {
		data, err := series(s, points, metric)
		if err != nil {
			return err
		}
		bar.AddSeries(resultFiles[i], data)
	}

	return bar.Render(w)
}

func series(stat *tools.SimulationStats, values []float64, metric tools.Metric) ([]opts.BarData, error) {
	results := make([]opts.BarData, len(values))
	null := opts.BarData{Value: nil}
	for i, v := range values {
		x, has := stat.Stats[v]
		if !has {
			results[i] = null
			continue
		}

		mean, err := metric.Mean(x)
		if err != nil {
			return nil, err
		}
		results[i] = opts.BarData{
			Value: mean,
		}
	}
	return results, nil
}
