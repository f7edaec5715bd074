package cmd

import (
	"github.com/nathanhack/blockcodes/cmd/internal/tools"
	"github.com/nathanhack/blockcodes/cmd/internal/tools/bpsk"
	"github.com/nathanhack/blockcodes/cmd/internal/tools/bsc"
	"github.com/nathanhack/blockcodes/cmd/internal/tools/chart"
	"github.com/nathanhack/blockcodes/cmd/internal/tools/csv"

	"github.com/spf13/cobra"
)

// toolsCmd represents the tools command
var toolsCmd = &cobra.Command{
	Use:     "tools",
	Aliases: []string{"t"},
	Short:   "Tools for codes",
	Long:    `Tools for codes`,
}

// toolsChansimCmd represents the chansim command
var toolsChansimCmd = &cobra.Command{
	Use:     "chansim",
	Aliases: []string{"cs", "c"},
	Short:   "Channel simulators",
	Long:    `Channel simulators for codes made by create`,
}

// toolsBscCmd represents the bsc command
var toolsBscCmd = &cobra.Command{
	Use:   "bsc CODE_JSON RESULT_JSON",
	Short: "A binary symmetric channel simulator",
	Long:  `A binary symmetric channel simulator, every codeword bit is flipped with the crossover probability.`,
	Args:  cobra.ExactArgs(2),
	Run:   bsc.BscRun,
}

// toolsBpskCmd represents the bpsk command
var toolsBpskCmd = &cobra.Command{
	Use:   "bpsk CODE_JSON RESULT_JSON",
	Short: "A BPSK over AWGN channel simulator",
	Long:  `A BPSK over additive white gaussian noise channel simulator using hard decisions.`,
	Args:  cobra.ExactArgs(2),
	Run:   bpsk.BpskRun,
}

// toolsResultsCmd represents the results command
var toolsResultsCmd = &cobra.Command{
	Use:     "results",
	Aliases: []string{"r"},
	Short:   "A tool to organize results for graphing and comparison",
	Long:    `A tool to organize results for graphing and comparison`,
}

// toolsCSVCmd represents the csv command
var toolsCSVCmd = &cobra.Command{
	Use:     "csv RESULTS_JSON [RESULTS_JSON] ...",
	Aliases: []string{"c"},
	Short:   "Export to a CSV file",
	Long:    `Export to a CSV file`,
	Args:    cobra.MinimumNArgs(1),
	Run:     csv.CSVRun,
}

// toolsChartCmd represents the chart command
var toolsChartCmd = &cobra.Command{
	Use:     "chart RESULTS_JSON [RESULTS_JSON] ...",
	Aliases: []string{"ch"},
	Short:   "Export to a HTML bar chart",
	Long:    `Export to a HTML bar chart`,
	Args:    cobra.MinimumNArgs(1),
	Run:     chart.ChartRun,
}

func init() {
	rootCmd.AddCommand(toolsCmd)
	toolsCmd.AddCommand(toolsChansimCmd)
	toolsCmd.AddCommand(toolsResultsCmd)

	toolsChansimCmd.AddCommand(toolsBscCmd)
	toolsBscCmd.Flags().UintVarP(&bsc.Trials, "trials", "t", 100_000, "the number of trials per step")
	toolsBscCmd.Flags().Float64SliceVarP(&bsc.ErrorProbability, "probability", "p", []float64{0.01, 0.05, 0.10, 0.15, 0.20, 0.25, 0.30, 0.35, 0.40, 0.45, 0.50}, "probability of crossover errors to test [0, 0.5]")
	toolsBscCmd.Flags().UintVar(&bsc.Threads, "threads", 0, "number of threads to use (0 means to use the # of threads equal to the # of CPUs)")
	toolsBscCmd.Flags().BoolVarP(&bsc.Unique, "unique", "u", false, "decode with DecodeIfUnique and count the blocks it gives up on")
	toolsBscCmd.Flags().BoolVarP(&bsc.Verbose, "verbose", "v", false, "enable verbose info")

	toolsChansimCmd.AddCommand(toolsBpskCmd)
	toolsBpskCmd.Flags().UintVarP(&bpsk.Trials, "trials", "t", 100_000, "the number of trials per step")
	toolsBpskCmd.Flags().Float64SliceVarP(&bpsk.EbN0, "ebn0", "e", []float64{0.5, 1, 1.5, 2, 2.5, 3, 3.5, 4, 5, 6, 8}, "the E_b/N_0 ratios to test (>0)")
	toolsBpskCmd.Flags().UintVar(&bpsk.Threads, "threads", 0, "number of threads to use (0 means to use the # of threads equal to the # of CPUs)")
	toolsBpskCmd.Flags().BoolVarP(&bpsk.Unique, "unique", "u", false, "decode with DecodeIfUnique and count the blocks it gives up on")
	toolsBpskCmd.Flags().BoolVarP(&bpsk.Verbose, "verbose", "v", false, "enable verbose info")

	toolsResultsCmd.AddCommand(toolsCSVCmd)
	toolsCSVCmd.Flags().StringVarP(&csv.OutputFile, "output", "o", "results.csv", "filename of the combined csv")
	toolsCSVCmd.Flags().StringVarP(&csv.Metric, "metric", "m", string(tools.MessageError), "the statistic to output: message, block or uncorrectable")

	toolsResultsCmd.AddCommand(toolsChartCmd)
	toolsChartCmd.Flags().StringVarP(&chart.OutputFile, "output", "o", "results.html", "filename of the chart")
	toolsChartCmd.Flags().StringVarP(&chart.Metric, "metric", "m", string(tools.MessageError), "the statistic to chart: message, block or uncorrectable")
}
