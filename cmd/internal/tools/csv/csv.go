package csv

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/nathanhack/blockcodes/cmd/internal/tools"
	"github.com/spf13/cobra"
)

var OutputFile string
var Metric string

var CSVRun = func(cmd *cobra.Command, args []string) {
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

	err = Write(f, args, tools.Metric(Metric))
	if err != nil {
		fmt.Println(err)
	}
}

//Write writes one row per results file with a column per simulation point.
func Write(out io.Writer, resultFiles []string, metric tools.Metric) error {
	stats, points, err := tools.LoadAllResults(resultFiles)
	if err != nil {
		return err
	}

	w := csv.NewWriter(out)
	defer w.Flush()

	//first write headers
	header := []string{"Results File"}
	for _, p := range points {
		header = append(header, fmt.Sprintf("%v", p))
	}

	err = w.Write(header)
	if err != nil {
		return err
	}

	for i, s := range stats {
		record := make([]string, len(header))
		record[0] = strings.TrimSuffix(resultFiles[i], filepath.Ext(resultFiles[i]))

		for j, p := range points {
			v, has := s.Stats[p]
			if !has {
				continue
			}
			mean, err := metric.Mean(v)
			if err != nil {
				return err
			}
			record[j+1] = fmt.Sprintf("%v", mean)
		}

		err = w.Write(record)
		if err != nil {
			return err
		}
	}
	return nil
}
