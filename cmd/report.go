package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/jsphweid/midicomplexity/constants"
	"github.com/jsphweid/midicomplexity/model"
	"github.com/jsphweid/midicomplexity/report"
	"github.com/jsphweid/midicomplexity/util"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(reportCmd)
}

var reportCmd = &cobra.Command{
	Use:   "report [results.csv]...",
	Short: "Summarizes result files",
	Long:  `Summarizes result CSV files. Without arguments it reads all_complexity_results.csv from the output directory.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			args = []string{filepath.Join(constants.GetOutputDir(), constants.AllResultsFilename)}
		}
		var records []model.MetricsRecord
		for _, path := range args {
			rs, err := report.ReadCSVFile(path)
			if err != nil {
				return err
			}
			records = append(records, rs...)
		}
		printSummary(report.Summarize(records))
		return nil
	},
}

func printSummary(s report.Summary) {
	fmt.Printf("files: %v\n", s.Files)
	fmt.Printf("failed: %v\n", s.Failed)
	for _, name := range util.GetKeys(s.Datasets) {
		fmt.Printf("dataset %v: %v files\n", name, s.Datasets[name])
	}
	for _, m := range s.Metrics {
		fmt.Printf("%-24v mean=%.4f std=%.4f min=%.4f max=%.4f\n", m.Name, m.Mean, m.StdDev, m.Min, m.Max)
	}
}
