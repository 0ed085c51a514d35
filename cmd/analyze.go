package cmd

import (
	"os"

	"github.com/jsphweid/midicomplexity/model"
	"github.com/jsphweid/midicomplexity/report"
	"github.com/spf13/cobra"
)

var (
	analyzeOpts    analyzerFlags
	analyzeDataset string
	analyzeCSV     bool
)

func init() {
	analyzeOpts.register(analyzeCmd)
	analyzeCmd.Flags().StringVar(&analyzeDataset, "dataset", "", "dataset name recorded on each row")
	analyzeCmd.Flags().BoolVar(&analyzeCSV, "csv", false, "print CSV instead of JSON")
	rootCmd.AddCommand(analyzeCmd)
}

var analyzeCmd = &cobra.Command{
	Use:   "analyze <file.mid>...",
	Short: "Analyzes MIDI files",
	Long:  `Analyzes the given MIDI files one after another and prints one record per file.`,
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := analyzeOpts.analyzer()
		if err != nil {
			return err
		}
		var records []model.MetricsRecord
		for _, path := range args {
			records = append(records, a.AnalyzeFile(cmd.Context(), path, analyzeDataset))
		}
		if analyzeCSV {
			return report.WriteCSV(os.Stdout, records)
		}
		return report.WriteJSON(os.Stdout, records)
	},
}
