package cmd

import (
	"path/filepath"

	"github.com/jsphweid/midicomplexity/batch"
	"github.com/jsphweid/midicomplexity/constants"
	"github.com/jsphweid/midicomplexity/db"
	"github.com/jsphweid/midicomplexity/file"
	"github.com/jsphweid/midicomplexity/model"
	"github.com/jsphweid/midicomplexity/report"
	"github.com/jsphweid/midicomplexity/util"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	batchOpts    analyzerFlags
	batchConfig  string
	batchDir     string
	batchDataset string
	batchOut     string
	batchWorkers int
	batchMax     int
	batchJSON    bool
	batchDynamo  bool
)

func init() {
	batchOpts.register(batchCmd)
	f := batchCmd.Flags()
	f.StringVar(&batchConfig, "config", constants.GetDatasetsConfig(), "datasets config JSON")
	f.StringVar(&batchDir, "dir", "", "analyze every MIDI file under this directory instead of a config")
	f.StringVar(&batchDataset, "dataset", "default", "dataset name used with --dir")
	f.StringVar(&batchOut, "out", constants.GetOutputDir(), "output directory")
	f.IntVar(&batchWorkers, "workers", 0, "concurrent files, 0 for one per CPU")
	f.IntVar(&batchMax, "max", 0, "at most this many files per dataset, 0 for all")
	f.BoolVar(&batchJSON, "json", false, "also write all_complexity_results.json")
	f.BoolVar(&batchDynamo, "dynamo", false, "also store results in DynamoDB")
	rootCmd.AddCommand(batchCmd)
}

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Analyzes datasets",
	Long:  `Analyzes every MIDI file of the configured datasets on a worker pool and writes per-dataset and combined CSV files.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		datasets, err := batchDatasets()
		if err != nil {
			return err
		}
		a, err := batchOpts.analyzer()
		if err != nil {
			return err
		}

		var jobs []model.Job
		for _, d := range datasets {
			paths, err := util.GatherAllMidiPaths(d.Path, batchMax)
			if err != nil {
				return err
			}
			log := logrus.WithField("dataset", d.Name)
			if d.Count > 0 && d.Count != len(paths) && batchMax == 0 {
				log.Warnf("Expected %v files, found %v", d.Count, len(paths))
			}
			log.Infof("Found %v midi files in %v", len(paths), d.Path)
			jobs = append(jobs, file.CreateJobs(d.Name, paths, uint32(len(jobs)))...)
		}

		runner := batch.Runner{Analyzer: a, Workers: batchWorkers}
		summary := runner.Run(cmd.Context(), jobs)

		if err := util.EnsureOutputDir(batchOut); err != nil {
			return err
		}
		written, err := report.WriteDatasetFiles(batchOut, summary.Records)
		if err != nil {
			return err
		}
		if batchJSON {
			path := filepath.Join(batchOut, "all_complexity_results.json")
			if err := report.WriteJSONFile(path, summary.Records); err != nil {
				return err
			}
			written = append(written, path)
		}
		for _, path := range written {
			logrus.Infof("Wrote %v", path)
		}

		if batchDynamo {
			sink, err := db.NewSink(constants.GetDynamoEndpoint(), constants.GetDynamoTable())
			if err != nil {
				return err
			}
			if err := sink.PutRecords(summary.RunID, summary.Records); err != nil {
				return err
			}
		}

		logrus.Infof("%v succeeded, %v failed, %v skipped", summary.Succeeded, summary.Failed, summary.Skipped)
		return cmd.Context().Err()
	},
}

func batchDatasets() ([]batch.Dataset, error) {
	if batchDir != "" {
		return []batch.Dataset{{Name: batchDataset, Path: batchDir}}, nil
	}
	if batchConfig == "" {
		return nil, errors.New("either --config (or DATASETS_CONFIG) or --dir is required")
	}
	return batch.LoadDatasets(batchConfig)
}
