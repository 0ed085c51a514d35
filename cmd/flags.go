package cmd

import (
	"github.com/jsphweid/midicomplexity/analysis"
	"github.com/jsphweid/midicomplexity/constants"
	"github.com/jsphweid/midicomplexity/harmony"
	"github.com/jsphweid/midicomplexity/segment"
	"github.com/spf13/cobra"
)

// analyzerFlags are shared by every command that runs the pipeline.
type analyzerFlags struct {
	segmentSize int
	policy      string
	noQuantize  bool
	atcDir      string
	python      string
}

func (f *analyzerFlags) register(cmd *cobra.Command) {
	cmd.Flags().IntVar(&f.segmentSize, "segment-size", constants.DefaultSegmentSize, "measures per segment")
	cmd.Flags().StringVar(&f.policy, "policy", "fixed", "segment window policy: fixed or doubling")
	cmd.Flags().BoolVar(&f.noQuantize, "no-quantize", false, "keep raw onsets instead of snapping to the 1/4 and 1/3 beat grids")
	cmd.Flags().StringVar(&f.atcDir, "atc-dir", constants.GetATCDir(), "directory holding get_atc_score.py, empty to skip ATC")
	cmd.Flags().StringVar(&f.python, "python", "", "python interpreter for the ATC tool")
}

func (f *analyzerFlags) analyzer() (*analysis.Analyzer, error) {
	policy, err := segment.ParsePolicy(f.policy)
	if err != nil {
		return nil, err
	}
	opts := analysis.DefaultOptions()
	opts.SegmentSize = f.segmentSize
	opts.Policy = policy
	opts.Load.Quantize = !f.noQuantize

	a := analysis.New(opts)
	if f.atcDir != "" {
		a.Harmony = harmony.NewATC(f.python, f.atcDir)
	}
	return a, nil
}
