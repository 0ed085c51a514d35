package file

import (
	"github.com/jsphweid/midicomplexity/model"
)

// CreateJobs numbers paths consecutively starting at first.
func CreateJobs(dataset string, paths []string, first uint32) []model.Job {
	res := make([]model.Job, len(paths))
	for i, v := range paths {
		res[i] = model.Job{Num: first + uint32(i), Dataset: dataset, Path: v}
	}
	return res
}
