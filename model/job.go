package model

// Job is one file queued for analysis. Num is unique across a batch run.
type Job struct {
	Num     uint32
	Dataset string
	Path    string
}
