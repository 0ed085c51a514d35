package model

// MetricsRecord is one row of output: identifiers plus a flat set of
// float metrics. Polyphony fields without a prefix are time-weighted.
type MetricsRecord struct {
	Filename       string  `json:"midi_filename"`
	Dataset        string  `json:"dataset_name"`
	FilePath       string  `json:"file_path"`
	ProcessingTime float64 `json:"processing_time"`

	MeasuresCount float64 `json:"measures_count"`
	TotalNotes    float64 `json:"total_notes"`
	TotalDuration float64 `json:"total_duration"`

	TonalCertainty         float64 `json:"k_piece"`
	MeanTonalCertainty     float64 `json:"mean_k_measures"`
	PitchClassEntropy      float64 `json:"Hpc_piece"`
	MeanPitchClassEntropy  float64 `json:"mean_Hpc_measures"`
	MaxIntervalEntropy     float64 `json:"max_Hpi_piece"`
	MeanMaxIntervalEntropy float64 `json:"mean_max_Hpi_measures"`
	MaxIOIEntropy          float64 `json:"max_Hioi_piece"`
	MeanMaxIOIEntropy      float64 `json:"mean_max_Hioi_measures"`

	MaxPolyphony     float64 `json:"max_polyphony"`
	AvgPolyphony     float64 `json:"avg_polyphony"`
	PolyphonyDensity float64 `json:"polyphony_density"`
	PolyphonyStd     float64 `json:"polyphony_std"`
	MonophonicRatio  float64 `json:"monophonic_ratio"`
	SilenceRatio     float64 `json:"silence_ratio"`

	NaiveAvgPolyphony     float64 `json:"naive_avg_polyphony"`
	NaivePolyphonyDensity float64 `json:"naive_polyphony_density"`
	NaivePolyphonyStd     float64 `json:"naive_polyphony_std"`

	SegMaxPoly    float64 `json:"seg_max_poly"`
	SegMaxStd     float64 `json:"seg_max_std"`
	SegAvgPoly    float64 `json:"seg_avg_poly"`
	SegAvgStd     float64 `json:"seg_avg_std"`
	SegDensity    float64 `json:"seg_density"`
	SegDensityStd float64 `json:"seg_density_std"`

	// nil when the harmony scorer is absent or failed
	ATCScore *float64 `json:"atc_score,omitempty"`
	Error    string   `json:"error,omitempty"`
}

type NamedValue struct {
	Name  string
	Value *float64
}

// Metrics lists the float columns in output order. The pointers refer into r.
func (r *MetricsRecord) Metrics() []NamedValue {
	return []NamedValue{
		{"measures_count", &r.MeasuresCount},
		{"total_notes", &r.TotalNotes},
		{"total_duration", &r.TotalDuration},
		{"k_piece", &r.TonalCertainty},
		{"mean_k_measures", &r.MeanTonalCertainty},
		{"Hpc_piece", &r.PitchClassEntropy},
		{"mean_Hpc_measures", &r.MeanPitchClassEntropy},
		{"max_Hpi_piece", &r.MaxIntervalEntropy},
		{"mean_max_Hpi_measures", &r.MeanMaxIntervalEntropy},
		{"max_Hioi_piece", &r.MaxIOIEntropy},
		{"mean_max_Hioi_measures", &r.MeanMaxIOIEntropy},
		{"max_polyphony", &r.MaxPolyphony},
		{"avg_polyphony", &r.AvgPolyphony},
		{"polyphony_density", &r.PolyphonyDensity},
		{"polyphony_std", &r.PolyphonyStd},
		{"monophonic_ratio", &r.MonophonicRatio},
		{"silence_ratio", &r.SilenceRatio},
		{"naive_avg_polyphony", &r.NaiveAvgPolyphony},
		{"naive_polyphony_density", &r.NaivePolyphonyDensity},
		{"naive_polyphony_std", &r.NaivePolyphonyStd},
		{"seg_max_poly", &r.SegMaxPoly},
		{"seg_max_std", &r.SegMaxStd},
		{"seg_avg_poly", &r.SegAvgPoly},
		{"seg_avg_std", &r.SegAvgStd},
		{"seg_density", &r.SegDensity},
		{"seg_density_std", &r.SegDensityStd},
	}
}

func (r *MetricsRecord) Failed() bool {
	return r.Error != ""
}
