package model

type AnalyzeResponse struct {
	RunID  string        `json:"run_id"`
	Record MetricsRecord `json:"record"`
}

type ErrorResponse struct {
	Error string `json:"detail"`
}
