package reports

// DetectRequest asks for anomalies of a daily report against the final SOW.
// Files[0] is the daily report and Files[1] the final file.
type DetectRequest struct {
	ProjectName      string   `json:"projectName"`
	Files            []string `json:"files"`
	AnomalyStartDate string   `json:"anomalyStartDate"`
}

// DetectResponse carries the raw anomaly report.
type DetectResponse struct {
	Anomalies string `json:"anomalies"`
}

// CompareRequest asks for a comparison of two project contracts.
type CompareRequest struct {
	ProjectName string   `json:"projectName"`
	Files       []string `json:"files"`
}

// CompareResponse carries the markdown comparison.
type CompareResponse struct {
	Comparison string `json:"comparison"`
}
