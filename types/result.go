package types

// Perspective is one semantic cluster of articles with a generated summary.
type Perspective struct {
	Label   string `json:"label"`
	Summary string `json:"summary"`
}

// Evaluation holds the four summary quality scores.
type Evaluation struct {
	Faithfulness float64 `json:"faithfulness"`
	Relevance    float64 `json:"relevance"`
	Readability  float64 `json:"readability"`
	Coherence    float64 `json:"coherence"`
}

// Visualizations holds URLs of the rendered chart images, resolvable
// through the static file routes.
type Visualizations struct {
	HistoricalBiasChartURL string `json:"historical_bias_chart_url"`
	SourceBiasChartURL     string `json:"source_bias_chart_url"`
}

// Result is the aggregate record returned for one analysis request.
type Result struct {
	Perspectives       []Perspective  `json:"perspectives"`
	ExecutiveSummary   string         `json:"executive_summary"`
	DetailedBiasReport string         `json:"detailed_bias_report"`
	SummaryEvaluation  *Evaluation    `json:"summary_evaluation,omitempty"`
	EvaluationError    string         `json:"evaluation_error,omitempty"`
	Visualizations     Visualizations `json:"visualizations"`
}
