package ai

import "context"

// Mode tags which analysis persona the model should apply.
type Mode string

const (
	ModeCode    Mode = "CODE"
	ModeUpload  Mode = "UPLOAD"
	ModeProject Mode = "PROJECT"
)

// Request carries the content excerpt and mode-specific metadata for one
// generative-analysis call. ContentExcerpt is already truncated by the caller.
type Request struct {
	ContentExcerpt string
	Mode           Mode

	FileName string
	FileType string

	ProjectName string
	ModelType   string
	DataSource  string
	IntendedUse string
}

// ToolSignals are short external-verification strings produced by the model.
type ToolSignals struct {
	GoogleKG string `json:"googleKG"`
	Patents  string `json:"patents"`
	Toxicity string `json:"toxicity"`
}

// Result is the structured governance-analysis response. Numeric and object
// fields are pointers so that absent fields can fall back to documented
// defaults instead of zero values.
type Result struct {
	RiskScore      *float64     `json:"riskScore"`
	IsRisk         bool         `json:"isRisk"`
	Confidence     *float64     `json:"confidence"`
	BlindSpots     []string     `json:"blindSpots"`
	Findings       []string     `json:"findings"`
	RadarValues    []float64    `json:"radarValues"`
	ToolSignals    *ToolSignals `json:"toolSignals"`
	MarkdownOutput string       `json:"markdownOutput"`
}

// Likelihood enum for red-team attack vectors.
type Likelihood string

const (
	LikelihoodHigh   Likelihood = "HIGH"
	LikelihoodMedium Likelihood = "MEDIUM"
	LikelihoodLow    Likelihood = "LOW"
)

type Attack struct {
	Vector      string     `json:"vector"`
	Likelihood  Likelihood `json:"likelihood"`
	Description string     `json:"description"`
}

// RedTeamResult is the structured adversarial-validation response.
type RedTeamResult struct {
	Attacks    []Attack `json:"attacks"`
	Vulnerable bool     `json:"vulnerable"`
	Summary    string   `json:"summary"`
}

// Analyzer is the port to the external generative model. Both calls are
// single-shot: no retries, and any transport or parse failure is returned as
// an error.
type Analyzer interface {
	Analyze(ctx context.Context, req Request) (*Result, error)
	RedTeam(ctx context.Context, req Request) (*RedTeamResult, error)
}
