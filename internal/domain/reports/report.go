package reports

import (
	"github.com/Sridevivaradharajan/AtlasGuard/internal/domain/cases"
)

// Status enum
type Status string

const (
	StatusApproved   Status = "APPROVED"
	StatusBlocked    Status = "BLOCKED"
	StatusResolved   Status = "RESOLVED"
	StatusOverridden Status = "OVERRIDDEN"
)

// ToolResults holds the external verification strings echoed into the report.
type ToolResults struct {
	GoogleKG string `json:"googleKG"`
	Patents  string `json:"patents"`
	Toxicity string `json:"toxicity"`
}

// AnalysisReport is the summary of one finished Case. It is immutable once
// created except for the two defined amendment operations below, each of which
// returns an amended copy.
type AnalysisReport struct {
	ID                 string                  `json:"id"`
	Timestamp          string                  `json:"timestamp"`
	TargetName         string                  `json:"filename"`
	FileType           string                  `json:"fileType"`
	RiskScore          int                     `json:"riskScore"`
	Status             Status                  `json:"status"`
	Findings           []string                `json:"findings"`
	MarkdownAssessment string                  `json:"markdownAssessment,omitempty"`
	Confidence         int                     `json:"confidence"`
	ExtractionMethod   cases.ExtractionMethod  `json:"extractionMethod"`
	BlindSpots         []string                `json:"blindSpots"`
	GovernanceAuth     string                  `json:"governanceAuth"`
	ToolResults        ToolResults             `json:"toolResults"`
	DecisionTrace      []cases.TraceStep       `json:"decisionTrace"`
}

const remediationFinding = "[AUTO-FIX] Data source sanitized via differential privacy transform."

// AmendRedTeam applies the red-team amendment: findings are appended and, if
// the simulation concluded vulnerable, the score floors at 95 and the report
// is forced to BLOCKED.
func (r AnalysisReport) AmendRedTeam(findings []string, vulnerable bool) AnalysisReport {
	out := r.clone()
	out.Findings = append(out.Findings, findings...)
	if vulnerable {
		if out.RiskScore < 95 {
			out.RiskScore = 95
		}
		out.Status = StatusBlocked
	}
	return out
}

// AmendRemediation applies the remediation amendment: the report resolves at a
// fixed low score with one extra finding and one extra trace step.
func (r AnalysisReport) AmendRemediation() AnalysisReport {
	out := r.clone()
	out.Status = StatusResolved
	out.RiskScore = 5
	out.Findings = append(out.Findings, remediationFinding)
	out.DecisionTrace = append(out.DecisionTrace, cases.TraceStep{
		ID:         "fix_applied",
		Label:      "REMEDIATION",
		Confidence: 1.0,
		Status:     cases.TraceComplete,
		Message:    "High-risk content replaced with synthetic equivalent.",
	})
	return out
}

func (r AnalysisReport) clone() AnalysisReport {
	out := r
	out.Findings = append([]string(nil), r.Findings...)
	out.BlindSpots = append([]string(nil), r.BlindSpots...)
	out.DecisionTrace = append([]cases.TraceStep(nil), r.DecisionTrace...)
	return out
}
