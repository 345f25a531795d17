package reports

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sridevivaradharajan/AtlasGuard/internal/domain/cases"
)

func baseReport() AnalysisReport {
	return AnalysisReport{
		ID:        "AUDIT-000123",
		Status:    StatusApproved,
		RiskScore: 12,
		Findings:  []string{"initial"},
		DecisionTrace: []cases.TraceStep{
			{ID: "decision", Label: "WITHIN TOLERANCE", Status: cases.TraceComplete},
		},
	}
}

func TestAmendRedTeamVulnerable(t *testing.T) {
	r := baseReport()
	out := r.AmendRedTeam([]string{"[RED TEAM] X: weak"}, true)

	assert.Equal(t, StatusBlocked, out.Status)
	assert.Equal(t, 95, out.RiskScore)
	assert.Equal(t, []string{"initial", "[RED TEAM] X: weak"}, out.Findings)

	// Original is untouched.
	assert.Equal(t, StatusApproved, r.Status)
	assert.Len(t, r.Findings, 1)
}

func TestAmendRedTeamKeepsHigherScore(t *testing.T) {
	r := baseReport()
	r.RiskScore = 97
	out := r.AmendRedTeam(nil, true)
	assert.Equal(t, 97, out.RiskScore)
}

func TestAmendRedTeamResilient(t *testing.T) {
	r := baseReport()
	out := r.AmendRedTeam([]string{"[RED TEAM] X: ok"}, false)
	assert.Equal(t, StatusApproved, out.Status)
	assert.Equal(t, 12, out.RiskScore)
}

func TestAmendRemediation(t *testing.T) {
	r := baseReport()
	r.Status = StatusBlocked
	r.RiskScore = 92

	out := r.AmendRemediation()
	assert.Equal(t, StatusResolved, out.Status)
	assert.Equal(t, 5, out.RiskScore)
	require.Len(t, out.Findings, 2)
	assert.Contains(t, out.Findings[1], "[AUTO-FIX]")
	require.Len(t, out.DecisionTrace, 2)
	assert.Equal(t, "fix_applied", out.DecisionTrace[1].ID)

	// Original is untouched.
	assert.Equal(t, StatusBlocked, r.Status)
	assert.Len(t, r.DecisionTrace, 1)
}
