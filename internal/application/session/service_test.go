package session

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sridevivaradharajan/AtlasGuard/internal/config"
	"github.com/Sridevivaradharajan/AtlasGuard/internal/domain/ai"
	"github.com/Sridevivaradharajan/AtlasGuard/internal/domain/cases"
	"github.com/Sridevivaradharajan/AtlasGuard/internal/domain/reports"
	"github.com/Sridevivaradharajan/AtlasGuard/internal/infra/extract"
)

type fakeClock struct{ t time.Time }

func (f fakeClock) Now() time.Time        { return f.t }
func (f fakeClock) Sleep(_ time.Duration) {}

type fakeAnalyzer struct {
	res      *ai.Result
	err      error
	rt       *ai.RedTeamResult
	rtErr    error
	analyzed int
}

func (f *fakeAnalyzer) Analyze(_ context.Context, _ ai.Request) (*ai.Result, error) {
	f.analyzed++
	return f.res, f.err
}

func (f *fakeAnalyzer) RedTeam(_ context.Context, _ ai.Request) (*ai.RedTeamResult, error) {
	return f.rt, f.rtErr
}

func fptr(v float64) *float64 { return &v }

func riskResult() *ai.Result {
	return &ai.Result{
		RiskScore:      fptr(92),
		IsRisk:         true,
		Confidence:     fptr(88),
		Findings:       []string{"Patent conflict: US6285999B1"},
		RadarValues:    []float64{90, 85, 70, 60, 80},
		MarkdownOutput: "### Assessment\nHigh risk.",
	}
}

func safeResult() *ai.Result {
	return &ai.Result{
		RiskScore:      fptr(12),
		IsRisk:         false,
		Confidence:     fptr(96),
		MarkdownOutput: "### Assessment\nCompliant.",
	}
}

func testUsers() []config.User {
	return []config.User{
		{ID: "ADMIN_01", Key: "s3cur3_p@ss", Name: "COMMANDER SHEPARD", Role: "ADMIN", Clearance: 5},
		{ID: "ANALYST_99", Key: "data2025", Name: "TALI ZORAH", Role: "ANALYST", Clearance: 3},
	}
}

func newTestService(t *testing.T, an ai.Analyzer) *Service {
	t.Helper()
	log := logrus.New()
	log.SetOutput(io.Discard)
	return New(Params{
		Log:       log,
		Analyzer:  an,
		Extractor: extract.NewNative(),
		Clock:     fakeClock{t: time.Date(2026, 3, 14, 10, 42, 0, 0, time.UTC)},
		Users:     testUsers(),
	})
}

func runToVerdict(t *testing.T, s *Service) {
	t.Helper()
	token, err := s.StartAnalysis()
	require.NoError(t, err)
	require.NoError(t, s.RunAnalysis(context.Background(), token))
}

func TestLoginAndAuthenticate(t *testing.T) {
	s := newTestService(t, &fakeAnalyzer{})

	token, user, err := s.Login("ADMIN_01", "s3cur3_p@ss")
	require.NoError(t, err)
	assert.Equal(t, "COMMANDER SHEPARD", user.Name)

	got, ok := s.Authenticate(token)
	require.True(t, ok)
	assert.Equal(t, "ADMIN_01", got.ID)

	s.Logout(token)
	_, ok = s.Authenticate(token)
	assert.False(t, ok)
}

func TestLoginLockout(t *testing.T) {
	s := newTestService(t, &fakeAnalyzer{})

	_, _, err := s.Login("ADMIN_01", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, _, err = s.Login("ADMIN_01", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, _, err = s.Login("ADMIN_01", "wrong")
	assert.ErrorIs(t, err, ErrLockedOut)

	// Even the right key cannot get through once locked.
	_, _, err = s.Login("ADMIN_01", "s3cur3_p@ss")
	assert.ErrorIs(t, err, ErrLockedOut)

	// Other operators are unaffected.
	_, _, err = s.Login("ANALYST_99", "data2025")
	assert.NoError(t, err)
}

func TestTextModeStartsWithDemoSnippet(t *testing.T) {
	s := newTestService(t, &fakeAnalyzer{})
	c := s.Case()
	assert.Equal(t, cases.ModeText, c.Mode)
	assert.Equal(t, cases.DemoPythonCode, c.Content)
	assert.Equal(t, "PY", c.FileType)
}

func TestForensicRiskFlow(t *testing.T) {
	an := &fakeAnalyzer{res: riskResult()}
	s := newTestService(t, an)
	runToVerdict(t, s)

	c := s.Case()
	assert.Equal(t, cases.StateRiskDetected, c.State)
	assert.Equal(t, cases.RadarVector{90, 85, 70, 60, 80}, c.Radar)
	assert.Equal(t, 88, c.Confidence)
	assert.Equal(t, 1, an.analyzed)
	assert.Contains(t, c.ToolLogs, "> SIGNAL: Patent conflict: US6285999B1")

	var decision *cases.TraceStep
	for i := range c.Trace {
		if c.Trace[i].ID == "decision" {
			decision = &c.Trace[i]
		}
	}
	require.NotNil(t, decision)
	assert.Equal(t, cases.TraceWarn, decision.Status)

	r, err := s.Report()
	require.NoError(t, err)
	assert.Equal(t, reports.StatusBlocked, r.Status)
	assert.Equal(t, 92, r.RiskScore)
	assert.Equal(t, "Code_Snippet.py", r.TargetName)
	assert.Equal(t, "AUTHORIZED_POLICY_V4", r.GovernanceAuth)
	assert.Regexp(t, `^AUDIT-\d{6}$`, r.ID)
}

func TestForensicSafeFlow(t *testing.T) {
	s := newTestService(t, &fakeAnalyzer{res: safeResult()})
	runToVerdict(t, s)

	c := s.Case()
	assert.Equal(t, cases.StateSafe, c.State)
	assert.Contains(t, c.ToolLogs, "> STATUS: NO ACTIVE RISK SIGNALS DETECTED.")
	// No radar values from the model falls back to the low uniform vector.
	assert.Equal(t, cases.UniformRadar(20), c.Radar)
	assert.Equal(t, cases.SignalDone, c.Signals.GoogleKG.Status)
	assert.Equal(t, "Verified", c.Signals.GoogleKG.Value)

	r, err := s.Report()
	require.NoError(t, err)
	assert.Equal(t, reports.StatusApproved, r.Status)
	assert.Equal(t, "N/A", r.ToolResults.GoogleKG)
}

func TestAnalyzerErrorResetsCase(t *testing.T) {
	s := newTestService(t, &fakeAnalyzer{err: errors.New("boom")})
	token, err := s.StartAnalysis()
	require.NoError(t, err)
	require.Error(t, s.RunAnalysis(context.Background(), token))

	c := s.Case()
	assert.Equal(t, cases.StateIdle, c.State)
	assert.Contains(t, c.ToolLogs, "> SYSTEM ERROR: UNABLE TO CONNECT TO ORCHESTRATOR.")

	_, err = s.Report()
	assert.ErrorIs(t, err, ErrNoReport)
}

func TestStartAnalysisWhileInFlight(t *testing.T) {
	s := newTestService(t, &fakeAnalyzer{res: safeResult()})
	_, err := s.StartAnalysis()
	require.NoError(t, err)

	_, err = s.StartAnalysis()
	assert.ErrorIs(t, err, ErrCaseInFlight)
}

func TestStaleRunIsDiscarded(t *testing.T) {
	s := newTestService(t, &fakeAnalyzer{res: riskResult()})
	token, err := s.StartAnalysis()
	require.NoError(t, err)

	// Switching modes mid-run supersedes the case.
	_, err = s.SwitchMode(cases.ModeProject)
	require.NoError(t, err)

	require.NoError(t, s.RunAnalysis(context.Background(), token))

	c := s.Case()
	assert.Equal(t, cases.StateIdle, c.State)
	assert.Equal(t, cases.ModeProject, c.Mode)
	_, err = s.Report()
	assert.ErrorIs(t, err, ErrNoReport)
}

func TestSwitchModeResetsDerivedState(t *testing.T) {
	s := newTestService(t, &fakeAnalyzer{res: riskResult()})
	runToVerdict(t, s)

	c, err := s.SwitchMode(cases.ModeText)
	require.NoError(t, err)
	assert.Equal(t, cases.StateIdle, c.State)
	assert.Equal(t, cases.DefaultRadar(), c.Radar)
	assert.Zero(t, c.Confidence)
	assert.Empty(t, c.BlindSpots)
	assert.Empty(t, c.Trace)
	assert.Equal(t, cases.SignalIdle, c.Signals.Patents.Status)
}

func TestUploadIngestionLocksContent(t *testing.T) {
	s := newTestService(t, &fakeAnalyzer{res: safeResult()})
	_, err := s.SwitchMode(cases.ModeUpload)
	require.NoError(t, err)

	c, err := s.IngestFile("payroll.xlsx", []byte{0x50, 0x4b})
	require.NoError(t, err)
	assert.Equal(t, cases.StateIngested, c.State)
	assert.Equal(t, "XLSX", c.FileType)
	assert.Contains(t, c.Content, "[PENDING GOVERNANCE AUTHORIZATION]")
	require.Len(t, c.Trace, 1)
	assert.Equal(t, "ingest", c.Trace[0].ID)

	runToVerdict(t, s)
	c = s.Case()
	assert.Equal(t, cases.ExtractBinaryParsing, c.Extraction)
	// XLSX extraction fails natively, so the placeholder is substituted.
	assert.Contains(t, c.Content, "[SYSTEM ERROR] Extraction failed")
	assert.Equal(t, cases.StateSafe, c.State)
}

func TestProjectRiskThenRemediation(t *testing.T) {
	s := newTestService(t, &fakeAnalyzer{res: riskResult()})
	_, err := s.LoadDemo("HIGH_RISK")
	require.NoError(t, err)
	runToVerdict(t, s)

	c := s.Case()
	assert.Equal(t, cases.StateRiskDetected, c.State)
	assert.Equal(t, cases.RemediationDetected, c.Remediation)

	r, err := s.Report()
	require.NoError(t, err)
	assert.Equal(t, "Project Hades", r.TargetName)
	assert.Equal(t, "PROJECT_MANIFEST", r.FileType)
	assert.Equal(t, cases.ExtractMetadataOnly, r.ExtractionMethod)
	assert.Regexp(t, `^GOV-\d{6}$`, r.ID)
	priorFindings := len(r.Findings)

	require.NoError(t, s.ApplyRemediation())

	c = s.Case()
	assert.Equal(t, cases.StateSafe, c.State)
	assert.Equal(t, cases.RemediationResolved, c.Remediation)
	assert.Equal(t, cases.UniformRadar(15), c.Radar)
	assert.Equal(t, 98, c.Confidence)
	assert.Contains(t, c.Project.DataSource, "Synthetic identity vectors")

	r, err = s.Report()
	require.NoError(t, err)
	assert.Equal(t, reports.StatusResolved, r.Status)
	assert.Equal(t, 5, r.RiskScore)
	assert.Len(t, r.Findings, priorFindings+1)

	// A second application has nothing pending.
	assert.ErrorIs(t, s.ApplyRemediation(), ErrInvalidTransition)
}

func TestProjectSafeFlow(t *testing.T) {
	s := newTestService(t, &fakeAnalyzer{res: safeResult()})
	_, err := s.LoadDemo("LOW_RISK")
	require.NoError(t, err)
	runToVerdict(t, s)

	c := s.Case()
	assert.Equal(t, cases.StateSafe, c.State)
	assert.Equal(t, cases.RemediationResolved, c.Remediation)
	assert.Equal(t, "No Conflict", c.Signals.Patents.Value)

	r, err := s.Report()
	require.NoError(t, err)
	assert.Equal(t, "Project Athena", r.TargetName)
	assert.Equal(t, "AI_GOVERNANCE_SWARM_V2", r.GovernanceAuth)
	assert.Equal(t, []string{"Analysis Complete"}, r.Findings)
}

func TestSetProjectRequiresName(t *testing.T) {
	s := newTestService(t, &fakeAnalyzer{})
	_, err := s.SwitchMode(cases.ModeProject)
	require.NoError(t, err)

	_, err = s.SetProject(cases.ProjectRequest{DataSource: "x"})
	assert.ErrorIs(t, err, ErrEmptyProjectName)

	_, err = s.StartAnalysis()
	assert.ErrorIs(t, err, ErrEmptyProjectName)
}

func TestOverrideCeremony(t *testing.T) {
	s := newTestService(t, &fakeAnalyzer{res: riskResult()})
	admin := testUsers()[0]

	// Not legal before a risk verdict exists.
	assert.ErrorIs(t, s.BeginOverride(), ErrInvalidTransition)

	runToVerdict(t, s)
	before := len(s.AuditEntries())

	require.NoError(t, s.BeginOverride())
	assert.Equal(t, cases.StateOverrideCeremony, s.Case().State)

	err := s.ConfirmOverride(admin, "   ")
	assert.ErrorIs(t, err, ErrEmptyJustification)
	assert.Equal(t, before, len(s.AuditEntries()))

	require.NoError(t, s.CancelOverride())
	assert.Equal(t, cases.StateRiskDetected, s.Case().State)

	require.NoError(t, s.BeginOverride())
	require.NoError(t, s.ConfirmOverride(admin, "Business-critical deployment window."))

	assert.Equal(t, cases.StateCompleted, s.Case().State)
	entries := s.AuditEntries()
	require.Equal(t, before+1, len(entries))
	assert.Equal(t, "HUMAN_OVERRIDE", entries[0].Mode)
	assert.Equal(t, "Manual Authorization by COMMANDER SHEPARD", entries[0].Details)
	assert.Equal(t, "Business-critical deployment window.", entries[0].Justification)
}

func TestRedTeamVulnerableForcesRisk(t *testing.T) {
	an := &fakeAnalyzer{
		res: safeResult(),
		rt: &ai.RedTeamResult{
			Attacks: []ai.Attack{
				{Vector: "PROMPT_INJECTION", Likelihood: ai.LikelihoodHigh, Description: "Unbounded system prompt."},
			},
			Vulnerable: true,
			Summary:    "One confirmed weakness.",
		},
	}
	s := newTestService(t, an)
	runToVerdict(t, s)
	require.Equal(t, cases.StateSafe, s.Case().State)

	token, err := s.StartRedTeam()
	require.NoError(t, err)
	assert.Equal(t, cases.StateRedTeamSimulation, s.Case().State)
	require.NoError(t, s.RunRedTeam(context.Background(), token))

	c := s.Case()
	assert.Equal(t, cases.StateRiskDetected, c.State)
	assert.True(t, c.RedTeamVulnerable)
	require.Len(t, c.RedTeamFindings, 1)
	assert.Equal(t, "[HIGH] PROMPT_INJECTION: Unbounded system prompt.", c.RedTeamFindings[0])

	r, err := s.Report()
	require.NoError(t, err)
	assert.Equal(t, reports.StatusBlocked, r.Status)
	assert.GreaterOrEqual(t, r.RiskScore, 95)
	assert.Contains(t, r.Findings, "[RED TEAM] PROMPT_INJECTION: Unbounded system prompt.")
}

func TestRedTeamResilientRestoresVerdict(t *testing.T) {
	an := &fakeAnalyzer{
		res: safeResult(),
		rt:  &ai.RedTeamResult{Vulnerable: false, Summary: "Resilient."},
	}
	s := newTestService(t, an)
	runToVerdict(t, s)

	token, err := s.StartRedTeam()
	require.NoError(t, err)
	require.NoError(t, s.RunRedTeam(context.Background(), token))

	c := s.Case()
	assert.Equal(t, cases.StateSafe, c.State)
	assert.False(t, c.RedTeamVulnerable)

	r, err := s.Report()
	require.NoError(t, err)
	assert.Equal(t, reports.StatusApproved, r.Status)
	assert.Equal(t, 12, r.RiskScore)
}

func TestRedTeamRequiresSettledVerdict(t *testing.T) {
	s := newTestService(t, &fakeAnalyzer{})
	_, err := s.StartRedTeam()
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestLedgerSeedEntries(t *testing.T) {
	s := newTestService(t, &fakeAnalyzer{})
	entries := s.AuditEntries()
	require.Len(t, entries, 2)
	assert.Equal(t, "LOG-892", entries[0].ID)
	assert.Equal(t, "LOG-893", entries[1].ID)
}

func TestLoadDemoUnknownScenario(t *testing.T) {
	s := newTestService(t, &fakeAnalyzer{})
	_, err := s.LoadDemo("MEDIUM")
	assert.ErrorIs(t, err, ErrUnknownScenario)
}
