package session

import (
	"context"
	"fmt"
	"math"

	"github.com/sirupsen/logrus"

	"github.com/Sridevivaradharajan/AtlasGuard/internal/domain/ai"
	"github.com/Sridevivaradharajan/AtlasGuard/internal/domain/cases"
	"github.com/Sridevivaradharajan/AtlasGuard/internal/domain/reports"
)

// StartAnalysis validates the case and synchronously enters the first
// pipeline state, returning the case token. The caller then runs the rest of
// the pipeline via RunAnalysis, typically in a goroutine.
func (s *Service) StartAnalysis() (cases.CaseToken, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cs.State.InFlight() {
		return "", ErrCaseInFlight
	}
	if s.cs.State == cases.StateOverrideCeremony {
		return "", fmt.Errorf("%w: override ceremony in progress", ErrInvalidTransition)
	}

	switch s.cs.Mode {
	case cases.ModeProject:
		if s.cs.Project.ProjectName == "" {
			return "", ErrEmptyProjectName
		}
		s.cs.State = cases.StateSemanticAnalysis
		s.reasonLogLocked(cases.LogSystem, "Initializing Multi-Agent Governance Swarm...")
		s.reasonLogLocked(cases.LogInfo, fmt.Sprintf("Analyzing Project: %s", s.cs.Project.ProjectName))

	case cases.ModeUpload:
		if s.cs.FileName == "" {
			return "", fmt.Errorf("%w: no asset ingested", ErrInvalidTransition)
		}
		s.enterGovernanceGateLocked()

	default: // TEXT
		if s.cs.Content == "" {
			return "", fmt.Errorf("%w: no content to analyze", ErrInvalidTransition)
		}
		s.enterGovernanceGateLocked()
	}

	s.log.WithFields(logrus.Fields{"mode": s.cs.Mode, "state": s.cs.State}).Info("analysis started")
	return s.cs.Token, nil
}

func (s *Service) enterGovernanceGateLocked() {
	s.cs.State = cases.StateGovernanceGate
	s.cs.ToolLogs = []string{"> INITIATING GOVERNANCE GATE...", "> VERIFYING ASSET ELIGIBILITY..."}
	s.cs.AppendTrace(cases.TraceStep{
		ID:         "gate",
		Label:      "GOVERNANCE GATE",
		Confidence: 0.99,
		Status:     cases.TraceActive,
		Message:    "Checking Corp Policy v4.2 for filetype and origin...",
	})
}

// RunAnalysis drives the pipeline started by StartAnalysis to completion.
// Every mutation is guarded by the token: if the case was replaced in the
// meantime the remaining work is dropped on the floor.
func (s *Service) RunAnalysis(ctx context.Context, token cases.CaseToken) error {
	s.mu.Lock()
	if s.cs.Token != token {
		s.mu.Unlock()
		return nil
	}
	mode := s.cs.Mode
	s.mu.Unlock()

	if mode == cases.ModeProject {
		return s.runProject(ctx, token)
	}
	return s.runForensic(ctx, token)
}

func (s *Service) runForensic(ctx context.Context, token cases.CaseToken) error {
	s.clock.Sleep(s.delays.Gate)

	ok := s.withCase(token, func(c *cases.Case) {
		c.State = cases.StateParsingAuthorized
		c.AppendToolLog("> POLICY_CHECK: PASSED")
		c.AppendToolLog("> FORENSIC_TOKEN: GRANTED")
		c.UpdateTrace("gate", cases.TraceComplete, "Asset Authorized. Proceeding to Forensic Extraction.")
	})
	if !ok {
		return nil
	}

	s.clock.Sleep(s.delays.Extract)

	var req ai.Request
	ok = s.withCase(token, func(c *cases.Case) {
		c.State = cases.StateContentExtracted
		method := cases.MethodForFileType(c.FileType)
		c.Extraction = method

		if c.Mode == cases.ModeUpload && c.Raw != nil {
			c.AppendToolLog(fmt.Sprintf("> PARSING FILE: %s...", c.FileName))
			c.AppendToolLog(fmt.Sprintf("> PARSER: %s_LOADER", c.FileType))
			text, err := s.extractor.Extract(c.FileName, c.FileType, c.Raw)
			if err != nil {
				text = fmt.Sprintf("[SYSTEM ERROR] Extraction failed for %s.\nError Details: %v", c.FileName, err)
			}
			c.Content = text
			c.AppendToolLog("> EXTRACTION SUCCESSFUL")
			c.AppendToolLog(fmt.Sprintf("> BYTES_READ: %d", len(text)))
		} else {
			c.AppendToolLog("> READING TEXT STREAM...")
			c.AppendToolLog("> ENCODING: UTF-8")
		}

		conf := 0.88
		if cases.IsCodeAsset(c.FileType) {
			conf = 1.0
		}
		c.AppendTrace(cases.TraceStep{
			ID:         "extract",
			Label:      "FORENSIC EXTRACTION",
			Confidence: conf,
			Status:     cases.TraceComplete,
			Message:    fmt.Sprintf("Content parsed via %s.", method),
		})

		c.State = cases.StateSemanticAnalysis
		c.AppendToolLog("> INITIATING SEMANTIC ANALYSIS SWARM...")
		c.AppendTrace(cases.TraceStep{
			ID:         "semantic",
			Label:      "DEEP SEMANTIC REASONING",
			Confidence: 0.5,
			Status:     cases.TraceActive,
			Message:    "Querying governance model for deep regulatory context...",
		})
		c.Signals = cases.ToolSignals{
			GoogleKG: cases.ToolSignal{Status: cases.SignalLoading, Value: "Connecting..."},
			Patents:  cases.ToolSignal{Status: cases.SignalLoading, Value: "Indexing..."},
			Toxicity: cases.ToolSignal{Status: cases.SignalLoading, Value: "Analyzing..."},
		}

		aiMode := ai.ModeCode
		if c.Mode == cases.ModeUpload {
			aiMode = ai.ModeUpload
		}
		req = ai.Request{
			ContentExcerpt: truncate(c.Content, s.maxExcerpt),
			Mode:           aiMode,
			FileName:       c.FileName,
			FileType:       c.FileType,
		}
	})
	if !ok {
		return nil
	}

	res, err := s.analyzer.Analyze(ctx, req)
	if err != nil {
		s.withCase(token, func(c *cases.Case) {
			c.AppendToolLog("> SYSTEM ERROR: UNABLE TO CONNECT TO ORCHESTRATOR.")
			c.State = cases.StateIdle
		})
		s.log.WithError(err).Error("semantic analysis failed")
		return err
	}

	s.clock.Sleep(s.delays.Decision)

	ok = s.withCase(token, func(c *cases.Case) {
		c.Confidence = intOr(res.Confidence, 85)
		c.BlindSpots = orStrings(res.BlindSpots)
		c.Signals = doneSignals(res.ToolSignals, "Verified", "Clean", "0.00")
		c.State = cases.StateUncertaintyChecked
	})
	if !ok {
		return nil
	}

	s.clock.Sleep(s.delays.Decision)

	s.withCase(token, func(c *cases.Case) {
		status := reports.StatusApproved
		if res.IsRisk {
			status = reports.StatusBlocked
			c.State = cases.StateRiskDetected
			c.Radar = radarOr(res.RadarValues, 80)
			c.UpdateTrace("semantic", cases.TraceComplete, "")
			c.AppendTrace(cases.TraceStep{
				ID:         "decision",
				Label:      "RISK DETECTED",
				Confidence: float64(intOr(res.Confidence, 90)) / 100,
				Status:     cases.TraceWarn,
				Message:    "Advisory: Regulatory thresholds exceeded.",
			})
			for _, f := range res.Findings {
				c.AppendToolLog(fmt.Sprintf("> SIGNAL: %s", f))
			}
		} else {
			c.State = cases.StateSafe
			c.Radar = radarOr(res.RadarValues, 20)
			c.UpdateTrace("semantic", cases.TraceComplete, "")
			c.AppendTrace(cases.TraceStep{
				ID:         "decision",
				Label:      "WITHIN TOLERANCE",
				Confidence: float64(intOr(res.Confidence, 95)) / 100,
				Status:     cases.TraceComplete,
				Message:    "Advisory: Asset appears compliant.",
			})
			c.AppendToolLog("> STATUS: NO ACTIVE RISK SIGNALS DETECTED.")
		}

		target := c.FileName
		if target == "" {
			if c.Mode == cases.ModeText {
				target = "Code_Snippet.py"
			} else {
				target = "Unknown_Asset"
			}
		}
		s.reports.Set(reports.AnalysisReport{
			ID:                 s.reportID("AUDIT"),
			Timestamp:          s.clock.Now().Format("2006-01-02 15:04:05"),
			TargetName:         target,
			FileType:           c.FileType,
			RiskScore:          intOr(res.RiskScore, 0),
			Status:             status,
			Findings:           orStrings(res.Findings),
			MarkdownAssessment: res.MarkdownOutput,
			Confidence:         intOr(res.Confidence, 0),
			ExtractionMethod:   c.Extraction,
			BlindSpots:         orStrings(res.BlindSpots),
			GovernanceAuth:     "AUTHORIZED_POLICY_V4",
			ToolResults:        toolResultsOr(res.ToolSignals, "N/A", "N/A", "N/A"),
			DecisionTrace:      c.TraceCopy(),
		})
	})
	return nil
}

func (s *Service) runProject(ctx context.Context, token cases.CaseToken) error {
	s.mu.Lock()
	if s.cs.Token != token {
		s.mu.Unlock()
		return nil
	}
	req := ai.Request{
		Mode:        ai.ModeProject,
		ProjectName: s.cs.Project.ProjectName,
		ModelType:   s.cs.Project.ModelType,
		DataSource:  s.cs.Project.DataSource,
		IntendedUse: s.cs.Project.IntendedUse,
	}
	s.mu.Unlock()

	res, err := s.analyzer.Analyze(ctx, req)
	if err != nil {
		s.withCase(token, func(c *cases.Case) {
			s.reasonLogLocked(cases.LogError, "System Error: Orchestrator Unreachable")
			c.State = cases.StateIdle
		})
		s.log.WithError(err).Error("project analysis failed")
		return err
	}

	ok := s.withCase(token, func(c *cases.Case) {
		s.reasonLogLocked(cases.LogInfo, "Scanning Data Source for PII and Bias...")
	})
	if !ok {
		return nil
	}

	s.clock.Sleep(s.delays.Decision)

	s.withCase(token, func(c *cases.Case) {
		status := reports.StatusApproved
		confDefault := 95
		if res.IsRisk {
			status = reports.StatusBlocked
			confDefault = 92
			c.Remediation = cases.RemediationDetected
			c.State = cases.StateRiskDetected
			s.reasonLogLocked(cases.LogError, "CRITICAL: High-risk patterns detected.")
		} else {
			c.Remediation = cases.RemediationResolved
			c.State = cases.StateSafe
			s.reasonLogLocked(cases.LogSuccess, "Project validated. No high-risk patterns.")
		}

		c.Radar = radarOr(res.RadarValues, 50)
		c.Confidence = intOr(res.Confidence, confDefault)
		c.BlindSpots = orStrings(res.BlindSpots)
		c.Signals = doneSignals(res.ToolSignals, "Verified", "No Conflict", "0.00")

		target := c.Project.ProjectName
		if target == "" {
			target = "Untitled_Project_Manifest"
		}
		findings := res.Findings
		if len(findings) == 0 {
			findings = []string{"Analysis Complete"}
		}
		riskEval := cases.TraceStep{
			ID:         "risk_eval",
			Label:      "RISK ASSESSMENT",
			Confidence: 0.88,
			Status:     cases.TraceComplete,
			Message:    "Project aligns with safety baselines.",
		}
		if res.IsRisk {
			riskEval.Status = cases.TraceWarn
			riskEval.Message = "Risk detected in project parameters."
		}
		s.reports.Set(reports.AnalysisReport{
			ID:                 s.reportID("GOV"),
			Timestamp:          s.clock.Now().Format("2006-01-02 15:04:05"),
			TargetName:         target,
			FileType:           "PROJECT_MANIFEST",
			RiskScore:          intOr(res.RiskScore, 50),
			Status:             status,
			Findings:           findings,
			MarkdownAssessment: res.MarkdownOutput,
			Confidence:         intOr(res.Confidence, 88),
			ExtractionMethod:   cases.ExtractMetadataOnly,
			BlindSpots:         orStrings(res.BlindSpots),
			GovernanceAuth:     "AI_GOVERNANCE_SWARM_V2",
			ToolResults:        toolResultsOr(res.ToolSignals, "Entity Validation: Verified", "IP Conflict Scan: Clear", "Safety Layer: Active"),
			DecisionTrace: []cases.TraceStep{
				{ID: "init", Label: "PROJECT INGESTION", Confidence: 1.0, Status: cases.TraceComplete, Message: "Project metadata parsed."},
				riskEval,
			},
		})

		if res.MarkdownOutput != "" {
			s.reasonLogLocked(cases.LogSystem, "Assessment Generated.")
		}
	})
	return nil
}

// withCase runs fn on the live case under the lock, but only if the token
// still matches. Returns false when the case was superseded.
func (s *Service) withCase(token cases.CaseToken, fn func(c *cases.Case)) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cs.Token != token {
		return false
	}
	fn(s.cs)
	return true
}

func (s *Service) reportID(prefix string) string {
	return fmt.Sprintf("%s-%06d", prefix, s.clock.Now().UnixMilli()%1000000)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

func intOr(p *float64, def int) int {
	if p == nil {
		return def
	}
	return int(math.Round(*p))
}

func orStrings(v []string) []string {
	if v == nil {
		return []string{}
	}
	return v
}

func radarOr(values []float64, def int) cases.RadarVector {
	if len(values) != 5 {
		return cases.UniformRadar(def)
	}
	var r cases.RadarVector
	for i, v := range values {
		r[i] = int(math.Round(v))
	}
	return r
}

func doneSignals(ts *ai.ToolSignals, kg, patents, toxicity string) cases.ToolSignals {
	if ts != nil {
		if ts.GoogleKG != "" {
			kg = ts.GoogleKG
		}
		if ts.Patents != "" {
			patents = ts.Patents
		}
		if ts.Toxicity != "" {
			toxicity = ts.Toxicity
		}
	}
	return cases.ToolSignals{
		GoogleKG: cases.ToolSignal{Status: cases.SignalDone, Value: kg},
		Patents:  cases.ToolSignal{Status: cases.SignalDone, Value: patents},
		Toxicity: cases.ToolSignal{Status: cases.SignalDone, Value: toxicity},
	}
}

func toolResultsOr(ts *ai.ToolSignals, kg, patents, toxicity string) reports.ToolResults {
	if ts == nil {
		return reports.ToolResults{GoogleKG: kg, Patents: patents, Toxicity: toxicity}
	}
	return reports.ToolResults{GoogleKG: ts.GoogleKG, Patents: ts.Patents, Toxicity: ts.Toxicity}
}
