package session

import (
	"context"
	"fmt"

	"github.com/Sridevivaradharajan/AtlasGuard/internal/domain/ai"
	"github.com/Sridevivaradharajan/AtlasGuard/internal/domain/cases"
	"github.com/Sridevivaradharajan/AtlasGuard/internal/domain/reports"
)

var redTeamVectors = []string{"PROMPT_INJECTION", "PII_EXFILTRATION", "SQL_INJECTION", "MALICIOUS_PAYLOAD"}

// StartRedTeam enters the simulation from a settled verdict (SAFE or
// RISK_DETECTED). The pre-simulation state is remembered so a resilient
// target returns to it afterwards. One level only: a simulation cannot be
// stacked on another simulation.
func (s *Service) StartRedTeam() (cases.CaseToken, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cs.State != cases.StateSafe && s.cs.State != cases.StateRiskDetected {
		return "", fmt.Errorf("%w: red team requires a settled verdict", ErrInvalidTransition)
	}

	s.priorState = s.cs.State
	s.cs.State = cases.StateRedTeamSimulation
	s.cs.RedTeamFindings = []string{}
	s.cs.RedTeamVulnerable = false
	s.redTeamLogLocked(cases.LogWarning, "INITIALIZING RED TEAM OFFENSIVE SWARM...")
	for _, v := range redTeamVectors {
		s.redTeamLogLocked(cases.LogSystem, fmt.Sprintf("> EXECUTING VECTOR: %s...", v))
	}

	return s.cs.Token, nil
}

// RunRedTeam completes the simulation started by StartRedTeam.
func (s *Service) RunRedTeam(ctx context.Context, token cases.CaseToken) error {
	s.mu.Lock()
	if s.cs.Token != token {
		s.mu.Unlock()
		return nil
	}
	req := ai.Request{Mode: ai.ModeCode, ContentExcerpt: truncate(s.cs.Content, 5000)}
	if s.cs.Mode == cases.ModeProject {
		req = ai.Request{
			Mode:        ai.ModeProject,
			ProjectName: s.cs.Project.ProjectName,
			DataSource:  s.cs.Project.DataSource,
		}
	}
	s.mu.Unlock()

	res, err := s.analyzer.RedTeam(ctx, req)
	if err != nil {
		s.withCase(token, func(c *cases.Case) {
			c.State = s.priorState
		})
		s.log.WithError(err).Error("red team simulation failed")
		return err
	}

	s.clock.Sleep(s.delays.RedTeam)

	s.withCase(token, func(c *cases.Case) {
		findings := make([]string, 0, len(res.Attacks))
		reportFindings := make([]string, 0, len(res.Attacks))
		for _, a := range res.Attacks {
			findings = append(findings, fmt.Sprintf("[%s] %s: %s", a.Likelihood, a.Vector, a.Description))
			reportFindings = append(reportFindings, fmt.Sprintf("[RED TEAM] %s: %s", a.Vector, a.Description))
			s.redTeamLogLocked(cases.LogError, fmt.Sprintf("[RED_TEAM] %s: %s - %s", a.Vector, a.Likelihood, a.Description))
		}
		c.RedTeamFindings = findings
		c.RedTeamVulnerable = res.Vulnerable

		if res.Vulnerable {
			s.redTeamLogLocked(cases.LogError, "CRITICAL: SYSTEM VULNERABILITIES CONFIRMED.")
			c.State = cases.StateRiskDetected
		} else {
			s.redTeamLogLocked(cases.LogSuccess, "RED TEAM REPORT: TARGET RESILIENT.")
			c.State = s.priorState
		}

		s.reports.Amend(func(r reports.AnalysisReport) reports.AnalysisReport {
			return r.AmendRedTeam(reportFindings, res.Vulnerable)
		})
	})
	return nil
}

// redTeamLogLocked routes simulation telemetry to the console matching the
// case mode: reasoning entries for projects, tool log lines otherwise.
// Caller holds the lock.
func (s *Service) redTeamLogLocked(t cases.LogType, msg string) {
	if s.cs.Mode == cases.ModeProject {
		s.reasonLogLocked(t, msg)
		return
	}
	s.cs.AppendToolLog(fmt.Sprintf("> %s", msg))
}
