package session

import (
	"fmt"
	"strings"

	"github.com/Sridevivaradharajan/AtlasGuard/internal/config"
	"github.com/Sridevivaradharajan/AtlasGuard/internal/domain/audit"
	"github.com/Sridevivaradharajan/AtlasGuard/internal/domain/cases"
	"github.com/Sridevivaradharajan/AtlasGuard/internal/domain/reports"
)

// BeginOverride opens the override ceremony. Only a blocked verdict can be
// overridden.
func (s *Service) BeginOverride() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cs.State != cases.StateRiskDetected {
		return fmt.Errorf("%w: override requires a risk verdict", ErrInvalidTransition)
	}
	s.cs.State = cases.StateOverrideCeremony
	return nil
}

// CancelOverride abandons the ceremony and restores the risk verdict.
func (s *Service) CancelOverride() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cs.State != cases.StateOverrideCeremony {
		return fmt.Errorf("%w: no override ceremony in progress", ErrInvalidTransition)
	}
	s.cs.State = cases.StateRiskDetected
	return nil
}

// ConfirmOverride records exactly one ledger entry attributing the decision
// to the operator and closes the case.
func (s *Service) ConfirmOverride(user config.User, justification string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cs.State != cases.StateOverrideCeremony {
		return fmt.Errorf("%w: no override ceremony in progress", ErrInvalidTransition)
	}
	if strings.TrimSpace(justification) == "" {
		return ErrEmptyJustification
	}

	now := s.clock.Now()
	s.ledger.Append(audit.Entry{
		ID:            fmt.Sprintf("LOG-OVERRIDE-%d", now.UnixMilli()),
		Time:          now.Format("15:04:05"),
		Mode:          "HUMAN_OVERRIDE",
		Details:       fmt.Sprintf("Manual Authorization by %s", user.Name),
		Risk:          "HIGH",
		Action:        "OVERRIDDEN",
		Status:        "OVERRIDDEN",
		Justification: justification,
	})
	s.cs.State = cases.StateCompleted
	s.log.WithField("operator", user.ID).Warn("risk verdict overridden")
	return nil
}

// Sanitized replacement values applied by remediation.
const (
	sanitizedDataSource  = "Synthetic identity vectors (GDPR Compliant) with differential privacy (ε=0.5) enabled."
	sanitizedIntendedUse = "Aggregated safety analysis on anonymized datasets for regional density auditing."
)

// ApplyRemediation swaps the flagged project inputs for their sanitized
// equivalents and settles the case as safe. Legal only while a detected
// remediation is pending; any other state is left untouched.
func (s *Service) ApplyRemediation() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cs.Remediation != cases.RemediationDetected {
		return fmt.Errorf("%w: no pending remediation", ErrInvalidTransition)
	}

	s.cs.Project.DataSource = sanitizedDataSource
	s.cs.Project.IntendedUse = sanitizedIntendedUse
	s.cs.Remediation = cases.RemediationResolved
	s.cs.State = cases.StateSafe
	s.cs.Radar = cases.UniformRadar(15)
	s.cs.Confidence = 98
	s.reasonLogLocked(cases.LogSystem, "Applying automated sanitization protocols...")
	s.reasonLogLocked(cases.LogSuccess, "Sanitization complete. PII vectors neutralized.")

	s.reports.Amend(func(r reports.AnalysisReport) reports.AnalysisReport {
		return r.AmendRemediation()
	})
	return nil
}
