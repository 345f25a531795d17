// Package session holds the governance workstation state machine: one live
// case at a time, driven through ingestion, automated analysis, and the
// human-gated outcomes (override, remediation, red team).
package session

import (
	"crypto/subtle"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/Sridevivaradharajan/AtlasGuard/internal/config"
	"github.com/Sridevivaradharajan/AtlasGuard/internal/domain/ai"
	"github.com/Sridevivaradharajan/AtlasGuard/internal/domain/audit"
	"github.com/Sridevivaradharajan/AtlasGuard/internal/domain/cases"
	"github.com/Sridevivaradharajan/AtlasGuard/internal/domain/reports"
	"github.com/Sridevivaradharajan/AtlasGuard/internal/infra/extract"
)

const maxLoginAttempts = 3

// Delays control the pacing between pipeline stages. Zero values make the
// pipeline run back to back, which is what tests use.
type Delays struct {
	Gate     time.Duration
	Extract  time.Duration
	Decision time.Duration
	RedTeam  time.Duration
}

// Params collects the ports and settings the service needs.
type Params struct {
	Log             *logrus.Logger
	Analyzer        ai.Analyzer
	Extractor       extract.Extractor
	Clock           Clock
	Delays          Delays
	MaxExcerptChars int
	Users           []config.User
	Ledger          *audit.Ledger
	Reports         *audit.ReportSink
}

// Service owns the single live case. All exported methods are safe for
// concurrent use; the long-running analysis methods release the lock while
// sleeping or waiting on the model, and re-validate the case token before
// every mutation so a case replaced mid-run silently absorbs nothing.
type Service struct {
	mu sync.Mutex

	log        *logrus.Logger
	analyzer   ai.Analyzer
	extractor  extract.Extractor
	clock      Clock
	delays     Delays
	maxExcerpt int

	registry []config.User
	attempts map[string]int
	sessions map[string]config.User

	ledger  *audit.Ledger
	reports *audit.ReportSink

	cs         *cases.Case
	priorState cases.AnalysisState
}

func New(p Params) *Service {
	if p.Log == nil {
		p.Log = logrus.New()
	}
	if p.Clock == nil {
		p.Clock = SystemClock()
	}
	if p.MaxExcerptChars <= 0 {
		p.MaxExcerptChars = 8000
	}
	if p.Ledger == nil {
		p.Ledger = audit.NewLedger(audit.SeedEntries()...)
	}
	if p.Reports == nil {
		p.Reports = audit.NewReportSink()
	}
	s := &Service{
		log:        p.Log,
		analyzer:   p.Analyzer,
		extractor:  p.Extractor,
		clock:      p.Clock,
		delays:     p.Delays,
		maxExcerpt: p.MaxExcerptChars,
		registry:   p.Users,
		attempts:   make(map[string]int),
		sessions:   make(map[string]config.User),
		ledger:     p.Ledger,
		reports:    p.Reports,
	}
	s.cs = s.freshCase(cases.ModeText)
	return s
}

// freshCase mints a case with a new token. TEXT mode starts with the demo
// snippet so the editor is never empty. Caller holds the lock or is in New.
func (s *Service) freshCase(mode cases.IngestionMode) *cases.Case {
	c := cases.NewCase(mode, cases.CaseToken(uuid.NewString()))
	if mode == cases.ModeText {
		c.Content = cases.DemoPythonCode
		c.FileType = "PY"
	}
	return c
}

// Login validates operator credentials and mints a session token. Three
// failed attempts lock the operator ID for the rest of the process lifetime.
func (s *Service) Login(id, key string) (string, config.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.attempts[id] >= maxLoginAttempts {
		return "", config.User{}, ErrLockedOut
	}

	for _, u := range s.registry {
		idOK := subtle.ConstantTimeCompare([]byte(u.ID), []byte(id)) == 1
		keyOK := subtle.ConstantTimeCompare([]byte(u.Key), []byte(key)) == 1
		if idOK && keyOK {
			delete(s.attempts, id)
			token := uuid.NewString()
			s.sessions[token] = u
			s.log.WithFields(logrus.Fields{"operator": u.ID, "role": u.Role}).Info("operator authenticated")
			return token, u, nil
		}
	}

	s.attempts[id]++
	if s.attempts[id] >= maxLoginAttempts {
		s.log.WithField("operator", id).Warn("operator locked out")
		return "", config.User{}, ErrLockedOut
	}
	return "", config.User{}, ErrInvalidCredentials
}

// Authenticate resolves a session token to its operator.
func (s *Service) Authenticate(token string) (config.User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.sessions[token]
	return u, ok
}

// Logout invalidates a session token. Unknown tokens are ignored.
func (s *Service) Logout(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, token)
}

// SwitchMode replaces the live case wholesale. It is legal at any time,
// including mid-analysis: the superseded case's token goes stale and any
// in-flight pipeline result is discarded on arrival.
func (s *Service) SwitchMode(mode cases.IngestionMode) (cases.Case, error) {
	switch mode {
	case cases.ModeText, cases.ModeUpload, cases.ModeProject:
	default:
		return cases.Case{}, fmt.Errorf("%w: unknown mode %q", ErrInvalidTransition, mode)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cs = s.freshCase(mode)
	s.priorState = cases.StateIdle
	s.log.WithField("mode", mode).Info("ingestion mode switched")
	return s.snapshotLocked(), nil
}

// IngestText replaces the editor content of a TEXT case. An empty submission
// restores the demo snippet.
func (s *Service) IngestText(text string) (cases.Case, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cs.Mode != cases.ModeText {
		return cases.Case{}, fmt.Errorf("%w: text ingestion requires TEXT mode", ErrInvalidTransition)
	}
	if s.cs.State.InFlight() {
		return cases.Case{}, ErrCaseInFlight
	}
	if text == "" {
		text = cases.DemoPythonCode
	}
	s.cs.Content = text
	return s.snapshotLocked(), nil
}

// IngestFile registers an uploaded asset. In UPLOAD mode the raw bytes stay
// sealed behind a placeholder until the governance gate authorizes
// extraction; in TEXT mode the bytes land straight in the editor.
func (s *Service) IngestFile(name string, data []byte) (cases.Case, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cs.Mode == cases.ModeProject {
		return cases.Case{}, fmt.Errorf("%w: file ingestion requires TEXT or UPLOAD mode", ErrInvalidTransition)
	}
	if s.cs.State.InFlight() {
		return cases.Case{}, ErrCaseInFlight
	}
	if name == "" {
		return cases.Case{}, fmt.Errorf("%w: file name required", ErrInvalidTransition)
	}

	s.cs.FileName = name
	s.cs.FileType = fileTypeOf(name)
	s.cs.Raw = append([]byte(nil), data...)
	s.cs.State = cases.StateIngested
	s.cs.Trace = []cases.TraceStep{{
		ID:         "ingest",
		Label:      "ASSET INGESTION",
		Confidence: 1.0,
		Status:     cases.TraceComplete,
		Message:    fmt.Sprintf("Asset [%s] hashed. Waiting for governance authorization.", name),
	}}

	if s.cs.Mode == cases.ModeText {
		s.cs.Content = string(data)
	} else {
		s.cs.Content = fmt.Sprintf("[PENDING GOVERNANCE AUTHORIZATION]\n\nFile: %s\nSize: %d bytes\n\nContent extraction is currently LOCKED.", name, len(data))
	}

	s.log.WithFields(logrus.Fields{"file": name, "type": s.cs.FileType, "bytes": len(data)}).Info("asset ingested")
	return s.snapshotLocked(), nil
}

func fileTypeOf(name string) string {
	i := strings.LastIndex(name, ".")
	if i < 0 || i == len(name)-1 {
		return "UNKNOWN"
	}
	return strings.ToUpper(name[i+1:])
}

// SetProject records the structured fields of a PROJECT case.
func (s *Service) SetProject(req cases.ProjectRequest) (cases.Case, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cs.Mode != cases.ModeProject {
		return cases.Case{}, fmt.Errorf("%w: project fields require PROJECT mode", ErrInvalidTransition)
	}
	if s.cs.State.InFlight() {
		return cases.Case{}, ErrCaseInFlight
	}
	if strings.TrimSpace(req.ProjectName) == "" {
		return cases.Case{}, ErrEmptyProjectName
	}
	s.cs.Project = req
	return s.snapshotLocked(), nil
}

// LoadDemo switches to PROJECT mode preloaded with one of the canned
// scenarios: HIGH_RISK or LOW_RISK.
func (s *Service) LoadDemo(scenario string) (cases.Case, error) {
	var req cases.ProjectRequest
	switch strings.ToUpper(scenario) {
	case "HIGH_RISK":
		req = cases.DemoHighRisk
	case "LOW_RISK":
		req = cases.DemoLowRisk
	default:
		return cases.Case{}, fmt.Errorf("%w: %q", ErrUnknownScenario, scenario)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cs = s.freshCase(cases.ModeProject)
	s.cs.Project = req
	s.priorState = cases.StateIdle
	return s.snapshotLocked(), nil
}

// Case returns a snapshot of the live case.
func (s *Service) Case() cases.Case {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Report returns the current analysis report.
func (s *Service) Report() (reports.AnalysisReport, error) {
	r, ok := s.reports.Current()
	if !ok {
		return reports.AnalysisReport{}, ErrNoReport
	}
	return r, nil
}

// AuditEntries returns the ledger, newest first.
func (s *Service) AuditEntries() []audit.Entry {
	return s.ledger.Entries()
}

// snapshotLocked copies the case value with its slices detached. Caller
// holds the lock.
func (s *Service) snapshotLocked() cases.Case {
	c := *s.cs
	c.Raw = nil
	c.BlindSpots = append([]string(nil), s.cs.BlindSpots...)
	c.Trace = append([]cases.TraceStep(nil), s.cs.Trace...)
	c.ToolLogs = append([]string(nil), s.cs.ToolLogs...)
	c.ReasoningLogs = append([]cases.LogEntry(nil), s.cs.ReasoningLogs...)
	c.RedTeamFindings = append([]string(nil), s.cs.RedTeamFindings...)
	return c
}

// reasonLogLocked appends one reasoning console entry. Caller holds the lock.
func (s *Service) reasonLogLocked(t cases.LogType, msg string) {
	s.cs.ReasoningLogs = append(s.cs.ReasoningLogs, cases.LogEntry{
		ID:        uuid.NewString(),
		Timestamp: s.clock.Now().Format("15:04:05"),
		Type:      t,
		Message:   msg,
		Agent:     "ORCHESTRATOR",
	})
}
