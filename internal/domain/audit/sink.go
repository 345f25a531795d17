package audit

import (
	"sync"

	"github.com/Sridevivaradharajan/AtlasGuard/internal/domain/reports"
)

// ReportSink holds the single current report shown in the report view. The
// report is replaced, never mutated in place; amendments go through Amend.
type ReportSink struct {
	mu      sync.Mutex
	current *reports.AnalysisReport
}

func NewReportSink() *ReportSink { return &ReportSink{} }

// Set replaces the current report.
func (s *ReportSink) Set(r reports.AnalysisReport) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = &r
}

// Amend replaces the current report with fn applied to it. When no report
// exists the call is a no-op.
func (s *ReportSink) Amend(fn func(reports.AnalysisReport) reports.AnalysisReport) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return
	}
	amended := fn(*s.current)
	s.current = &amended
}

// Current returns the current report, if any.
func (s *ReportSink) Current() (reports.AnalysisReport, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return reports.AnalysisReport{}, false
	}
	return *s.current, true
}
