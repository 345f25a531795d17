package audit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sridevivaradharajan/AtlasGuard/internal/domain/reports"
)

func TestLedgerPrepends(t *testing.T) {
	l := NewLedger(SeedEntries()...)
	require.Equal(t, 2, l.Len())

	l.Append(Entry{ID: "LOG-OVERRIDE-1", Mode: "HUMAN_OVERRIDE"})

	entries := l.Entries()
	require.Len(t, entries, 3)
	assert.Equal(t, "LOG-OVERRIDE-1", entries[0].ID)
	assert.Equal(t, "LOG-892", entries[1].ID)
}

func TestLedgerSnapshotIsDetached(t *testing.T) {
	l := NewLedger(SeedEntries()...)
	snap := l.Entries()
	snap[0].ID = "mutated"
	assert.Equal(t, "LOG-892", l.Entries()[0].ID)
}

func TestReportSinkAmendWithoutReport(t *testing.T) {
	s := NewReportSink()
	called := false
	s.Amend(func(r reports.AnalysisReport) reports.AnalysisReport {
		called = true
		return r
	})
	assert.False(t, called)
	_, ok := s.Current()
	assert.False(t, ok)
}

func TestReportSinkSetAndAmend(t *testing.T) {
	s := NewReportSink()
	s.Set(reports.AnalysisReport{ID: "GOV-000001", RiskScore: 80})

	s.Amend(func(r reports.AnalysisReport) reports.AnalysisReport {
		r.RiskScore = 5
		return r
	})

	got, ok := s.Current()
	require.True(t, ok)
	assert.Equal(t, "GOV-000001", got.ID)
	assert.Equal(t, 5, got.RiskScore)
}
