package audit

import (
	"sync"
)

// Entry is one immutable row in the audit ledger.
type Entry struct {
	ID            string `json:"id"`
	Time          string `json:"time"`
	Mode          string `json:"mode"`
	Details       string `json:"details"`
	Risk          string `json:"risk"`
	Action        string `json:"action"`
	Status        string `json:"status"`
	Justification string `json:"justification,omitempty"`
}

// Ledger is the process-wide audit log: append-only, newest first, never
// pruned during a session. There is no persistence.
type Ledger struct {
	mu      sync.Mutex
	entries []Entry
}

func NewLedger(seed ...Entry) *Ledger {
	l := &Ledger{}
	l.entries = append(l.entries, seed...)
	return l
}

// Append prepends the entry so the ledger reads most-recent-first.
func (l *Ledger) Append(e Entry) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append([]Entry{e}, l.entries...)
}

// Entries returns a snapshot of the ledger.
func (l *Ledger) Entries() []Entry {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]Entry, len(l.entries))
	copy(out, l.entries)
	return out
}

func (l *Ledger) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}

// SeedEntries returns the historical rows the dashboard ships with.
func SeedEntries() []Entry {
	return []Entry{
		{ID: "LOG-892", Time: "10:42 AM", Mode: "PYTHON", Details: "training_script_v1.py", Risk: "PII_LEAK", Action: "AUTO_REFACTOR", Status: "RESOLVED"},
		{ID: "LOG-893", Time: "10:45 AM", Mode: "NATURAL", Details: "Scrape LinkedIn for addresses...", Risk: "PHISHING", Action: "BLOCKED", Status: "BLOCKED"},
	}
}
