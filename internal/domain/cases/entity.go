package cases

// CaseToken identifies one live Case. A new token is minted on every
// reset so responses that arrive for a superseded Case can be discarded.
type CaseToken string

// AnalysisState enum
type AnalysisState string

const (
	StateIdle               AnalysisState = "IDLE"
	StateIngested           AnalysisState = "INGESTED"
	StateGovernanceGate     AnalysisState = "GOVERNANCE_GATE_REVIEW"
	StateParsingAuthorized  AnalysisState = "FORENSIC_PARSING_AUTHORIZED"
	StateContentExtracted   AnalysisState = "CONTENT_EXTRACTED"
	StateSemanticAnalysis   AnalysisState = "SEMANTIC_ANALYSIS"
	StateUncertaintyChecked AnalysisState = "UNCERTAINTY_EVALUATED"
	StateRiskDetected       AnalysisState = "RISK_DETECTED"
	StateSafe               AnalysisState = "SAFE"
	StateOverrideCeremony   AnalysisState = "OVERRIDE_CEREMONY"
	StateRedTeamSimulation  AnalysisState = "RED_TEAM_SIMULATION"
	StateCompleted          AnalysisState = "COMPLETED"
)

// InFlight reports whether the state belongs to the automated portion of the
// pipeline, during which no new analysis may be initiated.
func (s AnalysisState) InFlight() bool {
	switch s {
	case StateGovernanceGate, StateParsingAuthorized, StateContentExtracted,
		StateSemanticAnalysis, StateUncertaintyChecked, StateRedTeamSimulation:
		return true
	}
	return false
}

// IngestionMode enum
type IngestionMode string

const (
	ModeText    IngestionMode = "TEXT"
	ModeUpload  IngestionMode = "UPLOAD"
	ModeProject IngestionMode = "PROJECT"
)

// RemediationState enum
type RemediationState string

const (
	RemediationIdle     RemediationState = "IDLE"
	RemediationDetected RemediationState = "DETECTED"
	RemediationApplying RemediationState = "APPLYING"
	RemediationResolved RemediationState = "RESOLVED"
)

// ExtractionMethod enum
type ExtractionMethod string

const (
	ExtractNativeText     ExtractionMethod = "NATIVE_TEXT"
	ExtractOCRHybrid      ExtractionMethod = "OCR_HYBRID"
	ExtractBinaryParsing  ExtractionMethod = "BINARY_PARSING"
	ExtractNotebookParser ExtractionMethod = "NOTEBOOK_PARSER"
	ExtractMetadataOnly   ExtractionMethod = "METADATA_ONLY"
)

// MethodForFileType maps a file type tag to the extraction method used for it.
func MethodForFileType(fileType string) ExtractionMethod {
	switch fileType {
	case "PDF":
		return ExtractOCRHybrid
	case "DOCX", "XLSX":
		return ExtractBinaryParsing
	case "IPYNB":
		return ExtractNotebookParser
	default:
		return ExtractNativeText
	}
}

// IsCodeAsset reports whether the file type is treated as source code, which
// raises extraction confidence to full.
func IsCodeAsset(fileType string) bool {
	switch fileType {
	case "PY", "IPYNB", "JS", "TS", "JSON":
		return true
	}
	return false
}

// TraceStatus enum for decision trace steps.
type TraceStatus string

const (
	TracePending  TraceStatus = "PENDING"
	TraceActive   TraceStatus = "ACTIVE"
	TraceComplete TraceStatus = "COMPLETE"
	TraceWarn     TraceStatus = "WARN"
	TraceError    TraceStatus = "ERROR"
)

// TraceStep is one entry in a Case's ordered decision trace. Steps are
// append-only; an existing step only ever changes its own status and message.
type TraceStep struct {
	ID         string      `json:"id"`
	Label      string      `json:"label"`
	Confidence float64     `json:"confidence"`
	Status     TraceStatus `json:"status"`
	Message    string      `json:"message"`
}

// RadarVector is the fixed 5-dimension risk breakdown:
// data sensitivity, jurisdiction, model behavior, security, fairness.
type RadarVector [5]int

func DefaultRadar() RadarVector { return RadarVector{50, 50, 50, 50, 50} }

func UniformRadar(v int) RadarVector { return RadarVector{v, v, v, v, v} }

// SignalStatus enum for external tool signal widgets.
type SignalStatus string

const (
	SignalIdle    SignalStatus = "IDLE"
	SignalLoading SignalStatus = "LOADING"
	SignalDone    SignalStatus = "DONE"
)

type ToolSignal struct {
	Status SignalStatus `json:"status"`
	Value  string       `json:"value"`
}

type ToolSignals struct {
	GoogleKG ToolSignal `json:"googleKG"`
	Patents  ToolSignal `json:"patents"`
	Toxicity ToolSignal `json:"toxicity"`
}

func idleSignals() ToolSignals {
	idle := ToolSignal{Status: SignalIdle, Value: "---"}
	return ToolSignals{GoogleKG: idle, Patents: idle, Toxicity: idle}
}

// LogType enum for reasoning console entries.
type LogType string

const (
	LogInfo    LogType = "INFO"
	LogWarning LogType = "WARNING"
	LogError   LogType = "ERROR"
	LogSuccess LogType = "SUCCESS"
	LogSystem  LogType = "SYSTEM"
)

type LogEntry struct {
	ID        string  `json:"id"`
	Timestamp string  `json:"timestamp"`
	Type      LogType `json:"type"`
	Message   string  `json:"message"`
	Agent     string  `json:"agent,omitempty"`
}

// ProjectRequest holds the structured fields of a project-mode submission.
type ProjectRequest struct {
	ProjectName string `json:"projectName"`
	ModelType   string `json:"modelType"`
	DataSource  string `json:"dataSource"`
	IntendedUse string `json:"intendedUse"`
}

// Case is the single unit of work under review. Exactly one Case is live at a
// time; switching ingestion mode replaces it wholesale.
type Case struct {
	Token       CaseToken     `json:"token"`
	Mode        IngestionMode `json:"mode"`
	State       AnalysisState `json:"state"`
	Remediation RemediationState `json:"remediation"`

	Content  string         `json:"content"`
	FileName string         `json:"fileName,omitempty"`
	FileType string         `json:"fileType"`
	Raw      []byte         `json:"-"`
	Project  ProjectRequest `json:"project"`

	Extraction ExtractionMethod `json:"extraction"`
	Radar      RadarVector      `json:"radar"`
	Confidence int              `json:"confidence"`
	BlindSpots []string         `json:"blindSpots"`
	Signals    ToolSignals      `json:"signals"`

	Trace         []TraceStep `json:"trace"`
	ToolLogs      []string    `json:"toolLogs"`
	ReasoningLogs []LogEntry  `json:"reasoningLogs"`

	RedTeamFindings   []string `json:"redTeamFindings"`
	RedTeamVulnerable bool     `json:"redTeamVulnerable"`
}

// NewCase builds a fresh Case in its initial state. All derived fields start
// at their documented reset values.
func NewCase(mode IngestionMode, token CaseToken) *Case {
	return &Case{
		Token:       token,
		Mode:        mode,
		State:       StateIdle,
		Remediation: RemediationIdle,
		FileType:    "TEXT",
		Extraction:  ExtractNativeText,
		Radar:       DefaultRadar(),
		BlindSpots:  []string{},
		Signals:     idleSignals(),
		Trace:       []TraceStep{},
		ToolLogs:    []string{},
	}
}

// AppendTrace adds a step to the decision trace.
func (c *Case) AppendTrace(step TraceStep) {
	c.Trace = append(c.Trace, step)
}

// UpdateTrace mutates the status and message of an existing step in place.
// Unknown IDs are ignored.
func (c *Case) UpdateTrace(id string, status TraceStatus, message string) {
	for i := range c.Trace {
		if c.Trace[i].ID == id {
			c.Trace[i].Status = status
			if message != "" {
				c.Trace[i].Message = message
			}
			return
		}
	}
}

// AppendToolLog adds one telemetry line for the forensic console.
func (c *Case) AppendToolLog(line string) {
	c.ToolLogs = append(c.ToolLogs, line)
}

// TraceCopy returns a defensive copy of the decision trace.
func (c *Case) TraceCopy() []TraceStep {
	out := make([]TraceStep, len(c.Trace))
	copy(out, c.Trace)
	return out
}
