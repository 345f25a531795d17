package httpserver

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/sirupsen/logrus"

	"github.com/Sridevivaradharajan/AtlasGuard/internal/application/session"
	"github.com/Sridevivaradharajan/AtlasGuard/internal/domain/ai"
	"github.com/Sridevivaradharajan/AtlasGuard/internal/domain/cases"
	"github.com/Sridevivaradharajan/AtlasGuard/internal/middleware"
	"github.com/Sridevivaradharajan/AtlasGuard/internal/render/markdown"
)

type Router struct {
	svc *session.Service
	log *logrus.Logger
}

// Options tune the outer middleware stack.
type Options struct {
	CORSOrigins       []string
	RateLimitCapacity int
	RateLimitRefill   int
}

func NewRouter(svc *session.Service, log *logrus.Logger, opts Options) http.Handler {
	r := &Router{svc: svc, log: log}
	mux := chi.NewRouter()

	if len(opts.CORSOrigins) > 0 {
		mux.Use(cors.Handler(cors.Options{
			AllowedOrigins:   opts.CORSOrigins,
			AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
			AllowedHeaders:   []string{"Authorization", "Content-Type"},
			AllowCredentials: true,
		}))
	}
	mux.Use(middleware.RequestLogger(log))
	mux.Use(middleware.MetricsMiddleware)
	if opts.RateLimitCapacity > 0 {
		mux.Use(middleware.RateLimitMiddleware(opts.RateLimitCapacity, opts.RateLimitRefill))
	}

	mux.Get("/health", middleware.LivenessHandler)
	mux.Get("/metrics", middleware.MetricsHandler)
	mux.Post("/v1/login", r.wrap(r.handleLogin))

	mux.Route("/v1", func(rt chi.Router) {
		rt.Use(middleware.SessionAuth(svc))

		rt.Post("/logout", r.wrap(r.handleLogout))

		rt.Route("/dashboard", func(d chi.Router) {
			d.Get("/case", r.wrap(r.handleCase))
			d.Post("/mode", r.wrap(r.handleMode))
			d.Post("/ingest/text", r.wrap(r.handleIngestText))
			d.Post("/ingest/file", r.wrap(r.handleIngestFile))
			d.Post("/ingest/project", r.wrap(r.handleIngestProject))
			d.Post("/demo", r.wrap(r.handleDemo))
			d.Post("/analyze", r.wrap(r.handleAnalyze))
			d.Post("/redteam", r.wrap(r.handleRedTeam))
			d.Post("/override", r.wrap(r.handleOverrideBegin))
			d.Post("/override/confirm", r.wrap(r.handleOverrideConfirm))
			d.Post("/override/cancel", r.wrap(r.handleOverrideCancel))
			d.Post("/remediate", r.wrap(r.handleRemediate))
		})

		rt.Get("/report", r.wrap(r.handleReport))
		rt.Get("/report/markdown", r.wrap(r.handleReportMarkdown))
		rt.Get("/audit", r.wrap(r.handleAudit))
	})

	return mux
}

type handlerFunc func(http.ResponseWriter, *http.Request) error

func (r *Router) wrap(h handlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		if err := h(w, req); err != nil {
			status := http.StatusInternalServerError
			switch {
			case errors.Is(err, session.ErrInvalidCredentials),
				errors.Is(err, session.ErrNotAuthenticated):
				status = http.StatusUnauthorized
			case errors.Is(err, session.ErrLockedOut):
				status = http.StatusLocked
			case errors.Is(err, session.ErrCaseInFlight):
				status = http.StatusConflict
			case errors.Is(err, session.ErrInvalidTransition):
				status = http.StatusConflict
			case errors.Is(err, session.ErrEmptyJustification),
				errors.Is(err, session.ErrEmptyProjectName),
				errors.Is(err, session.ErrUnknownScenario),
				errors.Is(err, errBadRequest):
				status = http.StatusBadRequest
			case errors.Is(err, session.ErrNoReport):
				status = http.StatusNotFound
			case errors.Is(err, ai.ErrQuotaExceeded):
				status = http.StatusTooManyRequests
			}
			http.Error(w, err.Error(), status)
		}
	}
}

var errBadRequest = errors.New("bad request")

func badRequest(msg string) error {
	return errors.Join(errBadRequest, errors.New(msg))
}

func writeJSON(w http.ResponseWriter, status int, v any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(v)
}

// POST /v1/login
func (r *Router) handleLogin(w http.ResponseWriter, req *http.Request) error {
	var body struct {
		ID  string `json:"id"`
		Key string `json:"key"`
	}
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		return badRequest("invalid JSON body")
	}
	token, user, err := r.svc.Login(body.ID, body.Key)
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, map[string]any{
		"token": token,
		"user": map[string]any{
			"id":        user.ID,
			"name":      user.Name,
			"role":      user.Role,
			"clearance": user.Clearance,
		},
	})
}

// POST /v1/logout
func (r *Router) handleLogout(w http.ResponseWriter, req *http.Request) error {
	r.svc.Logout(middleware.GetTokenFromContext(req.Context()))
	return writeJSON(w, http.StatusOK, map[string]string{"status": "logged_out"})
}

// GET /v1/dashboard/case
func (r *Router) handleCase(w http.ResponseWriter, req *http.Request) error {
	return writeJSON(w, http.StatusOK, r.svc.Case())
}

// POST /v1/dashboard/mode
func (r *Router) handleMode(w http.ResponseWriter, req *http.Request) error {
	var body struct {
		Mode string `json:"mode"`
	}
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		return badRequest("invalid JSON body")
	}
	if err := middleware.ValidateMode(body.Mode); err != nil {
		return badRequest(err.Error())
	}
	c, err := r.svc.SwitchMode(cases.IngestionMode(body.Mode))
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, c)
}

// POST /v1/dashboard/ingest/text
func (r *Router) handleIngestText(w http.ResponseWriter, req *http.Request) error {
	var body struct {
		Content string `json:"content"`
	}
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		return badRequest("invalid JSON body")
	}
	c, err := r.svc.IngestText(body.Content)
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, c)
}

// POST /v1/dashboard/ingest/file
// Body: {"name": "report.pdf", "data": "<base64>"}
func (r *Router) handleIngestFile(w http.ResponseWriter, req *http.Request) error {
	var body struct {
		Name string `json:"name"`
		Data string `json:"data"`
	}
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		return badRequest("invalid JSON body")
	}
	if err := middleware.ValidateFileName(body.Name); err != nil {
		return badRequest(err.Error())
	}
	data, err := base64.StdEncoding.DecodeString(body.Data)
	if err != nil {
		return badRequest("data must be base64 encoded")
	}
	c, err := r.svc.IngestFile(body.Name, data)
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, c)
}

// POST /v1/dashboard/ingest/project
func (r *Router) handleIngestProject(w http.ResponseWriter, req *http.Request) error {
	var body cases.ProjectRequest
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		return badRequest("invalid JSON body")
	}
	body.ProjectName = middleware.SanitizeString(body.ProjectName)
	body.ModelType = middleware.SanitizeString(body.ModelType)
	c, err := r.svc.SetProject(body)
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, c)
}

// POST /v1/dashboard/demo
func (r *Router) handleDemo(w http.ResponseWriter, req *http.Request) error {
	var body struct {
		Scenario string `json:"scenario"`
	}
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		return badRequest("invalid JSON body")
	}
	c, err := r.svc.LoadDemo(body.Scenario)
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, c)
}

// POST /v1/dashboard/analyze
// The pipeline continues in the background; poll GET /case for progress.
func (r *Router) handleAnalyze(w http.ResponseWriter, req *http.Request) error {
	token, err := r.svc.StartAnalysis()
	if err != nil {
		return err
	}
	middleware.IncrementAnalyses()

	// The request context dies with this handler; the pipeline outlives it.
	go func() {
		if err := r.svc.RunAnalysis(context.Background(), token); err != nil {
			middleware.IncrementAnalysesFailed()
			r.log.WithError(err).Error("background analysis error")
		}
	}()

	return writeJSON(w, http.StatusAccepted, map[string]any{
		"status": "queued",
		"token":  token,
		"state":  r.svc.Case().State,
	})
}

// POST /v1/dashboard/redteam
func (r *Router) handleRedTeam(w http.ResponseWriter, req *http.Request) error {
	token, err := r.svc.StartRedTeam()
	if err != nil {
		return err
	}
	middleware.IncrementRedTeamRuns()

	go func() {
		if err := r.svc.RunRedTeam(context.Background(), token); err != nil {
			r.log.WithError(err).Error("background red team error")
		}
	}()

	return writeJSON(w, http.StatusAccepted, map[string]any{
		"status": "queued",
		"token":  token,
	})
}

// POST /v1/dashboard/override
func (r *Router) handleOverrideBegin(w http.ResponseWriter, req *http.Request) error {
	if err := r.svc.BeginOverride(); err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, r.svc.Case())
}

// POST /v1/dashboard/override/confirm
func (r *Router) handleOverrideConfirm(w http.ResponseWriter, req *http.Request) error {
	var body struct {
		Justification string `json:"justification"`
	}
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		return badRequest("invalid JSON body")
	}
	if err := middleware.ValidateJustification(body.Justification); err != nil {
		return badRequest(err.Error())
	}
	user, ok := middleware.GetUserFromContext(req.Context())
	if !ok {
		return session.ErrNotAuthenticated
	}
	if err := r.svc.ConfirmOverride(user, body.Justification); err != nil {
		return err
	}
	middleware.IncrementOverrides()
	return writeJSON(w, http.StatusOK, r.svc.Case())
}

// POST /v1/dashboard/override/cancel
func (r *Router) handleOverrideCancel(w http.ResponseWriter, req *http.Request) error {
	if err := r.svc.CancelOverride(); err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, r.svc.Case())
}

// POST /v1/dashboard/remediate
func (r *Router) handleRemediate(w http.ResponseWriter, req *http.Request) error {
	if err := r.svc.ApplyRemediation(); err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, r.svc.Case())
}

// GET /v1/report
func (r *Router) handleReport(w http.ResponseWriter, req *http.Request) error {
	report, err := r.svc.Report()
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, report)
}

// GET /v1/report/markdown
// Returns the assessment rendered as display blocks.
func (r *Router) handleReportMarkdown(w http.ResponseWriter, req *http.Request) error {
	report, err := r.svc.Report()
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, map[string]any{
		"reportId": report.ID,
		"blocks":   markdown.Render(report.MarkdownAssessment),
	})
}

// GET /v1/audit?limit=20
func (r *Router) handleAudit(w http.ResponseWriter, req *http.Request) error {
	limit, _ := strconv.Atoi(req.URL.Query().Get("limit"))
	limit = middleware.ValidateLimit(limit)

	entries := r.svc.AuditEntries()
	if len(entries) > limit {
		entries = entries[:limit]
	}
	return writeJSON(w, http.StatusOK, entries)
}
