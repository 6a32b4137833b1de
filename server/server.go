// Package server exposes prompt page edit sessions over HTTP.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"

	"prompt_page_studio/composer"
	"prompt_page_studio/events"
	"prompt_page_studio/kickstarters"
	"prompt_page_studio/metrics"
	"prompt_page_studio/publisher"
	"prompt_page_studio/store"
)

// DefaultAccountID owns custom kickstarters when no account is configured.
const DefaultAccountID = "default"

// Options wires the server's collaborators. Pages and Catalog are required.
type Options struct {
	Pages     store.Pages
	Catalog   *kickstarters.Catalog
	Loader    *kickstarters.Loader
	AccountID string
	Assistant composer.Assistant
	Events    events.Publisher
	// Publisher uploads public pages on publish; nil skips snapshots.
	Publisher     *publisher.Publisher
	Metrics       *metrics.Registry
	PublicBaseURL string
	AssetBaseURL  string
	SessionTTL    time.Duration
}

type Server struct {
	opts  Options
	store *sessionStore
}

func New(opts Options) (*Server, error) {
	if opts.Pages == nil {
		return nil, errors.New("page store required")
	}
	if opts.Catalog == nil {
		return nil, errors.New("kickstarter catalog required")
	}
	if opts.Events == nil {
		opts.Events = events.NoopPublisher{}
	}
	if opts.Metrics == nil {
		opts.Metrics = metrics.New()
	}
	if opts.AccountID == "" {
		opts.AccountID = DefaultAccountID
	}
	if opts.SessionTTL <= 0 {
		opts.SessionTTL = 2 * time.Hour
	}
	return &Server{opts: opts, store: newStore(opts.Metrics)}, nil
}

func (s *Server) Routes() http.Handler {
	r := mux.NewRouter()
	r.Use(requestIDMiddleware)
	r.Use(s.logMiddleware)

	r.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
	r.Handle("/metrics", s.opts.Metrics.Handler()).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/kickstarters", s.handleCatalog).Methods(http.MethodGet)
	api.HandleFunc("/sessions", s.handleSessionCreate).Methods(http.MethodPost)

	sess := api.PathPrefix("/sessions/{id}").Subrouter()
	sess.HandleFunc("", s.handleSessionGet).Methods(http.MethodGet)
	sess.HandleFunc("", s.handleSessionClose).Methods(http.MethodDelete)
	sess.HandleFunc("/reload", s.handleReload).Methods(http.MethodPost)
	sess.HandleFunc("/business-name", s.handleBusinessName).Methods(http.MethodPut)
	sess.HandleFunc("/features/{feature}", s.handleFeatureUpdate).Methods(http.MethodPatch)
	sess.HandleFunc("/validate", s.handleValidate).Methods(http.MethodGet)
	sess.HandleFunc("/submit", s.handleSubmit).Methods(http.MethodPost)
	sess.HandleFunc("/kickstarters", s.handleKickstarterCreate).Methods(http.MethodPost)
	sess.HandleFunc("/kickstarters/example", s.handleKickstarterExample).Methods(http.MethodGet)
	sess.HandleFunc("/kickstarters/{item}/toggle", s.handleKickstarterToggle).Methods(http.MethodPost)
	sess.HandleFunc("/kickstarters/{item}", s.handleKickstarterDelete).Methods(http.MethodDelete)
	sess.HandleFunc("/widget", s.handleWidget).Methods(http.MethodPost)
	sess.HandleFunc("/widget/preview", s.handleWidgetPreview).Methods(http.MethodGet)
	sess.HandleFunc("/platforms/{index}/generate", s.handleGenerate).Methods(http.MethodPost)
	sess.HandleFunc("/platforms/{index}/drafts", s.handleDrafts).Methods(http.MethodGet)
	sess.HandleFunc("/grammar", s.handleGrammar).Methods(http.MethodPost)
	return r
}

// StartReaper closes sessions idle for longer than the session TTL until ctx
// is done.
func (s *Server) StartReaper(ctx context.Context, every time.Duration) {
	go func() {
		t := time.NewTicker(every)
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case now := <-t.C:
				if n := s.store.sweep(now, s.opts.SessionTTL); n > 0 {
					log.Info().Int("closed", n).Msg("idle edit sessions closed")
				}
			}
		}
	}()
}

// --- Middleware ---

type ctxKey struct{}

func requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := uuid.New().String()[:8]
		w.Header().Set("X-Request-ID", id)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxKey{}, id)))
	})
}

func requestID(r *http.Request) string {
	id, _ := r.Context().Value(ctxKey{}).(string)
	return id
}

func (s *Server) logMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rw := &responseWrapper{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(rw, r)
		took := time.Since(start)

		route := r.URL.Path
		if cur := mux.CurrentRoute(r); cur != nil {
			if tpl, err := cur.GetPathTemplate(); err == nil {
				route = tpl
			}
		}
		s.opts.Metrics.RequestDuration.WithLabelValues(route, strconv.Itoa(rw.statusCode)).Observe(took.Seconds())
		log.Debug().
			Str("request_id", requestID(r)).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", rw.statusCode).
			Dur("took", took).
			Msg("request")
	})
}

type responseWrapper struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWrapper) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// --- Helpers ---

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

type errorResp struct {
	Error      string `json:"error"`
	Violations any    `json:"violations,omitempty"`
	Retryable  bool   `json:"retryable,omitempty"`
}

func writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	resp := errorResp{Error: err.Error()}
	var (
		verr *composer.ValidationError
		perr *composer.PersistenceError
	)
	switch {
	case errors.As(err, &verr):
		resp.Violations = verr.Violations
	case errors.As(err, &perr):
		resp.Retryable = perr.Retryable()
		w.Header().Set("Retry-After", "1")
	}
	if status >= http.StatusInternalServerError {
		log.Error().Err(err).Int("status", status).Msg("request failed")
	}
	writeJSON(w, status, resp)
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBody))
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

const maxBody = 1 << 20
