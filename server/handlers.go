package server

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"

	"prompt_page_studio/composer"
	"prompt_page_studio/events"
	"prompt_page_studio/features"
	"prompt_page_studio/generator"
	"prompt_page_studio/idgen"
	"prompt_page_studio/kickstarters"
	"prompt_page_studio/pageconfig"
	"prompt_page_studio/widget"
)

type sessionView struct {
	ID       string            `json:"id"`
	PageID   string            `json:"page_id"`
	Config   pageconfig.Config `json:"config"`
	Dirty    bool              `json:"dirty"`
	Hydrated bool              `json:"hydrated"`
}

func view(id string, e *composer.Engine) sessionView {
	return sessionView{ID: id, PageID: e.PageID(), Config: e.Snapshot(), Dirty: e.Dirty(), Hydrated: e.Hydrated()}
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleCatalog(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.opts.Catalog.ByCategory())
}

func (s *Server) deps() composer.Deps {
	return composer.Deps{
		Pages:        s.opts.Pages,
		Catalog:      s.opts.Catalog,
		Loader:       s.opts.Loader,
		AccountID:    s.opts.AccountID,
		Assistant:    s.opts.Assistant,
		Observer:     s.opts.Metrics,
		AfterSave:    s.afterSave,
		AfterPublish: s.afterPublish,
	}
}

func (s *Server) afterSave(ctx context.Context, r composer.Receipt) {
	ev := events.PageSaved{PageID: r.PageID, Slug: r.Config.Slug, Mode: string(r.Mode), SavedAt: r.SavedAt}
	if err := s.opts.Events.Publish(ctx, events.TopicPageSaved, ev); err != nil {
		log.Warn().Err(err).Str("page_id", r.PageID).Msg("page saved event not published")
	}
}

func (s *Server) afterPublish(ctx context.Context, r composer.Receipt) error {
	var url string
	if s.opts.Publisher != nil {
		u, err := s.opts.Publisher.Publish(ctx, r.Config)
		if err != nil {
			return err
		}
		url = u
	}
	ev := events.PagePublished{PageID: r.PageID, Slug: r.Config.Slug, URL: url}
	return s.opts.Events.Publish(ctx, events.TopicPagePublished, ev)
}

type createSessionReq struct {
	PageID       string `json:"page_id"`
	BusinessName string `json:"business_name"`
}

func (s *Server) handleSessionCreate(w http.ResponseWriter, r *http.Request) {
	var req createSessionReq
	if err := decodeJSON(w, r, &req); err != nil && err != io.EOF {
		writeError(w, fmt.Errorf("%w: %v", errBadRequest, err))
		return
	}
	if req.PageID == "" {
		id, err := idgen.Generate()
		if err != nil {
			writeError(w, err)
			return
		}
		req.PageID = id
	}
	e, err := composer.Open(r.Context(), req.PageID, s.deps())
	if err != nil {
		writeError(w, err)
		return
	}
	if req.BusinessName != "" {
		e.SetBusinessName(req.BusinessName)
	}
	id, err := s.store.add(e)
	if err != nil {
		writeError(w, err)
		return
	}
	log.Info().Str("session", id).Str("page_id", req.PageID).Bool("hydrated", e.Hydrated()).Msg("edit session opened")
	writeJSON(w, http.StatusCreated, view(id, e))
}

// session resolves the {id} route variable, writing a 404 when it is unknown.
func (s *Server) session(w http.ResponseWriter, r *http.Request) (string, *composer.Engine, bool) {
	id := mux.Vars(r)["id"]
	e, ok := s.store.get(id)
	if !ok {
		writeError(w, fmt.Errorf("%w: %s", errSessionNotFound, id))
		return id, nil, false
	}
	return id, e, true
}

func (s *Server) handleSessionGet(w http.ResponseWriter, r *http.Request) {
	id, e, ok := s.session(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, view(id, e))
}

func (s *Server) handleSessionClose(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if !s.store.remove(id) {
		writeError(w, fmt.Errorf("%w: %s", errSessionNotFound, id))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleReload(w http.ResponseWriter, r *http.Request) {
	id, e, ok := s.session(w, r)
	if !ok {
		return
	}
	rec, err := s.opts.Pages.Load(r.Context(), e.PageID())
	if err != nil {
		writeError(w, err)
		return
	}
	applied, err := e.Hydrate(rec)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, struct {
		Applied bool `json:"applied"`
		sessionView
	}{applied, view(id, e)})
}

func (s *Server) handleBusinessName(w http.ResponseWriter, r *http.Request) {
	id, e, ok := s.session(w, r)
	if !ok {
		return
	}
	var req struct {
		BusinessName string `json:"business_name"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, fmt.Errorf("%w: %v", errBadRequest, err))
		return
	}
	e.SetBusinessName(req.BusinessName)
	writeJSON(w, http.StatusOK, view(id, e))
}

type outcomeResp struct {
	composer.Outcome
	Config pageconfig.Config `json:"config"`
}

// writeOutcome answers 409 for a conflict so clients can show the notice.
func writeOutcome(w http.ResponseWriter, e *composer.Engine, out composer.Outcome) {
	status := http.StatusOK
	if out.Conflict != nil {
		status = http.StatusConflict
	}
	writeJSON(w, status, outcomeResp{Outcome: out, Config: e.Snapshot()})
}

func (s *Server) handleFeatureUpdate(w http.ResponseWriter, r *http.Request) {
	_, e, ok := s.session(w, r)
	if !ok {
		return
	}
	key, err := features.ParseKey(mux.Vars(r)["feature"])
	if err != nil {
		writeError(w, err)
		return
	}
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBody))
	if err != nil {
		writeError(w, fmt.Errorf("%w: %v", errBadRequest, err))
		return
	}
	patch, err := features.DecodePatch(key, body)
	if err != nil {
		writeError(w, err)
		return
	}
	out, err := e.Update(key, patch)
	if err != nil {
		writeError(w, err)
		return
	}
	writeOutcome(w, e, out)
}

func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	_, e, ok := s.session(w, r)
	if !ok {
		return
	}
	v := e.Validate()
	if v == nil {
		v = []features.Violation{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"valid": len(v) == 0, "violations": v})
}

func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	_, e, ok := s.session(w, r)
	if !ok {
		return
	}
	mode, err := composer.ParseMode(r.URL.Query().Get("mode"))
	if err != nil {
		writeError(w, fmt.Errorf("%w: %v", errBadRequest, err))
		return
	}
	receipt, err := e.Submit(r.Context(), mode)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, receipt)
}

func (s *Server) handleKickstarterToggle(w http.ResponseWriter, r *http.Request) {
	_, e, ok := s.session(w, r)
	if !ok {
		return
	}
	out, err := e.ToggleKickstarter(mux.Vars(r)["item"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeOutcome(w, e, out)
}

type createKickstarterReq struct {
	Question string `json:"question"`
	Category string `json:"category"`
	Select   bool   `json:"select"`
}

func (s *Server) handleKickstarterCreate(w http.ResponseWriter, r *http.Request) {
	_, e, ok := s.session(w, r)
	if !ok {
		return
	}
	var req createKickstarterReq
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, fmt.Errorf("%w: %v", errBadRequest, err))
		return
	}
	cat, err := kickstarters.ParseCategory(req.Category)
	if err != nil {
		writeError(w, fmt.Errorf("%w: %v", errBadRequest, err))
		return
	}
	item, err := e.CreateKickstarter(r.Context(), req.Question, cat, req.Select)
	if err != nil {
		writeError(w, err)
		return
	}
	ev := events.KickstarterCreated{AccountID: s.opts.AccountID, ItemID: item.ID, Category: string(item.Category)}
	if err := s.opts.Events.Publish(r.Context(), events.TopicKickstarterCreated, ev); err != nil {
		log.Warn().Err(err).Str("item", item.ID).Msg("kickstarter created event not published")
	}
	writeJSON(w, http.StatusCreated, map[string]any{"item": item, "config": e.Snapshot()})
}

func (s *Server) handleKickstarterDelete(w http.ResponseWriter, r *http.Request) {
	_, e, ok := s.session(w, r)
	if !ok {
		return
	}
	itemID := mux.Vars(r)["item"]
	if err := e.DeleteKickstarter(r.Context(), itemID); err != nil {
		writeError(w, err)
		return
	}
	ev := events.KickstarterDeleted{AccountID: s.opts.AccountID, ItemID: itemID}
	if err := s.opts.Events.Publish(r.Context(), events.TopicKickstarterDeleted, ev); err != nil {
		log.Warn().Err(err).Str("item", itemID).Msg("kickstarter deleted event not published")
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleKickstarterExample(w http.ResponseWriter, r *http.Request) {
	_, e, ok := s.session(w, r)
	if !ok {
		return
	}
	text, err := e.KickstarterExample()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"example": text})
}

func (s *Server) widgetOptions(opts widget.Options) widget.Options {
	if opts.BaseURL == "" {
		opts.BaseURL = s.opts.PublicBaseURL
	}
	if opts.AssetBaseURL == "" {
		opts.AssetBaseURL = s.opts.AssetBaseURL
	}
	opts.Target = widget.ParseTarget(string(opts.Target))
	return opts
}

func (s *Server) handleWidget(w http.ResponseWriter, r *http.Request) {
	_, e, ok := s.session(w, r)
	if !ok {
		return
	}
	var opts widget.Options
	if err := decodeJSON(w, r, &opts); err != nil && err != io.EOF {
		writeError(w, fmt.Errorf("%w: %v", errBadRequest, err))
		return
	}
	res, err := e.Widget(s.widgetOptions(opts))
	if err != nil {
		writeError(w, err)
		return
	}
	s.opts.Metrics.WidgetRendered(res.Target)
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleWidgetPreview(w http.ResponseWriter, r *http.Request) {
	_, e, ok := s.session(w, r)
	if !ok {
		return
	}
	opts := s.widgetOptions(widget.Options{
		Target:    widget.Target(r.URL.Query().Get("target")),
		ShowCard:  r.URL.Query().Get("card") != "false",
		EmojiSize: r.URL.Query().Get("emoji_size"),
	})
	res, err := e.Widget(opts)
	if err != nil {
		writeError(w, err)
		return
	}
	s.opts.Metrics.WidgetRendered(res.Target)
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = io.WriteString(w, string(res.Preview))
}

func platformIndex(r *http.Request) (int, error) {
	raw := mux.Vars(r)["index"]
	index, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: platform index %q", errBadRequest, raw)
	}
	return index, nil
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	_, e, ok := s.session(w, r)
	if !ok {
		return
	}
	index, err := platformIndex(r)
	if err != nil {
		writeError(w, err)
		return
	}
	text, err := e.Generate(r.Context(), index)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"text": text})
}

// handleDrafts lists the drafts generated for one platform in this session,
// oldest first.
func (s *Server) handleDrafts(w http.ResponseWriter, r *http.Request) {
	_, e, ok := s.session(w, r)
	if !ok {
		return
	}
	index, err := platformIndex(r)
	if err != nil {
		writeError(w, err)
		return
	}
	platforms := e.Snapshot().Platforms
	if index < 0 || index >= len(platforms) {
		writeError(w, fmt.Errorf("%w: index %d", composer.ErrPlatformNotFound, index))
		return
	}
	drafts := e.Drafts(platforms[index].DisplayName())
	if drafts == nil {
		drafts = []generator.Turn{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"drafts": drafts})
}

func (s *Server) handleGrammar(w http.ResponseWriter, r *http.Request) {
	_, e, ok := s.session(w, r)
	if !ok {
		return
	}
	var req struct {
		Text string `json:"text"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, fmt.Errorf("%w: %v", errBadRequest, err))
		return
	}
	text, err := e.FixGrammar(r.Context(), req.Text)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"text": text})
}
