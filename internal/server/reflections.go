package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/apresai/ikigen/internal/insight"
	"github.com/apresai/ikigen/internal/reflection"
)

// StepRequest is the body of PUT /api/reflections/{id}/steps/{step}.
type StepRequest struct {
	Answer string `json:"answer"`
}

// StepResponse echoes the stored answer and, when generated, its insight.
type StepResponse struct {
	Step    reflection.StepID `json:"step"`
	Answer  string            `json:"answer"`
	Insight string            `json:"insight,omitempty"`
}

// ExportResponse locates an exported reflection.
type ExportResponse struct {
	Key string `json:"key"`
	URL string `json:"url"`
}

func (s *Server) loadSession(w http.ResponseWriter, r *http.Request) (*reflection.Session, bool) {
	sess, err := s.deps.Store.Load(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeStoreError(w, r, err)
		return nil, false
	}
	return sess, true
}

func (s *Server) writeStoreError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, reflection.ErrNotFound):
		writeError(w, http.StatusNotFound, "reflection not found")
	case errors.Is(err, reflection.ErrUnknownStep):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		s.log.ErrorContext(r.Context(), "Reflection store error", "error", err)
		writeError(w, http.StatusInternalServerError, "reflection store error")
	}
}

func (s *Server) handleCreateReflection(w http.ResponseWriter, r *http.Request) {
	sess, err := s.deps.Store.Create(r.Context())
	if err != nil {
		s.writeStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, sess)
}

func (s *Server) handleGetReflection(w http.ResponseWriter, r *http.Request) {
	if sess, ok := s.loadSession(w, r); ok {
		writeJSON(w, http.StatusOK, sess)
	}
}

func (s *Server) handleDeleteReflection(w http.ResponseWriter, r *http.Request) {
	if err := s.deps.Store.Delete(r.Context(), r.PathValue("id")); err != nil {
		s.writeStoreError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleSetStep stores an answer and then, unless ?insight=false, generates
// the step insight. The answer stays saved when generation fails.
func (s *Server) handleSetStep(w http.ResponseWriter, r *http.Request) {
	step, err := reflection.LookupStep(reflection.StepID(r.PathValue("step")))
	if err != nil {
		s.writeStoreError(w, r, err)
		return
	}
	var req StepRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	sess, ok := s.loadSession(w, r)
	if !ok {
		return
	}

	_ = sess.Data.Set(step.ID, req.Answer)
	if err := s.deps.Store.Save(r.Context(), sess); err != nil {
		s.writeStoreError(w, r, err)
		return
	}

	resp := StepResponse{Step: step.ID, Answer: req.Answer}
	if r.URL.Query().Get("insight") == "false" || strings.TrimSpace(req.Answer) == "" {
		writeJSON(w, http.StatusOK, resp)
		return
	}

	res, err := s.deps.Insight.Insight(r.Context(), insight.Request{
		Input:    req.Answer,
		Context:  step.Title,
		Question: step.Question,
	})
	if err != nil {
		s.writeInsightError(w, err)
		return
	}
	_ = sess.SetInsight(step.ID, res.Summary)
	if err := s.deps.Store.Save(r.Context(), sess); err != nil {
		s.writeStoreError(w, r, err)
		return
	}
	resp.Insight = res.Summary
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.loadSession(w, r)
	if !ok {
		return
	}
	if !sess.Data.Complete() {
		writeError(w, http.StatusBadRequest, "all four reflection steps must be answered first")
		return
	}

	res, err := s.deps.Insight.Insight(r.Context(), insight.Request{
		Input:    sess.Data.SummaryInput(),
		Context:  insight.ContextSummary,
		Question: reflection.SummaryQuestion,
	})
	if err != nil {
		s.writeInsightError(w, err)
		return
	}

	sess.Summary = res.Structured
	if sess.Summary == nil {
		sess.Summary = &insight.Summary{Ikigai: res.Summary}
	}
	if err := s.deps.Store.Save(r.Context(), sess); err != nil {
		s.writeStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleShareReflection(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.loadSession(w, r)
	if !ok {
		return
	}
	if sess.Summary == nil || strings.TrimSpace(sess.Summary.Ikigai) == "" {
		writeError(w, http.StatusBadRequest, "reflection has no summary yet")
		return
	}
	writeJSON(w, http.StatusOK, s.sharePost(r, sess.Summary.Ikigai))
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	if s.deps.Exporter == nil {
		writeError(w, http.StatusServiceUnavailable, "export is not configured")
		return
	}
	sess, ok := s.loadSession(w, r)
	if !ok {
		return
	}

	key, url, err := s.deps.Exporter.Export(r.Context(), sess)
	if err != nil {
		s.log.ErrorContext(r.Context(), "Export failed", "id", sess.ID, "error", err)
		writeError(w, http.StatusInternalServerError, "export failed")
		return
	}
	writeJSON(w, http.StatusOK, ExportResponse{Key: key, URL: url})
}
