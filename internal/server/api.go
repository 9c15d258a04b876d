package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/apresai/ikigen/internal/insight"
	"github.com/apresai/ikigen/internal/reflection"
	"github.com/apresai/ikigen/internal/share"
	"github.com/apresai/ikigen/internal/tone"
)

const maxBodyBytes = 64 << 10

type errorResponse struct {
	Error string `json:"error"`
}

// ShareRequest is the body of POST /api/share.
type ShareRequest struct {
	Insight string `json:"insight"`
}

// ShareResponse is a composed post plus the LinkedIn share link.
type ShareResponse struct {
	Post         string `json:"post"`
	Header       string `json:"header"`
	CallToAction string `json:"callToAction"`
	WasAdjusted  bool   `json:"wasAdjusted"`
	ShareURL     string `json:"shareUrl"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid JSON body: %v", err))
		return false
	}
	return true
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "version": Version})
}

func (s *Server) handleSteps(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, reflection.Steps)
}

func (s *Server) handleInsight(w http.ResponseWriter, r *http.Request) {
	var req insight.Request
	if !decodeJSON(w, r, &req) {
		return
	}

	res, err := s.deps.Insight.Insight(r.Context(), req)
	if err != nil {
		s.writeInsightError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) writeInsightError(w http.ResponseWriter, err error) {
	status := insight.HTTPStatus(err)
	msg := "failed to generate insight"
	switch {
	case errors.Is(err, insight.ErrEmptyInput):
		msg = "input text is required"
	case errors.Is(err, insight.ErrQuotaExceeded):
		msg = "API quota exceeded, please try again later"
	case errors.Is(err, insight.ErrModelAccess):
		msg = "model not available"
	case errors.Is(err, insight.ErrNotConfigured):
		msg = "insight generation is not configured"
	}
	writeError(w, status, msg)
}

// handleToneAdjust is the server side of the tone-adjust boundary that
// tone.Client calls: it always asks the model for a first-person rewrite.
func (s *Server) handleToneAdjust(w http.ResponseWriter, r *http.Request) {
	var req tone.AdjustRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.IkigaiText) == "" {
		writeError(w, http.StatusBadRequest, "ikigaiText is required")
		return
	}

	out, err := s.deps.Insight.RewriteFirstPerson(r.Context(), req.IkigaiText, req.HeaderText)
	if err != nil {
		s.log.ErrorContext(r.Context(), "Tone adjustment failed", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to adjust tone")
		return
	}

	writeJSON(w, http.StatusOK, tone.AdjustResponse{
		AdjustedText: out,
		OriginalText: req.IkigaiText,
		HeaderText:   req.HeaderText,
		WasAdjusted:  true,
	})
}

func (s *Server) handleShare(w http.ResponseWriter, r *http.Request) {
	var req ShareRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	writeJSON(w, http.StatusOK, s.sharePost(r, req.Insight))
}

func (s *Server) sharePost(r *http.Request, text string) ShareResponse {
	post := s.deps.Composer.Build(r.Context(), text)
	s.log.InfoContext(r.Context(), "Composed share post", "header", post.Header, "was_adjusted", post.WasAdjusted)
	return ShareResponse{
		Post:         post.String(),
		Header:       post.Header,
		CallToAction: post.CallToAction,
		WasAdjusted:  post.WasAdjusted,
		ShareURL:     share.LinkedInURL(s.cfg.SiteURL),
	}
}
