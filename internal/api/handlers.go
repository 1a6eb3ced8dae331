package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/sprite-ai/insight/internal/logger"
	"github.com/sprite-ai/insight/internal/model"
	"github.com/sprite-ai/insight/internal/pipeline"
)

// Error details returned by the analyze endpoints.
const (
	msgNoRepos      = "No repositories provided"
	msgInsufficient = "Failed to generate sufficient insights"
)

var (
	errNoRepos      = errors.New(msgNoRepos)
	errInsufficient = errors.New(msgInsufficient)
)

// --- Health ---

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// --- Analyze ---

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req model.AnalysisRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request: "+err.Error())
		return
	}

	result, err := s.analyze(r.Context(), req, nil)
	switch {
	case errors.Is(err, errNoRepos):
		writeError(w, http.StatusBadRequest, msgNoRepos)
		return
	case err != nil:
		writeError(w, http.StatusInternalServerError, msgInsufficient)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// analyze runs the pipeline for req and applies the response checks shared
// by the HTTP and WebSocket endpoints.
func (s *Server) analyze(ctx context.Context, req model.AnalysisRequest, observe pipeline.Observer) (model.AnalysisResult, error) {
	log := logger.Get()
	if len(req.Repos) == 0 {
		log.Warn("analyze rejected", "reason", msgNoRepos)
		return model.AnalysisResult{}, errNoRepos
	}

	st, err := pipeline.Run(ctx, req.Repos, req.Query, pipeline.Options{
		Summarizer: s.summarizer,
		Observer:   observe,
	})
	if err != nil {
		log.Error("pipeline failed", "error", err, "repos", len(req.Repos))
		return model.AnalysisResult{}, err
	}

	result := st.Result()
	if nonEmptyOutputs(result) < 2 {
		log.Warn("analyze rejected", "reason", msgInsufficient)
		return model.AnalysisResult{}, errInsufficient
	}

	log.Info("analyze done", "repos", len(req.Repos), "trends", len(result.Aggregate), "verified", result.Verified)
	return result, nil
}

// nonEmptyOutputs counts the response fields carrying a value. The
// comparison block always has its three keys and so always counts.
func nonEmptyOutputs(r model.AnalysisResult) int {
	n := 1
	if len(r.Aggregate) > 0 {
		n++
	}
	if r.Summary != "" {
		n++
	}
	if r.Verified {
		n++
	}
	return n
}
