package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"mastolens/internal/analysis"
	"mastolens/internal/view"
)

// Analyzer is the outbound analysis call the proxy forwards to.
type Analyzer interface {
	Analyze(ctx context.Context, req analysis.Request) (analysis.Result, error)
}

// AnalysisHandler handles the dashboard's analysis endpoints: the raw
// proxy and the view-model variant the page consumes.
type AnalysisHandler struct {
	client Analyzer
}

// NewAnalysisHandler creates a new analysis handler.
func NewAnalysisHandler(client Analyzer) *AnalysisHandler {
	return &AnalysisHandler{client: client}
}

// AnalyzeMastodon proxies one analysis request and returns the analysis
// result unchanged. Upstream non-success responses are relayed verbatim.
func (h *AnalysisHandler) AnalyzeMastodon(w http.ResponseWriter, r *http.Request) {
	res, ok := h.analyze(w, r)
	if !ok {
		return
	}
	respondWithJSON(w, http.StatusOK, res)
}

// Dashboard proxies one analysis request and returns the render-ready view
// model instead of the raw result.
func (h *AnalysisHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	res, ok := h.analyze(w, r)
	if !ok {
		return
	}
	respondWithJSON(w, http.StatusOK, view.Build(res))
}

// analyze runs the shared validate-and-forward flow. On failure it writes
// the response itself and returns ok=false.
func (h *AnalysisHandler) analyze(w http.ResponseWriter, r *http.Request) (analysis.Result, bool) {
	var req analysis.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return analysis.Result{}, false
	}
	// Blank text is rejected here, before any outbound call is made.
	if err := req.Normalize(); err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error(), "")
		return analysis.Result{}, false
	}

	res, err := h.client.Analyze(r.Context(), req)
	if err != nil {
		h.respondAnalysisError(w, err)
		return analysis.Result{}, false
	}
	return res, true
}

func (h *AnalysisHandler) respondAnalysisError(w http.ResponseWriter, err error) {
	var aerr *analysis.Error
	if !errors.As(err, &aerr) {
		respondWithError(w, http.StatusInternalServerError, "internal server error", err.Error())
		return
	}

	switch aerr.Kind {
	case analysis.KindUpstream, analysis.KindReported:
		// Relay the upstream status and body verbatim, no reinterpretation.
		// This covers error bodies delivered with a success status too, so
		// the page sees the message instead of an empty result.
		if aerr.UpstreamContentType != "" {
			w.Header().Set("Content-Type", aerr.UpstreamContentType)
		}
		w.WriteHeader(aerr.UpstreamStatus)
		w.Write(aerr.UpstreamBody)
	case analysis.KindTimeout, analysis.KindCanceled:
		respondWithError(w, http.StatusGatewayTimeout, aerr.Message, aerr.Details)
	case analysis.KindUnreachable:
		respondWithError(w, http.StatusServiceUnavailable, aerr.Message, aerr.Details)
	default: // KindParse, KindEmpty
		respondWithError(w, http.StatusInternalServerError, aerr.Message, aerr.Details)
	}
}
