// Package ofx exposes the protocol endpoint: one method-agnostic
// route that decodes the request body as an OFX document, dispatches
// it, and returns the serialized response document.
package ofx

import (
	"bytes"
	"log/slog"
	"net/http"
	"time"

	ofxdoc "github.com/finsim/ofxserve/internal/ofx"
	"github.com/finsim/ofxserve/pkg/server"
)

// Handler handles OFX protocol requests.
type Handler struct {
	logger *slog.Logger
	server *server.Server
}

// NewHandler creates a new OFX endpoint handler.
func NewHandler(logger *slog.Logger, srv *server.Server) *Handler {
	return &Handler{logger: logger, server: srv}
}

// Endpoint handles the OFX endpoint. A body that does not parse as
// XML, or a document that cannot be dispatched, comes back as HTTP
// 400 with the error text; everything else is an OFX response
// document, including protocol-level failures.
func (h *Handler) Endpoint(w http.ResponseWriter, r *http.Request) {
	doc, err := ofxdoc.Parse(r.Body)
	if err != nil {
		h.logger.Warn("rejecting request", "error", err)
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	// Slow it down to make it more realistic, otherwise client UIs
	// flash by too fast to see.
	if delay := h.server.ResponseDelay(); delay > 0 {
		select {
		case <-time.After(delay):
		case <-r.Context().Done():
			return
		}
	}

	resp, err := h.server.ProcessRequest(doc)
	if err != nil {
		h.logger.Warn("rejecting request", "error", err)
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	var buf bytes.Buffer
	if err := ofxdoc.Serialize(&buf, resp); err != nil {
		h.logger.Error("failed to serialize response", "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/x-ofx")
	_, _ = w.Write(buf.Bytes())
}
