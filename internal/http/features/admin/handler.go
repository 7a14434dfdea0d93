// Package admin exposes the configuration surface as a JSON API. A
// test harness (or a person with curl) reshapes the simulated
// institution between requests: credentials, the AUTHTOKEN
// requirement, the MFA challenge set, forced password change and the
// artificial response delay.
package admin

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/finsim/ofxserve/internal/httputil"
	"github.com/finsim/ofxserve/pkg/domain"
	"github.com/finsim/ofxserve/pkg/server"
)

// Handler handles admin HTTP requests.
type Handler struct {
	logger *slog.Logger
	server *server.Server
}

// NewHandler creates a new admin handler.
func NewHandler(logger *slog.Logger, srv *server.Server) *Handler {
	return &Handler{logger: logger, server: srv}
}

// GetState handles GET /admin/state.
func (h *Handler) GetState(w http.ResponseWriter, r *http.Request) {
	httputil.JSON(w, http.StatusOK, h.server.Snapshot())
}

// UpdateCredentials handles PUT /admin/credentials.
func (h *Handler) UpdateCredentials(w http.ResponseWriter, r *http.Request) {
	var req domain.Credentials
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.UserName == "" {
		httputil.Error(w, http.StatusBadRequest, "user_name is required")
		return
	}

	h.server.SetCredentials(req)
	h.logger.Info("credentials updated", "user_name", req.UserName)
	httputil.JSON(w, http.StatusOK, h.server.Snapshot())
}

// AuthTokenRequest represents the request body for the auth-token requirement.
type AuthTokenRequest struct {
	Label string `json:"label"`
	Token string `json:"token"`
}

// UpdateAuthToken handles PUT /admin/authtoken. Reconfiguring the
// token invalidates any issued access key.
func (h *Handler) UpdateAuthToken(w http.ResponseWriter, r *http.Request) {
	var req AuthTokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Label != "" && req.Token == "" {
		httputil.Error(w, http.StatusBadRequest, "token is required when label is set")
		return
	}

	h.server.SetAuthToken(req.Label, req.Token)
	h.logger.Info("auth token updated", "label", req.Label)
	httputil.JSON(w, http.StatusOK, h.server.Snapshot())
}

// ChallengesRequest represents the request body for the challenge set.
type ChallengesRequest struct {
	Challenges []domain.MFAChallenge `json:"challenges"`
}

// UpdateChallenges handles PUT /admin/challenges.
func (h *Handler) UpdateChallenges(w http.ResponseWriter, r *http.Request) {
	var req ChallengesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	for _, c := range req.Challenges {
		if c.PhraseID == "" {
			httputil.Error(w, http.StatusBadRequest, "every challenge needs a phrase_id")
			return
		}
	}

	h.server.SetChallenges(req.Challenges)
	h.logger.Info("challenge set updated", "count", len(req.Challenges))
	httputil.JSON(w, http.StatusOK, h.server.Snapshot())
}

// InstallStandardChallenges handles POST /admin/challenges/standard.
func (h *Handler) InstallStandardChallenges(w http.ResponseWriter, r *http.Request) {
	h.server.AddStandardChallenges()
	h.logger.Info("standard challenge set installed")
	httputil.JSON(w, http.StatusOK, h.server.Snapshot())
}

// ClearChallenges handles DELETE /admin/challenges.
func (h *Handler) ClearChallenges(w http.ResponseWriter, r *http.Request) {
	h.server.RemoveChallenges()
	h.logger.Info("challenge set cleared")
	httputil.JSON(w, http.StatusOK, h.server.Snapshot())
}

// ChangePasswordRequest represents the request body for the
// forced-password-change toggle.
type ChangePasswordRequest struct {
	Required bool `json:"required"`
}

// UpdateChangePassword handles PUT /admin/changepassword.
func (h *Handler) UpdateChangePassword(w http.ResponseWriter, r *http.Request) {
	var req ChangePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	h.server.SetChangePassword(req.Required)
	h.logger.Info("change password mode updated", "required", req.Required)
	httputil.JSON(w, http.StatusOK, h.server.Snapshot())
}

// DelayRequest represents the request body for the response delay.
type DelayRequest struct {
	DelayMS int64 `json:"delay_ms"`
}

// UpdateDelay handles PUT /admin/delay.
func (h *Handler) UpdateDelay(w http.ResponseWriter, r *http.Request) {
	var req DelayRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.DelayMS < 0 {
		httputil.Error(w, http.StatusBadRequest, "delay_ms must not be negative")
		return
	}

	h.server.SetResponseDelay(time.Duration(req.DelayMS) * time.Millisecond)
	h.logger.Info("response delay updated", "delay_ms", req.DelayMS)
	httputil.JSON(w, http.StatusOK, h.server.Snapshot())
}
