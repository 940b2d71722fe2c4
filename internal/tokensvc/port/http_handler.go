// Package port exposes the token issuance service over HTTP.
// It translates JSON requests into app-layer calls and maps results and
// domain errors back onto the wire.
package port

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/voxmesh/rtc-token-service/internal/errmap"
	"github.com/voxmesh/rtc-token-service/internal/tokensvc/app"
)

// maxRequestBody bounds the issuance request size. The body is four small
// fields; anything larger is abuse.
const maxRequestBody = 4 * 1024

// issueService is a narrow, consumer-defined interface for the operation
// the handler requires. The *app.IssueService satisfies this.
type issueService interface {
	Issue(ctx context.Context, req app.IssueRequest) (*app.IssueResult, error)
}

// TokenHandler serves POST /token.
type TokenHandler struct {
	svc    issueService
	logger *slog.Logger
}

// NewTokenHandler creates a TokenHandler backed by the given IssueService.
func NewTokenHandler(svc *app.IssueService, logger *slog.Logger) *TokenHandler {
	return &TokenHandler{svc: svc, logger: logger}
}

// Register mounts the handler's routes on mux.
func (h *TokenHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /token", h.handleIssue)
}

// issueRequest is the wire shape of an issuance request.
// Pointer fields distinguish absent from zero: uid is required, while an
// absent expireTime falls back to the default lifetime.
type issueRequest struct {
	Channel    string `json:"channel"`
	UID        *int64 `json:"uid"`
	Role       string `json:"role,omitempty"`
	ExpireTime *int64 `json:"expireTime,omitempty"`
}

// issueResponse is the wire shape of a successful issuance.
type issueResponse struct {
	AppID      string `json:"appId"`
	Token      string `json:"token"`
	Channel    string `json:"channel"`
	UID        uint32 `json:"uid"`
	ExpireTime int64  `json:"expireTime"`
}

func (h *TokenHandler) handleIssue(w http.ResponseWriter, r *http.Request) {
	requestID := uuid.NewString()
	logger := h.logger.With(slog.String("request_id", requestID))

	var req issueRequest
	body := io.LimitReader(r.Body, maxRequestBody)
	if err := json.NewDecoder(body).Decode(&req); err != nil {
		writeError(w, errmap.HTTPError{
			StatusCode: http.StatusBadRequest,
			Code:       "MALFORMED_REQUEST",
			Message:    "request body is not valid JSON",
		})
		return
	}

	result, err := h.svc.Issue(r.Context(), app.IssueRequest{
		Channel:    req.Channel,
		UID:        req.UID,
		Role:       req.Role,
		ExpireTime: req.ExpireTime,
	})
	if err != nil {
		httpErr := errmap.ToHTTPError(err)
		if httpErr.StatusCode >= http.StatusInternalServerError {
			logger.ErrorContext(r.Context(), "token issuance failed",
				slog.String("error", err.Error()))
		} else {
			logger.InfoContext(r.Context(), "token request rejected",
				slog.String("code", httpErr.Code))
		}
		writeError(w, httpErr)
		return
	}

	writeJSON(w, http.StatusOK, issueResponse{
		AppID:      result.AppID,
		Token:      result.Token,
		Channel:    result.Channel,
		UID:        result.UID,
		ExpireTime: result.ExpireTime,
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	// Encoding a value assembled above cannot fail; ignore the writer error
	// the same way the stdlib handlers do.
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, httpErr errmap.HTTPError) {
	writeJSON(w, httpErr.StatusCode, httpErr)
}
