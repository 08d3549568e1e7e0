package httptransport

import (
	"context"
	"encoding/json"
	"net/http"

	"dinardap-console/internal/auth"
	"dinardap-console/internal/session"
	"dinardap-console/internal/transport/http/shared"
	dErrors "dinardap-console/pkg/domain-errors"
)

// AuthService is the slice of the auth gateway the session handlers use.
type AuthService interface {
	Login(ctx context.Context, identifier, secret string) (*auth.LoginResult, error)
	Logout(ctx context.Context)
	Refresh(ctx context.Context) (*auth.LoginResult, error)
	CurrentUser(ctx context.Context) (session.Identity, error)
}

// SessionReader exposes the current session snapshot to the view layer.
type SessionReader interface {
	Get() session.Session
}

// SessionHandler owns the /api/session surface.
type SessionHandler struct {
	auth     AuthService
	sessions SessionReader
}

// NewSessionHandler builds the session handler.
func NewSessionHandler(authSvc AuthService, sessions SessionReader) *SessionHandler {
	return &SessionHandler{auth: authSvc, sessions: sessions}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *SessionHandler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeInvalidInput, "Solicitud inválida. Por favor, verifique los datos ingresados."))
		return
	}

	result, err := h.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteData(w, result)
}

func (h *SessionHandler) handleLogout(w http.ResponseWriter, r *http.Request) {
	h.auth.Logout(r.Context())
	shared.WriteData(w, nil)
}

func (h *SessionHandler) handleGet(w http.ResponseWriter, r *http.Request) {
	shared.WriteData(w, h.sessions.Get())
}

func (h *SessionHandler) handleRefresh(w http.ResponseWriter, r *http.Request) {
	result, err := h.auth.Refresh(r.Context())
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteData(w, result)
}

func (h *SessionHandler) handleCurrentUser(w http.ResponseWriter, r *http.Request) {
	user, err := h.auth.CurrentUser(r.Context())
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteData(w, user)
}
