package httpapi

import (
	"net/http"

	"talenthub.org/internal/audit"
	"talenthub.org/internal/auth"
	"talenthub.org/internal/obs"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

func (a *API) handleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, r, http.MethodPost)
		return
	}

	var req loginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	session, err := a.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		// Unknown account, wrong password and disabled account all
		// produce the same response.
		obs.AuthLogin("failed")
		writeError(w, r, http.StatusUnauthorized, "invalid credentials")
		return
	}
	obs.AuthLogin("ok")

	ctx := r.Context()
	fields := map[string]any{}
	if session.Identity != nil {
		ctx = auth.ContextWithIdentity(ctx, *session.Identity)
		fields["email"] = session.Identity.Email
	}
	_ = audit.LogEvent(ctx, "auth.login", fields)

	writeJSON(w, http.StatusOK, session)
}

func (a *API) handleRefresh(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, r, http.MethodPost)
		return
	}

	var req refreshRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if req.RefreshToken == "" {
		writeError(w, r, http.StatusBadRequest, "refresh_token is required")
		return
	}

	session, err := a.auth.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		obs.AuthRefresh("failed")
		writeError(w, r, http.StatusUnauthorized, "invalid or expired refresh token")
		return
	}
	obs.AuthRefresh("ok")

	writeJSON(w, http.StatusOK, session)
}

func (a *API) handleLogout(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, r, http.MethodPost)
		return
	}

	// Tokens are not tracked server side; they stay valid until expiry and
	// the client discards its copy. The call exists so logouts land in the
	// audit trail.
	if err := a.auth.Logout(r.Context()); err != nil {
		writeError(w, r, http.StatusInternalServerError, "internal error")
		return
	}
	_ = audit.LogEvent(r.Context(), "auth.logout", nil)

	w.WriteHeader(http.StatusNoContent)
}

func (a *API) handleMe(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, r, http.MethodGet)
		return
	}

	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		writeError(w, r, http.StatusUnauthorized, "not authenticated")
		return
	}
	writeJSON(w, http.StatusOK, identity)
}
