package httpx

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/ariefcatur/haritham-market/internal/forms"
	"github.com/ariefcatur/haritham-market/internal/market"
	"github.com/ariefcatur/haritham-market/internal/session"
	"github.com/go-chi/chi/v5"
)

type Registrar interface {
	Register(ctx context.Context, reg market.Registration) error
}

type AuthHandler struct {
	Accounts Registrar
	Sessions *session.Manager
	Log      *slog.Logger
}

func (h *AuthHandler) Register(r chi.Router) {
	r.Post("/auth/register", h.register)
	r.Post("/auth/login", h.login)
	r.Post("/auth/logout", h.logout)
}

func (h *AuthHandler) register(w http.ResponseWriter, r *http.Request) {
	var f forms.RegisterForm
	if err := decodeJSON(r, &f); err != nil {
		writeError(w, h.Log, err)
		return
	}
	if err := f.Validate(); err != nil {
		writeError(w, h.Log, err)
		return
	}
	if err := h.Accounts.Register(r.Context(), f.Registration()); err != nil {
		writeError(w, h.Log, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"message": "Registration successful"})
}

func (h *AuthHandler) login(w http.ResponseWriter, r *http.Request) {
	var f forms.LoginForm
	if err := decodeJSON(r, &f); err != nil {
		writeError(w, h.Log, err)
		return
	}
	if err := f.Validate(); err != nil {
		writeError(w, h.Log, err)
		return
	}
	u, err := h.Sessions.Login(r.Context(), w, f.Credentials())
	if err != nil {
		writeError(w, h.Log, err)
		return
	}
	writeJSON(w, http.StatusOK, u)
}

func (h *AuthHandler) logout(w http.ResponseWriter, r *http.Request) {
	h.Sessions.Logout(r.Context(), w, session.FromContext(r.Context()))
	w.WriteHeader(http.StatusNoContent)
}
