package session

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/ariefcatur/haritham-market/internal/market"
)

// Authenticator is the slice of the marketplace client used at login.
type Authenticator interface {
	Login(ctx context.Context, cred market.Credentials) (market.User, error)
}

type Manager struct {
	Auth   Authenticator
	Store  Store
	TTL    time.Duration
	Secure bool
	Log    *slog.Logger
}

// Middleware resolves the identity once and stores it in the request context.
func (m *Manager) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := Identity{UserID: ReadUserID(r)}
		if id.LoggedIn() {
			u, err := m.Store.Get(r.Context(), id.UserID)
			switch {
			case err == nil:
				id.User = &u
			case !errors.Is(err, ErrNoProfile):
				m.Log.Warn("session profile lookup failed", "user_id", id.UserID, "err", err)
			}
		}
		next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), id)))
	})
}

// Login authenticates against the marketplace, sets the userId cookie and
// caches the returned profile.
func (m *Manager) Login(ctx context.Context, w http.ResponseWriter, cred market.Credentials) (market.User, error) {
	u, err := m.Auth.Login(ctx, cred)
	if err != nil {
		return u, err
	}
	if u.ID == "" {
		return u, errors.New("login response carried no user id")
	}
	if err := m.Store.Put(ctx, u); err != nil {
		m.Log.Warn("session profile cache failed", "user_id", u.ID, "err", err)
	}
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    u.ID,
		Path:     "/",
		Expires:  time.Now().Add(m.TTL),
		MaxAge:   int(m.TTL.Seconds()),
		HttpOnly: true,
		Secure:   m.Secure,
		SameSite: http.SameSiteLaxMode,
	})
	return u, nil
}

// Logout expires the cookie and drops the cached profile.
func (m *Manager) Logout(ctx context.Context, w http.ResponseWriter, id Identity) {
	if id.LoggedIn() {
		if err := m.Store.Delete(ctx, id.UserID); err != nil {
			m.Log.Warn("session profile delete failed", "user_id", id.UserID, "err", err)
		}
	}
	http.SetCookie(w, &http.Cookie{
		Name:    CookieName,
		Value:   "",
		Path:    "/",
		Expires: time.Unix(0, 0),
		MaxAge:  -1,
	})
}
