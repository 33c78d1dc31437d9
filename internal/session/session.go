// Package session resolves who is calling. Identity is read once per request
// from the userId cookie and handed down through the request context; nothing
// below the middleware parses cookies.
package session

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/ariefcatur/haritham-market/internal/market"
)

const (
	CookieName = "userId"
	HeaderName = "X-User-Id"
	// DefaultTTL matches the login cookie lifetime.
	DefaultTTL = 7 * 24 * time.Hour
)

var ErrNotLoggedIn = errors.New("user not logged in")

// Identity is the resolved caller. User is filled from the profile cache
// when available and may be nil.
type Identity struct {
	UserID string
	User   *market.User
}

func (id Identity) LoggedIn() bool { return id.UserID != "" }

type ctxKey struct{}

func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

func FromContext(ctx context.Context) Identity {
	id, _ := ctx.Value(ctxKey{}).(Identity)
	return id
}

// Require returns the identity or ErrNotLoggedIn.
func Require(ctx context.Context) (Identity, error) {
	id := FromContext(ctx)
	if !id.LoggedIn() {
		return id, ErrNotLoggedIn
	}
	return id, nil
}

// ReadUserID reads the cookie, then the header used by non-browser callers.
func ReadUserID(r *http.Request) string {
	if c, err := r.Cookie(CookieName); err == nil {
		if v := strings.TrimSpace(c.Value); v != "" {
			return v
		}
	}
	return strings.TrimSpace(r.Header.Get(HeaderName))
}
