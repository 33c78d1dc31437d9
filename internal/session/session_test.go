package session

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/ariefcatur/haritham-market/internal/market"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAuth struct {
	user market.User
	err  error
}

func (f fakeAuth) Login(context.Context, market.Credentials) (market.User, error) {
	return f.user, f.err
}

func quietLog() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }

func TestReadUserID(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Empty(t, ReadUserID(r))

	r.Header.Set(HeaderName, "from-header")
	assert.Equal(t, "from-header", ReadUserID(r))

	r.AddCookie(&http.Cookie{Name: CookieName, Value: "from-cookie"})
	assert.Equal(t, "from-cookie", ReadUserID(r))
}

func TestRequire(t *testing.T) {
	_, err := Require(context.Background())
	assert.ErrorIs(t, err, ErrNotLoggedIn)

	id, err := Require(WithIdentity(context.Background(), Identity{UserID: "u1"}))
	require.NoError(t, err)
	assert.Equal(t, "u1", id.UserID)
}

func TestLoginSetsCookieAndMiddlewareResolvesProfile(t *testing.T) {
	m := &Manager{
		Auth:  fakeAuth{user: market.User{ID: "u1", Name: "Anita"}},
		Store: NewMemoryStore(),
		TTL:   DefaultTTL,
		Log:   quietLog(),
	}
	rec := httptest.NewRecorder()
	u, err := m.Login(context.Background(), rec, market.Credentials{Mobile: "9876543210", Password: "x"})
	require.NoError(t, err)
	assert.Equal(t, "u1", u.ID)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	c := cookies[0]
	assert.Equal(t, CookieName, c.Name)
	assert.Equal(t, "u1", c.Value)
	assert.True(t, c.HttpOnly)
	assert.Equal(t, int(DefaultTTL.Seconds()), c.MaxAge)

	var got Identity
	h := m.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = FromContext(r.Context())
	}))
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(c)
	h.ServeHTTP(httptest.NewRecorder(), req)
	require.True(t, got.LoggedIn())
	require.NotNil(t, got.User)
	assert.Equal(t, "Anita", got.User.Name)
}

func TestLoginFailureSetsNoCookie(t *testing.T) {
	m := &Manager{Auth: fakeAuth{err: errors.New("Invalid credentials")}, Store: NewMemoryStore(), TTL: time.Hour, Log: quietLog()}
	rec := httptest.NewRecorder()
	_, err := m.Login(context.Background(), rec, market.Credentials{})
	assert.Error(t, err)
	assert.Empty(t, rec.Result().Cookies())
}

func TestLogoutExpiresCookieAndDropsProfile(t *testing.T) {
	store := NewMemoryStore()
	require.NoError(t, store.Put(context.Background(), market.User{ID: "u1"}))
	m := &Manager{Store: store, Log: quietLog()}

	rec := httptest.NewRecorder()
	m.Logout(context.Background(), rec, Identity{UserID: "u1"})

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, -1, cookies[0].MaxAge)
	_, err := store.Get(context.Background(), "u1")
	assert.ErrorIs(t, err, ErrNoProfile)
}

func TestRedisStore(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	s := &RedisStore{Redis: rdb, TTL: time.Hour}
	ctx := context.Background()

	_, err := s.Get(ctx, "u1")
	assert.ErrorIs(t, err, ErrNoProfile)

	require.NoError(t, s.Put(ctx, market.User{ID: "u1", Name: "Anita"}))
	u, err := s.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "Anita", u.Name)
	assert.Equal(t, time.Hour, mr.TTL("session:user:u1"))

	require.NoError(t, s.Delete(ctx, "u1"))
	_, err = s.Get(ctx, "u1")
	assert.ErrorIs(t, err, ErrNoProfile)
}
