package client_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/goliatone/jobhub/auth"
	"github.com/goliatone/jobhub/client"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeAPI is a minimal session API: one account, tokens revoked on logout.
type fakeAPI struct {
	mu       sync.Mutex
	user     *auth.PublicUser
	password string
	live     map[string]bool
	logins   int
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{
		user: &auth.PublicUser{
			ID:       uuid.New(),
			Name:     "Ada",
			Email:    "ada@example.com",
			Role:     auth.RoleCandidate,
			Verified: true,
		},
		password: "password123",
		live:     map[string]bool{},
	}
}

func (f *fakeAPI) bearer(r *http.Request) string {
	header := r.Header.Get("Authorization")
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return parts[1]
}

func (f *fakeAPI) handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/auth/login", func(w http.ResponseWriter, r *http.Request) {
		payload := struct {
			Email    string `json:"email"`
			Password string `json:"password"`
		}{}
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}

		f.mu.Lock()
		defer f.mu.Unlock()

		if payload.Email != f.user.Email {
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(map[string]string{"message": "user not found, sign up first"})
			return
		}
		if payload.Password != f.password {
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(map[string]string{"message": "incorrect password"})
			return
		}

		f.logins++
		token := uuid.NewString()
		f.live[token] = true

		json.NewEncoder(w).Encode(map[string]any{
			"message": "Login successful",
			"token":   token,
			"user":    f.user,
		})
	})

	mux.HandleFunc("GET /api/auth/verify", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()

		token := f.bearer(r)
		if token == "" || !f.live[token] {
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(map[string]string{"message": "unauthorized"})
			return
		}

		json.NewEncoder(w).Encode(map[string]any{"user": f.user})
	})

	mux.HandleFunc("POST /api/auth/logout", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()

		token := f.bearer(r)
		if token == "" || !f.live[token] {
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(map[string]string{"message": "unauthorized"})
			return
		}

		// Logout revokes every session, matching the server behavior.
		f.live = map[string]bool{}
		json.NewEncoder(w).Encode(map[string]string{"message": "Logged out successfully"})
	})

	return mux
}

func TestClient_LoginAndCurrent(t *testing.T) {
	api := newFakeAPI()
	srv := httptest.NewServer(api.handler())
	defer srv.Close()

	c := client.New(srv.URL)

	user, err := c.Login(context.Background(), "ada@example.com", "password123")
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", user.Email)

	current, token, ok := c.Current()
	require.True(t, ok)
	assert.Equal(t, user.ID, current.ID)
	assert.NotEmpty(t, token)
}

func TestClient_LoginFailure(t *testing.T) {
	api := newFakeAPI()
	srv := httptest.NewServer(api.handler())
	defer srv.Close()

	c := client.New(srv.URL)

	_, err := c.Login(context.Background(), "ada@example.com", "wrong")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "incorrect password")

	_, _, ok := c.Current()
	assert.False(t, ok)
}

func TestClient_RehydrateFromDisk(t *testing.T) {
	api := newFakeAPI()
	srv := httptest.NewServer(api.handler())
	defer srv.Close()

	cachePath := filepath.Join(t.TempDir(), "credentials.json")

	// First process logs in and persists.
	first := client.New(srv.URL, client.WithCache(client.NewFileCache(cachePath)))
	_, err := first.Login(context.Background(), "ada@example.com", "password123")
	require.NoError(t, err)

	// Second process restores the session without re-authenticating.
	second := client.New(srv.URL, client.WithCache(client.NewFileCache(cachePath)))
	user, err := second.Rehydrate(context.Background())
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, "ada@example.com", user.Email)

	api.mu.Lock()
	defer api.mu.Unlock()
	assert.Equal(t, 1, api.logins, "rehydration must not trigger a fresh login")
}

func TestClient_RehydrateRejectedTokenClearsCache(t *testing.T) {
	api := newFakeAPI()
	srv := httptest.NewServer(api.handler())
	defer srv.Close()

	cachePath := filepath.Join(t.TempDir(), "credentials.json")
	cache := client.NewFileCache(cachePath)

	first := client.New(srv.URL, client.WithCache(cache))
	_, err := first.Login(context.Background(), "ada@example.com", "password123")
	require.NoError(t, err)

	// Revoke server-side, as a logout from another device would.
	api.mu.Lock()
	api.live = map[string]bool{}
	api.mu.Unlock()

	second := client.New(srv.URL, client.WithCache(client.NewFileCache(cachePath)))
	user, err := second.Rehydrate(context.Background())
	require.NoError(t, err)
	assert.Nil(t, user)

	// The stale entry is gone.
	_, err = client.NewFileCache(cachePath).Load()
	assert.ErrorIs(t, err, client.ErrNoCredentials)
}

func TestClient_RehydrateWithEmptyCache(t *testing.T) {
	api := newFakeAPI()
	srv := httptest.NewServer(api.handler())
	defer srv.Close()

	c := client.New(srv.URL)

	user, err := c.Rehydrate(context.Background())
	require.NoError(t, err)
	assert.Nil(t, user)
}

func TestClient_Logout(t *testing.T) {
	api := newFakeAPI()
	srv := httptest.NewServer(api.handler())
	defer srv.Close()

	cache := client.NewMemoryCache()
	c := client.New(srv.URL, client.WithCache(cache))

	_, err := c.Login(context.Background(), "ada@example.com", "password123")
	require.NoError(t, err)

	require.NoError(t, c.Logout(context.Background()))

	_, _, ok := c.Current()
	assert.False(t, ok)

	_, err = cache.Load()
	assert.ErrorIs(t, err, client.ErrNoCredentials)

	api.mu.Lock()
	defer api.mu.Unlock()
	assert.Empty(t, api.live, "server sessions must be revoked")
}

func TestClient_LogoutClearsLocalStateWhenServerFails(t *testing.T) {
	api := newFakeAPI()
	srv := httptest.NewServer(api.handler())

	cache := client.NewMemoryCache()
	c := client.New(srv.URL, client.WithCache(cache))

	_, err := c.Login(context.Background(), "ada@example.com", "password123")
	require.NoError(t, err)

	// Kill the server before logout.
	srv.Close()

	err = c.Logout(context.Background())
	assert.Error(t, err)

	// Local state is gone regardless.
	_, _, ok := c.Current()
	assert.False(t, ok)

	_, err = cache.Load()
	assert.ErrorIs(t, err, client.ErrNoCredentials)
}

func TestClient_LogoutWhenNotLoggedIn(t *testing.T) {
	c := client.New("http://127.0.0.1:0")
	assert.NoError(t, c.Logout(context.Background()))
}

func TestFileCache(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "credentials.json")
	cache := client.NewFileCache(path)

	_, err := cache.Load()
	assert.ErrorIs(t, err, client.ErrNoCredentials)

	creds := &client.Credentials{
		User:  &auth.PublicUser{ID: uuid.New(), Email: "ada@example.com"},
		Token: "token-value",
	}
	require.NoError(t, cache.Save(creds))

	loaded, err := cache.Load()
	require.NoError(t, err)
	assert.Equal(t, creds.Token, loaded.Token)
	assert.Equal(t, creds.User.Email, loaded.User.Email)

	require.NoError(t, cache.Clear())
	_, err = cache.Load()
	assert.ErrorIs(t, err, client.ErrNoCredentials)

	// Clearing an already empty cache is fine.
	assert.NoError(t, cache.Clear())
}
