package adminsession

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

func testToken(t *testing.T, subject, role string, exp time.Time) string {
	claims := jwt.MapClaims{"sub": subject, "role": role, "exp": exp.Unix()}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return tok
}

func loginServer(t *testing.T, token string) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/admin/auth/login" || r.Method != http.MethodPost {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"success": true,
			"user": {"id": "admin-engivora", "email": "admin@engivora.com", "role": "admin"},
			"token": "` + token + `"
		}`))
	}))
}

func TestLoginStoresSession(t *testing.T) {
	tok := testToken(t, "admin-engivora", "admin", time.Now().Add(time.Hour))
	srv := loginServer(t, tok)
	defer srv.Close()

	store := &FileStore{Path: filepath.Join(t.TempDir(), "session.json")}
	c := NewClient(srv.URL, store)

	s, err := c.Login(context.Background(), "admin@engivora.com", "pw")
	require.NoError(t, err)
	require.Equal(t, tok, s.Token)
	require.Equal(t, "admin-engivora", s.User.ID)
	require.Equal(t, tok, c.Token())

	// a fresh client picks the persisted session up
	c2 := NewClient(srv.URL, store)
	require.Equal(t, tok, c2.Token())
}

func TestLoginFailurePropagates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"success":false,"error":"invalid email or password"}`, http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, nil)
	_, err := c.Login(context.Background(), "admin@engivora.com", "wrong")
	require.Error(t, err)
	require.Empty(t, c.Token())
}

func TestLogoutClearsStore(t *testing.T) {
	tok := testToken(t, "admin-engivora", "admin", time.Now().Add(time.Hour))
	srv := loginServer(t, tok)
	defer srv.Close()

	store := &FileStore{Path: filepath.Join(t.TempDir(), "session.json")}
	c := NewClient(srv.URL, store)
	_, err := c.Login(context.Background(), "admin@engivora.com", "pw")
	require.NoError(t, err)

	require.NoError(t, c.Logout())
	require.Empty(t, c.Token())

	loaded, err := store.Load()
	require.NoError(t, err)
	require.Nil(t, loaded)
}

func TestDecodeToken(t *testing.T) {
	exp := time.Now().Add(time.Hour).Truncate(time.Second)
	tok := testToken(t, "admin-engivora", "admin", exp)

	c := NewClient("http://unused", nil)
	c.session = &Session{Token: tok}

	claims, err := c.DecodeToken()
	require.NoError(t, err)
	require.Equal(t, "admin-engivora", claims.Subject)
	require.Equal(t, "admin", claims.Role)
	require.WithinDuration(t, exp, claims.Expires, time.Second)
}

func TestDecodeTokenNoSession(t *testing.T) {
	c := NewClient("http://unused", nil)
	_, err := c.DecodeToken()
	require.Error(t, err)
}

func TestFileStoreRoundTrip(t *testing.T) {
	store := &FileStore{Path: filepath.Join(t.TempDir(), "session.json")}

	// empty store is not an error
	s, err := store.Load()
	require.NoError(t, err)
	require.Nil(t, s)

	in := Session{User: User{ID: "u-1", Role: "admin"}, Token: "tok"}
	require.NoError(t, store.Save(in))

	out, err := store.Load()
	require.NoError(t, err)
	require.Equal(t, in, *out)

	require.NoError(t, store.Clear())
	require.NoError(t, store.Clear())
}
