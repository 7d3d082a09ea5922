package middlewares

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"meganote/meganote/services/security"
	"meganote/meganote/sources/psql/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeUsers struct {
	users map[int]*models.User
	err   error
}

func (f *fakeUsers) GetUserByID(_ context.Context, id int) (*models.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.users[id], nil
}

func newTestGate(t *testing.T) (*Gate, *security.JWTManager, *fakeUsers) {
	t.Helper()
	jwtm := security.NewJWTManager("test-secret", time.Hour)
	users := &fakeUsers{users: map[int]*models.User{7: {ID: 7, Username: "alice"}}}
	return NewGate(jwtm, users), jwtm, users
}

// echo reports whether an identity reached the handler.
func echo(w http.ResponseWriter, r *http.Request) {
	if id, ok := IdentityFrom(r.Context()); ok {
		w.Header().Set("X-User", id.Username)
	}
	w.WriteHeader(http.StatusNoContent)
}

func serve(h http.Handler, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func TestGuard_OwnerGated(t *testing.T) {
	gate, jwtm, _ := newTestGate(t)
	h := gate.Guard(OwnerGated)(http.HandlerFunc(echo))

	valid, _, err := jwtm.Issue(7, "alice")
	require.NoError(t, err)
	ghost, _, err := jwtm.Issue(99, "ghost")
	require.NoError(t, err)
	foreign, _, err := security.NewJWTManager("other-secret", time.Hour).Issue(7, "alice")
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"no token", "", http.StatusUnauthorized},
		{"not bearer", "Basic abc", http.StatusUnauthorized},
		{"garbage", "Bearer abc", http.StatusUnauthorized},
		{"wrong signature", "Bearer " + foreign, http.StatusUnauthorized},
		{"deleted user", "Bearer " + ghost, http.StatusUnauthorized},
		{"valid", "Bearer " + valid, http.StatusNoContent},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := serve(h, tt.header)
			assert.Equal(t, tt.want, rr.Code)
			if tt.want == http.StatusNoContent {
				assert.Equal(t, "alice", rr.Header().Get("X-User"))
			} else {
				assert.Contains(t, rr.Body.String(), "unauthenticated")
			}
		})
	}
}

func TestGuard_OwnerGatedStoreFailure(t *testing.T) {
	gate, jwtm, users := newTestGate(t)
	users.err = errors.New("db down")
	tok, _, err := jwtm.Issue(7, "alice")
	require.NoError(t, err)

	rr := serve(gate.Guard(OwnerGated)(http.HandlerFunc(echo)), "Bearer "+tok)
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.NotContains(t, rr.Body.String(), "db down")
}

func TestGuard_CapabilityGated(t *testing.T) {
	gate, jwtm, _ := newTestGate(t)
	h := gate.Guard(CapabilityGated)(http.HandlerFunc(echo))

	rr := serve(h, "")
	assert.Equal(t, http.StatusNoContent, rr.Code)
	assert.Empty(t, rr.Header().Get("X-User"))

	rr = serve(h, "Bearer not-a-token")
	assert.Equal(t, http.StatusNoContent, rr.Code)
	assert.Empty(t, rr.Header().Get("X-User"))

	tok, _, err := jwtm.Issue(7, "alice")
	require.NoError(t, err)
	rr = serve(h, "Bearer "+tok)
	assert.Equal(t, http.StatusNoContent, rr.Code)
	assert.Equal(t, "alice", rr.Header().Get("X-User"))
}

func TestGuard_Public(t *testing.T) {
	gate, jwtm, _ := newTestGate(t)
	tok, _, err := jwtm.Issue(7, "alice")
	require.NoError(t, err)

	rr := serve(gate.Guard(Public)(http.HandlerFunc(echo)), "Bearer "+tok)
	assert.Equal(t, http.StatusNoContent, rr.Code)
	assert.Empty(t, rr.Header().Get("X-User"))
}

func TestAccessPolicyString(t *testing.T) {
	assert.Equal(t, "public", Public.String())
	assert.Equal(t, "owner-gated", OwnerGated.String())
	assert.Equal(t, "capability-gated", CapabilityGated.String())
}
