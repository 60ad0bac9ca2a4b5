package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/smartmcq/smartmcq/internal/db/dbtest"
	"github.com/smartmcq/smartmcq/internal/rbac"
)

func TestIssueAndParse(t *testing.T) {
	svc := NewService("secret", time.Hour)
	tok, err := svc.IssueJWT("u1", rbac.RoleTeacher)
	require.NoError(t, err)

	c, err := svc.Parse(tok)
	require.NoError(t, err)
	assert.Equal(t, "u1", c.Subject)
	assert.Equal(t, rbac.RoleTeacher, c.Role)

	_, err = NewService("other", time.Hour).Parse(tok)
	assert.Error(t, err)
}

func TestParseExpired(t *testing.T) {
	svc := NewService("secret", time.Minute)
	tok, err := svc.IssueJWT("u1", rbac.RoleStudent)
	require.NoError(t, err)

	svc.now = func() time.Time { return time.Now().Add(time.Hour) }
	_, err = svc.Parse(tok)
	assert.Error(t, err)
}

func TestJWTMiddleware(t *testing.T) {
	svc := NewService("secret", time.Hour)
	var gotSub, gotRole string
	h := JWTMiddleware(svc)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotSub = SubjectFromContext(r.Context())
		gotRole = rbac.RoleFromContext(r.Context())
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("GET", "/", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	tok, err := svc.IssueJWT("u9", rbac.RoleTeacher)
	require.NoError(t, err)
	req = httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "u9", gotSub)
	assert.Equal(t, rbac.RoleTeacher, gotRole)
}

func newUsers(t *testing.T) *Users {
	u := NewUsers(dbtest.Open(t))
	u.Cost = bcrypt.MinCost
	return u
}

func TestUsersCreateAndAuthenticate(t *testing.T) {
	ctx := context.Background()
	users := newUsers(t)

	created, err := users.Create(ctx, "alice", "pw", rbac.RoleTeacher)
	require.NoError(t, err)

	_, err = users.Create(ctx, "alice", "pw2", rbac.RoleTeacher)
	assert.ErrorIs(t, err, ErrUserExists)
	_, err = users.Create(ctx, "bob", "pw", "owner")
	assert.Error(t, err)

	got, err := users.Authenticate(ctx, "alice", "pw")
	require.NoError(t, err)
	assert.Equal(t, created, got)

	_, err = users.Authenticate(ctx, "alice", "nope")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = users.Authenticate(ctx, "nobody", "pw")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginHandler(t *testing.T) {
	ctx := context.Background()
	users := newUsers(t)
	usr, err := users.Create(ctx, "tina", "secret", rbac.RoleTeacher)
	require.NoError(t, err)
	svc := NewService("k", time.Hour)
	h := LoginHandler(svc, users)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("POST", "/auth/login", strings.NewReader(`{"username":"tina","password":"secret"}`)))
	require.Equal(t, http.StatusOK, rec.Code)
	var out map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.Equal(t, rbac.RoleTeacher, out["role"])
	c, err := svc.Parse(out["access_token"])
	require.NoError(t, err)
	assert.Equal(t, usr.ID, c.Subject)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("POST", "/auth/login", strings.NewReader(`{"username":"tina","password":"x"}`)))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("POST", "/auth/login", strings.NewReader(`{`)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
