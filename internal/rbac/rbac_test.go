package rbac

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCheckerPatterns(t *testing.T) {
	c := NewChecker(nil)
	assert.True(t, c.Has(RoleTeacher, "wizard:use"))
	assert.True(t, c.Has(RoleTeacher, "question:create"))
	assert.True(t, c.Has(RoleAdmin, "anything:at_all"))
	assert.False(t, c.Has(RoleStudent, "wizard:use"))
	assert.False(t, c.Has("ghost", "test:view"))
	assert.True(t, c.Any(RoleStudent, "wizard:use", "test:view"))
}

func TestRequire(t *testing.T) {
	h := Require("wizard:use")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	for role, want := range map[string]int{
		RoleTeacher: http.StatusNoContent,
		RoleStudent: http.StatusForbidden,
		"":          http.StatusForbidden,
	} {
		req := httptest.NewRequest("GET", "/", nil)
		req = req.WithContext(WithRole(context.Background(), role))
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		assert.Equal(t, want, rec.Code, role)
	}
}

func TestRequireAny(t *testing.T) {
	h := RequireAny("question:view", "test:view")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	for role, want := range map[string]int{
		RoleTeacher: http.StatusNoContent,
		RoleStudent: http.StatusNoContent,
		"ghost":     http.StatusForbidden,
	} {
		req := httptest.NewRequest("GET", "/", nil)
		req = req.WithContext(WithRole(context.Background(), role))
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		assert.Equal(t, want, rec.Code, role)
	}
}

func TestValidRole(t *testing.T) {
	assert.True(t, ValidRole(RoleStudent))
	assert.False(t, ValidRole("owner"))
}
