package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/smartmcq/smartmcq/internal/assessment"
	"github.com/smartmcq/smartmcq/internal/rbac"
)

// testScope narrows listings to the caller's own tests for teachers. Students
// and admins see every published test.
func testScope(r *http.Request) string {
	if rbac.RoleFromContext(r.Context()) == rbac.RoleTeacher {
		return ownerScope(r)
	}
	return ""
}

func ListTestsHandler(store assessment.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := store.ListTests(r.Context(), assessment.ListOpts{
			OwnerID: testScope(r),
			Q:       strings.TrimSpace(r.URL.Query().Get("q")),
			Limit:   parseIntDefault(r.URL.Query().Get("limit"), 50),
			Offset:  parseIntDefault(r.URL.Query().Get("offset"), 0),
		})
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		if list == nil {
			list = []assessment.TestSummary{}
		}
		writeJSON(w, http.StatusOK, list)
	}
}

func GetTestHandler(store assessment.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		t, err := store.GetTest(r.Context(), chi.URLParam(r, "id"))
		if errors.Is(err, assessment.ErrNotFound) {
			writeError(w, http.StatusNotFound, "test not found")
			return
		}
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		if scope := testScope(r); scope != "" && t.OwnerID != scope {
			writeError(w, http.StatusNotFound, "test not found")
			return
		}
		writeJSON(w, http.StatusOK, t)
	}
}
