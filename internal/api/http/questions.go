package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/smartmcq/smartmcq/internal/assessment"
	"github.com/smartmcq/smartmcq/internal/auth"
	"github.com/smartmcq/smartmcq/internal/rbac"
)

// ownerScope is the owner filter for listings: admins see everything,
// everyone else their own rows.
func ownerScope(r *http.Request) string {
	if rbac.RoleFromContext(r.Context()) == rbac.RoleAdmin {
		return ""
	}
	return auth.SubjectFromContext(r.Context())
}

func CreateQuestionHandler(store assessment.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var q assessment.Question
		if err := decodeJSON(w, r, &q); err != nil {
			writeError(w, http.StatusBadRequest, "bad json")
			return
		}
		q.ID = ""
		q.OwnerID = auth.SubjectFromContext(r.Context())
		if err := q.Validate(); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		saved, err := store.PutQuestion(r.Context(), q)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		writeJSON(w, http.StatusCreated, saved)
	}
}

func ListQuestionsHandler(store assessment.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := store.ListQuestions(r.Context(), assessment.ListOpts{
			OwnerID: ownerScope(r),
			Q:       strings.TrimSpace(r.URL.Query().Get("q")),
			Limit:   parseIntDefault(r.URL.Query().Get("limit"), 50),
			Offset:  parseIntDefault(r.URL.Query().Get("offset"), 0),
		})
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		if list == nil {
			list = []assessment.Question{}
		}
		writeJSON(w, http.StatusOK, list)
	}
}

func GetQuestionHandler(store assessment.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q, err := store.GetQuestion(r.Context(), chi.URLParam(r, "id"))
		if errors.Is(err, assessment.ErrNotFound) {
			writeError(w, http.StatusNotFound, "question not found")
			return
		}
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		if scope := ownerScope(r); scope != "" && q.OwnerID != scope {
			writeError(w, http.StatusNotFound, "question not found")
			return
		}
		writeJSON(w, http.StatusOK, q)
	}
}
