package http

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/smartmcq/smartmcq/internal/assessment"
	"github.com/smartmcq/smartmcq/internal/auth"
	"github.com/smartmcq/smartmcq/internal/authoring"
	"github.com/smartmcq/smartmcq/internal/wizard"
)

func mountWizards(r chi.Router, svc *authoring.Service) {
	r.Post("/", StartWizardHandler(svc))
	r.Route("/{id}", func(r chi.Router) {
		r.Get("/", GetWizardHandler(svc))
		r.Delete("/", DiscardWizardHandler(svc))
		r.Get("/events", WizardEventsHandler(svc))

		r.Put("/details", UpdateDetailsHandler(svc))
		r.Put("/questions", UpdateQuestionsHandler(svc))
		r.Put("/settings", UpdateSettingsHandler(svc))

		r.Post("/next", NavigateHandler(svc, wizard.DirectionNext))
		r.Post("/previous", NavigateHandler(svc, wizard.DirectionPrevious))
		r.Post("/skip", NavigateHandler(svc, wizard.DirectionSkip))
		r.Post("/jump", NavigateHandler(svc, wizard.DirectionJump))
		r.Post("/reset", ResetWizardHandler(svc))
	})
}

// writeWizard maps an authoring result onto a response. Rejected
// transitions answer 409 with the reason and the unchanged view.
func writeWizard(w http.ResponseWriter, v authoring.View, err error, okStatus int) {
	var rejected *authoring.RejectedError
	switch {
	case err == nil:
		writeJSON(w, okStatus, v)
	case errors.As(err, &rejected):
		writeJSON(w, http.StatusConflict, map[string]any{"error": rejected.Reason(), "view": v})
	case errors.Is(err, authoring.ErrNotFound):
		writeError(w, http.StatusNotFound, "wizard not found")
	case errors.Is(err, authoring.ErrForbidden):
		writeError(w, http.StatusForbidden, "forbidden")
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

func StartWizardHandler(svc *authoring.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		v, err := svc.Start(r.Context(), auth.SubjectFromContext(r.Context()))
		writeWizard(w, v, err, http.StatusCreated)
	}
}

func GetWizardHandler(svc *authoring.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		v, err := svc.Get(r.Context(), chi.URLParam(r, "id"), auth.SubjectFromContext(r.Context()))
		writeWizard(w, v, err, http.StatusOK)
	}
}

func DiscardWizardHandler(svc *authoring.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		err := svc.Discard(r.Context(), chi.URLParam(r, "id"), auth.SubjectFromContext(r.Context()))
		if err != nil {
			writeWizard(w, authoring.View{}, err, 0)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func WizardEventsHandler(svc *authoring.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		evs, err := svc.History(r.Context(), chi.URLParam(r, "id"), auth.SubjectFromContext(r.Context()))
		if err != nil {
			writeWizard(w, authoring.View{}, err, 0)
			return
		}
		writeJSON(w, http.StatusOK, evs)
	}
}

func UpdateDetailsHandler(svc *authoring.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var d authoring.Details
		if err := decodeJSON(w, r, &d); err != nil {
			writeError(w, http.StatusBadRequest, "bad json")
			return
		}
		v, err := svc.UpdateDetails(r.Context(), chi.URLParam(r, "id"), auth.SubjectFromContext(r.Context()), d)
		writeWizard(w, v, err, http.StatusOK)
	}
}

func UpdateQuestionsHandler(svc *authoring.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			QuestionIDs []string `json:"question_ids"`
		}
		if err := decodeJSON(w, r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "bad json")
			return
		}
		v, err := svc.UpdateQuestions(r.Context(), chi.URLParam(r, "id"), auth.SubjectFromContext(r.Context()), req.QuestionIDs)
		writeWizard(w, v, err, http.StatusOK)
	}
}

func UpdateSettingsHandler(svc *authoring.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var s assessment.Settings
		if err := decodeJSON(w, r, &s); err != nil {
			writeError(w, http.StatusBadRequest, "bad json")
			return
		}
		v, err := svc.UpdateSettings(r.Context(), chi.URLParam(r, "id"), auth.SubjectFromContext(r.Context()), s)
		writeWizard(w, v, err, http.StatusOK)
	}
}

// NavigateHandler serves next/previous/skip and jump. Jump reads {"step": n}.
func NavigateHandler(svc *authoring.Service, d wizard.Direction) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		target := 0
		if d == wizard.DirectionJump {
			var req struct {
				Step *int `json:"step"`
			}
			if err := decodeJSON(w, r, &req); err != nil || req.Step == nil {
				writeError(w, http.StatusBadRequest, "step required")
				return
			}
			target = *req.Step
		}
		v, err := svc.Navigate(r.Context(), chi.URLParam(r, "id"), auth.SubjectFromContext(r.Context()), d, target)
		writeWizard(w, v, err, http.StatusOK)
	}
}

func ResetWizardHandler(svc *authoring.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		v, err := svc.Reset(r.Context(), chi.URLParam(r, "id"), auth.SubjectFromContext(r.Context()))
		writeWizard(w, v, err, http.StatusOK)
	}
}
