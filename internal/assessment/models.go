package assessment

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

const (
	TypeMCQSingle = "mcq_single"
	TypeMCQMulti  = "mcq_multi"
	TypeTrueFalse = "true_false"

	StatusDraft     = "draft"
	StatusPublished = "published"
)

type Choice struct {
	ID        string `json:"id"`
	LabelHTML string `json:"label_html"`
}

type Question struct {
	ID         string   `json:"id"`
	OwnerID    string   `json:"owner_id"`
	Type       string   `json:"type"` // mcq_single, mcq_multi, true_false
	PromptHTML string   `json:"prompt_html"`
	Choices    []Choice `json:"choices"`
	AnswerKey  []string `json:"answer_key,omitempty"`
	Points     float64  `json:"points"`
	CreatedAt  int64    `json:"created_at,omitempty"`
}

// Validate checks the question is gradable: known type, a prompt, enough
// choices, and answer keys that point at existing choices.
func (q Question) Validate() error {
	var errs []error
	if strings.TrimSpace(q.PromptHTML) == "" {
		errs = append(errs, errors.New("prompt_html required"))
	}
	if q.Points <= 0 {
		errs = append(errs, errors.New("points must be positive"))
	}
	switch q.Type {
	case TypeMCQSingle, TypeMCQMulti:
		if len(q.Choices) < 2 {
			errs = append(errs, errors.New("at least two choices required"))
		}
	case TypeTrueFalse:
		if len(q.Choices) != 2 {
			errs = append(errs, errors.New("true_false needs exactly two choices"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown type %q", q.Type))
	}

	ids := map[string]bool{}
	for _, c := range q.Choices {
		if c.ID == "" {
			errs = append(errs, errors.New("choice id required"))
			continue
		}
		if ids[c.ID] {
			errs = append(errs, fmt.Errorf("duplicate choice id %q", c.ID))
		}
		ids[c.ID] = true
	}
	if len(q.AnswerKey) == 0 {
		errs = append(errs, errors.New("answer_key required"))
	}
	if q.Type != TypeMCQMulti && len(q.AnswerKey) > 1 {
		errs = append(errs, fmt.Errorf("%s takes a single answer", q.Type))
	}
	for _, k := range q.AnswerKey {
		if !ids[k] {
			errs = append(errs, fmt.Errorf("answer %q is not a choice", k))
		}
	}
	return errors.Join(errs...)
}

// StudentView strips answer keys.
func (q Question) StudentView() Question {
	q.AnswerKey = nil
	return q
}

type Settings struct {
	ShuffleQuestions bool       `json:"shuffle_questions"`
	PassingScore     int        `json:"passing_score"` // percent
	AvailableFrom    *time.Time `json:"available_from,omitempty"`
	AvailableUntil   *time.Time `json:"available_until,omitempty"`
}

type Test struct {
	ID           string   `json:"id"`
	OwnerID      string   `json:"owner_id"`
	Title        string   `json:"title"`
	Description  string   `json:"description,omitempty"`
	Subject      string   `json:"subject,omitempty"`
	TimeLimitSec int      `json:"time_limit_sec"`
	QuestionIDs  []string `json:"question_ids"`
	Settings     Settings `json:"settings"`
	TotalPoints  float64  `json:"total_points"`
	Status       string   `json:"status"` // draft|published
	CreatedAt    int64    `json:"created_at,omitempty"`
}

// TestSummary is a listing row; question ids are reduced to a count.
type TestSummary struct {
	ID            string  `json:"id"`
	Title         string  `json:"title"`
	Subject       string  `json:"subject,omitempty"`
	QuestionCount int     `json:"question_count"`
	TotalPoints   float64 `json:"total_points"`
	Status        string  `json:"status"`
	CreatedAt     int64   `json:"created_at"`
}
