// Package authoring runs the teacher's "create test" flow: a four step wizard
// whose step validity is derived from the draft the teacher is editing, and
// which publishes the draft as a test when the last step completes.
package authoring

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/smartmcq/smartmcq/internal/assessment"
	"github.com/smartmcq/smartmcq/internal/wizard"
)

const (
	StepDetails = iota
	StepQuestions
	StepSettings
	StepReview
)

type StepDef struct {
	Key      string `json:"key"`
	Title    string `json:"title"`
	Optional bool   `json:"optional"`
}

var Steps = []StepDef{
	{Key: "details", Title: "Test details"},
	{Key: "questions", Title: "Questions"},
	{Key: "settings", Title: "Settings", Optional: true},
	{Key: "review", Title: "Review & publish"},
}

const (
	maxTitleLen     = 200
	minTitleLen     = 3
	maxTimeLimitMin = 600
)

type Details struct {
	Title        string `json:"title"`
	Description  string `json:"description,omitempty"`
	Subject      string `json:"subject,omitempty"`
	TimeLimitMin int    `json:"time_limit_min"`
}

type Draft struct {
	Details     Details             `json:"details"`
	QuestionIDs []string            `json:"question_ids"`
	Settings    assessment.Settings `json:"settings"`
}

type Session struct {
	ID        string       `json:"id"`
	OwnerID   string       `json:"owner_id"`
	Draft     Draft        `json:"draft"`
	Wizard    wizard.State `json:"wizard"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
}

type stepCheck struct {
	ok  bool
	msg string
}

// QuestionChecker is the slice of assessment.Store validation needs.
type QuestionChecker interface {
	QuestionsExist(ctx context.Context, ids []string) (missing []string, err error)
}

func checkDetails(d Details) stepCheck {
	n := len([]rune(strings.TrimSpace(d.Title)))
	switch {
	case n < minTitleLen || n > maxTitleLen:
		return stepCheck{msg: fmt.Sprintf("title must be %d-%d characters", minTitleLen, maxTitleLen)}
	case d.TimeLimitMin < 1 || d.TimeLimitMin > maxTimeLimitMin:
		return stepCheck{msg: fmt.Sprintf("time limit must be between 1 and %d minutes", maxTimeLimitMin)}
	}
	return stepCheck{ok: true}
}

func checkQuestions(ctx context.Context, qc QuestionChecker, ids []string) (stepCheck, error) {
	if len(ids) == 0 {
		return stepCheck{msg: "select at least one question"}, nil
	}
	seen := map[string]bool{}
	for _, id := range ids {
		if seen[id] {
			return stepCheck{msg: fmt.Sprintf("question %s is selected twice", id)}, nil
		}
		seen[id] = true
	}
	missing, err := qc.QuestionsExist(ctx, ids)
	if err != nil {
		return stepCheck{}, err
	}
	if len(missing) > 0 {
		return stepCheck{msg: "unknown questions: " + strings.Join(missing, ", ")}, nil
	}
	return stepCheck{ok: true}, nil
}

func checkSettings(s assessment.Settings) stepCheck {
	if s.PassingScore < 0 || s.PassingScore > 100 {
		return stepCheck{msg: "passing score must be between 0 and 100"}
	}
	if s.AvailableFrom != nil && s.AvailableUntil != nil && !s.AvailableFrom.Before(*s.AvailableUntil) {
		return stepCheck{msg: "availability window must end after it starts"}
	}
	return stepCheck{ok: true}
}

// checkAll evaluates every step against d, indexed by step.
func checkAll(ctx context.Context, qc QuestionChecker, d Draft) ([]stepCheck, error) {
	out := make([]stepCheck, len(Steps))
	out[StepDetails] = checkDetails(d.Details)
	q, err := checkQuestions(ctx, qc, d.QuestionIDs)
	if err != nil {
		return nil, err
	}
	out[StepQuestions] = q
	out[StepSettings] = checkSettings(d.Settings)
	if out[StepDetails].ok && out[StepQuestions].ok {
		out[StepReview] = stepCheck{ok: true}
	} else {
		out[StepReview] = stepCheck{msg: "complete the details and questions steps before publishing"}
	}
	return out, nil
}

// applyChecks reports validity for every step and the current step's message,
// the way a step's own content reports to the wizard.
func applyChecks(c *wizard.Controller, checks []stepCheck) {
	for i, ch := range checks {
		c.SetStepValid(i, ch.ok)
	}
	c.SetValidationMessage(checks[c.CurrentStep()].msg)
}

// applyStepRules lets only optional steps be skipped.
func applyStepRules(c *wizard.Controller) {
	c.SetRules(wizard.RulesPatch{CanSkipSteps: wizard.Bool(Steps[c.CurrentStep()].Optional)})
}

func normalizeDetails(d Details) Details {
	d.Title = strings.TrimSpace(d.Title)
	d.Description = strings.TrimSpace(d.Description)
	d.Subject = strings.TrimSpace(d.Subject)
	return d
}

func normalizeIDs(ids []string) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if s := strings.TrimSpace(id); s != "" {
			out = append(out, s)
		}
	}
	return out
}
