package authoring

import "github.com/smartmcq/smartmcq/internal/wizard"

type StepView struct {
	Index     int    `json:"index"`
	Key       string `json:"key"`
	Title     string `json:"title"`
	Optional  bool   `json:"optional"`
	Valid     bool   `json:"valid"`
	Completed bool   `json:"completed"`
	Current   bool   `json:"current"`
	Clickable bool   `json:"clickable"`
}

// View is everything a front end needs to render the flow: the step
// indicator, which controls are enabled, and the draft being edited.
type View struct {
	SessionID         string     `json:"session_id"`
	CurrentStep       int        `json:"current_step"`
	TotalSteps        int        `json:"total_steps"`
	FirstStep         bool       `json:"first_step"`
	LastStep          bool       `json:"last_step"`
	Steps             []StepView `json:"steps"`
	CanProceed        bool       `json:"can_proceed"`
	CanGoBack         bool       `json:"can_go_back"`
	CanSkip           bool       `json:"can_skip"`
	ValidationMessage string     `json:"validation_message,omitempty"`
	Draft             Draft      `json:"draft"`
	Progress          float64    `json:"progress"`
	Finished          bool       `json:"finished"`
	TestID            string     `json:"test_id,omitempty"`
}

func buildView(sess *Session, c *wizard.Controller, testID string) View {
	steps := make([]StepView, len(Steps))
	for i, def := range Steps {
		steps[i] = StepView{
			Index:     i,
			Key:       def.Key,
			Title:     def.Title,
			Optional:  def.Optional,
			Valid:     c.IsValid(i),
			Completed: c.IsCompleted(i),
			Current:   i == c.CurrentStep(),
			Clickable: i != c.CurrentStep() && c.CanJumpTo(i),
		}
	}
	return View{
		SessionID:         sess.ID,
		CurrentStep:       c.CurrentStep(),
		TotalSteps:        c.TotalSteps(),
		FirstStep:         c.IsFirstStep(),
		LastStep:          c.IsLastStep(),
		Steps:             steps,
		CanProceed:        c.CanProceed(),
		CanGoBack:         c.CanGoBack(),
		CanSkip:           c.CanSkip(),
		ValidationMessage: c.ValidationMessage(),
		Draft:             sess.Draft,
		Progress:          c.Progress(),
		Finished:          c.Finished(),
		TestID:            testID,
	}
}
