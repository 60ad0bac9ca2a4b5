package wizard

import "fmt"

// State is a serialisable snapshot of a Controller. Callbacks are not part of
// it; they are supplied again on Restore.
type State struct {
	CurrentStep       int    `json:"current_step"`
	TotalSteps        int    `json:"total_steps"`
	InitialStep       int    `json:"initial_step"`
	CompletedSteps    []int  `json:"completed_steps"`
	ValidSteps        []int  `json:"valid_steps"`
	Rules             Rules  `json:"rules"`
	BaseRules         Rules  `json:"base_rules"`
	ValidationMessage string `json:"validation_message,omitempty"`
	Finished          bool   `json:"finished,omitempty"`
}

func (c *Controller) Snapshot() State {
	return State{
		CurrentStep:       c.current,
		TotalSteps:        c.total,
		InitialStep:       c.initial,
		CompletedSteps:    c.CompletedSteps(),
		ValidSteps:        c.ValidSteps(),
		Rules:             c.rules,
		BaseRules:         c.baseRules,
		ValidationMessage: c.message,
		Finished:          c.finished,
	}
}

// Restore rebuilds a controller from s. Step indexes outside the flow are
// rejected rather than clamped.
func Restore(s State, cb Callbacks) (*Controller, error) {
	if s.TotalSteps < 1 {
		return nil, fmt.Errorf("%w: total steps must be positive, got %d", ErrInvalidConfig, s.TotalSteps)
	}
	c := &Controller{
		total:     s.TotalSteps,
		initial:   s.InitialStep,
		current:   s.CurrentStep,
		completed: make(map[int]struct{}, len(s.CompletedSteps)),
		valid:     make(map[int]struct{}, len(s.ValidSteps)),
		rules:     s.Rules,
		baseRules: s.BaseRules,
		message:   s.ValidationMessage,
		finished:  s.Finished,
		cb:        cb,
	}
	if !c.inRange(s.InitialStep) || !c.inRange(s.CurrentStep) {
		return nil, fmt.Errorf("%w: step out of range in snapshot", ErrInvalidConfig)
	}
	for _, i := range s.CompletedSteps {
		if !c.inRange(i) {
			return nil, fmt.Errorf("%w: completed step %d out of range", ErrInvalidConfig, i)
		}
		c.completed[i] = struct{}{}
	}
	for _, i := range s.ValidSteps {
		if !c.inRange(i) {
			return nil, fmt.Errorf("%w: valid step %d out of range", ErrInvalidConfig, i)
		}
		c.valid[i] = struct{}{}
	}
	return c, nil
}
