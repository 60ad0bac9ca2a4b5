// Package wizard implements the navigation controller behind multi-step
// authoring flows: which step is current, which steps are valid or completed,
// and whether next/previous/skip/jump is allowed right now.
//
// Rejected transitions are silent: the methods return false and leave the
// state untouched. Check reports why a transition would be rejected.
//
// A Controller is not safe for concurrent use. Each flow owns its own
// instance and serialises access to it.
package wizard

import (
	"fmt"
	"sort"
)

type Direction string

const (
	DirectionNext     Direction = "next"
	DirectionPrevious Direction = "previous"
	DirectionSkip     Direction = "skip"
	DirectionJump     Direction = "jump"
)

// Callbacks are invoked synchronously after the state has changed.
type Callbacks struct {
	// OnComplete fires once, when next or skip succeeds on the last step.
	OnComplete func()
	// OnStepChange fires on every successful transition with the new step.
	OnStepChange func(step int, d Direction)
}

type Options struct {
	TotalSteps  int
	InitialStep int
	Rules       RulesPatch
	Callbacks
}

type Controller struct {
	total   int
	initial int
	current int

	completed map[int]struct{}
	valid     map[int]struct{}

	rules     Rules
	baseRules Rules
	message   string
	finished  bool

	cb Callbacks
}

func New(opts Options) (*Controller, error) {
	if opts.TotalSteps < 1 {
		return nil, fmt.Errorf("%w: total steps must be positive, got %d", ErrInvalidConfig, opts.TotalSteps)
	}
	if opts.InitialStep < 0 || opts.InitialStep >= opts.TotalSteps {
		return nil, fmt.Errorf("%w: initial step %d outside [0,%d)", ErrInvalidConfig, opts.InitialStep, opts.TotalSteps)
	}
	rules := DefaultRules().Apply(opts.Rules)
	return &Controller{
		total:     opts.TotalSteps,
		initial:   opts.InitialStep,
		current:   opts.InitialStep,
		completed: map[int]struct{}{},
		valid:     map[int]struct{}{},
		rules:     rules,
		baseRules: rules,
		cb:        opts.Callbacks,
	}, nil
}

// ---- validity ----

// SetStepValid records whether step currently satisfies its own rules.
// Any step may be marked, not just the current one.
func (c *Controller) SetStepValid(step int, isValid bool) {
	if !c.inRange(step) {
		return
	}
	if isValid {
		c.valid[step] = struct{}{}
	} else {
		delete(c.valid, step)
	}
}

// SetValidationMessage sets the advisory blocking reason; "" clears it.
func (c *Controller) SetValidationMessage(msg string) { c.message = msg }

// SetRules merges p over the current rules. Reset restores the rules the
// controller was created with.
func (c *Controller) SetRules(p RulesPatch) { c.rules = c.rules.Apply(p) }

// ---- transitions ----

func (c *Controller) GoToStep(target int) bool {
	if c.checkJump(target) != nil {
		return false
	}
	if target == c.current {
		return true
	}
	c.current = target
	c.message = ""
	c.notify(target, DirectionJump)
	return true
}

func (c *Controller) NextStep() bool {
	if c.checkNext() != nil {
		return false
	}
	if c.IsValid(c.current) {
		c.completed[c.current] = struct{}{}
	}
	c.message = ""
	c.advance(DirectionNext)
	return true
}

func (c *Controller) PreviousStep() bool {
	if c.checkPrevious() != nil {
		return false
	}
	c.current--
	c.message = ""
	c.notify(c.current, DirectionPrevious)
	return true
}

// SkipStep completes the current step without it being valid. Only invalid
// steps can be skipped.
func (c *Controller) SkipStep() bool {
	if c.checkSkip() != nil {
		return false
	}
	c.completed[c.current] = struct{}{}
	c.message = ""
	c.advance(DirectionSkip)
	return true
}

func (c *Controller) Reset() {
	c.current = c.initial
	c.completed = map[int]struct{}{}
	c.valid = map[int]struct{}{}
	c.message = ""
	c.rules = c.baseRules
	c.finished = false
}

func (c *Controller) advance(d Direction) {
	if c.current == c.total-1 {
		c.finished = true
		if c.cb.OnComplete != nil {
			c.cb.OnComplete()
		}
		return
	}
	c.current++
	c.notify(c.current, d)
}

func (c *Controller) notify(step int, d Direction) {
	if c.cb.OnStepChange != nil {
		c.cb.OnStepChange(step, d)
	}
}

// ---- guards ----

// Check returns the reason the transition d (to target, for jumps) would be
// rejected right now, or nil if it would succeed.
func (c *Controller) Check(d Direction, target int) error {
	switch d {
	case DirectionNext:
		return c.checkNext()
	case DirectionPrevious:
		return c.checkPrevious()
	case DirectionSkip:
		return c.checkSkip()
	case DirectionJump:
		return c.checkJump(target)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownDirection, d)
	}
}

func (c *Controller) checkNext() error {
	if c.finished {
		return ErrFinished
	}
	if !c.CanProceed() {
		return ErrStepInvalid
	}
	return nil
}

func (c *Controller) checkPrevious() error {
	if c.finished {
		return ErrFinished
	}
	if !c.rules.CanGoBackward {
		return ErrBackwardDisabled
	}
	if c.current == 0 {
		return ErrAtFirstStep
	}
	return nil
}

func (c *Controller) checkSkip() error {
	if c.finished {
		return ErrFinished
	}
	if !c.rules.CanSkipSteps {
		return ErrSkipDisabled
	}
	if c.IsValid(c.current) {
		return ErrStepAlreadyValid
	}
	return nil
}

func (c *Controller) checkJump(target int) error {
	if c.finished {
		return ErrFinished
	}
	if !c.inRange(target) {
		return fmt.Errorf("%w: %d", ErrOutOfRange, target)
	}
	switch {
	case target == c.current:
		return nil
	case target < c.current:
		if !c.rules.CanClickPreviousSteps {
			return ErrClickBackDisabled
		}
		return nil
	}
	if !c.rules.RequireSequentialCompletion {
		return nil
	}
	for i := c.current; i < target; i++ {
		if !c.IsCompleted(i) && !c.IsValid(i) {
			return fmt.Errorf("%w: step %d", ErrIncompleteSteps, i)
		}
	}
	return nil
}

// ---- derived state ----
//
// A finished flow is terminal: every permission is false until Reset.

func (c *Controller) CanProceed() bool {
	return !c.finished && (c.IsValid(c.current) || c.rules.AllowIncompleteNavigation)
}

func (c *Controller) CanGoBack() bool {
	return !c.finished && c.rules.CanGoBackward && c.current > 0
}

func (c *Controller) CanSkip() bool {
	return !c.finished && c.rules.CanSkipSteps && !c.IsValid(c.current)
}

// CanJumpTo reports whether GoToStep(target) would succeed. Step indicators
// use it to decide which steps are clickable.
func (c *Controller) CanJumpTo(target int) bool { return c.checkJump(target) == nil }

// ---- accessors ----

func (c *Controller) CurrentStep() int          { return c.current }
func (c *Controller) InitialStep() int          { return c.initial }
func (c *Controller) TotalSteps() int           { return c.total }
func (c *Controller) Rules() Rules              { return c.rules }
func (c *Controller) ValidationMessage() string { return c.message }
func (c *Controller) Finished() bool            { return c.finished }
func (c *Controller) IsFirstStep() bool         { return c.current == 0 }
func (c *Controller) IsLastStep() bool          { return c.current == c.total-1 }

func (c *Controller) IsCompleted(step int) bool {
	_, ok := c.completed[step]
	return ok
}

func (c *Controller) IsValid(step int) bool {
	_, ok := c.valid[step]
	return ok
}

func (c *Controller) CompletedSteps() []int { return sortedKeys(c.completed) }
func (c *Controller) ValidSteps() []int     { return sortedKeys(c.valid) }

// Progress is the completed fraction of the flow, in [0,1].
func (c *Controller) Progress() float64 {
	return float64(len(c.completed)) / float64(c.total)
}

func (c *Controller) inRange(step int) bool { return step >= 0 && step < c.total }

func sortedKeys(m map[int]struct{}) []int {
	out := make([]int, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Ints(out)
	return out
}
