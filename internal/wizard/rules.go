package wizard

// Rules controls which transitions a wizard permits.
type Rules struct {
	CanSkipSteps                bool `json:"can_skip_steps"`
	CanGoBackward               bool `json:"can_go_backward"`
	CanClickPreviousSteps       bool `json:"can_click_previous_steps"`
	RequireSequentialCompletion bool `json:"require_sequential_completion"`
	AllowIncompleteNavigation   bool `json:"allow_incomplete_navigation"`
}

// DefaultRules: no skipping, backward and click-back allowed, sequential
// completion required, no advancing past an invalid step.
func DefaultRules() Rules {
	return Rules{
		CanSkipSteps:                false,
		CanGoBackward:               true,
		CanClickPreviousSteps:       true,
		RequireSequentialCompletion: true,
		AllowIncompleteNavigation:   false,
	}
}

// RulesPatch is a partial Rules; nil fields leave the base value untouched.
type RulesPatch struct {
	CanSkipSteps                *bool `json:"can_skip_steps,omitempty"`
	CanGoBackward               *bool `json:"can_go_backward,omitempty"`
	CanClickPreviousSteps       *bool `json:"can_click_previous_steps,omitempty"`
	RequireSequentialCompletion *bool `json:"require_sequential_completion,omitempty"`
	AllowIncompleteNavigation   *bool `json:"allow_incomplete_navigation,omitempty"`
}

// Apply returns r with every set field of p merged over it.
func (r Rules) Apply(p RulesPatch) Rules {
	if p.CanSkipSteps != nil {
		r.CanSkipSteps = *p.CanSkipSteps
	}
	if p.CanGoBackward != nil {
		r.CanGoBackward = *p.CanGoBackward
	}
	if p.CanClickPreviousSteps != nil {
		r.CanClickPreviousSteps = *p.CanClickPreviousSteps
	}
	if p.RequireSequentialCompletion != nil {
		r.RequireSequentialCompletion = *p.RequireSequentialCompletion
	}
	if p.AllowIncompleteNavigation != nil {
		r.AllowIncompleteNavigation = *p.AllowIncompleteNavigation
	}
	return r
}

// Bool is a helper for building a RulesPatch literal.
func Bool(v bool) *bool { return &v }
