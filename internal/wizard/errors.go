package wizard

import "errors"

var ErrInvalidConfig = errors.New("wizard: invalid config")

// Guard errors. Transition methods never return these; Check does, so callers
// that want an explicit reason can ask for one.
var (
	ErrOutOfRange        = errors.New("step out of range")
	ErrStepInvalid       = errors.New("current step is not valid")
	ErrAtFirstStep       = errors.New("already at the first step")
	ErrBackwardDisabled  = errors.New("backward navigation is disabled")
	ErrSkipDisabled      = errors.New("skipping steps is disabled")
	ErrStepAlreadyValid  = errors.New("a valid step cannot be skipped")
	ErrClickBackDisabled = errors.New("jumping to previous steps is disabled")
	ErrIncompleteSteps   = errors.New("intermediate steps are not completed")
	ErrFinished          = errors.New("wizard already finished")
	ErrUnknownDirection  = errors.New("unknown direction")
)

// ReasonCode maps a guard error to a short stable code for logs, metrics and
// API responses.
func ReasonCode(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrOutOfRange):
		return "out_of_range"
	case errors.Is(err, ErrStepInvalid):
		return "step_invalid"
	case errors.Is(err, ErrAtFirstStep):
		return "at_first_step"
	case errors.Is(err, ErrBackwardDisabled):
		return "backward_disabled"
	case errors.Is(err, ErrSkipDisabled):
		return "skip_disabled"
	case errors.Is(err, ErrStepAlreadyValid):
		return "step_already_valid"
	case errors.Is(err, ErrClickBackDisabled):
		return "click_back_disabled"
	case errors.Is(err, ErrIncompleteSteps):
		return "incomplete_steps"
	case errors.Is(err, ErrFinished):
		return "finished"
	case errors.Is(err, ErrUnknownDirection):
		return "unknown_direction"
	default:
		return "other"
	}
}
