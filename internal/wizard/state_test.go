package wizard_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smartmcq/smartmcq/internal/wizard"
)

func TestSnapshotRestoreContinuesFlow(t *testing.T) {
	c, _ := newController(t, 4, wizard.RulesPatch{CanSkipSteps: wizard.Bool(true)})
	c.SetStepValid(0, true)
	require.True(t, c.NextStep())
	c.SetStepValid(2, true)
	c.SetValidationMessage("questions missing")

	raw, err := json.Marshal(c.Snapshot())
	require.NoError(t, err)
	var st wizard.State
	require.NoError(t, json.Unmarshal(raw, &st))

	rec := &recorder{}
	r, err := wizard.Restore(st, rec.callbacks())
	require.NoError(t, err)
	assert.Equal(t, 1, r.CurrentStep())
	assert.Equal(t, []int{0}, r.CompletedSteps())
	assert.Equal(t, []int{0, 2}, r.ValidSteps())
	assert.Equal(t, "questions missing", r.ValidationMessage())
	assert.True(t, r.Rules().CanSkipSteps)

	require.True(t, r.SkipStep())
	assert.Equal(t, []change{{2, wizard.DirectionSkip}}, rec.changes)
}

func TestRestoreRejectsOutOfRange(t *testing.T) {
	_, err := wizard.Restore(wizard.State{TotalSteps: 2, CurrentStep: 2}, wizard.Callbacks{})
	assert.ErrorIs(t, err, wizard.ErrInvalidConfig)

	_, err = wizard.Restore(wizard.State{TotalSteps: 2, CompletedSteps: []int{4}}, wizard.Callbacks{})
	assert.ErrorIs(t, err, wizard.ErrInvalidConfig)

	_, err = wizard.Restore(wizard.State{}, wizard.Callbacks{})
	assert.ErrorIs(t, err, wizard.ErrInvalidConfig)
}

func TestResetAfterRestoreUsesBaseRules(t *testing.T) {
	c, _ := newController(t, 3, wizard.RulesPatch{})
	c.SetRules(wizard.RulesPatch{AllowIncompleteNavigation: wizard.Bool(true)})

	r, err := wizard.Restore(c.Snapshot(), wizard.Callbacks{})
	require.NoError(t, err)
	assert.True(t, r.Rules().AllowIncompleteNavigation)
	r.Reset()
	assert.False(t, r.Rules().AllowIncompleteNavigation)
}
