package authoring_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smartmcq/smartmcq/internal/assessment"
	"github.com/smartmcq/smartmcq/internal/authoring"
	"github.com/smartmcq/smartmcq/internal/db/dbtest"
	"github.com/smartmcq/smartmcq/internal/eventlog"
	"github.com/smartmcq/smartmcq/internal/metrics"
	"github.com/smartmcq/smartmcq/internal/session"
	"github.com/smartmcq/smartmcq/internal/wizard"
)

type fixture struct {
	svc    *authoring.Service
	store  *assessment.SQLStore
	events *eventlog.Repo
	qids   []string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	h := dbtest.Open(t)
	store := assessment.NewSQLStore(h)
	events := eventlog.NewRepo(h)
	svc := authoring.NewService(authoring.Deps{
		Store:    store,
		Sessions: session.NewMemoryStore(time.Hour),
		Events:   events,
		Metrics:  metrics.New(),
	})

	f := &fixture{svc: svc, store: store, events: events}
	for i, pts := range []float64{1, 2.5} {
		q, err := store.PutQuestion(context.Background(), assessment.Question{
			OwnerID:    "teacher-1",
			Type:       assessment.TypeTrueFalse,
			PromptHTML: "Statement " + string(rune('A'+i)),
			Choices:    []assessment.Choice{{ID: "t", LabelHTML: "True"}, {ID: "f", LabelHTML: "False"}},
			AnswerKey:  []string{"t"},
			Points:     pts,
		})
		require.NoError(t, err)
		f.qids = append(f.qids, q.ID)
	}
	return f
}

func rejection(t *testing.T, err error) string {
	t.Helper()
	var re *authoring.RejectedError
	require.True(t, errors.As(err, &re), "expected RejectedError, got %v", err)
	return re.Reason()
}

var goodDetails = authoring.Details{Title: "  Physics basics ", Subject: "physics", TimeLimitMin: 20}

func TestFullFlowPublishesTest(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	const owner = "teacher-1"

	v, err := f.svc.Start(ctx, owner)
	require.NoError(t, err)
	id := v.SessionID
	assert.Equal(t, 0, v.CurrentStep)
	assert.Equal(t, 4, v.TotalSteps)
	assert.True(t, v.FirstStep)
	assert.False(t, v.LastStep)
	assert.False(t, v.CanProceed)
	assert.False(t, v.CanSkip, "details is not optional")
	assert.Contains(t, v.ValidationMessage, "title")
	assert.True(t, v.Steps[authoring.StepSettings].Valid)
	assert.False(t, v.Steps[1].Clickable)

	_, err = f.svc.Navigate(ctx, id, owner, wizard.DirectionNext, 0)
	assert.Equal(t, "step_invalid", rejection(t, err))

	v, err = f.svc.UpdateDetails(ctx, id, owner, goodDetails)
	require.NoError(t, err)
	assert.True(t, v.CanProceed)
	assert.Empty(t, v.ValidationMessage)
	assert.Equal(t, "Physics basics", v.Draft.Details.Title)

	v, err = f.svc.Navigate(ctx, id, owner, wizard.DirectionNext, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, v.CurrentStep)
	assert.True(t, v.Steps[0].Completed)
	assert.Equal(t, "select at least one question", v.ValidationMessage)

	_, err = f.svc.Navigate(ctx, id, owner, wizard.DirectionSkip, 0)
	assert.Equal(t, "skip_disabled", rejection(t, err))

	_, err = f.svc.Navigate(ctx, id, owner, wizard.DirectionJump, 3)
	assert.Equal(t, "incomplete_steps", rejection(t, err))

	v, err = f.svc.UpdateQuestions(ctx, id, owner, []string{f.qids[0], "ghost"})
	require.NoError(t, err)
	assert.Equal(t, "unknown questions: ghost", v.ValidationMessage)

	v, err = f.svc.UpdateQuestions(ctx, id, owner, f.qids)
	require.NoError(t, err)
	assert.True(t, v.CanProceed)
	assert.True(t, v.Steps[3].Clickable)

	v, err = f.svc.Navigate(ctx, id, owner, wizard.DirectionJump, 3)
	require.NoError(t, err)
	assert.Equal(t, 3, v.CurrentStep)
	assert.True(t, v.CanProceed)
	assert.True(t, v.LastStep)
	assert.False(t, v.FirstStep)

	v, err = f.svc.Navigate(ctx, id, owner, wizard.DirectionNext, 0)
	require.NoError(t, err)
	assert.True(t, v.Finished)
	assert.False(t, v.CanProceed)
	assert.False(t, v.CanGoBack)
	require.NotEmpty(t, v.TestID)

	test, err := f.store.GetTest(ctx, v.TestID)
	require.NoError(t, err)
	assert.Equal(t, "Physics basics", test.Title)
	assert.Equal(t, 1200, test.TimeLimitSec)
	assert.Equal(t, f.qids, test.QuestionIDs)
	assert.InDelta(t, 3.5, test.TotalPoints, 1e-9)
	assert.Equal(t, assessment.StatusPublished, test.Status)

	_, err = f.svc.Get(ctx, id, owner)
	assert.ErrorIs(t, err, authoring.ErrNotFound)

	hist, err := f.svc.History(ctx, id, owner)
	require.NoError(t, err)
	var types []string
	for _, e := range hist {
		types = append(types, e.Type)
	}
	assert.Equal(t, []string{"wizard.start", "wizard.next", "wizard.jump", "wizard.complete"}, types)

	_, err = f.svc.History(ctx, id, "someone-else")
	assert.ErrorIs(t, err, authoring.ErrForbidden)
}

func TestSkipInvalidSettingsPublishesDefaults(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	const owner = "teacher-1"

	v, err := f.svc.Start(ctx, owner)
	require.NoError(t, err)
	id := v.SessionID
	_, err = f.svc.UpdateDetails(ctx, id, owner, goodDetails)
	require.NoError(t, err)
	_, err = f.svc.UpdateQuestions(ctx, id, owner, f.qids[:1])
	require.NoError(t, err)
	_, err = f.svc.Navigate(ctx, id, owner, wizard.DirectionNext, 0)
	require.NoError(t, err)
	v, err = f.svc.Navigate(ctx, id, owner, wizard.DirectionNext, 0)
	require.NoError(t, err)
	require.Equal(t, authoring.StepSettings, v.CurrentStep)
	assert.False(t, v.CanSkip, "valid optional step cannot be skipped")

	v, err = f.svc.UpdateSettings(ctx, id, owner, assessment.Settings{PassingScore: 150, ShuffleQuestions: true})
	require.NoError(t, err)
	assert.False(t, v.CanProceed)
	assert.True(t, v.CanSkip)
	assert.Contains(t, v.ValidationMessage, "passing score")

	v, err = f.svc.Navigate(ctx, id, owner, wizard.DirectionSkip, 0)
	require.NoError(t, err)
	assert.Equal(t, authoring.StepReview, v.CurrentStep)
	assert.True(t, v.Steps[authoring.StepSettings].Completed)
	assert.False(t, v.Steps[authoring.StepSettings].Valid)
	assert.False(t, v.CanSkip, "review is not optional")

	v, err = f.svc.Navigate(ctx, id, owner, wizard.DirectionNext, 0)
	require.NoError(t, err)
	test, err := f.store.GetTest(ctx, v.TestID)
	require.NoError(t, err)
	assert.Equal(t, assessment.Settings{}, test.Settings)
}

func TestPreviousAndReset(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	const owner = "teacher-1"

	v, err := f.svc.Start(ctx, owner)
	require.NoError(t, err)
	id := v.SessionID

	_, err = f.svc.Navigate(ctx, id, owner, wizard.DirectionPrevious, 0)
	assert.Equal(t, "at_first_step", rejection(t, err))

	_, err = f.svc.UpdateDetails(ctx, id, owner, goodDetails)
	require.NoError(t, err)
	_, err = f.svc.Navigate(ctx, id, owner, wizard.DirectionNext, 0)
	require.NoError(t, err)
	v, err = f.svc.Navigate(ctx, id, owner, wizard.DirectionPrevious, 0)
	require.NoError(t, err)
	assert.Equal(t, 0, v.CurrentStep)
	assert.True(t, v.Steps[0].Completed)

	v, err = f.svc.Reset(ctx, id, owner)
	require.NoError(t, err)
	assert.Equal(t, 0, v.CurrentStep)
	assert.Equal(t, authoring.Draft{}, v.Draft)
	for _, s := range v.Steps {
		assert.False(t, s.Completed)
	}
	assert.False(t, v.CanProceed)
	assert.Zero(t, v.Progress)
}

func TestOwnershipAndDiscard(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	v, err := f.svc.Start(ctx, "teacher-1")
	require.NoError(t, err)

	_, err = f.svc.Get(ctx, v.SessionID, "teacher-2")
	assert.ErrorIs(t, err, authoring.ErrForbidden)
	assert.ErrorIs(t, f.svc.Discard(ctx, v.SessionID, "teacher-2"), authoring.ErrForbidden)

	require.NoError(t, f.svc.Discard(ctx, v.SessionID, "teacher-1"))
	_, err = f.svc.Get(ctx, v.SessionID, "teacher-1")
	assert.ErrorIs(t, err, authoring.ErrNotFound)

	_, err = f.svc.Get(ctx, "missing", "teacher-1")
	assert.ErrorIs(t, err, authoring.ErrNotFound)
}

func TestIndependentSessionsCoexist(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	a, err := f.svc.Start(ctx, "teacher-1")
	require.NoError(t, err)
	b, err := f.svc.Start(ctx, "teacher-1")
	require.NoError(t, err)

	_, err = f.svc.UpdateDetails(ctx, a.SessionID, "teacher-1", goodDetails)
	require.NoError(t, err)
	_, err = f.svc.Navigate(ctx, a.SessionID, "teacher-1", wizard.DirectionNext, 0)
	require.NoError(t, err)

	got, err := f.svc.Get(ctx, b.SessionID, "teacher-1")
	require.NoError(t, err)
	assert.Equal(t, 0, got.CurrentStep)
	assert.Empty(t, got.Draft.Details.Title)
}
