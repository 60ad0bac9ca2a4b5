package authoring

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/smartmcq/smartmcq/internal/assessment"
	"github.com/smartmcq/smartmcq/internal/eventlog"
	"github.com/smartmcq/smartmcq/internal/logger"
	"github.com/smartmcq/smartmcq/internal/metrics"
	"github.com/smartmcq/smartmcq/internal/session"
	"github.com/smartmcq/smartmcq/internal/wizard"
)

var (
	ErrNotFound  = errors.New("authoring session not found")
	ErrForbidden = errors.New("authoring session belongs to another user")
)

// RejectedError is returned by Navigate when the wizard refused the move.
// The accompanying View is still valid.
type RejectedError struct {
	Direction wizard.Direction
	Err       error
}

func (e *RejectedError) Error() string {
	return fmt.Sprintf("%s rejected: %v", e.Direction, e.Err)
}

func (e *RejectedError) Unwrap() error { return e.Err }

// Reason is the stable code for the rejection.
func (e *RejectedError) Reason() string { return wizard.ReasonCode(e.Err) }

type Events interface {
	Append(ctx context.Context, e eventlog.Event) error
	List(ctx context.Context, key string, limit int) ([]eventlog.Event, error)
}

type Deps struct {
	Store    assessment.Store
	Sessions session.Store
	Events   Events            // optional
	Metrics  *metrics.Recorder // optional
	Log      *logger.Logger    // optional
}

type Service struct {
	store    assessment.Store
	sessions session.Store
	locks    *session.Locker
	events   Events
	metrics  *metrics.Recorder
	log      *logger.Logger
	now      func() time.Time
}

func NewService(d Deps) *Service {
	log := d.Log
	if log == nil {
		log = logger.Nop()
	}
	return &Service{
		store:    d.Store,
		sessions: d.Sessions,
		locks:    session.NewLocker(),
		events:   d.Events,
		metrics:  d.Metrics,
		log:      log.With("component", "authoring"),
		now:      time.Now,
	}
}

// transition is one wizard notification captured during an operation.
type transition struct {
	typ  string
	step int
}

// op is the per-request scratch state shared by the wizard callbacks.
type op struct {
	sess        *Session
	c           *wizard.Controller
	transitions []transition
	completed   bool
}

func (o *op) callbacks() wizard.Callbacks {
	return wizard.Callbacks{
		OnComplete: func() { o.completed = true },
		OnStepChange: func(step int, d wizard.Direction) {
			o.transitions = append(o.transitions, transition{typ: "wizard." + string(d), step: step})
		},
	}
}

// Start opens a new session for owner.
func (s *Service) Start(ctx context.Context, owner string) (View, error) {
	now := s.now()
	sess := &Session{ID: uuid.NewString(), OwnerID: owner, CreatedAt: now, UpdatedAt: now}
	o := &op{sess: sess}
	c, err := wizard.New(wizard.Options{TotalSteps: len(Steps), Callbacks: o.callbacks()})
	if err != nil {
		return View{}, err
	}
	o.c = c
	applyStepRules(c)
	if err := s.revalidate(ctx, o); err != nil {
		return View{}, err
	}
	if err := s.save(ctx, sess, c); err != nil {
		return View{}, err
	}
	s.metrics.SessionStarted()
	s.record(ctx, sess, transition{typ: "wizard.start", step: c.CurrentStep()})
	s.log.Info("authoring session started", "session_id", sess.ID, "owner_id", owner)
	return buildView(sess, c, ""), nil
}

func (s *Service) Get(ctx context.Context, id, owner string) (View, error) {
	return s.withSession(ctx, id, owner, func(*op) error { return nil })
}

func (s *Service) UpdateDetails(ctx context.Context, id, owner string, d Details) (View, error) {
	return s.withSession(ctx, id, owner, func(o *op) error {
		o.sess.Draft.Details = normalizeDetails(d)
		return nil
	})
}

func (s *Service) UpdateQuestions(ctx context.Context, id, owner string, ids []string) (View, error) {
	return s.withSession(ctx, id, owner, func(o *op) error {
		o.sess.Draft.QuestionIDs = normalizeIDs(ids)
		return nil
	})
}

func (s *Service) UpdateSettings(ctx context.Context, id, owner string, st assessment.Settings) (View, error) {
	return s.withSession(ctx, id, owner, func(o *op) error {
		o.sess.Draft.Settings = st
		return nil
	})
}

// Navigate applies one wizard transition. A refused transition returns the
// unchanged view together with a *RejectedError.
func (s *Service) Navigate(ctx context.Context, id, owner string, d wizard.Direction, target int) (View, error) {
	var rejected error
	v, err := s.withSession(ctx, id, owner, func(o *op) error {
		if err := o.c.Check(d, target); err != nil {
			rejected = err
			return nil
		}
		switch d {
		case wizard.DirectionNext:
			o.c.NextStep()
		case wizard.DirectionPrevious:
			o.c.PreviousStep()
		case wizard.DirectionSkip:
			o.c.SkipStep()
		case wizard.DirectionJump:
			o.c.GoToStep(target)
		}
		return nil
	})
	if err != nil {
		return View{}, err
	}
	if rejected != nil {
		re := &RejectedError{Direction: d, Err: rejected}
		s.metrics.Rejection(string(d), re.Reason())
		s.log.Debug("wizard transition rejected", "session_id", id, "direction", d, "reason", re.Reason())
		return v, re
	}
	return v, nil
}

// Reset clears the draft and returns the wizard to its first step.
func (s *Service) Reset(ctx context.Context, id, owner string) (View, error) {
	return s.withSession(ctx, id, owner, func(o *op) error {
		o.c.Reset()
		o.sess.Draft = Draft{}
		o.transitions = append(o.transitions, transition{typ: "wizard.reset", step: o.c.CurrentStep()})
		return nil
	})
}

func (s *Service) Discard(ctx context.Context, id, owner string) error {
	unlock := s.locks.Lock(id)
	defer unlock()
	sess, err := s.load(ctx, id, owner)
	if err != nil {
		return err
	}
	if err := s.sessions.Delete(ctx, id); err != nil {
		return err
	}
	s.record(ctx, sess, transition{typ: "wizard.discard", step: sess.Wizard.CurrentStep})
	return nil
}

// History returns the audit trail of a session, including finished ones.
func (s *Service) History(ctx context.Context, id, owner string) ([]eventlog.Event, error) {
	if s.events == nil {
		return nil, ErrNotFound
	}
	evs, err := s.events.List(ctx, id, 500)
	if err != nil {
		return nil, err
	}
	if len(evs) == 0 {
		return nil, ErrNotFound
	}
	var first eventData
	_ = json.Unmarshal([]byte(evs[0].DataJSON), &first)
	if first.OwnerID != owner {
		return nil, ErrForbidden
	}
	return evs, nil
}

// withSession loads a session under its lock, refreshes step validity from
// the draft, runs fn and persists the result. When fn finishes the flow the
// draft is published and the session removed.
func (s *Service) withSession(ctx context.Context, id, owner string, fn func(o *op) error) (View, error) {
	unlock := s.locks.Lock(id)
	defer unlock()

	sess, err := s.load(ctx, id, owner)
	if err != nil {
		return View{}, err
	}
	o := &op{sess: sess}
	c, err := wizard.Restore(sess.Wizard, o.callbacks())
	if err != nil {
		return View{}, fmt.Errorf("restore wizard: %w", err)
	}
	o.c = c

	applyStepRules(c)
	if err := s.revalidate(ctx, o); err != nil {
		return View{}, err
	}
	if err := fn(o); err != nil {
		return View{}, err
	}

	if o.completed {
		t, err := s.publish(ctx, sess)
		if err != nil {
			return View{}, err
		}
		if err := s.sessions.Delete(ctx, id); err != nil {
			s.log.Warn("delete finished session", "session_id", id, "error", err)
		}
		s.afterTransitions(ctx, o)
		s.metrics.Completion()
		s.record(ctx, sess, transition{typ: "wizard.complete", step: c.CurrentStep()})
		s.log.Info("test published", "session_id", id, "test_id", t.ID, "owner_id", owner)
		return buildView(sess, c, t.ID), nil
	}

	applyStepRules(c)
	if err := s.revalidate(ctx, o); err != nil {
		return View{}, err
	}
	sess.UpdatedAt = s.now()
	if err := s.save(ctx, sess, c); err != nil {
		return View{}, err
	}
	s.afterTransitions(ctx, o)
	return buildView(sess, c, ""), nil
}

func (s *Service) revalidate(ctx context.Context, o *op) error {
	checks, err := checkAll(ctx, s.store, o.sess.Draft)
	if err != nil {
		return fmt.Errorf("validate draft: %w", err)
	}
	applyChecks(o.c, checks)
	return nil
}

func (s *Service) afterTransitions(ctx context.Context, o *op) {
	for _, t := range o.transitions {
		s.metrics.Transition(t.typ[len("wizard."):])
		s.record(ctx, o.sess, t)
		s.log.Debug("wizard transition", "session_id", o.sess.ID, "event", t.typ, "step", t.step)
	}
}

// publish turns the draft into a published test. A skipped (invalid)
// settings step publishes with default settings.
func (s *Service) publish(ctx context.Context, sess *Session) (assessment.Test, error) {
	d := sess.Draft
	settings := d.Settings
	if !checkSettings(settings).ok {
		settings = assessment.Settings{}
	}
	total := 0.0
	for _, qid := range d.QuestionIDs {
		q, err := s.store.GetQuestion(ctx, qid)
		if err != nil {
			return assessment.Test{}, fmt.Errorf("publish: %w", err)
		}
		total += q.Points
	}
	t, err := s.store.PutTest(ctx, assessment.Test{
		OwnerID:      sess.OwnerID,
		Title:        d.Details.Title,
		Description:  d.Details.Description,
		Subject:      d.Details.Subject,
		TimeLimitSec: d.Details.TimeLimitMin * 60,
		QuestionIDs:  d.QuestionIDs,
		Settings:     settings,
		TotalPoints:  total,
		Status:       assessment.StatusPublished,
	})
	if err != nil {
		return assessment.Test{}, fmt.Errorf("publish: %w", err)
	}
	return t, nil
}

func (s *Service) load(ctx context.Context, id, owner string) (*Session, error) {
	raw, err := s.sessions.Get(ctx, id)
	if errors.Is(err, session.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	var sess Session
	if err := json.Unmarshal(raw, &sess); err != nil {
		return nil, fmt.Errorf("decode session %s: %w", id, err)
	}
	if sess.OwnerID != owner {
		return nil, ErrForbidden
	}
	return &sess, nil
}

func (s *Service) save(ctx context.Context, sess *Session, c *wizard.Controller) error {
	sess.Wizard = c.Snapshot()
	raw, err := json.Marshal(sess)
	if err != nil {
		return err
	}
	return s.sessions.Put(ctx, sess.ID, raw)
}

type eventData struct {
	OwnerID string `json:"owner_id"`
	Step    int    `json:"step"`
}

// record appends to the audit log; failures are logged, never surfaced.
func (s *Service) record(ctx context.Context, sess *Session, t transition) {
	if s.events == nil {
		return
	}
	data, _ := json.Marshal(eventData{OwnerID: sess.OwnerID, Step: t.step})
	if err := s.events.Append(ctx, eventlog.Event{Type: t.typ, Key: sess.ID, DataJSON: string(data)}); err != nil {
		s.log.Warn("append wizard event", "session_id", sess.ID, "event", t.typ, "error", err)
	}
}
