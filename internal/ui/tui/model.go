package tui

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/smartmcq/smartmcq/internal/assessment"
	"github.com/smartmcq/smartmcq/internal/authoring"
	"github.com/smartmcq/smartmcq/internal/wizard"
)

// Backend is the authoring surface the TUI drives. *authoring.Service
// satisfies it.
type Backend interface {
	Start(ctx context.Context, owner string) (authoring.View, error)
	UpdateDetails(ctx context.Context, id, owner string, d authoring.Details) (authoring.View, error)
	UpdateQuestions(ctx context.Context, id, owner string, ids []string) (authoring.View, error)
	UpdateSettings(ctx context.Context, id, owner string, s assessment.Settings) (authoring.View, error)
	Navigate(ctx context.Context, id, owner string, d wizard.Direction, target int) (authoring.View, error)
	Reset(ctx context.Context, id, owner string) (authoring.View, error)
}

type field struct {
	label       string
	placeholder string
}

var stepFields = [][]field{
	authoring.StepDetails: {
		{label: "Title"},
		{label: "Subject"},
		{label: "Time limit (minutes)", placeholder: "30"},
		{label: "Description"},
	},
	authoring.StepQuestions: {
		{label: "Question IDs", placeholder: "comma separated"},
	},
	authoring.StepSettings: {
		{label: "Passing score (%)", placeholder: "0"},
		{label: "Shuffle questions (y/n)", placeholder: "n"},
	},
	authoring.StepReview: nil,
}

// Model is the Bubble Tea model for one authoring session.
type Model struct {
	ctx   context.Context
	svc   Backend
	owner string

	view    authoring.View
	loaded  bool
	inputs  [][]textinput.Model
	focus   int
	pending bool

	// Notice is the last rejection reason, cleared by the next success.
	Notice string
	Err    error
	Done   bool
	Width  int
}

func NewModel(ctx context.Context, svc Backend, owner string) Model {
	m := Model{ctx: ctx, svc: svc, owner: owner, inputs: make([][]textinput.Model, len(stepFields))}
	for step, fields := range stepFields {
		for _, f := range fields {
			ti := textinput.New()
			ti.Prompt = "> "
			ti.Placeholder = f.placeholder
			ti.CharLimit = 512
			m.inputs[step] = append(m.inputs[step], ti)
		}
	}
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return func() tea.Msg {
		v, err := m.svc.Start(m.ctx, m.owner)
		return viewMsg{view: v, err: err}
	}
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		return m, nil

	case viewMsg:
		return m.applyView(msg)

	case tea.KeyMsg:
		switch key := msg.String(); key {
		case "esc", "ctrl+c":
			return m, tea.Quit
		}
		if !m.loaded || m.pending {
			return m, nil
		}
		switch key := msg.String(); key {
		case "tab":
			return m, m.moveFocus(1)
		case "shift+tab":
			return m, m.moveFocus(-1)
		case "ctrl+n":
			return m.navigate(wizard.DirectionNext, 0)
		case "ctrl+p":
			return m.navigate(wizard.DirectionPrevious, 0)
		case "ctrl+s":
			return m.navigate(wizard.DirectionSkip, 0)
		case "ctrl+r":
			m.pending = true
			id := m.view.SessionID
			return m, func() tea.Msg {
				v, err := m.svc.Reset(m.ctx, id, m.owner)
				return viewMsg{view: v, err: err}
			}
		case "alt+1", "alt+2", "alt+3", "alt+4":
			n, _ := strconv.Atoi(strings.TrimPrefix(key, "alt+"))
			return m.navigate(wizard.DirectionJump, n-1)
		}
	}

	return m.updateFocused(msg)
}

func (m Model) applyView(msg viewMsg) (tea.Model, tea.Cmd) {
	m.pending = false
	var rejected *authoring.RejectedError
	switch {
	case msg.err == nil:
		m.Notice = ""
		m.Err = nil
	case errors.As(msg.err, &rejected):
		m.Notice = rejected.Reason()
	default:
		m.Err = msg.err
		return m, nil
	}

	stepChanged := !m.loaded || msg.view.CurrentStep != m.view.CurrentStep
	m.view = msg.view
	m.loaded = true
	if m.view.Finished {
		m.Done = true
		return m, tea.Quit
	}
	m.fill()
	if stepChanged {
		m.focus = 0
		return m, m.focusCurrent()
	}
	return m, nil
}

// navigate saves the current step's fields, then moves.
func (m Model) navigate(d wizard.Direction, target int) (tea.Model, tea.Cmd) {
	m.pending = true
	save := m.saveCurrent()
	id := m.view.SessionID
	return m, func() tea.Msg {
		if save != nil {
			if _, err := save(); err != nil {
				return viewMsg{err: err}
			}
		}
		v, err := m.svc.Navigate(m.ctx, id, m.owner, d, target)
		return viewMsg{view: v, err: err}
	}
}

// saveCurrent captures the current step's input values into a backend call.
func (m Model) saveCurrent() func() (authoring.View, error) {
	id := m.view.SessionID
	in := m.values(m.view.CurrentStep)
	switch m.view.CurrentStep {
	case authoring.StepDetails:
		d := authoring.Details{Title: in[0], Subject: in[1], TimeLimitMin: atoi(in[2]), Description: in[3]}
		return func() (authoring.View, error) { return m.svc.UpdateDetails(m.ctx, id, m.owner, d) }
	case authoring.StepQuestions:
		ids := strings.Split(in[0], ",")
		return func() (authoring.View, error) { return m.svc.UpdateQuestions(m.ctx, id, m.owner, ids) }
	case authoring.StepSettings:
		s := m.view.Draft.Settings
		s.PassingScore = atoi(in[0])
		s.ShuffleQuestions = yes(in[1])
		return func() (authoring.View, error) { return m.svc.UpdateSettings(m.ctx, id, m.owner, s) }
	}
	return nil
}

// fill copies the draft into the inputs.
func (m *Model) fill() {
	d := m.view.Draft
	set := func(step, i int, v string) { m.inputs[step][i].SetValue(v) }

	set(authoring.StepDetails, 0, d.Details.Title)
	set(authoring.StepDetails, 1, d.Details.Subject)
	set(authoring.StepDetails, 2, itoa(d.Details.TimeLimitMin))
	set(authoring.StepDetails, 3, d.Details.Description)
	set(authoring.StepQuestions, 0, strings.Join(d.QuestionIDs, ", "))
	set(authoring.StepSettings, 0, itoa(d.Settings.PassingScore))
	if d.Settings.ShuffleQuestions {
		set(authoring.StepSettings, 1, "y")
	} else {
		set(authoring.StepSettings, 1, "")
	}
}

func (m Model) values(step int) []string {
	out := make([]string, len(m.inputs[step]))
	for i, ti := range m.inputs[step] {
		out[i] = strings.TrimSpace(ti.Value())
	}
	return out
}

func (m *Model) moveFocus(delta int) tea.Cmd {
	n := len(m.inputs[m.view.CurrentStep])
	if n == 0 {
		return nil
	}
	m.focus = ((m.focus+delta)%n + n) % n
	return m.focusCurrent()
}

func (m *Model) focusCurrent() tea.Cmd {
	var cmd tea.Cmd
	for step := range m.inputs {
		for i := range m.inputs[step] {
			if step == m.view.CurrentStep && i == m.focus {
				cmd = m.inputs[step][i].Focus()
			} else {
				m.inputs[step][i].Blur()
			}
		}
	}
	return cmd
}

func (m Model) updateFocused(msg tea.Msg) (tea.Model, tea.Cmd) {
	if !m.loaded {
		return m, nil
	}
	fields := m.inputs[m.view.CurrentStep]
	if m.focus >= len(fields) {
		return m, nil
	}
	var cmd tea.Cmd
	fields[m.focus], cmd = fields[m.focus].Update(msg)
	return m, cmd
}

// TestID is the published test once the flow is Done.
func (m Model) TestID() string { return m.view.TestID }

// View implements tea.Model.
func (m Model) View() string {
	return renderView(m)
}

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}

func itoa(n int) string {
	if n == 0 {
		return ""
	}
	return strconv.Itoa(n)
}

func yes(s string) bool {
	switch strings.ToLower(s) {
	case "y", "yes", "true", "1":
		return true
	}
	return false
}
