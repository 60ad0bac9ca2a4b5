package tui

import (
	"fmt"
	"strings"

	"github.com/smartmcq/smartmcq/internal/authoring"
)

func renderView(m Model) string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("smartmcq: new test"))
	b.WriteString("\n")

	switch {
	case m.Done:
		b.WriteString(doneStyle.Render(fmt.Sprintf("Published test %s", m.view.TestID)))
		b.WriteString("\n")
		return b.String()
	case !m.loaded && m.Err != nil:
		b.WriteString(failedStyle.Render(fmt.Sprintf("Error: %v", m.Err)))
		b.WriteString("\n")
		return b.String()
	case !m.loaded:
		b.WriteString(pendingStyle.Render("starting..."))
		b.WriteString("\n")
		return b.String()
	}

	renderSteps(&b, m)
	renderProgressBar(&b, m)
	renderStep(&b, m)
	renderMessages(&b, m)
	renderFooter(&b, m)

	return b.String()
}

func renderSteps(b *strings.Builder, m Model) {
	parts := make([]string, 0, len(m.view.Steps))
	for _, s := range m.view.Steps {
		label := fmt.Sprintf("%d %s", s.Index+1, s.Title)
		if s.Optional {
			label += " (optional)"
		}
		switch {
		case s.Current:
			parts = append(parts, currentStyle.Render(markCurrent+" "+label))
		case s.Completed:
			parts = append(parts, doneStyle.Render(markDone+" "+label))
		default:
			parts = append(parts, pendingStyle.Render(markPending+" "+label))
		}
	}
	b.WriteString(strings.Join(parts, "  "))
	b.WriteString("\n")
}

func renderProgressBar(b *strings.Builder, m Model) {
	barWidth := 30
	if m.Width > 0 && m.Width-20 < barWidth {
		barWidth = max(m.Width-20, 10)
	}
	filled := int(float64(barWidth) * m.view.Progress)
	bar := progressBarFull.Render(strings.Repeat("█", filled)) +
		progressBarEmpty.Render(strings.Repeat("░", barWidth-filled))
	fmt.Fprintf(b, "%s %d%%\n", bar, int(m.view.Progress*100))
}

func renderStep(b *strings.Builder, m Model) {
	step := m.view.CurrentStep
	b.WriteString(sectionStyle.Render(authoring.Steps[step].Title))
	b.WriteString("\n")

	if step == authoring.StepReview {
		renderReview(b, m.view.Draft)
		return
	}
	for i, f := range stepFields[step] {
		b.WriteString(labelStyle.Render(f.label))
		b.WriteString(m.inputs[step][i].View())
		b.WriteString("\n")
	}
}

func renderReview(b *strings.Builder, d authoring.Draft) {
	row := func(label, value string) {
		b.WriteString(labelStyle.Render(label))
		b.WriteString(value)
		b.WriteString("\n")
	}
	row("Title", d.Details.Title)
	if d.Details.Subject != "" {
		row("Subject", d.Details.Subject)
	}
	row("Time limit", fmt.Sprintf("%d min", d.Details.TimeLimitMin))
	row("Questions", fmt.Sprintf("%d", len(d.QuestionIDs)))
	row("Passing score", fmt.Sprintf("%d%%", d.Settings.PassingScore))
	if d.Settings.ShuffleQuestions {
		row("Shuffle", "yes")
	}
}

func renderMessages(b *strings.Builder, m Model) {
	if msg := m.view.ValidationMessage; msg != "" {
		b.WriteString("\n")
		b.WriteString(warningStyle.Render("! " + msg))
	}
	if m.Notice != "" {
		b.WriteString("\n")
		b.WriteString(failedStyle.Render("rejected: " + m.Notice))
	}
	if m.Err != nil {
		b.WriteString("\n")
		b.WriteString(failedStyle.Render(fmt.Sprintf("Error: %v", m.Err)))
	}
	b.WriteString("\n")
}

func renderFooter(b *strings.Builder, m Model) {
	v := m.view
	control := func(key, label string, enabled bool) string {
		if !enabled {
			return disabledStyle.Render(key + " " + label)
		}
		return keyStyle.Render(key) + " " + label
	}
	jump := false
	for _, s := range v.Steps {
		jump = jump || s.Clickable
	}
	controls := []string{
		control("tab", "field", len(stepFields[v.CurrentStep]) > 0),
		control("ctrl+n", nextLabel(v), v.CanProceed),
		control("ctrl+p", "previous", v.CanGoBack),
		control("ctrl+s", "skip", v.CanSkip),
		control("ctrl+r", "reset", true),
		control(fmt.Sprintf("alt+1..%d", len(v.Steps)), "jump", jump),
		control("esc", "quit", true),
	}
	b.WriteString(footerStyle.Render(strings.Join(controls, "  ")))
	b.WriteString("\n")
}

func nextLabel(v authoring.View) string {
	if v.LastStep {
		return "publish"
	}
	return "next"
}
