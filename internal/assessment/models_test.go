package assessment

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestQuestionValidate(t *testing.T) {
	ok := Question{
		Type:       TypeMCQMulti,
		PromptHTML: "Pick primes",
		Choices:    []Choice{{ID: "2"}, {ID: "4"}, {ID: "5"}},
		AnswerKey:  []string{"2", "5"},
		Points:     1,
	}
	assert.NoError(t, ok.Validate())

	tests := []struct {
		name string
		mut  func(q *Question)
		want string
	}{
		{"no prompt", func(q *Question) { q.PromptHTML = " " }, "prompt_html required"},
		{"zero points", func(q *Question) { q.Points = 0 }, "points must be positive"},
		{"unknown type", func(q *Question) { q.Type = "essay" }, "unknown type"},
		{"one choice", func(q *Question) { q.Choices = q.Choices[:1]; q.AnswerKey = []string{"2"} }, "at least two choices"},
		{"bad key", func(q *Question) { q.AnswerKey = []string{"9"} }, `answer "9" is not a choice`},
		{"single with two keys", func(q *Question) { q.Type = TypeMCQSingle }, "takes a single answer"},
		{"duplicate choice", func(q *Question) { q.Choices = append(q.Choices, Choice{ID: "2"}) }, "duplicate choice id"},
		{"true false three choices", func(q *Question) { q.Type = TypeTrueFalse; q.AnswerKey = []string{"2"} }, "exactly two choices"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := ok
			q.Choices = append([]Choice(nil), ok.Choices...)
			q.AnswerKey = append([]string(nil), ok.AnswerKey...)
			tt.mut(&q)
			err := q.Validate()
			if assert.Error(t, err) {
				assert.Contains(t, err.Error(), tt.want)
			}
		})
	}
}

func TestStudentViewHidesKey(t *testing.T) {
	q := Question{AnswerKey: []string{"a"}}
	assert.Nil(t, q.StudentView().AnswerKey)
	assert.Equal(t, []string{"a"}, q.AnswerKey)
}
