package assessment

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("not found")

type ListOpts struct {
	OwnerID string // empty: all owners
	Q       string // title/prompt substring
	Limit   int
	Offset  int
}

type Store interface {
	PutQuestion(ctx context.Context, q Question) (Question, error)
	GetQuestion(ctx context.Context, id string) (Question, error)
	ListQuestions(ctx context.Context, opts ListOpts) ([]Question, error)
	// QuestionsExist returns the ids that have no row, in input order.
	QuestionsExist(ctx context.Context, ids []string) (missing []string, err error)

	PutTest(ctx context.Context, t Test) (Test, error)
	GetTest(ctx context.Context, id string) (Test, error)
	ListTests(ctx context.Context, opts ListOpts) ([]TestSummary, error)
}
