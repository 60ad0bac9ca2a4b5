package assessment

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

type SQLStore struct {
	db *sql.DB
}

func NewSQLStore(db *sql.DB) *SQLStore {
	return &SQLStore{db: db}
}

func (s *SQLStore) PutQuestion(ctx context.Context, q Question) (Question, error) {
	if q.ID == "" {
		q.ID = uuid.NewString()
	}
	if q.CreatedAt == 0 {
		q.CreatedAt = time.Now().Unix()
	}
	cj, err := json.Marshal(q.Choices)
	if err != nil {
		return Question{}, err
	}
	kj, err := json.Marshal(q.AnswerKey)
	if err != nil {
		return Question{}, err
	}
	_, err = s.db.ExecContext(ctx, `INSERT INTO questions (id,owner_id,type,prompt_html,choices_json,answer_key_json,points,created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		ON CONFLICT (id) DO UPDATE SET type=EXCLUDED.type, prompt_html=EXCLUDED.prompt_html,
		  choices_json=EXCLUDED.choices_json, answer_key_json=EXCLUDED.answer_key_json, points=EXCLUDED.points`,
		q.ID, q.OwnerID, q.Type, q.PromptHTML, string(cj), string(kj), q.Points, q.CreatedAt)
	if err != nil {
		return Question{}, fmt.Errorf("put question: %w", err)
	}
	return q, nil
}

func (s *SQLStore) GetQuestion(ctx context.Context, id string) (Question, error) {
	row := s.db.QueryRowContext(ctx, `SELECT id,owner_id,type,prompt_html,choices_json,answer_key_json,points,created_at
		FROM questions WHERE id=$1`, id)
	q, err := scanQuestion(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Question{}, fmt.Errorf("question %s: %w", id, ErrNotFound)
	}
	return q, err
}

func (s *SQLStore) ListQuestions(ctx context.Context, opts ListOpts) ([]Question, error) {
	limit, offset := page(opts)
	rows, err := s.db.QueryContext(ctx, `SELECT id,owner_id,type,prompt_html,choices_json,answer_key_json,points,created_at
		FROM questions
		WHERE ($1 = '' OR owner_id = $1) AND ($2 = '' OR LOWER(prompt_html) LIKE $3)
		ORDER BY created_at DESC, id
		LIMIT $4 OFFSET $5`,
		opts.OwnerID, opts.Q, like(opts.Q), limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list questions: %w", err)
	}
	defer rows.Close()

	out := []Question{}
	for rows.Next() {
		q, err := scanQuestion(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, q)
	}
	return out, rows.Err()
}

func (s *SQLStore) QuestionsExist(ctx context.Context, ids []string) ([]string, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	ph := make([]string, len(ids))
	args := make([]any, len(ids))
	for i, id := range ids {
		ph[i] = fmt.Sprintf("$%d", i+1)
		args[i] = id
	}
	rows, err := s.db.QueryContext(ctx, `SELECT id FROM questions WHERE id IN (`+strings.Join(ph, ",")+`)`, args...)
	if err != nil {
		return nil, fmt.Errorf("check questions: %w", err)
	}
	defer rows.Close()

	found := map[string]bool{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		found[id] = true
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	var missing []string
	for _, id := range ids {
		if !found[id] {
			missing = append(missing, id)
		}
	}
	return missing, nil
}

func (s *SQLStore) PutTest(ctx context.Context, t Test) (Test, error) {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	if t.CreatedAt == 0 {
		t.CreatedAt = time.Now().Unix()
	}
	if t.Status == "" {
		t.Status = StatusDraft
	}
	qj, err := json.Marshal(t.QuestionIDs)
	if err != nil {
		return Test{}, err
	}
	sj, err := json.Marshal(t.Settings)
	if err != nil {
		return Test{}, err
	}
	_, err = s.db.ExecContext(ctx, `INSERT INTO tests (id,owner_id,title,description,subject,time_limit_sec,question_ids_json,settings_json,total_points,status,created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
		ON CONFLICT (id) DO UPDATE SET title=EXCLUDED.title, description=EXCLUDED.description, subject=EXCLUDED.subject,
		  time_limit_sec=EXCLUDED.time_limit_sec, question_ids_json=EXCLUDED.question_ids_json,
		  settings_json=EXCLUDED.settings_json, total_points=EXCLUDED.total_points, status=EXCLUDED.status`,
		t.ID, t.OwnerID, t.Title, t.Description, t.Subject, t.TimeLimitSec, string(qj), string(sj), t.TotalPoints, t.Status, t.CreatedAt)
	if err != nil {
		return Test{}, fmt.Errorf("put test: %w", err)
	}
	return t, nil
}

func (s *SQLStore) GetTest(ctx context.Context, id string) (Test, error) {
	row := s.db.QueryRowContext(ctx, `SELECT id,owner_id,title,description,subject,time_limit_sec,question_ids_json,settings_json,total_points,status,created_at
		FROM tests WHERE id=$1`, id)
	var t Test
	var qjson, sjson string
	err := row.Scan(&t.ID, &t.OwnerID, &t.Title, &t.Description, &t.Subject, &t.TimeLimitSec, &qjson, &sjson, &t.TotalPoints, &t.Status, &t.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Test{}, fmt.Errorf("test %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return Test{}, err
	}
	if err := json.Unmarshal([]byte(qjson), &t.QuestionIDs); err != nil {
		return Test{}, fmt.Errorf("decode question ids: %w", err)
	}
	if err := json.Unmarshal([]byte(sjson), &t.Settings); err != nil {
		return Test{}, fmt.Errorf("decode settings: %w", err)
	}
	return t, nil
}

func (s *SQLStore) ListTests(ctx context.Context, opts ListOpts) ([]TestSummary, error) {
	limit, offset := page(opts)
	rows, err := s.db.QueryContext(ctx, `SELECT id,title,subject,question_ids_json,total_points,status,created_at
		FROM tests
		WHERE ($1 = '' OR owner_id = $1) AND ($2 = '' OR LOWER(title) LIKE $3)
		ORDER BY created_at DESC, id
		LIMIT $4 OFFSET $5`,
		opts.OwnerID, opts.Q, like(opts.Q), limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list tests: %w", err)
	}
	defer rows.Close()

	out := []TestSummary{}
	for rows.Next() {
		var ts TestSummary
		var qjson string
		if err := rows.Scan(&ts.ID, &ts.Title, &ts.Subject, &qjson, &ts.TotalPoints, &ts.Status, &ts.CreatedAt); err != nil {
			return nil, err
		}
		var ids []string
		_ = json.Unmarshal([]byte(qjson), &ids)
		ts.QuestionCount = len(ids)
		out = append(out, ts)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanQuestion(r rowScanner) (Question, error) {
	var q Question
	var cjson, kjson string
	if err := r.Scan(&q.ID, &q.OwnerID, &q.Type, &q.PromptHTML, &cjson, &kjson, &q.Points, &q.CreatedAt); err != nil {
		return Question{}, err
	}
	if err := json.Unmarshal([]byte(cjson), &q.Choices); err != nil {
		return Question{}, fmt.Errorf("decode choices: %w", err)
	}
	if err := json.Unmarshal([]byte(kjson), &q.AnswerKey); err != nil {
		return Question{}, fmt.Errorf("decode answer key: %w", err)
	}
	return q, nil
}

func page(opts ListOpts) (limit, offset int) {
	limit = opts.Limit
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	offset = opts.Offset
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

func like(q string) string {
	return "%" + strings.ToLower(strings.TrimSpace(q)) + "%"
}
