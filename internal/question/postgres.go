package question

import (
	"context"
	stderrors "errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/victornm/trivia/internal/domain"
)

// ErrNotFound is returned by the repository when a question does not exist.
var ErrNotFound = stderrors.New("question not found")

// DB is the part of a pgx pool the repository needs. *pgxpool.Pool satisfies it.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

const schema = `
CREATE TABLE IF NOT EXISTS questions (
	id             BIGSERIAL PRIMARY KEY,
	question_title TEXT NOT NULL,
	option1        TEXT NOT NULL,
	option2        TEXT NOT NULL,
	option3        TEXT NOT NULL,
	option4        TEXT NOT NULL,
	right_answer   TEXT NOT NULL,
	category       TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_questions_category ON questions (category);`

const columns = `id, question_title, option1, option2, option3, option4, right_answer, category`

// PostgresRepository stores questions in the questions table.
type PostgresRepository struct {
	db DB
}

func NewPostgresRepository(db DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// EnsureSchema creates the questions table if it does not exist yet.
func (r *PostgresRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.Exec(ctx, schema); err != nil {
		return fmt.Errorf("create questions schema: %w", err)
	}
	return nil
}

func (r *PostgresRepository) List(ctx context.Context) ([]domain.Question, error) {
	const stmt = `SELECT ` + columns + ` FROM questions ORDER BY id;`

	return r.collect(ctx, stmt)
}

func (r *PostgresRepository) ListByCategory(ctx context.Context, category string) ([]domain.Question, error) {
	const stmt = `SELECT ` + columns + ` FROM questions WHERE category = $1 ORDER BY id;`

	return r.collect(ctx, stmt, category)
}

func (r *PostgresRepository) Get(ctx context.Context, id int64) (*domain.Question, error) {
	const stmt = `SELECT ` + columns + ` FROM questions WHERE id = $1;`

	q, err := scanQuestion(r.db.QueryRow(ctx, stmt, id))
	if stderrors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get question %d: %w", id, err)
	}

	return &q, nil
}

// GetMany returns the questions found among ids, in no particular order. Missing ids are skipped.
func (r *PostgresRepository) GetMany(ctx context.Context, ids []int64) ([]domain.Question, error) {
	const stmt = `SELECT ` + columns + ` FROM questions WHERE id = ANY($1);`

	return r.collect(ctx, stmt, ids)
}

func (r *PostgresRepository) Insert(ctx context.Context, q *domain.Question) error {
	const stmt = `
INSERT INTO questions (question_title, option1, option2, option3, option4, right_answer, category)
VALUES ($1, $2, $3, $4, $5, $6, $7)
RETURNING id;`

	err := r.db.QueryRow(ctx, stmt, q.Title, q.Option1, q.Option2, q.Option3, q.Option4, q.RightAnswer, q.Category).Scan(&q.ID)
	if err != nil {
		return fmt.Errorf("insert question: %w", err)
	}

	return nil
}

// RandomIDs samples up to limit distinct question ids of the category.
func (r *PostgresRepository) RandomIDs(ctx context.Context, category string, limit int) ([]int64, error) {
	const stmt = `SELECT id FROM questions WHERE category = $1 ORDER BY random() LIMIT $2;`

	rows, err := r.db.Query(ctx, stmt, category, limit)
	if err != nil {
		return nil, fmt.Errorf("random question ids: %w", err)
	}

	ids, err := pgx.CollectRows(rows, pgx.RowTo[int64])
	if err != nil {
		return nil, fmt.Errorf("random question ids: %w", err)
	}

	return ids, nil
}

func (r *PostgresRepository) collect(ctx context.Context, stmt string, args ...any) ([]domain.Question, error) {
	rows, err := r.db.Query(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("query questions: %w", err)
	}

	qs, err := pgx.CollectRows(rows, func(r pgx.CollectableRow) (domain.Question, error) {
		return scanQuestion(r)
	})
	if err != nil {
		return nil, fmt.Errorf("scan questions: %w", err)
	}

	return qs, nil
}

func scanQuestion(row pgx.Row) (domain.Question, error) {
	var q domain.Question
	err := row.Scan(&q.ID, &q.Title, &q.Option1, &q.Option2, &q.Option3, &q.Option4, &q.RightAnswer, &q.Category)
	return q, err
}
