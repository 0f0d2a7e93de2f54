package quiz

import (
	"context"
	stderrors "errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/victornm/trivia/internal/domain"
)

var ErrNotFound = stderrors.New("quiz not found")

// DB is the part of a pgx pool the repository needs. *pgxpool.Pool satisfies it.
type DB interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// quiz_questions.question_id points into the question service's database, so it carries no foreign key.
const schema = `
CREATE TABLE IF NOT EXISTS quizzes (
	id    BIGSERIAL PRIMARY KEY,
	title TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS quiz_questions (
	quiz_id     BIGINT NOT NULL REFERENCES quizzes (id) ON DELETE CASCADE,
	position    INT NOT NULL,
	question_id BIGINT NOT NULL,
	PRIMARY KEY (quiz_id, position)
);`

type PostgresRepository struct {
	db DB
}

func NewPostgresRepository(db DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.Exec(ctx, schema); err != nil {
		return fmt.Errorf("create quizzes schema: %w", err)
	}
	return nil
}

// Insert stores the quiz and its ordered question ids in one transaction and sets q.ID.
func (r *PostgresRepository) Insert(ctx context.Context, q *domain.Quiz) (err error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			err = stderrors.Join(err, tx.Rollback(ctx))
		}
	}()

	const (
		insQuizStmt      = `INSERT INTO quizzes (title) VALUES ($1) RETURNING id;`
		insQuestionsStmt = `
INSERT INTO quiz_questions (quiz_id, position, question_id)
SELECT $1, t.ord, t.question_id
FROM unnest($2::bigint[]) WITH ORDINALITY AS t(question_id, ord);`
	)

	var id int64
	if err = tx.QueryRow(ctx, insQuizStmt, q.Title).Scan(&id); err != nil {
		return fmt.Errorf("insert quiz: %w", err)
	}

	if _, err = tx.Exec(ctx, insQuestionsStmt, id, q.QuestionIDs); err != nil {
		return fmt.Errorf("insert quiz questions: %w", err)
	}

	if err = tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}

	q.ID = id
	return nil
}

func (r *PostgresRepository) Get(ctx context.Context, id int64) (*domain.Quiz, error) {
	const (
		quizStmt      = `SELECT id, title FROM quizzes WHERE id = $1;`
		questionsStmt = `SELECT question_id FROM quiz_questions WHERE quiz_id = $1 ORDER BY position;`
	)

	var q domain.Quiz
	err := r.db.QueryRow(ctx, quizStmt, id).Scan(&q.ID, &q.Title)
	if stderrors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get quiz %d: %w", id, err)
	}

	rows, err := r.db.Query(ctx, questionsStmt, id)
	if err != nil {
		return nil, fmt.Errorf("get quiz %d questions: %w", id, err)
	}

	q.QuestionIDs, err = pgx.CollectRows(rows, pgx.RowTo[int64])
	if err != nil {
		return nil, fmt.Errorf("get quiz %d questions: %w", id, err)
	}

	return &q, nil
}
