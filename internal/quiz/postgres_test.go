package quiz_test

import (
	"context"
	stderrors "errors"
	"regexp"
	"testing"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/victornm/trivia/internal/domain"
	"github.com/victornm/trivia/internal/quiz"
)

func TestPostgresRepository_Insert(t *testing.T) {
	mock, repo := makeRepository(t)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO quizzes (title) VALUES ($1) RETURNING id")).
		WithArgs("Java basics").
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(7)))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO quiz_questions (quiz_id, position, question_id)")).
		WithArgs(int64(7), []int64{3, 1, 2}).
		WillReturnResult(pgxmock.NewResult("INSERT", 3))
	mock.ExpectCommit()

	q := &domain.Quiz{Title: "Java basics", QuestionIDs: []int64{3, 1, 2}}
	require.NoError(t, repo.Insert(context.Background(), q))
	assert.EqualValues(t, 7, q.ID)
}

func TestPostgresRepository_Insert_RollsBack(t *testing.T) {
	mock, repo := makeRepository(t)

	cause := stderrors.New("disk full")

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO quizzes (title) VALUES ($1) RETURNING id")).
		WithArgs("Java basics").
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(7)))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO quiz_questions (quiz_id, position, question_id)")).
		WithArgs(int64(7), []int64{3}).
		WillReturnError(cause)
	mock.ExpectRollback()

	q := &domain.Quiz{Title: "Java basics", QuestionIDs: []int64{3}}
	err := repo.Insert(context.Background(), q)
	assert.ErrorIs(t, err, cause)
	assert.Zero(t, q.ID)
}

func TestPostgresRepository_Get(t *testing.T) {
	mock, repo := makeRepository(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, title FROM quizzes WHERE id = $1")).
		WithArgs(int64(7)).
		WillReturnRows(pgxmock.NewRows([]string{"id", "title"}).AddRow(int64(7), "Java basics"))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT question_id FROM quiz_questions WHERE quiz_id = $1 ORDER BY position")).
		WithArgs(int64(7)).
		WillReturnRows(pgxmock.NewRows([]string{"question_id"}).AddRow(int64(3)).AddRow(int64(1)).AddRow(int64(2)))

	q, err := repo.Get(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, &domain.Quiz{ID: 7, Title: "Java basics", QuestionIDs: []int64{3, 1, 2}}, q)
}

func TestPostgresRepository_Get_NotFound(t *testing.T) {
	mock, repo := makeRepository(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, title FROM quizzes WHERE id = $1")).
		WithArgs(int64(8)).
		WillReturnRows(pgxmock.NewRows([]string{"id", "title"}))

	_, err := repo.Get(context.Background(), 8)
	assert.ErrorIs(t, err, quiz.ErrNotFound)
}

func TestPostgresRepository_EnsureSchema(t *testing.T) {
	mock, repo := makeRepository(t)

	mock.ExpectExec(regexp.QuoteMeta("CREATE TABLE IF NOT EXISTS quizzes")).
		WillReturnResult(pgxmock.NewResult("CREATE TABLE", 0))

	require.NoError(t, repo.EnsureSchema(context.Background()))
}

func makeRepository(t *testing.T) (pgxmock.PgxPoolIface, *quiz.PostgresRepository) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)

	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		mock.Close()
	})

	return mock, quiz.NewPostgresRepository(mock)
}
