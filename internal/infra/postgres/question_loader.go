package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"ladder-quiz/internal/domain"
)

// QuestionLoader reads the question bank from the questions table.
type QuestionLoader struct {
	pool *pgxpool.Pool
}

func NewQuestionLoader(pool *pgxpool.Pool) *QuestionLoader {
	return &QuestionLoader{pool: pool}
}

func (l *QuestionLoader) LoadQuestions(ctx context.Context) ([]domain.Question, error) {
	rows, err := l.pool.Query(ctx, `SELECT id, category, difficulty, text,
		option_a, option_b, option_c, option_d, correct_index, hint
		FROM questions ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("load questions: %w", err)
	}
	defer rows.Close()

	var questions []domain.Question
	for rows.Next() {
		var q domain.Question
		if err := rows.Scan(&q.ID, &q.Category, &q.Difficulty, &q.Text,
			&q.Options[0], &q.Options[1], &q.Options[2], &q.Options[3], &q.CorrectIndex, &q.Hint); err != nil {
			return nil, fmt.Errorf("scan question: %w", err)
		}
		if q.Category == "" {
			q.Category = domain.CategoryName(q.Difficulty)
		}
		questions = append(questions, q)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load questions: %w", err)
	}
	if len(questions) == 0 {
		return nil, domain.ErrNoQuestionsLoaded
	}
	return questions, nil
}

// ReplaceQuestions swaps the table contents for questions in one transaction.
func (l *QuestionLoader) ReplaceQuestions(ctx context.Context, questions []domain.Question) error {
	tx, err := l.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM questions`); err != nil {
		return fmt.Errorf("clear questions: %w", err)
	}
	batch := &pgx.Batch{}
	for _, q := range questions {
		batch.Queue(`INSERT INTO questions (id, category, difficulty, text,
			option_a, option_b, option_c, option_d, correct_index, hint)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
			q.ID, q.Category, q.Difficulty, q.Text,
			q.Options[0], q.Options[1], q.Options[2], q.Options[3], q.CorrectIndex, q.Hint)
	}
	results := tx.SendBatch(ctx, batch)
	for range questions {
		if _, err := results.Exec(); err != nil {
			results.Close()
			return fmt.Errorf("insert question: %w", err)
		}
	}
	if err := results.Close(); err != nil {
		return fmt.Errorf("insert questions: %w", err)
	}
	return tx.Commit(ctx)
}
