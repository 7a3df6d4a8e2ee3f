package content

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/avintas/shootout/internal/shootout"
)

// Repository reads the curated content tables. The two trivia tables keep
// separate serial id sequences, so a question is only ever identified by
// (id, kind).
type Repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Questions returns all trivia questions of both kinds intermixed. This is
// the shootout engine's question source.
func (r *Repository) Questions(ctx context.Context) ([]shootout.Question, error) {
	mcq, err := r.MultipleChoice(ctx, 0)
	if err != nil {
		return nil, err
	}
	tf, err := r.TrueFalse(ctx, 0)
	if err != nil {
		return nil, err
	}

	questions := make([]shootout.Question, 0, len(mcq)+len(tf))
	for _, q := range mcq {
		questions = append(questions, q)
	}
	for _, q := range tf {
		questions = append(questions, q)
	}
	return questions, nil
}

// MultipleChoice lists multiple-choice questions. limit <= 0 means all.
func (r *Repository) MultipleChoice(ctx context.Context, limit int) ([]shootout.MultipleChoice, error) {
	query := `SELECT id, prompt, correct_answer, incorrect_answers, COALESCE(explanation, '')
		FROM trivia_mcq ORDER BY id`
	query, args := applyLimit(query, limit)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query trivia_mcq: %w", err)
	}
	defer rows.Close()

	var questions []shootout.MultipleChoice
	for rows.Next() {
		var q shootout.MultipleChoice
		if err := rows.Scan(&q.ID, &q.PromptText, &q.CorrectAnswer, &q.IncorrectAnswers, &q.ExplanationText); err != nil {
			return nil, fmt.Errorf("scan trivia_mcq: %w", err)
		}
		questions = append(questions, q)
	}
	return questions, rows.Err()
}

// TrueFalse lists true/false questions. limit <= 0 means all.
func (r *Repository) TrueFalse(ctx context.Context, limit int) ([]shootout.TrueFalse, error) {
	query := `SELECT id, prompt, answer, COALESCE(explanation, '')
		FROM trivia_tf ORDER BY id`
	query, args := applyLimit(query, limit)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query trivia_tf: %w", err)
	}
	defer rows.Close()

	var questions []shootout.TrueFalse
	for rows.Next() {
		var q shootout.TrueFalse
		if err := rows.Scan(&q.ID, &q.PromptText, &q.Answer, &q.ExplanationText); err != nil {
			return nil, fmt.Errorf("scan trivia_tf: %w", err)
		}
		questions = append(questions, q)
	}
	return questions, rows.Err()
}

// Quotes lists quotes, optionally filtered by category. limit <= 0 means all.
func (r *Repository) Quotes(ctx context.Context, category string, limit int) ([]Quote, error) {
	query := `SELECT id, text, author, COALESCE(category, ''), created_at FROM quotes`
	var args []any
	if category != "" {
		query += ` WHERE category = $1`
		args = append(args, category)
	}
	query += ` ORDER BY id`
	if limit > 0 {
		query += fmt.Sprintf(` LIMIT $%d`, len(args)+1)
		args = append(args, limit)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query quotes: %w", err)
	}
	defer rows.Close()

	var quotes []Quote
	for rows.Next() {
		var q Quote
		if err := rows.Scan(&q.ID, &q.Text, &q.Author, &q.Category, &q.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan quotes: %w", err)
		}
		quotes = append(quotes, q)
	}
	return quotes, rows.Err()
}

// Facts lists facts, optionally filtered by category. limit <= 0 means all.
func (r *Repository) Facts(ctx context.Context, category string, limit int) ([]Fact, error) {
	query := `SELECT id, text, COALESCE(category, ''), created_at FROM facts`
	var args []any
	if category != "" {
		query += ` WHERE category = $1`
		args = append(args, category)
	}
	query += ` ORDER BY id`
	if limit > 0 {
		query += fmt.Sprintf(` LIMIT $%d`, len(args)+1)
		args = append(args, limit)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query facts: %w", err)
	}
	defer rows.Close()

	var facts []Fact
	for rows.Next() {
		var f Fact
		if err := rows.Scan(&f.ID, &f.Text, &f.Category, &f.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan facts: %w", err)
		}
		facts = append(facts, f)
	}
	return facts, rows.Err()
}

func applyLimit(query string, limit int) (string, []any) {
	if limit > 0 {
		return query + ` LIMIT $1`, []any{limit}
	}
	return query, nil
}
