package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stemsi/exstem-paper/internal/model"
)

// QuestionRepository handles question bank data access.
type QuestionRepository struct {
	pool *pgxpool.Pool
}

// NewQuestionRepository creates a new QuestionRepository.
func NewQuestionRepository(pool *pgxpool.Pool) *QuestionRepository {
	return &QuestionRepository{pool: pool}
}

// ListAll retrieves the whole question bank in authoring order, resolving the
// discipline and creator names. Unassigned names come back empty.
func (r *QuestionRepository) ListAll(ctx context.Context) ([]model.Question, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT q.id, q.statement, COALESCE(d.name, ''), q.difficulty, q.type, COALESCE(u.name, ''), q.options
		 FROM questions q
		 LEFT JOIN disciplines d ON q.discipline_id = d.id
		 LEFT JOIN users u ON q.creator_id = u.id
		 ORDER BY q.id`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	questions := []model.Question{}
	for rows.Next() {
		var (
			q       model.Question
			options []model.Option
		)
		if err := rows.Scan(&q.ID, &q.Statement, &q.Discipline, &q.Difficulty, &q.Type, &q.Creator, &options); err != nil {
			return nil, err
		}
		q.Content = model.ContentFromOptions(options)
		questions = append(questions, q)
	}
	return questions, rows.Err()
}

// Create inserts a question unless one with the same statement exists.
// It reports whether a row was written; on insert q.ID is populated.
func (r *QuestionRepository) Create(ctx context.Context, q *model.Question, disciplineID, creatorID *int) (bool, error) {
	options := q.Options()
	if options == nil {
		options = []model.Option{}
	}

	err := r.pool.QueryRow(ctx,
		`INSERT INTO questions (statement, discipline_id, difficulty, type, creator_id, options)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 ON CONFLICT (statement) DO NOTHING
		 RETURNING id`,
		q.Statement, disciplineID, q.Difficulty, q.Type, creatorID, options,
	).Scan(&q.ID)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
