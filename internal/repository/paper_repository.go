package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stemsi/exstem-paper/internal/model"
)

// PaperRepository handles the generated paper history.
type PaperRepository struct {
	pool *pgxpool.Pool
}

// NewPaperRepository creates a new PaperRepository.
func NewPaperRepository(pool *pgxpool.Pool) *PaperRepository {
	return &PaperRepository{pool: pool}
}

// Create inserts a generated paper. The original CreatedAt is kept.
func (r *PaperRepository) Create(ctx context.Context, p *model.GeneratedPaper) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO generated_papers (owner_id, session_id, title, question_ids, document, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id`,
		p.OwnerID, p.SessionID, p.Title, p.QuestionIDs, p.Document, p.CreatedAt,
	).Scan(&p.ID)
}

// ListByOwner returns a user's most recent papers, newest first.
func (r *PaperRepository) ListByOwner(ctx context.Context, ownerID, limit int) ([]model.GeneratedPaper, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, owner_id, session_id, title, question_ids, document, created_at
		 FROM generated_papers WHERE owner_id = $1
		 ORDER BY created_at DESC, id DESC
		 LIMIT $2`, ownerID, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	papers := []model.GeneratedPaper{}
	for rows.Next() {
		var p model.GeneratedPaper
		if err := rows.Scan(&p.ID, &p.OwnerID, &p.SessionID, &p.Title, &p.QuestionIDs, &p.Document, &p.CreatedAt); err != nil {
			return nil, err
		}
		papers = append(papers, p)
	}
	return papers, rows.Err()
}
