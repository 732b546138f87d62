package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stemsi/exstem-paper/internal/model"
)

type DisciplineRepository struct {
	pool *pgxpool.Pool
}

func NewDisciplineRepository(pool *pgxpool.Pool) *DisciplineRepository {
	return &DisciplineRepository{pool: pool}
}

// GetAll lists every discipline by name.
func (r *DisciplineRepository) GetAll(ctx context.Context) ([]model.Discipline, error) {
	return r.list(ctx, `SELECT id, name, created_at FROM disciplines ORDER BY name ASC`)
}

// ListByInstructor lists the disciplines assigned to an instructor.
func (r *DisciplineRepository) ListByInstructor(ctx context.Context, userID int) ([]model.Discipline, error) {
	return r.list(ctx,
		`SELECT d.id, d.name, d.created_at
		 FROM disciplines d
		 JOIN instructor_disciplines i ON i.discipline_id = d.id
		 WHERE i.user_id = $1
		 ORDER BY d.name ASC`, userID)
}

// Upsert returns the discipline with the given name, creating it if needed.
func (r *DisciplineRepository) Upsert(ctx context.Context, name string) (*model.Discipline, error) {
	d := &model.Discipline{}
	err := r.pool.QueryRow(ctx,
		`INSERT INTO disciplines (name) VALUES ($1)
		 ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
		 RETURNING id, name, created_at`, name,
	).Scan(&d.ID, &d.Name, &d.CreatedAt)
	if err != nil {
		return nil, err
	}
	return d, nil
}

// AssignInstructor grants an instructor access to a discipline. Repeated
// assignments are ignored.
func (r *DisciplineRepository) AssignInstructor(ctx context.Context, userID, disciplineID int) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO instructor_disciplines (user_id, discipline_id) VALUES ($1, $2)
		 ON CONFLICT DO NOTHING`, userID, disciplineID)
	return err
}

func (r *DisciplineRepository) list(ctx context.Context, sql string, args ...any) ([]model.Discipline, error) {
	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	disciplines := []model.Discipline{}
	for rows.Next() {
		var d model.Discipline
		if err := rows.Scan(&d.ID, &d.Name, &d.CreatedAt); err != nil {
			return nil, err
		}
		disciplines = append(disciplines, d)
	}
	return disciplines, rows.Err()
}
