package repository

import (
	"context"

	"github.com/stemsi/exstem-paper/internal/model"
)

// BankSource serves an editing session's question bank from Postgres.
// Admins see every discipline; instructors only their assigned ones.
type BankSource struct {
	questions   *QuestionRepository
	disciplines *DisciplineRepository
}

// NewBankSource creates a new BankSource.
func NewBankSource(questions *QuestionRepository, disciplines *DisciplineRepository) *BankSource {
	return &BankSource{questions: questions, disciplines: disciplines}
}

func (s *BankSource) ListQuestions(ctx context.Context) ([]model.Question, error) {
	return s.questions.ListAll(ctx)
}

func (s *BankSource) ListDisciplines(ctx context.Context, viewer model.Viewer) ([]model.Discipline, error) {
	if viewer.Role == model.RoleAdmin {
		return s.disciplines.GetAll(ctx)
	}
	return s.disciplines.ListByInstructor(ctx, viewer.UserID)
}
