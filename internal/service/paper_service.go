package service

import (
	"context"

	"github.com/stemsi/exstem-paper/internal/model"
	"github.com/stemsi/exstem-paper/internal/repository"
)

// Bounds of a paper history page.
const (
	DefaultHistoryLimit = 20
	MaxHistoryLimit     = 100
)

// PaperService reads the generated paper history.
type PaperService struct {
	paperRepo *repository.PaperRepository
}

// NewPaperService creates a new PaperService.
func NewPaperService(paperRepo *repository.PaperRepository) *PaperService {
	return &PaperService{paperRepo: paperRepo}
}

// ListHistory returns the viewer's most recent papers. limit is clamped to
// [1, MaxHistoryLimit]; zero or less selects DefaultHistoryLimit.
func (s *PaperService) ListHistory(ctx context.Context, viewer model.Viewer, limit int) ([]model.GeneratedPaper, error) {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	return s.paperRepo.ListByOwner(ctx, viewer.UserID, min(limit, MaxHistoryLimit))
}
