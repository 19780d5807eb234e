package app

import (
	"context"
	"errors"

	"dropit/internal/model"
)

var ErrArchiveDisabled = errors.New("message archive is not configured")

type ArchiveReader interface {
	ListRecent(ctx context.Context, limit int) ([]model.ArchivedMessage, error)
}

type ArchiveService struct {
	repo ArchiveReader
}

func NewArchiveService(repo ArchiveReader) *ArchiveService {
	return &ArchiveService{repo: repo}
}

func (s *ArchiveService) Enabled() bool {
	return s.repo != nil
}

// List returns archived messages newest first. limit defaults to 50 and is
// capped at 200.
func (s *ArchiveService) List(ctx context.Context, limit int) ([]model.ArchivedMessage, error) {
	if s.repo == nil {
		return nil, ErrArchiveDisabled
	}
	if limit <= 0 {
		limit = 50
	}
	if limit > 200 {
		limit = 200
	}
	return s.repo.ListRecent(ctx, limit)
}
