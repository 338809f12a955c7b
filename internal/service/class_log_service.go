package service

import (
	"context"

	"github.com/SaintPauloSchool/DataAcquisitionProcedure/internal/model"
)

const (
	defaultPerPage = 50
)

// ClassLogReader is the read side of class log storage.
type ClassLogReader interface {
	List(ctx context.Context, f model.ClassLogFilter) ([]model.ClassLog, error)
	Count(ctx context.Context, f model.ClassLogFilter) (int, error)
	ListStudentClasses(ctx context.Context) ([]string, error)
}

// ClassLogService handles class log queries.
type ClassLogService struct {
	repo ClassLogReader
}

// NewClassLogService creates a new ClassLogService.
func NewClassLogService(repo ClassLogReader) *ClassLogService {
	return &ClassLogService{repo: repo}
}

// List returns one page of class logs and the total matching count.
// Page and per-page are normalized in place.
func (s *ClassLogService) List(ctx context.Context, q *model.ListClassLogsQuery) ([]model.ClassLog, int, error) {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.PerPage < 1 {
		q.PerPage = defaultPerPage
	}

	filter := model.ClassLogFilter{
		StudentClass: q.StudentClass,
		Limit:        q.PerPage,
		Offset:       (q.Page - 1) * q.PerPage,
	}

	total, err := s.repo.Count(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []model.ClassLog{}, 0, nil
	}

	logs, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	return logs, total, nil
}

// ListStudentClasses returns the class codes present in storage.
func (s *ClassLogService) ListStudentClasses(ctx context.Context) ([]string, error) {
	return s.repo.ListStudentClasses(ctx)
}
