package service

import (
	"context"
	"fmt"

	"github.com/examhall/examhall-backend/internal/model"
	"github.com/google/uuid"
)

const topPerformersLimit = 5

// DashboardService assembles the admin overview.
type DashboardService struct {
	exams ExamStore
	repo  DashboardStore
}

// NewDashboardService creates a new DashboardService.
func NewDashboardService(exams ExamStore, repo DashboardStore) *DashboardService {
	return &DashboardService{exams: exams, repo: repo}
}

// GetDashboard returns counters and the top performers, optionally for one exam.
func (s *DashboardService) GetDashboard(ctx context.Context, examID *uuid.UUID) (*model.DashboardSummary, error) {
	var exam *model.Exam
	if examID != nil {
		e, err := s.exams.GetByID(ctx, *examID)
		if err != nil {
			return nil, examErr(err)
		}
		exam = e
	}

	summary, err := s.repo.GetSummaryCounts(ctx, examID)
	if err != nil {
		return nil, fmt.Errorf("summary counts: %w", err)
	}

	top, err := s.repo.GetTopPerformers(ctx, examID, topPerformersLimit)
	if err != nil {
		return nil, fmt.Errorf("top performers: %w", err)
	}
	summary.TopPerformers = top

	if exam != nil {
		active := exam.IsActive
		summary.ExamActive = &active
	}
	return summary, nil
}
