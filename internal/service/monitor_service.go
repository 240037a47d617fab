package service

import (
	"context"
	"sync"

	"github.com/examhall/examhall-backend/internal/model"
	"github.com/examhall/examhall-backend/internal/repository"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// MonitorService builds live monitor snapshots.
type MonitorService struct {
	exams    ExamStore
	students StudentStore
	repo     MonitorStore
	log      zerolog.Logger
}

// NewMonitorService creates a new MonitorService.
func NewMonitorService(exams ExamStore, students StudentStore, repo MonitorStore, log zerolog.Logger) *MonitorService {
	return &MonitorService{
		exams:    exams,
		students: students,
		repo:     repo,
		log:      log.With().Str("component", "monitor_service").Logger(),
	}
}

// Snapshot returns the roster of an exam with per-student violation counts.
// The roster, violation counts and question count are fetched in parallel.
func (s *MonitorService) Snapshot(ctx context.Context, examID uuid.UUID) (*model.MonitorSnapshot, error) {
	exam, err := s.exams.GetByID(ctx, examID)
	if err != nil {
		return nil, examErr(err)
	}

	var (
		students    []model.Student
		violations  map[uuid.UUID]repository.ViolationCounts
		questions   int
		studentsErr error
		violErr     error
		countErr    error
		wg          sync.WaitGroup
	)

	wg.Add(3)
	go func() {
		defer wg.Done()
		students, studentsErr = s.students.ListByExam(ctx, examID)
	}()
	go func() {
		defer wg.Done()
		violations, violErr = s.repo.GetViolationCounts(ctx, examID)
	}()
	go func() {
		defer wg.Done()
		questions, countErr = s.repo.CountQuestions(ctx, examID)
	}()
	wg.Wait()

	// The roster is required; the counters are best effort.
	if studentsErr != nil {
		return nil, studentsErr
	}
	if violErr != nil {
		s.log.Warn().Err(violErr).Str("exam_id", examID.String()).Msg("Violation counts unavailable")
	}
	if countErr != nil {
		s.log.Warn().Err(countErr).Str("exam_id", examID.String()).Msg("Question count unavailable")
	}

	snap := &model.MonitorSnapshot{
		ExamID:         exam.ID,
		Title:          exam.Title,
		Duration:       exam.DurationMinutes,
		TotalQuestions: questions,
		Students:       make([]model.MonitorStudent, 0, len(students)),
	}

	for i := range students {
		st := &students[i]
		vc := violations[st.ID]
		state := st.State()

		snap.Students = append(snap.Students, model.MonitorStudent{
			StudentID:       st.ID,
			RollNumber:      st.RollNumber,
			FullName:        st.FullName,
			State:           state,
			LoginTime:       st.LoginTime,
			ExamStartTime:   st.ExamStartTime,
			TabSwitches:     vc.TabSwitches,
			FullscreenExits: vc.FullscreenExits,
		})

		snap.Stats.TotalJoined++
		switch state {
		case model.AttemptInProgress:
			snap.Stats.TotalInProgress++
		case model.AttemptSubmitted:
			snap.Stats.TotalSubmitted++
		}
		snap.Stats.TotalViolations += vc.TabSwitches + vc.FullscreenExits
	}

	return snap, nil
}
