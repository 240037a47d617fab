package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/examhall/examhall-backend/internal/config"
	"github.com/examhall/examhall-backend/internal/model"
	"github.com/examhall/examhall-backend/internal/repository"
	"github.com/google/uuid"
)

// memStore is an in-memory stand-in for the pgx repositories. It keeps the same
// conditional-update semantics so the attempt invariants can be tested without a database.
type memStore struct {
	mu        sync.Mutex
	exams     map[uuid.UUID]*model.Exam
	questions map[uuid.UUID]*model.Question
	students  map[uuid.UUID]*model.Student
	responses map[uuid.UUID]*model.Response
	events    []model.AttemptEvent
}

func newMemStore() *memStore {
	return &memStore{
		exams:     map[uuid.UUID]*model.Exam{},
		questions: map[uuid.UUID]*model.Question{},
		students:  map[uuid.UUID]*model.Student{},
		responses: map[uuid.UUID]*model.Response{},
	}
}

// ─── exams ─────────────────────────────────────────────────────────

type memExams struct{ *memStore }

func (m memExams) GetByID(_ context.Context, id uuid.UUID) (*model.Exam, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.exams[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *e
	return &cp, nil
}

func (m memExams) GetByCode(_ context.Context, code string) (*model.Exam, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range m.exams {
		if e.ExamCode == code {
			cp := *e
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m memExams) List(_ context.Context) ([]model.Exam, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []model.Exam{}
	for _, e := range m.exams {
		out = append(out, *e)
	}
	return out, nil
}

func (m memExams) Create(_ context.Context, e *model.Exam) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, other := range m.exams {
		if other.ExamCode == e.ExamCode {
			return repository.ErrDuplicateExamCode
		}
	}
	e.ID = uuid.New()
	e.CreatedAt = time.Now()
	e.UpdatedAt = e.CreatedAt
	cp := *e
	m.exams[e.ID] = &cp
	return nil
}

func (m memExams) Update(_ context.Context, e *model.Exam) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.exams[e.ID]; !ok {
		return repository.ErrNotFound
	}
	cp := *e
	m.exams[e.ID] = &cp
	return nil
}

func (m memExams) SetActive(_ context.Context, id uuid.UUID, active bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.exams[id]
	if !ok {
		return repository.ErrNotFound
	}
	e.IsActive = active
	return nil
}

func (m memExams) Delete(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.exams[id]; !ok {
		return repository.ErrNotFound
	}
	delete(m.exams, id)
	return nil
}

// ─── questions ─────────────────────────────────────────────────────

type memQuestions struct{ *memStore }

func (m memQuestions) ListByExam(_ context.Context, examID uuid.UUID) ([]model.Question, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []model.Question{}
	for _, q := range m.questions {
		if q.ExamID == examID {
			out = append(out, *q)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].OrderNum != out[j].OrderNum {
			return out[i].OrderNum < out[j].OrderNum
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (m memQuestions) GetByID(_ context.Context, id uuid.UUID) (*model.Question, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	q, ok := m.questions[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *q
	return &cp, nil
}

func (m memQuestions) Create(_ context.Context, q *model.Question) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	q.ID = uuid.New()
	q.CreatedAt = time.Now()
	cp := *q
	m.questions[q.ID] = &cp
	return nil
}

func (m memQuestions) Update(_ context.Context, q *model.Question) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	old, ok := m.questions[q.ID]
	if !ok {
		return repository.ErrNotFound
	}
	q.ExamID = old.ExamID
	q.CreatedAt = old.CreatedAt
	cp := *q
	m.questions[q.ID] = &cp
	return nil
}

func (m memQuestions) Delete(_ context.Context, id uuid.UUID) (uuid.UUID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	q, ok := m.questions[id]
	if !ok {
		return uuid.Nil, repository.ErrNotFound
	}
	delete(m.questions, id)
	return q.ExamID, nil
}

// ─── students ──────────────────────────────────────────────────────

type memStudents struct{ *memStore }

func (m memStudents) UpsertForLogin(_ context.Context, examID uuid.UUID, roll, name string) (*model.Student, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := time.Now()
	for _, s := range m.students {
		if s.ExamID == examID && s.RollNumber == roll {
			if s.HasAttempted {
				return nil, repository.ErrAlreadyAttempted
			}
			s.FullName = name
			s.LoginTime = &now
			cp := *s
			return &cp, nil
		}
	}
	s := &model.Student{ID: uuid.New(), ExamID: examID, RollNumber: roll, FullName: name, LoginTime: &now, CreatedAt: now}
	m.students[s.ID] = s
	cp := *s
	return &cp, nil
}

func (m memStudents) MarkStarted(_ context.Context, id uuid.UUID) (*model.Student, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.students[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	if s.HasAttempted {
		return nil, repository.ErrAlreadyAttempted
	}
	if s.ExamStartTime == nil {
		now := time.Now()
		s.ExamStartTime = &now
	}
	cp := *s
	return &cp, nil
}

func (m memStudents) GetByID(_ context.Context, id uuid.UUID) (*model.Student, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.students[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *s
	return &cp, nil
}

func (m memStudents) ListByExam(_ context.Context, examID uuid.UUID) ([]model.Student, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []model.Student{}
	for _, s := range m.students {
		if s.ExamID == examID {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (m memStudents) Delete(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.students[id]; !ok {
		return repository.ErrNotFound
	}
	delete(m.students, id)
	return nil
}

// ─── responses ─────────────────────────────────────────────────────

type memResponses struct{ *memStore }

func (m memResponses) CompleteAttempt(_ context.Context, resp *model.Response) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.students[*resp.StudentID]
	if !ok || s.HasAttempted {
		return repository.ErrAlreadySubmitted
	}
	s.HasAttempted = true
	resp.ID = uuid.New()
	cp := *resp
	m.responses[resp.ID] = &cp
	return nil
}

func (m memResponses) ListByExam(_ context.Context, examID uuid.UUID) ([]model.Response, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []model.Response{}
	for _, r := range m.responses {
		if r.ExamID == examID {
			out = append(out, *r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].TotalMarks > out[j].TotalMarks })
	return out, nil
}

func (m memResponses) GetByID(_ context.Context, id uuid.UUID) (*model.Response, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.responses[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *r
	return &cp, nil
}

func (m memResponses) DeleteAndReset(_ context.Context, id uuid.UUID) (*uuid.UUID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.responses[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	delete(m.responses, id)
	if r.StudentID != nil {
		if s, ok := m.students[*r.StudentID]; ok {
			s.HasAttempted = false
			s.ExamStartTime = nil
		}
	}
	return r.StudentID, nil
}

// ─── events ────────────────────────────────────────────────────────

type memEvents struct{ *memStore }

func (m memEvents) Enqueue(_ context.Context, evt model.AttemptEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, evt)
	return nil
}

func (m memEvents) ListByStudent(_ context.Context, studentID uuid.UUID) ([]model.AttemptEvent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []model.AttemptEvent{}
	for _, e := range m.events {
		if e.StudentID == studentID {
			out = append(out, e)
		}
	}
	return out, nil
}

// ─── redis stand-ins ───────────────────────────────────────────────

type memSessions struct {
	mu   sync.Mutex
	jtis map[uuid.UUID]string
}

func newMemSessions() *memSessions { return &memSessions{jtis: map[uuid.UUID]string{}} }

func (s *memSessions) Register(_ context.Context, id uuid.UUID, jti string, _ time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jtis[id] = jti
	return nil
}

func (s *memSessions) Current(_ context.Context, id uuid.UUID) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.jtis[id], nil
}

func (s *memSessions) Revoke(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.jtis, id)
	return nil
}

type memPapers struct {
	mu     sync.Mutex
	papers map[uuid.UUID]*model.ExamPaper
}

func newMemPapers() *memPapers { return &memPapers{papers: map[uuid.UUID]*model.ExamPaper{}} }

func (c *memPapers) Get(_ context.Context, id uuid.UUID) (*model.ExamPaper, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	p, ok := c.papers[id]
	return p, ok, nil
}

func (c *memPapers) Set(_ context.Context, p *model.ExamPaper, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.papers[p.ExamID] = p
	return nil
}

func (c *memPapers) Invalidate(_ context.Context, id uuid.UUID) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.papers, id)
	return nil
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []model.MonitorEvent
}

func (p *recordingPublisher) Publish(_ context.Context, evt model.MonitorEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, evt)
	return nil
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Type)
	}
	return out
}

func testConfig() *config.Config {
	return &config.Config{
		JWTSecret:         "test-secret",
		AdminTokenExpiry:  8 * time.Hour,
		StudentTokenGrace: 30 * time.Minute,
		AdminUsername:     "admin",
		AdminPassword:     "s3cret",
		BcryptCost:        4,
		PaperCacheTTL:     time.Hour,
	}
}
