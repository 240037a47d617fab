package handler

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/examhall/examhall-backend/internal/config"
	"github.com/examhall/examhall-backend/internal/middleware"
	"github.com/examhall/examhall-backend/internal/model"
	"github.com/examhall/examhall-backend/internal/repository"
	"github.com/examhall/examhall-backend/internal/response"
	"github.com/examhall/examhall-backend/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// attemptDB backs the real attempt and submission services with one exam held in memory.
type attemptDB struct {
	mu        sync.Mutex
	exam      model.Exam
	questions []model.Question
	students  map[uuid.UUID]*model.Student
	responses []model.Response
}

var errUnused = errors.New("not used by the exam portal")

type examRows struct{ *attemptDB }

func (d examRows) GetByID(_ context.Context, id uuid.UUID) (*model.Exam, error) {
	if id != d.exam.ID {
		return nil, repository.ErrNotFound
	}
	e := d.exam
	return &e, nil
}

func (d examRows) GetByCode(_ context.Context, code string) (*model.Exam, error) {
	if code != d.exam.ExamCode {
		return nil, repository.ErrNotFound
	}
	e := d.exam
	return &e, nil
}

func (examRows) List(context.Context) ([]model.Exam, error) { return nil, errUnused }
func (examRows) Create(context.Context, *model.Exam) error { return errUnused }
func (examRows) Update(context.Context, *model.Exam) error { return errUnused }
func (examRows) SetActive(context.Context, uuid.UUID, bool) error { return errUnused }
func (examRows) Delete(context.Context, uuid.UUID) error { return errUnused }

type questionRows struct{ *attemptDB }

func (d questionRows) ListByExam(_ context.Context, examID uuid.UUID) ([]model.Question, error) {
	if examID != d.exam.ID {
		return []model.Question{}, nil
	}
	return append([]model.Question(nil), d.questions...), nil
}

func (questionRows) GetByID(context.Context, uuid.UUID) (*model.Question, error) { return nil, errUnused }
func (questionRows) Create(context.Context, *model.Question) error { return errUnused }
func (questionRows) Update(context.Context, *model.Question) error { return errUnused }
func (questionRows) Delete(context.Context, uuid.UUID) (uuid.UUID, error) { return uuid.Nil, errUnused }

type studentRows struct{ *attemptDB }

func (d studentRows) UpsertForLogin(_ context.Context, examID uuid.UUID, roll, name string) (*model.Student, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	now := time.Now()
	for _, s := range d.students {
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
	s := &model.Student{ID: uuid.New(), ExamID: examID, RollNumber: roll, FullName: name, LoginTime: &now}
	d.students[s.ID] = s
	cp := *s
	return &cp, nil
}

func (d studentRows) MarkStarted(_ context.Context, id uuid.UUID) (*model.Student, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	s, ok := d.students[id]
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

func (d studentRows) GetByID(_ context.Context, id uuid.UUID) (*model.Student, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	s, ok := d.students[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *s
	return &cp, nil
}

func (studentRows) ListByExam(context.Context, uuid.UUID) ([]model.Student, error) { return nil, errUnused }
func (studentRows) Delete(context.Context, uuid.UUID) error { return errUnused }

type responseRows struct{ *attemptDB }

func (d responseRows) CompleteAttempt(_ context.Context, resp *model.Response) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	s, ok := d.students[*resp.StudentID]
	if !ok || s.HasAttempted {
		return repository.ErrAlreadySubmitted
	}
	s.HasAttempted = true
	resp.ID = uuid.New()
	d.responses = append(d.responses, *resp)
	return nil
}

func (responseRows) ListByExam(context.Context, uuid.UUID) ([]model.Response, error) { return nil, errUnused }
func (responseRows) GetByID(context.Context, uuid.UUID) (*model.Response, error) { return nil, errUnused }
func (responseRows) DeleteAndReset(context.Context, uuid.UUID) (*uuid.UUID, error) { return nil, errUnused }

// paperRows serves the redacted paper straight from the question list.
type paperRows struct{ *attemptDB }

func (d paperRows) Paper(_ context.Context, examID uuid.UUID) (*model.ExamPaper, error) {
	paper := &model.ExamPaper{ExamID: examID}
	for i := range d.questions {
		paper.Questions = append(paper.Questions, d.questions[i].ForStudent())
	}
	return paper, nil
}

// newAttemptFlow wires the real services and middleware the server uses.
func newAttemptFlow(t *testing.T) (*attemptDB, *gin.Engine) {
	t.Helper()
	auth, err := service.NewAuthService(&config.Config{
		JWTSecret:         "flow-secret",
		StudentTokenGrace: 30 * time.Minute,
		BcryptCost:        4,
	}, &sessions{jtis: map[uuid.UUID]string{}})
	if err != nil {
		t.Fatalf("NewAuthService: %v", err)
	}

	examID := uuid.New()
	db := &attemptDB{
		exam: model.Exam{ID: examID, ExamCode: "gk-1", Title: "General Knowledge", DurationMinutes: 20, IsActive: true},
		questions: []model.Question{
			{ID: uuid.New(), ExamID: examID, QuestionText: "Capital of France?", QuestionType: model.QuestionTypeFillIn, CorrectAnswer: "Paris", Marks: 2, OrderNum: 1},
			{ID: uuid.New(), ExamID: examID, QuestionText: "2 + 2 = ?", QuestionType: model.QuestionTypeMultipleChoice, Options: []string{"3", "4"}, CorrectAnswer: "4", Marks: 1, OrderNum: 2},
		},
		students: map[uuid.UUID]*model.Student{},
	}

	log := zerolog.Nop()
	attempts := service.NewAttemptService(examRows{db}, studentRows{db}, paperRows{db}, auth, nil, log)
	submissions := service.NewSubmissionService(studentRows{db}, questionRows{db}, responseRows{db}, nil, log)

	authHandler := NewAuthHandler(auth, attempts)
	portalHandler := NewExamPortalHandler(attempts, submissions, nil)

	r := gin.New()
	r.POST("/api/student/:examCode/login", authHandler.StudentLogin)
	exam := r.Group("/api/exam", middleware.RequireStudentJWT(auth), middleware.CheckStudentSession(auth))
	exam.GET("/questions", portalHandler.GetQuestions)
	exam.POST("/submit", portalHandler.Submit)
	return db, r
}

func TestAttemptFlow_SubmittedAttemptIsForbidden(t *testing.T) {
	db, r := newAttemptFlow(t)
	token := loginToken(t, r)

	if w := do(r, http.MethodGet, "/api/exam/questions", token, nil); w.Code != http.StatusOK {
		t.Fatalf("questions status = %d: %s", w.Code, w.Body.String())
	}

	body := map[string]any{
		"answers": []map[string]string{
			{"questionId": db.questions[0].ID.String(), "givenAnswer": " paris "},
		},
	}
	if w := do(r, http.MethodPost, "/api/exam/submit", token, body); w.Code != http.StatusOK {
		t.Fatalf("submit status = %d: %s", w.Code, w.Body.String())
	}

	checks := []struct {
		name   string
		method string
		path   string
		body   any
	}{
		{"second submit", http.MethodPost, "/api/exam/submit", body},
		{"questions after submit", http.MethodGet, "/api/exam/questions", nil},
	}
	for _, tc := range checks {
		t.Run(tc.name, func(t *testing.T) {
			w := do(r, tc.method, tc.path, token, tc.body)
			if w.Code != http.StatusForbidden {
				t.Fatalf("status = %d, want 403: %s", w.Code, w.Body.String())
			}
			env, _ := decode(t, w)
			if env.Error == nil || env.Error.Code != response.ErrAlreadySubmitted {
				t.Fatalf("error = %+v, want %s", env.Error, response.ErrAlreadySubmitted)
			}
		})
	}

	w := do(r, http.MethodPost, "/api/student/gk-1/login", "", map[string]string{"rollNumber": "r-1", "fullName": "Ann"})
	if w.Code != http.StatusForbidden {
		t.Fatalf("login after submit status = %d, want 403", w.Code)
	}
	if len(db.responses) != 1 {
		t.Fatalf("stored %d responses, want 1", len(db.responses))
	}
}

func TestAttemptFlow_LenientAnswers(t *testing.T) {
	db, r := newAttemptFlow(t)
	token := loginToken(t, r)

	body := map[string]any{
		"answers": []map[string]any{
			{"questionId": "", "givenAnswer": "x"},
			{"givenAnswer": "no id at all"},
			{"questionId": db.questions[1].ID.String(), "givenAnswer": 4},
			{"questionId": db.questions[0].ID.String(), "givenAnswer": "PARIS"},
		},
		"submissionType": "auto_timer",
	}
	w := do(r, http.MethodPost, "/api/exam/submit", token, body)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", w.Code, w.Body.String())
	}

	if len(db.responses) != 1 {
		t.Fatalf("stored %d responses, want 1", len(db.responses))
	}
	got := db.responses[0]
	if got.TotalMarks != 3 || got.MaxMarks != 3 {
		t.Fatalf("marks = %d/%d, want 3/3", got.TotalMarks, got.MaxMarks)
	}
	if len(got.Answers) != 2 {
		t.Fatalf("graded %d answers, want 2", len(got.Answers))
	}
}

func TestAttemptFlow_RejectsStructuredAnswer(t *testing.T) {
	db, r := newAttemptFlow(t)
	token := loginToken(t, r)

	body := map[string]any{
		"answers": []map[string]any{
			{"questionId": db.questions[0].ID.String(), "givenAnswer": map[string]string{"a": "b"}},
		},
	}
	if w := do(r, http.MethodPost, "/api/exam/submit", token, body); w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}
