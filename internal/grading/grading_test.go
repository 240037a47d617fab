package grading

import (
	"testing"
	"time"

	"github.com/examhall/examhall-backend/internal/model"
	"github.com/google/uuid"
)

func question(text, answer string, marks int) model.Question {
	return model.Question{
		ID:            uuid.New(),
		QuestionText:  text,
		QuestionType:  model.QuestionTypeFillIn,
		CorrectAnswer: answer,
		Marks:         marks,
	}
}

func TestIsCorrect(t *testing.T) {
	tests := []struct {
		given string
		want  bool
	}{
		{"paris", true},
		{" Paris ", true},
		{"PARIS", true},
		{"\tParis\n", true},
		{"Pariss", false},
		{"", false},
		{"Par is", false},
	}

	for _, tc := range tests {
		t.Run(tc.given, func(t *testing.T) {
			if got := IsCorrect(tc.given, "Paris"); got != tc.want {
				t.Fatalf("IsCorrect(%q, Paris) = %v, want %v", tc.given, got, tc.want)
			}
		})
	}
}

func TestGrade_ScoresAndBreakdown(t *testing.T) {
	capital := question("Capital of France?", "Paris", 2)
	mcq := model.Question{
		ID:            uuid.New(),
		QuestionText:  "2 + 2",
		QuestionType:  model.QuestionTypeMultipleChoice,
		Options:       []string{"3", "4"},
		CorrectAnswer: "4",
		Marks:         3,
	}
	skipped := question("Never answered", "x", 5)

	answers := []Answer{
		{QuestionID: capital.ID.String(), GivenAnswer: " PARIS "},
		{QuestionID: mcq.ID.String(), GivenAnswer: "3"},
		{QuestionID: uuid.NewString(), GivenAnswer: "ghost"},
		{QuestionID: "not-a-uuid", GivenAnswer: "junk"},
	}

	res := Grade([]model.Question{capital, mcq, skipped}, answers, nil, time.Now())

	if res.MaxMarks != 5 {
		t.Fatalf("MaxMarks = %d, want 5", res.MaxMarks)
	}
	if res.TotalMarks != 2 {
		t.Fatalf("TotalMarks = %d, want 2", res.TotalMarks)
	}
	if res.Percentage != 40 {
		t.Fatalf("Percentage = %v, want 40", res.Percentage)
	}
	if len(res.Answers) != 2 {
		t.Fatalf("len(Answers) = %d, want 2", len(res.Answers))
	}

	first := res.Answers[0]
	if first.QuestionID != capital.ID || !first.IsCorrect || first.MarksAwarded != 2 {
		t.Fatalf("unexpected first evaluation: %+v", first)
	}
	if first.GivenAnswer != " PARIS " {
		t.Fatalf("given answer should be kept verbatim, got %q", first.GivenAnswer)
	}
	if first.QuestionText != capital.QuestionText {
		t.Fatalf("question text snapshot missing")
	}

	second := res.Answers[1]
	if second.IsCorrect || second.MarksAwarded != 0 {
		t.Fatalf("unexpected second evaluation: %+v", second)
	}
}

func TestGrade_UnknownQuestionsOnly(t *testing.T) {
	bank := []model.Question{question("q", "a", 4)}
	answers := []Answer{{QuestionID: uuid.NewString(), GivenAnswer: "a"}}

	res := Grade(bank, answers, nil, time.Now())

	if res.MaxMarks != 0 || res.TotalMarks != 0 {
		t.Fatalf("expected zero marks, got %d/%d", res.TotalMarks, res.MaxMarks)
	}
	if res.Percentage != 0 {
		t.Fatalf("Percentage = %v, want 0", res.Percentage)
	}
	if len(res.Answers) != 0 {
		t.Fatalf("expected no evaluations, got %d", len(res.Answers))
	}
}

func TestGrade_DuplicateAnswerCountsOnce(t *testing.T) {
	q := question("q", "yes", 1)
	answers := []Answer{
		{QuestionID: q.ID.String(), GivenAnswer: "no"},
		{QuestionID: q.ID.String(), GivenAnswer: "yes"},
	}

	res := Grade([]model.Question{q}, answers, nil, time.Now())

	if res.MaxMarks != 1 || res.TotalMarks != 0 {
		t.Fatalf("got %d/%d, want 0/1", res.TotalMarks, res.MaxMarks)
	}
}

func TestGrade_Bounds(t *testing.T) {
	bank := []model.Question{
		question("a", "1", 1),
		question("b", "2", 7),
		question("c", "3", 0),
		question("d", "4", 13),
	}

	cases := [][]Answer{
		nil,
		{{QuestionID: bank[0].ID.String(), GivenAnswer: "1"}},
		{{QuestionID: bank[1].ID.String(), GivenAnswer: "2"}, {QuestionID: bank[3].ID.String(), GivenAnswer: "x"}},
		{
			{QuestionID: bank[0].ID.String(), GivenAnswer: "1"},
			{QuestionID: bank[1].ID.String(), GivenAnswer: "2"},
			{QuestionID: bank[2].ID.String(), GivenAnswer: "3"},
			{QuestionID: bank[3].ID.String(), GivenAnswer: "4"},
		},
	}

	for i, answers := range cases {
		res := Grade(bank, answers, nil, time.Now())
		if res.TotalMarks > res.MaxMarks {
			t.Fatalf("case %d: total %d > max %d", i, res.TotalMarks, res.MaxMarks)
		}
		if res.Percentage < 0 || res.Percentage > 100 {
			t.Fatalf("case %d: percentage %v out of range", i, res.Percentage)
		}
	}
}

func TestPercentage_Rounding(t *testing.T) {
	if got := Percentage(1, 3); got != 33.33 {
		t.Fatalf("Percentage(1,3) = %v, want 33.33", got)
	}
	if got := Percentage(2, 3); got != 66.67 {
		t.Fatalf("Percentage(2,3) = %v, want 66.67", got)
	}
	if got := Percentage(5, 0); got != 0 {
		t.Fatalf("Percentage(5,0) = %v, want 0", got)
	}
}

func TestTimeTaken(t *testing.T) {
	end := time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC)

	if got := TimeTaken(nil, end); got != nil {
		t.Fatalf("expected nil without a start time, got %d", *got)
	}

	start := end.Add(-90*time.Second - 900*time.Millisecond)
	got := TimeTaken(&start, end)
	if got == nil || *got != 90 {
		t.Fatalf("TimeTaken = %v, want 90", got)
	}

	future := end.Add(time.Minute)
	if got := TimeTaken(&future, end); got == nil || *got != 0 {
		t.Fatalf("clock skew should clamp to 0, got %v", got)
	}
}
