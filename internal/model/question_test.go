package model

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
)

func TestToQuestion_Marks(t *testing.T) {
	tests := []struct {
		name string
		body string
		want int
	}{
		{"absent defaults", `{"question_text":"q","question_type":"fill","correct_answer":"a"}`, DefaultMarks},
		{"explicit zero kept", `{"question_text":"q","question_type":"fill","correct_answer":"a","marks":0}`, 0},
		{"explicit value kept", `{"question_text":"q","question_type":"fill","correct_answer":"a","marks":4}`, 4},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var req QuestionRequest
			if err := json.Unmarshal([]byte(tc.body), &req); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if got := req.ToQuestion(uuid.New()).Marks; got != tc.want {
				t.Fatalf("marks = %d, want %d", got, tc.want)
			}
		})
	}
}

func TestAnswerText_Unmarshal(t *testing.T) {
	tests := []struct {
		raw     string
		want    AnswerText
		wantErr bool
	}{
		{`"Paris"`, "Paris", false},
		{`42`, "42", false},
		{`3.5`, "3.5", false},
		{`true`, "true", false},
		{`null`, "", false},
		{`{"a":1}`, "", true},
		{`["a"]`, "", true},
	}

	for _, tc := range tests {
		var got AnswerText
		err := json.Unmarshal([]byte(tc.raw), &got)
		if (err != nil) != tc.wantErr {
			t.Fatalf("%s: err = %v, wantErr %v", tc.raw, err, tc.wantErr)
		}
		if !tc.wantErr && got != tc.want {
			t.Fatalf("%s: got %q, want %q", tc.raw, got, tc.want)
		}
	}
}
