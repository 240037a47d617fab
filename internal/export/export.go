// Package export turns exam results and student rosters into spreadsheet rows
// and xlsx workbooks for download.
package export

import (
	"bytes"
	"fmt"
	"sort"
	"time"

	"github.com/examhall/examhall-backend/internal/model"
	"github.com/xuri/excelize/v2"
)

// ContentType is the MIME type of the generated workbooks.
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

const timeLayout = "2006-01-02 15:04:05"

var (
	ResultHeaders = []string{
		"Rank", "Roll Number", "Full Name", "Total Marks", "Max Marks", "Percentage (%)",
		"Submitted At", "Submission Type", "Tab Switches", "Fullscreen Exits", "Time Taken (sec)",
	}
	StudentHeaders = []string{
		"Roll Number", "Full Name", "Login Time", "Exam Started", "Has Attempted", "Registered At",
	}
)

// ResultRow is one ranked line of the results sheet.
type ResultRow struct {
	Rank             int
	RollNumber       string
	FullName         string
	TotalMarks       int
	MaxMarks         int
	Percentage       float64
	SubmittedAt      string
	SubmissionType   string
	TabSwitches      int
	FullscreenExits  int
	TimeTakenSeconds string
}

func (r ResultRow) values() []any {
	return []any{r.Rank, r.RollNumber, r.FullName, r.TotalMarks, r.MaxMarks, r.Percentage,
		r.SubmittedAt, r.SubmissionType, r.TabSwitches, r.FullscreenExits, r.TimeTakenSeconds}
}

// StudentRow is one line of the student roster sheet.
type StudentRow struct {
	RollNumber   string
	FullName     string
	LoginTime    string
	ExamStarted  string
	HasAttempted string
	RegisteredAt string
}

func (r StudentRow) values() []any {
	return []any{r.RollNumber, r.FullName, r.LoginTime, r.ExamStarted, r.HasAttempted, r.RegisteredAt}
}

// ResultRows ranks responses by total marks, highest first. Ties keep the
// earlier submission ahead. The input slice is not modified.
func ResultRows(responses []model.Response, loc *time.Location) []ResultRow {
	sorted := make([]model.Response, len(responses))
	copy(sorted, responses)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].TotalMarks != sorted[j].TotalMarks {
			return sorted[i].TotalMarks > sorted[j].TotalMarks
		}
		return sorted[i].SubmittedAt.Before(sorted[j].SubmittedAt)
	})

	rows := make([]ResultRow, 0, len(sorted))
	for i, r := range sorted {
		taken := ""
		if r.TimeTakenSeconds != nil {
			taken = fmt.Sprintf("%d", *r.TimeTakenSeconds)
		}
		rows = append(rows, ResultRow{
			Rank:             i + 1,
			RollNumber:       r.RollNumber,
			FullName:         r.FullName,
			TotalMarks:       r.TotalMarks,
			MaxMarks:         r.MaxMarks,
			Percentage:       r.Percentage,
			SubmittedAt:      formatTime(&r.SubmittedAt, loc, ""),
			SubmissionType:   string(r.SubmissionType),
			TabSwitches:      r.TabSwitchCount,
			FullscreenExits:  r.FullscreenExitCount,
			TimeTakenSeconds: taken,
		})
	}
	return rows
}

// StudentRows lists students in registration order.
func StudentRows(students []model.Student, loc *time.Location) []StudentRow {
	sorted := make([]model.Student, len(students))
	copy(sorted, students)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].CreatedAt.Before(sorted[j].CreatedAt)
	})

	rows := make([]StudentRow, 0, len(sorted))
	for _, s := range sorted {
		attempted := "No"
		if s.HasAttempted {
			attempted = "Yes"
		}
		rows = append(rows, StudentRow{
			RollNumber:   s.RollNumber,
			FullName:     s.FullName,
			LoginTime:    formatTime(s.LoginTime, loc, "Not logged in"),
			ExamStarted:  formatTime(s.ExamStartTime, loc, "Not started"),
			HasAttempted: attempted,
			RegisteredAt: formatTime(&s.CreatedAt, loc, ""),
		})
	}
	return rows
}

func formatTime(t *time.Time, loc *time.Location, fallback string) string {
	if t == nil || t.IsZero() {
		return fallback
	}
	if loc != nil {
		return t.In(loc).Format(timeLayout)
	}
	return t.Format(timeLayout)
}

// ResultsWorkbook renders the results sheet.
func ResultsWorkbook(rows []ResultRow) ([]byte, error) {
	values := make([][]any, 0, len(rows))
	for _, r := range rows {
		values = append(values, r.values())
	}
	return workbook("Results", ResultHeaders, values, 20)
}

// StudentsWorkbook renders the student roster sheet.
func StudentsWorkbook(rows []StudentRow) ([]byte, error) {
	values := make([][]any, 0, len(rows))
	for _, r := range rows {
		values = append(values, r.values())
	}
	return workbook("Students", StudentHeaders, values, 22)
}

func workbook(sheetName string, headers []string, rows [][]any, width float64) ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	sheet := f.GetSheetName(0)
	if err := f.SetSheetName(sheet, sheetName); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}
	sheet = sheetName

	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}
	for i, row := range rows {
		for col, v := range row {
			cell, _ := excelize.CoordinatesToCellName(col+1, i+2)
			_ = f.SetCellValue(sheet, cell, v)
		}
	}

	lastCol, _ := excelize.ColumnNumberToName(len(headers))
	_ = f.SetColWidth(sheet, "A", lastCol, width)

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write excel: %w", err)
	}
	return buf.Bytes(), nil
}

// Filename builds the attachment name for an exam export, e.g. "gk-2026_results.xlsx".
func Filename(examCode, kind string) string {
	return fmt.Sprintf("%s_%s.xlsx", examCode, kind)
}
