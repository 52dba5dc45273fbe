package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"sentence-quiz/internal/domain"
)

const (
	summarySheet = "Summary"
	reviewSheet  = "Review"
)

var reviewHeaders = []string{
	"#", "Question ID", "Result", "Your Sentence", "Correct Sentence", "Your Answer", "Correct Answer",
}

// WriteXLSX renders a completed session as a workbook with a summary sheet
// and one review row per question.
func WriteXLSX(w io.Writer, record domain.SessionRecord) error {
	f := excelize.NewFile()
	defer f.Close()

	// NewFile starts with "Sheet1"; rename it rather than leave it empty.
	if err := f.SetSheetName("Sheet1", summarySheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	summary := [][]interface{}{
		{"Session", record.SessionID},
		{"Bank", record.BankID},
		{"Title", record.BankTitle},
		{"Completed At", record.CompletedAt.UTC().Format("2006-01-02 15:04:05")},
		{"Score", record.Result.Score},
		{"Questions", record.Result.Total},
		{"Tier", string(record.Result.Tier)},
	}
	for i, row := range summary {
		if err := setRow(f, summarySheet, i+1, row); err != nil {
			return err
		}
	}

	if _, err := f.NewSheet(reviewSheet); err != nil {
		return fmt.Errorf("create review sheet: %w", err)
	}
	header := make([]interface{}, len(reviewHeaders))
	for i, h := range reviewHeaders {
		header[i] = h
	}
	if err := setRow(f, reviewSheet, 1, header); err != nil {
		return err
	}
	for i, entry := range record.Result.Report {
		row := []interface{}{
			entry.Number,
			entry.QuestionID,
			outcome(entry),
			entry.UserSentence,
			entry.CorrectSentence,
			strings.Join(entry.UserAnswer, ", "),
			strings.Join(entry.CorrectAnswer, ", "),
		}
		if err := setRow(f, reviewSheet, i+2, row); err != nil {
			return err
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func setRow(f *excelize.File, sheet string, row int, values []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("write %s row %d: %w", sheet, row, err)
	}
	return nil
}

func outcome(entry domain.ReportEntry) string {
	switch {
	case entry.Correct:
		return "Correct"
	case entry.Skipped:
		return "Skipped"
	default:
		return "Incorrect"
	}
}
