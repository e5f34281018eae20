package importer

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"

	"ladder-quiz/internal/domain"
)

var header = []interface{}{"ID", "Difficulty", "Question", "A", "B", "C", "D", "Correct", "Hint"}

func buildWorkbook(t *testing.T, sheets map[string][][]interface{}) *excelize.File {
	t.Helper()
	f := excelize.NewFile()
	first := true
	for name, rows := range sheets {
		if first {
			if err := f.SetSheetName("Sheet1", name); err != nil {
				t.Fatalf("rename sheet: %v", err)
			}
			first = false
		} else if _, err := f.NewSheet(name); err != nil {
			t.Fatalf("new sheet: %v", err)
		}
		all := append([][]interface{}{header}, rows...)
		for i, row := range all {
			cell, _ := excelize.CoordinatesToCellName(1, i+1)
			r := row
			if err := f.SetSheetRow(name, cell, &r); err != nil {
				t.Fatalf("set row: %v", err)
			}
		}
	}
	return f
}

func TestReadWorkbook(t *testing.T) {
	f := buildWorkbook(t, map[string][][]interface{}{
		"Trees": {
			{"T1", 3, "Root has how many parents?", "0", "1", "2", "Many", "A", "none"},
			{"T2", 3, "Binary nodes have at most?", "1 child", "2 children", "3 children", "4 children", 1, "bi"},
			{"T3", "hard", "Broken difficulty", "a", "b", "c", "d", "A", ""},
			{"T4", 3, "Bad answer", "a", "b", "c", "d", "E", ""},
			{"T5", 3, "Too short"},
		},
	})
	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatalf("write workbook: %v", err)
	}

	questions, skipped, err := ReadWorkbook(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("ReadWorkbook() error = %v", err)
	}
	if len(questions) != 2 {
		t.Fatalf("ReadWorkbook() returned %d questions, want 2", len(questions))
	}
	if q := questions[0]; q.ID != "T1" || q.Category != "Trees" || q.Difficulty != 3 || q.CorrectIndex != 0 || q.Hint != "none" {
		t.Errorf("first question = %+v", q)
	}
	if q := questions[1]; q.CorrectOption() != "2 children" {
		t.Errorf("second question correct option = %q", q.CorrectOption())
	}
	if len(skipped) != 3 {
		t.Fatalf("skipped %d rows, want 3: %v", len(skipped), skipped)
	}
	for _, re := range skipped {
		if !errors.Is(re, domain.ErrMalformedRecord) {
			t.Errorf("row error %v should wrap ErrMalformedRecord", re)
		}
	}
	if skipped[0].Row != 4 || skipped[0].Sheet != "Trees" {
		t.Errorf("first skipped row = %+v", skipped[0])
	}
}

func TestParseCorrect(t *testing.T) {
	tests := []struct {
		raw     string
		want    int
		wantErr bool
	}{
		{"A", 0, false}, {"d", 3, false}, {"2", 2, false}, {"0", 0, false},
		{"4", 0, true}, {"E", 0, true}, {"", 0, true}, {"-1", 0, true},
	}
	for _, tt := range tests {
		got, err := parseCorrect(tt.raw)
		if (err != nil) != tt.wantErr {
			t.Errorf("parseCorrect(%q) error = %v, wantErr %v", tt.raw, err, tt.wantErr)
			continue
		}
		if !tt.wantErr && got != tt.want {
			t.Errorf("parseCorrect(%q) = %d, want %d", tt.raw, got, tt.want)
		}
	}
}

func TestWorkbookSource(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bank.xlsx")
	f := buildWorkbook(t, map[string][][]interface{}{
		"Graphs": {{"G1", 4, "BFS uses a?", "Stack", "Queue", "Heap", "Set", "B", "level order"}},
	})
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("save workbook: %v", err)
	}

	questions, err := NewWorkbookSource(path).LoadQuestions(context.Background())
	if err != nil {
		t.Fatalf("LoadQuestions() error = %v", err)
	}
	if len(questions) != 1 || questions[0].CorrectOption() != "Queue" {
		t.Errorf("LoadQuestions() = %+v", questions)
	}

	empty := filepath.Join(dir, "empty.xlsx")
	if err := buildWorkbook(t, map[string][][]interface{}{"Empty": nil}).SaveAs(empty); err != nil {
		t.Fatalf("save workbook: %v", err)
	}
	if _, err := NewWorkbookSource(empty).LoadQuestions(context.Background()); !errors.Is(err, domain.ErrNoQuestionsLoaded) {
		t.Errorf("LoadQuestions() error = %v, want ErrNoQuestionsLoaded", err)
	}
}
