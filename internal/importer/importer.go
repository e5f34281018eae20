// Package importer reads question banks from .xlsx workbooks.
//
// Every sheet is read; the first row is a header. Columns are
// ID | Difficulty | Question | A | B | C | D | Correct | Hint, where Correct is
// a letter A-D or a zero-based index 0-3. The sheet name becomes the category.
package importer

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"ladder-quiz/internal/domain"
	"ladder-quiz/pkg/logger"
)

const minColumns = 8

// RowError describes a spreadsheet row that could not be imported.
type RowError struct {
	Sheet string
	Row   int
	Err   error
}

func (e RowError) Error() string {
	return fmt.Sprintf("%s row %d: %v", e.Sheet, e.Row, e.Err)
}

func (e RowError) Unwrap() error {
	return e.Err
}

// ReadWorkbook decodes every sheet of the workbook in r.
func ReadWorkbook(r io.Reader) ([]domain.Question, []RowError, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()
	return readSheets(f)
}

// ReadWorkbookFile is ReadWorkbook for a path on disk.
func ReadWorkbookFile(path string) ([]domain.Question, []RowError, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()
	return readSheets(f)
}

func readSheets(f *excelize.File) ([]domain.Question, []RowError, error) {
	var (
		questions []domain.Question
		skipped   []RowError
	)
	for _, sheet := range f.GetSheetList() {
		rows, err := f.GetRows(sheet)
		if err != nil {
			return nil, nil, fmt.Errorf("read sheet %s: %w", sheet, err)
		}
		for i, row := range rows {
			if i == 0 || blank(row) {
				continue
			}
			q, err := decodeRow(sheet, row)
			if err != nil {
				skipped = append(skipped, RowError{Sheet: sheet, Row: i + 1, Err: err})
				continue
			}
			questions = append(questions, q)
		}
	}
	return questions, skipped, nil
}

func decodeRow(sheet string, row []string) (domain.Question, error) {
	if len(row) < minColumns {
		return domain.Question{}, fmt.Errorf("%w: want at least %d columns, got %d", domain.ErrMalformedRecord, minColumns, len(row))
	}
	cell := func(i int) string {
		if i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	difficulty, err := strconv.Atoi(cell(1))
	if err != nil {
		return domain.Question{}, fmt.Errorf("%w: difficulty %q", domain.ErrMalformedRecord, cell(1))
	}
	correct, err := parseCorrect(cell(7))
	if err != nil {
		return domain.Question{}, err
	}

	q := domain.Question{
		ID:           cell(0),
		Category:     sheet,
		Difficulty:   difficulty,
		Text:         cell(2),
		Options:      [domain.OptionCount]string{cell(3), cell(4), cell(5), cell(6)},
		CorrectIndex: correct,
		Hint:         cell(8),
	}
	if err := q.Validate(); err != nil {
		return domain.Question{}, err
	}
	return q, nil
}

func parseCorrect(raw string) (int, error) {
	if len(raw) == 1 {
		if c := strings.ToUpper(raw)[0]; c >= 'A' && c <= 'D' {
			return int(c - 'A'), nil
		}
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 || n >= domain.OptionCount {
		return 0, fmt.Errorf("%w: correct answer %q", domain.ErrMalformedRecord, raw)
	}
	return n, nil
}

func blank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

// WorkbookSource serves a workbook as a question source.
type WorkbookSource struct {
	path string
}

func NewWorkbookSource(path string) *WorkbookSource {
	return &WorkbookSource{path: path}
}

func (s *WorkbookSource) LoadQuestions(context.Context) ([]domain.Question, error) {
	questions, skipped, err := ReadWorkbookFile(s.path)
	if err != nil {
		return nil, err
	}
	for _, re := range skipped {
		logger.Warn("skipping workbook row", "file", s.path, "sheet", re.Sheet, "row", re.Row, "error", re.Err.Error())
	}
	if len(questions) == 0 {
		return nil, domain.ErrNoQuestionsLoaded
	}
	return questions, nil
}
