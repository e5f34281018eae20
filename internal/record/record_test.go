package record

import (
	"errors"
	"strings"
	"testing"

	"ladder-quiz/internal/domain"
)

func TestDecodeQuestionNineFields(t *testing.T) {
	q, err := DecodeQuestion("Q1|1|What is a stack?|LIFO list|FIFO list|Tree|Graph|0|Think last-in")
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if q.ID != "Q1" || q.Difficulty != 1 || q.CorrectIndex != 0 || q.Hint != "Think last-in" {
		t.Fatalf("unexpected question %+v", q)
	}
	if q.Options != [4]string{"LIFO list", "FIFO list", "Tree", "Graph"} {
		t.Fatalf("unexpected options %v", q.Options)
	}
	if q.Category != domain.CategoryName(1) {
		t.Fatalf("expected looked-up category, got %q", q.Category)
	}
}

func TestDecodeQuestionCategorized(t *testing.T) {
	q, err := DecodeQuestion(" 7 | Geography | 3 | Capital of France? | Berlin | Paris | Rome | Madrid | 1 | Eiffel ")
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if q.ID != "7" || q.Category != "Geography" || q.Difficulty != 3 || q.CorrectOption() != "Paris" {
		t.Fatalf("unexpected question %+v", q)
	}
}

func TestDecodeQuestionRejectsMalformed(t *testing.T) {
	lines := map[string]string{
		"too few fields":     "Q1|1|Text|A|B|C|D|0",
		"bad difficulty":     "Q1|easy|Text|A|B|C|D|0|hint",
		"bad index":          "Q1|1|Text|A|B|C|D|x|hint",
		"index out of range": "Q1|1|Text|A|B|C|D|4|hint",
		"empty id":           "|1|Text|A|B|C|D|0|hint",
		"reserved id":        "-1|1|Text|A|B|C|D|0|hint",
	}
	for name, line := range lines {
		t.Run(name, func(t *testing.T) {
			if _, err := DecodeQuestion(line); !errors.Is(err, domain.ErrMalformedRecord) {
				t.Fatalf("expected malformed record error, got %v", err)
			}
		})
	}
}

func TestReadQuestionsSkipsBadLines(t *testing.T) {
	input := strings.Join([]string{
		"# bank v1",
		"Q1|1|One?|a|b|c|d|0|h1",
		"",
		"broken line",
		"Q2|2|Two?|a|b|c|d|9|h2",
		"Q3|2|Three?|a|b|c|d|3|h3",
	}, "\n")

	questions, skipped, err := ReadQuestions(strings.NewReader(input))
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(questions) != 2 {
		t.Fatalf("expected 2 questions, got %d", len(questions))
	}
	if len(skipped) != 2 || skipped[0].Line != 4 || skipped[1].Line != 5 {
		t.Fatalf("unexpected skipped lines %+v", skipped)
	}
}

func TestQuestionEncodeDecode(t *testing.T) {
	original := domain.Question{
		ID: "Q9", Category: "Custom", Difficulty: 2, Text: "Pick | one",
		Options: [4]string{"a", "b", "c", "d"}, CorrectIndex: 2, Hint: "third",
	}
	decoded, err := DecodeQuestion(EncodeQuestion(original))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	original.Text = "Pick / one"
	if decoded != original {
		t.Fatalf("round trip mismatch:\n got %+v\nwant %+v", decoded, original)
	}

	plain := domain.Question{ID: "Q1", Category: domain.CategoryName(1), Difficulty: 1, Options: [4]string{"a", "b", "c", "d"}}
	if n := len(strings.Split(EncodeQuestion(plain), Separator)); n != 9 {
		t.Fatalf("expected 9-field encoding for looked-up category, got %d", n)
	}
}

func TestEntryCodec(t *testing.T) {
	e, err := DecodeEntry("Alice|32000|10|11")
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	want := domain.LeaderboardEntry{PlayerName: "Alice", Winnings: 32000, Level: 10, QuestionsAnswered: 11}
	if e != want {
		t.Fatalf("got %+v, want %+v", e, want)
	}
	if EncodeEntry(want) != "Alice|32000|10|11" {
		t.Fatalf("unexpected encoding %q", EncodeEntry(want))
	}

	for _, bad := range []string{"Alice|100|1", "Alice|x|1|1", "Alice|-5|1|1", "|1|1|1", "Alice|1|1|1|2024-01-01"} {
		if _, err := DecodeEntry(bad); err == nil {
			t.Errorf("DecodeEntry(%q) expected error", bad)
		}
	}
}

func TestProfileCodec(t *testing.T) {
	legacy, err := DecodeProfile("Bob|male|3|1500|7")
	if err != nil {
		t.Fatalf("decode legacy: %v", err)
	}
	if legacy.GamesPlayed != 3 || legacy.TotalWinnings != 1500 || legacy.MaxLevel != 7 || legacy.TotalAnswered != 0 {
		t.Fatalf("unexpected legacy profile %+v", legacy)
	}

	p := domain.PlayerProfile{Name: "Carol", Gender: "female", GamesPlayed: 2, TotalWinnings: 300, MaxLevel: 3, TotalCorrect: 3, TotalAnswered: 4}
	line := EncodeProfile(p)
	if !strings.HasSuffix(line, "|75.0") {
		t.Fatalf("expected derived win rate suffix, got %q", line)
	}
	decoded, err := DecodeProfile(line)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if decoded != p {
		t.Fatalf("got %+v, want %+v", decoded, p)
	}

	if _, err := DecodeProfile("Dan|male|x|0|0"); err == nil {
		t.Fatalf("expected error for non-numeric games played")
	}
}
