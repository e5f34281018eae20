// Package record encodes and decodes the pipe-delimited line formats used for
// the question bank, the leaderboard file and the player profile file.
package record

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"ladder-quiz/internal/domain"
)

// Separator joins the fields of every record.
const Separator = "|"

const (
	questionFields        = 9
	categorizedFields     = 10
	entryFields           = 4
	profileFields         = 5
	extendedProfileFields = 8
)

var fieldCleaner = strings.NewReplacer(Separator, "/", "\n", " ", "\r", " ")

// LineError describes a line that was skipped while reading a stream.
type LineError struct {
	Line int
	Err  error
}

func (e LineError) Error() string {
	return fmt.Sprintf("line %d: %v", e.Line, e.Err)
}

func (e LineError) Unwrap() error {
	return e.Err
}

// Scan calls fn for every non-blank, non-comment line of r. Lines fn rejects are
// collected and returned; only a read failure aborts the scan.
func Scan(r io.Reader, fn func(line string) error) ([]LineError, error) {
	var skipped []LineError
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if err := fn(line); err != nil {
			skipped = append(skipped, LineError{Line: lineNo, Err: err})
		}
	}
	if err := scanner.Err(); err != nil {
		return skipped, fmt.Errorf("read records: %w", err)
	}
	return skipped, nil
}

func split(line string) []string {
	fields := strings.Split(line, Separator)
	for i := range fields {
		fields[i] = strings.TrimSpace(fields[i])
	}
	return fields
}

func clean(field string) string {
	return strings.TrimSpace(fieldCleaner.Replace(field))
}

func atoi(field, name string) (int, error) {
	n, err := strconv.Atoi(field)
	if err != nil {
		return 0, fmt.Errorf("%w: %s %q is not a number", domain.ErrMalformedRecord, name, field)
	}
	return n, nil
}

// DecodeQuestion parses `id|difficulty|text|A|B|C|D|correctIndex|hint` or the
// categorized form `id|category|difficulty|text|A|B|C|D|correctIndex|hint`.
func DecodeQuestion(line string) (domain.Question, error) {
	fields := split(line)
	if len(fields) < questionFields {
		return domain.Question{}, fmt.Errorf("%w: want %d fields, got %d", domain.ErrMalformedRecord, questionFields, len(fields))
	}

	var q domain.Question
	offset := 0
	if len(fields) >= categorizedFields {
		q.Category = fields[1]
		offset = 1
	}
	q.ID = fields[0]

	difficulty, err := atoi(fields[1+offset], "difficulty")
	if err != nil {
		return domain.Question{}, err
	}
	q.Difficulty = difficulty
	q.Text = fields[2+offset]
	for i := 0; i < domain.OptionCount; i++ {
		q.Options[i] = fields[3+offset+i]
	}
	correct, err := atoi(fields[7+offset], "correct index")
	if err != nil {
		return domain.Question{}, err
	}
	q.CorrectIndex = correct
	q.Hint = fields[8+offset]

	if q.Category == "" {
		q.Category = domain.CategoryName(q.Difficulty)
	}
	if err := q.Validate(); err != nil {
		return domain.Question{}, err
	}
	return q, nil
}

// EncodeQuestion writes the 9-field form when the category matches the lookup
// table and the categorized form otherwise.
func EncodeQuestion(q domain.Question) string {
	fields := []string{clean(q.ID)}
	if q.Category != "" && q.Category != domain.CategoryName(q.Difficulty) {
		fields = append(fields, clean(q.Category))
	}
	fields = append(fields, strconv.Itoa(q.Difficulty), clean(q.Text))
	for _, opt := range q.Options {
		fields = append(fields, clean(opt))
	}
	fields = append(fields, strconv.Itoa(q.CorrectIndex), clean(q.Hint))
	return strings.Join(fields, Separator)
}

// ReadQuestions decodes every question line in r.
func ReadQuestions(r io.Reader) ([]domain.Question, []LineError, error) {
	var questions []domain.Question
	skipped, err := Scan(r, func(line string) error {
		q, err := DecodeQuestion(line)
		if err != nil {
			return err
		}
		questions = append(questions, q)
		return nil
	})
	return questions, skipped, err
}

// WriteQuestions writes one encoded question per line.
func WriteQuestions(w io.Writer, questions []domain.Question) error {
	bw := bufio.NewWriter(w)
	for _, q := range questions {
		if _, err := bw.WriteString(EncodeQuestion(q) + "\n"); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// DecodeEntry parses `playerName|winnings|level|questionsAnswered`.
func DecodeEntry(line string) (domain.LeaderboardEntry, error) {
	fields := split(line)
	if len(fields) != entryFields {
		return domain.LeaderboardEntry{}, fmt.Errorf("%w: want %d fields, got %d", domain.ErrMalformedRecord, entryFields, len(fields))
	}
	if fields[0] == "" {
		return domain.LeaderboardEntry{}, fmt.Errorf("%w: empty player name", domain.ErrMalformedRecord)
	}
	winnings, err := strconv.ParseInt(fields[1], 10, 64)
	if err != nil || winnings < 0 {
		return domain.LeaderboardEntry{}, fmt.Errorf("%w: winnings %q", domain.ErrMalformedRecord, fields[1])
	}
	level, err := atoi(fields[2], "level")
	if err != nil {
		return domain.LeaderboardEntry{}, err
	}
	answered, err := atoi(fields[3], "questions answered")
	if err != nil {
		return domain.LeaderboardEntry{}, err
	}
	return domain.LeaderboardEntry{
		PlayerName:        fields[0],
		Winnings:          winnings,
		Level:             level,
		QuestionsAnswered: answered,
	}, nil
}

// EncodeEntry is the inverse of DecodeEntry.
func EncodeEntry(e domain.LeaderboardEntry) string {
	return strings.Join([]string{
		clean(e.PlayerName),
		strconv.FormatInt(e.Winnings, 10),
		strconv.Itoa(e.Level),
		strconv.Itoa(e.QuestionsAnswered),
	}, Separator)
}

// DecodeProfile parses `name|gender|gamesPlayed|totalWinnings|maxLevel` with the
// optional trailing `totalCorrect|totalAnswered|winRate` fields.
func DecodeProfile(line string) (domain.PlayerProfile, error) {
	fields := split(line)
	if len(fields) < profileFields {
		return domain.PlayerProfile{}, fmt.Errorf("%w: want at least %d fields, got %d", domain.ErrMalformedRecord, profileFields, len(fields))
	}
	if fields[0] == "" {
		return domain.PlayerProfile{}, fmt.Errorf("%w: empty player name", domain.ErrMalformedRecord)
	}
	p := domain.PlayerProfile{Name: fields[0], Gender: fields[1]}

	var err error
	if p.GamesPlayed, err = atoi(fields[2], "games played"); err != nil {
		return domain.PlayerProfile{}, err
	}
	if p.TotalWinnings, err = strconv.ParseInt(fields[3], 10, 64); err != nil {
		return domain.PlayerProfile{}, fmt.Errorf("%w: total winnings %q", domain.ErrMalformedRecord, fields[3])
	}
	if p.MaxLevel, err = atoi(fields[4], "max level"); err != nil {
		return domain.PlayerProfile{}, err
	}
	if len(fields) >= extendedProfileFields {
		if p.TotalCorrect, err = atoi(fields[5], "total correct"); err != nil {
			return domain.PlayerProfile{}, err
		}
		if p.TotalAnswered, err = atoi(fields[6], "total answered"); err != nil {
			return domain.PlayerProfile{}, err
		}
	}
	return p, nil
}

// EncodeProfile writes the extended 8-field form; the win rate is derived.
func EncodeProfile(p domain.PlayerProfile) string {
	return strings.Join([]string{
		clean(p.Name),
		clean(p.Gender),
		strconv.Itoa(p.GamesPlayed),
		strconv.FormatInt(p.TotalWinnings, 10),
		strconv.Itoa(p.MaxLevel),
		strconv.Itoa(p.TotalCorrect),
		strconv.Itoa(p.TotalAnswered),
		strconv.FormatFloat(p.WinRate(), 'f', 1, 64),
	}, Separator)
}
