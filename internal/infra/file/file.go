// Package file persists game data as pipe-delimited text files.
package file

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"ladder-quiz/internal/domain"
	"ladder-quiz/internal/record"
	"ladder-quiz/pkg/logger"
)

// readLines opens path and hands every record line to decode. A missing file
// reads as empty; bad lines are logged and skipped.
func readLines(path string, decode func(line string) error) error {
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	skipped, err := record.Scan(f, decode)
	for _, le := range skipped {
		logger.Warn("skipping malformed record", "file", path, "line", le.Line, "error", le.Err.Error())
	}
	return err
}

// writeLines replaces path atomically with one line per encoded item.
func writeLines(path string, n int, encode func(i int) string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create %s: %w", dir, err)
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp for %s: %w", path, err)
	}
	defer os.Remove(tmp.Name())

	w := bufio.NewWriter(tmp)
	for i := 0; i < n; i++ {
		if _, err := io.WriteString(w, encode(i)+"\n"); err != nil {
			tmp.Close()
			return fmt.Errorf("write %s: %w", path, err)
		}
	}
	if err := w.Flush(); err != nil {
		tmp.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("replace %s: %w", path, err)
	}
	return nil
}

// LeaderboardStore keeps one `name|winnings|level|answered` line per entry.
type LeaderboardStore struct {
	path string
}

func NewLeaderboardStore(path string) *LeaderboardStore {
	return &LeaderboardStore{path: path}
}

func (s *LeaderboardStore) Load(context.Context) ([]domain.LeaderboardEntry, error) {
	var entries []domain.LeaderboardEntry
	err := readLines(s.path, func(line string) error {
		e, err := record.DecodeEntry(line)
		if err != nil {
			return err
		}
		entries = append(entries, e)
		return nil
	})
	return entries, err
}

func (s *LeaderboardStore) Save(_ context.Context, entries []domain.LeaderboardEntry) error {
	return writeLines(s.path, len(entries), func(i int) string { return record.EncodeEntry(entries[i]) })
}

// ProfileStore keeps one profile line per player.
type ProfileStore struct {
	path string
}

func NewProfileStore(path string) *ProfileStore {
	return &ProfileStore{path: path}
}

func (s *ProfileStore) Load(context.Context) ([]domain.PlayerProfile, error) {
	var profiles []domain.PlayerProfile
	err := readLines(s.path, func(line string) error {
		p, err := record.DecodeProfile(line)
		if err != nil {
			return err
		}
		profiles = append(profiles, p)
		return nil
	})
	return profiles, err
}

func (s *ProfileStore) Save(_ context.Context, profiles []domain.PlayerProfile) error {
	return writeLines(s.path, len(profiles), func(i int) string { return record.EncodeProfile(profiles[i]) })
}

// QuestionLoader reads the pipe-delimited question bank. Unlike the stores a
// missing bank is an error.
type QuestionLoader struct {
	path string
}

func NewQuestionLoader(path string) *QuestionLoader {
	return &QuestionLoader{path: path}
}

func (l *QuestionLoader) LoadQuestions(context.Context) ([]domain.Question, error) {
	f, err := os.Open(l.path)
	if err != nil {
		return nil, fmt.Errorf("open question bank: %w", err)
	}
	defer f.Close()

	questions, skipped, err := record.ReadQuestions(f)
	for _, le := range skipped {
		logger.Warn("skipping question record", "file", l.path, "line", le.Line, "error", le.Err.Error())
	}
	if err != nil {
		return nil, err
	}
	if len(questions) == 0 {
		return nil, domain.ErrNoQuestionsLoaded
	}
	return questions, nil
}

// WriteQuestions stores questions in the bank format, replacing path.
func WriteQuestions(path string, questions []domain.Question) error {
	return writeLines(path, len(questions), func(i int) string { return record.EncodeQuestion(questions[i]) })
}
