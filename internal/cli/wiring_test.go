package cli

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/xuri/excelize/v2"

	"ladder-quiz/internal/config"
	"ladder-quiz/internal/domain"
	"ladder-quiz/internal/infra/file"
	"ladder-quiz/internal/infra/memory"
	redisstore "ladder-quiz/internal/infra/redis"
)

func writeBank(t *testing.T, dir string, n int) string {
	t.Helper()
	qs := make([]domain.Question, n)
	for i := range qs {
		qs[i] = domain.Question{
			ID:           fmt.Sprintf("Q%d", i+1),
			Difficulty:   i % 6,
			Text:         fmt.Sprintf("Question %d?", i+1),
			Options:      [4]string{"a", "b", "c", "d"},
			CorrectIndex: i % 4,
			Hint:         "hint",
		}
	}
	path := filepath.Join(dir, "questions.txt")
	if err := file.WriteQuestions(path, qs); err != nil {
		t.Fatalf("write bank: %v", err)
	}
	return path
}

func fileConfig(t *testing.T) config.Config {
	t.Helper()
	dir := t.TempDir()
	cfg := config.Default()
	cfg.Storage.LeaderboardPath = filepath.Join(dir, "leaderboard.txt")
	cfg.Storage.ProfilesPath = filepath.Join(dir, "profiles.txt")
	cfg.Questions.Path = writeBank(t, dir, 8)
	cfg.Game.Seed = 9
	return cfg
}

func TestBuildDepsFileBackend(t *testing.T) {
	ctx := context.Background()
	d, err := buildDeps(ctx, fileConfig(t), true)
	if err != nil {
		t.Fatalf("buildDeps() error = %v", err)
	}
	defer d.Close()

	if _, ok := d.registry.(*memory.GameStore); !ok {
		t.Fatalf("registry %T, want in-process store", d.registry)
	}
	if _, ok := d.source.(*memory.QuestionCache); !ok {
		t.Fatalf("source %T, want in-process cache", d.source)
	}
	if d.tokens != nil {
		t.Fatalf("tokens enabled without a secret")
	}

	g, err := d.newGame(ctx)
	if err != nil {
		t.Fatalf("newGame() error = %v", err)
	}
	if err := g.StartGame(); err != nil {
		t.Fatalf("StartGame() error = %v", err)
	}
	if err := g.SubmitPlayerSetup(ctx, "Ada", "f"); err != nil {
		t.Fatalf("setup: %v", err)
	}
	if err := g.Quit(ctx); err != nil {
		t.Fatalf("quit: %v", err)
	}
	if _, err := os.Stat(d.cfg.Storage.LeaderboardPath); err != nil {
		t.Fatalf("leaderboard file not written: %v", err)
	}
}

func TestBuildDepsRedisBackend(t *testing.T) {
	mr := miniredis.RunT(t)
	cfg := fileConfig(t)
	cfg.Storage.Backend = config.BackendRedis
	cfg.Redis.Addr = mr.Addr()
	cfg.Token.Secret = strings.Repeat("s", 32)

	d, err := buildDeps(context.Background(), cfg, true)
	if err != nil {
		t.Fatalf("buildDeps() error = %v", err)
	}
	defer d.Close()

	if _, ok := d.registry.(*redisstore.GameStore); !ok {
		t.Fatalf("registry %T, want redis store", d.registry)
	}
	if _, ok := d.source.(*redisstore.QuestionCache); !ok {
		t.Fatalf("source %T, want redis cache", d.source)
	}
	if d.tokens == nil {
		t.Fatalf("tokens not built from secret")
	}
	if !mr.Exists("quiz:questions") {
		t.Fatalf("question cache not populated, keys %v", mr.Keys())
	}
}

func TestBuildDepsRejectsMissingBank(t *testing.T) {
	cfg := fileConfig(t)
	cfg.Questions.Path = filepath.Join(t.TempDir(), "absent.txt")
	if _, err := buildDeps(context.Background(), cfg, true); err == nil {
		t.Fatal("buildDeps() expected error for a missing question bank")
	}
}

func TestRunImportWritesBank(t *testing.T) {
	dir := t.TempDir()
	f := excelize.NewFile()
	rows := [][]interface{}{
		{"ID", "Difficulty", "Question", "A", "B", "C", "D", "Correct", "Hint"},
		{"G1", 4, "Edges in a tree with n nodes?", "n", "n-1", "n+1", "2n", "B", "count"},
		{"G2", 4, "Broken row", "a", "b", "c", "d", "Z", ""},
	}
	for i, row := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		r := row
		if err := f.SetSheetRow("Sheet1", cell, &r); err != nil {
			t.Fatalf("set row: %v", err)
		}
	}
	workbook := filepath.Join(dir, "bank.xlsx")
	if err := f.SaveAs(workbook); err != nil {
		t.Fatalf("save workbook: %v", err)
	}

	out := filepath.Join(dir, "out.txt")
	var buf bytes.Buffer
	if err := runImport(context.Background(), &buf, filepath.Join(dir, "none.yaml"), workbook, out, false); err != nil {
		t.Fatalf("runImport() error = %v", err)
	}
	if !strings.Contains(buf.String(), "wrote 1 questions") || !strings.Contains(buf.String(), "1 rows skipped") {
		t.Fatalf("unexpected output %q", buf.String())
	}

	qs, err := file.NewQuestionLoader(out).LoadQuestions(context.Background())
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if len(qs) != 1 || qs[0].ID != "G1" || qs[0].CorrectOption() != "n-1" {
		t.Fatalf("imported %+v", qs)
	}
}
