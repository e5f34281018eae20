package app

import (
	"context"
	"fmt"
	"math/rand"

	"ladder-quiz/internal/domain"
	"ladder-quiz/internal/game"
)

// QuestionSource loads the raw question set (file, database, workbook, cache).
type QuestionSource interface {
	LoadQuestions(ctx context.Context) ([]domain.Question, error)
}

// LoadBank fills a fresh bank from src. Zero usable questions is an error.
func LoadBank(ctx context.Context, src QuestionSource, rng *rand.Rand) (*game.Bank, error) {
	questions, err := src.LoadQuestions(ctx)
	if err != nil {
		return nil, fmt.Errorf("load question source: %w", err)
	}
	bank := game.NewBank(rng)
	if _, err := bank.LoadQuestions(questions); err != nil {
		return nil, err
	}
	return bank, nil
}
