package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"ladder-quiz/internal/app"
	"ladder-quiz/internal/domain"
)

type countingLoader struct {
	QuestionLoader
	calls int
}

func (l *countingLoader) LoadQuestions(ctx context.Context) ([]domain.Question, error) {
	l.calls++
	return l.QuestionLoader.LoadQuestions(ctx)
}

func sampleQuestions() []domain.Question {
	return []domain.Question{
		{ID: "q1", Difficulty: 1, Text: "What is a stack?", Options: [4]string{"LIFO", "FIFO", "Tree", "Graph"}, CorrectIndex: 0},
		{ID: "q2", Difficulty: 2, Text: "What is a queue?", Options: [4]string{"LIFO", "FIFO", "Tree", "Graph"}, CorrectIndex: 1},
	}
}

func TestQuestionCacheCaches(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	loader := &countingLoader{QuestionLoader: NewStaticQuestionLoader(sampleQuestions())}
	cache := NewQuestionCacheWithClock(loader, time.Minute, func() time.Time { return now })

	qs, err := cache.LoadQuestions(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(qs) != 2 || loader.calls != 1 {
		t.Fatalf("expected 2 questions from one load, got %d/%d", len(qs), loader.calls)
	}

	qs[0].Text = "mutated"
	again, err := cache.LoadQuestions(context.Background())
	if err != nil {
		t.Fatalf("load 2: %v", err)
	}
	if loader.calls != 1 {
		t.Fatalf("expected cache hit, loader calls %d", loader.calls)
	}
	if again[0].Text == "mutated" {
		t.Fatalf("cache handed out shared slice")
	}

	now = now.Add(2 * time.Minute)
	if _, err := cache.LoadQuestions(context.Background()); err != nil {
		t.Fatalf("load 3: %v", err)
	}
	if loader.calls != 2 {
		t.Fatalf("expected reload after expiry, loader calls %d", loader.calls)
	}

	cache.Invalidate()
	if _, err := cache.LoadQuestions(context.Background()); err != nil {
		t.Fatalf("load 4: %v", err)
	}
	if loader.calls != 3 {
		t.Fatalf("expected reload after invalidate, loader calls %d", loader.calls)
	}
}

func TestQuestionCachePropagatesErrors(t *testing.T) {
	cache := NewQuestionCache(NewStaticQuestionLoader(nil), time.Minute)
	if _, err := cache.LoadQuestions(context.Background()); !errors.Is(err, domain.ErrNoQuestionsLoaded) {
		t.Fatalf("expected ErrNoQuestionsLoaded, got %v", err)
	}
}

func TestStoresRoundTrip(t *testing.T) {
	ctx := context.Background()
	lb := NewLeaderboardStore()
	entries := []domain.LeaderboardEntry{{PlayerName: "a", Winnings: 100, Level: 1, QuestionsAnswered: 2}}
	if err := lb.Save(ctx, entries); err != nil {
		t.Fatalf("save: %v", err)
	}
	entries[0].PlayerName = "changed"
	loaded, _ := lb.Load(ctx)
	if len(loaded) != 1 || loaded[0].PlayerName != "a" {
		t.Fatalf("unexpected entries %+v", loaded)
	}

	ps := NewProfileStore(domain.PlayerProfile{Name: "seed"})
	profiles, _ := ps.Load(ctx)
	if len(profiles) != 1 || profiles[0].Name != "seed" {
		t.Fatalf("unexpected profiles %+v", profiles)
	}
}

func TestGameStoreLifecycle(t *testing.T) {
	store := NewGameStore()
	game := app.NewGameController(nil, nil, nil, app.Options{})

	store.Register(context.Background(), "g1", game)
	if got, ok := store.Get("g1"); !ok || got != game {
		t.Fatalf("expected game registered")
	}
	if store.Count() != 1 {
		t.Fatalf("Count() = %d", store.Count())
	}

	store.Remove(context.Background(), "g1")
	if _, ok := store.Get("g1"); ok || store.Count() != 0 {
		t.Fatalf("expected game removed")
	}
}
