package redis

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"ladder-quiz/internal/app"
	"ladder-quiz/internal/domain"
	"ladder-quiz/internal/infra/memory"
)

const testPrefix = "quiz:"

func newClient(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	t.Cleanup(mr.Close)
	return mr, redis.NewClient(&redis.Options{Addr: mr.Addr()})
}

type countingLoader struct {
	memory.QuestionLoader
	calls int
}

func (l *countingLoader) LoadQuestions(ctx context.Context) ([]domain.Question, error) {
	l.calls++
	return l.QuestionLoader.LoadQuestions(ctx)
}

func sampleQuestions() []domain.Question {
	return []domain.Question{
		{ID: "q1", Category: domain.CategoryName(2), Difficulty: 2, Text: "Which is LIFO?",
			Options: [4]string{"Stack", "Queue", "Heap", "Tree"}, CorrectIndex: 0, Hint: "plates"},
		{ID: "q2", Category: "Trivia", Difficulty: 1, Text: "Which is FIFO?",
			Options: [4]string{"Stack", "Queue", "Heap", "Tree"}, CorrectIndex: 1, Hint: "lines"},
	}
}

func TestQuestionCacheCachesInRedis(t *testing.T) {
	mr, client := newClient(t)
	loader := &countingLoader{QuestionLoader: memory.NewStaticQuestionLoader(sampleQuestions())}
	cache := NewQuestionCache(client, loader, time.Minute, testPrefix)

	if _, err := cache.LoadQuestions(context.Background()); err != nil {
		t.Fatalf("load: %v", err)
	}
	if loader.calls != 1 {
		t.Fatalf("expected loader called once, got %d", loader.calls)
	}
	if !mr.Exists("quiz:questions") {
		t.Fatalf("expected questions key to be set")
	}
	if ttl := mr.TTL("quiz:questions"); ttl < time.Minute || ttl > 66*time.Second {
		t.Fatalf("unexpected ttl %v", ttl)
	}

	// Second call should hit cache, loader not incremented.
	cached, err := cache.LoadQuestions(context.Background())
	if err != nil {
		t.Fatalf("load 2: %v", err)
	}
	if loader.calls != 1 {
		t.Fatalf("expected cache hit, loader calls=%d", loader.calls)
	}
	want := sampleQuestions()
	if len(cached) != 2 || cached[0] != want[0] || cached[1] != want[1] {
		t.Fatalf("cached questions differ:\n got %+v\nwant %+v", cached, want)
	}

	if err := cache.Invalidate(context.Background()); err != nil {
		t.Fatalf("invalidate: %v", err)
	}
	if _, err := cache.LoadQuestions(context.Background()); err != nil {
		t.Fatalf("load 3: %v", err)
	}
	if loader.calls != 2 {
		t.Fatalf("expected reload after invalidate, calls=%d", loader.calls)
	}
}

func TestLeaderboardStoreRoundTrip(t *testing.T) {
	_, client := newClient(t)
	store := NewLeaderboardStore(client, testPrefix)
	ctx := context.Background()

	entries := []domain.LeaderboardEntry{
		{PlayerName: "Alice", Winnings: 32000, Level: 10, QuestionsAnswered: 11},
		{PlayerName: "Bob", Winnings: 100, Level: 1, QuestionsAnswered: 2},
	}
	if err := store.Save(ctx, entries); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := store.Save(ctx, entries[:1]); err != nil {
		t.Fatalf("save again: %v", err)
	}
	loaded, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(loaded) != 1 || loaded[0] != entries[0] {
		t.Fatalf("save should replace the list, got %+v", loaded)
	}
}

func TestProfileStoreRoundTrip(t *testing.T) {
	mr, client := newClient(t)
	store := NewProfileStore(client, testPrefix)
	ctx := context.Background()

	profiles := []domain.PlayerProfile{
		{Name: "Alice", Gender: "female", GamesPlayed: 2, TotalWinnings: 1500, MaxLevel: 7, TotalCorrect: 9, TotalAnswered: 10},
	}
	if err := store.Save(ctx, profiles); err != nil {
		t.Fatalf("save: %v", err)
	}
	if got := mr.HGet("quiz:profiles", "Alice"); got != "Alice|female|2|1500|7|9|10|90.0" {
		t.Fatalf("unexpected hash value %q", got)
	}
	mr.HSet("quiz:profiles", "Broken", "Broken|x")

	loaded, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(loaded) != 1 || loaded[0] != profiles[0] {
		t.Fatalf("unexpected profiles %+v", loaded)
	}
}

func TestGameStoreSetsAndClearsKeys(t *testing.T) {
	mr, client := newClient(t)
	store := NewGameStore(client, time.Minute, testPrefix)
	ctx := context.Background()

	store.Register(ctx, "g1", app.NewGameController(nil, nil, nil, app.Options{}))
	if !mr.Exists("quiz:game:g1") {
		t.Fatalf("expected redis key to be set")
	}
	if n, err := store.LiveGames(ctx); err != nil || n != 1 {
		t.Fatalf("LiveGames() = %d, %v", n, err)
	}
	if store.Count() != 1 {
		t.Fatalf("Count() = %d", store.Count())
	}

	store.Remove(ctx, "g1")
	if mr.Exists("quiz:game:g1") {
		t.Fatalf("expected redis key to be removed")
	}
	if _, ok := store.Get("g1"); ok {
		t.Fatalf("expected game removed locally")
	}
}
