package redis

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"ladder-quiz/internal/domain"
	"ladder-quiz/internal/record"
	"ladder-quiz/pkg/logger"
)

// LeaderboardStore keeps the ranked list as a Redis list of entry lines.
type LeaderboardStore struct {
	client *redis.Client
	key    string
}

func NewLeaderboardStore(client *redis.Client, prefix string) *LeaderboardStore {
	return &LeaderboardStore{client: client, key: prefix + "leaderboard"}
}

func (s *LeaderboardStore) Load(ctx context.Context) ([]domain.LeaderboardEntry, error) {
	lines, err := s.client.LRange(ctx, s.key, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("load leaderboard: %w", err)
	}
	entries := make([]domain.LeaderboardEntry, 0, len(lines))
	for i, line := range lines {
		e, err := record.DecodeEntry(line)
		if err != nil {
			logger.Warn("skipping leaderboard entry", "key", s.key, "index", i, "error", err.Error())
			continue
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// Save replaces the list in one transaction.
func (s *LeaderboardStore) Save(ctx context.Context, entries []domain.LeaderboardEntry) error {
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, s.key)
		if len(entries) == 0 {
			return nil
		}
		lines := make([]interface{}, len(entries))
		for i, e := range entries {
			lines[i] = record.EncodeEntry(e)
		}
		pipe.RPush(ctx, s.key, lines...)
		return nil
	})
	if err != nil {
		return fmt.Errorf("save leaderboard: %w", err)
	}
	return nil
}

// ProfileStore keeps profiles in a hash: HSET {prefix}profiles {name} {line}.
type ProfileStore struct {
	client *redis.Client
	key    string
}

func NewProfileStore(client *redis.Client, prefix string) *ProfileStore {
	return &ProfileStore{client: client, key: prefix + "profiles"}
}

func (s *ProfileStore) Load(ctx context.Context) ([]domain.PlayerProfile, error) {
	fields, err := s.client.HGetAll(ctx, s.key).Result()
	if err != nil {
		return nil, fmt.Errorf("load profiles: %w", err)
	}
	profiles := make([]domain.PlayerProfile, 0, len(fields))
	for name, line := range fields {
		p, err := record.DecodeProfile(line)
		if err != nil {
			logger.Warn("skipping profile", "key", s.key, "player", name, "error", err.Error())
			continue
		}
		profiles = append(profiles, p)
	}
	return profiles, nil
}

func (s *ProfileStore) Save(ctx context.Context, profiles []domain.PlayerProfile) error {
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, s.key)
		if len(profiles) == 0 {
			return nil
		}
		values := make([]interface{}, 0, 2*len(profiles))
		for _, p := range profiles {
			values = append(values, p.Name, record.EncodeProfile(p))
		}
		pipe.HSet(ctx, s.key, values...)
		return nil
	})
	if err != nil {
		return fmt.Errorf("save profiles: %w", err)
	}
	return nil
}
