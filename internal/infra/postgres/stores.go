package postgres

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"

	"ladder-quiz/internal/domain"
)

type leaderboardRow struct {
	bun.BaseModel `bun:"table:leaderboard_entries"`

	Rank              int    `bun:"rank,pk"`
	PlayerName        string `bun:"player_name,notnull"`
	Winnings          int64  `bun:"winnings,notnull"`
	Level             int    `bun:"level,notnull"`
	QuestionsAnswered int    `bun:"questions_answered,notnull"`
}

type profileRow struct {
	bun.BaseModel `bun:"table:player_profiles"`

	Name          string `bun:"name,pk"`
	Gender        string `bun:"gender,notnull"`
	GamesPlayed   int    `bun:"games_played,notnull"`
	TotalWinnings int64  `bun:"total_winnings,notnull"`
	MaxLevel      int    `bun:"max_level,notnull"`
	TotalCorrect  int    `bun:"total_correct,notnull"`
	TotalAnswered int    `bun:"total_answered,notnull"`
}

func toLeaderboardRows(entries []domain.LeaderboardEntry) []leaderboardRow {
	rows := make([]leaderboardRow, len(entries))
	for i, e := range entries {
		rows[i] = leaderboardRow{
			Rank:              i + 1,
			PlayerName:        e.PlayerName,
			Winnings:          e.Winnings,
			Level:             e.Level,
			QuestionsAnswered: e.QuestionsAnswered,
		}
	}
	return rows
}

func (r leaderboardRow) entry() domain.LeaderboardEntry {
	return domain.LeaderboardEntry{
		PlayerName:        r.PlayerName,
		Winnings:          r.Winnings,
		Level:             r.Level,
		QuestionsAnswered: r.QuestionsAnswered,
	}
}

func toProfileRow(p domain.PlayerProfile) profileRow {
	return profileRow{
		Name:          p.Name,
		Gender:        p.Gender,
		GamesPlayed:   p.GamesPlayed,
		TotalWinnings: p.TotalWinnings,
		MaxLevel:      p.MaxLevel,
		TotalCorrect:  p.TotalCorrect,
		TotalAnswered: p.TotalAnswered,
	}
}

func (r profileRow) profile() domain.PlayerProfile {
	return domain.PlayerProfile{
		Name:          r.Name,
		Gender:        r.Gender,
		GamesPlayed:   r.GamesPlayed,
		TotalWinnings: r.TotalWinnings,
		MaxLevel:      r.MaxLevel,
		TotalCorrect:  r.TotalCorrect,
		TotalAnswered: r.TotalAnswered,
	}
}

// LeaderboardStore keeps the ranked list in leaderboard_entries; rank preserves order.
type LeaderboardStore struct {
	db *bun.DB
}

func NewLeaderboardStore(db *bun.DB) *LeaderboardStore {
	return &LeaderboardStore{db: db}
}

func (s *LeaderboardStore) Load(ctx context.Context) ([]domain.LeaderboardEntry, error) {
	var rows []leaderboardRow
	if err := s.db.NewSelect().Model(&rows).Order("rank ASC").Scan(ctx); err != nil {
		return nil, fmt.Errorf("load leaderboard: %w", err)
	}
	entries := make([]domain.LeaderboardEntry, len(rows))
	for i, r := range rows {
		entries[i] = r.entry()
	}
	return entries, nil
}

// Save replaces the table contents in one transaction.
func (s *LeaderboardStore) Save(ctx context.Context, entries []domain.LeaderboardEntry) error {
	rows := toLeaderboardRows(entries)
	err := s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewDelete().Model((*leaderboardRow)(nil)).Where("1 = 1").Exec(ctx); err != nil {
			return err
		}
		if len(rows) == 0 {
			return nil
		}
		_, err := tx.NewInsert().Model(&rows).Exec(ctx)
		return err
	})
	if err != nil {
		return fmt.Errorf("save leaderboard: %w", err)
	}
	return nil
}

// ProfileStore keeps one player_profiles row per player.
type ProfileStore struct {
	db *bun.DB
}

func NewProfileStore(db *bun.DB) *ProfileStore {
	return &ProfileStore{db: db}
}

func (s *ProfileStore) Load(ctx context.Context) ([]domain.PlayerProfile, error) {
	var rows []profileRow
	if err := s.db.NewSelect().Model(&rows).Order("name ASC").Scan(ctx); err != nil {
		return nil, fmt.Errorf("load profiles: %w", err)
	}
	profiles := make([]domain.PlayerProfile, len(rows))
	for i, r := range rows {
		profiles[i] = r.profile()
	}
	return profiles, nil
}

// Save upserts every profile. Profiles are never deleted.
func (s *ProfileStore) Save(ctx context.Context, profiles []domain.PlayerProfile) error {
	if len(profiles) == 0 {
		return nil
	}
	rows := make([]profileRow, len(profiles))
	for i, p := range profiles {
		rows[i] = toProfileRow(p)
	}
	_, err := s.db.NewInsert().
		Model(&rows).
		On("CONFLICT (name) DO UPDATE").
		Set("gender = EXCLUDED.gender").
		Set("games_played = EXCLUDED.games_played").
		Set("total_winnings = EXCLUDED.total_winnings").
		Set("max_level = EXCLUDED.max_level").
		Set("total_correct = EXCLUDED.total_correct").
		Set("total_answered = EXCLUDED.total_answered").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("save profiles: %w", err)
	}
	return nil
}
