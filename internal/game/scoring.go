package game

import "time"

// BasePoints scales every correct answer.
const BasePoints = 100

// Difficulty tiers by ladder ordinal: 0-4 easy, 5-9 medium, 10+ hard.
const (
	TierEasy   = 1
	TierMedium = 2
	TierHard   = 3
)

// DefaultTimeLimit applies to tiers outside the table.
const DefaultTimeLimit = 30 * time.Second

func DifficultyTier(level int) int {
	switch {
	case level < 5:
		return TierEasy
	case level < 10:
		return TierMedium
	default:
		return TierHard
	}
}

// TimeLimit is the answer budget for a difficulty tier.
func TimeLimit(tier int) time.Duration {
	switch tier {
	case TierEasy:
		return 45 * time.Second
	case TierMedium:
		return 35 * time.Second
	case TierHard:
		return 25 * time.Second
	default:
		return DefaultTimeLimit
	}
}

// CalculatePoints is BasePoints * (level+1) * (tier/2+1), integer division on the tier.
func CalculatePoints(level, tier int) int {
	return BasePoints * (level + 1) * (tier/2 + 1)
}

// StreakBonus pays (streak-2)*50 once three answers in a row are correct.
func StreakBonus(streak int) int {
	if streak < 3 {
		return 0
	}
	return (streak - 2) * 50
}
