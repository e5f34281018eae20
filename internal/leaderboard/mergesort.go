package leaderboard

import "ladder-quiz/internal/domain"

// MergeSort returns a stably sorted copy of items. On equal keys the element
// that came first in the input stays first.
func MergeSort[T any](items []T, less func(a, b T) bool) []T {
	out := make([]T, len(items))
	copy(out, items)
	if len(out) < 2 {
		return out
	}
	buf := make([]T, len(out))
	mergeSort(out, buf, less)
	return out
}

func mergeSort[T any](items, buf []T, less func(a, b T) bool) {
	if len(items) < 2 {
		return
	}
	mid := len(items) / 2
	mergeSort(items[:mid], buf[:mid], less)
	mergeSort(items[mid:], buf[mid:], less)

	copy(buf, items)
	left, right := buf[:mid], buf[mid:]
	i, j, k := 0, 0, 0
	for i < len(left) && j < len(right) {
		if less(right[j], left[i]) {
			items[k] = right[j]
			j++
		} else {
			items[k] = left[i]
			i++
		}
		k++
	}
	k += copy(items[k:], left[i:])
	copy(items[k:], right[j:])
}

// Ranks orders entries by winnings descending, then level descending.
func Ranks(a, b domain.LeaderboardEntry) bool {
	if a.Winnings != b.Winnings {
		return a.Winnings > b.Winnings
	}
	return a.Level > b.Level
}
