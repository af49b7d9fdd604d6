package scoring

import (
	"sort"

	"totocalcio/internal/models"
)

// RoundScores counts, for every participant, the predictions that match a
// decisive result. Matches without a result or with an administrative outcome
// never score. Every participant in ids gets an entry, even with zero.
func RoundScores(ids []uint, matches []models.Match, predictions []models.Prediction) map[uint]int {
	results := make(map[uint]models.MatchResult, len(matches))
	for _, m := range matches {
		if m.Result != nil && m.Result.IsDecisive() {
			results[m.ID] = *m.Result
		}
	}

	scores := make(map[uint]int, len(ids))
	for _, id := range ids {
		scores[id] = 0
	}
	for _, p := range predictions {
		result, ok := results[p.MatchID]
		if !ok {
			continue
		}
		if _, known := scores[p.ParticipantID]; !known {
			continue
		}
		if p.Value == result {
			scores[p.ParticipantID]++
		}
	}
	return scores
}

// Cumulative sums per-round score maps.
func Cumulative(rounds ...map[uint]int) map[uint]int {
	totals := make(map[uint]int)
	for _, round := range rounds {
		for id, score := range round {
			totals[id] += score
		}
	}
	return totals
}

// MaxScore returns the best score in scores; ok is false when scores is empty.
func MaxScore(scores map[uint]int) (best int, ok bool) {
	for _, score := range scores {
		if !ok || score > best {
			best = score
			ok = true
		}
	}
	return best, ok
}

// TopScorers returns the ids reaching score, in ascending id order.
func TopScorers(scores map[uint]int, score int) []uint {
	var ids []uint
	for id, s := range scores {
		if s == score {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Standings ranks participants by total descending. Equal totals keep
// ascending participant id order. names may be nil.
func Standings(totals map[uint]int, names map[uint]string) []models.StandingEntry {
	ids := make([]uint, 0, len(totals))
	for id := range totals {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	sort.SliceStable(ids, func(i, j int) bool { return totals[ids[i]] > totals[ids[j]] })

	standings := make([]models.StandingEntry, len(ids))
	for i, id := range ids {
		standings[i] = models.StandingEntry{
			Position:      i + 1,
			ParticipantID: id,
			Name:          names[id],
			Score:         totals[id],
		}
	}
	return standings
}

// LongestStreak is the longest run of consecutive rounds with at least one
// correct prediction.
func LongestStreak(series []models.PerformanceEntry) int {
	longest, current := 0, 0
	for _, entry := range series {
		if entry.Score > 0 {
			current++
			if current > longest {
				longest = current
			}
			continue
		}
		current = 0
	}
	return longest
}

// SymbolCounts groups correct predictions by symbol, most frequent first.
// Symbols with no correct prediction are omitted.
func SymbolCounts(matches []models.Match, predictions []models.Prediction) []models.SymbolCount {
	results := make(map[uint]models.MatchResult, len(matches))
	for _, m := range matches {
		if m.Result != nil && m.Result.IsDecisive() {
			results[m.ID] = *m.Result
		}
	}

	counts := make(map[models.MatchResult]int)
	for _, p := range predictions {
		if result, ok := results[p.MatchID]; ok && p.Value == result {
			counts[p.Value]++
		}
	}

	var out []models.SymbolCount
	for _, symbol := range models.DecisiveResults {
		if counts[symbol] > 0 {
			out = append(out, models.SymbolCount{Symbol: symbol, Count: counts[symbol]})
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	return out
}
