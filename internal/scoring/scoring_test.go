package scoring

import (
	"testing"

	"totocalcio/internal/models"
)

func result(r models.MatchResult) *models.MatchResult {
	return &r
}

func TestRoundScoresIgnoresAdministrativeResults(t *testing.T) {
	matches := []models.Match{
		{ID: 1, Result: result(models.MatchResultHomeWin)},
		{ID: 2, Result: result(models.MatchResultDraw)},
		{ID: 3, Result: result(models.MatchResultPostponed)},
		{ID: 4},
	}
	predictions := []models.Prediction{
		{ParticipantID: 10, MatchID: 1, Value: models.MatchResultHomeWin},
		{ParticipantID: 10, MatchID: 2, Value: models.MatchResultDraw},
		{ParticipantID: 10, MatchID: 3, Value: models.MatchResultHomeWin},
		{ParticipantID: 10, MatchID: 4, Value: models.MatchResultHomeWin},
		{ParticipantID: 11, MatchID: 1, Value: models.MatchResultAwayWin},
		{ParticipantID: 11, MatchID: 2, Value: models.MatchResultDraw},
		{ParticipantID: 99, MatchID: 1, Value: models.MatchResultHomeWin},
	}

	scores := RoundScores([]uint{10, 11, 12}, matches, predictions)

	want := map[uint]int{10: 2, 11: 1, 12: 0}
	if len(scores) != len(want) {
		t.Fatalf("expected %d entries, got %v", len(want), scores)
	}
	for id, score := range want {
		if scores[id] != score {
			t.Errorf("participant %d: expected %d, got %d", id, score, scores[id])
		}
	}
}

func TestCumulativeAndStandings(t *testing.T) {
	round1 := map[uint]int{1: 5, 2: 7, 3: 6}
	round2 := map[uint]int{1: 8, 2: 4, 3: 6}

	totals := Cumulative(round1, round2)
	if totals[1] != 13 || totals[2] != 11 || totals[3] != 12 {
		t.Fatalf("unexpected totals %v", totals)
	}

	standings := Standings(totals, map[uint]string{1: "Anna", 2: "Bruno", 3: "Carla"})
	order := []uint{1, 3, 2}
	for i, id := range order {
		if standings[i].ParticipantID != id {
			t.Errorf("position %d: expected participant %d, got %d", i+1, id, standings[i].ParticipantID)
		}
		if standings[i].Position != i+1 {
			t.Errorf("expected position %d, got %d", i+1, standings[i].Position)
		}
	}
	if standings[0].Name != "Anna" {
		t.Errorf("expected name Anna, got %q", standings[0].Name)
	}
}

func TestStandingsTieBreakByParticipantID(t *testing.T) {
	totals := map[uint]int{7: 10, 3: 10, 5: 12, 1: 10}
	standings := Standings(totals, nil)

	order := []uint{5, 1, 3, 7}
	for i, id := range order {
		if standings[i].ParticipantID != id {
			t.Fatalf("position %d: expected %d, got %d", i+1, id, standings[i].ParticipantID)
		}
	}
}

func TestMaxScoreAndTopScorers(t *testing.T) {
	if _, ok := MaxScore(map[uint]int{}); ok {
		t.Error("expected no max score for empty map")
	}

	scores := map[uint]int{1: 9, 2: 9, 3: 7}
	best, ok := MaxScore(scores)
	if !ok || best != 9 {
		t.Fatalf("expected max 9, got %d (ok=%v)", best, ok)
	}
	top := TopScorers(scores, best)
	if len(top) != 2 || top[0] != 1 || top[1] != 2 {
		t.Errorf("expected top scorers [1 2], got %v", top)
	}
}

func TestLongestStreak(t *testing.T) {
	series := []models.PerformanceEntry{
		{RoundNumber: 1, Score: 3},
		{RoundNumber: 2, Score: 0},
		{RoundNumber: 3, Score: 1},
		{RoundNumber: 4, Score: 5},
		{RoundNumber: 5, Score: 2},
		{RoundNumber: 6, Score: 0},
	}
	if got := LongestStreak(series); got != 3 {
		t.Errorf("expected streak 3, got %d", got)
	}
	if got := LongestStreak(nil); got != 0 {
		t.Errorf("expected streak 0, got %d", got)
	}
}

func TestSymbolCounts(t *testing.T) {
	matches := []models.Match{
		{ID: 1, Result: result(models.MatchResultDraw)},
		{ID: 2, Result: result(models.MatchResultHomeWin)},
		{ID: 3, Result: result(models.MatchResultDraw)},
		{ID: 4, Result: result(models.MatchResultCancelled)},
	}
	predictions := []models.Prediction{
		{ParticipantID: 1, MatchID: 1, Value: models.MatchResultDraw},
		{ParticipantID: 2, MatchID: 1, Value: models.MatchResultDraw},
		{ParticipantID: 1, MatchID: 3, Value: models.MatchResultDraw},
		{ParticipantID: 1, MatchID: 2, Value: models.MatchResultHomeWin},
		{ParticipantID: 2, MatchID: 2, Value: models.MatchResultAwayWin},
		{ParticipantID: 1, MatchID: 4, Value: models.MatchResultHomeWin},
	}

	counts := SymbolCounts(matches, predictions)
	if len(counts) != 2 {
		t.Fatalf("expected 2 symbols, got %v", counts)
	}
	if counts[0].Symbol != models.MatchResultDraw || counts[0].Count != 3 {
		t.Errorf("expected X=3 first, got %+v", counts[0])
	}
	if counts[1].Symbol != models.MatchResultHomeWin || counts[1].Count != 1 {
		t.Errorf("expected 1=1 second, got %+v", counts[1])
	}
}
