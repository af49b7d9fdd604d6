package services

import (
	"context"
	"strings"
	"time"

	"totocalcio/internal/apperr"
	"totocalcio/internal/events"
	"totocalcio/internal/models"
	"totocalcio/internal/progression"
	"totocalcio/internal/repository"
	"totocalcio/internal/validation"
)

// roundContext loads the active tournament and its current round and checks
// that the tournament is being played.
func roundContext(ctx context.Context, tx *repository.Repository) (*models.Tournament, *models.Round, error) {
	t, err := activeTournament(ctx, tx)
	if err != nil {
		return nil, nil, err
	}
	if err := progression.RequireTournamentState(t, models.TournamentStateInProgress); err != nil {
		return nil, nil, err
	}
	round, err := currentRound(ctx, tx, t)
	if err != nil {
		return nil, nil, err
	}
	return t, round, nil
}

// SetRoundDate sets the date of the current round and opens team entry.
func (s *PoolService) SetRoundDate(ctx context.Context, date time.Time) (*models.Round, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := validation.RoundDate(date, s.today()); err != nil {
		return nil, s.fail("set round date", err)
	}
	y, m, d := date.Date()
	day := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)

	var updated *models.Round
	err := s.execute(ctx, "set round date", func(tx *repository.Repository, out *pending) error {
		t, round, err := roundContext(ctx, tx)
		if err != nil {
			return err
		}
		if err := progression.RequireRoundState(round, models.RoundStateSelectingDate); err != nil {
			return err
		}
		round.Date = &day
		if err := progression.EnterTeams(round); err != nil {
			return err
		}
		if err := tx.UpdateRound(ctx, round); err != nil {
			return err
		}
		out.add(events.RoundUpdated, t.ID, round.RoundNumber, round, "round %d scheduled for %s", round.RoundNumber, day.Format(models.DateLayout))
		out.add(events.RoundStateChanged, t.ID, round.RoundNumber, round.State, "round %d is %s", round.RoundNumber, round.State)
		updated = round
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// AddMatch schedules a fixture in the current round. The round moves to
// prediction entry once it has the configured number of matches.
func (s *PoolService) AddMatch(ctx context.Context, homeTeam, awayTeam string) (*models.Match, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	homeTeam = strings.TrimSpace(homeTeam)
	awayTeam = strings.TrimSpace(awayTeam)

	var match *models.Match
	err := s.execute(ctx, "add match", func(tx *repository.Repository, out *pending) error {
		t, round, err := roundContext(ctx, tx)
		if err != nil {
			return err
		}
		if err := progression.RequireRoundState(round, models.RoundStateEnteringTeams); err != nil {
			return err
		}

		matches, err := tx.ListMatches(ctx, round.ID)
		if err != nil {
			return err
		}
		if len(matches) >= t.NumMatchesPerRound {
			return apperr.Match("round %d already has %d matches", round.RoundNumber, t.NumMatchesPerRound)
		}
		if err := validation.Match(homeTeam, awayTeam, matches); err != nil {
			return err
		}

		m := &models.Match{RoundID: round.ID, HomeTeam: homeTeam, AwayTeam: awayTeam}
		if err := tx.CreateMatch(ctx, m); err != nil {
			return err
		}
		matches = append(matches, *m)
		out.add(events.MatchesChanged, t.ID, round.RoundNumber, m, "%s - %s added (%d/%d)", homeTeam, awayTeam, len(matches), t.NumMatchesPerRound)
		match = m

		if len(matches) < t.NumMatchesPerRound {
			return nil
		}
		if err := progression.EnterPredictions(round, t, matches); err != nil {
			return err
		}
		if err := tx.UpdateRound(ctx, round); err != nil {
			return err
		}
		out.add(events.RoundStateChanged, t.ID, round.RoundNumber, round.State, "round %d is %s", round.RoundNumber, round.State)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return match, nil
}

// RecordPrediction stores a participant's pick for a match of the current
// round, replacing an earlier pick. The round moves to result entry once every
// participant has a pick for every match.
func (s *PoolService) RecordPrediction(ctx context.Context, participantID, matchID uint, symbol string) (*models.Prediction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	value, err := validation.ParsePrediction(symbol)
	if err != nil {
		return nil, s.fail("record prediction", err)
	}

	var prediction *models.Prediction
	err = s.execute(ctx, "record prediction", func(tx *repository.Repository, out *pending) error {
		t, round, err := roundContext(ctx, tx)
		if err != nil {
			return err
		}
		if err := progression.RequireRoundState(round, models.RoundStateEnteringPredictions); err != nil {
			return err
		}
		p, err := tx.GetParticipant(ctx, t.ID, participantID)
		if repository.IsNotFound(err) {
			return apperr.Participant("participant %d not found", participantID)
		}
		if err != nil {
			return err
		}
		m, err := tx.GetMatch(ctx, matchID)
		if repository.IsNotFound(err) || (err == nil && m.RoundID != round.ID) {
			return apperr.Match("match %d is not part of round %d", matchID, round.RoundNumber)
		}
		if err != nil {
			return err
		}

		pred := &models.Prediction{ParticipantID: p.ID, MatchID: m.ID, Value: value}
		if err := tx.SavePrediction(ctx, pred); err != nil {
			return err
		}
		out.add(events.PredictionsChanged, t.ID, round.RoundNumber, pred, "%s picked %s for %s - %s", p.Name, value, m.HomeTeam, m.AwayTeam)
		prediction = pred

		return advanceToResults(ctx, tx, t, round, out)
	})
	if err != nil {
		return nil, err
	}
	return prediction, nil
}

// RecordPredictionSlip stores a participant's picks for the whole current
// round at once. The slip must cover every match of the round exactly.
func (s *PoolService) RecordPredictionSlip(ctx context.Context, participantID uint, picks map[uint]string) ([]models.Prediction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	values := make(map[uint]models.MatchResult, len(picks))
	for matchID, symbol := range picks {
		value, err := validation.ParsePrediction(symbol)
		if err != nil {
			return nil, s.fail("record prediction slip", err)
		}
		values[matchID] = value
	}

	var saved []models.Prediction
	err := s.execute(ctx, "record prediction slip", func(tx *repository.Repository, out *pending) error {
		t, round, err := roundContext(ctx, tx)
		if err != nil {
			return err
		}
		if err := progression.RequireRoundState(round, models.RoundStateEnteringPredictions); err != nil {
			return err
		}
		p, err := tx.GetParticipant(ctx, t.ID, participantID)
		if repository.IsNotFound(err) {
			return apperr.Participant("participant %d not found", participantID)
		}
		if err != nil {
			return err
		}

		matches, err := tx.ListMatches(ctx, round.ID)
		if err != nil {
			return err
		}
		if len(values) != len(matches) {
			return apperr.Prediction("slip has %d picks, round %d has %d matches", len(values), round.RoundNumber, len(matches))
		}
		for _, m := range matches {
			value, ok := values[m.ID]
			if !ok {
				return apperr.Prediction("slip is missing a pick for %s - %s", m.HomeTeam, m.AwayTeam)
			}
			pred := models.Prediction{ParticipantID: p.ID, MatchID: m.ID, Value: value}
			if err := tx.SavePrediction(ctx, &pred); err != nil {
				return err
			}
			saved = append(saved, pred)
		}
		out.add(events.PredictionsChanged, t.ID, round.RoundNumber, saved, "%s submitted %d picks", p.Name, len(saved))

		return advanceToResults(ctx, tx, t, round, out)
	})
	if err != nil {
		return nil, err
	}
	return saved, nil
}

func advanceToResults(ctx context.Context, tx *repository.Repository, t *models.Tournament, round *models.Round, out *pending) error {
	count, err := tx.CountRoundPredictions(ctx, round.ID)
	if err != nil {
		return err
	}
	if count < t.ExpectedPredictions() {
		return nil
	}
	if err := progression.EnterResults(round, t, count); err != nil {
		return err
	}
	if err := tx.UpdateRound(ctx, round); err != nil {
		return err
	}
	out.add(events.RoundStateChanged, t.ID, round.RoundNumber, round.State, "round %d is %s", round.RoundNumber, round.State)
	return nil
}

// RecordResult enters or corrects the official outcome of a match of the
// current round. Once every match has an outcome the round report opens.
func (s *PoolService) RecordResult(ctx context.Context, matchID uint, outcome string) (*models.Match, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	result, err := validation.ParseResult(outcome)
	if err != nil {
		return nil, s.fail("record result", err)
	}

	var match *models.Match
	err = s.execute(ctx, "record result", func(tx *repository.Repository, out *pending) error {
		t, round, err := roundContext(ctx, tx)
		if err != nil {
			return err
		}
		if err := progression.RequireRoundState(round, models.RoundStateEnteringResults, models.RoundStateViewingReport); err != nil {
			return err
		}
		m, err := tx.GetMatch(ctx, matchID)
		if repository.IsNotFound(err) || (err == nil && m.RoundID != round.ID) {
			return apperr.Result("match %d is not part of round %d", matchID, round.RoundNumber)
		}
		if err != nil {
			return err
		}

		m.Result = &result
		if err := tx.UpdateMatch(ctx, m); err != nil {
			return err
		}
		out.add(events.ResultsChanged, t.ID, round.RoundNumber, m, "%s - %s: %s", m.HomeTeam, m.AwayTeam, result)
		match = m

		if round.State == models.RoundStateEnteringResults {
			matches, err := tx.ListMatches(ctx, round.ID)
			if err != nil {
				return err
			}
			if allResultsEntered(matches) {
				if err := progression.ViewReport(round, matches); err != nil {
					return err
				}
				if err := tx.UpdateRound(ctx, round); err != nil {
					return err
				}
				out.add(events.RoundStateChanged, t.ID, round.RoundNumber, round.State, "round %d is %s", round.RoundNumber, round.State)
			}
		}

		standings, err := computeStandings(ctx, tx, t, includeScored)
		if err != nil {
			return err
		}
		out.add(events.StandingsUpdated, t.ID, round.RoundNumber, standings, "standings updated")
		return nil
	})
	if err != nil {
		return nil, err
	}
	return match, nil
}

func allResultsEntered(matches []models.Match) bool {
	for i := range matches {
		if !matches[i].HasResult() {
			return false
		}
	}
	return len(matches) > 0
}
