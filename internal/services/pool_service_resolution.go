package services

import (
	"context"

	"github.com/shopspring/decimal"

	"totocalcio/internal/apperr"
	"totocalcio/internal/budget"
	"totocalcio/internal/events"
	"totocalcio/internal/models"
	"totocalcio/internal/progression"
	"totocalcio/internal/repository"
)

// ConcludeRound resolves the weekly prize of the current round and closes it.
// Without a winner the round budget rolls over to the next round; on the last
// round it is reported as unclaimed instead. The next round is created, or the
// last round moves to the final report.
func (s *PoolService) ConcludeRound(ctx context.Context) (*models.RoundOutcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var outcome *models.RoundOutcome
	err := s.execute(ctx, "conclude round", func(tx *repository.Repository, out *pending) error {
		t, round, err := roundContext(ctx, tx)
		if err != nil {
			return err
		}
		if err := progression.ConcludeRound(round); err != nil {
			return err
		}

		participants, err := tx.ListParticipants(ctx, t.ID)
		if err != nil {
			return err
		}
		names := participantNames(participants)
		scores, err := scoreRound(ctx, tx, round.ID, participantIDs(participants))
		if err != nil {
			return err
		}
		res := budget.ResolveWeekly(scores, t.MinCorrectPredictions, round.WeeklyBudget)

		result := &models.RoundOutcome{
			RoundNumber:    round.RoundNumber,
			MaxScore:       res.MaxScore,
			PrizePerWinner: res.PrizePerWinner,
			RolledOver:     decimal.Zero,
			Unclaimed:      decimal.Zero,
		}
		last := t.IsLastRound(round.RoundNumber)

		switch {
		case res.HasWinners():
			for _, winnerID := range res.Winners {
				prize := &models.WeeklyPrize{
					TournamentID: t.ID,
					RoundID:      round.ID,
					WinnerID:     winnerID,
					Amount:       res.PrizePerWinner,
				}
				if err := tx.CreateWeeklyPrize(ctx, prize); err != nil {
					return err
				}
				result.Winners = append(result.Winners, models.WeeklyPrizeEntry{
					RoundNumber:   round.RoundNumber,
					ParticipantID: winnerID,
					Name:          names[winnerID],
					Amount:        res.PrizePerWinner,
				})
			}
			out.add(events.WeeklyPrizeAssigned, t.ID, round.RoundNumber, result.Winners,
				"%d winner(s) with %d correct, %s each", len(res.Winners), res.MaxScore, res.PrizePerWinner.StringFixed(2))
		case last:
			result.Unclaimed = res.Carry
			t.UnclaimedFunds = t.UnclaimedFunds.Add(res.Carry)
			out.add(events.WeeklyPrizeUnclaimed, t.ID, round.RoundNumber, res.Carry,
				"no winner in the last round, %s left unclaimed", res.Carry.StringFixed(2))
		default:
			result.RolledOver = res.Carry
			out.add(events.WeeklyPrizeRolledOver, t.ID, round.RoundNumber, res.Carry,
				"no winner (best %d), %s rolls over to round %d", res.MaxScore, res.Carry.StringFixed(2), round.RoundNumber+1)
		}

		out.add(events.RoundStateChanged, t.ID, round.RoundNumber, round.State, "round %d is %s", round.RoundNumber, round.State)
		if last {
			if err := progression.ViewFinalReport(round, t); err != nil {
				return err
			}
			result.FinalReport = true
			out.add(events.RoundStateChanged, t.ID, round.RoundNumber, round.State, "round %d is %s", round.RoundNumber, round.State)
		}
		if err := tx.UpdateRound(ctx, round); err != nil {
			return err
		}

		if !last {
			next, err := openRound(ctx, tx, t, round.RoundNumber+1, t.WeeklyBudget.Add(result.RolledOver))
			if err != nil {
				return err
			}
			result.NextRound = next
			out.add(events.RoundStateChanged, t.ID, next.RoundNumber, next.State, "round %d created, waiting for a date", next.RoundNumber)
		}
		if err := tx.UpdateTournament(ctx, t); err != nil {
			return err
		}

		standings, err := computeStandings(ctx, tx, t, includeConcluded)
		if err != nil {
			return err
		}
		out.add(events.StandingsUpdated, t.ID, round.RoundNumber, standings, "standings after round %d", round.RoundNumber)
		outcome = result
		return nil
	})
	if err != nil {
		return nil, err
	}
	return outcome, nil
}

// ConcludeTournament pays the final prizes from the season standings and
// closes the tournament. A nil distribution uses the one stored on the
// tournament. Caller-supplied distributions are applied as given as long as
// their positions are well formed.
func (s *PoolService) ConcludeTournament(ctx context.Context, dist models.PrizeDistribution) ([]models.FinalPrizeEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var prizes []models.FinalPrizeEntry
	err := s.execute(ctx, "conclude tournament", func(tx *repository.Repository, out *pending) error {
		t, err := activeTournament(ctx, tx)
		if err != nil {
			return err
		}
		rounds, err := tx.ListRounds(ctx, t.ID)
		if err != nil {
			return err
		}
		if err := progression.ConcludeTournament(t, rounds); err != nil {
			return err
		}

		if dist == nil {
			dist = t.PrizeDistribution
		}
		if len(dist) == 0 {
			dist = models.DefaultPrizeDistribution()
		}

		standings, err := computeStandings(ctx, tx, t, includeConcluded)
		if err != nil {
			return err
		}
		resolved, err := budget.ResolveFinal(standings, dist, t.FinalBudget)
		if err != nil {
			return err
		}
		for _, prize := range resolved {
			row := &models.FinalPrize{
				TournamentID:  t.ID,
				ParticipantID: prize.ParticipantID,
				Position:      prize.Position,
				Amount:        prize.Amount,
			}
			if err := tx.CreateFinalPrize(ctx, row); err != nil {
				return err
			}
		}

		last := &rounds[len(rounds)-1]
		if last.State == models.RoundStateViewingFinalReport {
			if err := progression.CompleteTournament(last); err != nil {
				return err
			}
			if err := tx.UpdateRound(ctx, last); err != nil {
				return err
			}
			out.add(events.RoundStateChanged, t.ID, last.RoundNumber, last.State, "round %d is %s", last.RoundNumber, last.State)
		}
		if err := tx.UpdateTournament(ctx, t); err != nil {
			return err
		}

		out.add(events.FinalPrizesAssigned, t.ID, 0, resolved, "%d final prize(s) assigned", len(resolved))
		out.add(events.TournamentStateChanged, t.ID, 0, t.State, "tournament %q is %s", t.Name, t.State)
		out.add(events.TournamentCompleted, t.ID, 0, standings, "tournament %q completed", t.Name)
		prizes = resolved
		return nil
	})
	if err != nil {
		return nil, err
	}
	return prizes, nil
}

// FinalPrizesTarget returns pct percent of the final prizes amount of the
// active tournament.
func (s *PoolService) FinalPrizesTarget(ctx context.Context, pct decimal.Decimal) (decimal.Decimal, error) {
	if !pct.IsPositive() || pct.GreaterThan(decimal.NewFromInt(100)) {
		return decimal.Zero, apperr.Validation("percentage must be greater than 0 and at most 100")
	}
	t, err := tournamentOrActive(ctx, s.repo, 0)
	if err != nil {
		return decimal.Zero, err
	}
	return budget.Share(t.FinalPrizesAmount, pct), nil
}
