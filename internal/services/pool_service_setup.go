package services

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"

	"totocalcio/internal/apperr"
	"totocalcio/internal/budget"
	"totocalcio/internal/events"
	"totocalcio/internal/models"
	"totocalcio/internal/progression"
	"totocalcio/internal/repository"
	"totocalcio/internal/validation"
)

// CreateTournament validates cfg, derives the budgets and opens participant
// registration. Only one tournament may be active at a time.
func (s *PoolService) CreateTournament(ctx context.Context, cfg models.TournamentConfig) (*models.Tournament, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cfg.Name = strings.TrimSpace(cfg.Name)
	if cfg.Year == 0 {
		cfg.Year = s.now().Year()
	}
	if err := validation.Tournament(cfg); err != nil {
		return nil, s.fail("create tournament", err)
	}

	var tournament *models.Tournament
	err := s.execute(ctx, "create tournament", func(tx *repository.Repository, out *pending) error {
		if active, err := tx.GetActiveTournament(ctx); err == nil {
			return apperr.State("tournament %q is still in progress", active.Name)
		} else if !repository.IsNotFound(err) {
			return err
		}

		exists, err := tx.TournamentNameExists(ctx, cfg.Name)
		if err != nil {
			return err
		}
		if exists {
			return apperr.Validation("a tournament named %q already exists", cfg.Name)
		}

		t := &models.Tournament{
			Name:                  cfg.Name,
			Year:                  cfg.Year,
			StartDate:             cfg.StartDate.UTC(),
			NumRounds:             cfg.NumRounds,
			NumMatchesPerRound:    cfg.NumMatchesPerRound,
			NumParticipants:       cfg.NumParticipants,
			MinCorrectPredictions: cfg.MinCorrectPredictions,
			ParticipantFee:        cfg.ParticipantFee,
			WeeklyPrizePercentage: cfg.WeeklyPrizePercentage,
			FinalPrizesPercentage: cfg.FinalPrizesPercentage,
			UnclaimedFunds:        decimal.Zero,
			PrizeDistribution:     models.DefaultPrizeDistribution(),
			State:                 models.TournamentStateSettingInitialParameters,
		}
		budget.Compute(cfg).Apply(t)
		if err := progression.OpenTournament(t); err != nil {
			return err
		}
		if err := tx.CreateTournament(ctx, t); err != nil {
			return err
		}

		out.add(events.TournamentCreated, t.ID, 0, t, "tournament %q created", t.Name)
		out.add(events.TournamentStateChanged, t.ID, 0, t.State, "tournament %q is %s", t.Name, t.State)
		tournament = t
		return nil
	})
	if err != nil {
		return nil, err
	}
	return tournament, nil
}

// AddParticipant registers a participant. Filling the last slot starts the
// tournament and creates the first round.
func (s *PoolService) AddParticipant(ctx context.Context, name string) (*models.Participant, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	name = strings.TrimSpace(name)
	if err := validation.ParticipantName(name); err != nil {
		return nil, s.fail("add participant", err)
	}

	var participant *models.Participant
	err := s.execute(ctx, "add participant", func(tx *repository.Repository, out *pending) error {
		t, err := activeTournament(ctx, tx)
		if err != nil {
			return err
		}

		count, err := tx.CountParticipants(ctx, t.ID)
		if err != nil {
			return err
		}
		if count >= int64(t.NumParticipants) {
			return apperr.Participant("tournament already has %d participants", t.NumParticipants)
		}
		if err := progression.RequireTournamentState(t, models.TournamentStateAddingParticipants); err != nil {
			return err
		}

		key := validation.FoldKey(name)
		taken, err := tx.ParticipantNameTaken(ctx, t.ID, key, 0)
		if err != nil {
			return err
		}
		if taken {
			return apperr.Validation("participant %q already exists", name)
		}

		p := &models.Participant{TournamentID: t.ID, Name: name, NameKey: key}
		if err := tx.CreateParticipant(ctx, p); err != nil {
			return err
		}
		count++
		out.add(events.ParticipantsChanged, t.ID, 0, p, "participant %q added (%d/%d)", name, count, t.NumParticipants)
		participant = p

		if count < int64(t.NumParticipants) {
			return nil
		}

		if err := progression.StartTournament(t, count); err != nil {
			return err
		}
		round, err := openRound(ctx, tx, t, 1, t.WeeklyBudget)
		if err != nil {
			return err
		}
		if err := tx.UpdateTournament(ctx, t); err != nil {
			return err
		}
		out.add(events.ParticipantsLimitReached, t.ID, 0, count, "all %d participants registered", count)
		out.add(events.TournamentStateChanged, t.ID, 0, t.State, "tournament %q is %s", t.Name, t.State)
		out.add(events.RoundStateChanged, t.ID, round.RoundNumber, round.State, "round %d created, waiting for a date", round.RoundNumber)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return participant, nil
}

// EditParticipant renames a participant of the active tournament.
func (s *PoolService) EditParticipant(ctx context.Context, participantID uint, name string) (*models.Participant, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	name = strings.TrimSpace(name)
	if err := validation.ParticipantName(name); err != nil {
		return nil, s.fail("edit participant", err)
	}

	var participant *models.Participant
	err := s.execute(ctx, "edit participant", func(tx *repository.Repository, out *pending) error {
		t, err := activeTournament(ctx, tx)
		if err != nil {
			return err
		}
		p, err := tx.GetParticipant(ctx, t.ID, participantID)
		if repository.IsNotFound(err) {
			return apperr.Participant("participant %d not found", participantID)
		}
		if err != nil {
			return err
		}

		key := validation.FoldKey(name)
		taken, err := tx.ParticipantNameTaken(ctx, t.ID, key, p.ID)
		if err != nil {
			return err
		}
		if taken {
			return apperr.Validation("participant %q already exists", name)
		}

		old := p.Name
		p.Name = name
		p.NameKey = key
		if err := tx.UpdateParticipant(ctx, p); err != nil {
			return err
		}
		out.add(events.ParticipantsChanged, t.ID, 0, p, "participant %q renamed to %q", old, name)
		participant = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return participant, nil
}

// UpdatePrizeDistribution stores the final prize distribution of the active
// tournament after full validation.
func (s *PoolService) UpdatePrizeDistribution(ctx context.Context, dist models.PrizeDistribution) (*models.Tournament, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := validation.PrizeDistribution(dist); err != nil {
		return nil, s.fail("update prize distribution", err)
	}

	var tournament *models.Tournament
	err := s.execute(ctx, "update prize distribution", func(tx *repository.Repository, out *pending) error {
		t, err := activeTournament(ctx, tx)
		if err != nil {
			return err
		}
		t.PrizeDistribution = dist
		if err := tx.UpdateTournament(ctx, t); err != nil {
			return err
		}
		out.add(events.TournamentUpdated, t.ID, 0, dist, "prize distribution updated (%d positions)", len(dist))
		tournament = t
		return nil
	})
	if err != nil {
		return nil, err
	}
	return tournament, nil
}

// DeleteTournament removes a tournament with all its rounds, participants and prizes.
func (s *PoolService) DeleteTournament(ctx context.Context, tournamentID uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.execute(ctx, "delete tournament", func(tx *repository.Repository, out *pending) error {
		t, err := tx.GetTournament(ctx, tournamentID)
		if repository.IsNotFound(err) {
			return apperr.NotFound("tournament %d not found", tournamentID)
		}
		if err != nil {
			return err
		}
		if err := tx.DeleteTournament(ctx, t.ID); err != nil {
			return err
		}
		out.add(events.TournamentDeleted, t.ID, 0, nil, "tournament %q deleted", t.Name)
		return nil
	})
}

// openRound creates round number for t and moves it out of its creation state.
// The tournament's current round is updated but not saved.
func openRound(ctx context.Context, tx *repository.Repository, t *models.Tournament, number int, weeklyBudget decimal.Decimal) (*models.Round, error) {
	round := &models.Round{
		TournamentID: t.ID,
		RoundNumber:  number,
		WeeklyBudget: weeklyBudget,
		State:        progression.CreationState(number, t.NumRounds),
	}
	if err := progression.OpenRound(round); err != nil {
		return nil, err
	}
	if err := tx.CreateRound(ctx, round); err != nil {
		return nil, err
	}
	t.CurrentRound = number
	return round, nil
}
