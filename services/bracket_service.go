package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/courtside-app/backend/brackets"
	"github.com/courtside-app/backend/models"
	"github.com/courtside-app/backend/repositories"
	"golang.org/x/sync/errgroup"
)

// SlotView is one side of a bracket pairing. PlayerID is nil for unresolved
// virtual slots; Name then carries a "Winner of Match #N" placeholder.
type SlotView struct {
	PlayerID *int   `json:"player_id,omitempty"`
	Name     string `json:"name"`
}

type RoundMatchView struct {
	MatchID      int                `json:"match_id,omitempty"`
	Virtual      bool               `json:"virtual"`
	Round        int                `json:"round"`
	MatchNumber  int                `json:"match_number"`
	Player1      SlotView           `json:"player1"`
	Player2      SlotView           `json:"player2"`
	Player1Score *string            `json:"player1_score,omitempty"`
	Player2Score *string            `json:"player2_score,omitempty"`
	WinnerID     *int               `json:"winner_id,omitempty"`
	Status       models.MatchStatus `json:"status"`
	ScheduledAt  *time.Time         `json:"scheduled_at,omitempty"`
}

type RoundView struct {
	TournamentID int              `json:"tournament_id"`
	Round        int              `json:"round"`
	RoundName    string           `json:"round_name"`
	TotalRounds  int              `json:"total_rounds"`
	Virtual      bool             `json:"virtual"`
	Matches      []RoundMatchView `json:"matches"`
}

// BracketService owns elimination-bracket progression: pairing derivation,
// result submission, winner advancement, and disqualification.
type BracketService interface {
	GetRoundMatches(ctx context.Context, tournamentID, roundNumber int) (*RoundView, error)
	GetTotalRounds(ctx context.Context, tournamentID int) (int, error)
	GetRoundName(roundNumber, totalRounds int) string
	CanAdvanceToNextRound(ctx context.Context, tournamentID, roundNumber int) (bool, error)
	SubmitResult(ctx context.Context, matchID int, player1Score, player2Score string) (*models.Match, error)
	SubmitResultManually(ctx context.Context, matchID, winnerID int, player1Score, player2Score string) (*models.Match, error)
	// DisqualifyPlayer cancels every pending match with the player in either
	// slot and returns how many matches were cancelled. Completed matches are
	// left untouched; the operation is irreversible.
	DisqualifyPlayer(ctx context.Context, tournamentID, playerID int) (int, error)
}

type bracketService struct {
	tx             repositories.Transactor
	matchRepo      repositories.MatchRepository
	tournamentRepo repositories.TournamentRepository
	userRepo       repositories.UserRepository
	regRepo        repositories.RegistrationRepository
	hub            *brackets.Hub
	policy         brackets.AdvancementPolicy
	logger         *slog.Logger
}

func NewBracketService(
	tx repositories.Transactor,
	matchRepo repositories.MatchRepository,
	tournamentRepo repositories.TournamentRepository,
	userRepo repositories.UserRepository,
	regRepo repositories.RegistrationRepository,
	hub *brackets.Hub,
	policy brackets.AdvancementPolicy,
	logger *slog.Logger,
) BracketService {
	if logger == nil {
		logger = slog.Default()
	}
	return &bracketService{
		tx:             tx,
		matchRepo:      matchRepo,
		tournamentRepo: tournamentRepo,
		userRepo:       userRepo,
		regRepo:        regRepo,
		hub:            hub,
		policy:         policy,
		logger:         logger,
	}
}

func (s *bracketService) GetRoundMatches(ctx context.Context, tournamentID, roundNumber int) (*RoundView, error) {
	if roundNumber < 1 {
		return nil, ErrRoundInvalid
	}

	var (
		tournament *models.Tournament
		matches    []*models.Match
	)
	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		t, err := s.tournamentRepo.GetByID(gCtx, tournamentID)
		if err != nil {
			if errors.Is(err, repositories.ErrTournamentNotFound) {
				return ErrTournamentNotFound
			}
			return fmt.Errorf("failed to fetch tournament %d: %w", tournamentID, err)
		}
		tournament = t
		return nil
	})
	g.Go(func() error {
		ms, err := s.matchRepo.ListByTournament(gCtx, tournamentID, nil, nil)
		if err != nil {
			return fmt.Errorf("failed to fetch matches for tournament %d: %w", tournamentID, err)
		}
		matches = ms
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	byRound := make(map[int][]*models.Match)
	for _, m := range matches {
		byRound[m.Round] = append(byRound[m.Round], m)
	}
	totalRounds := len(byRound)
	if totalRounds < 1 {
		totalRounds = 1
	}
	// A round the caller navigated beyond the persisted bracket still counts
	// toward the naming depth.
	if roundNumber > totalRounds {
		totalRounds = roundNumber
	}

	view := &RoundView{
		TournamentID: tournament.ID,
		Round:        roundNumber,
		RoundName:    brackets.RoundName(roundNumber, totalRounds),
		TotalRounds:  totalRounds,
	}

	persisted := byRound[roundNumber]
	if len(persisted) > 0 || roundNumber == 1 {
		names, err := s.playerNames(ctx, collectPlayerIDs(persisted))
		if err != nil {
			return nil, err
		}
		view.Matches = make([]RoundMatchView, 0, len(persisted))
		for _, m := range persisted {
			view.Matches = append(view.Matches, persistedMatchView(m, names))
		}
		return view, nil
	}

	// No persisted round: derive virtual pairings from the previous round.
	prev := byRound[roundNumber-1]
	derived := brackets.DeriveNextRound(prev)
	view.Virtual = true
	view.Matches = make([]RoundMatchView, 0, len(derived))
	if len(derived) == 0 {
		return view, nil
	}

	ids := make([]int, 0, 2*len(derived))
	for _, vm := range derived {
		if vm.Player1ID != nil {
			ids = append(ids, *vm.Player1ID)
		}
		if vm.Player2ID != nil {
			ids = append(ids, *vm.Player2ID)
		}
	}
	names, err := s.playerNames(ctx, ids)
	if err != nil {
		return nil, err
	}

	for _, vm := range derived {
		view.Matches = append(view.Matches, RoundMatchView{
			Virtual:     true,
			Round:       roundNumber,
			MatchNumber: vm.MatchNumber,
			Player1:     virtualSlotView(vm.Player1ID, vm.SourceMatch1, names),
			Player2:     virtualSlotView(vm.Player2ID, vm.SourceMatch2, names),
			Status:      models.MatchPending,
		})
	}
	return view, nil
}

func (s *bracketService) GetTotalRounds(ctx context.Context, tournamentID int) (int, error) {
	count, err := s.matchRepo.CountRounds(ctx, tournamentID)
	if err != nil {
		return 0, fmt.Errorf("failed to count rounds for tournament %d: %w", tournamentID, err)
	}
	if count < 1 {
		count = 1
	}
	return count, nil
}

func (s *bracketService) GetRoundName(roundNumber, totalRounds int) string {
	return brackets.RoundName(roundNumber, totalRounds)
}

func (s *bracketService) CanAdvanceToNextRound(ctx context.Context, tournamentID, roundNumber int) (bool, error) {
	if roundNumber < 1 {
		return false, ErrRoundInvalid
	}

	next := roundNumber + 1
	nextMatches, err := s.matchRepo.ListByTournament(ctx, tournamentID, &next, nil)
	if err != nil {
		return false, fmt.Errorf("failed to fetch round %d of tournament %d: %w", next, tournamentID, err)
	}
	if len(nextMatches) > 0 {
		return true, nil
	}

	current, err := s.matchRepo.ListByTournament(ctx, tournamentID, &roundNumber, nil)
	if err != nil {
		return false, fmt.Errorf("failed to fetch round %d of tournament %d: %w", roundNumber, tournamentID, err)
	}
	return brackets.CountWinners(current) >= 2, nil
}

func (s *bracketService) SubmitResult(ctx context.Context, matchID int, player1Score, player2Score string) (*models.Match, error) {
	player1Score = strings.TrimSpace(player1Score)
	player2Score = strings.TrimSpace(player2Score)
	if player1Score == "" || player2Score == "" {
		return nil, ErrScoresRequired
	}

	match, err := s.loadPendingMatch(ctx, matchID)
	if err != nil {
		return nil, err
	}
	if match.Player1ID == nil || match.Player2ID == nil {
		return nil, ErrMatchSlotsUnfilled
	}

	winnerID := *match.Player2ID
	if brackets.Player1WinsByScore(player1Score, player2Score) {
		winnerID = *match.Player1ID
	}

	return s.completeAndAdvance(ctx, match, winnerID, &player1Score, &player2Score)
}

func (s *bracketService) SubmitResultManually(ctx context.Context, matchID, winnerID int, player1Score, player2Score string) (*models.Match, error) {
	match, err := s.loadPendingMatch(ctx, matchID)
	if err != nil {
		return nil, err
	}
	if !match.HasPlayer(winnerID) {
		return nil, ErrWinnerNotInMatch
	}

	var s1, s2 *string
	if v := strings.TrimSpace(player1Score); v != "" {
		s1 = &v
	}
	if v := strings.TrimSpace(player2Score); v != "" {
		s2 = &v
	}

	return s.completeAndAdvance(ctx, match, winnerID, s1, s2)
}

func (s *bracketService) DisqualifyPlayer(ctx context.Context, tournamentID, playerID int) (int, error) {
	tournament, err := s.tournamentRepo.GetByID(ctx, tournamentID)
	if err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return 0, ErrTournamentNotFound
		}
		return 0, fmt.Errorf("failed to fetch tournament %d: %w", tournamentID, err)
	}
	if tournament.Status.IsTerminal() {
		return 0, ErrTournamentClosed
	}

	cancelled := 0
	err = s.tx.WithinTx(ctx, func(exec repositories.SQLExecutor) error {
		if err := s.regRepo.UpdateStatus(ctx, exec, tournamentID, playerID, models.RegistrationDisqualified); err != nil {
			if errors.Is(err, repositories.ErrRegistrationNotFound) {
				return ErrRegistrationNotFound
			}
			return err
		}
		n, err := s.matchRepo.CancelPendingByPlayer(ctx, exec, tournamentID, playerID)
		if err != nil {
			return err
		}
		cancelled = n
		return nil
	})
	if err != nil {
		return 0, err
	}

	s.logger.Info("player disqualified",
		slog.Int("tournament_id", tournamentID),
		slog.Int("player_id", playerID),
		slog.Int("matches_cancelled", cancelled))
	s.broadcast(tournamentID, brackets.Event{
		Type:    brackets.EventBracketUpdated,
		Payload: map[string]int{"tournament_id": tournamentID, "player_id": playerID},
	})
	return cancelled, nil
}

// loadPendingMatch fetches a match and verifies it (and its tournament) can
// still accept a result.
func (s *bracketService) loadPendingMatch(ctx context.Context, matchID int) (*models.Match, error) {
	match, err := s.matchRepo.GetByID(ctx, matchID)
	if err != nil {
		if errors.Is(err, repositories.ErrMatchNotFound) {
			return nil, ErrMatchNotFound
		}
		return nil, fmt.Errorf("failed to fetch match %d: %w", matchID, err)
	}

	tournament, err := s.tournamentRepo.GetByID(ctx, match.TournamentID)
	if err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, ErrTournamentNotFound
		}
		return nil, fmt.Errorf("failed to fetch tournament %d: %w", match.TournamentID, err)
	}
	if tournament.Status.IsTerminal() {
		return nil, ErrTournamentClosed
	}
	if match.Status != models.MatchPending {
		return nil, ErrMatchNotPending
	}
	return match, nil
}

// completeAndAdvance records the result and advances the winner in one
// transaction, so a failed advancement never leaves a completed match whose
// winner went nowhere.
func (s *bracketService) completeAndAdvance(ctx context.Context, match *models.Match, winnerID int, player1Score, player2Score *string) (*models.Match, error) {
	tournamentDone := false
	err := s.tx.WithinTx(ctx, func(exec repositories.SQLExecutor) error {
		// Conditional write: loses gracefully if another submission got in first.
		if err := s.matchRepo.CompleteIfPending(ctx, exec, match.ID, player1Score, player2Score, winnerID); err != nil {
			if errors.Is(err, repositories.ErrMatchNotPending) {
				return ErrMatchNotPending
			}
			return err
		}
		match.Player1Score = player1Score
		match.Player2Score = player2Score
		match.WinnerID = &winnerID
		match.Status = models.MatchCompleted

		done, err := s.advanceWinner(ctx, exec, match, winnerID)
		if err != nil {
			return err
		}
		tournamentDone = done
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.broadcast(match.TournamentID, brackets.Event{Type: brackets.EventMatchUpdated, Payload: match})
	if tournamentDone {
		s.logger.Info("tournament completed", slog.Int("tournament_id", match.TournamentID))
		s.broadcast(match.TournamentID, brackets.Event{
			Type:    brackets.EventTournamentCompleted,
			Payload: map[string]int{"tournament_id": match.TournamentID, "winner_id": winnerID},
		})
	}
	return match, nil
}

// advanceWinner places the winner into its slot in the next round, creating
// the row on first arrival via an upsert keyed on the bracket position so a
// replay or a concurrent advancement can never duplicate it. A completed
// match in the single-match round was the final: the tournament is closed and
// no further row is created. The final is recognized from the bracket shape,
// halving the round 1 count down to the completed round; the completed
// round's own persisted count is unreliable under lazy advancement, where
// out-of-order play leaves later rounds partially created.
func (s *bracketService) advanceWinner(ctx context.Context, exec repositories.SQLExecutor, completed *models.Match, winnerID int) (bool, error) {
	firstRoundSize, err := s.matchRepo.CountInRound(ctx, exec, completed.TournamentID, 1)
	if err != nil {
		return false, err
	}
	finalRound := brackets.RoundSizeFromFirst(firstRoundSize, completed.Round) == 1
	if firstRoundSize == 0 {
		// No seeded first round to anchor on; the round's own count is all
		// there is.
		size, err := s.matchRepo.CountInRound(ctx, exec, completed.TournamentID, completed.Round)
		if err != nil {
			return false, err
		}
		finalRound = size == 1
	}
	if finalRound {
		if err := s.tournamentRepo.UpdateStatus(ctx, exec, completed.TournamentID, models.TournamentCompleted); err != nil {
			return false, fmt.Errorf("failed to complete tournament %d: %w", completed.TournamentID, err)
		}
		return true, nil
	}

	switch s.policy {
	case brackets.BatchPerRoundCompletion:
		roundMatches, err := s.matchRepo.ListByRound(ctx, exec, completed.TournamentID, completed.Round)
		if err != nil {
			return false, err
		}
		if !brackets.RoundCompleted(roundMatches) {
			return false, nil
		}
		for _, m := range roundMatches {
			if m.Status != models.MatchCompleted || m.WinnerID == nil {
				continue
			}
			next, player1Slot := brackets.NextSlot(m.MatchNumber)
			if _, err := s.matchRepo.UpsertSlot(ctx, exec, m.TournamentID, m.Round+1, next, *m.WinnerID, player1Slot); err != nil {
				return false, err
			}
		}
	default: // brackets.LazyPerMatch
		next, player1Slot := brackets.NextSlot(completed.MatchNumber)
		if _, err := s.matchRepo.UpsertSlot(ctx, exec, completed.TournamentID, completed.Round+1, next, winnerID, player1Slot); err != nil {
			return false, err
		}
	}
	return false, nil
}

func (s *bracketService) playerNames(ctx context.Context, ids []int) (map[int]string, error) {
	users, err := s.userRepo.ListByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch player names: %w", err)
	}
	names := make(map[int]string, len(users))
	for _, u := range users {
		names[u.ID] = u.DisplayName()
	}
	return names, nil
}

func (s *bracketService) broadcast(tournamentID int, event brackets.Event) {
	if s.hub == nil {
		return
	}
	s.hub.BroadcastToRoom(brackets.TournamentRoom(tournamentID), event)
}
