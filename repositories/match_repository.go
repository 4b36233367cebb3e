package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/courtside-app/backend/models"
	"github.com/lib/pq"
)

var (
	ErrMatchNotFound          = errors.New("match not found")
	ErrMatchNotPending        = errors.New("match is not pending")
	ErrMatchTournamentInvalid = errors.New("match references an unknown tournament")
	ErrMatchPlayerInvalid     = errors.New("match references an unknown player")
)

const matchColumns = `id, tournament_id, round, match_number, player1_id, player2_id,
	player1_score, player2_score, winner_id, status, scheduled_at, created_at`

type MatchRepository interface {
	Create(ctx context.Context, exec SQLExecutor, match *models.Match) error
	GetByID(ctx context.Context, id int) (*models.Match, error)
	ListByTournament(ctx context.Context, tournamentID int, round *int, status *models.MatchStatus) ([]*models.Match, error)
	GetByBracketPosition(ctx context.Context, exec SQLExecutor, tournamentID, round, matchNumber int) (*models.Match, error)
	// CompleteIfPending records scores and winner with a conditional write:
	// it succeeds only while the row is still pending, returning
	// ErrMatchNotPending otherwise. This is the lost-update guard.
	CompleteIfPending(ctx context.Context, exec SQLExecutor, id int, player1Score, player2Score *string, winnerID int) error
	// UpsertSlot places a winner into one slot of the match at
	// (tournament, round, matchNumber), creating the row if it does not
	// exist yet. Keyed on the bracket position so concurrent advancements
	// from the same round can never produce duplicate rows; the slot not
	// being filled is left untouched.
	UpsertSlot(ctx context.Context, exec SQLExecutor, tournamentID, round, matchNumber, playerID int, player1Slot bool) (*models.Match, error)
	// CancelPendingByPlayer cancels every pending match of the tournament
	// with the player in either slot and returns how many were cancelled.
	CancelPendingByPlayer(ctx context.Context, exec SQLExecutor, tournamentID, playerID int) (int, error)
	// ListByRound reads a round through the given executor so advancement
	// can see its own writes mid-transaction.
	ListByRound(ctx context.Context, exec SQLExecutor, tournamentID, round int) ([]*models.Match, error)
	CountInRound(ctx context.Context, exec SQLExecutor, tournamentID, round int) (int, error)
	CountRounds(ctx context.Context, tournamentID int) (int, error)
}

type postgresMatchRepository struct {
	db *sql.DB
}

func NewPostgresMatchRepository(db *sql.DB) MatchRepository {
	return &postgresMatchRepository{db: db}
}

func scanMatch(row interface{ Scan(...interface{}) error }, m *models.Match) error {
	return row.Scan(
		&m.ID,
		&m.TournamentID,
		&m.Round,
		&m.MatchNumber,
		&m.Player1ID,
		&m.Player2ID,
		&m.Player1Score,
		&m.Player2Score,
		&m.WinnerID,
		&m.Status,
		&m.ScheduledAt,
		&m.CreatedAt,
	)
}

func (r *postgresMatchRepository) Create(ctx context.Context, exec SQLExecutor, match *models.Match) error {
	query := `
		INSERT INTO matches
			(tournament_id, round, match_number, player1_id, player2_id,
			 player1_score, player2_score, winner_id, status, scheduled_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at`

	err := exec.QueryRowContext(ctx, query,
		match.TournamentID,
		match.Round,
		match.MatchNumber,
		match.Player1ID,
		match.Player2ID,
		match.Player1Score,
		match.Player2Score,
		match.WinnerID,
		match.Status,
		match.ScheduledAt,
	).Scan(&match.ID, &match.CreatedAt)

	return r.handleMatchError(err)
}

func (r *postgresMatchRepository) GetByID(ctx context.Context, id int) (*models.Match, error) {
	query := `SELECT ` + matchColumns + ` FROM matches WHERE id = $1`

	match := &models.Match{}
	err := scanMatch(r.db.QueryRowContext(ctx, query, id), match)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMatchNotFound
		}
		return nil, fmt.Errorf("failed to scan match %d: %w", id, err)
	}
	return match, nil
}

func (r *postgresMatchRepository) ListByTournament(ctx context.Context, tournamentID int, round *int, status *models.MatchStatus) ([]*models.Match, error) {
	var queryBuilder strings.Builder
	queryBuilder.WriteString(`SELECT ` + matchColumns + ` FROM matches WHERE tournament_id = $1`)

	args := []interface{}{tournamentID}
	placeholder := 2

	if round != nil {
		queryBuilder.WriteString(" AND round = $")
		queryBuilder.WriteString(strconv.Itoa(placeholder))
		args = append(args, *round)
		placeholder++
	}
	if status != nil {
		queryBuilder.WriteString(" AND status = $")
		queryBuilder.WriteString(strconv.Itoa(placeholder))
		args = append(args, *status)
	}

	queryBuilder.WriteString(" ORDER BY round ASC, match_number ASC")

	rows, err := r.db.QueryContext(ctx, queryBuilder.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query matches for tournament %d: %w", tournamentID, err)
	}
	defer rows.Close()

	matches := make([]*models.Match, 0)
	for rows.Next() {
		var match models.Match
		if scanErr := scanMatch(rows, &match); scanErr != nil {
			return nil, fmt.Errorf("failed to scan match row: %w", scanErr)
		}
		matches = append(matches, &match)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during match rows iteration: %w", err)
	}
	return matches, nil
}

func (r *postgresMatchRepository) GetByBracketPosition(ctx context.Context, exec SQLExecutor, tournamentID, round, matchNumber int) (*models.Match, error) {
	query := `SELECT ` + matchColumns + ` FROM matches
		WHERE tournament_id = $1 AND round = $2 AND match_number = $3`

	match := &models.Match{}
	err := scanMatch(exec.QueryRowContext(ctx, query, tournamentID, round, matchNumber), match)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMatchNotFound
		}
		return nil, fmt.Errorf("failed to scan match at (%d, round %d, #%d): %w", tournamentID, round, matchNumber, err)
	}
	return match, nil
}

func (r *postgresMatchRepository) CompleteIfPending(ctx context.Context, exec SQLExecutor, id int, player1Score, player2Score *string, winnerID int) error {
	query := `
		UPDATE matches
		SET player1_score = $1, player2_score = $2, winner_id = $3, status = $4
		WHERE id = $5 AND status = $6`

	result, err := exec.ExecContext(ctx, query,
		player1Score, player2Score, winnerID, models.MatchCompleted, id, models.MatchPending)
	if err != nil {
		return r.handleMatchError(err)
	}
	return checkAffectedRows(result, ErrMatchNotPending)
}

func (r *postgresMatchRepository) UpsertSlot(ctx context.Context, exec SQLExecutor, tournamentID, round, matchNumber, playerID int, player1Slot bool) (*models.Match, error) {
	var p1, p2 *int
	if player1Slot {
		p1 = &playerID
	} else {
		p2 = &playerID
	}

	query := `
		INSERT INTO matches (tournament_id, round, match_number, player1_id, player2_id, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (tournament_id, round, match_number)
		DO UPDATE SET
			player1_id = COALESCE(EXCLUDED.player1_id, matches.player1_id),
			player2_id = COALESCE(EXCLUDED.player2_id, matches.player2_id)
		RETURNING ` + matchColumns

	match := &models.Match{}
	err := scanMatch(exec.QueryRowContext(ctx, query,
		tournamentID, round, matchNumber, p1, p2, models.MatchPending), match)
	if err != nil {
		return nil, r.handleMatchError(err)
	}
	return match, nil
}

func (r *postgresMatchRepository) CancelPendingByPlayer(ctx context.Context, exec SQLExecutor, tournamentID, playerID int) (int, error) {
	query := `
		UPDATE matches
		SET status = $1
		WHERE tournament_id = $2 AND status = $3 AND (player1_id = $4 OR player2_id = $4)`

	result, err := exec.ExecContext(ctx, query,
		models.MatchCancelled, tournamentID, models.MatchPending, playerID)
	if err != nil {
		return 0, fmt.Errorf("failed to cancel matches for player %d in tournament %d: %w", playerID, tournamentID, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to check affected rows: %w", err)
	}
	return int(affected), nil
}

func (r *postgresMatchRepository) ListByRound(ctx context.Context, exec SQLExecutor, tournamentID, round int) ([]*models.Match, error) {
	query := `SELECT ` + matchColumns + ` FROM matches
		WHERE tournament_id = $1 AND round = $2
		ORDER BY match_number ASC`

	rows, err := exec.QueryContext(ctx, query, tournamentID, round)
	if err != nil {
		return nil, fmt.Errorf("failed to query round %d of tournament %d: %w", round, tournamentID, err)
	}
	defer rows.Close()

	matches := make([]*models.Match, 0)
	for rows.Next() {
		var match models.Match
		if scanErr := scanMatch(rows, &match); scanErr != nil {
			return nil, fmt.Errorf("failed to scan match row: %w", scanErr)
		}
		matches = append(matches, &match)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during match rows iteration: %w", err)
	}
	return matches, nil
}

func (r *postgresMatchRepository) CountInRound(ctx context.Context, exec SQLExecutor, tournamentID, round int) (int, error) {
	query := `SELECT COUNT(*) FROM matches WHERE tournament_id = $1 AND round = $2`

	var count int
	if err := exec.QueryRowContext(ctx, query, tournamentID, round).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count matches in round %d of tournament %d: %w", round, tournamentID, err)
	}
	return count, nil
}

func (r *postgresMatchRepository) CountRounds(ctx context.Context, tournamentID int) (int, error) {
	query := `SELECT COUNT(DISTINCT round) FROM matches WHERE tournament_id = $1`

	var count int
	if err := r.db.QueryRowContext(ctx, query, tournamentID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count rounds for tournament %d: %w", tournamentID, err)
	}
	return count, nil
}

func (r *postgresMatchRepository) handleMatchError(err error) error {
	if err == nil {
		return nil
	}
	if pqErr, ok := err.(*pq.Error); ok {
		switch pqErr.Constraint {
		case "matches_tournament_id_fkey":
			return ErrMatchTournamentInvalid
		case "matches_player1_id_fkey", "matches_player2_id_fkey", "matches_winner_id_fkey":
			return ErrMatchPlayerInvalid
		}
	}
	return err
}
