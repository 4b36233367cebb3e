package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/courtside-app/backend/models"
)

var ErrRegistrationNotFound = errors.New("registration not found")

const registrationColumns = `id, tournament_id, player_id, status, created_at`

type RegistrationRepository interface {
	GetByTournamentAndPlayer(ctx context.Context, tournamentID, playerID int) (*models.Registration, error)
	ListByTournament(ctx context.Context, tournamentID int) ([]*models.Registration, error)
	UpdateStatus(ctx context.Context, exec SQLExecutor, tournamentID, playerID int, status models.RegistrationStatus) error
}

type postgresRegistrationRepository struct {
	db *sql.DB
}

func NewPostgresRegistrationRepository(db *sql.DB) RegistrationRepository {
	return &postgresRegistrationRepository{db: db}
}

func (r *postgresRegistrationRepository) GetByTournamentAndPlayer(ctx context.Context, tournamentID, playerID int) (*models.Registration, error) {
	query := `SELECT ` + registrationColumns + ` FROM registrations
		WHERE tournament_id = $1 AND player_id = $2`

	reg := &models.Registration{}
	err := r.db.QueryRowContext(ctx, query, tournamentID, playerID).Scan(
		&reg.ID, &reg.TournamentID, &reg.PlayerID, &reg.Status, &reg.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRegistrationNotFound
		}
		return nil, fmt.Errorf("failed to scan registration (tournament %d, player %d): %w", tournamentID, playerID, err)
	}
	return reg, nil
}

func (r *postgresRegistrationRepository) ListByTournament(ctx context.Context, tournamentID int) ([]*models.Registration, error) {
	query := `SELECT ` + registrationColumns + ` FROM registrations
		WHERE tournament_id = $1 ORDER BY id ASC`

	rows, err := r.db.QueryContext(ctx, query, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("failed to query registrations for tournament %d: %w", tournamentID, err)
	}
	defer rows.Close()

	regs := make([]*models.Registration, 0)
	for rows.Next() {
		var reg models.Registration
		if scanErr := rows.Scan(&reg.ID, &reg.TournamentID, &reg.PlayerID, &reg.Status, &reg.CreatedAt); scanErr != nil {
			return nil, fmt.Errorf("failed to scan registration row: %w", scanErr)
		}
		regs = append(regs, &reg)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during registration rows iteration: %w", err)
	}
	return regs, nil
}

func (r *postgresRegistrationRepository) UpdateStatus(ctx context.Context, exec SQLExecutor, tournamentID, playerID int, status models.RegistrationStatus) error {
	query := `UPDATE registrations SET status = $1 WHERE tournament_id = $2 AND player_id = $3`

	result, err := exec.ExecContext(ctx, query, status, tournamentID, playerID)
	if err != nil {
		return fmt.Errorf("failed to update registration status (tournament %d, player %d): %w", tournamentID, playerID, err)
	}
	return checkAffectedRows(result, ErrRegistrationNotFound)
}
