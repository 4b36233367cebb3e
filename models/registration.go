package models

import "time"

type RegistrationStatus string

const (
	RegistrationActive       RegistrationStatus = "registered"
	RegistrationDisqualified RegistrationStatus = "disqualified"
)

// Registration links a player to a tournament. Rows are written by the
// registration pipeline; this service only flips status on disqualification.
type Registration struct {
	ID           int                `json:"id" db:"id"`
	TournamentID int                `json:"tournament_id" db:"tournament_id"`
	PlayerID     int                `json:"player_id" db:"player_id"`
	Status       RegistrationStatus `json:"status" db:"status"`
	CreatedAt    time.Time          `json:"created_at" db:"created_at"`
}
