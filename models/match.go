package models

import "time"

type MatchStatus string

const (
	MatchPending   MatchStatus = "pending"
	MatchCompleted MatchStatus = "completed"
	MatchCancelled MatchStatus = "cancelled"
)

// Match is one bracket slot of a single-elimination tournament.
// (Round, MatchNumber) is unique per tournament; match 1 of round N is fed by
// matches 1 and 2 of round N-1, match 2 by matches 3 and 4, and so on.
type Match struct {
	ID           int         `json:"id" db:"id"`
	TournamentID int         `json:"tournament_id" db:"tournament_id"`
	Round        int         `json:"round" db:"round"`
	MatchNumber  int         `json:"match_number" db:"match_number"`
	Player1ID    *int        `json:"player1_id,omitempty" db:"player1_id"`
	Player2ID    *int        `json:"player2_id,omitempty" db:"player2_id"`
	Player1Score *string     `json:"player1_score,omitempty" db:"player1_score"`
	Player2Score *string     `json:"player2_score,omitempty" db:"player2_score"`
	WinnerID     *int        `json:"winner_id,omitempty" db:"winner_id"`
	Status       MatchStatus `json:"status" db:"status"`
	ScheduledAt  *time.Time  `json:"scheduled_at,omitempty" db:"scheduled_at"`
	CreatedAt    time.Time   `json:"created_at" db:"created_at"`
}

// HasPlayer reports whether the given player occupies either slot.
func (m *Match) HasPlayer(playerID int) bool {
	if m.Player1ID != nil && *m.Player1ID == playerID {
		return true
	}
	if m.Player2ID != nil && *m.Player2ID == playerID {
		return true
	}
	return false
}
