package services

import (
	"fmt"

	"github.com/courtside-app/backend/models"
)

func collectPlayerIDs(matches []*models.Match) []int {
	ids := make([]int, 0, 2*len(matches))
	seen := make(map[int]bool, 2*len(matches))
	add := func(id *int) {
		if id != nil && !seen[*id] {
			seen[*id] = true
			ids = append(ids, *id)
		}
	}
	for _, m := range matches {
		add(m.Player1ID)
		add(m.Player2ID)
	}
	return ids
}

func slotView(playerID *int, names map[int]string) SlotView {
	view := SlotView{PlayerID: playerID}
	if playerID == nil {
		view.Name = "TBD"
		return view
	}
	if name, ok := names[*playerID]; ok {
		view.Name = name
	} else {
		view.Name = fmt.Sprintf("Player %d", *playerID)
	}
	return view
}

// virtualSlotView labels an unresolved virtual slot with the source match it
// is waiting on.
func virtualSlotView(playerID *int, sourceMatchNumber int, names map[int]string) SlotView {
	if playerID == nil {
		return SlotView{Name: fmt.Sprintf("Winner of Match #%d", sourceMatchNumber)}
	}
	return slotView(playerID, names)
}

func persistedMatchView(m *models.Match, names map[int]string) RoundMatchView {
	return RoundMatchView{
		MatchID:      m.ID,
		Round:        m.Round,
		MatchNumber:  m.MatchNumber,
		Player1:      slotView(m.Player1ID, names),
		Player2:      slotView(m.Player2ID, names),
		Player1Score: m.Player1Score,
		Player2Score: m.Player2Score,
		WinnerID:     m.WinnerID,
		Status:       m.Status,
		ScheduledAt:  m.ScheduledAt,
	}
}
