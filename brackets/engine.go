package brackets

import (
	"fmt"

	"github.com/courtside-app/backend/models"
)

// AdvancementPolicy selects how winners move into the next round.
//
// LazyPerMatch fills (or creates) the single next-round slot as soon as a
// match completes. BatchPerRoundCompletion waits until every match of a round
// is completed and then generates the whole next round in one pass, pairing
// winners sequentially (winner 1 vs winner 2, winner 3 vs winner 4, ...).
type AdvancementPolicy string

const (
	LazyPerMatch             AdvancementPolicy = "lazy_per_match"
	BatchPerRoundCompletion  AdvancementPolicy = "batch_per_round"
	defaultAdvancementPolicy                   = LazyPerMatch
)

// ParseAdvancementPolicy maps a config value to a policy, defaulting to
// LazyPerMatch for empty input.
func ParseAdvancementPolicy(s string) (AdvancementPolicy, error) {
	switch AdvancementPolicy(s) {
	case LazyPerMatch, BatchPerRoundCompletion:
		return AdvancementPolicy(s), nil
	case "":
		return defaultAdvancementPolicy, nil
	default:
		return "", fmt.Errorf("unknown advancement policy %q", s)
	}
}

// RoundName computes the display name of a round from its distance to the
// final. totalRounds counts every round the caller has reached, persisted or
// virtual, so the name must be recomputed whenever totalRounds changes.
func RoundName(roundNumber, totalRounds int) string {
	switch totalRounds - roundNumber + 1 {
	case 1:
		return "Final"
	case 2:
		return "Semifinal"
	case 3:
		return "Quarterfinals"
	case 4:
		return "Round of 16"
	case 5:
		return "Round of 32"
	default:
		return fmt.Sprintf("Round %d", roundNumber)
	}
}

// NextSlot computes where the winner of the given match number goes: the
// next-round match number is ceil(n/2), and an odd match number feeds the
// player1 slot of that match.
func NextSlot(matchNumber int) (nextMatchNumber int, player1Slot bool) {
	return (matchNumber + 1) / 2, matchNumber%2 == 1
}

// SourceMatchNumbers returns the two previous-round match numbers feeding the
// given match number (sequential seeding: match 1 is fed by 1 and 2, match 2
// by 3 and 4, ...).
func SourceMatchNumbers(matchNumber int) (int, int) {
	a := 2*(matchNumber-1) + 1
	return a, a + 1
}

// VirtualRoundSize is the match count of a round derived from a previous
// round with prevCount matches. An empty previous round derives nothing;
// otherwise at least one match (the final) is always derivable.
func VirtualRoundSize(prevCount int) int {
	if prevCount == 0 {
		return 0
	}
	if prevCount/2 < 1 {
		return 1
	}
	return prevCount / 2
}

// RoundSizeFromFirst is the match count a bracket owes the given round when
// its first round holds firstRoundSize matches, halving per round down to the
// single-match final. Persisted counts of later rounds cannot answer this:
// lazy advancement creates their rows one at a time.
func RoundSizeFromFirst(firstRoundSize, round int) int {
	if firstRoundSize <= 0 {
		return 0
	}
	size := firstRoundSize
	for r := 2; r <= round; r++ {
		size = VirtualRoundSize(size)
	}
	return size
}

// Player1WinsByScore decides the winner slot from two raw score strings by
// plain lexicographic comparison: the first differing byte wins. Free-text
// scores like "6-4, 6-2" are NOT parsed into set counts; this reproduces the
// legacy result pipeline's comparison. Equal strings resolve to player2.
func Player1WinsByScore(player1Score, player2Score string) bool {
	return player1Score > player2Score
}

// VirtualMatch is a derived, non-persisted pairing shown before the real
// next-round row exists. Player slots stay nil until the source match has a
// recorded winner.
type VirtualMatch struct {
	MatchNumber  int
	Player1ID    *int
	Player2ID    *int
	SourceMatch1 int
	SourceMatch2 int
}

// DeriveNextRound builds the virtual pairings one round beyond prev. Matches
// in prev must belong to a single round; their order does not matter.
func DeriveNextRound(prev []*models.Match) []VirtualMatch {
	count := VirtualRoundSize(len(prev))
	if count == 0 {
		return nil
	}

	winners := make(map[int]*int, len(prev))
	for _, m := range prev {
		if m.Status == models.MatchCompleted && m.WinnerID != nil {
			winners[m.MatchNumber] = m.WinnerID
		}
	}

	derived := make([]VirtualMatch, 0, count)
	for i := 1; i <= count; i++ {
		srcA, srcB := SourceMatchNumbers(i)
		derived = append(derived, VirtualMatch{
			MatchNumber:  i,
			Player1ID:    winners[srcA],
			Player2ID:    winners[srcB],
			SourceMatch1: srcA,
			SourceMatch2: srcB,
		})
	}
	return derived
}

// CountWinners returns how many matches of the round carry a recorded winner.
func CountWinners(round []*models.Match) int {
	n := 0
	for _, m := range round {
		if m.Status == models.MatchCompleted && m.WinnerID != nil {
			n++
		}
	}
	return n
}

// RoundCompleted reports whether every match of the round is completed with a
// winner. Cancelled matches (disqualifications) do not block completion.
func RoundCompleted(round []*models.Match) bool {
	if len(round) == 0 {
		return false
	}
	completed := 0
	for _, m := range round {
		switch m.Status {
		case models.MatchCompleted:
			if m.WinnerID == nil {
				return false
			}
			completed++
		case models.MatchCancelled:
		default:
			return false
		}
	}
	return completed > 0
}
