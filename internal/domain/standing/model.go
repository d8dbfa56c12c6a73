package standing

import "fmt"

// Standing is one team's won-lost record for a season. Rows are derived
// entirely from final games and rebuilt by the recalculator; they are
// never edited directly.
type Standing struct {
	ID          int64
	TeamID      int64
	SeasonID    int64
	Wins        int
	Losses      int
	Ties        int
	GamesPlayed int
	WinPct      float64
	GamesBehind float64
}

func (s Standing) Validate() error {
	if s.TeamID <= 0 {
		return fmt.Errorf("standing team id is required")
	}
	if s.SeasonID <= 0 {
		return fmt.Errorf("standing season id is required")
	}
	if s.Wins < 0 || s.Losses < 0 || s.Ties < 0 {
		return fmt.Errorf("standing counts must be non-negative")
	}
	if s.GamesPlayed != s.Wins+s.Losses+s.Ties {
		return fmt.Errorf("standing games played %d does not match record %d-%d-%d",
			s.GamesPlayed, s.Wins, s.Losses, s.Ties)
	}
	return nil
}

// WinDiff is wins minus losses, the quantity games-behind compares.
func (s Standing) WinDiff() int {
	return s.Wins - s.Losses
}
