package game

import (
	"fmt"
	"time"
)

type Status string

const (
	StatusScheduled  Status = "scheduled"
	StatusInProgress Status = "in_progress"
	StatusFinal      Status = "final"
)

type Game struct {
	ID         int64
	NBAGameID  int64
	SeasonID   int64
	GameDate   time.Time
	HomeTeamID int64
	AwayTeamID int64
	HomeScore  *int
	AwayScore  *int
	Status     Status
}

func (g Game) Validate() error {
	if g.NBAGameID <= 0 {
		return fmt.Errorf("game nba_game_id is required")
	}
	if g.HomeTeamID <= 0 || g.AwayTeamID <= 0 {
		return fmt.Errorf("game requires both team ids")
	}
	if g.HomeTeamID == g.AwayTeamID {
		return fmt.Errorf("game home and away teams must differ")
	}
	if g.GameDate.IsZero() {
		return fmt.Errorf("game date is required")
	}
	return nil
}

// IsFinal reports whether the game counts toward standings.
func (g Game) IsFinal() bool {
	return g.Status == StatusFinal && g.HomeScore != nil && g.AwayScore != nil
}

// Winner returns the winning team id for a final game, or 0 on a tie.
func (g Game) Winner() int64 {
	if !g.IsFinal() {
		return 0
	}
	switch {
	case *g.HomeScore > *g.AwayScore:
		return g.HomeTeamID
	case *g.AwayScore > *g.HomeScore:
		return g.AwayTeamID
	default:
		return 0
	}
}
