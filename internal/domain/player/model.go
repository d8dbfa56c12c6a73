package player

import (
	"fmt"
	"strings"
)

// Player is a provider-owned row. Players who leave the league are
// soft-deactivated, never deleted, so historical stats keep resolving.
type Player struct {
	ID           int64
	NBAPlayerID  int64
	Name         string
	TeamID       *int64
	Position     string
	JerseyNumber string
	HeightInches *int
	WeightPounds *int
	IsActive     bool
}

func (p Player) Validate() error {
	if p.NBAPlayerID <= 0 {
		return fmt.Errorf("player nba_player_id is required")
	}
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("player name is required")
	}
	return nil
}

// FreeAgent reports whether the player currently has no team affiliation.
func (p Player) FreeAgent() bool {
	return p.TeamID == nil
}
