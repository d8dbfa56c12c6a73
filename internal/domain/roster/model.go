package roster

import (
	"fmt"
	"strings"
	"time"
)

// MaxPlayers caps entries per roster, matching the NBA active-roster limit.
const MaxPlayers = 15

// Roster is a user-owned collection of players.
type Roster struct {
	ID        int64
	UserID    string
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (r Roster) Validate() error {
	if strings.TrimSpace(r.UserID) == "" {
		return fmt.Errorf("roster user id is required")
	}
	if strings.TrimSpace(r.Name) == "" {
		return fmt.Errorf("roster name is required")
	}
	if len(r.Name) > 100 {
		return fmt.Errorf("roster name exceeds 100 characters")
	}
	return nil
}

// Entry links one player into a roster.
type Entry struct {
	ID       int64
	RosterID int64
	PlayerID int64
	AddedAt  time.Time
}
