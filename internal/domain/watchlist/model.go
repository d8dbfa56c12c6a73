package watchlist

import (
	"fmt"
	"strings"
	"time"
)

// Item is one player a user is following. Unique per (user, player).
type Item struct {
	ID       int64
	UserID   string
	PlayerID int64
	Note     string
	AddedAt  time.Time
}

func (i Item) Validate() error {
	if strings.TrimSpace(i.UserID) == "" {
		return fmt.Errorf("watchlist user id is required")
	}
	if i.PlayerID <= 0 {
		return fmt.Errorf("watchlist player id is required")
	}
	if len(i.Note) > 500 {
		return fmt.Errorf("watchlist note exceeds 500 characters")
	}
	return nil
}
