package bet

import (
	"fmt"
	"strings"
	"time"
)

type Side string

const (
	SideOver  Side = "over"
	SideUnder Side = "under"
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusActive    Status = "active"
	StatusWon       Status = "won"
	StatusLost      Status = "lost"
	StatusPush      Status = "push"
	StatusCancelled Status = "cancelled"
)

// Bet is a user's over/under pick on one player stat line for one game.
type Bet struct {
	ID        int64
	UserID    string
	PlayerID  int64
	GameID    int64
	StatKey   string
	Line      float64
	Side      Side
	Amount    float64
	Status    Status
	SettledAt *time.Time
	CreatedAt time.Time
}

func (b Bet) Validate() error {
	if strings.TrimSpace(b.UserID) == "" {
		return fmt.Errorf("bet user id is required")
	}
	if b.PlayerID <= 0 || b.GameID <= 0 {
		return fmt.Errorf("bet requires player and game ids")
	}
	if strings.TrimSpace(b.StatKey) == "" {
		return fmt.Errorf("bet stat key is required")
	}
	if b.Side != SideOver && b.Side != SideUnder {
		return fmt.Errorf("invalid bet side %q", b.Side)
	}
	if b.Amount <= 0 {
		return fmt.Errorf("bet amount must be positive")
	}
	return nil
}

// Settle resolves the bet against the actual stat value. Only pending or
// active bets settle; a value exactly on the line is a push.
func (b *Bet) Settle(actual float64, at time.Time) error {
	if b.Status != StatusPending && b.Status != StatusActive {
		return fmt.Errorf("bet %d already settled as %s", b.ID, b.Status)
	}
	switch {
	case actual == b.Line:
		b.Status = StatusPush
	case (actual > b.Line) == (b.Side == SideOver):
		b.Status = StatusWon
	default:
		b.Status = StatusLost
	}
	b.SettledAt = &at
	return nil
}
