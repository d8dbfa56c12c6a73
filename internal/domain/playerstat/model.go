package playerstat

import (
	"fmt"
	"time"
)

// Key names one per-game statistic. Stats are stored tall: one row per
// player, game and key, so new keys never require schema changes.
type Key string

const (
	KeyPoints          Key = "pts"
	KeyRebounds        Key = "reb"
	KeyAssists         Key = "ast"
	KeySteals          Key = "stl"
	KeyBlocks          Key = "blk"
	KeyTurnovers       Key = "tov"
	KeyFouls           Key = "pf"
	KeyMinutes         Key = "min"
	KeyFieldGoalsMade  Key = "fg_made"
	KeyFieldGoalsAtt   Key = "fg_att"
	KeyThreePtMade     Key = "fg3_made"
	KeyThreePtAtt      Key = "fg3_att"
	KeyFreeThrowsMade  Key = "ft_made"
	KeyFreeThrowsAtt   Key = "ft_att"
	KeyOffensiveRebs   Key = "oreb"
	KeyDefensiveRebs   Key = "dreb"
	KeyFieldGoalPct    Key = "fg_pct"
	KeyThreePtPct      Key = "fg3_pct"
	KeyFreeThrowPct    Key = "ft_pct"
)

// BoxScoreKeys are the keys the sync pipeline extracts from provider
// box scores. Percentage keys are derived on read, never stored.
var BoxScoreKeys = []Key{
	KeyPoints, KeyRebounds, KeyAssists, KeySteals, KeyBlocks,
	KeyTurnovers, KeyFouls, KeyMinutes,
	KeyFieldGoalsMade, KeyFieldGoalsAtt,
	KeyThreePtMade, KeyThreePtAtt,
	KeyFreeThrowsMade, KeyFreeThrowsAtt,
}

var validKeys = func() map[Key]struct{} {
	keys := map[Key]struct{}{
		KeyOffensiveRebs: {}, KeyDefensiveRebs: {},
		KeyFieldGoalPct: {}, KeyThreePtPct: {}, KeyFreeThrowPct: {},
	}
	for _, k := range BoxScoreKeys {
		keys[k] = struct{}{}
	}
	return keys
}()

func ParseKey(value string) (Key, error) {
	if _, ok := validKeys[Key(value)]; !ok {
		return "", fmt.Errorf("unknown stat key %q", value)
	}
	return Key(value), nil
}

// Stat is one tall row. The tuple (PlayerID, SeasonID, Key, GameDate,
// NBAGameID) is unique; re-syncing the same box score overwrites in place.
type Stat struct {
	ID        int64
	PlayerID  int64
	SeasonID  int64
	GameID    int64
	NBAGameID int64
	GameDate  time.Time
	Key       Key
	Value     float64
}

func (s Stat) Validate() error {
	if s.PlayerID <= 0 {
		return fmt.Errorf("stat player id is required")
	}
	if s.SeasonID <= 0 {
		return fmt.Errorf("stat season id is required")
	}
	if s.NBAGameID <= 0 {
		return fmt.Errorf("stat nba_game_id is required")
	}
	if _, ok := validKeys[s.Key]; !ok {
		return fmt.Errorf("unknown stat key %q", s.Key)
	}
	if s.Value < 0 {
		return fmt.Errorf("stat value must be non-negative")
	}
	return nil
}

// LeaderRow is one entry in a per-key season leaderboard.
type LeaderRow struct {
	PlayerID    int64   `json:"player_id"`
	PlayerName  string  `json:"player_name"`
	TeamID      *int64  `json:"team_id,omitempty"`
	GamesPlayed int     `json:"games_played"`
	Total       float64 `json:"total"`
	PerGame     float64 `json:"per_game"`
}

// SeasonAverages is a player's per-game line for one season.
type SeasonAverages struct {
	SeasonID    int64           `json:"season_id"`
	GamesPlayed int             `json:"games_played"`
	PerGame     map[Key]float64 `json:"per_game"`
}
