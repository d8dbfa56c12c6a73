package postgres

import (
	"database/sql"
	"time"

	"github.com/hoopstack/hoops-tracker/internal/domain/playerstat"
)

type playerStatTableModel struct {
	ID        int64     `db:"id"`
	PlayerID  int64     `db:"player_id"`
	SeasonID  int64     `db:"season_id"`
	GameID    int64     `db:"game_id"`
	NBAGameID int64     `db:"nba_game_id"`
	GameDate  time.Time `db:"game_date"`
	Key       string    `db:"stat_key"`
	Value     float64   `db:"value"`
}

type playerStatInsertModel struct {
	PlayerID  int64     `db:"player_id"`
	SeasonID  int64     `db:"season_id"`
	GameID    int64     `db:"game_id"`
	NBAGameID int64     `db:"nba_game_id"`
	GameDate  time.Time `db:"game_date"`
	Key       string    `db:"stat_key"`
	Value     float64   `db:"value"`
}

func (m playerStatTableModel) toDomain() playerstat.Stat {
	return playerstat.Stat{
		ID:        m.ID,
		PlayerID:  m.PlayerID,
		SeasonID:  m.SeasonID,
		GameID:    m.GameID,
		NBAGameID: m.NBAGameID,
		GameDate:  m.GameDate,
		Key:       playerstat.Key(m.Key),
		Value:     m.Value,
	}
}

type leaderRowModel struct {
	PlayerID    int64         `db:"player_id"`
	PlayerName  string        `db:"player_name"`
	TeamID      sql.NullInt64 `db:"team_id"`
	GamesPlayed int           `db:"games_played"`
	Total       float64       `db:"total"`
	PerGame     float64       `db:"per_game"`
}

type statAverageRowModel struct {
	Key   string  `db:"stat_key"`
	Total float64 `db:"total"`
}
