package postgres

import (
	"time"

	"github.com/hoopstack/hoops-tracker/internal/domain/season"
)

type seasonTableModel struct {
	ID        int64     `db:"id"`
	Year      int       `db:"year"`
	Type      string    `db:"season_type"`
	IsCurrent bool      `db:"is_current"`
	CreatedAt time.Time `db:"created_at"`
}

func (m seasonTableModel) toDomain() season.Season {
	return season.Season{
		ID:        m.ID,
		Year:      m.Year,
		Type:      season.Type(m.Type),
		IsCurrent: m.IsCurrent,
	}
}
