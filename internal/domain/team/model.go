package team

import (
	"fmt"
	"strings"
)

// Conference is the NBA conference a team plays in.
type Conference string

const (
	ConferenceEast Conference = "Eastern"
	ConferenceWest Conference = "Western"
)

// NormalizeConference maps provider spellings onto the two canonical values.
func NormalizeConference(raw string) (Conference, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "east", "eastern":
		return ConferenceEast, true
	case "west", "western":
		return ConferenceWest, true
	default:
		return "", false
	}
}

// Team is a provider-owned row; only the sync pipeline writes it.
type Team struct {
	ID           int64
	NBATeamID    int64
	Name         string
	Abbreviation string
	City         string
	Conference   Conference
	Division     string
}

func (t Team) Validate() error {
	if t.NBATeamID <= 0 {
		return fmt.Errorf("team nba_team_id is required")
	}
	if strings.TrimSpace(t.Name) == "" {
		return fmt.Errorf("team name is required")
	}
	if t.Conference != ConferenceEast && t.Conference != ConferenceWest {
		return fmt.Errorf("invalid team conference: %s", t.Conference)
	}
	return nil
}
