package usecase

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/hoopstack/hoops-tracker/external/nbastats"
	"github.com/hoopstack/hoops-tracker/internal/domain/datasync"
	"github.com/hoopstack/hoops-tracker/internal/domain/game"
	"github.com/hoopstack/hoops-tracker/internal/domain/player"
	"github.com/hoopstack/hoops-tracker/internal/domain/playerstat"
	"github.com/hoopstack/hoops-tracker/internal/domain/team"
)

// Mapper translates provider records into storage rows. It is pure:
// no IO, no clock, no mutation of its inputs. A bad record yields a
// MappingError naming the offending field and never a panic.
type Mapper struct{}

func NewMapper() *Mapper {
	return &Mapper{}
}

func (m *Mapper) MapTeam(record nbastats.TeamRecord) (team.Team, error) {
	externalID := strconv.FormatInt(record.ID, 10)
	if record.ID <= 0 {
		return team.Team{}, &datasync.MappingError{
			EntityType: datasync.EntityTeams, ExternalID: externalID,
			Field: "id", Reason: "missing or non-positive provider id",
		}
	}
	name := strings.TrimSpace(record.Name)
	if name == "" {
		return team.Team{}, &datasync.MappingError{
			EntityType: datasync.EntityTeams, ExternalID: externalID,
			Field: "full_name", Reason: "required field is empty",
		}
	}
	conference, ok := team.NormalizeConference(record.Conference)
	if !ok {
		return team.Team{}, &datasync.MappingError{
			EntityType: datasync.EntityTeams, ExternalID: externalID,
			Field: "conference", Reason: "unrecognized conference " + strconv.Quote(record.Conference),
		}
	}

	return team.Team{
		NBATeamID:    record.ID,
		Name:         name,
		Abbreviation: strings.ToUpper(strings.TrimSpace(record.Abbreviation)),
		City:         strings.TrimSpace(record.City),
		Conference:   conference,
		Division:     strings.TrimSpace(record.Division),
	}, nil
}

// MapPlayer resolves the player's team through teamIDByNBAID. A player
// with no team, or a team the sync has not seen, becomes a free agent
// rather than a mapping failure.
func (m *Mapper) MapPlayer(record nbastats.PlayerRecord, teamIDByNBAID map[int64]int64) (player.Player, error) {
	externalID := strconv.FormatInt(record.ID, 10)
	if record.ID <= 0 {
		return player.Player{}, &datasync.MappingError{
			EntityType: datasync.EntityPlayers, ExternalID: externalID,
			Field: "id", Reason: "missing or non-positive provider id",
		}
	}
	name := strings.TrimSpace(strings.TrimSpace(record.FirstName) + " " + strings.TrimSpace(record.LastName))
	if name == "" {
		return player.Player{}, &datasync.MappingError{
			EntityType: datasync.EntityPlayers, ExternalID: externalID,
			Field: "first_name", Reason: "player has no name",
		}
	}

	var teamID *int64
	if record.Team != nil && record.Team.ID > 0 {
		if id, ok := teamIDByNBAID[record.Team.ID]; ok {
			teamID = &id
		}
	}

	return player.Player{
		NBAPlayerID:  record.ID,
		Name:         name,
		TeamID:       teamID,
		Position:     strings.ToUpper(strings.TrimSpace(record.Position)),
		JerseyNumber: strings.TrimSpace(record.JerseyNumber),
		HeightInches: record.HeightInches,
		WeightPounds: record.WeightPounds,
		IsActive:     true,
	}, nil
}

func (m *Mapper) MapGame(record nbastats.GameRecord, seasonID int64, teamIDByNBAID map[int64]int64) (game.Game, error) {
	externalID := strconv.FormatInt(record.ID, 10)
	if record.ID <= 0 {
		return game.Game{}, &datasync.MappingError{
			EntityType: datasync.EntityGames, ExternalID: externalID,
			Field: "id", Reason: "missing or non-positive provider id",
		}
	}

	gameDate, err := parseGameDate(record.Date)
	if err != nil {
		return game.Game{}, &datasync.MappingError{
			EntityType: datasync.EntityGames, ExternalID: externalID,
			Field: "date", Reason: err.Error(),
		}
	}

	homeID, ok := teamIDByNBAID[record.HomeTeam.ID]
	if !ok {
		return game.Game{}, &datasync.MappingError{
			EntityType: datasync.EntityGames, ExternalID: externalID,
			Field: "home_team", Reason: "unknown home team " + strconv.FormatInt(record.HomeTeam.ID, 10),
		}
	}
	awayID, ok := teamIDByNBAID[record.AwayTeam.ID]
	if !ok {
		return game.Game{}, &datasync.MappingError{
			EntityType: datasync.EntityGames, ExternalID: externalID,
			Field: "visitor_team", Reason: "unknown away team " + strconv.FormatInt(record.AwayTeam.ID, 10),
		}
	}
	if homeID == awayID {
		return game.Game{}, &datasync.MappingError{
			EntityType: datasync.EntityGames, ExternalID: externalID,
			Field: "visitor_team", Reason: "home and away teams are identical",
		}
	}

	mapped := game.Game{
		NBAGameID:  record.ID,
		SeasonID:   seasonID,
		GameDate:   gameDate,
		HomeTeamID: homeID,
		AwayTeamID: awayID,
		Status:     normalizeGameStatus(record.Status),
	}
	if mapped.Status == game.StatusFinal {
		if record.HomeScore == nil || record.AwayScore == nil {
			return game.Game{}, &datasync.MappingError{
				EntityType: datasync.EntityGames, ExternalID: externalID,
				Field: "home_team_score", Reason: "final game is missing a score",
			}
		}
		mapped.HomeScore = record.HomeScore
		mapped.AwayScore = record.AwayScore
	} else {
		mapped.HomeScore = record.HomeScore
		mapped.AwayScore = record.AwayScore
	}
	return mapped, nil
}

// MapStatLine explodes one provider box score line into tall rows, one
// per box score key. Keys absent from the payload default to zero, so a
// light provider line still produces a complete set of rows.
func (m *Mapper) MapStatLine(record nbastats.StatRecord, playerID int64, g game.Game) ([]playerstat.Stat, error) {
	externalID := strconv.FormatInt(record.ID, 10)
	if record.Player.ID <= 0 {
		return nil, &datasync.MappingError{
			EntityType: datasync.EntityStats, ExternalID: externalID,
			Field: "player.id", Reason: "stat line has no player",
		}
	}
	if record.Game.ID <= 0 {
		return nil, &datasync.MappingError{
			EntityType: datasync.EntityStats, ExternalID: externalID,
			Field: "game.id", Reason: "stat line has no game",
		}
	}

	minutes, err := parseMinutes(record.Minutes)
	if err != nil {
		return nil, &datasync.MappingError{
			EntityType: datasync.EntityStats, ExternalID: externalID,
			Field: "min", Reason: err.Error(),
		}
	}

	values := map[playerstat.Key]float64{
		playerstat.KeyPoints:         record.Points,
		playerstat.KeyRebounds:       record.Rebounds,
		playerstat.KeyAssists:        record.Assists,
		playerstat.KeySteals:         record.Steals,
		playerstat.KeyBlocks:         record.Blocks,
		playerstat.KeyTurnovers:      record.Turnovers,
		playerstat.KeyFouls:          record.Fouls,
		playerstat.KeyMinutes:        minutes,
		playerstat.KeyFieldGoalsMade: record.FieldGoalsMade,
		playerstat.KeyFieldGoalsAtt:  record.FieldGoalsAtt,
		playerstat.KeyThreePtMade:    record.ThreePtMade,
		playerstat.KeyThreePtAtt:     record.ThreePtAtt,
		playerstat.KeyFreeThrowsMade: record.FreeThrowsMade,
		playerstat.KeyFreeThrowsAtt:  record.FreeThrowsAtt,
	}

	rows := make([]playerstat.Stat, 0, len(playerstat.BoxScoreKeys))
	for _, key := range playerstat.BoxScoreKeys {
		value := values[key]
		if value < 0 {
			return nil, &datasync.MappingError{
				EntityType: datasync.EntityStats, ExternalID: externalID,
				Field: string(key), Reason: "negative stat value",
			}
		}
		rows = append(rows, playerstat.Stat{
			PlayerID:  playerID,
			SeasonID:  g.SeasonID,
			GameID:    g.ID,
			NBAGameID: g.NBAGameID,
			GameDate:  g.GameDate,
			Key:       key,
			Value:     value,
		})
	}
	return rows, nil
}

func parseGameDate(raw string) (time.Time, error) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return time.Time{}, errors.New("required field is empty")
	}
	for _, layout := range []string{"2006-01-02", time.RFC3339} {
		if parsed, err := time.Parse(layout, value); err == nil {
			return parsed.UTC().Truncate(24 * time.Hour), nil
		}
	}
	return time.Time{}, errors.New("unparseable date " + strconv.Quote(raw))
}

// parseMinutes accepts "34", "34:12" or empty (did not play).
func parseMinutes(raw string) (float64, error) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return 0, nil
	}
	if whole, frac, ok := strings.Cut(value, ":"); ok {
		mins, err := strconv.Atoi(whole)
		if err != nil {
			return 0, errors.New("unparseable minutes " + strconv.Quote(raw))
		}
		secs, err := strconv.Atoi(frac)
		if err != nil || secs < 0 || secs >= 60 {
			return 0, errors.New("unparseable minutes " + strconv.Quote(raw))
		}
		return float64(mins) + float64(secs)/60, nil
	}
	mins, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, errors.New("unparseable minutes " + strconv.Quote(raw))
	}
	return mins, nil
}

func normalizeGameStatus(raw string) game.Status {
	value := strings.ToLower(strings.TrimSpace(raw))
	switch {
	case value == "final":
		return game.StatusFinal
	case strings.HasPrefix(value, "q") || value == "halftime" || strings.HasPrefix(value, "ot"):
		return game.StatusInProgress
	default:
		// Scheduled games carry the tip-off time as their status.
		return game.StatusScheduled
	}
}
