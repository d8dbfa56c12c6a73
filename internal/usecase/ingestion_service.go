package usecase

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/hoopstack/hoops-tracker/external/nbastats"
	"github.com/hoopstack/hoops-tracker/internal/domain/datasync"
	"github.com/hoopstack/hoops-tracker/internal/domain/game"
	"github.com/hoopstack/hoops-tracker/internal/domain/player"
	"github.com/hoopstack/hoops-tracker/internal/domain/playerstat"
	"github.com/hoopstack/hoops-tracker/internal/domain/team"
	"github.com/hoopstack/hoops-tracker/internal/platform/logging"
)

// IngestionService is the upsert engine: it maps provider records into
// rows and writes them batch-wise. A bad row is quarantined into the
// batch report; only transient or fatal failures abort the batch.
type IngestionService struct {
	teams   team.Repository
	players player.Repository
	games   game.Repository
	stats   playerstat.Repository
	mapper  *Mapper
	logger  *logging.Logger
}

func NewIngestionService(
	teams team.Repository,
	players player.Repository,
	games game.Repository,
	stats playerstat.Repository,
	logger *logging.Logger,
) *IngestionService {
	if logger == nil {
		logger = logging.Default()
	}
	return &IngestionService{
		teams:   teams,
		players: players,
		games:   games,
		stats:   stats,
		mapper:  NewMapper(),
		logger:  logger,
	}
}

func (s *IngestionService) UpsertTeams(ctx context.Context, records []nbastats.TeamRecord) (datasync.BatchReport, error) {
	ctx, span := startUsecaseSpan(ctx, "IngestionService.UpsertTeams")
	defer span.End()

	var report datasync.BatchReport
	rows := s.mapTeams(ctx, &report, records)
	err := s.writeTeams(ctx, &report, rows)
	return report, err
}

// mapTeams translates a fetched page, quarantining records that do not
// map. It performs no writes.
func (s *IngestionService) mapTeams(ctx context.Context, report *datasync.BatchReport, records []nbastats.TeamRecord) []team.Team {
	rows := make([]team.Team, 0, len(records))
	for _, record := range records {
		mapped, err := s.mapper.MapTeam(record)
		if err != nil {
			s.quarantine(ctx, report, datasync.EntityTeams, strconv.FormatInt(record.ID, 10), err)
			continue
		}
		rows = append(rows, mapped)
	}
	return rows
}

func (s *IngestionService) writeTeams(ctx context.Context, report *datasync.BatchReport, rows []team.Team) error {
	ctx, span := startUsecaseSpan(ctx, "IngestionService.WriteTeams")
	defer span.End()

	for i := range rows {
		outcome, err := s.teams.Upsert(ctx, &rows[i])
		if err != nil {
			if abort := s.rowOrAbort(ctx, report, datasync.EntityTeams, strconv.FormatInt(rows[i].NBATeamID, 10), err); abort != nil {
				return abort
			}
			continue
		}
		report.Record(outcome)
	}
	s.logger.InfoContext(ctx, "teams batch upserted", "report", report.String())
	return nil
}

// UpsertPlayers also returns every provider player id it saw, so the
// caller can soft-deactivate players that dropped off the feed.
func (s *IngestionService) UpsertPlayers(ctx context.Context, records []nbastats.PlayerRecord) (datasync.BatchReport, []int64, error) {
	ctx, span := startUsecaseSpan(ctx, "IngestionService.UpsertPlayers")
	defer span.End()

	var report datasync.BatchReport
	rows, err := s.mapPlayers(ctx, &report, records)
	if err != nil {
		return report, nil, err
	}
	seen, err := s.writePlayers(ctx, &report, rows)
	return report, seen, err
}

// mapPlayers resolves team references through the stored team index and
// translates the page. Unmappable records are quarantined.
func (s *IngestionService) mapPlayers(ctx context.Context, report *datasync.BatchReport, records []nbastats.PlayerRecord) ([]player.Player, error) {
	ctx, span := startUsecaseSpan(ctx, "IngestionService.MapPlayers")
	defer span.End()

	teamIndex, err := s.teamIndex(ctx)
	if err != nil {
		return nil, err
	}

	rows := make([]player.Player, 0, len(records))
	for _, record := range records {
		mapped, err := s.mapper.MapPlayer(record, teamIndex)
		if err != nil {
			s.quarantine(ctx, report, datasync.EntityPlayers, strconv.FormatInt(record.ID, 10), err)
			continue
		}
		rows = append(rows, mapped)
	}
	return rows, nil
}

func (s *IngestionService) writePlayers(ctx context.Context, report *datasync.BatchReport, rows []player.Player) ([]int64, error) {
	ctx, span := startUsecaseSpan(ctx, "IngestionService.WritePlayers")
	defer span.End()

	seen := make([]int64, 0, len(rows))
	for i := range rows {
		outcome, err := s.players.Upsert(ctx, &rows[i])
		if err != nil {
			if abort := s.rowOrAbort(ctx, report, datasync.EntityPlayers, strconv.FormatInt(rows[i].NBAPlayerID, 10), err); abort != nil {
				return seen, abort
			}
			continue
		}
		report.Record(outcome)
		seen = append(seen, rows[i].NBAPlayerID)
	}
	s.logger.InfoContext(ctx, "players batch upserted", "report", report.String())
	return seen, nil
}

func (s *IngestionService) DeactivateMissingPlayers(ctx context.Context, seen []int64) (int, error) {
	count, err := s.players.DeactivateMissing(ctx, seen)
	if err != nil {
		return 0, fmt.Errorf("deactivate missing players: %w", err)
	}
	if count > 0 {
		s.logger.InfoContext(ctx, "players deactivated", "count", count)
	}
	return count, nil
}

func (s *IngestionService) UpsertGames(ctx context.Context, seasonID int64, records []nbastats.GameRecord) (datasync.BatchReport, error) {
	ctx, span := startUsecaseSpan(ctx, "IngestionService.UpsertGames")
	defer span.End()

	var report datasync.BatchReport
	rows, err := s.mapGames(ctx, &report, seasonID, records)
	if err != nil {
		return report, err
	}
	err = s.writeGames(ctx, &report, seasonID, rows)
	return report, err
}

func (s *IngestionService) mapGames(ctx context.Context, report *datasync.BatchReport, seasonID int64, records []nbastats.GameRecord) ([]game.Game, error) {
	ctx, span := startUsecaseSpan(ctx, "IngestionService.MapGames")
	defer span.End()

	teamIndex, err := s.teamIndex(ctx)
	if err != nil {
		return nil, err
	}

	rows := make([]game.Game, 0, len(records))
	for _, record := range records {
		mapped, err := s.mapper.MapGame(record, seasonID, teamIndex)
		if err != nil {
			s.quarantine(ctx, report, datasync.EntityGames, strconv.FormatInt(record.ID, 10), err)
			continue
		}
		rows = append(rows, mapped)
	}
	return rows, nil
}

func (s *IngestionService) writeGames(ctx context.Context, report *datasync.BatchReport, seasonID int64, rows []game.Game) error {
	ctx, span := startUsecaseSpan(ctx, "IngestionService.WriteGames")
	defer span.End()

	for i := range rows {
		outcome, err := s.games.Upsert(ctx, &rows[i])
		if err != nil {
			if abort := s.rowOrAbort(ctx, report, datasync.EntityGames, strconv.FormatInt(rows[i].NBAGameID, 10), err); abort != nil {
				return abort
			}
			continue
		}
		report.Record(outcome)
	}
	s.logger.InfoContext(ctx, "games batch upserted", "season_id", seasonID, "report", report.String())
	return nil
}

// UpsertStatLines explodes each provider box score line into tall rows.
// All rows of a line share its fate: one unmappable value quarantines
// the whole line, and a row-level write failure quarantines the rest.
func (s *IngestionService) UpsertStatLines(ctx context.Context, records []nbastats.StatRecord) (datasync.BatchReport, error) {
	ctx, span := startUsecaseSpan(ctx, "IngestionService.UpsertStatLines")
	defer span.End()

	var report datasync.BatchReport
	gameCache := make(map[int64]*game.Game)
	playerCache := make(map[int64]*player.Player)

	for _, record := range records {
		key := strconv.FormatInt(record.ID, 10)

		g, err := s.lookupGame(ctx, gameCache, record.Game.ID)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				report.AddFailure(datasync.EntityStats, key, "game.id",
					"game "+strconv.FormatInt(record.Game.ID, 10)+" not synced")
				continue
			}
			return report, err
		}
		p, err := s.lookupPlayer(ctx, playerCache, record.Player.ID)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				report.AddFailure(datasync.EntityStats, key, "player.id",
					"player "+strconv.FormatInt(record.Player.ID, 10)+" not synced")
				continue
			}
			return report, err
		}

		rows, err := s.mapper.MapStatLine(record, p.ID, *g)
		if err != nil {
			s.quarantine(ctx, &report, datasync.EntityStats, key, err)
			continue
		}

		lineReport := datasync.BatchReport{}
		lineFailed := false
		for i := range rows {
			outcome, err := s.stats.Upsert(ctx, &rows[i])
			if err != nil {
				if abort := s.rowOrAbort(ctx, &report, datasync.EntityStats, key, err); abort != nil {
					return report, abort
				}
				lineFailed = true
				break
			}
			lineReport.Record(outcome)
		}
		if lineFailed {
			continue
		}
		report.Merge(lineReport)
	}
	s.logger.InfoContext(ctx, "stat lines batch upserted", "report", report.String())
	return report, nil
}

func (s *IngestionService) teamIndex(ctx context.Context) (map[int64]int64, error) {
	teams, err := s.teams.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list teams for mapping: %w", err)
	}
	index := make(map[int64]int64, len(teams))
	for _, t := range teams {
		index[t.NBATeamID] = t.ID
	}
	return index, nil
}

func (s *IngestionService) lookupGame(ctx context.Context, cache map[int64]*game.Game, nbaGameID int64) (*game.Game, error) {
	if g, ok := cache[nbaGameID]; ok {
		if g == nil {
			return nil, fmt.Errorf("%w: game nba_game_id=%d", ErrNotFound, nbaGameID)
		}
		return g, nil
	}
	g, err := s.games.GetByNBAGameID(ctx, nbaGameID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			cache[nbaGameID] = nil
		}
		return nil, err
	}
	cache[nbaGameID] = g
	return g, nil
}

func (s *IngestionService) lookupPlayer(ctx context.Context, cache map[int64]*player.Player, nbaPlayerID int64) (*player.Player, error) {
	if p, ok := cache[nbaPlayerID]; ok {
		if p == nil {
			return nil, fmt.Errorf("%w: player nba_player_id=%d", ErrNotFound, nbaPlayerID)
		}
		return p, nil
	}
	p, err := s.players.GetByNBAPlayerID(ctx, nbaPlayerID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			cache[nbaPlayerID] = nil
		}
		return nil, err
	}
	cache[nbaPlayerID] = p
	return p, nil
}

func (s *IngestionService) quarantine(ctx context.Context, report *datasync.BatchReport, entity datasync.EntityType, key string, err error) {
	var mappingErr *datasync.MappingError
	if errors.As(err, &mappingErr) {
		report.AddFailure(entity, mappingErr.ExternalID, mappingErr.Field, mappingErr.Reason)
	} else {
		report.AddFailure(entity, key, "", err.Error())
	}
	s.logger.WarnContext(ctx, "row quarantined", "entity", entity, "key", key, "error", err)
}

// rowOrAbort decides whether a write error dooms only the row or the
// whole batch. It returns a non-nil error only for batch-fatal cases.
func (s *IngestionService) rowOrAbort(ctx context.Context, report *datasync.BatchReport, entity datasync.EntityType, key string, err error) error {
	if datasync.IsTransient(err) || datasync.IsFatal(err) {
		return fmt.Errorf("upsert %s key=%s: %w", entity, key, err)
	}

	var constraintErr *datasync.ConstraintError
	if errors.As(err, &constraintErr) {
		report.AddFailure(entity, constraintErr.Key, "", constraintErr.Error())
	} else {
		report.AddFailure(entity, key, "", err.Error())
	}
	s.logger.WarnContext(ctx, "row write rejected", "entity", entity, "key", key, "error", err)
	return nil
}
