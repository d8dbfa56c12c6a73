package cache

import (
	"context"
	"strconv"
	"strings"

	"github.com/hoopstack/hoops-tracker/internal/domain/datasync"
	"github.com/hoopstack/hoops-tracker/internal/domain/game"
	"github.com/hoopstack/hoops-tracker/internal/domain/player"
	"github.com/hoopstack/hoops-tracker/internal/domain/playerstat"
	"github.com/hoopstack/hoops-tracker/internal/domain/standing"
	"github.com/hoopstack/hoops-tracker/internal/domain/team"
	basecache "github.com/hoopstack/hoops-tracker/internal/platform/cache"
)

// Decorators wrap the storage repositories with read-through caching.
// Writes pass through and drop the affected keys; the sync pipeline
// additionally drops whole key families via Invalidator after a batch.

type TeamRepository struct {
	next  team.Repository
	cache *basecache.Store
}

func NewTeamRepository(next team.Repository, cache *basecache.Store) *TeamRepository {
	return &TeamRepository{next: next, cache: cache}
}

func (r *TeamRepository) GetByID(ctx context.Context, id int64) (*team.Team, error) {
	key := "team:id:" + strconv.FormatInt(id, 10)
	v, err := r.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		return r.next.GetByID(ctx, id)
	})
	if err != nil {
		return nil, err
	}
	return cloneTeam(v.(*team.Team)), nil
}

func (r *TeamRepository) GetByNBATeamID(ctx context.Context, nbaTeamID int64) (*team.Team, error) {
	key := "team:nba:" + strconv.FormatInt(nbaTeamID, 10)
	v, err := r.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		return r.next.GetByNBATeamID(ctx, nbaTeamID)
	})
	if err != nil {
		return nil, err
	}
	return cloneTeam(v.(*team.Team)), nil
}

func (r *TeamRepository) List(ctx context.Context) ([]team.Team, error) {
	v, err := r.cache.GetOrLoad(ctx, "team:list", func(ctx context.Context) (any, error) {
		items, err := r.next.List(ctx)
		if err != nil {
			return nil, err
		}
		return append([]team.Team(nil), items...), nil
	})
	if err != nil {
		return nil, err
	}
	items, _ := v.([]team.Team)
	return append([]team.Team(nil), items...), nil
}

func (r *TeamRepository) Upsert(ctx context.Context, t *team.Team) (datasync.UpsertOutcome, error) {
	outcome, err := r.next.Upsert(ctx, t)
	if err != nil {
		return outcome, err
	}
	if outcome != datasync.OutcomeSkipped {
		r.cache.Delete(ctx, "team:list")
		r.cache.Delete(ctx, "team:id:"+strconv.FormatInt(t.ID, 10))
		r.cache.Delete(ctx, "team:nba:"+strconv.FormatInt(t.NBATeamID, 10))
	}
	return outcome, nil
}

func cloneTeam(t *team.Team) *team.Team {
	out := *t
	return &out
}

type PlayerRepository struct {
	next  player.Repository
	cache *basecache.Store
}

func NewPlayerRepository(next player.Repository, cache *basecache.Store) *PlayerRepository {
	return &PlayerRepository{next: next, cache: cache}
}

func (r *PlayerRepository) GetByID(ctx context.Context, id int64) (*player.Player, error) {
	key := "player:id:" + strconv.FormatInt(id, 10)
	v, err := r.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		return r.next.GetByID(ctx, id)
	})
	if err != nil {
		return nil, err
	}
	return clonePlayer(v.(*player.Player)), nil
}

func (r *PlayerRepository) GetByNBAPlayerID(ctx context.Context, nbaPlayerID int64) (*player.Player, error) {
	key := "player:nba:" + strconv.FormatInt(nbaPlayerID, 10)
	v, err := r.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		return r.next.GetByNBAPlayerID(ctx, nbaPlayerID)
	})
	if err != nil {
		return nil, err
	}
	return clonePlayer(v.(*player.Player)), nil
}

func (r *PlayerRepository) Search(ctx context.Context, filter player.SearchFilter) ([]player.Player, int, error) {
	v, err := r.cache.GetOrLoad(ctx, searchKey(filter), func(ctx context.Context) (any, error) {
		rows, total, err := r.next.Search(ctx, filter)
		if err != nil {
			return nil, err
		}
		return cachedSearch{rows: append([]player.Player(nil), rows...), total: total}, nil
	})
	if err != nil {
		return nil, 0, err
	}
	cached, _ := v.(cachedSearch)
	return append([]player.Player(nil), cached.rows...), cached.total, nil
}

func (r *PlayerRepository) Upsert(ctx context.Context, p *player.Player) (datasync.UpsertOutcome, error) {
	outcome, err := r.next.Upsert(ctx, p)
	if err != nil {
		return outcome, err
	}
	if outcome != datasync.OutcomeSkipped {
		r.cache.DeletePrefix(ctx, "player:")
	}
	return outcome, nil
}

func (r *PlayerRepository) DeactivateMissing(ctx context.Context, seen []int64) (int, error) {
	count, err := r.next.DeactivateMissing(ctx, seen)
	if err != nil {
		return 0, err
	}
	if count > 0 {
		r.cache.DeletePrefix(ctx, "player:")
	}
	return count, nil
}

type cachedSearch struct {
	rows  []player.Player
	total int
}

func searchKey(filter player.SearchFilter) string {
	var b strings.Builder
	b.WriteString("player:search:q=")
	b.WriteString(strings.ToLower(strings.TrimSpace(filter.Query)))
	b.WriteString(":team=")
	if filter.TeamID != nil {
		b.WriteString(strconv.FormatInt(*filter.TeamID, 10))
	}
	b.WriteString(":inactive=")
	b.WriteString(strconv.FormatBool(filter.IncludeInactive))
	b.WriteString(":limit=")
	b.WriteString(strconv.Itoa(filter.Limit))
	b.WriteString(":offset=")
	b.WriteString(strconv.Itoa(filter.Offset))
	return b.String()
}

func clonePlayer(p *player.Player) *player.Player {
	out := *p
	if p.TeamID != nil {
		teamID := *p.TeamID
		out.TeamID = &teamID
	}
	return &out
}

type GameRepository struct {
	next  game.Repository
	cache *basecache.Store
}

func NewGameRepository(next game.Repository, cache *basecache.Store) *GameRepository {
	return &GameRepository{next: next, cache: cache}
}

func (r *GameRepository) GetByID(ctx context.Context, id int64) (*game.Game, error) {
	key := "game:id:" + strconv.FormatInt(id, 10)
	v, err := r.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		return r.next.GetByID(ctx, id)
	})
	if err != nil {
		return nil, err
	}
	return cloneGame(v.(*game.Game)), nil
}

func (r *GameRepository) GetByNBAGameID(ctx context.Context, nbaGameID int64) (*game.Game, error) {
	key := "game:nba:" + strconv.FormatInt(nbaGameID, 10)
	v, err := r.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		return r.next.GetByNBAGameID(ctx, nbaGameID)
	})
	if err != nil {
		return nil, err
	}
	return cloneGame(v.(*game.Game)), nil
}

func (r *GameRepository) ListBySeason(ctx context.Context, seasonID int64) ([]game.Game, error) {
	key := "game:season:" + strconv.FormatInt(seasonID, 10)
	return r.cachedGameList(ctx, key, func(ctx context.Context) ([]game.Game, error) {
		return r.next.ListBySeason(ctx, seasonID)
	})
}

func (r *GameRepository) ListFinalBySeason(ctx context.Context, seasonID int64) ([]game.Game, error) {
	key := "game:final:" + strconv.FormatInt(seasonID, 10)
	return r.cachedGameList(ctx, key, func(ctx context.Context) ([]game.Game, error) {
		return r.next.ListFinalBySeason(ctx, seasonID)
	})
}

func (r *GameRepository) Upsert(ctx context.Context, g *game.Game) (datasync.UpsertOutcome, error) {
	outcome, err := r.next.Upsert(ctx, g)
	if err != nil {
		return outcome, err
	}
	if outcome != datasync.OutcomeSkipped {
		r.cache.DeletePrefix(ctx, "game:")
	}
	return outcome, nil
}

func (r *GameRepository) cachedGameList(ctx context.Context, key string, load func(context.Context) ([]game.Game, error)) ([]game.Game, error) {
	v, err := r.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		items, err := load(ctx)
		if err != nil {
			return nil, err
		}
		return append([]game.Game(nil), items...), nil
	})
	if err != nil {
		return nil, err
	}
	items, _ := v.([]game.Game)
	return append([]game.Game(nil), items...), nil
}

func cloneGame(g *game.Game) *game.Game {
	out := *g
	if g.HomeScore != nil {
		score := *g.HomeScore
		out.HomeScore = &score
	}
	if g.AwayScore != nil {
		score := *g.AwayScore
		out.AwayScore = &score
	}
	return &out
}

type PlayerStatRepository struct {
	next  playerstat.Repository
	cache *basecache.Store
}

func NewPlayerStatRepository(next playerstat.Repository, cache *basecache.Store) *PlayerStatRepository {
	return &PlayerStatRepository{next: next, cache: cache}
}

func (r *PlayerStatRepository) Upsert(ctx context.Context, s *playerstat.Stat) (datasync.UpsertOutcome, error) {
	outcome, err := r.next.Upsert(ctx, s)
	if err != nil {
		return outcome, err
	}
	if outcome != datasync.OutcomeSkipped {
		playerID := strconv.FormatInt(s.PlayerID, 10)
		seasonID := strconv.FormatInt(s.SeasonID, 10)
		r.cache.Delete(ctx, "stat:avg:"+playerID+":"+seasonID)
		r.cache.Delete(ctx, "stat:log:"+playerID+":"+seasonID)
		r.cache.DeletePrefix(ctx, "stat:leaders:")
	}
	return outcome, nil
}

func (r *PlayerStatRepository) ListByPlayerSeason(ctx context.Context, playerID, seasonID int64) ([]playerstat.Stat, error) {
	key := "stat:log:" + strconv.FormatInt(playerID, 10) + ":" + strconv.FormatInt(seasonID, 10)
	v, err := r.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		items, err := r.next.ListByPlayerSeason(ctx, playerID, seasonID)
		if err != nil {
			return nil, err
		}
		return append([]playerstat.Stat(nil), items...), nil
	})
	if err != nil {
		return nil, err
	}
	items, _ := v.([]playerstat.Stat)
	return append([]playerstat.Stat(nil), items...), nil
}

func (r *PlayerStatRepository) Leaders(ctx context.Context, seasonID int64, key playerstat.Key, limit int) ([]playerstat.LeaderRow, error) {
	cacheKey := "stat:leaders:" + strconv.FormatInt(seasonID, 10) + ":" + string(key) + ":" + strconv.Itoa(limit)
	v, err := r.cache.GetOrLoad(ctx, cacheKey, func(ctx context.Context) (any, error) {
		items, err := r.next.Leaders(ctx, seasonID, key, limit)
		if err != nil {
			return nil, err
		}
		return append([]playerstat.LeaderRow(nil), items...), nil
	})
	if err != nil {
		return nil, err
	}
	items, _ := v.([]playerstat.LeaderRow)
	return append([]playerstat.LeaderRow(nil), items...), nil
}

func (r *PlayerStatRepository) Averages(ctx context.Context, playerID, seasonID int64) (*playerstat.SeasonAverages, error) {
	key := "stat:avg:" + strconv.FormatInt(playerID, 10) + ":" + strconv.FormatInt(seasonID, 10)
	v, err := r.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		return r.next.Averages(ctx, playerID, seasonID)
	})
	if err != nil {
		return nil, err
	}
	cached := v.(*playerstat.SeasonAverages)
	out := *cached
	out.PerGame = make(map[playerstat.Key]float64, len(cached.PerGame))
	for k, value := range cached.PerGame {
		out.PerGame[k] = value
	}
	return &out, nil
}

type StandingRepository struct {
	next  standing.Repository
	cache *basecache.Store
}

func NewStandingRepository(next standing.Repository, cache *basecache.Store) *StandingRepository {
	return &StandingRepository{next: next, cache: cache}
}

func (r *StandingRepository) ListBySeason(ctx context.Context, seasonID int64) ([]standing.Standing, error) {
	key := "standing:season:" + strconv.FormatInt(seasonID, 10)
	v, err := r.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		items, err := r.next.ListBySeason(ctx, seasonID)
		if err != nil {
			return nil, err
		}
		return append([]standing.Standing(nil), items...), nil
	})
	if err != nil {
		return nil, err
	}
	items, _ := v.([]standing.Standing)
	return append([]standing.Standing(nil), items...), nil
}

func (r *StandingRepository) GetByTeamSeason(ctx context.Context, teamID, seasonID int64) (*standing.Standing, error) {
	key := "standing:team:" + strconv.FormatInt(teamID, 10) + ":" + strconv.FormatInt(seasonID, 10)
	v, err := r.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		return r.next.GetByTeamSeason(ctx, teamID, seasonID)
	})
	if err != nil {
		return nil, err
	}
	cached := v.(*standing.Standing)
	out := *cached
	return &out, nil
}

func (r *StandingRepository) ReplaceBySeason(ctx context.Context, seasonID int64, rows []standing.Standing) error {
	if err := r.next.ReplaceBySeason(ctx, seasonID, rows); err != nil {
		return err
	}
	r.cache.DeletePrefix(ctx, "standing:")
	return nil
}
