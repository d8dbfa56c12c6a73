package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/hoopstack/hoops-tracker/internal/domain/player"
	"github.com/hoopstack/hoops-tracker/internal/domain/roster"
	"github.com/hoopstack/hoops-tracker/internal/domain/user"
	"github.com/hoopstack/hoops-tracker/internal/domain/watchlist"
	"github.com/hoopstack/hoops-tracker/internal/platform/logging"
)

// RosterDetail is a roster with its entries resolved to players.
type RosterDetail struct {
	Roster  roster.Roster   `json:"roster"`
	Players []player.Player `json:"players"`
}

// WatchlistEntry pairs a watchlist item with the player it follows.
type WatchlistEntry struct {
	Item   watchlist.Item `json:"item"`
	Player player.Player  `json:"player"`
}

// RosterService manages user-owned rosters and watchlists. Every
// mutating call checks ownership; admins may read any roster.
type RosterService struct {
	rosters roster.Repository
	watch   watchlist.Repository
	players player.Repository
	logger  *logging.Logger
}

func NewRosterService(
	rosters roster.Repository,
	watch watchlist.Repository,
	players player.Repository,
	logger *logging.Logger,
) *RosterService {
	if logger == nil {
		logger = logging.Default()
	}
	return &RosterService{
		rosters: rosters,
		watch:   watch,
		players: players,
		logger:  logger,
	}
}

func (s *RosterService) CreateRoster(ctx context.Context, principal user.Principal, name string) (*roster.Roster, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RosterService.CreateRoster")
	defer span.End()

	r := &roster.Roster{UserID: principal.ID, Name: strings.TrimSpace(name)}
	if err := r.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if err := s.rosters.Create(ctx, r); err != nil {
		return nil, fmt.Errorf("create roster: %w", err)
	}

	s.logger.InfoContext(ctx, "roster created", "roster_id", r.ID, "user_id", principal.ID)
	return r, nil
}

func (s *RosterService) GetRoster(ctx context.Context, principal user.Principal, rosterID int64) (*RosterDetail, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RosterService.GetRoster")
	defer span.End()

	r, err := s.ownedRoster(ctx, principal, rosterID, true)
	if err != nil {
		return nil, err
	}

	entries, err := s.rosters.ListEntries(ctx, rosterID)
	if err != nil {
		return nil, fmt.Errorf("list roster entries: %w", err)
	}

	detail := &RosterDetail{Roster: *r, Players: make([]player.Player, 0, len(entries))}
	for _, entry := range entries {
		p, err := s.players.GetByID(ctx, entry.PlayerID)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				continue
			}
			return nil, fmt.Errorf("resolve roster player id=%d: %w", entry.PlayerID, err)
		}
		detail.Players = append(detail.Players, *p)
	}
	return detail, nil
}

func (s *RosterService) ListRosters(ctx context.Context, principal user.Principal) ([]roster.Roster, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RosterService.ListRosters")
	defer span.End()

	rows, err := s.rosters.ListByUser(ctx, principal.ID)
	if err != nil {
		return nil, fmt.Errorf("list rosters: %w", err)
	}
	return rows, nil
}

func (s *RosterService) DeleteRoster(ctx context.Context, principal user.Principal, rosterID int64) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.RosterService.DeleteRoster")
	defer span.End()

	if _, err := s.ownedRoster(ctx, principal, rosterID, false); err != nil {
		return err
	}
	if err := s.rosters.Delete(ctx, rosterID); err != nil {
		return fmt.Errorf("delete roster: %w", err)
	}

	s.logger.InfoContext(ctx, "roster deleted", "roster_id", rosterID, "user_id", principal.ID)
	return nil
}

// AddPlayer puts a player on the roster, enforcing the roster cap and
// rejecting unknown or duplicate players.
func (s *RosterService) AddPlayer(ctx context.Context, principal user.Principal, rosterID, playerID int64) (*roster.Entry, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RosterService.AddPlayer")
	defer span.End()

	if _, err := s.ownedRoster(ctx, principal, rosterID, false); err != nil {
		return nil, err
	}
	if _, err := s.players.GetByID(ctx, playerID); err != nil {
		return nil, fmt.Errorf("get player id=%d: %w", playerID, err)
	}

	count, err := s.rosters.CountEntries(ctx, rosterID)
	if err != nil {
		return nil, fmt.Errorf("count roster entries: %w", err)
	}
	if count >= roster.MaxPlayers {
		return nil, fmt.Errorf("%w: roster %d is full (%d players)", ErrInvalidInput, rosterID, roster.MaxPlayers)
	}

	entry, err := s.rosters.AddPlayer(ctx, rosterID, playerID)
	if err != nil {
		return nil, fmt.Errorf("add roster player: %w", err)
	}
	return entry, nil
}

func (s *RosterService) RemovePlayer(ctx context.Context, principal user.Principal, rosterID, playerID int64) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.RosterService.RemovePlayer")
	defer span.End()

	if _, err := s.ownedRoster(ctx, principal, rosterID, false); err != nil {
		return err
	}
	if err := s.rosters.RemovePlayer(ctx, rosterID, playerID); err != nil {
		return fmt.Errorf("remove roster player: %w", err)
	}
	return nil
}

func (s *RosterService) AddToWatchlist(ctx context.Context, principal user.Principal, playerID int64, note string) (*watchlist.Item, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RosterService.AddToWatchlist")
	defer span.End()

	if _, err := s.players.GetByID(ctx, playerID); err != nil {
		return nil, fmt.Errorf("get player id=%d: %w", playerID, err)
	}

	item := &watchlist.Item{UserID: principal.ID, PlayerID: playerID, Note: strings.TrimSpace(note)}
	if err := item.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if err := s.watch.Add(ctx, item); err != nil {
		return nil, fmt.Errorf("add watchlist item: %w", err)
	}
	return item, nil
}

func (s *RosterService) RemoveFromWatchlist(ctx context.Context, principal user.Principal, playerID int64) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.RosterService.RemoveFromWatchlist")
	defer span.End()

	if err := s.watch.Remove(ctx, principal.ID, playerID); err != nil {
		return fmt.Errorf("remove watchlist item: %w", err)
	}
	return nil
}

func (s *RosterService) Watchlist(ctx context.Context, principal user.Principal) ([]WatchlistEntry, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RosterService.Watchlist")
	defer span.End()

	items, err := s.watch.ListByUser(ctx, principal.ID)
	if err != nil {
		return nil, fmt.Errorf("list watchlist: %w", err)
	}

	out := make([]WatchlistEntry, 0, len(items))
	for _, item := range items {
		p, err := s.players.GetByID(ctx, item.PlayerID)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				continue
			}
			return nil, fmt.Errorf("resolve watched player id=%d: %w", item.PlayerID, err)
		}
		out = append(out, WatchlistEntry{Item: item, Player: *p})
	}
	return out, nil
}

// ownedRoster loads a roster and verifies the caller may touch it.
// Admins get read access to any roster but never write access.
func (s *RosterService) ownedRoster(ctx context.Context, principal user.Principal, rosterID int64, readOnly bool) (*roster.Roster, error) {
	r, err := s.rosters.GetByID(ctx, rosterID)
	if err != nil {
		return nil, fmt.Errorf("get roster id=%d: %w", rosterID, err)
	}
	if r.UserID != principal.ID {
		if readOnly && principal.IsAdmin {
			return r, nil
		}
		return nil, fmt.Errorf("%w: roster %d belongs to another user", ErrUnauthorized, rosterID)
	}
	return r, nil
}
