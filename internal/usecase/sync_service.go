package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"

	"github.com/hoopstack/hoops-tracker/external/nbastats"
	"github.com/hoopstack/hoops-tracker/internal/domain/datasync"
	"github.com/hoopstack/hoops-tracker/internal/domain/season"
	"github.com/hoopstack/hoops-tracker/internal/platform/id"
	"github.com/hoopstack/hoops-tracker/internal/platform/logging"
)

// StatsProvider is the slice of the provider client the orchestrator
// needs. Implementations must classify failures with the pipeline error
// taxonomy so retry decisions stay here.
type StatsProvider interface {
	FetchTeams(ctx context.Context) ([]nbastats.TeamRecord, nbastats.PageMeta, error)
	FetchPlayers(ctx context.Context, cursor *int64) (nbastats.PlayerPage, error)
	FetchGames(ctx context.Context, seasonYear int, cursor *int64) (nbastats.GamePage, error)
	FetchGameStats(ctx context.Context, nbaGameID int64, cursor *int64) (nbastats.StatPage, error)
}

// Invalidator drops cached reads after a sync stage rewrites an entity.
type Invalidator interface {
	InvalidateEntity(ctx context.Context, entity datasync.EntityType)
}

type noopInvalidator struct{}

func (noopInvalidator) InvalidateEntity(context.Context, datasync.EntityType) {}

type SyncConfig struct {
	WorkerCount    int
	MaxAttempts    int
	SeasonYear     int
	JobRetention   time.Duration
	RetryBaseDelay time.Duration
}

func normalizeSyncConfig(cfg SyncConfig) SyncConfig {
	if cfg.WorkerCount < 1 {
		cfg.WorkerCount = 3
	}
	if cfg.MaxAttempts < 1 {
		cfg.MaxAttempts = 3
	}
	if cfg.SeasonYear < 1946 {
		cfg.SeasonYear = time.Now().UTC().Year() - 1
	}
	if cfg.JobRetention <= 0 {
		cfg.JobRetention = 24 * time.Hour
	}
	if cfg.RetryBaseDelay <= 0 {
		cfg.RetryBaseDelay = 2 * time.Second
	}
	return cfg
}

// SyncService orchestrates sync jobs: fetch, map, upsert, recalculate.
// One job runs at a time; entity stages inside a job run in dependency
// order, and the stats stage fans out across a bounded worker pool.
type SyncService struct {
	provider    StatsProvider
	ingestion   *IngestionService
	standings   *StandingsService
	seasons     season.Repository
	syncLog     datasync.LogRepository
	invalidator Invalidator
	ids         id.Generator
	logger      *logging.Logger
	cfg         SyncConfig

	mu   sync.Mutex
	jobs map[string]*syncJob
	now  func() time.Time
}

type syncJob struct {
	mu     sync.Mutex
	status datasync.JobStatus
	cancel context.CancelFunc
	done   chan struct{}
}

func NewSyncService(
	provider StatsProvider,
	ingestion *IngestionService,
	standings *StandingsService,
	seasons season.Repository,
	syncLog datasync.LogRepository,
	invalidator Invalidator,
	ids id.Generator,
	logger *logging.Logger,
	cfg SyncConfig,
) *SyncService {
	if logger == nil {
		logger = logging.Default()
	}
	if invalidator == nil {
		invalidator = noopInvalidator{}
	}
	if ids == nil {
		ids = id.NewRandomGenerator()
	}
	return &SyncService{
		provider:    provider,
		ingestion:   ingestion,
		standings:   standings,
		seasons:     seasons,
		syncLog:     syncLog,
		invalidator: invalidator,
		ids:         ids,
		logger:      logger,
		cfg:         normalizeSyncConfig(cfg),
		jobs:        make(map[string]*syncJob),
		now:         time.Now,
	}
}

// StartSync launches a job and returns its id immediately. A second
// start while a job is still running is rejected rather than queued.
func (s *SyncService) StartSync(ctx context.Context, mode datasync.Mode, entities []datasync.EntityType) (string, error) {
	ordered, err := orderEntities(mode, entities)
	if err != nil {
		return "", err
	}

	jobID, err := s.ids.NewID()
	if err != nil {
		return "", fmt.Errorf("generate job id: %w", err)
	}

	s.mu.Lock()
	for _, existing := range s.jobs {
		existing.mu.Lock()
		state := existing.status.State
		existing.mu.Unlock()
		if state == datasync.JobPending || state == datasync.JobRunning {
			s.mu.Unlock()
			return "", fmt.Errorf("%w: a sync job is already running", ErrConflict)
		}
	}
	s.pruneExpiredLocked()

	runCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	job := &syncJob{
		cancel: cancel,
		done:   make(chan struct{}),
		status: datasync.JobStatus{
			ID:        jobID,
			Mode:      mode,
			State:     datasync.JobPending,
			StartedAt: s.now().UTC(),
		},
	}
	for _, entity := range ordered {
		job.status.SubJobs = append(job.status.SubJobs, datasync.SubJobStatus{
			Entity: entity,
			State:  datasync.SubJobPending,
		})
	}
	s.jobs[jobID] = job
	s.mu.Unlock()

	s.recordLog(runCtx, job)
	go s.run(runCtx, job, ordered)

	s.logger.InfoContext(ctx, "sync job started", "job_id", jobID, "mode", mode, "entities", len(ordered))
	return jobID, nil
}

// JobStatus returns a point-in-time snapshot of one job.
func (s *SyncService) JobStatus(jobID string) (datasync.JobStatus, error) {
	s.mu.Lock()
	job, ok := s.jobs[jobID]
	s.mu.Unlock()
	if !ok {
		return datasync.JobStatus{}, fmt.Errorf("%w: sync job %s", ErrNotFound, jobID)
	}
	return job.snapshot(), nil
}

// ListJobs returns snapshots of every retained job, newest first.
func (s *SyncService) ListJobs() []datasync.JobStatus {
	s.mu.Lock()
	jobs := make([]*syncJob, 0, len(s.jobs))
	for _, job := range s.jobs {
		jobs = append(jobs, job)
	}
	s.mu.Unlock()

	out := make([]datasync.JobStatus, 0, len(jobs))
	for _, job := range jobs {
		out = append(out, job.snapshot())
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].StartedAt.After(out[j].StartedAt) })
	return out
}

// CancelJob requests cooperative cancellation. In-flight rows finish;
// the job stops at the next batch boundary.
func (s *SyncService) CancelJob(jobID string) error {
	s.mu.Lock()
	job, ok := s.jobs[jobID]
	s.mu.Unlock()
	if !ok {
		return fmt.Errorf("%w: sync job %s", ErrNotFound, jobID)
	}

	job.mu.Lock()
	terminal := jobStateTerminal(job.status.State)
	job.mu.Unlock()
	if terminal {
		return fmt.Errorf("%w: sync job %s already finished", ErrConflict, jobID)
	}

	job.cancel()
	return nil
}

// RecentLogs exposes persisted job history.
func (s *SyncService) RecentLogs(ctx context.Context, limit int) ([]datasync.LogEntry, error) {
	if limit <= 0 {
		limit = 20
	}
	return s.syncLog.Recent(ctx, limit)
}

// Wait blocks until the job finishes. Test hook and graceful-shutdown aid.
func (s *SyncService) Wait(jobID string) {
	s.mu.Lock()
	job, ok := s.jobs[jobID]
	s.mu.Unlock()
	if ok {
		<-job.done
	}
}

func (s *SyncService) run(ctx context.Context, job *syncJob, entities []datasync.EntityType) {
	defer close(job.done)
	defer job.cancel()

	job.update(func(status *datasync.JobStatus) {
		status.State = datasync.JobRunning
	})

	cancelled := false
	for _, entity := range entities {
		if ctx.Err() != nil {
			cancelled = true
		}
		if cancelled {
			job.updateSub(entity, func(sub *datasync.SubJobStatus) {
				sub.State = datasync.SubJobCancelled
			})
			continue
		}

		if err := s.runEntity(ctx, job, entity); err != nil {
			if errors.Is(err, context.Canceled) {
				cancelled = true
				job.updateSub(entity, func(sub *datasync.SubJobStatus) {
					sub.State = datasync.SubJobCancelled
				})
				continue
			}
			job.updateSub(entity, func(sub *datasync.SubJobStatus) {
				sub.State = datasync.SubJobFailed
				sub.Error = err.Error()
			})
			s.logger.ErrorContext(ctx, "sync stage failed", "job_id", job.id(), "entity", entity, "error", err)
			if datasync.IsFatal(err) {
				s.skipRemaining(job, entities, entity)
				break
			}
			continue
		}

		job.updateSub(entity, func(sub *datasync.SubJobStatus) {
			sub.State = datasync.SubJobCompleted
			sub.Progress = 100
		})
	}

	completedAt := s.now().UTC()
	job.update(func(status *datasync.JobStatus) {
		status.CompletedAt = &completedAt
		status.State = deriveJobState(status.SubJobs, cancelled)
		for _, sub := range status.SubJobs {
			status.Errors = append(status.Errors, sub.Report.Errors...)
		}
	})
	s.recordLog(ctx, job)

	snapshot := job.snapshot()
	s.logger.InfoContext(ctx, "sync job finished",
		"job_id", snapshot.ID,
		"state", snapshot.State,
		"progress", snapshot.Progress(),
	)
}

// skipRemaining marks stages after a fatal failure as cancelled.
func (s *SyncService) skipRemaining(job *syncJob, entities []datasync.EntityType, failed datasync.EntityType) {
	seen := false
	for _, entity := range entities {
		if entity == failed {
			seen = true
			continue
		}
		if !seen {
			continue
		}
		job.updateSub(entity, func(sub *datasync.SubJobStatus) {
			if !sub.State.Terminal() {
				sub.State = datasync.SubJobCancelled
			}
		})
	}
}

func (s *SyncService) runEntity(ctx context.Context, job *syncJob, entity datasync.EntityType) error {
	switch entity {
	case datasync.EntityTeams:
		return s.syncTeams(ctx, job)
	case datasync.EntityPlayers:
		return s.syncPlayers(ctx, job)
	case datasync.EntityGames:
		return s.syncGames(ctx, job)
	case datasync.EntityStats:
		return s.syncStats(ctx, job)
	default:
		return fmt.Errorf("%w: unknown entity %q", ErrInvalidInput, entity)
	}
}

func (s *SyncService) syncTeams(ctx context.Context, job *syncJob) error {
	job.setSubState(datasync.EntityTeams, datasync.SubJobFetching)

	var records []nbastats.TeamRecord
	retries, err := s.withRetry(ctx, "fetch teams", func(ctx context.Context) (int, error) {
		fetched, meta, err := s.provider.FetchTeams(ctx)
		if err == nil {
			records = fetched
		}
		return meta.Retries, err
	})
	job.addSubRetries(datasync.EntityTeams, retries)
	if err != nil {
		return err
	}

	job.setSubState(datasync.EntityTeams, datasync.SubJobMapping)
	var report datasync.BatchReport
	rows := s.ingestion.mapTeams(ctx, &report, records)

	job.setSubState(datasync.EntityTeams, datasync.SubJobUpserting)
	err = s.ingestion.writeTeams(ctx, &report, rows)
	job.mergeSubReport(datasync.EntityTeams, report)
	if err != nil {
		return err
	}

	s.invalidator.InvalidateEntity(ctx, datasync.EntityTeams)
	return nil
}

func (s *SyncService) syncPlayers(ctx context.Context, job *syncJob) error {
	job.setSubState(datasync.EntityPlayers, datasync.SubJobFetching)

	seen := make([]int64, 0, 512)
	var cursor *int64
	page := 0
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		var fetched nbastats.PlayerPage
		retries, err := s.withRetry(ctx, "fetch players", func(ctx context.Context) (int, error) {
			result, err := s.provider.FetchPlayers(ctx, cursor)
			if err == nil {
				fetched = result
			}
			return result.Meta.Retries, err
		})
		job.addSubRetries(datasync.EntityPlayers, retries)
		if err != nil {
			return err
		}

		job.setSubState(datasync.EntityPlayers, datasync.SubJobMapping)
		var report datasync.BatchReport
		rows, err := s.ingestion.mapPlayers(ctx, &report, fetched.Players)
		if err != nil {
			job.mergeSubReport(datasync.EntityPlayers, report)
			return err
		}

		job.setSubState(datasync.EntityPlayers, datasync.SubJobUpserting)
		pageSeen, err := s.ingestion.writePlayers(ctx, &report, rows)
		job.mergeSubReport(datasync.EntityPlayers, report)
		if err != nil {
			return err
		}
		seen = append(seen, pageSeen...)

		page++
		job.updateSub(datasync.EntityPlayers, func(sub *datasync.SubJobStatus) {
			sub.Progress = minInt(90, page*10)
		})

		if fetched.Meta.NextCursor == nil {
			break
		}
		cursor = fetched.Meta.NextCursor
		job.setSubState(datasync.EntityPlayers, datasync.SubJobFetching)
	}

	if _, err := s.ingestion.DeactivateMissingPlayers(ctx, seen); err != nil {
		return err
	}
	s.invalidator.InvalidateEntity(ctx, datasync.EntityPlayers)
	return nil
}

func (s *SyncService) syncGames(ctx context.Context, job *syncJob) error {
	currentSeason, err := s.ensureSeason(ctx)
	if err != nil {
		return err
	}

	job.setSubState(datasync.EntityGames, datasync.SubJobFetching)
	var cursor *int64
	page := 0
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		var fetched nbastats.GamePage
		retries, err := s.withRetry(ctx, "fetch games", func(ctx context.Context) (int, error) {
			result, err := s.provider.FetchGames(ctx, currentSeason.Year, cursor)
			if err == nil {
				fetched = result
			}
			return result.Meta.Retries, err
		})
		job.addSubRetries(datasync.EntityGames, retries)
		if err != nil {
			return err
		}

		job.setSubState(datasync.EntityGames, datasync.SubJobMapping)
		var report datasync.BatchReport
		rows, err := s.ingestion.mapGames(ctx, &report, currentSeason.ID, fetched.Games)
		if err != nil {
			job.mergeSubReport(datasync.EntityGames, report)
			return err
		}

		job.setSubState(datasync.EntityGames, datasync.SubJobUpserting)
		err = s.ingestion.writeGames(ctx, &report, currentSeason.ID, rows)
		job.mergeSubReport(datasync.EntityGames, report)
		if err != nil {
			return err
		}

		page++
		job.updateSub(datasync.EntityGames, func(sub *datasync.SubJobStatus) {
			sub.Progress = minInt(90, page*10)
		})

		if fetched.Meta.NextCursor == nil {
			break
		}
		cursor = fetched.Meta.NextCursor
		job.setSubState(datasync.EntityGames, datasync.SubJobFetching)
	}

	job.setSubState(datasync.EntityGames, datasync.SubJobRecalculating)
	if err := s.standings.Recalculate(ctx, currentSeason.ID); err != nil {
		return err
	}

	s.invalidator.InvalidateEntity(ctx, datasync.EntityGames)
	return nil
}

func (s *SyncService) syncStats(ctx context.Context, job *syncJob) error {
	currentSeason, err := s.ensureSeason(ctx)
	if err != nil {
		return err
	}

	job.setSubState(datasync.EntityStats, datasync.SubJobFetching)
	finals, err := s.ingestion.games.ListFinalBySeason(ctx, currentSeason.ID)
	if err != nil {
		return fmt.Errorf("list final games season_id=%d: %w", currentSeason.ID, err)
	}
	if len(finals) == 0 {
		return nil
	}

	pool, err := ants.NewPool(s.cfg.WorkerCount)
	if err != nil {
		return fmt.Errorf("create worker pool: %w", err)
	}
	defer pool.Release()

	var (
		workers   sync.WaitGroup
		reportMu  sync.Mutex
		fatalErr  error
		processed int
	)

	job.setSubState(datasync.EntityStats, datasync.SubJobUpserting)
	for _, final := range finals {
		nbaGameID := final.NBAGameID
		workers.Add(1)
		if err := pool.Submit(func() {
			defer workers.Done()
			if ctx.Err() != nil {
				return
			}

			report, retries, gameErr := s.syncGameStats(ctx, nbaGameID)
			job.addSubRetries(datasync.EntityStats, retries)
			job.mergeSubReport(datasync.EntityStats, report)

			reportMu.Lock()
			if gameErr != nil && fatalErr == nil {
				fatalErr = gameErr
			}
			processed++
			progress := processed * 100 / len(finals)
			reportMu.Unlock()
			job.updateSub(datasync.EntityStats, func(sub *datasync.SubJobStatus) {
				if progress > sub.Progress {
					sub.Progress = progress
				}
			})
		}); err != nil {
			workers.Done()
			return fmt.Errorf("submit stats task: %w", err)
		}
	}
	workers.Wait()

	if err := ctx.Err(); err != nil {
		return err
	}
	if fatalErr != nil {
		return fatalErr
	}

	s.invalidator.InvalidateEntity(ctx, datasync.EntityStats)
	return nil
}

func (s *SyncService) syncGameStats(ctx context.Context, nbaGameID int64) (datasync.BatchReport, int, error) {
	var report datasync.BatchReport
	totalRetries := 0
	var cursor *int64
	for {
		if err := ctx.Err(); err != nil {
			return report, totalRetries, err
		}

		var fetched nbastats.StatPage
		retries, err := s.withRetry(ctx, "fetch game stats", func(ctx context.Context) (int, error) {
			result, err := s.provider.FetchGameStats(ctx, nbaGameID, cursor)
			if err == nil {
				fetched = result
			}
			return result.Meta.Retries, err
		})
		totalRetries += retries
		if err != nil {
			return report, totalRetries, err
		}

		pageReport, err := s.ingestion.UpsertStatLines(ctx, fetched.Stats)
		report.Merge(pageReport)
		if err != nil {
			return report, totalRetries, err
		}

		if fetched.Meta.NextCursor == nil {
			return report, totalRetries, nil
		}
		cursor = fetched.Meta.NextCursor
	}
}

func (s *SyncService) ensureSeason(ctx context.Context) (*season.Season, error) {
	existing, err := s.seasons.GetByYearAndType(ctx, s.cfg.SeasonYear, season.TypeRegular)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, fmt.Errorf("resolve season year=%d: %w", s.cfg.SeasonYear, err)
	}

	created := &season.Season{Year: s.cfg.SeasonYear, Type: season.TypeRegular, IsCurrent: true}
	if err := s.seasons.EnsureCurrent(ctx, created); err != nil {
		return nil, fmt.Errorf("create season year=%d: %w", s.cfg.SeasonYear, err)
	}
	return created, nil
}

// withRetry re-runs fn when the provider reports a transient failure,
// backing off exponentially. The returned count includes both the
// provider's internal retries and the attempts added here.
func (s *SyncService) withRetry(ctx context.Context, op string, fn func(context.Context) (int, error)) (int, error) {
	totalRetries := 0
	var lastErr error
	for attempt := 0; attempt < s.cfg.MaxAttempts; attempt++ {
		providerRetries, err := fn(ctx)
		totalRetries += providerRetries
		if err == nil {
			return totalRetries, nil
		}
		lastErr = err
		if !datasync.IsTransient(err) {
			return totalRetries, err
		}
		if attempt == s.cfg.MaxAttempts-1 {
			break
		}

		delay := s.cfg.RetryBaseDelay << uint(attempt)
		s.logger.WarnContext(ctx, "sync fetch retrying",
			"op", op,
			"attempt", attempt+1,
			"backoff", delay.String(),
			"rate_limited", datasync.IsRateLimited(err),
		)
		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return totalRetries, ctx.Err()
		case <-timer.C:
		}
		totalRetries++
	}
	return totalRetries, lastErr
}

func (s *SyncService) recordLog(ctx context.Context, job *syncJob) {
	snapshot := job.snapshot()
	entities := make([]datasync.EntityType, 0, len(snapshot.SubJobs))
	records := 0
	for _, sub := range snapshot.SubJobs {
		entities = append(entities, sub.Entity)
		records += sub.Report.Total()
	}

	entry := datasync.LogEntry{
		JobID:       snapshot.ID,
		Mode:        snapshot.Mode,
		State:       snapshot.State,
		Entities:    entities,
		Records:     records,
		StartedAt:   snapshot.StartedAt,
		CompletedAt: snapshot.CompletedAt,
	}
	if snapshot.State == datasync.JobFailed || snapshot.State == datasync.JobPartialFailure {
		for _, sub := range snapshot.SubJobs {
			if sub.Error != "" {
				entry.Error = sub.Error
				break
			}
		}
	}
	if err := s.syncLog.Record(ctx, entry); err != nil {
		s.logger.WarnContext(ctx, "record sync log failed", "job_id", snapshot.ID, "error", err)
	}
}

func (s *SyncService) pruneExpiredLocked() {
	cutoff := s.now().UTC().Add(-s.cfg.JobRetention)
	for jobID, job := range s.jobs {
		job.mu.Lock()
		expired := jobStateTerminal(job.status.State) &&
			job.status.CompletedAt != nil &&
			job.status.CompletedAt.Before(cutoff)
		job.mu.Unlock()
		if expired {
			delete(s.jobs, jobID)
		}
	}
}

func orderEntities(mode datasync.Mode, requested []datasync.EntityType) ([]datasync.EntityType, error) {
	switch mode {
	case datasync.ModeFull:
		return datasync.EntityOrder, nil
	case datasync.ModeSelective:
		if len(requested) == 0 {
			return nil, fmt.Errorf("%w: selective sync requires at least one entity", ErrInvalidInput)
		}
		wanted := make(map[datasync.EntityType]bool, len(requested))
		for _, entity := range requested {
			found := false
			for _, known := range datasync.EntityOrder {
				if entity == known {
					found = true
					break
				}
			}
			if !found {
				return nil, fmt.Errorf("%w: unknown entity %q", ErrInvalidInput, entity)
			}
			wanted[entity] = true
		}
		ordered := make([]datasync.EntityType, 0, len(wanted))
		for _, entity := range datasync.EntityOrder {
			if wanted[entity] {
				ordered = append(ordered, entity)
			}
		}
		return ordered, nil
	default:
		return nil, fmt.Errorf("%w: unknown sync mode %q", ErrInvalidInput, mode)
	}
}

func deriveJobState(subs []datasync.SubJobStatus, cancelled bool) datasync.JobState {
	if cancelled {
		return datasync.JobCancelled
	}
	completed, failed := 0, 0
	for _, sub := range subs {
		switch sub.State {
		case datasync.SubJobCompleted:
			completed++
		case datasync.SubJobFailed:
			failed++
		}
	}
	switch {
	case failed == 0:
		return datasync.JobCompleted
	case completed == 0:
		return datasync.JobFailed
	default:
		return datasync.JobPartialFailure
	}
}

func jobStateTerminal(state datasync.JobState) bool {
	switch state {
	case datasync.JobCompleted, datasync.JobFailed, datasync.JobPartialFailure, datasync.JobCancelled:
		return true
	default:
		return false
	}
}

func (j *syncJob) id() string {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.status.ID
}

func (j *syncJob) snapshot() datasync.JobStatus {
	j.mu.Lock()
	defer j.mu.Unlock()

	out := j.status
	out.SubJobs = make([]datasync.SubJobStatus, len(j.status.SubJobs))
	copy(out.SubJobs, j.status.SubJobs)
	for i := range out.SubJobs {
		out.SubJobs[i].Report.Errors = append([]datasync.RowError(nil), j.status.SubJobs[i].Report.Errors...)
	}
	out.Errors = append([]datasync.RowError(nil), j.status.Errors...)
	return out
}

func (j *syncJob) update(fn func(*datasync.JobStatus)) {
	j.mu.Lock()
	defer j.mu.Unlock()
	fn(&j.status)
}

func (j *syncJob) updateSub(entity datasync.EntityType, fn func(*datasync.SubJobStatus)) {
	j.mu.Lock()
	defer j.mu.Unlock()
	for i := range j.status.SubJobs {
		if j.status.SubJobs[i].Entity == entity {
			fn(&j.status.SubJobs[i])
			return
		}
	}
}

func (j *syncJob) setSubState(entity datasync.EntityType, state datasync.SubJobState) {
	j.updateSub(entity, func(sub *datasync.SubJobStatus) {
		sub.State = state
	})
}

func (j *syncJob) addSubRetries(entity datasync.EntityType, retries int) {
	if retries == 0 {
		return
	}
	j.updateSub(entity, func(sub *datasync.SubJobStatus) {
		sub.Retries += retries
	})
}

func (j *syncJob) mergeSubReport(entity datasync.EntityType, report datasync.BatchReport) {
	j.updateSub(entity, func(sub *datasync.SubJobStatus) {
		sub.Report.Merge(report)
	})
}

func minInt(left, right int) int {
	if left < right {
		return left
	}
	return right
}
