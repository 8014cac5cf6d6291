package main

import (
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/timekeep/timekeep/internal/config"
	"github.com/timekeep/timekeep/internal/database"
	"github.com/timekeep/timekeep/internal/logger"
	"github.com/timekeep/timekeep/internal/notify"
	"github.com/timekeep/timekeep/internal/repository"
	"github.com/timekeep/timekeep/internal/service"
	"github.com/timekeep/timekeep/internal/timer"
)

// app wires configuration, storage, services, and the timer for one
// CLI invocation. The timer state survives between invocations through
// its snapshot; openApp restores any active session before the command
// runs.
type app struct {
	cfg *config.Config
	log *logger.Logger
	db  *database.DB
	loc *time.Location

	activities *repository.ActivityRepository
	tags       *repository.TagRepository
	entries    *service.EntryService
	goals      *service.GoalService
	timeline   *service.TimelineService
	timer      *timer.Timer
}

func openApp(configPath string) (*app, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	log, err := logger.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}

	db, err := database.New(cfg.StoragePath, log.Logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	entryRepo := repository.NewTimeEntryRepository(db.DB)
	goalRepo := repository.NewGoalRepository(db.DB)
	snapshots := repository.NewTimerSnapshotRepository(db.DB)

	relay := notify.NewRelay(cfg.Notifications.Enabled, log.Logger)
	tm := timer.New(
		timer.SystemClock{},
		snapshots,
		log.Logger,
		timer.WithTickInterval(time.Duration(cfg.Timer.TickInterval)*time.Second),
		timer.WithSnapshotInterval(time.Duration(cfg.Timer.SnapshotInterval)*time.Second),
		timer.WithChangeFunc(relay.TimerChanged),
	)

	a := &app{
		cfg:        cfg,
		log:        log,
		db:         db,
		loc:        loc,
		activities: repository.NewActivityRepository(db.DB),
		tags:       repository.NewTagRepository(db.DB),
		entries:    service.NewEntryService(entryRepo, log.Logger),
		goals:      service.NewGoalService(goalRepo, entryRepo, log.Logger),
		timeline:   service.NewTimelineService(entryRepo, log.Logger),
		timer:      tm,
	}

	if err := a.recoverTimer(snapshots); err != nil {
		log.Warn("Failed to recover timer state", zap.Error(err))
	}
	return a, nil
}

// recoverTimer re-adopts a persisted session after process restart.
func (a *app) recoverTimer(snapshots *repository.TimerSnapshotRepository) error {
	active, err := snapshots.HasActive()
	if err != nil {
		return err
	}
	if !active {
		return nil
	}
	state, ok, err := snapshots.Load()
	if err != nil {
		return err
	}
	if ok {
		a.timer.Restore(state)
	}
	return nil
}

func (a *app) Close() {
	a.timer.Close()
	if err := a.db.Close(); err != nil {
		a.log.Error("Failed to close database", zap.Error(err))
	}
	a.log.Sync()
}

// activityByName resolves an activity, creating it on first use.
func (a *app) activityByName(name, colorHex string) (int64, string, error) {
	existing, err := a.activities.List()
	if err != nil {
		return 0, "", err
	}
	for _, activity := range existing {
		if activity.Name == name {
			return activity.ID, activity.ColorHex, nil
		}
	}
	created, err := a.activities.Create(name, colorHex)
	if err != nil {
		return 0, "", err
	}
	return created.ID, created.ColorHex, nil
}

// tagIDsByName resolves tag names to ids, creating missing tags.
func (a *app) tagIDsByName(names []string) ([]int64, error) {
	var ids []int64
	for _, name := range names {
		tag, err := a.tags.GetByName(name)
		if err == nil {
			ids = append(ids, tag.ID)
			continue
		}
		if !errors.Is(err, repository.ErrNotFound) {
			return nil, err
		}
		created, err := a.tags.Create(name)
		if err != nil {
			return nil, err
		}
		ids = append(ids, created.ID)
	}
	return ids, nil
}
