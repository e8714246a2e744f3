package root

import (
	"context"
	"fmt"
	"strings"

	"goaltracker/internal/config"
	"goaltracker/internal/engine"
	"goaltracker/internal/logging"
	"goaltracker/internal/storage"
)

// session is an opened engine plus what the commands need around it.
type session struct {
	cfg     *config.Config
	logger  *logging.ZapLogger
	svc     *engine.Service
	welcome bool
}

func openSession(ctx context.Context, opts *rootOptions) (*session, func(), error) {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return nil, nil, err
	}
	logger, err := logging.New(cfg.LogLevel, cfg.Env)
	if err != nil {
		return nil, nil, fmt.Errorf("init logger: %w", err)
	}

	backend, err := storage.OpenBackend(ctx, cfg.BackendOptions(), logger)
	if err != nil {
		logger.Sync()
		return nil, nil, err
	}
	cleanup := func() {
		_ = backend.Close()
		logger.Sync()
	}

	store := storage.NewStore(backend, logger,
		storage.WithClock(cfg.Clock()),
		storage.WithTimezone(cfg.Location().String()),
	)
	svc, err := engine.NewService(ctx, store, engine.WithLogger(logger))
	if err != nil {
		cleanup()
		return nil, nil, err
	}

	// Backups and visit tracking are best effort; a failure must not block
	// the command the user asked for.
	if _, err := svc.AutoBackup(ctx); err != nil {
		logger.Warnf("auto backup failed: %v", err)
	}
	welcome, err := svc.RecordVisit(ctx)
	if err != nil {
		logger.Warnf("record visit failed: %v", err)
	}

	return &session{cfg: cfg, logger: logger, svc: svc, welcome: welcome}, cleanup, nil
}

// resolveGoalID accepts a full id or an unambiguous short form of one: the
// trailing characters shown by shortID, or a leading prefix.
func resolveGoalID(svc *engine.Service, arg string) (string, error) {
	arg = strings.TrimSpace(arg)
	if arg == "" {
		return "", fmt.Errorf("goal id is required")
	}
	if g := svc.GetGoal(arg); g != nil {
		return arg, nil
	}
	var matches []string
	for _, g := range svc.GetGoals(engine.FilterAll) {
		id := string(g.ID)
		if strings.HasSuffix(id, arg) || strings.HasPrefix(id, arg) {
			matches = append(matches, id)
		}
	}
	switch len(matches) {
	case 0:
		return "", fmt.Errorf("goal %s not found", arg)
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("goal id %q is ambiguous (%d matches)", arg, len(matches))
	}
}

// shortID is the display form of a goal id. Time-ordered ids share their
// leading characters, so the tail is shown.
func shortID(id storage.GoalID) string {
	s := string(id)
	if len(s) > 8 {
		return s[len(s)-8:]
	}
	return s
}
