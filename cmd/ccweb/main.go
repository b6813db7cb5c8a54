package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/mattn/go-isatty"

	"github.com/ethanhollins/cc-web-sub001/internal/api"
	"github.com/ethanhollins/cc-web-sub001/internal/calendar"
	"github.com/ethanhollins/cc-web-sub001/internal/cli"
	"github.com/ethanhollins/cc-web-sub001/internal/clock"
	"github.com/ethanhollins/cc-web-sub001/internal/config"
	"github.com/ethanhollins/cc-web-sub001/internal/db"
	"github.com/ethanhollins/cc-web-sub001/internal/live"
	"github.com/ethanhollins/cc-web-sub001/internal/mock"
	"github.com/ethanhollins/cc-web-sub001/internal/realtime"
	"github.com/ethanhollins/cc-web-sub001/internal/repository"
	"github.com/ethanhollins/cc-web-sub001/internal/service"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	path, err := config.DefaultPath()
	if err != nil {
		return err
	}
	cfg, err := config.Load(path)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	loc, err := cfg.Location()
	if err != nil {
		return err
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.SlogLevel()}))

	// REST client
	var observer api.Observer = api.NoopObserver{}
	if cfg.API.LogCalls {
		observer = api.NewSlogObserver(logger)
	}
	client := api.NewClient(cfg.API, observer)

	// Week cache
	store := calendar.NewStore(
		service.NewCalendarBackend(client, logger),
		calendar.WithLocation(loc),
		calendar.WithMinInterval(cfg.RefetchInterval()),
		calendar.WithLogger(logger),
	)
	defer store.Close()

	// Local preferences
	dbPath, err := cfg.ResolveDBPath()
	if err != nil {
		return err
	}
	database, err := db.OpenDB(dbPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	prefRepo := repository.NewSQLitePreferenceRepo(database)
	tabRepo := repository.NewSQLiteSkillTabRepo(database)
	uow := db.NewSQLiteUnitOfWork(database)

	useCases := service.NewSlogUseCaseObserver(logger)
	clk := clock.Real{}

	app := &cli.App{
		Tickets:   service.NewTicketService(client, useCases),
		Schedule:  service.NewScheduleService(store, client, useCases),
		Skills:    service.NewSkillService(mock.Skills(), tabRepo, prefRepo, uow, useCases),
		Coaches:   service.NewCoachService(mock.Coaches(), mock.Programs, clk),
		Prefs:     service.NewPreferenceService(prefRepo, uow, useCases),
		Live:      live.New(store, realtime.NewClient(cfg.Realtime, logger), cfg.Calendar.RefreshCron, loc, logger),
		Subscribe: store.Subscribe,
		Config:    cfg,
		Clock:     clk,
		Logger:    logger,
	}

	// Detect interactive terminal for the TUI entrypoint.
	app.IsInteractive = func() bool {
		return isatty.IsTerminal(os.Stdout.Fd()) && (isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd()))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return cli.NewRootCmd(app).ExecuteContext(ctx)
}
