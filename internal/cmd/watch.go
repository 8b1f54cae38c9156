package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/pflag"

	"newsticker/adapter/rss"
	"newsticker/adapter/tui"
	"newsticker/app"
	"newsticker/domain"
	"newsticker/internal/config"
	"newsticker/internal/logger"
)

func Watch(args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	fset := pflag.NewFlagSet("watch", pflag.ContinueOnError)
	var flags tickerFlags
	var logFile string
	flags.register(fset, cfg)
	fset.StringVar(&logFile, "log-file", "", "write logs to this file (the terminal is taken by the ticker)")
	if err := fset.Parse(args); err != nil {
		return err
	}
	policy, err := app.ParseTransportErrorPolicy(flags.policy)
	if err != nil {
		return err
	}

	log := logger.Discard()
	if logFile != "" {
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		defer f.Close()
		log = logger.NewWithWriter(f, cfg.LogLevel)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	var repo domain.FeedRepository
	if flags.feedName != "" {
		r, closeDB, err := openRepo(ctx, cfg)
		if err != nil {
			return err
		}
		defer closeDB()
		repo = r
	}
	t, err := flags.resolveTarget(ctx, repo, cfg.RegionID)
	if err != nil {
		return err
	}

	view := tui.NewRegion()
	defer view.Close()
	ticker, err := app.NewTicker(app.Options{
		FeedURL:          t.url,
		Animate:          flags.animate,
		ShowDescription:  flags.showDescription,
		OnTransportError: policy,
		Fetcher:          rss.NewHTTPFetcher(),
		Region:           view,
		Logger:           log,
	})
	if err != nil {
		return err
	}
	if err := ticker.Start(ctx); err != nil {
		return err
	}
	defer ticker.Stop()

	program := tea.NewProgram(tui.NewModel(view, ticker, t.url),
		tea.WithAltScreen(), tea.WithMouseAllMotion(), tea.WithContext(ctx))
	if _, err := program.Run(); err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return nil
		}
		return err
	}
	return nil
}
