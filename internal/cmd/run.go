package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/pflag"

	"newsticker/adapter/postgres"
	"newsticker/adapter/region"
	"newsticker/adapter/rss"
	"newsticker/app"
	"newsticker/domain"
	"newsticker/internal/config"
	"newsticker/internal/control"
	"newsticker/internal/logger"
)

func Run(args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	fset := pflag.NewFlagSet("run", pflag.ContinueOnError)
	var flags tickerFlags
	var all, archive bool
	flags.register(fset, cfg)
	fset.BoolVar(&all, "all", false, "run one ticker per registered feed")
	fset.BoolVar(&archive, "archive", false, "record fetched headlines in the registry database")
	if err := fset.Parse(args); err != nil {
		return err
	}
	policy, err := app.ParseTransportErrorPolicy(flags.policy)
	if err != nil {
		return err
	}

	log := logger.New(cfg.LogLevel)

	listener, err := control.TryListen(cfg.ControlAddr)
	if err != nil {
		if errors.Is(err, control.ErrAlreadyRunning) {
			fmt.Println("A ticker process is already running")
			return err
		}
		return fmt.Errorf("failed to start control server: %w", err)
	}
	defer listener.Close()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	var repo domain.FeedRepository
	if all || archive || flags.feedName != "" {
		r, closeDB, err := openRepo(ctx, cfg)
		if err != nil {
			return err
		}
		defer closeDB()
		repo = r
	}

	var targets []target
	if all {
		feeds, err := repo.ListFeeds(ctx, 0)
		if err != nil {
			return fmt.Errorf("could not list feeds: %w", err)
		}
		if len(feeds) == 0 {
			return errors.New("no feeds registered; add one with `newsticker add`")
		}
		for _, f := range feeds {
			targets = append(targets, target{name: f.Name, url: f.URL, feedID: f.ID})
		}
	} else {
		t, err := flags.resolveTarget(ctx, repo, cfg.RegionID)
		if err != nil {
			return err
		}
		targets = append(targets, t)
	}

	fetcher := rss.NewHTTPFetcher()
	hub := app.NewHub()
	for _, t := range targets {
		view := region.NewHTML(t.name, cfg.RegionClass)
		opts := app.Options{
			FeedURL:          t.url,
			Animate:          flags.animate,
			ShowDescription:  flags.showDescription,
			OnTransportError: policy,
			Fetcher:          fetcher,
			Region:           view,
			Logger:           log.With("ticker", t.name),
		}
		if archive {
			if t.feedID == "" {
				log.Warn("archive needs a registered feed, skipping", "ticker", t.name)
			} else {
				opts.Sink = postgres.NewFeedArchive(repo, t.feedID)
			}
		}
		ticker, err := app.NewTicker(opts)
		if err != nil {
			return fmt.Errorf("ticker %q: %w", t.name, err)
		}
		if err := hub.Add(ctx, t.name, ticker, view); err != nil {
			return err
		}
	}

	srv := &http.Server{
		Handler:           control.NewServer(hub, log),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		if err := srv.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("control server error", "err", err)
		}
	}()

	if err := hub.Start(ctx); err != nil {
		return fmt.Errorf("failed to start tickers: %w", err)
	}

	fmt.Printf("Tickers started (%d feed(s), animate = %t), preview at http://%s/\n", len(targets), flags.animate, cfg.ControlAddr)

	<-ctx.Done()

	if err := hub.Stop(); err != nil {
		fmt.Printf("Error during shutdown: %v\n", err)
	}
	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancelShutdown()
	_ = srv.Shutdown(shutdownCtx)
	fmt.Println("Graceful shutdown: tickers stopped")
	return nil
}
