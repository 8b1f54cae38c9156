package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/pflag"

	"newsticker/adapter/postgres"
	"newsticker/domain"
	"newsticker/internal/config"
	"newsticker/internal/db"
	"newsticker/internal/helper"
)

// openRepo connects to the registry database and makes sure the schema
// exists. The returned close func must be called by the caller.
func openRepo(ctx context.Context, cfg config.Config) (*postgres.Repository, func() error, error) {
	database, err := db.OpenDB(ctx, cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	repo := postgres.New(database)
	if err := repo.Ensure(ctx); err != nil {
		database.Close()
		return nil, nil, err
	}
	return repo, database.Close, nil
}

type tickerFlags struct {
	url             string
	feedName        string
	animate         bool
	showDescription bool
	policy          string
}

func (f *tickerFlags) register(fset *pflag.FlagSet, cfg config.Config) {
	fset.StringVar(&f.url, "url", cfg.FeedURL, "feed URL")
	fset.StringVar(&f.feedName, "feed-name", "", "name of a registered feed")
	fset.BoolVar(&f.animate, "animate", cfg.Animate, "reveal each headline letter by letter")
	fset.BoolVar(&f.showDescription, "show-description", cfg.ShowDescription, "show the description under each headline")
	fset.StringVar(&f.policy, "on-transport-error", cfg.OnTransportError, "when the feed request fails: retain or error")
}

// target is one feed a ticker will show. feedID is empty for ad-hoc URLs.
type target struct {
	name   string
	url    string
	feedID string
}

// resolveTarget picks the feed named by --feed-name, or falls back to
// --url under the configured region id.
func (f *tickerFlags) resolveTarget(ctx context.Context, repo domain.FeedRepository, defaultName string) (target, error) {
	if f.feedName != "" {
		if repo == nil {
			return target{}, errors.New("--feed-name needs the registry database")
		}
		feed, err := repo.GetFeedByName(ctx, f.feedName)
		if err != nil {
			return target{}, err
		}
		return target{name: feed.Name, url: feed.URL, feedID: feed.ID}, nil
	}
	if strings.TrimSpace(f.url) == "" {
		return target{}, errors.New("one of --url or --feed-name is required")
	}
	if err := helper.ValidateFeedURL(f.url); err != nil {
		return target{}, err
	}
	return target{name: defaultName, url: f.url}, nil
}
