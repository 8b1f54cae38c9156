package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/pflag"

	"newsticker/domain"
	"newsticker/internal/config"
	"newsticker/internal/helper"
)

func Add(args []string) error {
	fset := pflag.NewFlagSet("add", pflag.ContinueOnError)
	var name string
	var feedURL string
	var check bool
	fset.StringVar(&name, "name", "", "feed name")
	fset.StringVar(&feedURL, "url", "", "feed URL")
	fset.BoolVar(&check, "check", false, "fetch the URL once before registering it")
	if err := fset.Parse(args); err != nil {
		return err
	}

	name = strings.TrimSpace(name)
	feedURL = strings.TrimSpace(feedURL)
	if name == "" || feedURL == "" {
		return fmt.Errorf("both --name and --url are required")
	}
	if check {
		if err := helper.CheckReachable(nil, feedURL); err != nil {
			return err
		}
	} else if err := helper.ValidateFeedURL(feedURL); err != nil {
		return err
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	ctx := context.Background()
	repo, closeDB, err := openRepo(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeDB()

	if err := repo.AddFeed(ctx, name, feedURL); err != nil {
		if errors.Is(err, domain.ErrFeedExists) {
			return fmt.Errorf("feed %q already exists", name)
		}
		return fmt.Errorf("could not add feed: %w", err)
	}

	fmt.Printf("Feed %q added successfully (%s)\n", name, feedURL)
	return nil
}
