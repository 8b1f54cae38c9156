package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/pflag"

	"newsticker/internal/config"
)

func Articles(args []string) error {
	fset := pflag.NewFlagSet("articles", pflag.ContinueOnError)
	var feedName string
	var num int
	fset.StringVar(&feedName, "feed-name", "", "feed name")
	fset.IntVar(&num, "num", 3, "number of headlines")
	if err := fset.Parse(args); err != nil {
		return err
	}

	if strings.TrimSpace(feedName) == "" {
		return fmt.Errorf("--feed-name is required")
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

	feed, err := repo.GetFeedByName(ctx, feedName)
	if err != nil {
		return err
	}

	arts, err := repo.ListArticlesByFeed(ctx, feed.ID, num)
	if err != nil {
		return fmt.Errorf("could not fetch headlines for %q: %w", feedName, err)
	}

	if len(arts) == 0 {
		fmt.Printf("No archived headlines for feed %q (run with --archive to record them)\n", feedName)
		return nil
	}

	fmt.Printf("Headlines from feed: %s\n\n", feed.Name)
	for i, a := range arts {
		fmt.Printf("%d. [%s] %s\n   %s\n\n",
			i+1,
			a.PublishedAt.Format("2006-01-02"),
			a.Title,
			a.Link,
		)
	}
	return nil
}
