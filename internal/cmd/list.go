package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/pflag"

	"newsticker/internal/config"
)

func List(args []string) error {
	fset := pflag.NewFlagSet("list", pflag.ContinueOnError)
	var num int
	fset.IntVar(&num, "num", 0, "limit number of feeds (0 = all)")
	if err := fset.Parse(args); err != nil {
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

	feeds, err := repo.ListFeeds(ctx, num)
	if err != nil {
		return fmt.Errorf("could not list feeds: %w", err)
	}

	if len(feeds) == 0 {
		fmt.Println("No feeds registered")
		return nil
	}

	fmt.Print("Registered feeds\n\n")
	for i, f := range feeds {
		fmt.Printf("%d. %s\n   URL: %s\n   Added: %s\n\n",
			i+1,
			f.Name,
			f.URL,
			f.CreatedAt.Format("2006-01-02 15:04"),
		)
	}
	return nil
}
