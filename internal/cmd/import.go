package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/pflag"

	"newsticker/domain"
	"newsticker/internal/config"
	"newsticker/internal/feedlist"
)

func Import(args []string) error {
	fset := pflag.NewFlagSet("import", pflag.ContinueOnError)
	var path string
	fset.StringVar(&path, "file", "feeds.yaml", "YAML feed list")
	if err := fset.Parse(args); err != nil {
		return err
	}

	entries, err := feedlist.ParseFile(path)
	if err != nil {
		return fmt.Errorf("could not read %s: %w", path, err)
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

	added, existing := 0, 0
	for _, e := range entries {
		err := repo.AddFeed(ctx, e.Name, e.URL)
		switch {
		case errors.Is(err, domain.ErrFeedExists):
			existing++
		case err != nil:
			return fmt.Errorf("could not add feed %q: %w", e.Name, err)
		default:
			added++
		}
	}
	fmt.Printf("Imported %d feed(s) from %s (%d already registered)\n", added, path, existing)
	return nil
}
