package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/pflag"

	"newsticker/internal/config"
)

func Delete(args []string) error {
	fset := pflag.NewFlagSet("delete", pflag.ContinueOnError)
	var name string
	fset.StringVar(&name, "name", "", "feed name")
	if err := fset.Parse(args); err != nil {
		return err
	}

	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("--name is required")
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

	rows, err := repo.DeleteFeed(ctx, name)
	if err != nil {
		return fmt.Errorf("could not delete feed %q: %w", name, err)
	}

	if rows == 0 {
		return fmt.Errorf("feed %q not found", name)
	}

	fmt.Printf("Feed %q deleted successfully\n", name)
	return nil
}
