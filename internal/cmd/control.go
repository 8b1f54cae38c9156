package cmd

import (
	"fmt"

	"github.com/spf13/pflag"

	"newsticker/internal/config"
	"newsticker/internal/control"
)

func Status(args []string) error {
	fset := pflag.NewFlagSet("status", pflag.ContinueOnError)
	if err := fset.Parse(args); err != nil {
		return err
	}
	c, err := controlClient()
	if err != nil {
		return err
	}
	statuses, err := c.Statuses()
	if err != nil {
		return fmt.Errorf("could not reach the running process: %w", err)
	}
	if len(statuses) == 0 {
		fmt.Println("No tickers running")
		return nil
	}
	for _, st := range statuses {
		fmt.Printf("%s [%s]\n   URL: %s\n   Items: %d  Cursor: %d  Reveal: %d  Next tick: %s\n\n",
			st.Name, st.State, st.FeedURL, st.Items, st.Cursor, st.RevealLength, st.NextDelay)
	}
	return nil
}

func Pause(args []string) error {
	return tickerAction("pause", args, (*control.Client).Pause, "paused")
}

func Resume(args []string) error {
	return tickerAction("resume", args, (*control.Client).Resume, "resumed")
}

func Stop(args []string) error {
	return tickerAction("stop", args, (*control.Client).Stop, "stopped")
}

func tickerAction(cmd string, args []string, action func(*control.Client, string) error, done string) error {
	fset := pflag.NewFlagSet(cmd, pflag.ContinueOnError)
	var name string
	fset.StringVar(&name, "name", "", "ticker name (default: all tickers)")
	if err := fset.Parse(args); err != nil {
		return err
	}
	c, err := controlClient()
	if err != nil {
		return err
	}
	if err := action(c, name); err != nil {
		return fmt.Errorf("could not %s: %w", cmd, err)
	}
	if name == "" {
		name = "all tickers"
	}
	fmt.Printf("%s %s\n", name, done)
	return nil
}

func controlClient() (*control.Client, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	return control.NewClient(cfg.ControlAddr), nil
}
