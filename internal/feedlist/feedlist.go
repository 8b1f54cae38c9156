// Package feedlist reads YAML files of named feeds for bulk registration.
//
//	feeds:
//	  - name: campus
//	    url: https://news.example.edu/rss.xml
package feedlist

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"newsticker/internal/helper"
)

var (
	ErrNoFeeds     = errors.New("feed list has no feeds")
	ErrMissingName = errors.New("feed name is required")
)

type Entry struct {
	Name string `yaml:"name"`
	URL  string `yaml:"url"`
}

type File struct {
	Feeds []Entry `yaml:"feeds"`
}

// Parse decodes and validates a feed list. Names must be unique.
func Parse(r io.Reader) ([]Entry, error) {
	var f File
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrNoFeeds
		}
		return nil, fmt.Errorf("decode feed list: %w", err)
	}
	if len(f.Feeds) == 0 {
		return nil, ErrNoFeeds
	}

	seen := make(map[string]bool, len(f.Feeds))
	out := make([]Entry, 0, len(f.Feeds))
	for i, e := range f.Feeds {
		e.Name = strings.TrimSpace(e.Name)
		e.URL = strings.TrimSpace(e.URL)
		if e.Name == "" {
			return nil, fmt.Errorf("feeds[%d]: %w", i, ErrMissingName)
		}
		if seen[e.Name] {
			return nil, fmt.Errorf("feeds[%d]: duplicate name %q", i, e.Name)
		}
		if err := helper.ValidateFeedURL(e.URL); err != nil {
			return nil, fmt.Errorf("feeds[%d] %s: %w", i, e.Name, err)
		}
		seen[e.Name] = true
		out = append(out, e)
	}
	return out, nil
}

func ParseFile(path string) ([]Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Parse(f)
}
