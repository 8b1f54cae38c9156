package helper

import (
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// ValidateFeedURL checks that feedURL is an absolute http(s) URL.
func ValidateFeedURL(feedURL string) error {
	u, err := url.ParseRequestURI(feedURL)
	if err != nil {
		return fmt.Errorf("invalid feed URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("unsupported scheme: %s", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("invalid feed URL: missing host")
	}
	return nil
}

// CheckReachable validates feedURL and issues a GET to make sure it
// answers with a 2xx status.
func CheckReachable(client *http.Client, feedURL string) error {
	if err := ValidateFeedURL(feedURL); err != nil {
		return err
	}
	if client == nil {
		client = &http.Client{Timeout: 5 * time.Second}
	}
	resp, err := client.Get(feedURL)
	if err != nil {
		return fmt.Errorf("could not reach URL: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("bad response status: %s", resp.Status)
	}
	return nil
}
