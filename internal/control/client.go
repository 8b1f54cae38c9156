package control

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"newsticker/domain"
)

// AllTickers addresses every ticker of the running process.
const AllTickers = "all"

type Client struct {
	addr string
	http *http.Client
}

func NewClient(addr string) *Client {
	return &Client{addr: addr, http: &http.Client{Timeout: 5 * time.Second}}
}

func (c *Client) Pause(name string) error { return c.hover(name, http.MethodPost) }

func (c *Client) Resume(name string) error { return c.hover(name, http.MethodDelete) }

func (c *Client) Stop(name string) error {
	_, err := c.do(http.MethodPost, "/tickers/"+tickerPath(name)+"/stop")
	return err
}

func (c *Client) Statuses() ([]domain.TickerStatus, error) {
	body, err := c.do(http.MethodGet, "/tickers")
	if err != nil {
		return nil, err
	}
	var out []domain.TickerStatus
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("decode statuses: %w", err)
	}
	return out, nil
}

func (c *Client) Preview(name string) (string, error) {
	body, err := c.do(http.MethodGet, "/tickers/"+url.PathEscape(name))
	if err != nil {
		return "", err
	}
	return string(body), nil
}

func (c *Client) hover(name, method string) error {
	_, err := c.do(method, "/tickers/"+tickerPath(name)+"/hover")
	return err
}

func (c *Client) do(method, path string) ([]byte, error) {
	req, err := http.NewRequest(method, "http://"+c.addr+path, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= 300 {
		var e struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(body, &e) == nil && e.Error != "" {
			return nil, fmt.Errorf("server error: %s: %s", resp.Status, e.Error)
		}
		return nil, fmt.Errorf("server error: %s", resp.Status)
	}
	return body, nil
}

func tickerPath(name string) string {
	if name == "" {
		return AllTickers
	}
	return url.PathEscape(name)
}
