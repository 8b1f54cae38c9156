package domain

import "context"

// FeedRepository is the persistence port for the feed registry and the
// headline archive.
type FeedRepository interface {
	Ensure(ctx context.Context) error
	AddFeed(ctx context.Context, name, url string) error
	DeleteFeed(ctx context.Context, name string) (int64, error)
	ListFeeds(ctx context.Context, limit int) ([]Feed, error)
	GetFeedByName(ctx context.Context, name string) (Feed, error)
	ListArticlesByFeed(ctx context.Context, feedID string, limit int) ([]Article, error)
	UpsertArticle(ctx context.Context, a Article) error
	MarkFeedPolled(ctx context.Context, feedID string) error
}

// FeedFetcher fetches and parses a feed document.
type FeedFetcher interface {
	Fetch(ctx context.Context, feedURL string) (FetchResult, error)
}

// Region is a render target owned by exactly one ticker. Render replaces the
// whole content of the region.
type Region interface {
	Render(f Frame)
}

// HeadlineSink records headlines after a successful fetch.
type HeadlineSink interface {
	Record(ctx context.Context, items []FeedItem) error
}

// TickerControl exposes runtime controls of the running tickers.
type TickerControl interface {
	SetHover(name string, hovering bool) error
	StopTicker(name string) error
	Statuses() []TickerStatus
	Preview(name string) (string, error)
	Names() []string
}
