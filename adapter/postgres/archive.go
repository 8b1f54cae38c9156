package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"newsticker/domain"
)

// FeedArchive records the headlines a ticker fetched against one
// registered feed. It is write-only from the ticker's point of view.
type FeedArchive struct {
	repo   domain.FeedRepository
	feedID string
	now    func() time.Time
}

func NewFeedArchive(repo domain.FeedRepository, feedID string) *FeedArchive {
	return &FeedArchive{repo: repo, feedID: feedID, now: time.Now}
}

// Record upserts every item and marks the feed as polled. Entries without
// a publication date are stamped with the fetch time.
func (a *FeedArchive) Record(ctx context.Context, items []domain.FeedItem) error {
	fetchedAt := a.now()
	var errs []error
	for _, it := range items {
		published := it.PublishedAt
		if published.IsZero() {
			published = fetchedAt
		}
		err := a.repo.UpsertArticle(ctx, domain.Article{
			Title:       it.Title,
			Link:        it.Link,
			Description: it.Description,
			PublishedAt: published,
			FeedID:      a.feedID,
		})
		if err != nil {
			errs = append(errs, fmt.Errorf("archive %q: %w", it.Link, err))
		}
	}
	if err := a.repo.MarkFeedPolled(ctx, a.feedID); err != nil {
		errs = append(errs, fmt.Errorf("mark feed polled: %w", err))
	}
	return errors.Join(errs...)
}
