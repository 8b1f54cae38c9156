package rss

import (
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/transform"

	"newsticker/domain"
)

const maxBodyBytes = 4 << 20

type HTTPFetcher struct {
	client  *http.Client
	maxBody int64
}

func NewHTTPFetcher() *HTTPFetcher {
	return &HTTPFetcher{client: &http.Client{Timeout: 20 * time.Second}, maxBody: maxBodyBytes}
}

// NewHTTPFetcherWithClient is used by tests to point the fetcher at an
// httptest server client.
func NewHTTPFetcherWithClient(client *http.Client) *HTTPFetcher {
	return &HTTPFetcher{client: client, maxBody: maxBodyBytes}
}

// Fetch issues a single GET for feedURL. A status >= 300 is reported as a
// *domain.TransportError. Any 2xx response yields a FetchResult, even when
// nothing in it could be used.
func (f *HTTPFetcher) Fetch(ctx context.Context, feedURL string) (domain.FetchResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, feedURL, nil)
	if err != nil {
		return domain.FetchResult{}, err
	}
	req.Header.Set("Accept", "application/rss+xml, application/xml;q=0.9, text/xml;q=0.8, */*;q=0.1")
	resp, err := f.client.Do(req)
	if err != nil {
		return domain.FetchResult{}, fmt.Errorf("fetch %s: %w", feedURL, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return domain.FetchResult{}, &domain.TransportError{URL: feedURL, StatusCode: resp.StatusCode}
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBody+1))
	if err != nil {
		return domain.FetchResult{}, fmt.Errorf("read %s: %w", feedURL, err)
	}
	if int64(len(body)) > f.maxBody {
		return domain.FetchResult{}, fmt.Errorf("%w: %s exceeds %d bytes", domain.ErrFeedTooLarge, feedURL, f.maxBody)
	}
	return Parse(body), nil
}

// Parse extracts every item element of an RSS 2.0 or RSS 1.0 document.
// Entries lacking a title, link or description element are skipped and
// reported in Skipped.
func Parse(body []byte) domain.FetchResult {
	res := domain.FetchResult{Body: body}

	var doc rssDocument
	dec := xml.NewDecoder(bytes.NewReader(body))
	dec.CharsetReader = charsetReader
	if err := dec.Decode(&doc); err != nil {
		res.DecodeErr = err
		return res
	}

	entries := append(doc.Channel.Items, doc.Items...)
	res.Items = make([]domain.FeedItem, 0, len(entries))
	for i, it := range entries {
		item, err := it.toFeedItem(i)
		if err != nil {
			res.Skipped = append(res.Skipped, err)
			continue
		}
		res.Items = append(res.Items, item)
	}
	return res
}

// rssDocument covers rss/channel/item (RSS 2.0) and rdf:RDF/item (RSS 1.0).
type rssDocument struct {
	Channel struct {
		Items []rssItem `xml:"item"`
	} `xml:"channel"`
	Items []rssItem `xml:"item"`
}

type rssItem struct {
	Title       *string `xml:"title"`
	Link        *string `xml:"link"`
	Description *string `xml:"description"`
	PubDate     string  `xml:"pubDate"`
}

func (it rssItem) toFeedItem(index int) (domain.FeedItem, error) {
	switch {
	case it.Title == nil || strings.TrimSpace(*it.Title) == "":
		return domain.FeedItem{}, &domain.MalformedEntryError{Index: index, Field: "title"}
	case it.Link == nil || strings.TrimSpace(*it.Link) == "":
		return domain.FeedItem{}, &domain.MalformedEntryError{Index: index, Field: "link"}
	case it.Description == nil:
		return domain.FeedItem{}, &domain.MalformedEntryError{Index: index, Field: "description"}
	}
	return domain.FeedItem{
		Title:       strings.TrimSpace(*it.Title),
		Link:        strings.TrimSpace(*it.Link),
		Description: strings.TrimSpace(*it.Description),
		PublishedAt: parsePubDate(it.PubDate),
	}, nil
}

func parsePubDate(s string) time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}
	}
	for _, layout := range []string{time.RFC1123Z, time.RFC1123, time.RFC822Z, time.RFC822, time.RFC3339} {
		if p, err := time.Parse(layout, s); err == nil {
			return p
		}
	}
	return time.Time{}
}

// charsetReader decodes the legacy charsets a feed's XML declaration may
// name, using the WHATWG label table.
func charsetReader(label string, input io.Reader) (io.Reader, error) {
	enc, err := htmlindex.Get(label)
	if err != nil {
		return nil, fmt.Errorf("unsupported charset %q: %w", label, err)
	}
	return transform.NewReader(input, enc.NewDecoder()), nil
}
