// Package news fetches headlines for a symbol and grades their tone with a
// keyword match.
package news

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/mmcdole/gofeed"

	"StockPulse/internal/model"
)

// ErrNoNews is returned when a feed has no items for the symbol.
var ErrNoNews = errors.New("no news")

// Source supplies the latest headlines for a symbol, newest first.
type Source interface {
	FetchNews(ctx context.Context, symbol string, limit int) ([]model.NewsItem, error)
}

// RSSSource reads headlines from an RSS feed. FeedURL holds one %s verb
// that receives the query-escaped symbol.
type RSSSource struct {
	FeedURL string
	parser  *gofeed.Parser
}

// NewRSSSource creates an RSSSource.
func NewRSSSource(feedURL string, timeout time.Duration) *RSSSource {
	p := gofeed.NewParser()
	p.Client = &http.Client{Timeout: timeout}
	p.UserAgent = "Mozilla/5.0"
	return &RSSSource{FeedURL: feedURL, parser: p}
}

func (s *RSSSource) FetchNews(ctx context.Context, symbol string, limit int) ([]model.NewsItem, error) {
	u := fmt.Sprintf(s.FeedURL, url.QueryEscape(symbol))
	feed, err := s.parser.ParseURLWithContext(u, ctx)
	if err != nil {
		return nil, fmt.Errorf("parse feed %s: %w", symbol, err)
	}
	if len(feed.Items) == 0 {
		return nil, fmt.Errorf("feed %s: %w", symbol, ErrNoNews)
	}

	sort.SliceStable(feed.Items, func(i, j int) bool {
		a, b := feed.Items[i].PublishedParsed, feed.Items[j].PublishedParsed
		if a == nil || b == nil {
			return a != nil
		}
		return a.After(*b)
	})

	items := make([]model.NewsItem, 0, limit)
	for _, it := range feed.Items {
		if limit > 0 && len(items) == limit {
			break
		}
		n := model.NewsItem{
			Title:   strings.TrimSpace(it.Title),
			Summary: plainText(it.Description),
			Link:    it.Link,
			Source:  feed.Title,
		}
		if it.PublishedParsed != nil {
			n.PublishedAt = it.PublishedParsed.UTC()
		}
		items = append(items, n)
	}
	return items, nil
}

// plainText strips markup from a feed description.
func plainText(html string) string {
	if !strings.ContainsAny(html, "<&") {
		return strings.TrimSpace(html)
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return strings.TrimSpace(html)
	}
	return strings.Join(strings.Fields(doc.Text()), " ")
}
