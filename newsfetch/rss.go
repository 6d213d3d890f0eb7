package newsfetch

import (
	"context"
	"strings"

	"biaslens/types"

	"github.com/mmcdole/gofeed"
	log "github.com/sirupsen/logrus"
)

// FeedPresets maps friendly names to RSS feed URLs
var FeedPresets = map[string]string{
	"cna": "https://www.channelnewsasia.com/api/v1/rss-outbound-feed?_format=xml",
	"st":  "https://www.straitstimes.com/news/singapore/rss.xml",
	"hn":  "https://hnrss.org/newest",
	"tr":  "https://www.technologyreview.com/feed/",
}

// ResolveFeedURL resolves a feed identifier to a URL
// If the input is a preset name, returns the corresponding URL
// Otherwise, returns the input as-is (assuming it's a direct URL)
func ResolveFeedURL(feedInput string) string {
	if url, exists := FeedPresets[feedInput]; exists {
		return url
	}
	return feedInput
}

// fetchFromFeeds pulls items from the configured RSS feeds, keeps those
// whose title or description mentions the topic, and runs the same
// extraction path as the search-based source. Feed failures are per-feed,
// never fatal for the whole acquisition.
func (f *Fetcher) fetchFromFeeds(ctx context.Context, topic string, count int) ([]types.Article, error) {
	feeds := f.feeds
	if len(feeds) == 0 {
		feeds = []string{"st"}
	}
	needle := strings.ToLower(topic)

	parser := gofeed.NewParser()
	articles := make([]types.Article, 0, count)
	for _, feedInput := range feeds {
		if len(articles) >= count {
			break
		}
		feedURL := ResolveFeedURL(feedInput)
		log.Printf("Fetching RSS feed: %s", feedURL)
		feed, err := parser.ParseURLWithContext(feedURL, ctx)
		if err != nil {
			log.Printf("Failed to fetch feed %s: %v", feedURL, err)
			continue
		}

		for _, item := range feed.Items {
			if len(articles) >= count {
				break
			}
			if item.Link == "" || item.Title == "" {
				continue
			}
			haystack := strings.ToLower(item.Title + " " + item.Description)
			if needle != "" && !strings.Contains(haystack, needle) {
				continue
			}

			text, err := f.extract(ctx, item.Link)
			if err != nil || text == "" {
				if err != nil {
					log.Printf("Failed to process URL %s: %v", item.Link, err)
				}
				continue
			}

			article := types.Article{
				Title: item.Title,
				Text:  text,
				URL:   item.Link,
			}
			if item.PublishedParsed != nil {
				article.PublishedAt = item.PublishedParsed
			} else if item.UpdatedParsed != nil {
				article.PublishedAt = item.UpdatedParsed
			}
			articles = append(articles, article)
		}
	}

	log.Printf("Successfully processed and cleaned %d articles from %d feed(s).", len(articles), len(feeds))
	return articles, nil
}
