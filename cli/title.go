package cli

import (
	"context"
	"io"
	"net/http"
	"strings"

	"github.com/ka2n/cloudapp/log"
	"github.com/mackee/go-readability"
	"github.com/morikuni/failure/v2"
	"golang.org/x/net/html"
)

// maxPageSize bounds how much of a page is read to find its title
const maxPageSize = 4 << 20

// pageTitle fetches rawURL and returns the title of its article, falling
// back to the document <title>.
func pageTitle(ctx context.Context, client *http.Client, rawURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", failure.Translate(err, TitleUnavailable, failure.Context{"url": rawURL})
	}
	req.Header.Set("Accept", "text/html")

	resp, err := client.Do(req)
	if err != nil {
		return "", failure.Translate(err, TitleUnavailable,
			failure.Message("Failed to fetch the page"),
			failure.Context{"url": rawURL},
		)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= http.StatusBadRequest {
		return "", failure.New(TitleUnavailable,
			failure.Message("Failed to fetch the page"),
			failure.Context{"url": rawURL, "status": resp.Status},
		)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxPageSize))
	if err != nil {
		return "", failure.Translate(err, TitleUnavailable, failure.Context{"url": rawURL})
	}
	return titleOf(rawURL, string(body))
}

func titleOf(rawURL, page string) (string, error) {
	article, err := readability.Extract(page, readability.DefaultOptions())
	if err == nil && strings.TrimSpace(article.Title) != "" {
		return strings.TrimSpace(article.Title), nil
	}
	if err != nil {
		log.Debug("Readability failed", "url", rawURL, "error", err)
	}

	doc, err := html.Parse(strings.NewReader(page))
	if err != nil {
		return "", failure.Translate(err, TitleUnavailable, failure.Context{"url": rawURL})
	}

	var title string
	var findTitle func(*html.Node)
	findTitle = func(n *html.Node) {
		if title != "" {
			return
		}
		if n.Type == html.ElementNode && n.Data == "title" && n.FirstChild != nil {
			title = strings.TrimSpace(n.FirstChild.Data)
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			findTitle(c)
		}
	}
	findTitle(doc)

	if title == "" {
		return "", failure.New(TitleUnavailable,
			failure.Message("The page has no title"),
			failure.Context{"url": rawURL},
		)
	}
	return title, nil
}
