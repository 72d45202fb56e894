// Package wiki fetches short plain-text Wikipedia summaries through the
// MediaWiki action API.
package wiki

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/time/rate"

	"wikiqa/internal/config"
	"wikiqa/internal/httputil"
)

const (
	DefaultSummaryChars = 384
	DefaultSearchLimit  = 10
)

// Article is the paragraph shown to the user and fed to the model.
type Article struct {
	Query string `json:"query"`
	Title string `json:"title"`
	Text  string `json:"text"`
}

// Client is a rate-limited MediaWiki API client.
type Client struct {
	APIURL       string
	UserAgent    string
	SummaryChars int
	SearchLimit  int
	MaxRetries   int
	HTTPClient   *http.Client
	limiter      *rate.Limiter
}

func NewClient(cfg config.WikipediaConfig) *Client {
	limit := rate.Inf
	if cfg.RequestsPerSecond > 0 {
		limit = rate.Limit(cfg.RequestsPerSecond)
	}
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		APIURL:       cfg.APIURL,
		UserAgent:    cfg.UserAgent,
		SummaryChars: cfg.SummaryChars,
		SearchLimit:  cfg.SearchLimit,
		MaxRetries:   cfg.MaxRetries,
		HTTPClient:   &http.Client{Timeout: timeout},
		limiter:      rate.NewLimiter(limit, 1),
	}
}

type apiEnvelope struct {
	Error *struct {
		Code string `json:"code"`
		Info string `json:"info"`
	} `json:"error"`
}

func (c *Client) get(ctx context.Context, params url.Values, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("wiki: rate limit wait: %w", err)
	}

	params.Set("format", "json")
	params.Set("formatversion", "2")
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.APIURL+"?"+params.Encode(), nil)
	if err != nil {
		return fmt.Errorf("wiki: create request: %w", err)
	}
	if c.UserAgent != "" {
		req.Header.Set("User-Agent", c.UserAgent)
	}

	resp, err := httputil.DoWithRetry(ctx, c.HTTPClient, req, c.MaxRetries)
	if err != nil {
		return fmt.Errorf("wiki: request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return fmt.Errorf("wiki: read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("wiki: api returned status %d", resp.StatusCode)
	}

	var env apiEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return fmt.Errorf("wiki: decode response: %w", err)
	}
	if env.Error != nil {
		return &APIError{Code: env.Error.Code, Info: env.Error.Info}
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("wiki: decode response: %w", err)
	}
	return nil
}

// Search returns up to limit page titles matching query, best first.
func (c *Client) Search(ctx context.Context, query string, limit int) ([]string, error) {
	if limit <= 0 {
		limit = DefaultSearchLimit
	}
	params := url.Values{
		"action":   {"query"},
		"list":     {"search"},
		"srsearch": {query},
		"srlimit":  {strconv.Itoa(limit)},
		"srprop":   {""},
	}
	var out struct {
		Query struct {
			Search []struct {
				Title string `json:"title"`
			} `json:"search"`
		} `json:"query"`
	}
	if err := c.get(ctx, params, &out); err != nil {
		return nil, err
	}
	titles := make([]string, 0, len(out.Query.Search))
	for _, s := range out.Query.Search {
		titles = append(titles, s.Title)
	}
	return titles, nil
}

// Summary returns the first chars characters of the plain-text extract of
// title, following redirects. A missing page yields *PageError and a
// disambiguation page yields *DisambiguationError.
func (c *Client) Summary(ctx context.Context, title string, chars int) (string, error) {
	if chars <= 0 {
		chars = DefaultSummaryChars
	}
	params := url.Values{
		"action":      {"query"},
		"prop":        {"extracts|pageprops"},
		"ppprop":      {"disambiguation"},
		"explaintext": {"1"},
		"exchars":     {strconv.Itoa(chars)},
		"redirects":   {"1"},
		"titles":      {title},
	}
	var out struct {
		Query struct {
			Pages []struct {
				Title     string            `json:"title"`
				Missing   bool              `json:"missing"`
				Invalid   bool              `json:"invalid"`
				Extract   string            `json:"extract"`
				PageProps map[string]string `json:"pageprops"`
			} `json:"pages"`
		} `json:"query"`
	}
	if err := c.get(ctx, params, &out); err != nil {
		return "", err
	}
	if len(out.Query.Pages) == 0 {
		return "", &PageError{Title: title}
	}
	page := out.Query.Pages[0]
	if page.Missing || page.Invalid {
		return "", &PageError{Title: title}
	}
	if _, ok := page.PageProps["disambiguation"]; ok {
		options, err := c.Options(ctx, page.Title)
		if err != nil {
			return "", err
		}
		return "", &DisambiguationError{Title: page.Title, Options: options}
	}
	return strings.TrimSpace(page.Extract), nil
}

// Options lists the link targets of a disambiguation page: the first
// anchor of every list item outside the table of contents.
func (c *Client) Options(ctx context.Context, title string) ([]string, error) {
	params := url.Values{
		"action":    {"parse"},
		"page":      {title},
		"prop":      {"text"},
		"redirects": {"1"},
	}
	var out struct {
		Parse struct {
			Text string `json:"text"`
		} `json:"parse"`
	}
	if err := c.get(ctx, params, &out); err != nil {
		return nil, err
	}
	return parseOptions(out.Parse.Text)
}

func parseOptions(html string) ([]string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("wiki: parse disambiguation page: %w", err)
	}
	var options []string
	doc.Find("li").Each(func(_ int, li *goquery.Selection) {
		if class, _ := li.Attr("class"); strings.Contains(class, "tocsection") {
			return
		}
		a := li.Find("a").First()
		if a.Length() == 0 {
			return
		}
		if text := strings.TrimSpace(a.Text()); text != "" {
			options = append(options, text)
		}
	})
	return options, nil
}

// Paragraph searches query and returns the summary of the best hit. When
// that hit is a disambiguation page the first listed option is used.
func (c *Client) Paragraph(ctx context.Context, query string) (*Article, error) {
	q := NormalizeQuery(query)
	if q == "" {
		return nil, ErrEmptyQuery
	}
	titles, err := c.Search(ctx, q, c.SearchLimit)
	if err != nil {
		return nil, err
	}
	if len(titles) == 0 {
		return nil, ErrNoResults
	}

	title := titles[0]
	text, err := c.Summary(ctx, title, c.SummaryChars)
	var dis *DisambiguationError
	if errors.As(err, &dis) {
		if len(dis.Options) == 0 {
			return nil, err
		}
		title = dis.Options[0]
		text, err = c.Summary(ctx, title, c.SummaryChars)
	}
	if err != nil {
		return nil, err
	}
	return &Article{Query: q, Title: title, Text: text}, nil
}
