// Package details scrapes a movie's public page for the detail overlay.
package details

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"html"
	"net/http"
	"os/exec"
	"regexp"
	"runtime"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Details is what the overlay shows for one movie.
type Details struct {
	Title    string
	Summary  string
	Rating   string
	Genres   []string
	Released string
	URL      string
}

// StatusError reports a non-2xx response for a detail page.
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("failed to fetch movie details with status code: %d", e.StatusCode)
}

// Fetcher loads detail pages.
type Fetcher struct {
	client *http.Client
}

// NewFetcher creates a fetcher. A nil client uses http.DefaultClient.
func NewFetcher(client *http.Client) *Fetcher {
	if client == nil {
		client = http.DefaultClient
	}
	return &Fetcher{client: client}
}

// Fetch downloads pageURL and extracts its details.
func (f *Fetcher) Fetch(ctx context.Context, pageURL string) (*Details, error) {
	if strings.TrimSpace(pageURL) == "" {
		return nil, fmt.Errorf("movie has no page URL")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept-Language", "en-US,en;q=0.8")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{URL: pageURL, StatusCode: resp.StatusCode}
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse detail page: %w", err)
	}
	return Parse(doc, pageURL), nil
}

// titleSuffixRe strips site suffixes such as " - IMDb" or " | Site".
var titleSuffixRe = regexp.MustCompile(`\s+[-|]\s+[^-|]*$`)

// Parse extracts details from an already parsed page. Structured data is
// preferred; meta tags fill the gaps.
func Parse(doc *goquery.Document, pageURL string) *Details {
	d := &Details{URL: pageURL}

	if ld, ok := linkedData(doc); ok {
		d.Title = ld.Name
		d.Summary = ld.Description
		d.Released = ld.DatePublished
		d.Genres = ld.Genre.values
		if ld.AggregateRating != nil {
			d.Rating = string(ld.AggregateRating.RatingValue)
		}
	}

	if d.Title == "" {
		d.Title = metaContent(doc, `meta[property="og:title"]`)
		if d.Title == "" {
			d.Title = strings.TrimSpace(doc.Find("title").First().Text())
		}
		d.Title = strings.TrimSpace(titleSuffixRe.ReplaceAllString(d.Title, ""))
	}
	if d.Summary == "" {
		d.Summary = metaContent(doc, `meta[property="og:description"]`)
	}
	if d.Summary == "" {
		d.Summary = metaContent(doc, `meta[name="description"]`)
	}

	d.Title = cleanText(d.Title)
	d.Summary = cleanText(d.Summary)
	return d
}

func metaContent(doc *goquery.Document, selector string) string {
	v, _ := doc.Find(selector).First().Attr("content")
	return strings.TrimSpace(v)
}

// movieLD is the subset of schema.org Movie data we read.
type movieLD struct {
	Name            string     `json:"name"`
	Description     string     `json:"description"`
	DatePublished   string     `json:"datePublished"`
	Genre           stringList `json:"genre"`
	AggregateRating *struct {
		RatingValue scalar `json:"ratingValue"`
	} `json:"aggregateRating"`
}

// stringList accepts either a JSON string or an array of strings.
type stringList struct {
	values []string
}

func (s *stringList) UnmarshalJSON(b []byte) error {
	var one string
	if err := json.Unmarshal(b, &one); err == nil {
		if one != "" {
			s.values = []string{one}
		}
		return nil
	}
	var many []string
	if err := json.Unmarshal(b, &many); err != nil {
		return nil // unknown shape: leave empty
	}
	s.values = many
	return nil
}

// scalar accepts a JSON number or string, such as "7.4" or 7.4.
type scalar string

func (v *scalar) UnmarshalJSON(b []byte) error {
	var n json.Number
	if err := json.Unmarshal(b, &n); err == nil {
		*v = scalar(n.String())
		return nil
	}
	var str string
	if err := json.Unmarshal(b, &str); err == nil {
		*v = scalar(strings.TrimSpace(str))
	}
	return nil // other shapes: leave empty
}

// linkedData returns the first movie-like ld+json node on the page. A
// script may hold one object, an array of objects or an @graph.
func linkedData(doc *goquery.Document) (movieLD, bool) {
	var found movieLD
	var ok bool
	doc.Find(`script[type="application/ld+json"]`).EachWithBreak(func(i int, s *goquery.Selection) bool {
		var raw json.RawMessage
		if err := json.Unmarshal([]byte(s.Text()), &raw); err != nil {
			return true
		}
		found, ok = firstMovieLD(raw)
		return !ok
	})
	return found, ok
}

func firstMovieLD(raw json.RawMessage) (movieLD, bool) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return movieLD{}, false
	}
	if trimmed[0] == '[' {
		var nodes []json.RawMessage
		if err := json.Unmarshal(trimmed, &nodes); err != nil {
			return movieLD{}, false
		}
		for _, n := range nodes {
			if ld, ok := firstMovieLD(n); ok {
				return ld, true
			}
		}
		return movieLD{}, false
	}

	var node struct {
		movieLD
		Graph []json.RawMessage `json:"@graph"`
	}
	if err := json.Unmarshal(trimmed, &node); err != nil {
		return movieLD{}, false
	}
	if node.Name != "" || node.Description != "" {
		return node.movieLD, true
	}
	for _, n := range node.Graph {
		if ld, ok := firstMovieLD(n); ok {
			return ld, true
		}
	}
	return movieLD{}, false
}

var whitespaceRe = regexp.MustCompile(`\s+`)

func cleanText(s string) string {
	s = html.UnescapeString(s)
	return strings.TrimSpace(whitespaceRe.ReplaceAllString(s, " "))
}

// OpenBrowser opens a URL in the default browser.
func OpenBrowser(url string) error {
	name, args := browserCommand(runtime.GOOS, url)
	return exec.Command(name, args...).Start()
}

func browserCommand(goos, url string) (string, []string) {
	switch goos {
	case "windows":
		return "cmd", []string{"/c", "start", url}
	case "darwin":
		return "open", []string{url}
	default: // "linux", "freebsd", etc.
		return "xdg-open", []string{url}
	}
}
