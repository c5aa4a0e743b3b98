package details

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/google/go-cmp/cmp"
)

const ldPage = `<!doctype html><html><head>
<title>Spider-Man (2002) - IMDb</title>
<meta property="og:title" content="Spider-Man (2002) ⭐ 7.4 | Action">
<meta property="og:description" content="og text">
<script type="application/ld+json">{"@type":"Movie","name":"Spider-Man",
 "description":"When bitten by a genetically modified spider, a nerdy high school student gains spider-like abilities &amp; more.",
 "datePublished":"2002-05-03","genre":["Action","Adventure","Sci-Fi"],
 "aggregateRating":{"@type":"AggregateRating","ratingValue":7.4}}</script>
</head><body></body></html>`

const metaPage = `<!doctype html><html><head>
<title>Plain Title - Some Site</title>
<meta name="description" content="  A   quiet
 film.  ">
<script type="application/ld+json">not json</script>
</head></html>`

func parse(t *testing.T, page string) *Details {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page))
	if err != nil {
		t.Fatalf("parse fixture: %v", err)
	}
	return Parse(doc, "https://example.test/title/tt1/")
}

func TestParseLinkedData(t *testing.T) {
	got := parse(t, ldPage)
	want := &Details{
		Title:    "Spider-Man",
		Summary:  "When bitten by a genetically modified spider, a nerdy high school student gains spider-like abilities & more.",
		Rating:   "7.4",
		Genres:   []string{"Action", "Adventure", "Sci-Fi"},
		Released: "2002-05-03",
		URL:      "https://example.test/title/tt1/",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("details mismatch (-want +got):\n%s", diff)
	}
}

func TestParseMetaFallback(t *testing.T) {
	got := parse(t, metaPage)
	if got.Title != "Plain Title" {
		t.Errorf("Title = %q, want %q", got.Title, "Plain Title")
	}
	if got.Summary != "A quiet film." {
		t.Errorf("Summary = %q", got.Summary)
	}
	if got.Rating != "" || len(got.Genres) != 0 {
		t.Errorf("unexpected structured fields %+v", got)
	}
}

func TestParseKeepsHyphenatedTitle(t *testing.T) {
	got := parse(t, `<html><head><meta property="og:title" content="Spider-Man"></head></html>`)
	if got.Title != "Spider-Man" {
		t.Errorf("Title = %q, want Spider-Man", got.Title)
	}
}

func TestParseSingleGenre(t *testing.T) {
	got := parse(t, `<script type="application/ld+json">{"name":"X","genre":"Drama"}</script>`)
	if diff := cmp.Diff([]string{"Drama"}, got.Genres); diff != "" {
		t.Errorf("genres mismatch (-want +got):\n%s", diff)
	}
}

func TestParseLinkedDataShapes(t *testing.T) {
	tests := []struct {
		name       string
		script     string
		wantTitle  string
		wantRating string
	}{
		{
			"array",
			`[{"@type":"WebPage"},{"@type":"Movie","name":"Alien","aggregateRating":{"ratingValue":8.5}}]`,
			"Alien", "8.5",
		},
		{
			"graph",
			`{"@context":"https://schema.org","@graph":[{"@type":"Organization"},{"@type":"Movie","name":"Heat"}]}`,
			"Heat", "",
		},
		{
			"quoted rating",
			`{"name":"Ran","aggregateRating":{"ratingValue":"8.2"}}`,
			"Ran", "8.2",
		},
		{
			"non-numeric rating",
			`{"name":"Tron","aggregateRating":{"ratingValue":"N/A"}}`,
			"Tron", "N/A",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parse(t, `<script type="application/ld+json">`+tt.script+`</script>`)
			if got.Title != tt.wantTitle || got.Rating != tt.wantRating {
				t.Errorf("got title %q rating %q, want %q %q", got.Title, got.Rating, tt.wantTitle, tt.wantRating)
			}
		})
	}
}

func TestFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(ldPage))
	}))
	defer srv.Close()

	f := NewFetcher(srv.Client())
	d, err := f.Fetch(context.Background(), srv.URL+"/title/tt1/")
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if d.Title != "Spider-Man" || d.URL != srv.URL+"/title/tt1/" {
		t.Errorf("details = %+v", d)
	}

	_, err = f.Fetch(context.Background(), srv.URL+"/missing")
	var statusErr *StatusError
	if !errors.As(err, &statusErr) || statusErr.StatusCode != http.StatusNotFound {
		t.Errorf("err = %v, want 404 StatusError", err)
	}

	if _, err := f.Fetch(context.Background(), ""); err == nil {
		t.Error("expected error for empty page URL")
	}
}

func TestBrowserCommand(t *testing.T) {
	tests := []struct {
		goos     string
		wantName string
		wantArgs []string
	}{
		{"darwin", "open", []string{"u"}},
		{"windows", "cmd", []string{"/c", "start", "u"}},
		{"linux", "xdg-open", []string{"u"}},
	}
	for _, tt := range tests {
		name, args := browserCommand(tt.goos, "u")
		if name != tt.wantName {
			t.Errorf("%s: name = %q, want %q", tt.goos, name, tt.wantName)
		}
		if diff := cmp.Diff(tt.wantArgs, args); diff != "" {
			t.Errorf("%s: args mismatch (-want +got):\n%s", tt.goos, diff)
		}
	}
}
