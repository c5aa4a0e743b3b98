// Package movie turns loosely shaped search responses into display-ready
// movie records.
package movie

import (
	"fmt"
	"strings"
)

// Record represents one movie card.
type Record struct {
	ID        string
	Title     string
	PosterURL string
	Rank      string
	Year      string
	Actors    string
	PageURL   string
}

// imdbTitleURL is used to derive a page URL from a bare IMDb title ID.
const imdbTitleURL = "https://www.imdb.com/title/%s/"

// identity returns the key used to tell cards apart within one result set.
// It is the upstream ID when one was provided, otherwise title, year and
// position joined together.
func identity(id, title, year string, index int) string {
	if id != "" {
		return id
	}
	return fmt.Sprintf("%s-%s-%d", title, year, index)
}

func pageURL(explicit, id string) string {
	if explicit != "" {
		return explicit
	}
	if strings.HasPrefix(id, "tt") {
		return fmt.Sprintf(imdbTitleURL, id)
	}
	return ""
}
