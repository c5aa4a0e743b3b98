package movie

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Rule recognises one response shape. A rule matches when the top-level
// object carries Field and that field holds an array.
type Rule struct {
	Name  string
	Field string
}

// Match returns the raw records held by the rule's field.
func (r Rule) Match(doc map[string]any) ([]any, bool) {
	v, ok := doc[r.Field]
	if !ok {
		return nil, false
	}
	items, ok := v.([]any)
	return items, ok
}

// DefaultRules lists the shapes the search endpoint is known to return,
// most common first.
var DefaultRules = []Rule{
	{Name: "description", Field: "description"},
	{Name: "movies", Field: "movies"},
}

// Upstream field names, first non-empty wins.
var (
	idKeys     = []string{"id", "#IMDB_ID"}
	titleKeys  = []string{"title", "#TITLE"}
	posterKeys = []string{"#IMG_POSTER", "poster"}
	rankKeys   = []string{"#RANK", "rank"}
	yearKeys   = []string{"#YEAR", "year"}
	actorKeys  = []string{"#ACTORS", "actors"}
	urlKeys    = []string{"#IMDB_URL", "url"}
)

// Normalizer maps a search response onto records using an ordered rule set.
type Normalizer struct {
	Rules []Rule
}

// NewNormalizer returns a normalizer using DefaultRules.
func NewNormalizer() *Normalizer {
	return &Normalizer{Rules: DefaultRules}
}

// Normalize decodes raw and returns the records of the first matching rule.
// An unrecognised shape yields an empty, non-nil slice. The only error is
// a body that is not valid JSON.
func (n *Normalizer) Normalize(raw []byte) ([]Record, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}
	return n.NormalizeValue(v), nil
}

// NormalizeValue is Normalize for an already decoded document.
func (n *Normalizer) NormalizeValue(v any) []Record {
	doc, ok := v.(map[string]any)
	if !ok {
		return []Record{}
	}

	for _, rule := range n.Rules {
		items, ok := rule.Match(doc)
		if !ok {
			continue
		}
		records := make([]Record, 0, len(items))
		for i, item := range items {
			records = append(records, buildRecord(item, i))
		}
		return records
	}
	return []Record{}
}

func buildRecord(item any, index int) Record {
	fields, _ := item.(map[string]any) // nil map reads as all-empty

	id := firstString(fields, idKeys)
	title := firstString(fields, titleKeys)
	year := firstString(fields, yearKeys)

	return Record{
		ID:        identity(id, title, year, index),
		Title:     title,
		PosterURL: firstString(fields, posterKeys),
		Rank:      firstString(fields, rankKeys),
		Year:      year,
		Actors:    firstString(fields, actorKeys),
		PageURL:   pageURL(firstString(fields, urlKeys), id),
	}
}

func firstString(fields map[string]any, keys []string) string {
	for _, k := range keys {
		if s := stringify(fields[k]); s != "" {
			return s
		}
	}
	return ""
}

// stringify renders a decoded JSON value for display. Objects and null
// render empty; arrays of scalars are joined.
func stringify(v any) string {
	switch v := v.(type) {
	case string:
		return strings.TrimSpace(v)
	case json.Number:
		return v.String()
	case bool:
		return strconv.FormatBool(v)
	case []any:
		parts := make([]string, 0, len(v))
		for _, e := range v {
			if _, nested := e.([]any); nested {
				continue
			}
			if s := stringify(e); s != "" {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, ", ")
	default:
		return ""
	}
}
