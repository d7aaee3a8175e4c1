package library

import (
	"context"
	"strings"

	"golang.org/x/text/cases"
)

// term is one parsed query word. An empty field means a bare word matched
// against artist, title, album and path.
type term struct {
	field string
	value string
}

var queryFields = map[string]struct{}{
	FieldPath: {}, FieldFormat: {}, FieldMBTrackID: {}, FieldMoodAcoustic: {},
	FieldArtist: {}, FieldTitle: {}, FieldAlbum: {},
}

// parseQuery splits terms into field:value matches and bare words. A prefix
// that is not a known field leaves the whole word bare, so titles containing
// colons still match. Values are case folded.
func parseQuery(caser cases.Caser, words []string) []term {
	terms := make([]term, 0, len(words))
	for _, word := range words {
		word = strings.TrimSpace(word)
		if word == "" {
			continue
		}
		if field, value, ok := strings.Cut(word, ":"); ok {
			field = strings.ToLower(field)
			if _, known := queryFields[field]; known {
				terms = append(terms, term{field: field, value: caser.String(value)})
				continue
			}
		}
		terms = append(terms, term{value: caser.String(word)})
	}
	return terms
}

// Select returns the items matching every query term, in insertion order.
// A field:value term requires that field to equal value; a bare word must
// appear in the artist, title, album or path. Comparisons are case folded.
// No terms selects everything.
func (s *Store) Select(ctx context.Context, query ...string) ([]*Item, error) {
	items, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	caser := cases.Fold()
	terms := parseQuery(caser, query)
	if len(terms) == 0 {
		return items, nil
	}

	selected := make([]*Item, 0, len(items))
	for _, item := range items {
		if matchesAll(caser, item, terms) {
			selected = append(selected, item)
		}
	}
	return selected, nil
}

func matchesAll(caser cases.Caser, item *Item, terms []term) bool {
	for _, t := range terms {
		if t.field != "" {
			value, _ := item.field(t.field)
			if caser.String(strings.TrimSpace(value)) != t.value {
				return false
			}
			continue
		}
		if !matchesBare(caser, item, t.value) {
			return false
		}
	}
	return true
}

func matchesBare(caser cases.Caser, item *Item, value string) bool {
	for _, candidate := range []string{item.Artist, item.Title, item.Album, item.Path} {
		if strings.Contains(caser.String(candidate), value) {
			return true
		}
	}
	return false
}
