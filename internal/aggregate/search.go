package aggregate

import "github.com/sahilm/fuzzy"

type searchSource[T Item] []T

func (s searchSource[T]) String(i int) string { return s[i].SearchText() }
func (s searchSource[T]) Len() int            { return len(s) }

// search returns the items whose search text fuzzily matches query, best match first.
func search[T Item](items []T, query string) []T {
	matches := fuzzy.FindFrom(query, searchSource[T](items))
	out := make([]T, 0, len(matches))
	for _, m := range matches {
		out = append(out, items[m.Index])
	}
	return out
}
