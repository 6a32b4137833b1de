package kickstarters

import (
	"fmt"
	"sort"
	"unicode/utf8"
)

// Toggle adds id to selected, or removes it if present, and returns the new set
// in sorted order. Adding past the catalog's selection cap fails with
// ErrCapacity and the input is returned unchanged. selected is never modified.
func Toggle(selected []string, id string, catalog *Catalog) ([]string, error) {
	for i, s := range selected {
		if s == id {
			out := make([]string, 0, len(selected)-1)
			out = append(out, selected[:i]...)
			return append(out, selected[i+1:]...), nil
		}
	}
	if !catalog.Has(id) {
		return selected, fmt.Errorf("%w: %s", ErrUnknownItem, id)
	}
	if len(selected) >= catalog.Limits().SelectionCap {
		return selected, ErrCapacity
	}
	out := make([]string, 0, len(selected)+1)
	out = append(out, selected...)
	out = append(out, id)
	sort.Strings(out)
	return out, nil
}

// Check returns human-readable violations of the selection and custom question
// rules, in a stable order.
func Check(selected []string, catalog *Catalog) []string {
	var out []string
	limits := catalog.Limits()
	if len(selected) > limits.SelectionCap {
		out = append(out, fmt.Sprintf("%d kickstarters selected; the limit is %d", len(selected), limits.SelectionCap))
	}
	for _, id := range selected {
		if !catalog.Has(id) {
			out = append(out, fmt.Sprintf("selected kickstarter %q no longer exists", id))
		}
	}
	for _, it := range catalog.Custom() {
		if n := utf8.RuneCountInString(it.Question); n > limits.MaxQuestionLength {
			out = append(out, fmt.Sprintf("custom kickstarter %q is %d characters; the limit is %d", it.ID, n, limits.MaxQuestionLength))
		}
	}
	return out
}
