package kickstarters

import (
	"fmt"
	"strings"
)

// Category tags a catalog item. The set is closed.
type Category string

const (
	CategoryProcess    Category = "PROCESS"
	CategoryExperience Category = "EXPERIENCE"
	CategoryOutcomes   Category = "OUTCOMES"
	CategoryPeople     Category = "PEOPLE"
)

// Categories lists every category in display order.
func Categories() []Category {
	return []Category{CategoryProcess, CategoryExperience, CategoryOutcomes, CategoryPeople}
}

// Valid reports whether c is one of the defined categories.
func (c Category) Valid() bool {
	switch c {
	case CategoryProcess, CategoryExperience, CategoryOutcomes, CategoryPeople:
		return true
	}
	return false
}

// ParseCategory accepts any casing of a category name.
func ParseCategory(s string) (Category, error) {
	c := Category(strings.ToUpper(strings.TrimSpace(s)))
	if !c.Valid() {
		return "", fmt.Errorf("unknown kickstarter category %q", s)
	}
	return c, nil
}
