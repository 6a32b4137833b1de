package kickstarters

import (
	"fmt"
	"strings"
	"sync"
	"unicode/utf8"

	"prompt_page_studio/idgen"
)

// Catalog holds the default items plus an account's custom items. It is shared
// read-mostly state: writes are visible to every holder of the pointer at once.
type Catalog struct {
	mu     sync.RWMutex
	items  []Item
	index  map[string]int
	limits Limits
	newID  func() (string, error)
}

// NewCatalog returns a catalog seeded with the default items.
func NewCatalog(limits Limits) *Catalog {
	c := &Catalog{
		limits: limits.orDefault(),
		newID:  func() (string, error) { return idgen.GenerateWithPrefix(idgen.PrefixCustomItem) },
	}
	c.items = DefaultItems()
	c.reindex()
	return c
}

func (c *Catalog) reindex() {
	c.index = make(map[string]int, len(c.items))
	for i, it := range c.items {
		c.index[it.ID] = i
	}
}

// Limits returns the ceilings this catalog enforces.
func (c *Catalog) Limits() Limits {
	return c.limits
}

// Has reports whether id is in the catalog.
func (c *Catalog) Has(id string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.index[id]
	return ok
}

// Get returns the item with the given id.
func (c *Catalog) Get(id string) (Item, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	i, ok := c.index[id]
	if !ok {
		return Item{}, false
	}
	return c.items[i], true
}

// Items returns every item, defaults first, customs in creation order.
func (c *Catalog) Items() []Item {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]Item(nil), c.items...)
}

// Custom returns only the user-created items.
func (c *Catalog) Custom() []Item {
	c.mu.RLock()
	defer c.mu.RUnlock()
	var out []Item
	for _, it := range c.items {
		if !it.IsDefault {
			out = append(out, it)
		}
	}
	return out
}

// ByCategory groups items by category.
func (c *Catalog) ByCategory() map[Category][]Item {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make(map[Category][]Item, 4)
	for _, it := range c.items {
		out[it.Category] = append(out[it.Category], it)
	}
	return out
}

// CheckQuestion applies the custom question rules without touching the catalog.
func (c *Catalog) CheckQuestion(question string) error {
	q := strings.TrimSpace(question)
	if q == "" {
		return ErrEmptyQuestion
	}
	if n := utf8.RuneCountInString(q); n > c.limits.MaxQuestionLength {
		return &LengthError{Length: n, Max: c.limits.MaxQuestionLength}
	}
	return nil
}

// CreateCustom appends a new non-default item. It does not select it.
func (c *Catalog) CreateCustom(question string, category Category) (Item, error) {
	if err := c.CheckQuestion(question); err != nil {
		return Item{}, err
	}
	if !category.Valid() {
		return Item{}, fmt.Errorf("unknown kickstarter category %q", category)
	}
	id, err := c.newID()
	if err != nil {
		return Item{}, err
	}
	item := Item{ID: id, Question: strings.TrimSpace(question), Category: category}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = append(c.items, item)
	c.index[item.ID] = len(c.items) - 1
	return item, nil
}

// AddCustom inserts previously persisted custom items. Items already present,
// default-flagged items and items breaking the question rules are skipped; the
// number added is returned.
func (c *Catalog) AddCustom(items ...Item) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	added := 0
	for _, it := range items {
		if it.IsDefault || !it.Category.Valid() {
			continue
		}
		if _, ok := c.index[it.ID]; ok {
			continue
		}
		q := strings.TrimSpace(it.Question)
		if q == "" || utf8.RuneCountInString(q) > c.limits.MaxQuestionLength {
			continue
		}
		it.Question = q
		c.items = append(c.items, it)
		c.index[it.ID] = len(c.items) - 1
		added++
	}
	return added
}

// DeleteCustom removes a custom item. Default items cannot be removed. Callers
// are responsible for deselecting the id from any page.
func (c *Catalog) DeleteCustom(id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	i, ok := c.index[id]
	if !ok {
		return ErrUnknownItem
	}
	if c.items[i].IsDefault {
		return ErrImmutable
	}
	c.items = append(c.items[:i], c.items[i+1:]...)
	c.reindex()
	return nil
}
