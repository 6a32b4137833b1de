package store

import (
	"context"
	"sort"
	"sync"

	"prompt_page_studio/kickstarters"
	"prompt_page_studio/pageconfig"
)

// Memory is an in-process Store for local runs and tests.
type Memory struct {
	mu     sync.RWMutex
	pages  map[string]pageconfig.Record
	custom map[string]map[string]kickstarters.Item
}

func NewMemory() *Memory {
	return &Memory{
		pages:  make(map[string]pageconfig.Record),
		custom: make(map[string]map[string]kickstarters.Item),
	}
}

func (m *Memory) Load(_ context.Context, pageID string) (pageconfig.Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	rec, ok := m.pages[pageID]
	if !ok {
		return nil, ErrNotFound
	}
	return append(pageconfig.Record(nil), rec...), nil
}

func (m *Memory) Save(_ context.Context, pageID string, rec pageconfig.Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pages[pageID] = append(pageconfig.Record(nil), rec...)
	return nil
}

// ListCustomItems returns the account's items ordered by id.
func (m *Memory) ListCustomItems(_ context.Context, accountID string) ([]kickstarters.Item, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	items := make([]kickstarters.Item, 0, len(m.custom[accountID]))
	for _, it := range m.custom[accountID] {
		items = append(items, it)
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })
	return items, nil
}

func (m *Memory) SaveCustomItem(_ context.Context, accountID string, item kickstarters.Item) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.custom[accountID] == nil {
		m.custom[accountID] = make(map[string]kickstarters.Item)
	}
	m.custom[accountID][item.ID] = item
	return nil
}

func (m *Memory) DeleteCustomItem(_ context.Context, accountID, itemID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.custom[accountID], itemID)
	return nil
}

func (m *Memory) Close() error { return nil }
