package pages

import (
	"cmp"
	"slices"
	"sync"
)

// Page is a site page as served by the page endpoints.
type Page struct {
	ID       int    `json:"id"`
	Slug     string `json:"slug"`
	Title    string `json:"title"`
	Content  string `json:"content,omitempty"`
	Position int    `json:"position"`
	Active   bool   `json:"active"`
}

// Store provides page lookup for the page controller.
type Store interface {
	// Get returns the page with the given ID.
	Get(id int) (Page, bool)

	// Active returns the active pages ordered by position, skipping
	// offset pages and returning at most limit pages.
	Active(offset, limit int) []Page
}

// MemoryStore is an in-memory Store safe for concurrent use.
type MemoryStore struct {
	mu    sync.RWMutex
	pages map[int]Page
}

// NewMemoryStore returns a store holding the given pages.
func NewMemoryStore(pages ...Page) *MemoryStore {
	s := &MemoryStore{pages: make(map[int]Page, len(pages))}
	for _, p := range pages {
		s.pages[p.ID] = p
	}
	return s
}

// Put adds or replaces a page.
func (s *MemoryStore) Put(p Page) {
	s.mu.Lock()
	s.pages[p.ID] = p
	s.mu.Unlock()
}

// Get implements Store.
func (s *MemoryStore) Get(id int) (Page, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.pages[id]
	return p, ok
}

// Active implements Store. Pages with equal positions are ordered by ID.
func (s *MemoryStore) Active(offset, limit int) []Page {
	s.mu.RLock()
	active := make([]Page, 0, len(s.pages))
	for _, p := range s.pages {
		if p.Active {
			active = append(active, p)
		}
	}
	s.mu.RUnlock()

	slices.SortFunc(active, func(a, b Page) int {
		return cmp.Or(cmp.Compare(a.Position, b.Position), cmp.Compare(a.ID, b.ID))
	})

	offset = max(offset, 0)
	if offset >= len(active) || limit <= 0 {
		return nil
	}

	return active[offset:min(offset+limit, len(active))]
}
