package importer

import (
	"fmt"
	"sync"
	"time"

	"roster/domain/core"
	"roster/ports"
)

// PendingImport is an uploaded workbook waiting for a sheet choice
type PendingImport struct {
	Token     string    `json:"token"`
	Filename  string    `json:"filename"`
	Sheets    []string  `json:"sheets"`
	CreatedAt time.Time `json:"createdAt"`
	ExpiresAt time.Time `json:"expiresAt"`

	workbook ports.Workbook
}

// PendingRegistry holds uploaded workbooks between upload and confirmation.
// Nothing in here touches the schedule store.
type PendingRegistry struct {
	mu    sync.Mutex
	ttl   time.Duration
	items map[string]*PendingImport
	now   func() time.Time
}

// NewPendingRegistry creates a registry whose entries expire after ttl
func NewPendingRegistry(ttl time.Duration) *PendingRegistry {
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}
	return &PendingRegistry{ttl: ttl, items: make(map[string]*PendingImport), now: time.Now}
}

// Put registers a workbook and returns its pending entry
func (p *PendingRegistry) Put(filename string, wb ports.Workbook) *PendingImport {
	p.mu.Lock()
	defer p.mu.Unlock()

	now := p.now()
	item := &PendingImport{
		Token:     core.NewID().String(),
		Filename:  filename,
		Sheets:    wb.SheetNames(),
		CreatedAt: now,
		ExpiresAt: now.Add(p.ttl),
		workbook:  wb,
	}
	p.items[item.Token] = item
	return item
}

// Get returns a live entry
func (p *PendingRegistry) Get(token string) (*PendingImport, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	item, ok := p.items[token]
	if !ok || !p.now().Before(item.ExpiresAt) {
		delete(p.items, token)
		return nil, fmt.Errorf("%w: %s", core.ErrPendingNotFound, token)
	}
	return item, nil
}

// Remove drops an entry. It reports whether a live entry existed.
func (p *PendingRegistry) Remove(token string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	item, ok := p.items[token]
	delete(p.items, token)
	return ok && p.now().Before(item.ExpiresAt)
}

// Sweep removes expired entries and returns how many were dropped
func (p *PendingRegistry) Sweep() int {
	p.mu.Lock()
	defer p.mu.Unlock()

	now := p.now()
	dropped := 0
	for token, item := range p.items {
		if !now.Before(item.ExpiresAt) {
			delete(p.items, token)
			dropped++
		}
	}
	return dropped
}

// Len returns the number of entries, expired ones included until swept
func (p *PendingRegistry) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.items)
}
