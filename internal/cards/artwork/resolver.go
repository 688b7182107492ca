// Package artwork resolves card render URLs and keeps a local copy of the
// downloaded images.
package artwork

import (
	"fmt"
	"strings"
	"sync"

	"github.com/ramonehamilton/hearthstone-card-explorer/internal/cards"
)

// Render URL defaults.
const (
	DefaultHost   = "art.hearthstonejson.com/v1"
	DefaultLocale = "enUS"
	DefaultSize   = "256x"
)

// Options selects the render host and variant.
type Options struct {
	// Host is the render host with an optional path prefix. Without a
	// scheme, https is assumed.
	Host   string
	Locale string
	Size   string
}

// DefaultOptions returns the public render host at 256px, English.
func DefaultOptions() Options {
	return Options{Host: DefaultHost, Locale: DefaultLocale, Size: DefaultSize}
}

// Resolver maps cards to render URLs. Cards without an explicit identifier
// are looked up by name in the reference table.
type Resolver struct {
	opts Options

	mu     sync.RWMutex
	byName map[string]string
}

// NewResolver creates a resolver with an empty reference table.
func NewResolver(opts Options) *Resolver {
	def := DefaultOptions()
	if opts.Host == "" {
		opts.Host = def.Host
	}
	if opts.Locale == "" {
		opts.Locale = def.Locale
	}
	if opts.Size == "" {
		opts.Size = def.Size
	}
	opts.Host = strings.TrimSuffix(opts.Host, "/")
	if !strings.Contains(opts.Host, "://") {
		opts.Host = "https://" + opts.Host
	}

	return &Resolver{opts: opts, byName: map[string]string{}}
}

// SetReference replaces the name lookup table. When a name appears twice the
// first entry wins.
func (r *Resolver) SetReference(entries []ReferenceEntry) {
	table := make(map[string]string, len(entries))
	for _, e := range entries {
		key := nameKey(e.Name)
		id := strings.TrimSpace(e.ID)
		if key == "" || id == "" {
			continue
		}
		if _, exists := table[key]; !exists {
			table[key] = id
		}
	}

	r.mu.Lock()
	r.byName = table
	r.mu.Unlock()
}

// Len returns the number of names in the reference table.
func (r *Resolver) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byName)
}

// Identifier returns the render identifier for card: id, then cardId, then
// the reference table entry for its name.
func (r *Resolver) Identifier(card *cards.Card) (string, bool) {
	if card == nil {
		return "", false
	}
	if id := strings.TrimSpace(card.ID); id != "" {
		return id, true
	}
	if id := strings.TrimSpace(card.CardID); id != "" {
		return id, true
	}

	r.mu.RLock()
	id, ok := r.byName[nameKey(card.Name)]
	r.mu.RUnlock()
	return id, ok
}

// URL returns the render URL for card, or false when it has no image.
func (r *Resolver) URL(card *cards.Card) (string, bool) {
	id, ok := r.Identifier(card)
	if !ok {
		return "", false
	}
	return r.URLFor(id), true
}

// URLFor formats the render URL of an identifier.
func (r *Resolver) URLFor(id string) string {
	return fmt.Sprintf("%s/render/latest/%s/%s/%s.png", r.opts.Host, r.opts.Locale, r.opts.Size, id)
}

func nameKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
