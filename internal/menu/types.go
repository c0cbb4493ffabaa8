// Package menu defines the typed records produced by extraction and
// consumed by enrichment and catalog persistence.
package menu

import (
	"strings"
	"time"
)

// Document is the structured menu produced by extraction, prior to
// persistence. A document without a restaurant name cannot be persisted.
type Document struct {
	RestaurantName  string     `json:"restaurant_name,omitempty"`
	Location        string     `json:"location,omitempty"`
	Description     string     `json:"description,omitempty"`
	Currency        string     `json:"currency"`
	LastUpdated     time.Time  `json:"last_updated"`
	RestaurantImage string     `json:"restaurant_image,omitempty"`
	Categories      []Category `json:"menu"`
}

// Category groups items under one of the standard menu sections.
// Priority (1-5, lower is more prominent) orders sections for display
// and never participates in identity.
type Category struct {
	Name        string `json:"category"`
	Description string `json:"description,omitempty"`
	Priority    int    `json:"priority"`
	Items       []Item `json:"items"`
}

// Item is a single dish. ID and Slug are pure functions of category and
// name; they are derived, never assigned independently.
type Item struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Slug        string   `json:"slug"`
	Description string   `json:"description,omitempty"`
	Price       *float64 `json:"price"`
	Tags        []string `json:"tags,omitempty"`
	ImagePrompt string   `json:"image_prompt,omitempty"`
	Images      []string `json:"images"`
}

// Persistable reports whether the document carries enough identity to be
// written to the catalog.
func (d *Document) Persistable() bool {
	return strings.TrimSpace(d.RestaurantName) != ""
}

// Normalize repairs a freshly extracted document in place: defaults the
// currency, stamps a missing last-updated time, clamps category
// priorities, derives missing item identifiers, and forces a non-nil
// images slice on every item. Model-provided ids are never trusted to be
// unique, so id and slug are always re-derived.
func (d *Document) Normalize(now time.Time) {
	if d.Currency == "" {
		d.Currency = "USD"
	}
	if d.LastUpdated.IsZero() {
		d.LastUpdated = now
	}
	for ci := range d.Categories {
		cat := &d.Categories[ci]
		cat.Priority = clampPriority(cat.Priority)
		for ii := range cat.Items {
			item := &cat.Items[ii]
			item.ID = ItemID(cat.Name, item.Name)
			item.Slug = ItemSlug(item.Name)
			if item.Images == nil {
				item.Images = []string{}
			}
		}
	}
}

// FindBySlug locates the item whose slug matches, case-insensitively and
// ignoring surrounding whitespace. It returns indexes into Categories and
// the category's Items.
func (d *Document) FindBySlug(slug string) (catIdx, itemIdx int, ok bool) {
	want := strings.ToLower(strings.TrimSpace(slug))
	for ci := range d.Categories {
		for ii := range d.Categories[ci].Items {
			have := strings.ToLower(strings.TrimSpace(d.Categories[ci].Items[ii].Slug))
			if have == want {
				return ci, ii, true
			}
		}
	}
	return 0, 0, false
}

// Clone returns a deep copy of the document, so callers can mutate one
// item without aliasing the original's slices.
func (d *Document) Clone() Document {
	out := *d
	out.Categories = make([]Category, len(d.Categories))
	for ci, cat := range d.Categories {
		cc := cat
		cc.Items = make([]Item, len(cat.Items))
		for ii, item := range cat.Items {
			ic := item
			if item.Tags != nil {
				ic.Tags = make([]string, len(item.Tags))
				copy(ic.Tags, item.Tags)
			}
			if item.Images != nil {
				ic.Images = make([]string, len(item.Images))
				copy(ic.Images, item.Images)
			}
			if item.Price != nil {
				p := *item.Price
				ic.Price = &p
			}
			cc.Items[ii] = ic
		}
		out.Categories[ci] = cc
	}
	return out
}

func clampPriority(p int) int {
	switch {
	case p == 0:
		return 3
	case p < 1:
		return 1
	case p > 5:
		return 5
	default:
		return p
	}
}
