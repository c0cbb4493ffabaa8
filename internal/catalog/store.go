// Package catalog persists extracted menus into the relational catalog
// that serves the consumer-facing applications.
package catalog

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrAlreadyExists reports that a restaurant with the same name was
// inserted concurrently. Callers treat it as success after re-reading
// the surviving row.
var ErrAlreadyExists = errors.New("restaurant already cataloged")

// RestaurantRecord is one row in the restaurants table.
type RestaurantRecord struct {
	ID          uuid.UUID
	Name        string
	Location    string
	Description string
	Currency    string
	LastUpdated time.Time
	Image       string
}

// CategoryRecord is one row in the categories table.
type CategoryRecord struct {
	ID           uuid.UUID
	RestaurantID uuid.UUID
	Name         string
	Description  string
	Priority     int
}

// ItemRecord is one row in the menu_items table. MenuID is the derived
// category-and-name identifier; the primary key is a uuid so identical
// dishes at different restaurants never collide.
type ItemRecord struct {
	ID          uuid.UUID
	CategoryID  uuid.UUID
	MenuID      string
	Name        string
	Slug        string
	Description string
	Price       *float64
	Tags        []string
	ImagePrompt string
	Images      []string
}

// Store is the persistence boundary for the catalog.
type Store interface {
	// RestaurantIDByName returns the id of the restaurant with the given
	// name, and whether one exists.
	RestaurantIDByName(ctx context.Context, name string) (uuid.UUID, bool, error)

	// InsertMenu writes the restaurant with all its categories and items
	// in one transaction. It returns ErrAlreadyExists when the
	// restaurant name is already taken.
	InsertMenu(ctx context.Context, restaurant RestaurantRecord, categories []CategoryRecord, items []ItemRecord) error
}
