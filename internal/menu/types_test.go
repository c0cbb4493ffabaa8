package menu

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func sampleDoc() Document {
	price := 12.5
	return Document{
		RestaurantName: "Joe's Diner",
		Categories: []Category{
			{
				Name:     "Main Courses",
				Priority: 1,
				Items: []Item{
					{Name: "Steak Frites", Price: &price, Tags: []string{"french"}},
					{Name: "Lasagna"},
				},
			},
			{
				Name:     "Beverages",
				Priority: 9,
				Items:    []Item{{Name: "House Lemonade"}},
			},
		},
	}
}

func TestNormalize(t *testing.T) {
	doc := sampleDoc()
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	doc.Normalize(now)

	require.Equal(t, "USD", doc.Currency)
	require.Equal(t, now, doc.LastUpdated)
	require.Equal(t, 5, doc.Categories[1].Priority)

	steak := doc.Categories[0].Items[0]
	require.Equal(t, "main_courses_steak_frites", steak.ID)
	require.Equal(t, "steak-frites", steak.Slug)
	require.NotNil(t, steak.Images)
	require.Empty(t, steak.Images)
}

func TestNormalizeOverridesModelIdentifiers(t *testing.T) {
	doc := Document{
		RestaurantName: "Joe's Diner",
		Categories: []Category{{
			Name:  "Main Courses",
			Items: []Item{{Name: "Steak Frites", ID: "1", Slug: "whatever"}},
		}},
	}
	doc.Normalize(time.Now())
	require.Equal(t, "main_courses_steak_frites", doc.Categories[0].Items[0].ID)
	require.Equal(t, "steak-frites", doc.Categories[0].Items[0].Slug)
}

func TestPersistable(t *testing.T) {
	doc := sampleDoc()
	require.True(t, doc.Persistable())
	doc.RestaurantName = "   "
	require.False(t, doc.Persistable())
}

func TestFindBySlug(t *testing.T) {
	doc := sampleDoc()
	doc.Normalize(time.Now())

	ci, ii, ok := doc.FindBySlug("  Steak-Frites ")
	require.True(t, ok)
	require.Equal(t, 0, ci)
	require.Equal(t, 0, ii)

	_, _, ok = doc.FindBySlug("no-such-dish")
	require.False(t, ok)
}

func TestCloneIsDeep(t *testing.T) {
	doc := sampleDoc()
	doc.Normalize(time.Now())

	cp := doc.Clone()
	cp.Categories[0].Items[0].Images = append(cp.Categories[0].Items[0].Images, "http://img")
	cp.Categories[0].Items[0].Tags[0] = "changed"
	*cp.Categories[0].Items[0].Price = 99

	require.Empty(t, doc.Categories[0].Items[0].Images)
	require.Equal(t, "french", doc.Categories[0].Items[0].Tags[0])
	require.Equal(t, 12.5, *doc.Categories[0].Items[0].Price)
}
