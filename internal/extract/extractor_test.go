package extract

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/dishcovery/menu-pipeline/internal/menu"
	"github.com/dishcovery/menu-pipeline/internal/storage"
)

type stubGenerator struct {
	response string
	err      error
	system   string
	prompt   string
}

func (s *stubGenerator) GenerateText(_ context.Context, system, prompt string) (string, error) {
	s.system = system
	s.prompt = prompt
	return s.response, s.err
}

const modelJSON = `{
  "restaurant_name": "Mario's Trattoria",
  "location": "Brooklyn, NY",
  "description": "A family-run Italian kitchen.",
  "currency": "USD",
  "last_updated": "2025-07-02T00:00:00Z",
  "restaurant_image": "",
  "menu": [
    {
      "category": "Main Courses",
      "description": "At Mario's Trattoria, hearty plates built around pasta and the grill.",
      "priority": 1,
      "items": [
        {
          "name": "Steak Frites",
          "description": "Grilled steak with crispy fries.",
          "price": "24.50",
          "tags": ["beef", "grill"],
          "image_prompt": "A rustic photo of steak frites served at Mario's Trattoria",
          "images": []
        },
        {
          "name": "Lasagna",
          "price": null
        }
      ]
    }
  ]
}`

func TestExtractParsesModelJSON(t *testing.T) {
	gen := &stubGenerator{response: modelJSON}
	store := storage.NewMemoryProvider()
	ex := New(gen, store, "audit", zap.NewNop())

	doc, err := ex.Extract(context.Background(), "STEAK FRITES ... $24.50")
	require.NoError(t, err)

	require.Equal(t, "Mario's Trattoria", doc.RestaurantName)
	require.Equal(t, "USD", doc.Currency)
	require.Len(t, doc.Categories, 1)
	require.Equal(t, 1, doc.Categories[0].Priority)
	require.Len(t, doc.Categories[0].Items, 2)

	steak := doc.Categories[0].Items[0]
	require.Equal(t, "main_courses_steak_frites", steak.ID)
	require.Equal(t, "steak-frites", steak.Slug)
	require.NotNil(t, steak.Price)
	require.InDelta(t, 24.50, *steak.Price, 1e-9)

	lasagna := doc.Categories[0].Items[1]
	require.Nil(t, lasagna.Price)
	require.NotNil(t, lasagna.Images)

	require.Contains(t, gen.prompt, "STEAK FRITES")
	require.Contains(t, gen.system, "Standard categories")

	names := store.ObjectNames()
	require.Len(t, names, 1)

	snapshot, ok := store.Object(names[0])
	require.True(t, ok)
	var audited menu.Document
	require.NoError(t, json.Unmarshal(snapshot, &audited))
	require.Equal(t, doc.RestaurantName, audited.RestaurantName)
}

func TestExtractRepairsProseWrappedJSON(t *testing.T) {
	gen := &stubGenerator{response: "Sure! Here is the menu:\n```json\n" + modelJSON + "\n```\nLet me know if you need anything else."}
	ex := New(gen, &storage.NoOpProvider{}, "audit", zap.NewNop())

	doc, err := ex.Extract(context.Background(), "menu text")
	require.NoError(t, err)
	require.Equal(t, "Mario's Trattoria", doc.RestaurantName)
}

func TestExtractFailSoftOnUnparseableResponse(t *testing.T) {
	gen := &stubGenerator{response: "I could not find a menu in that text."}
	store := storage.NewMemoryProvider()
	ex := New(gen, store, "audit", zap.NewNop())

	doc, err := ex.Extract(context.Background(), "garbage")
	require.NoError(t, err)
	require.False(t, doc.Persistable())
	require.Empty(t, doc.Categories)
	require.Equal(t, "USD", doc.Currency)
	require.False(t, doc.LastUpdated.IsZero())

	// The raw response is kept for inspection.
	names := store.ObjectNames()
	require.Len(t, names, 1)
	raw, ok := store.Object(names[0])
	require.True(t, ok)
	require.Equal(t, gen.response, string(raw))
}

func TestExtractReturnsGeneratorError(t *testing.T) {
	gen := &stubGenerator{err: errors.New("rate limited")}
	ex := New(gen, &storage.NoOpProvider{}, "audit", zap.NewNop())

	_, err := ex.Extract(context.Background(), "menu text")
	require.ErrorContains(t, err, "rate limited")
}

func TestWirePriceFormats(t *testing.T) {
	cases := map[string]*float64{
		`{"price": 12.5}`:     ptr(12.5),
		`{"price": "12.50"}`:  ptr(12.5),
		`{"price": "$9.99"}`:  ptr(9.99),
		`{"price": "1,200"}`:  ptr(1200),
		`{"price": null}`:     nil,
		`{"price": "market"}`: nil,
	}
	for input, want := range cases {
		var item wireItem
		require.NoError(t, json.Unmarshal([]byte(input), &item), input)
		if want == nil {
			require.Nil(t, item.Price.Value, input)
			continue
		}
		require.NotNil(t, item.Price.Value, input)
		require.InDelta(t, *want, *item.Price.Value, 1e-9, input)
	}
}

func ptr(v float64) *float64 { return &v }
