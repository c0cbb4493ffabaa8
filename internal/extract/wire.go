package extract

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/dishcovery/menu-pipeline/internal/menu"
)

// Wire types mirror the JSON contract the model is instructed to emit,
// but parse leniently: prices arrive as numbers or strings (sometimes
// with a currency sign), timestamps in a handful of layouts. Conversion
// to menu types normalizes all of that away.

type wireDocument struct {
	RestaurantName  string         `json:"restaurant_name"`
	Location        string         `json:"location"`
	Description     string         `json:"description"`
	Currency        string         `json:"currency"`
	LastUpdated     wireTime       `json:"last_updated"`
	RestaurantImage string         `json:"restaurant_image"`
	Categories      []wireCategory `json:"menu"`
}

type wireCategory struct {
	Name        string     `json:"category"`
	Description string     `json:"description"`
	Priority    int        `json:"priority"`
	Items       []wireItem `json:"items"`
}

type wireItem struct {
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Price       wirePrice `json:"price"`
	Tags        []string  `json:"tags"`
	ImagePrompt string    `json:"image_prompt"`
	Images      []string  `json:"images"`
}

// wirePrice accepts a JSON number, a numeric string with an optional
// currency sign, or null. Anything unparseable becomes null rather than
// failing the whole document.
type wirePrice struct {
	Value *float64
}

func (p *wirePrice) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		p.Value = nil
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			p.Value = nil
			return nil
		}
		s = strings.TrimSpace(strings.TrimLeft(s, "$€£ "))
		s = strings.ReplaceAll(s, ",", "")
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			p.Value = nil
			return nil
		}
		p.Value = &v
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		p.Value = nil
		return nil
	}
	p.Value = &v
	return nil
}

// wireTime accepts RFC 3339 timestamps and bare dates; anything else is
// treated as unset.
type wireTime struct {
	Value time.Time
}

var timeLayouts = []string{time.RFC3339, "2006-01-02", "2006-01-02 15:04:05"}

func (t *wireTime) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		t.Value = time.Time{}
		return nil
	}
	for _, layout := range timeLayouts {
		if parsed, err := time.Parse(layout, strings.TrimSpace(s)); err == nil {
			t.Value = parsed
			return nil
		}
	}
	t.Value = time.Time{}
	return nil
}

func (d *wireDocument) toDocument() menu.Document {
	out := menu.Document{
		RestaurantName:  strings.TrimSpace(d.RestaurantName),
		Location:        strings.TrimSpace(d.Location),
		Description:     strings.TrimSpace(d.Description),
		Currency:        strings.TrimSpace(d.Currency),
		LastUpdated:     d.LastUpdated.Value,
		RestaurantImage: strings.TrimSpace(d.RestaurantImage),
	}
	for _, wc := range d.Categories {
		cat := menu.Category{
			Name:        strings.TrimSpace(wc.Name),
			Description: strings.TrimSpace(wc.Description),
			Priority:    wc.Priority,
		}
		for _, wi := range wc.Items {
			name := strings.TrimSpace(wi.Name)
			if name == "" {
				continue
			}
			cat.Items = append(cat.Items, menu.Item{
				Name:        name,
				Description: strings.TrimSpace(wi.Description),
				Price:       wi.Price.Value,
				Tags:        wi.Tags,
				ImagePrompt: strings.TrimSpace(wi.ImagePrompt),
				Images:      wi.Images,
			})
		}
		out.Categories = append(out.Categories, cat)
	}
	return out
}
