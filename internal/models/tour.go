package models

import (
	"net/url"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

type Tour struct {
	ID            int64            `json:"id"`
	Slug          string           `json:"slug"`
	Name          string           `json:"name"`
	Summary       string           `json:"summary,omitempty"`
	Description   string           `json:"description,omitempty"`
	Destination   *DestinationRef  `json:"destination,omitempty"`
	Category      string           `json:"category,omitempty"`
	DurationDays  int              `json:"duration_days"`
	Price         decimal.Decimal  `json:"price"`
	DiscountPrice *decimal.Decimal `json:"discount_price,omitempty"`
	Currency      string           `json:"currency,omitempty"`
	Rating        float64          `json:"rating"`
	ReviewsCount  int              `json:"reviews_count"`
	Image         string           `json:"image,omitempty"`
	Gallery       []string         `json:"gallery,omitempty"`
	Featured      bool             `json:"is_featured"`
	OfferEndsAt   *time.Time       `json:"offer_ends_at,omitempty"`
	Highlights    []string         `json:"highlights,omitempty"`
	Itinerary     []ItineraryDay   `json:"itinerary,omitempty"`
}

// EffectivePrice is the discounted price when the discount is set and lower than the price
func (t Tour) EffectivePrice() decimal.Decimal {
	if t.DiscountPrice != nil && t.DiscountPrice.LessThan(t.Price) {
		return *t.DiscountPrice
	}
	return t.Price
}

type ItineraryDay struct {
	Day         int    `json:"day"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
}

// TourFilter maps listing filters to query parameters. Zero fields are omitted
type TourFilter struct {
	Destination string
	Category    string
	Search      string
	Ordering    string
	MinPrice    *decimal.Decimal
	MaxPrice    *decimal.Decimal
	Page        int
}

func (f TourFilter) Query() url.Values {
	q := url.Values{}
	set := func(key, value string) {
		if value != "" {
			q.Set(key, value)
		}
	}

	set("destination", f.Destination)
	set("category", f.Category)
	set("search", f.Search)
	set("ordering", f.Ordering)
	if f.MinPrice != nil {
		q.Set("min_price", f.MinPrice.String())
	}
	if f.MaxPrice != nil {
		q.Set("max_price", f.MaxPrice.String())
	}
	if f.Page > 0 {
		q.Set("page", strconv.Itoa(f.Page))
	}
	return q
}

type TourRef struct {
	ID   int64  `json:"id"`
	Slug string `json:"slug"`
	Name string `json:"name"`
}
