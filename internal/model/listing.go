package model

import (
	"database/sql/driver"
	"encoding/json"
	"time"
)

// Listing type constants, matching the catalog's listing_type column.
const (
	ListingTypeSale = "sale"
	ListingTypeRent = "rent"
)

// Listing represents a property listing supplied by the catalog provider.
// This core never creates, mutates, or deletes a listing.
type Listing struct {
	ID           int64     `json:"id" db:"id"`
	ListingType  string    `json:"listing_type" db:"listing_type"`
	Title        *string   `json:"title,omitempty" db:"title"`
	Price        *float64  `json:"price,omitempty" db:"price"`
	PropertyType *string   `json:"property_type,omitempty" db:"property_type"`
	Bedrooms     *int      `json:"bedrooms,omitempty" db:"bedrooms"`
	Bathrooms    *int      `json:"bathrooms,omitempty" db:"bathrooms"`
	City         *string   `json:"city,omitempty" db:"city"`
	State        *string   `json:"state,omitempty" db:"state"`
	Address      *string   `json:"address,omitempty" db:"address"`
	Amenities    JSONArray `json:"amenities,omitempty" db:"amenities"`
	Featured     bool      `json:"featured" db:"featured"`
	ListedAt     time.Time `json:"listed_at" db:"listed_at"`
}

// ScoredListing is a listing annotated with a relevance score and the
// human-readable reasons it matched. Produced fresh per ranking call.
type ScoredListing struct {
	Listing
	Score   int      `json:"score"`
	Reasons []string `json:"reasons"`
}

// JSONArray represents a JSONB string-array column.
type JSONArray []string

// Value implements driver.Valuer interface
func (j JSONArray) Value() (driver.Value, error) {
	if j == nil {
		return nil, nil
	}
	return json.Marshal(j)
}

// Scan implements sql.Scanner interface
func (j *JSONArray) Scan(value interface{}) error {
	if value == nil {
		*j = nil
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		return json.Unmarshal([]byte(value.(string)), j)
	}
	return json.Unmarshal(bytes, j)
}
