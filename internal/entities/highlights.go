package entities

import (
	"time"

	"gorm.io/gorm"
)

type LocationType string

const (
	LocationTypeNone     LocationType = ""         // absent: a missing page stays absent, never zero
	LocationTypePage     LocationType = "page"
	LocationTypeLocation LocationType = "location" // Kindle-style location
	LocationTypeOrder    LocationType = "order"    // in-book order index
)

// ParseLocationType maps a raw source column value onto a known location kind.
// Unknown kinds are preserved as-is so a lossy source column never blocks import.
func ParseLocationType(raw string) LocationType {
	switch raw {
	case "":
		return LocationTypeNone
	case "page":
		return LocationTypePage
	case "location":
		return LocationTypeLocation
	case "order":
		return LocationTypeOrder
	default:
		return LocationType(raw)
	}
}

type Book struct {
	ID     uint   `gorm:"primaryKey" json:"id"`
	Title  string `gorm:"index;size:512" json:"title"`
	Author string `gorm:"index;size:256" json:"author"`

	// FrequencyWeight is a per-book multiplier on highlight selection
	// priority. 1.0 is neutral; higher means its highlights come up more
	// often in review batches.
	FrequencyWeight float64 `gorm:"default:1.0" json:"frequency_weight"`

	// Carried third-party columns (book-level), not interpreted.
	ASIN         string `gorm:"size:20" json:"asin,omitempty"`
	DocumentTags string `gorm:"size:512" json:"document_tags,omitempty"`

	Highlights []Highlight `gorm:"foreignKey:BookID" json:"highlights,omitempty"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

type Highlight struct {
	ID      uint   `gorm:"primaryKey" json:"id"`
	BookID  uint   `gorm:"index" json:"book_id"`
	Text    string `gorm:"type:text" json:"text"`
	Note    string `gorm:"type:text" json:"note,omitempty"`
	Section string `gorm:"size:512" json:"section,omitempty"`

	// Location information. LocationValue is meaningful only when
	// LocationType is not LocationTypeNone.
	LocationType  LocationType `gorm:"size:20" json:"location_type,omitempty"`
	LocationValue int          `json:"location_value,omitempty"`

	// Carried source columns, stored verbatim for future features.
	Color     string `gorm:"size:32" json:"color,omitempty"`
	RawTags   string `gorm:"size:512" json:"raw_tags,omitempty"`
	SortOrder int    `json:"sort_order,omitempty"`

	// HighlightedAt is when the user made the highlight. Nil means the
	// source carried no date; such highlights are excluded from
	// date-ordered views but remain fully functional.
	HighlightedAt *time.Time `json:"highlighted_at,omitempty"`

	// Relationships
	Book        Book        `gorm:"foreignKey:BookID" json:"-"`
	ReviewState ReviewState `gorm:"foreignKey:HighlightID" json:"review_state"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

// HasLocation reports whether the highlight carries positional metadata.
func (h Highlight) HasLocation() bool {
	return h.LocationType != LocationTypeNone
}
