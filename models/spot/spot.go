package spot

import (
	"time"

	"travel-assistant/models/interest"
)

// Spot is a catalog entry used by the recommendation filter. Coordinates are
// nullable; a spot without both latitude and longitude is never recommended.
// The catalog is read-only at request time and seeded at startup.
type Spot struct {
	ID        uint     `gorm:"primaryKey;autoIncrement" json:"id"`
	Name      string   `gorm:"type:varchar(255);not null" json:"name"`
	Location  string   `gorm:"type:varchar(255)" json:"location"`
	Latitude  *float64 `gorm:"type:decimal(9,6)" json:"latitude,omitempty"`
	Longitude *float64 `gorm:"type:decimal(10,6)" json:"longitude,omitempty"`

	Tags []interest.Interest `gorm:"many2many:spot_tags" json:"tags,omitempty"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// HasCoordinates reports whether both latitude and longitude are known.
func (s *Spot) HasCoordinates() bool {
	return s.Latitude != nil && s.Longitude != nil
}

// HasAnyTag reports whether the spot carries at least one of the given
// interest ids. An empty filter matches everything.
func (s *Spot) HasAnyTag(ids []uint) bool {
	if len(ids) == 0 {
		return true
	}
	for _, tag := range s.Tags {
		for _, id := range ids {
			if tag.ID == id {
				return true
			}
		}
	}
	return false
}
