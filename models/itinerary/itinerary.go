package itinerary

import (
	"time"

	"travel-assistant/models/user"
)

// Itinerary is a planned trip owned by a single user. StartDate must be
// strictly before EndDate; day rows are pre-created for the trip span.
type Itinerary struct {
	ID uint `gorm:"primaryKey;autoIncrement" json:"id"`

	UserID uint      `gorm:"not null;index" json:"user_id"`
	User   user.User `gorm:"foreignKey:UserID" json:"-"`

	Destination string   `gorm:"type:varchar(255);not null" json:"destination"`
	TripType    TripType `gorm:"type:varchar(10);not null;default:SOLO" json:"trip_type"`
	Budget      Budget   `gorm:"type:varchar(10);not null;default:50-100" json:"budget"`
	Duration    Duration `gorm:"type:varchar(10);not null;default:3_DAYS" json:"duration"`

	StartDate time.Time `gorm:"type:date;not null" json:"start_date"`
	EndDate   time.Time `gorm:"type:date;not null" json:"end_date"`

	Days []Day `gorm:"foreignKey:ItineraryID;constraint:OnDelete:CASCADE" json:"days,omitempty"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// Day is one numbered day of an itinerary schedule.
type Day struct {
	ID          uint `gorm:"primaryKey;autoIncrement" json:"id"`
	ItineraryID uint `gorm:"not null;index" json:"itinerary_id"`
	DayNumber   int  `gorm:"not null" json:"day_number"`

	Spots []TouristSpot `gorm:"foreignKey:DayID;constraint:OnDelete:CASCADE" json:"spots"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// TouristSpot is a named place scheduled on a specific day.
type TouristSpot struct {
	ID       uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	DayID    uint   `gorm:"not null;index" json:"day_id"`
	Name     string `gorm:"type:varchar(255);not null" json:"name"`
	Location string `gorm:"type:varchar(255);not null" json:"location"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// TotalDays returns the number of calendar days the trip spans, inclusive.
func (i *Itinerary) TotalDays() int {
	return int(i.EndDate.Sub(i.StartDate).Hours()/24) + 1
}
