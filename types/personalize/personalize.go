package personalize

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

type PreferenceRequest struct {
	Preferences []uint `json:"preferences" validate:"required,min=1,dive,gt=0"`
}

func (r *PreferenceRequest) Validate() error {
	if len(r.Preferences) == 0 {
		return fmt.Errorf("you must select at least one interest")
	}
	return validate.Struct(r)
}

type ItineraryCreateRequest struct {
	Destination string `json:"destination" validate:"required,min=1,max=255"`
	TripType    string `json:"trip_type" validate:"required,oneof=SOLO COUPLE FAMILY GROUP"`
	Budget      string `json:"budget" validate:"required,oneof=50-100 100-200 200-300 300-500+"`
	Duration    string `json:"duration" validate:"required,oneof=3_DAYS 5_DAYS 1_WEEK 10_DAYS 2_WEEKS"`
	StartDate   string `json:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate     string `json:"end_date" validate:"required,datetime=2006-01-02"`
}

func (r *ItineraryCreateRequest) Validate() error {
	if err := validate.Struct(r); err != nil {
		return err
	}
	start, _ := time.Parse("2006-01-02", r.StartDate)
	end, _ := time.Parse("2006-01-02", r.EndDate)
	if !start.Before(end) {
		return fmt.Errorf("end date must be after the start date")
	}
	return nil
}

// Dates returns the parsed trip dates; call Validate first.
func (r *ItineraryCreateRequest) Dates() (time.Time, time.Time) {
	start, _ := time.Parse("2006-01-02", r.StartDate)
	end, _ := time.Parse("2006-01-02", r.EndDate)
	return start, end
}

type TouristSpotCreateRequest struct {
	Name     string `json:"name" validate:"required,min=1,max=255"`
	Location string `json:"location" validate:"required,min=1,max=255"`
}

func (r *TouristSpotCreateRequest) Validate() error {
	return validate.Struct(r)
}

// ItineraryReadResponse decorates the stored itinerary with derived fields.
type ItineraryReadResponse struct {
	ID               uint          `json:"id"`
	Destination      string        `json:"destination"`
	TripType         string        `json:"trip_type"`
	Budget           string        `json:"budget"`
	Duration         string        `json:"duration"`
	StartDate        string        `json:"start_date"`
	EndDate          string        `json:"end_date"`
	Days             []DayResponse `json:"days"`
	DaysLeft         *int          `json:"days_left"`
	PlanningProgress int           `json:"planning_progress"`
}

type DayResponse struct {
	ID        uint                  `json:"id"`
	DayNumber int                   `json:"day_number"`
	Spots     []TouristSpotResponse `json:"spots"`
}

type TouristSpotResponse struct {
	ID       uint   `json:"id"`
	Name     string `json:"name"`
	Location string `json:"location"`
}

type RecommendationRequest struct {
	// Zero is a valid coordinate (equator, prime meridian), so only the
	// ranges are validated.
	Latitude    float64 `json:"latitude" validate:"gte=-90,lte=90"`
	Longitude   float64 `json:"longitude" validate:"gte=-180,lte=180"`
	Preferences []uint  `json:"preferences" validate:"omitempty,dive,gt=0"`
	Timing      string  `json:"timing" validate:"omitempty,oneof=ALL_DAY MORNING AFTERNOON EVENING"`
	Distance    float64 `json:"distance"`
}

// Validate also applies the documented defaults for timing and distance.
func (r *RecommendationRequest) Validate() error {
	if r.Timing == "" {
		r.Timing = "ALL_DAY"
	}
	if r.Distance == 0 {
		r.Distance = 5
	}
	// validator's oneof does not cover floats, so the radius is checked by
	// hand.
	switch r.Distance {
	case 2, 5, 10:
	default:
		return fmt.Errorf("distance must be one of 2, 5 or 10")
	}
	return validate.Struct(r)
}

// RecommendedSpot is a catalog spot annotated with the computed distance.
type RecommendedSpot struct {
	ID        uint     `json:"id"`
	Name      string   `json:"name"`
	Location  string   `json:"location"`
	Latitude  float64  `json:"latitude"`
	Longitude float64  `json:"longitude"`
	Tags      []string `json:"tags"`
	Distance  float64  `json:"distance_from_user"`
}
