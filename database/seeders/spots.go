package seeders

import (
	"log"

	"travel-assistant/models/interest"
	"travel-assistant/models/spot"

	"gorm.io/gorm"
)

func floatPtr(v float64) *float64 {
	return &v
}

// SeedSpots inserts a starter recommendation catalog if rows are missing.
// Tag names must already exist in the interests table.
func SeedSpots(db *gorm.DB) {
	log.Printf("🔍 Checking spot catalog data integrity...")

	spots := []struct {
		spot spot.Spot
		tags []string
	}{
		{spot.Spot{Name: "Cox's Bazar Beach", Location: "Cox's Bazar", Latitude: floatPtr(21.4272), Longitude: floatPtr(92.0058)}, []string{"Beaches", "Nature & Parks"}},
		{spot.Spot{Name: "Lalbagh Fort", Location: "Dhaka", Latitude: floatPtr(23.7190), Longitude: floatPtr(90.3882)}, []string{"History & Culture", "Photography"}},
		{spot.Spot{Name: "Ahsan Manzil", Location: "Dhaka", Latitude: floatPtr(23.7086), Longitude: floatPtr(90.4064)}, []string{"Museums", "History & Culture"}},
		{spot.Spot{Name: "Star Mosque", Location: "Dhaka", Latitude: floatPtr(23.7134), Longitude: floatPtr(90.4023)}, []string{"Religious Sites"}},
		{spot.Spot{Name: "Sundarbans Mangrove", Location: "Khulna", Latitude: floatPtr(21.9497), Longitude: floatPtr(89.1833)}, []string{"Adventure", "Nature & Parks"}},
		{spot.Spot{Name: "Ratargul Swamp Forest", Location: "Sylhet", Latitude: floatPtr(25.0097), Longitude: floatPtr(91.9269)}, []string{"Adventure", "Photography"}},
		{spot.Spot{Name: "Jaflong Valley", Location: "Sylhet", Latitude: floatPtr(25.1625), Longitude: floatPtr(92.0170)}, []string{"Nature & Parks"}},
		{spot.Spot{Name: "Old Dhaka Food Street", Location: "Dhaka"}, []string{"Food & Dining", "Nightlife"}},
	}

	for _, item := range spots {
		var existing spot.Spot
		err := db.Where("name = ?", item.spot.Name).First(&existing).Error
		if err != gorm.ErrRecordNotFound {
			if err != nil {
				log.Printf("❌ Failed to check spot %s: %v", item.spot.Name, err)
			}
			continue
		}

		var tags []interest.Interest
		if len(item.tags) > 0 {
			if err := db.Where("name IN ?", item.tags).Find(&tags).Error; err != nil {
				log.Printf("❌ Failed to load tags for spot %s: %v", item.spot.Name, err)
			}
		}
		item.spot.Tags = tags

		if err := db.Create(&item.spot).Error; err != nil {
			log.Printf("❌ Failed to seed spot %s: %v", item.spot.Name, err)
		}
	}

	log.Printf("✅ Spot catalog seeding completed")
}
