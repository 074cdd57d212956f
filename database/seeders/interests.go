package seeders

import (
	"log"

	"travel-assistant/models/interest"

	"gorm.io/gorm"
)

// SeedInterests inserts the static interest catalog if rows are missing.
func SeedInterests(db *gorm.DB) {
	log.Printf("🔍 Checking interests data integrity...")

	interests := []interest.Interest{
		{Name: "Adventure"},
		{Name: "Beaches"},
		{Name: "Museums"},
		{Name: "Nightlife"},
		{Name: "Food & Dining"},
		{Name: "Shopping"},
		{Name: "Nature & Parks"},
		{Name: "History & Culture"},
		{Name: "Photography"},
		{Name: "Religious Sites"},
		{Name: "Wellness & Spa"},
		{Name: "Sports"},
	}

	for _, item := range interests {
		var existing interest.Interest
		err := db.Where("name = ?", item.Name).First(&existing).Error
		if err == gorm.ErrRecordNotFound {
			if err := db.Create(&item).Error; err != nil {
				log.Printf("❌ Failed to seed interest %s: %v", item.Name, err)
			}
		} else if err != nil {
			log.Printf("❌ Failed to check interest %s: %v", item.Name, err)
		}
	}

	log.Printf("✅ Interests seeding completed")
}
