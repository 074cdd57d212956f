package database

import (
	"fmt"
	"os"

	"travel-assistant/database/seeders"
	"travel-assistant/logger"
	interestModel "travel-assistant/models/interest"
	itineraryModel "travel-assistant/models/itinerary"
	logModel "travel-assistant/models/log"
	spotModel "travel-assistant/models/spot"
	subscriptionModel "travel-assistant/models/subscription"
	userModel "travel-assistant/models/user"

	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

// InitDB initializes the database connection with auto migration and indexing
func InitDB() (*gorm.DB, error) {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		logger.Error("Error loading .env file", err)
	}

	host := os.Getenv("DB_HOST")
	port := os.Getenv("DB_PORT")
	database := os.Getenv("DB_DATABASE")
	user := os.Getenv("DB_USERNAME")
	password := os.Getenv("DB_PASSWORD")
	sslmode := os.Getenv("DB_SSLMODE")

	if sslmode == "" {
		sslmode = "disable"
	}

	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		host, port, user, password, database, sslmode)

	var err error
	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		logger.Error("Failed to connect to the database", err)
		return nil, err
	}
	logger.Success("Successfully connected to the database")

	if err := autoMigrate(); err != nil {
		logger.Error("Failed to run migrations", err)
		return nil, err
	}
	logger.Success("All migrations completed successfully")

	if err := createIndexes(); err != nil {
		logger.Error("Failed to create indexes", err)
		return nil, err
	}
	logger.Success("All indexes created successfully")

	seeders.SeedInterests(DB)
	seeders.SeedSpots(DB)

	return DB, nil
}

// autoMigrate runs auto migration for all models in dependency order.
func autoMigrate() error {
	// Stage 1: models without foreign keys
	stage1Models := []interface{}{
		&interestModel.Interest{},
		&userModel.User{},
		&spotModel.Spot{},
	}

	for _, model := range stage1Models {
		if err := DB.AutoMigrate(model); err != nil {
			return fmt.Errorf("failed to migrate %T: %w", model, err)
		}
	}

	// Stage 2: models referencing stage 1
	stage2Models := []interface{}{
		&itineraryModel.Itinerary{},
		&itineraryModel.Day{},
		&itineraryModel.TouristSpot{},
		&subscriptionModel.Subscription{},
	}

	for _, model := range stage2Models {
		if err := DB.AutoMigrate(model); err != nil {
			return fmt.Errorf("failed to migrate %T: %w", model, err)
		}
	}

	// Remaining models
	remainingModels := []interface{}{
		&logModel.Log{},
	}

	for _, model := range remainingModels {
		if err := DB.AutoMigrate(model); err != nil {
			return fmt.Errorf("failed to migrate %T: %w", model, err)
		}
	}

	return nil
}

// createIndexes creates additional indexes for better performance
func createIndexes() error {
	if err := DB.Exec("CREATE INDEX IF NOT EXISTS idx_users_email ON users(email)").Error; err != nil {
		return fmt.Errorf("failed to create user email index: %w", err)
	}
	if err := DB.Exec("CREATE INDEX IF NOT EXISTS idx_users_username ON users(username)").Error; err != nil {
		return fmt.Errorf("failed to create user username index: %w", err)
	}
	if err := DB.Exec("CREATE UNIQUE INDEX IF NOT EXISTS idx_users_email_lower ON users(LOWER(email))").Error; err != nil {
		return fmt.Errorf("failed to create lowercase email index: %w", err)
	}

	if err := DB.Exec("CREATE INDEX IF NOT EXISTS idx_itineraries_user_id ON itineraries(user_id)").Error; err != nil {
		return fmt.Errorf("failed to create itinerary user_id index: %w", err)
	}
	if err := DB.Exec("CREATE INDEX IF NOT EXISTS idx_days_itinerary_id ON days(itinerary_id)").Error; err != nil {
		return fmt.Errorf("failed to create day itinerary_id index: %w", err)
	}
	if err := DB.Exec("CREATE INDEX IF NOT EXISTS idx_tourist_spots_day_id ON tourist_spots(day_id)").Error; err != nil {
		return fmt.Errorf("failed to create tourist spot day_id index: %w", err)
	}

	if err := DB.Exec("CREATE INDEX IF NOT EXISTS idx_subscriptions_user_id ON subscriptions(user_id)").Error; err != nil {
		return fmt.Errorf("failed to create subscription user_id index: %w", err)
	}

	if err := DB.Exec("CREATE INDEX IF NOT EXISTS idx_logs_status_code ON logs(status_code)").Error; err != nil {
		return fmt.Errorf("failed to create log status_code index: %w", err)
	}
	if err := DB.Exec("CREATE INDEX IF NOT EXISTS idx_logs_created_at ON logs(created_at)").Error; err != nil {
		return fmt.Errorf("failed to create log created_at index: %w", err)
	}

	return nil
}

// RunMigrations connects and applies migrations, indexes and seed data.
// Used by the standalone migrate tool.
func RunMigrations() error {
	_, err := InitDB()
	return err
}

// GetDB returns the database instance
func GetDB() *gorm.DB {
	return DB
}
