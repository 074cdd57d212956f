package user

import (
	"time"

	"travel-assistant/models/interest"

	"gorm.io/gorm"
)

// User is the account record. Password is stored as a bcrypt hash only;
// rows are never hard-deleted, DeletedAt soft-deletes instead.
type User struct {
	ID           uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Username     string `gorm:"type:varchar(255);not null;unique" json:"username"`
	Email        string `gorm:"type:varchar(255);not null;unique" json:"email"`
	PasswordHash string `gorm:"type:varchar(255);not null" json:"-"`
	FirstName    string `gorm:"type:varchar(255)" json:"first_name"`
	LastName     string `gorm:"type:varchar(255)" json:"last_name"`
	IsActive     bool   `gorm:"type:bool;default:true" json:"is_active"`

	// Interest tags the user picked during personalization.
	Preferences []interest.Interest `gorm:"many2many:user_preferences;constraint:OnDelete:CASCADE" json:"preferences,omitempty"`

	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
