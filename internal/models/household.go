package models

import "time"

const (
	RoleEditor  = "editor"
	RoleDisplay = "display"
)

type Household struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	Name           string    `gorm:"not null" json:"name"`
	PassphraseHash string    `gorm:"not null" json:"-"`
	Timezone       string    `gorm:"not null;default:UTC" json:"timezone"`
	CreatedAt      time.Time `gorm:"not null" json:"created_at"`
}

type Device struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	HouseholdID uint       `gorm:"not null;index" json:"household_id"`
	Name        string     `gorm:"not null" json:"name"`
	Role        string     `gorm:"not null;default:display" json:"role"`
	CreatedAt   time.Time  `gorm:"not null" json:"created_at"`
	LastSeenAt  *time.Time `json:"last_seen_at,omitempty"`
}
