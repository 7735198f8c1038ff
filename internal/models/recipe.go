package models

import "time"

const DefaultRecipeServings = 2

type Recipe struct {
	ID                 uint      `gorm:"primaryKey" json:"id"`
	HouseholdID        uint      `gorm:"not null;index" json:"household_id"`
	Title              string    `gorm:"not null" json:"title"`
	Servings           int       `gorm:"not null;default:2" json:"servings"`
	PrepMinutes        int       `gorm:"not null;default:0" json:"prep_minutes"`
	CaloriesPerServing int       `gorm:"not null;default:0" json:"calories_per_serving"`
	Ingredients        []string  `gorm:"serializer:json" json:"ingredients"`
	SourceURL          string    `json:"source_url,omitempty"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}
