package entities

import (
	"time"

	"github.com/google/uuid"
)

type Donation struct {
	ID            uuid.UUID  `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	DonatorID     uuid.UUID  `gorm:"not null;index" json:"donator_id"`
	Title         string     `gorm:"not null" json:"title"`
	Description   string     `json:"description,omitempty"`
	FoodType      string     `gorm:"not null" json:"food_type"`
	Quantity      string     `gorm:"not null" json:"quantity"` // free text, may carry a leading magnitude ("10 kg")
	City          string     `gorm:"not null" json:"city"`
	PickupAddress string     `gorm:"not null" json:"pickup_address"`
	ExpiresAt     time.Time  `gorm:"not null" json:"expires_at"`
	ImageURL      string     `json:"image_url,omitempty"`
	Status        string     `gorm:"not null;default:available;index" json:"status"` // available, claimed, completed
	Longitude     float64    `json:"longitude"`
	Latitude      float64    `json:"latitude"`
	ClaimedByID   *uuid.UUID `json:"claimed_by,omitempty"`
	ClaimedAt     *time.Time `json:"claimed_at,omitempty"`

	Donator   *User `gorm:"foreignKey:DonatorID"`
	ClaimedBy *User `gorm:"foreignKey:ClaimedByID"`
	Timestamp
}
