package entities

import (
	"time"

	"github.com/google/uuid"
)

type Timestamp struct {
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type User struct {
	ID               uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	Email            string    `gorm:"uniqueIndex;not null" json:"email"`
	Password         string    `gorm:"not null" json:"-"`
	FullName         string    `json:"full_name"`
	OrganizationName string    `json:"organization_name,omitempty"`
	Role             string    `gorm:"not null" json:"role"` // donor or receiver
	Phone            string    `json:"phone,omitempty"`
	Address          string    `json:"address,omitempty"`

	Donations []*Donation `gorm:"foreignKey:DonatorID"`
	Timestamp
}
