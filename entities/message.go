package entities

import (
	"time"

	"github.com/google/uuid"
)

type Message struct {
	ID         uuid.UUID  `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	DonationID uuid.UUID  `gorm:"not null;index" json:"donation_id"`
	SenderID   uuid.UUID  `gorm:"not null" json:"sender_id"`
	ReceiverID uuid.UUID  `gorm:"not null" json:"receiver_id"`
	Content    string     `gorm:"not null" json:"content"`
	ReadAt     *time.Time `json:"read_at,omitempty"`

	Sender   *User `gorm:"foreignKey:SenderID"`
	Receiver *User `gorm:"foreignKey:ReceiverID"`
	Timestamp
}
