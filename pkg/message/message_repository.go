package message

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/manjeet0006/FoodShare/entities"
)

type (
	MessageRepository interface {
		CreateMessage(ctx context.Context, message *entities.Message) error
		GetMessagesByDonation(ctx context.Context, donationID string) ([]*entities.Message, error)
		GetMessagesForUser(ctx context.Context, userID string) ([]*entities.Message, error)
		GetDonationTitles(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]string, error)
	}

	messageRepository struct {
		db *gorm.DB
	}
)

func NewMessageRepository(db *gorm.DB) MessageRepository {
	return &messageRepository{db: db}
}

func (r *messageRepository) CreateMessage(ctx context.Context, message *entities.Message) error {
	return r.db.WithContext(ctx).Create(message).Error
}

func (r *messageRepository) GetMessagesByDonation(ctx context.Context, donationID string) ([]*entities.Message, error) {
	var messages []*entities.Message
	if err := r.db.WithContext(ctx).
		Where("donation_id = ?", donationID).
		Order("created_at ASC").
		Find(&messages).Error; err != nil {
		return nil, err
	}
	return messages, nil
}

// GetMessagesForUser returns every message the user sent or received, newest
// first. The id column breaks creation-time ties so grouping stays
// deterministic.
func (r *messageRepository) GetMessagesForUser(ctx context.Context, userID string) ([]*entities.Message, error) {
	var messages []*entities.Message
	if err := r.db.WithContext(ctx).
		Where("sender_id = ? OR receiver_id = ?", userID, userID).
		Order("created_at DESC, id DESC").
		Find(&messages).Error; err != nil {
		return nil, err
	}
	return messages, nil
}

func (r *messageRepository) GetDonationTitles(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]string, error) {
	titles := make(map[uuid.UUID]string, len(ids))
	if len(ids) == 0 {
		return titles, nil
	}

	var rows []struct {
		ID    uuid.UUID
		Title string
	}
	if err := r.db.WithContext(ctx).
		Model(&entities.Donation{}).
		Select("id", "title").
		Where("id IN ?", ids).
		Find(&rows).Error; err != nil {
		return nil, err
	}

	for _, row := range rows {
		titles[row.ID] = row.Title
	}
	return titles, nil
}
