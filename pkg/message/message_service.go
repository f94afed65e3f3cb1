package message

import (
	"context"

	"github.com/google/uuid"

	"github.com/manjeet0006/FoodShare/domain"
	"github.com/manjeet0006/FoodShare/entities"
	"github.com/manjeet0006/FoodShare/pkg/user"
)

type (
	MessageService interface {
		SendMessage(ctx context.Context, req domain.SendMessageRequest, senderID string) (*domain.Message, error)
		GetMessages(ctx context.Context, donationID string) ([]*domain.Message, error)
		GetConversations(ctx context.Context, userID string) ([]*domain.Conversation, error)
	}

	messageService struct {
		messageRepository MessageRepository
		userRepository    user.UserRepository
	}
)

func NewMessageService(messageRepository MessageRepository, userRepository user.UserRepository) MessageService {
	return &messageService{
		messageRepository: messageRepository,
		userRepository:    userRepository,
	}
}

// SendMessage persists the message as addressed. Whether sender and receiver
// really are the donation's two parties is left to the clients; any
// authenticated user may write to a thread.
func (s *messageService) SendMessage(ctx context.Context, req domain.SendMessageRequest, senderID string) (*domain.Message, error) {
	senderUUID, err := uuid.Parse(senderID)
	if err != nil {
		return nil, domain.ErrParseUUID
	}
	receiverUUID, err := uuid.Parse(req.ReceiverID)
	if err != nil {
		return nil, domain.ErrParseUUID
	}
	donationUUID, err := uuid.Parse(req.DonationID)
	if err != nil {
		return nil, domain.ErrParseUUID
	}

	message := &entities.Message{
		ID:         uuid.New(),
		DonationID: donationUUID,
		SenderID:   senderUUID,
		ReceiverID: receiverUUID,
		Content:    req.Content,
	}

	if err := s.messageRepository.CreateMessage(ctx, message); err != nil {
		return nil, err
	}

	return toDomainMessage(message), nil
}

func (s *messageService) GetMessages(ctx context.Context, donationID string) ([]*domain.Message, error) {
	if _, err := uuid.Parse(donationID); err != nil {
		return nil, domain.ErrParseUUID
	}

	messages, err := s.messageRepository.GetMessagesByDonation(ctx, donationID)
	if err != nil {
		return nil, err
	}

	result := make([]*domain.Message, 0, len(messages))
	for _, m := range messages {
		result = append(result, toDomainMessage(m))
	}
	return result, nil
}

// GetConversations derives the caller's inbox: one entry per donation carrying
// the most recent message and the counterpart's public identity. Messages come
// back newest first, so the first message seen for a donation is its summary
// and the entry order is already most-recent-first.
func (s *messageService) GetConversations(ctx context.Context, userID string) ([]*domain.Conversation, error) {
	callerUUID, err := uuid.Parse(userID)
	if err != nil {
		return nil, domain.ErrParseUUID
	}

	messages, err := s.messageRepository.GetMessagesForUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	type summary struct {
		lastMessage *entities.Message
		otherParty  uuid.UUID
	}

	order := make([]uuid.UUID, 0)
	grouped := make(map[uuid.UUID]summary)
	for _, m := range messages {
		if _, seen := grouped[m.DonationID]; seen {
			continue
		}
		other := m.SenderID
		if m.SenderID == callerUUID {
			other = m.ReceiverID
		}
		grouped[m.DonationID] = summary{lastMessage: m, otherParty: other}
		order = append(order, m.DonationID)
	}

	titles, err := s.messageRepository.GetDonationTitles(ctx, order)
	if err != nil {
		return nil, err
	}

	otherIDs := make([]string, 0, len(order))
	for _, donationID := range order {
		otherIDs = append(otherIDs, grouped[donationID].otherParty.String())
	}
	others, err := s.userRepository.GetUsersByIDs(ctx, otherIDs)
	if err != nil {
		return nil, err
	}
	otherByID := make(map[uuid.UUID]*entities.User, len(others))
	for _, u := range others {
		otherByID[u.ID] = u
	}

	result := make([]*domain.Conversation, 0, len(order))
	for _, donationID := range order {
		title, ok := titles[donationID]
		if !ok {
			// The donation was deleted; its thread no longer surfaces.
			continue
		}
		entry := grouped[donationID]

		conversation := &domain.Conversation{
			DonationID:    donationID.String(),
			DonationTitle: title,
			LastMessage:   entry.lastMessage.Content,
			LastTimestamp: entry.lastMessage.CreatedAt,
		}
		if other, ok := otherByID[entry.otherParty]; ok {
			conversation.OtherParty = domain.PublicUser{
				ID:               other.ID.String(),
				FullName:         other.FullName,
				OrganizationName: other.OrganizationName,
			}
		}
		result = append(result, conversation)
	}

	return result, nil
}

func toDomainMessage(message *entities.Message) *domain.Message {
	return &domain.Message{
		ID:         message.ID.String(),
		DonationID: message.DonationID.String(),
		SenderID:   message.SenderID.String(),
		ReceiverID: message.ReceiverID.String(),
		Content:    message.Content,
		ReadAt:     message.ReadAt,
		CreatedAt:  message.CreatedAt,
	}
}
