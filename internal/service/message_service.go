package service

import (
	"strings"

	"devmarket/internal/model"
	"devmarket/internal/repository"
	"devmarket/internal/ws"
)

// maxFetchBatch caps one poll so a long-idle client catches up in pages
const maxFetchBatch = 200

type MessageService interface {
	SendMessage(senderID, receiverID uint, text string, productID *uint) (*model.Message, error)
	FetchNewMessages(userID, otherID, sinceID uint) ([]model.Message, error)
	ListConversations(userID uint) ([]model.Conversation, error)
	UnreadCount(userID uint) (int64, error)
}

type messageService struct {
	messageRepo repository.MessageRepository
	userRepo    repository.UserRepository
	publisher   ws.Publisher
}

func NewMessageService(messageRepo repository.MessageRepository, userRepo repository.UserRepository, publisher ws.Publisher) MessageService {
	return &messageService{
		messageRepo: messageRepo,
		userRepo:    userRepo,
		publisher:   publisher,
	}
}

func (s *messageService) SendMessage(senderID, receiverID uint, text string, productID *uint) (*model.Message, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyMessage
	}
	if senderID == receiverID {
		return nil, ErrMessageSelf
	}
	if _, err := s.userRepo.FindByID(receiverID); err != nil {
		return nil, notFound(err, ErrUserNotFound)
	}

	message := &model.Message{
		SenderID:   senderID,
		ReceiverID: receiverID,
		ProductID:  productID,
		Message:    text,
	}
	if err := s.messageRepo.Create(message); err != nil {
		return nil, err
	}

	s.publisher.Publish(receiverID, ws.Event{Type: "message.new", Payload: message})
	return message, nil
}

// FetchNewMessages returns the pair's messages after sinceID and marks the
// ones addressed to userID as read.
func (s *messageService) FetchNewMessages(userID, otherID, sinceID uint) ([]model.Message, error) {
	messages, err := s.messageRepo.FindSince(userID, otherID, sinceID, maxFetchBatch)
	if err != nil {
		return nil, err
	}

	var unread []uint
	for i := range messages {
		if messages[i].ReceiverID == userID && !messages[i].IsRead {
			unread = append(unread, messages[i].ID)
			messages[i].IsRead = true
		}
	}
	if err := s.messageRepo.MarkRead(userID, unread); err != nil {
		return nil, err
	}
	return messages, nil
}

func (s *messageService) ListConversations(userID uint) ([]model.Conversation, error) {
	return s.messageRepo.Conversations(userID)
}

func (s *messageService) UnreadCount(userID uint) (int64, error) {
	return s.messageRepo.UnreadCount(userID)
}
