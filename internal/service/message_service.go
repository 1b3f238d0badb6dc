package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/gatorguides/tutoring_core/internal/model"
	"github.com/gatorguides/tutoring_core/internal/repository"
	"go.uber.org/zap"
)

const (
	defaultConversationLimit = 50
	defaultRecentLimit       = 20
	maxPageLimit             = 200
)

// Deliverer доставляет сообщение получателю если тот подключён.
// Доставка best-effort: журнал остаётся единственным источником истины,
// ошибки канала никогда не доходят до отправителя.
type Deliverer interface {
	Deliver(message *model.Message)
}

// MessageService журнал переписки с проверкой права на общение
type MessageService struct {
	messageRepo repository.MessageRepository
	deliverer   Deliverer
	logger      *zap.Logger
}

func NewMessageService(
	messageRepo repository.MessageRepository,
	deliverer Deliverer,
	logger *zap.Logger,
) *MessageService {
	return &MessageService{
		messageRepo: messageRepo,
		deliverer:   deliverer,
		logger:      logger,
	}
}

// CanMessage проверяет связывает ли пользователей бронирование в любом
// состоянии. Проверка симметрична: CanMessage(a, b) == CanMessage(b, a).
func (s *MessageService) CanMessage(ctx context.Context, uidA, uidB int64) (bool, error) {
	return s.messageRepo.HasSharedBooking(ctx, uidA, uidB)
}

// Send добавляет сообщение в журнал и отдаёт его в канал доставки.
// Журнальная запись авторитетна: сбой доставки не проваливает отправку.
func (s *MessageService) Send(ctx context.Context, senderID, receiverID int64, content string) (*model.Message, error) {
	if strings.TrimSpace(content) == "" {
		return nil, fmt.Errorf("message from %d: %w", senderID, model.ErrEmptyContent)
	}

	allowed, err := s.CanMessage(ctx, senderID, receiverID)
	if err != nil {
		return nil, fmt.Errorf("check permission: %w", err)
	}
	if !allowed {
		return nil, fmt.Errorf("users %d and %d: %w", senderID, receiverID, model.ErrPermissionDenied)
	}

	message := &model.Message{
		SenderID:   senderID,
		ReceiverID: receiverID,
		Content:    content,
	}
	if err := s.messageRepo.Append(ctx, message); err != nil {
		return nil, err
	}

	s.logger.Info("Message sent",
		zap.Int64("message_id", message.ID),
		zap.Int64("sender_id", senderID),
		zap.Int64("receiver_id", receiverID),
	)

	s.deliverer.Deliver(message)
	return message, nil
}

// Conversation получает страницу переписки пары, старые сообщения первыми
func (s *MessageService) Conversation(ctx context.Context, uidA, uidB int64, limit, offset int) ([]*model.Message, error) {
	if limit <= 0 {
		limit = defaultConversationLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}
	if offset < 0 {
		offset = 0
	}
	return s.messageRepo.Conversation(ctx, uidA, uidB, limit, offset)
}

// RecentConversations получает последние сообщения по собеседникам
func (s *MessageService) RecentConversations(ctx context.Context, uid int64, limit int) ([]*model.ConversationSummary, error) {
	if limit <= 0 {
		limit = defaultRecentLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}
	return s.messageRepo.RecentConversations(ctx, uid, limit)
}
