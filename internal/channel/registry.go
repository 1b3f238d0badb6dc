package channel

import (
	"encoding/json"
	"sync"

	"github.com/gatorguides/tutoring_core/internal/model"
	"go.uber.org/zap"
)

// Registry держит не более одного живого соединения на пользователя.
// Новое соединение вытесняет прежнее (последнее выигрывает). Доставка
// at-most-once по живому каналу: журнал переписки отвечает за остальное.
type Registry struct {
	mu     sync.RWMutex
	conns  map[int64]*Connection
	logger *zap.Logger
}

// NewRegistry создаёт пустой реестр соединений
func NewRegistry(logger *zap.Logger) *Registry {
	return &Registry{
		conns:  make(map[int64]*Connection),
		logger: logger,
	}
}

// Connect регистрирует соединение пользователя, закрывая прежнее
func (r *Registry) Connect(uid int64, conn *Connection) {
	r.mu.Lock()
	prev := r.conns[uid]
	r.conns[uid] = conn
	r.mu.Unlock()

	if prev != nil {
		prev.Close()
	}

	r.logger.Info("User connected",
		zap.Int64("user_id", uid),
		zap.String("connection_id", conn.ID().String()),
	)
}

// Disconnect убирает соединение из реестра. Устаревшее соединение не
// может вытеснить своего преемника: запись удаляется только если в
// реестре всё ещё этот же экземпляр.
func (r *Registry) Disconnect(uid int64, conn *Connection) {
	r.mu.Lock()
	current, ok := r.conns[uid]
	if ok && current.ID() == conn.ID() {
		delete(r.conns, uid)
	}
	r.mu.Unlock()

	conn.Close()

	r.logger.Info("User disconnected", zap.Int64("user_id", uid))
}

// IsOnline проверяет есть ли у пользователя живое соединение
func (r *Registry) IsOnline(uid int64) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.conns[uid]
	return ok
}

// Deliver пушит сообщение получателю если тот подключён. Офлайн или
// сбой отправки не ошибка: сообщение уже лежит в журнале и будет
// получено через выборку переписки.
func (r *Registry) Deliver(message *model.Message) {
	r.mu.RLock()
	conn, ok := r.conns[message.ReceiverID]
	r.mu.RUnlock()

	if !ok {
		return
	}

	data, err := json.Marshal(message)
	if err != nil {
		r.logger.Error("Failed to marshal message", zap.Error(err))
		return
	}

	if !conn.Push(data) {
		r.logger.Warn("Dropped live delivery",
			zap.Int64("message_id", message.ID),
			zap.Int64("receiver_id", message.ReceiverID),
		)
	}
}
