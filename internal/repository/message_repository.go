package repository

import (
	"context"
	"fmt"

	"github.com/gatorguides/tutoring_core/internal/model"
	"github.com/jackc/pgx/v5/pgxpool"
)

// MessageRepository append-only журнал переписки. Сообщения никогда
// не редактируются и не удаляются.
type MessageRepository interface {
	Append(ctx context.Context, message *model.Message) error
	Conversation(ctx context.Context, uidA, uidB int64, limit, offset int) ([]*model.Message, error)
	RecentConversations(ctx context.Context, uid int64, limit int) ([]*model.ConversationSummary, error)
	HasSharedBooking(ctx context.Context, uidA, uidB int64) (bool, error)
}

type postgresMessageRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresMessageRepository(pool *pgxpool.Pool) MessageRepository {
	return &postgresMessageRepository{pool: pool}
}

// Append добавляет сообщение в журнал. ID назначает bigserial,
// поэтому порядок (sent_at, id) монотонный.
func (r *postgresMessageRepository) Append(ctx context.Context, message *model.Message) error {
	query := `
		INSERT INTO messages (sender_id, receiver_id, content)
		VALUES ($1, $2, $3)
		RETURNING id, sent_at
	`

	err := r.pool.QueryRow(ctx, query, message.SenderID, message.ReceiverID, message.Content).
		Scan(&message.ID, &message.SentAt)
	if err != nil {
		return fmt.Errorf("append message: %w", err)
	}
	return nil
}

// Conversation получает страницу переписки пары, старые сообщения первыми
func (r *postgresMessageRepository) Conversation(ctx context.Context, uidA, uidB int64, limit, offset int) ([]*model.Message, error) {
	query := `
		SELECT id, sender_id, receiver_id, content, sent_at
		FROM messages
		WHERE (sender_id = $1 AND receiver_id = $2)
		   OR (sender_id = $2 AND receiver_id = $1)
		ORDER BY sent_at, id
		LIMIT $3 OFFSET $4
	`

	rows, err := r.pool.Query(ctx, query, uidA, uidB, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("get conversation: %w", err)
	}
	defer rows.Close()

	var messages []*model.Message
	for rows.Next() {
		var m model.Message
		err := rows.Scan(&m.ID, &m.SenderID, &m.ReceiverID, &m.Content, &m.SentAt)
		if err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		messages = append(messages, &m)
	}
	return messages, rows.Err()
}

// RecentConversations получает последнее сообщение по каждому
// собеседнику, свежие переписки первыми
func (r *postgresMessageRepository) RecentConversations(ctx context.Context, uid int64, limit int) ([]*model.ConversationSummary, error) {
	query := `
		SELECT other_id, content, sent_at
		FROM (
			SELECT DISTINCT ON (other_id)
				CASE WHEN sender_id = $1 THEN receiver_id ELSE sender_id END AS other_id,
				content,
				sent_at
			FROM messages
			WHERE sender_id = $1 OR receiver_id = $1
			ORDER BY other_id, sent_at DESC, id DESC
		) latest
		ORDER BY sent_at DESC
		LIMIT $2
	`

	rows, err := r.pool.Query(ctx, query, uid, limit)
	if err != nil {
		return nil, fmt.Errorf("get recent conversations: %w", err)
	}
	defer rows.Close()

	var summaries []*model.ConversationSummary
	for rows.Next() {
		var s model.ConversationSummary
		err := rows.Scan(&s.OtherUserID, &s.LastMessage, &s.LastSentAt)
		if err != nil {
			return nil, fmt.Errorf("scan conversation summary: %w", err)
		}
		summaries = append(summaries, &s)
	}
	return summaries, rows.Err()
}

// HasSharedBooking проверяет существует ли бронирование, связывающее
// двух пользователей напрямую или через профиль репетитора. Проверка
// симметрична по построению.
func (r *postgresMessageRepository) HasSharedBooking(ctx context.Context, uidA, uidB int64) (bool, error) {
	query := `
		SELECT COUNT(*)
		FROM bookings b
		JOIN tutors t ON b.tutor_id = t.id
		WHERE (b.student_id = $1 AND t.user_id = $2)
		   OR (b.student_id = $2 AND t.user_id = $1)
	`

	var count int
	if err := r.pool.QueryRow(ctx, query, uidA, uidB).Scan(&count); err != nil {
		return false, fmt.Errorf("check shared booking: %w", err)
	}
	return count > 0, nil
}
