package repository

import (
	"context"
	"fmt"

	"github.com/gatorguides/tutoring_core/internal/model"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// SlotRepository хранилище окон еженедельной доступности репетитора
type SlotRepository interface {
	Replace(ctx context.Context, tutorID int64, windows []model.SlotWindow) error
	Add(ctx context.Context, tutorID int64, window model.SlotWindow) (*model.AvailabilitySlot, error)
	Deactivate(ctx context.Context, slotID int64) error
	ListActive(ctx context.Context, tutorID int64, day *model.Weekday) ([]*model.AvailabilitySlot, error)
}

type postgresSlotRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresSlotRepository(pool *pgxpool.Pool) SlotRepository {
	return &postgresSlotRepository{pool: pool}
}

// lockTutor сериализует изменения расписания одного репетитора.
// Блокировка строки tutors держится до конца транзакции, расписания
// разных репетиторов меняются независимо.
func lockTutor(ctx context.Context, tx pgx.Tx, tutorID int64) error {
	var id int64
	err := tx.QueryRow(ctx, `SELECT id FROM tutors WHERE id = $1 FOR UPDATE`, tutorID).Scan(&id)
	if err != nil {
		if err == pgx.ErrNoRows {
			return fmt.Errorf("tutor %d: %w", tutorID, model.ErrNotFound)
		}
		return fmt.Errorf("lock tutor: %w", err)
	}
	return nil
}

// Replace атомарно заменяет всё недельное расписание репетитора.
// Отсутствующие в новом списке окна деактивируются, не удаляются,
// чтобы исторические бронирования оставались разрешимыми.
func (r *postgresSlotRepository) Replace(ctx context.Context, tutorID int64, windows []model.SlotWindow) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := lockTutor(ctx, tx, tutorID); err != nil {
		return err
	}

	_, err = tx.Exec(ctx, `
		UPDATE availability_slots
		SET is_active = FALSE
		WHERE tutor_id = $1 AND is_active = TRUE
	`, tutorID)
	if err != nil {
		return fmt.Errorf("deactivate slots: %w", err)
	}

	query := `
		INSERT INTO availability_slots (tutor_id, day, start_hour, end_hour, is_active)
		VALUES ($1, $2, $3, $4, TRUE)
		ON CONFLICT (tutor_id, day, start_hour, end_hour)
		DO UPDATE SET is_active = TRUE
	`
	for _, w := range windows {
		if _, err := tx.Exec(ctx, query, tutorID, w.Day, w.StartHour, w.EndHour); err != nil {
			return fmt.Errorf("insert slot: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// Add добавляет одно окно. Возвращает model.ErrOverlap если окно
// пересекается с активным окном того же дня.
func (r *postgresSlotRepository) Add(ctx context.Context, tutorID int64, window model.SlotWindow) (*model.AvailabilitySlot, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := lockTutor(ctx, tx, tutorID); err != nil {
		return nil, err
	}

	var overlaps int
	err = tx.QueryRow(ctx, `
		SELECT COUNT(*)
		FROM availability_slots
		WHERE tutor_id = $1
		  AND day = $2
		  AND is_active = TRUE
		  AND start_hour < $4
		  AND end_hour > $3
	`, tutorID, window.Day, window.StartHour, window.EndHour).Scan(&overlaps)
	if err != nil {
		return nil, fmt.Errorf("check overlap: %w", err)
	}
	if overlaps > 0 {
		return nil, fmt.Errorf("add slot %s %d-%d: %w", window.Day, window.StartHour, window.EndHour, model.ErrOverlap)
	}

	slot := &model.AvailabilitySlot{
		TutorID:   tutorID,
		Day:       window.Day,
		StartHour: window.StartHour,
		EndHour:   window.EndHour,
		IsActive:  true,
	}
	err = tx.QueryRow(ctx, `
		INSERT INTO availability_slots (tutor_id, day, start_hour, end_hour, is_active)
		VALUES ($1, $2, $3, $4, TRUE)
		ON CONFLICT (tutor_id, day, start_hour, end_hour)
		DO UPDATE SET is_active = TRUE
		RETURNING id, created_at
	`, tutorID, window.Day, window.StartHour, window.EndHour).Scan(&slot.ID, &slot.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert slot: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit transaction: %w", err)
	}
	return slot, nil
}

// Deactivate помечает окно неактивным. Повторная деактивация
// идемпотентна, отсутствующее окно даёт model.ErrNotFound.
func (r *postgresSlotRepository) Deactivate(ctx context.Context, slotID int64) error {
	result, err := r.pool.Exec(ctx, `
		UPDATE availability_slots
		SET is_active = FALSE
		WHERE id = $1
	`, slotID)
	if err != nil {
		return fmt.Errorf("deactivate slot: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("slot %d: %w", slotID, model.ErrNotFound)
	}
	return nil
}

// ListActive получает активные окна репетитора, упорядоченные по дню и началу
func (r *postgresSlotRepository) ListActive(ctx context.Context, tutorID int64, day *model.Weekday) ([]*model.AvailabilitySlot, error) {
	query := `
		SELECT id, tutor_id, day, start_hour, end_hour, is_active, created_at
		FROM availability_slots
		WHERE tutor_id = $1 AND is_active = TRUE
	`
	args := []interface{}{tutorID}
	if day != nil {
		query += ` AND day = $2`
		args = append(args, *day)
	}
	query += ` ORDER BY day, start_hour`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list active slots: %w", err)
	}
	defer rows.Close()

	var slots []*model.AvailabilitySlot
	for rows.Next() {
		var slot model.AvailabilitySlot
		err := rows.Scan(
			&slot.ID,
			&slot.TutorID,
			&slot.Day,
			&slot.StartHour,
			&slot.EndHour,
			&slot.IsActive,
			&slot.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan slot: %w", err)
		}
		slots = append(slots, &slot)
	}
	return slots, rows.Err()
}
