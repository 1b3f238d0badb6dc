package repository

import (
	"context"
	"fmt"

	"github.com/gatorguides/tutoring_core/internal/model"
	"github.com/gatorguides/tutoring_core/internal/repository/base"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// BookingRepository журнал подтверждённых сессий
type BookingRepository interface {
	Create(ctx context.Context, booking *model.Booking) error
	GetByID(ctx context.Context, id int64) (*model.Booking, error)
	ListByStudent(ctx context.Context, studentID int64) ([]*model.Booking, error)
	ListByTutor(ctx context.Context, tutorID int64) ([]*model.Booking, error)
	ActiveHours(ctx context.Context, tutorID int64, day model.Weekday) ([]int, error)
	Start(ctx context.Context, id int64) error
	Conclude(ctx context.Context, id int64) error
}

type postgresBookingRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresBookingRepository(pool *pgxpool.Pool) BookingRepository {
	return &postgresBookingRepository{pool: pool}
}

const bookingColumns = `id, student_id, tutor_id, tag_id, day, hour, started_at, concluded_at, created_at, updated_at`

func scanBooking(row pgx.Row) (*model.Booking, error) {
	var b model.Booking
	err := row.Scan(
		&b.ID,
		&b.StudentID,
		&b.TutorID,
		&b.TagID,
		&b.Day,
		&b.Hour,
		&b.StartedAt,
		&b.ConcludedAt,
		&b.CreatedAt,
		&b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// Create выполняет атомарный захват ключа (tutor_id, day, hour).
// Частичный уникальный индекс по активным бронированиям гарантирует,
// что из конкурирующих запросов выигрывает ровно один: проигравший
// получает model.ErrSlotUnavailable.
func (r *postgresBookingRepository) Create(ctx context.Context, booking *model.Booking) error {
	query := `
		INSERT INTO bookings (student_id, tutor_id, tag_id, day, hour)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`

	err := r.pool.QueryRow(
		ctx, query,
		booking.StudentID,
		booking.TutorID,
		booking.TagID,
		booking.Day,
		booking.Hour,
	).Scan(&booking.ID, &booking.CreatedAt, &booking.UpdatedAt)

	if err != nil {
		if base.IsUniqueViolation(err) {
			return fmt.Errorf("claim %d/%s/%d: %w", booking.TutorID, booking.Day, booking.Hour, model.ErrSlotUnavailable)
		}
		return fmt.Errorf("create booking: %w", err)
	}
	return nil
}

// GetByID получает бронирование по ID
func (r *postgresBookingRepository) GetByID(ctx context.Context, id int64) (*model.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1`

	booking, err := scanBooking(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get booking by id: %w", err)
	}
	return booking, nil
}

func (r *postgresBookingRepository) list(ctx context.Context, query string, arg int64) ([]*model.Booking, error) {
	rows, err := r.pool.Query(ctx, query, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bookings []*model.Booking
	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("scan booking: %w", err)
		}
		bookings = append(bookings, booking)
	}
	return bookings, rows.Err()
}

// ListByStudent получает все бронирования студента, новые первыми
func (r *postgresBookingRepository) ListByStudent(ctx context.Context, studentID int64) ([]*model.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE student_id = $1 ORDER BY id DESC`
	bookings, err := r.list(ctx, query, studentID)
	if err != nil {
		return nil, fmt.Errorf("list bookings by student: %w", err)
	}
	return bookings, nil
}

// ListByTutor получает все бронирования репетитора, новые первыми
func (r *postgresBookingRepository) ListByTutor(ctx context.Context, tutorID int64) ([]*model.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE tutor_id = $1 ORDER BY id DESC`
	bookings, err := r.list(ctx, query, tutorID)
	if err != nil {
		return nil, fmt.Errorf("list bookings by tutor: %w", err)
	}
	return bookings, nil
}

// ActiveHours получает часы занятые незавершёнными бронированиями
// на (tutor_id, day), по возрастанию
func (r *postgresBookingRepository) ActiveHours(ctx context.Context, tutorID int64, day model.Weekday) ([]int, error) {
	query := `
		SELECT hour
		FROM bookings
		WHERE tutor_id = $1 AND day = $2 AND concluded_at IS NULL
		ORDER BY hour
	`

	rows, err := r.pool.Query(ctx, query, tutorID, day)
	if err != nil {
		return nil, fmt.Errorf("get active hours: %w", err)
	}
	defer rows.Close()

	var hours []int
	for rows.Next() {
		var hour int
		if err := rows.Scan(&hour); err != nil {
			return nil, fmt.Errorf("scan hour: %w", err)
		}
		hours = append(hours, hour)
	}
	return hours, rows.Err()
}

// Start проставляет started_at. Условие started_at IS NULL делает
// повторный запуск различимым от отсутствующего бронирования.
func (r *postgresBookingRepository) Start(ctx context.Context, id int64) error {
	result, err := r.pool.Exec(ctx, `
		UPDATE bookings
		SET started_at = NOW(), updated_at = NOW()
		WHERE id = $1 AND started_at IS NULL
	`, id)
	if err != nil {
		return fmt.Errorf("start booking: %w", err)
	}
	if result.RowsAffected() == 0 {
		booking, err := r.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if booking == nil {
			return fmt.Errorf("booking %d: %w", id, model.ErrNotFound)
		}
		return fmt.Errorf("booking %d: %w", id, model.ErrAlreadyStarted)
	}
	return nil
}

// Conclude проставляет concluded_at и освобождает ключ
// (tutor_id, day, hour) для новых захватов. Повторное завершение
// идемпотентно, незапущенная сессия даёт model.ErrNotStarted.
func (r *postgresBookingRepository) Conclude(ctx context.Context, id int64) error {
	result, err := r.pool.Exec(ctx, `
		UPDATE bookings
		SET concluded_at = NOW(), updated_at = NOW()
		WHERE id = $1 AND started_at IS NOT NULL AND concluded_at IS NULL
	`, id)
	if err != nil {
		return fmt.Errorf("conclude booking: %w", err)
	}
	if result.RowsAffected() == 0 {
		booking, err := r.GetByID(ctx, id)
		if err != nil {
			return err
		}
		switch {
		case booking == nil:
			return fmt.Errorf("booking %d: %w", id, model.ErrNotFound)
		case booking.IsConcluded():
			return nil
		default:
			return fmt.Errorf("booking %d: %w", id, model.ErrNotStarted)
		}
	}
	return nil
}
