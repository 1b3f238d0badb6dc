package model

import "time"

// Booking подтверждённая сессия между студентом и репетитором.
// Ключ (TutorID, Day, Hour) уникален среди активных бронирований:
// завершённое бронирование освобождает время обратно в пул.
type Booking struct {
	ID          int64      `json:"id"`
	StudentID   int64      `json:"student_id"`
	TutorID     int64      `json:"tutor_id"`
	TagID       int64      `json:"tag_id"`
	Day         Weekday    `json:"day"`
	Hour        int        `json:"hour"`
	StartedAt   *time.Time `json:"started_at"`
	ConcludedAt *time.Time `json:"concluded_at"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// IsConcluded сообщает освобождено ли время бронирования
func (b *Booking) IsConcluded() bool {
	return b.ConcludedAt != nil
}

// BookingRequest запрос на создание бронирования
type BookingRequest struct {
	StudentID int64   `json:"student_id"`
	TutorID   int64   `json:"tutor_id"`
	TagID     int64   `json:"tag_id"`
	Day       Weekday `json:"day"`
	Hour      int     `json:"hour"`
}
