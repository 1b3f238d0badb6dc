package events

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/gatorguides/tutoring_core/internal/model"
	"github.com/nats-io/nats.go"
)

// Publisher публикует события жизненного цикла бронирований для
// внешних подписчиков (уведомления, аналитика). Публикация best-effort:
// сбой не влияет на зафиксированное бронирование.
type Publisher interface {
	BookingCommitted(booking *model.Booking) error
	SessionStarted(bookingID int64) error
	SessionConcluded(bookingID int64) error
}

type natsPublisher struct {
	conn *nats.Conn
}

// NewNatsPublisher подключается к NATS и возвращает издателя
func NewNatsPublisher(natsURL string) (Publisher, error) {
	nc, err := nats.Connect(natsURL)
	if err != nil {
		return nil, fmt.Errorf("connect to nats: %w", err)
	}
	return &natsPublisher{conn: nc}, nil
}

type bookingCommittedEvent struct {
	EventType string    `json:"event_type"`
	BookingID int64     `json:"booking_id"`
	StudentID int64     `json:"student_id"`
	TutorID   int64     `json:"tutor_id"`
	TagID     int64     `json:"tag_id"`
	Day       string    `json:"day"`
	Hour      int       `json:"hour"`
	At        time.Time `json:"at"`
}

type sessionEvent struct {
	EventType string    `json:"event_type"`
	BookingID int64     `json:"booking_id"`
	At        time.Time `json:"at"`
}

func (p *natsPublisher) publish(subject string, event interface{}) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	return p.conn.Publish(subject, data)
}

func (p *natsPublisher) BookingCommitted(booking *model.Booking) error {
	return p.publish("bookings.committed", bookingCommittedEvent{
		EventType: "booking_committed",
		BookingID: booking.ID,
		StudentID: booking.StudentID,
		TutorID:   booking.TutorID,
		TagID:     booking.TagID,
		Day:       booking.Day.String(),
		Hour:      booking.Hour,
		At:        time.Now().UTC(),
	})
}

func (p *natsPublisher) SessionStarted(bookingID int64) error {
	return p.publish("bookings.started", sessionEvent{
		EventType: "session_started",
		BookingID: bookingID,
		At:        time.Now().UTC(),
	})
}

func (p *natsPublisher) SessionConcluded(bookingID int64) error {
	return p.publish("bookings.concluded", sessionEvent{
		EventType: "session_concluded",
		BookingID: bookingID,
		At:        time.Now().UTC(),
	})
}

// NoopPublisher заглушка для конфигураций без NATS
type NoopPublisher struct{}

func (NoopPublisher) BookingCommitted(*model.Booking) error { return nil }
func (NoopPublisher) SessionStarted(int64) error            { return nil }
func (NoopPublisher) SessionConcluded(int64) error          { return nil }
