package service

import (
	"context"
	"fmt"

	"github.com/gatorguides/tutoring_core/internal/events"
	"github.com/gatorguides/tutoring_core/internal/model"
	"github.com/gatorguides/tutoring_core/internal/repository"
	"go.uber.org/zap"
)

// BookingService проводит запрос на бронирование через проверки и
// атомарный захват ключа (tutor_id, day, hour), а также ведёт жизненный
// цикл сессии
type BookingService struct {
	tutorRepo    repository.TutorRepository
	bookingRepo  repository.BookingRepository
	availability *AvailabilityService
	publisher    events.Publisher
	logger       *zap.Logger
}

func NewBookingService(
	tutorRepo repository.TutorRepository,
	bookingRepo repository.BookingRepository,
	availability *AvailabilityService,
	publisher events.Publisher,
	logger *zap.Logger,
) *BookingService {
	return &BookingService{
		tutorRepo:    tutorRepo,
		bookingRepo:  bookingRepo,
		availability: availability,
		publisher:    publisher,
		logger:       logger,
	}
}

// Create проверяет запрос и фиксирует бронирование. Из конкурирующих
// запросов на один и тот же ключ выигрывает ровно один, остальные
// получают model.ErrSlotUnavailable как будто проиграли проверку
// доступности.
func (s *BookingService) Create(ctx context.Context, req model.BookingRequest) (*model.Booking, error) {
	if !req.Day.Valid() || !model.ValidHour(req.Hour) {
		return nil, fmt.Errorf("booking %s %d: %w", req.Day, req.Hour, model.ErrValidation)
	}

	tutor, err := s.tutorRepo.GetByID(ctx, req.TutorID)
	if err != nil {
		return nil, fmt.Errorf("get tutor: %w", err)
	}
	if tutor == nil {
		return nil, fmt.Errorf("tutor %d: %w", req.TutorID, model.ErrNotFound)
	}
	if tutor.UserID == req.StudentID {
		return nil, fmt.Errorf("student %d: %w", req.StudentID, model.ErrSelfBooking)
	}

	offered, err := s.tutorRepo.OffersTag(ctx, req.TutorID, req.TagID)
	if err != nil {
		return nil, fmt.Errorf("check tag: %w", err)
	}
	if !offered {
		return nil, fmt.Errorf("tag %d for tutor %d: %w", req.TagID, req.TutorID, model.ErrTagMismatch)
	}

	bookable, err := s.availability.IsBookable(ctx, req.TutorID, req.Day, req.Hour)
	if err != nil {
		return nil, fmt.Errorf("check bookable: %w", err)
	}
	if !bookable {
		return nil, fmt.Errorf("%s %d: %w", req.Day, req.Hour, model.ErrSlotUnavailable)
	}

	booking := &model.Booking{
		StudentID: req.StudentID,
		TutorID:   req.TutorID,
		TagID:     req.TagID,
		Day:       req.Day,
		Hour:      req.Hour,
	}
	if err := s.bookingRepo.Create(ctx, booking); err != nil {
		return nil, err
	}

	s.logger.Info("Booking committed",
		zap.Int64("booking_id", booking.ID),
		zap.Int64("student_id", booking.StudentID),
		zap.Int64("tutor_id", booking.TutorID),
		zap.String("day", booking.Day.String()),
		zap.Int("hour", booking.Hour),
	)

	if err := s.publisher.BookingCommitted(booking); err != nil {
		s.logger.Warn("Failed to publish booking event", zap.Error(err))
	}
	return booking, nil
}

// GetByID получает бронирование по ID
func (s *BookingService) GetByID(ctx context.Context, bookingID int64) (*model.Booking, error) {
	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if booking == nil {
		return nil, fmt.Errorf("booking %d: %w", bookingID, model.ErrNotFound)
	}
	return booking, nil
}

// ListByStudent получает все бронирования студента
func (s *BookingService) ListByStudent(ctx context.Context, studentID int64) ([]*model.Booking, error) {
	return s.bookingRepo.ListByStudent(ctx, studentID)
}

// ListByTutor получает все бронирования репетитора
func (s *BookingService) ListByTutor(ctx context.Context, tutorID int64) ([]*model.Booking, error) {
	return s.bookingRepo.ListByTutor(ctx, tutorID)
}

// StartSession отмечает начало сессии
func (s *BookingService) StartSession(ctx context.Context, bookingID int64) error {
	if err := s.bookingRepo.Start(ctx, bookingID); err != nil {
		return err
	}

	s.logger.Info("Session started", zap.Int64("booking_id", bookingID))

	if err := s.publisher.SessionStarted(bookingID); err != nil {
		s.logger.Warn("Failed to publish session event", zap.Error(err))
	}
	return nil
}

// ConcludeSession завершает сессию и освобождает её время для
// новых бронирований
func (s *BookingService) ConcludeSession(ctx context.Context, bookingID int64) error {
	if err := s.bookingRepo.Conclude(ctx, bookingID); err != nil {
		return err
	}

	s.logger.Info("Session concluded", zap.Int64("booking_id", bookingID))

	if err := s.publisher.SessionConcluded(bookingID); err != nil {
		s.logger.Warn("Failed to publish session event", zap.Error(err))
	}
	return nil
}
