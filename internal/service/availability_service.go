package service

import (
	"context"
	"fmt"
	"sort"

	"github.com/gatorguides/tutoring_core/internal/model"
	"github.com/gatorguides/tutoring_core/internal/repository"
	"go.uber.org/zap"
)

// AvailabilityService управляет недельным расписанием репетитора и
// вычисляет свободные для записи часы
type AvailabilityService struct {
	slotRepo    repository.SlotRepository
	bookingRepo repository.BookingRepository
	logger      *zap.Logger
}

func NewAvailabilityService(
	slotRepo repository.SlotRepository,
	bookingRepo repository.BookingRepository,
	logger *zap.Logger,
) *AvailabilityService {
	return &AvailabilityService{
		slotRepo:    slotRepo,
		bookingRepo: bookingRepo,
		logger:      logger,
	}
}

// validateWindows проверяет границы окон и пересечения внутри списка
func validateWindows(windows []model.SlotWindow) error {
	for i, w := range windows {
		if !w.Valid() {
			return fmt.Errorf("window %s %d-%d: %w", w.Day, w.StartHour, w.EndHour, model.ErrValidation)
		}
		for _, other := range windows[:i] {
			if w.Overlaps(other) {
				return fmt.Errorf("windows %s %d-%d and %d-%d overlap: %w",
					w.Day, w.StartHour, w.EndHour, other.StartHour, other.EndHour, model.ErrValidation)
			}
		}
	}
	return nil
}

// SetSlots атомарно заменяет всё недельное расписание репетитора.
// При ошибке валидации прежняя конфигурация остаётся нетронутой.
func (s *AvailabilityService) SetSlots(ctx context.Context, tutorID int64, windows []model.SlotWindow) error {
	if err := validateWindows(windows); err != nil {
		return err
	}

	if err := s.slotRepo.Replace(ctx, tutorID, windows); err != nil {
		return fmt.Errorf("replace slots: %w", err)
	}

	s.logger.Info("Schedule replaced",
		zap.Int64("tutor_id", tutorID),
		zap.Int("windows", len(windows)),
	)
	return nil
}

// AddSlot добавляет одно окно доступности
func (s *AvailabilityService) AddSlot(ctx context.Context, tutorID int64, window model.SlotWindow) (*model.AvailabilitySlot, error) {
	if !window.Valid() {
		return nil, fmt.Errorf("window %s %d-%d: %w", window.Day, window.StartHour, window.EndHour, model.ErrValidation)
	}

	slot, err := s.slotRepo.Add(ctx, tutorID, window)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Slot added",
		zap.Int64("slot_id", slot.ID),
		zap.Int64("tutor_id", tutorID),
		zap.String("day", window.Day.String()),
		zap.Int("start_hour", window.StartHour),
		zap.Int("end_hour", window.EndHour),
	)
	return slot, nil
}

// RemoveSlot деактивирует окно. Повторный вызов идемпотентен.
func (s *AvailabilityService) RemoveSlot(ctx context.Context, slotID int64) error {
	if err := s.slotRepo.Deactivate(ctx, slotID); err != nil {
		return err
	}

	s.logger.Info("Slot removed", zap.Int64("slot_id", slotID))
	return nil
}

// ListActiveSlots получает активные окна репетитора, день опционален
func (s *AvailabilityService) ListActiveSlots(ctx context.Context, tutorID int64, day *model.Weekday) ([]*model.AvailabilitySlot, error) {
	return s.slotRepo.ListActive(ctx, tutorID, day)
}

// ResolveBookableTimes вычисляет свободные для записи часы: объединение
// часов активных окон минус часы незавершённых бронирований. Результат
// пересчитывается при каждом вызове, независимого состояния нет.
func (s *AvailabilityService) ResolveBookableTimes(ctx context.Context, tutorID int64, day model.Weekday) ([]int, error) {
	if !day.Valid() {
		return nil, fmt.Errorf("day %d: %w", int(day), model.ErrValidation)
	}

	slots, err := s.slotRepo.ListActive(ctx, tutorID, &day)
	if err != nil {
		return nil, fmt.Errorf("list slots: %w", err)
	}

	covered := make(map[int]bool)
	for _, slot := range slots {
		for _, hour := range slot.Hours() {
			covered[hour] = true
		}
	}

	claimed, err := s.bookingRepo.ActiveHours(ctx, tutorID, day)
	if err != nil {
		return nil, fmt.Errorf("get claimed hours: %w", err)
	}
	for _, hour := range claimed {
		delete(covered, hour)
	}

	hours := make([]int, 0, len(covered))
	for hour := range covered {
		hours = append(hours, hour)
	}
	sort.Ints(hours)
	return hours, nil
}

// IsBookable проверяет принадлежность часа множеству ResolveBookableTimes
func (s *AvailabilityService) IsBookable(ctx context.Context, tutorID int64, day model.Weekday, hour int) (bool, error) {
	hours, err := s.ResolveBookableTimes(ctx, tutorID, day)
	if err != nil {
		return false, err
	}
	for _, h := range hours {
		if h == hour {
			return true, nil
		}
	}
	return false, nil
}
