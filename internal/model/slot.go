package model

import "time"

// AvailabilitySlot окно еженедельной доступности репетитора.
// Интервал часов полуоткрытый: [StartHour, EndHour).
type AvailabilitySlot struct {
	ID        int64     `json:"id"`
	TutorID   int64     `json:"tutor_id"`
	Day       Weekday   `json:"day"`
	StartHour int       `json:"start_hour"`
	EndHour   int       `json:"end_hour"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

// SlotWindow входные данные одного окна при замене расписания
type SlotWindow struct {
	Day       Weekday `json:"day"`
	StartHour int     `json:"start_hour"`
	EndHour   int     `json:"end_hour"`
}

// Valid проверяет границы окна: корректный день и StartHour < EndHour
func (w SlotWindow) Valid() bool {
	return w.Day.Valid() && ValidHour(w.StartHour) && w.StartHour < w.EndHour && w.EndHour <= 24
}

// Overlaps проверяет пересечение с другим окном того же дня
func (w SlotWindow) Overlaps(other SlotWindow) bool {
	if w.Day != other.Day {
		return false
	}
	return w.StartHour < other.EndHour && other.StartHour < w.EndHour
}

// Window возвращает окно слота для проверок пересечения
func (s *AvailabilitySlot) Window() SlotWindow {
	return SlotWindow{Day: s.Day, StartHour: s.StartHour, EndHour: s.EndHour}
}

// Hours перечисляет часы покрытые слотом по возрастанию
func (s *AvailabilitySlot) Hours() []int {
	hours := make([]int, 0, s.EndHour-s.StartHour)
	for h := s.StartHour; h < s.EndHour; h++ {
		hours = append(hours, h)
	}
	return hours
}
