package model

import "fmt"

// Weekday нумерует дни недели, 0 = Monday ... 6 = Sunday
type Weekday int

const (
	Monday Weekday = iota
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
	Sunday
)

var weekdayNames = [7]string{
	"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday",
}

func (d Weekday) String() string {
	if d < Monday || d > Sunday {
		return fmt.Sprintf("Weekday(%d)", int(d))
	}
	return weekdayNames[d]
}

// Valid проверяет что день входит в диапазон Monday..Sunday
func (d Weekday) Valid() bool {
	return d >= Monday && d <= Sunday
}

// ParseWeekday разбирает английское название дня недели
func ParseWeekday(s string) (Weekday, error) {
	for i, name := range weekdayNames {
		if name == s {
			return Weekday(i), nil
		}
	}
	return 0, fmt.Errorf("parse weekday %q: %w", s, ErrValidation)
}

// ValidHour проверяет что час в военном формате 0..23
func ValidHour(hour int) bool {
	return hour >= 0 && hour <= 23
}
