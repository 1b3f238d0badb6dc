package model

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseWeekday(t *testing.T) {
	day, err := ParseWeekday("Monday")
	require.NoError(t, err)
	require.Equal(t, Monday, day)

	day, err = ParseWeekday("Sunday")
	require.NoError(t, err)
	require.Equal(t, Sunday, day)

	_, err = ParseWeekday("monday")
	require.True(t, errors.Is(err, ErrValidation))

	_, err = ParseWeekday("")
	require.True(t, errors.Is(err, ErrValidation))
}

func TestWeekdayString(t *testing.T) {
	require.Equal(t, "Wednesday", Wednesday.String())
	require.Equal(t, "Weekday(7)", Weekday(7).String())
}

func TestWeekdayValid(t *testing.T) {
	require.True(t, Monday.Valid())
	require.True(t, Sunday.Valid())
	require.False(t, Weekday(-1).Valid())
	require.False(t, Weekday(7).Valid())
}

func TestValidHour(t *testing.T) {
	require.True(t, ValidHour(0))
	require.True(t, ValidHour(23))
	require.False(t, ValidHour(-1))
	require.False(t, ValidHour(24))
}
