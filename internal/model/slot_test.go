package model

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSlotWindowValid(t *testing.T) {
	require.True(t, SlotWindow{Day: Monday, StartHour: 9, EndHour: 11}.Valid())
	require.True(t, SlotWindow{Day: Sunday, StartHour: 23, EndHour: 24}.Valid())

	require.False(t, SlotWindow{Day: Monday, StartHour: 11, EndHour: 11}.Valid())
	require.False(t, SlotWindow{Day: Monday, StartHour: 12, EndHour: 9}.Valid())
	require.False(t, SlotWindow{Day: Weekday(9), StartHour: 9, EndHour: 11}.Valid())
	require.False(t, SlotWindow{Day: Monday, StartHour: -1, EndHour: 11}.Valid())
	require.False(t, SlotWindow{Day: Monday, StartHour: 9, EndHour: 25}.Valid())
}

func TestSlotWindowOverlaps(t *testing.T) {
	base := SlotWindow{Day: Monday, StartHour: 9, EndHour: 12}

	require.True(t, base.Overlaps(SlotWindow{Day: Monday, StartHour: 11, EndHour: 13}))
	require.True(t, base.Overlaps(SlotWindow{Day: Monday, StartHour: 8, EndHour: 10}))
	require.True(t, base.Overlaps(SlotWindow{Day: Monday, StartHour: 10, EndHour: 11}))
	require.True(t, base.Overlaps(base))

	// Полуоткрытые интервалы: соприкасающиеся окна не пересекаются
	require.False(t, base.Overlaps(SlotWindow{Day: Monday, StartHour: 12, EndHour: 14}))
	require.False(t, base.Overlaps(SlotWindow{Day: Monday, StartHour: 7, EndHour: 9}))
	require.False(t, base.Overlaps(SlotWindow{Day: Tuesday, StartHour: 9, EndHour: 12}))
}

func TestSlotHours(t *testing.T) {
	slot := &AvailabilitySlot{Day: Monday, StartHour: 9, EndHour: 12}
	require.Equal(t, []int{9, 10, 11}, slot.Hours())

	single := &AvailabilitySlot{Day: Monday, StartHour: 9, EndHour: 10}
	require.Equal(t, []int{9}, single.Hours())
}
