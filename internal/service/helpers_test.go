package service_test

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/gatorguides/tutoring_core/internal/model"
)

// Фейки репозиториев повторяют контракт postgres-реализаций,
// включая атомарность захвата ключа бронирования.

type fakeSlotRepo struct {
	mu     sync.Mutex
	seq    int64
	slots  map[int64]*model.AvailabilitySlot
	tutors map[int64]bool
}

func newFakeSlotRepo(tutorIDs ...int64) *fakeSlotRepo {
	tutors := make(map[int64]bool)
	for _, id := range tutorIDs {
		tutors[id] = true
	}
	return &fakeSlotRepo{slots: make(map[int64]*model.AvailabilitySlot), tutors: tutors}
}

func (r *fakeSlotRepo) Replace(_ context.Context, tutorID int64, windows []model.SlotWindow) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.tutors[tutorID] {
		return fmt.Errorf("tutor %d: %w", tutorID, model.ErrNotFound)
	}
	for _, s := range r.slots {
		if s.TutorID == tutorID {
			s.IsActive = false
		}
	}
	for _, w := range windows {
		r.upsert(tutorID, w)
	}
	return nil
}

func (r *fakeSlotRepo) upsert(tutorID int64, w model.SlotWindow) *model.AvailabilitySlot {
	for _, s := range r.slots {
		if s.TutorID == tutorID && s.Window() == w {
			s.IsActive = true
			return s
		}
	}
	r.seq++
	slot := &model.AvailabilitySlot{
		ID:        r.seq,
		TutorID:   tutorID,
		Day:       w.Day,
		StartHour: w.StartHour,
		EndHour:   w.EndHour,
		IsActive:  true,
		CreatedAt: time.Now(),
	}
	r.slots[slot.ID] = slot
	return slot
}

func (r *fakeSlotRepo) Add(_ context.Context, tutorID int64, w model.SlotWindow) (*model.AvailabilitySlot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.tutors[tutorID] {
		return nil, fmt.Errorf("tutor %d: %w", tutorID, model.ErrNotFound)
	}
	for _, s := range r.slots {
		if s.TutorID == tutorID && s.IsActive && s.Window().Overlaps(w) {
			return nil, fmt.Errorf("add slot: %w", model.ErrOverlap)
		}
	}
	return r.upsert(tutorID, w), nil
}

func (r *fakeSlotRepo) Deactivate(_ context.Context, slotID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	slot, ok := r.slots[slotID]
	if !ok {
		return fmt.Errorf("slot %d: %w", slotID, model.ErrNotFound)
	}
	slot.IsActive = false
	return nil
}

func (r *fakeSlotRepo) ListActive(_ context.Context, tutorID int64, day *model.Weekday) ([]*model.AvailabilitySlot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*model.AvailabilitySlot
	for _, s := range r.slots {
		if s.TutorID != tutorID || !s.IsActive {
			continue
		}
		if day != nil && s.Day != *day {
			continue
		}
		copied := *s
		out = append(out, &copied)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Day != out[j].Day {
			return out[i].Day < out[j].Day
		}
		return out[i].StartHour < out[j].StartHour
	})
	return out, nil
}

type fakeBookingRepo struct {
	mu       sync.Mutex
	seq      int64
	bookings map[int64]*model.Booking
}

func newFakeBookingRepo() *fakeBookingRepo {
	return &fakeBookingRepo{bookings: make(map[int64]*model.Booking)}
}

func (r *fakeBookingRepo) Create(_ context.Context, booking *model.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, b := range r.bookings {
		if b.TutorID == booking.TutorID && b.Day == booking.Day && b.Hour == booking.Hour && !b.IsConcluded() {
			return fmt.Errorf("claim: %w", model.ErrSlotUnavailable)
		}
	}
	r.seq++
	booking.ID = r.seq
	booking.CreatedAt = time.Now()
	booking.UpdatedAt = booking.CreatedAt
	copied := *booking
	r.bookings[booking.ID] = &copied
	return nil
}

func (r *fakeBookingRepo) GetByID(_ context.Context, id int64) (*model.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bookings[id]
	if !ok {
		return nil, nil
	}
	copied := *b
	return &copied, nil
}

func (r *fakeBookingRepo) listBy(match func(*model.Booking) bool) []*model.Booking {
	var out []*model.Booking
	for _, b := range r.bookings {
		if match(b) {
			copied := *b
			out = append(out, &copied)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out
}

func (r *fakeBookingRepo) ListByStudent(_ context.Context, studentID int64) ([]*model.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.listBy(func(b *model.Booking) bool { return b.StudentID == studentID }), nil
}

func (r *fakeBookingRepo) ListByTutor(_ context.Context, tutorID int64) ([]*model.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.listBy(func(b *model.Booking) bool { return b.TutorID == tutorID }), nil
}

func (r *fakeBookingRepo) ActiveHours(_ context.Context, tutorID int64, day model.Weekday) ([]int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var hours []int
	for _, b := range r.bookings {
		if b.TutorID == tutorID && b.Day == day && !b.IsConcluded() {
			hours = append(hours, b.Hour)
		}
	}
	sort.Ints(hours)
	return hours, nil
}

func (r *fakeBookingRepo) Start(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bookings[id]
	if !ok {
		return fmt.Errorf("booking %d: %w", id, model.ErrNotFound)
	}
	if b.StartedAt != nil {
		return fmt.Errorf("booking %d: %w", id, model.ErrAlreadyStarted)
	}
	now := time.Now()
	b.StartedAt = &now
	b.UpdatedAt = now
	return nil
}

func (r *fakeBookingRepo) Conclude(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bookings[id]
	if !ok {
		return fmt.Errorf("booking %d: %w", id, model.ErrNotFound)
	}
	if b.IsConcluded() {
		return nil
	}
	if b.StartedAt == nil {
		return fmt.Errorf("booking %d: %w", id, model.ErrNotStarted)
	}
	now := time.Now()
	b.ConcludedAt = &now
	b.UpdatedAt = now
	return nil
}

type fakeTutorRepo struct {
	tutors map[int64]*model.Tutor
	tags   map[[2]int64]bool
}

func newFakeTutorRepo() *fakeTutorRepo {
	return &fakeTutorRepo{tutors: make(map[int64]*model.Tutor), tags: make(map[[2]int64]bool)}
}

func (r *fakeTutorRepo) addTutor(id, userID int64, tagIDs ...int64) {
	r.tutors[id] = &model.Tutor{ID: id, UserID: userID}
	for _, tagID := range tagIDs {
		r.tags[[2]int64{id, tagID}] = true
	}
}

func (r *fakeTutorRepo) GetByID(_ context.Context, id int64) (*model.Tutor, error) {
	t, ok := r.tutors[id]
	if !ok {
		return nil, nil
	}
	return t, nil
}

func (r *fakeTutorRepo) OffersTag(_ context.Context, tutorID, tagID int64) (bool, error) {
	return r.tags[[2]int64{tutorID, tagID}], nil
}

type fakeMessageRepo struct {
	mu       sync.Mutex
	seq      int64
	messages []*model.Message
	links    map[[2]int64]bool
}

func newFakeMessageRepo() *fakeMessageRepo {
	return &fakeMessageRepo{links: make(map[[2]int64]bool)}
}

func pairKey(a, b int64) [2]int64 {
	if a > b {
		a, b = b, a
	}
	return [2]int64{a, b}
}

func (r *fakeMessageRepo) link(a, b int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.links[pairKey(a, b)] = true
}

func (r *fakeMessageRepo) HasSharedBooking(_ context.Context, a, b int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.links[pairKey(a, b)], nil
}

func (r *fakeMessageRepo) Append(_ context.Context, m *model.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	m.ID = r.seq
	m.SentAt = time.Now()
	copied := *m
	r.messages = append(r.messages, &copied)
	return nil
}

func (r *fakeMessageRepo) Conversation(_ context.Context, a, b int64, limit, offset int) ([]*model.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var all []*model.Message
	for _, m := range r.messages {
		if pairKey(m.SenderID, m.ReceiverID) == pairKey(a, b) {
			copied := *m
			all = append(all, &copied)
		}
	}
	sort.Slice(all, func(i, j int) bool {
		if !all[i].SentAt.Equal(all[j].SentAt) {
			return all[i].SentAt.Before(all[j].SentAt)
		}
		return all[i].ID < all[j].ID
	})
	if offset >= len(all) {
		return nil, nil
	}
	all = all[offset:]
	if limit < len(all) {
		all = all[:limit]
	}
	return all, nil
}

func (r *fakeMessageRepo) RecentConversations(_ context.Context, uid int64, limit int) ([]*model.ConversationSummary, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	latest := make(map[int64]*model.Message)
	for _, m := range r.messages {
		var other int64
		switch {
		case m.SenderID == uid:
			other = m.ReceiverID
		case m.ReceiverID == uid:
			other = m.SenderID
		default:
			continue
		}
		if prev, ok := latest[other]; !ok || m.ID > prev.ID {
			latest[other] = m
		}
	}
	var out []*model.ConversationSummary
	for other, m := range latest {
		out = append(out, &model.ConversationSummary{
			OtherUserID: other,
			LastMessage: m.Content,
			LastSentAt:  m.SentAt,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].LastSentAt.After(out[j].LastSentAt) })
	if limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

type fakeDeliverer struct {
	mu        sync.Mutex
	delivered []*model.Message
}

func (d *fakeDeliverer) Deliver(m *model.Message) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.delivered = append(d.delivered, m)
}

func (d *fakeDeliverer) count() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.delivered)
}

type fakePublisher struct {
	mu        sync.Mutex
	committed []int64
}

func (p *fakePublisher) BookingCommitted(b *model.Booking) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.committed = append(p.committed, b.ID)
	return nil
}

func (p *fakePublisher) SessionStarted(int64) error   { return nil }
func (p *fakePublisher) SessionConcluded(int64) error { return nil }
