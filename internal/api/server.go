package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gatorguides/tutoring_core/internal/channel"
	"github.com/gatorguides/tutoring_core/internal/model"
	"github.com/gatorguides/tutoring_core/internal/repository"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// AvailabilityService операции расписания доступности
type AvailabilityService interface {
	SetSlots(ctx context.Context, tutorID int64, windows []model.SlotWindow) error
	AddSlot(ctx context.Context, tutorID int64, window model.SlotWindow) (*model.AvailabilitySlot, error)
	RemoveSlot(ctx context.Context, slotID int64) error
	ListActiveSlots(ctx context.Context, tutorID int64, day *model.Weekday) ([]*model.AvailabilitySlot, error)
	ResolveBookableTimes(ctx context.Context, tutorID int64, day model.Weekday) ([]int, error)
	IsBookable(ctx context.Context, tutorID int64, day model.Weekday, hour int) (bool, error)
}

// BookingService операции бронирования и жизненного цикла сессий
type BookingService interface {
	Create(ctx context.Context, req model.BookingRequest) (*model.Booking, error)
	GetByID(ctx context.Context, bookingID int64) (*model.Booking, error)
	ListByStudent(ctx context.Context, studentID int64) ([]*model.Booking, error)
	ListByTutor(ctx context.Context, tutorID int64) ([]*model.Booking, error)
	StartSession(ctx context.Context, bookingID int64) error
	ConcludeSession(ctx context.Context, bookingID int64) error
}

// MessageService операции переписки
type MessageService interface {
	CanMessage(ctx context.Context, uidA, uidB int64) (bool, error)
	Send(ctx context.Context, senderID, receiverID int64, content string) (*model.Message, error)
	Conversation(ctx context.Context, uidA, uidB int64, limit, offset int) ([]*model.Message, error)
	RecentConversations(ctx context.Context, uid int64, limit int) ([]*model.ConversationSummary, error)
}

// Server HTTP-транспорт над операциями ядра. Идентичность вызывающего
// приходит в заголовке X-User-ID от внешнего шлюза аутентификации.
type Server struct {
	availability AvailabilityService
	bookings     BookingService
	messages     MessageService
	tags         repository.TagRepository
	registry     *channel.Registry
	validate     *validator.Validate
	logger       *zap.Logger
	mux          *http.ServeMux
}

func NewServer(
	availability AvailabilityService,
	bookings BookingService,
	messages MessageService,
	tags repository.TagRepository,
	registry *channel.Registry,
	logger *zap.Logger,
) *Server {
	s := &Server{
		availability: availability,
		bookings:     bookings,
		messages:     messages,
		tags:         tags,
		registry:     registry,
		validate:     validator.New(),
		logger:       logger,
		mux:          http.NewServeMux(),
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.mux.HandleFunc("GET /health", s.handleHealth)

	s.mux.HandleFunc("GET /tags", s.handleListTags)
	s.mux.HandleFunc("GET /tags/{id}", s.handleGetTag)

	s.mux.HandleFunc("GET /tutors/{tid}/slots", s.handleListSlots)
	s.mux.HandleFunc("PUT /tutors/{tid}/slots", s.handleSetSlots)
	s.mux.HandleFunc("POST /tutors/{tid}/slots", s.handleAddSlot)
	s.mux.HandleFunc("DELETE /slots/{id}", s.handleRemoveSlot)
	s.mux.HandleFunc("GET /tutors/{tid}/bookable", s.handleBookableTimes)
	s.mux.HandleFunc("GET /tutors/{tid}/bookable/{hour}", s.handleIsBookable)

	s.mux.HandleFunc("POST /bookings", s.handleCreateBooking)
	s.mux.HandleFunc("GET /bookings/{id}", s.handleGetBooking)
	s.mux.HandleFunc("PUT /bookings/{id}/start", s.handleStartSession)
	s.mux.HandleFunc("PUT /bookings/{id}/conclude", s.handleConcludeSession)
	s.mux.HandleFunc("GET /users/{uid}/bookings", s.handleStudentBookings)
	s.mux.HandleFunc("GET /tutors/{tid}/bookings", s.handleTutorBookings)

	s.mux.HandleFunc("GET /messages/can-message/{a}/{b}", s.handleCanMessage)
	s.mux.HandleFunc("POST /messages", s.handleSendMessage)
	s.mux.HandleFunc("GET /messages/{a}/{b}", s.handleConversation)
	s.mux.HandleFunc("GET /users/{uid}/conversations", s.handleRecentConversations)

	s.mux.HandleFunc("GET /ws/{uid}", s.handleWebsocket)
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// callerID достаёт идентичность вызывающего, установленную внешним шлюзом
func callerID(r *http.Request) (int64, bool) {
	uid, err := strconv.ParseInt(r.Header.Get("X-User-ID"), 10, 64)
	if err != nil || uid <= 0 {
		return 0, false
	}
	return uid, true
}

func pathID(r *http.Request, name string) (int64, error) {
	return strconv.ParseInt(r.PathValue(name), 10, 64)
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("Failed to encode response", zap.Error(err))
	}
}

// writeError переводит доменную ошибку в HTTP-статус. Временные сбои
// хранилища не раскрываются наружу.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		s.logger.Error("Internal error", zap.Error(err))
		s.writeJSON(w, status, map[string]string{"error": "internal error"})
		return
	}
	s.writeJSON(w, status, map[string]string{"error": err.Error()})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, model.ErrValidation),
		errors.Is(err, model.ErrEmptyContent),
		errors.Is(err, model.ErrSelfBooking),
		errors.Is(err, model.ErrTagMismatch):
		return http.StatusBadRequest
	case errors.Is(err, model.ErrPermissionDenied):
		return http.StatusForbidden
	case errors.Is(err, model.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, model.ErrOverlap),
		errors.Is(err, model.ErrSlotUnavailable),
		errors.Is(err, model.ErrAlreadyStarted),
		errors.Is(err, model.ErrNotStarted):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) handleListTags(w http.ResponseWriter, r *http.Request) {
	tags, err := s.tags.List(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	if tags == nil {
		tags = []*model.Tag{}
	}
	s.writeJSON(w, http.StatusOK, tags)
}

func (s *Server) handleGetTag(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.writeError(w, model.ErrValidation)
		return
	}
	tag, err := s.tags.GetByID(r.Context(), id)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if tag == nil {
		s.writeError(w, model.ErrNotFound)
		return
	}
	s.writeJSON(w, http.StatusOK, tag)
}
