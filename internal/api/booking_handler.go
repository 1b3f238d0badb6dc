package api

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gatorguides/tutoring_core/internal/model"
)

type createBookingRequest struct {
	TutorID int64  `json:"tutor_id" validate:"required"`
	TagID   int64  `json:"tag_id" validate:"required"`
	Day     string `json:"day" validate:"required"`
	Hour    int    `json:"hour" validate:"min=0,max=23"`
}

func (s *Server) handleCreateBooking(w http.ResponseWriter, r *http.Request) {
	studentID, ok := callerID(r)
	if !ok {
		s.writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "missing caller identity"})
		return
	}

	var req createBookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, fmt.Errorf("decode body: %w", model.ErrValidation))
		return
	}
	if err := s.validate.Struct(&req); err != nil {
		s.writeError(w, fmt.Errorf("%v: %w", err, model.ErrValidation))
		return
	}

	day, err := model.ParseWeekday(req.Day)
	if err != nil {
		s.writeError(w, err)
		return
	}

	booking, err := s.bookings.Create(r.Context(), model.BookingRequest{
		StudentID: studentID,
		TutorID:   req.TutorID,
		TagID:     req.TagID,
		Day:       day,
		Hour:      req.Hour,
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, booking)
}

func (s *Server) handleGetBooking(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.writeError(w, model.ErrValidation)
		return
	}

	booking, err := s.bookings.GetByID(r.Context(), id)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, booking)
}

func (s *Server) handleStartSession(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.writeError(w, model.ErrValidation)
		return
	}

	if err := s.bookings.StartSession(r.Context(), id); err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]int64{"booking_id": id})
}

func (s *Server) handleConcludeSession(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.writeError(w, model.ErrValidation)
		return
	}

	if err := s.bookings.ConcludeSession(r.Context(), id); err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]int64{"booking_id": id})
}

func (s *Server) handleStudentBookings(w http.ResponseWriter, r *http.Request) {
	uid, err := pathID(r, "uid")
	if err != nil {
		s.writeError(w, model.ErrValidation)
		return
	}

	bookings, err := s.bookings.ListByStudent(r.Context(), uid)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if bookings == nil {
		bookings = []*model.Booking{}
	}
	s.writeJSON(w, http.StatusOK, bookings)
}

func (s *Server) handleTutorBookings(w http.ResponseWriter, r *http.Request) {
	tutorID, err := pathID(r, "tid")
	if err != nil {
		s.writeError(w, model.ErrValidation)
		return
	}

	bookings, err := s.bookings.ListByTutor(r.Context(), tutorID)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if bookings == nil {
		bookings = []*model.Booking{}
	}
	s.writeJSON(w, http.StatusOK, bookings)
}
