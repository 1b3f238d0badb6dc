package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gatorguides/tutoring_core/internal/model"
)

type slotWindowRequest struct {
	Day       string `json:"day" validate:"required"`
	StartHour int    `json:"start_hour" validate:"min=0,max=23"`
	EndHour   int    `json:"end_hour" validate:"min=1,max=24"`
}

type setSlotsRequest struct {
	Slots []slotWindowRequest `json:"slots" validate:"dive"`
}

func (s *Server) parseWindow(req slotWindowRequest) (model.SlotWindow, error) {
	day, err := model.ParseWeekday(req.Day)
	if err != nil {
		return model.SlotWindow{}, err
	}
	return model.SlotWindow{Day: day, StartHour: req.StartHour, EndHour: req.EndHour}, nil
}

func (s *Server) handleListSlots(w http.ResponseWriter, r *http.Request) {
	tutorID, err := pathID(r, "tid")
	if err != nil {
		s.writeError(w, model.ErrValidation)
		return
	}

	var day *model.Weekday
	if v := r.URL.Query().Get("day"); v != "" {
		d, err := model.ParseWeekday(v)
		if err != nil {
			s.writeError(w, err)
			return
		}
		day = &d
	}

	slots, err := s.availability.ListActiveSlots(r.Context(), tutorID, day)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if slots == nil {
		slots = []*model.AvailabilitySlot{}
	}
	s.writeJSON(w, http.StatusOK, slots)
}

func (s *Server) handleSetSlots(w http.ResponseWriter, r *http.Request) {
	tutorID, err := pathID(r, "tid")
	if err != nil {
		s.writeError(w, model.ErrValidation)
		return
	}

	var req setSlotsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, fmt.Errorf("decode body: %w", model.ErrValidation))
		return
	}
	if err := s.validate.Struct(&req); err != nil {
		s.writeError(w, fmt.Errorf("%v: %w", err, model.ErrValidation))
		return
	}

	windows := make([]model.SlotWindow, 0, len(req.Slots))
	for _, sw := range req.Slots {
		window, err := s.parseWindow(sw)
		if err != nil {
			s.writeError(w, err)
			return
		}
		windows = append(windows, window)
	}

	if err := s.availability.SetSlots(r.Context(), tutorID, windows); err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]int{"slots": len(windows)})
}

func (s *Server) handleAddSlot(w http.ResponseWriter, r *http.Request) {
	tutorID, err := pathID(r, "tid")
	if err != nil {
		s.writeError(w, model.ErrValidation)
		return
	}

	var req slotWindowRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, fmt.Errorf("decode body: %w", model.ErrValidation))
		return
	}
	if err := s.validate.Struct(&req); err != nil {
		s.writeError(w, fmt.Errorf("%v: %w", err, model.ErrValidation))
		return
	}

	window, err := s.parseWindow(req)
	if err != nil {
		s.writeError(w, err)
		return
	}

	slot, err := s.availability.AddSlot(r.Context(), tutorID, window)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, slot)
}

func (s *Server) handleRemoveSlot(w http.ResponseWriter, r *http.Request) {
	slotID, err := pathID(r, "id")
	if err != nil {
		s.writeError(w, model.ErrValidation)
		return
	}

	if err := s.availability.RemoveSlot(r.Context(), slotID); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleBookableTimes(w http.ResponseWriter, r *http.Request) {
	tutorID, err := pathID(r, "tid")
	if err != nil {
		s.writeError(w, model.ErrValidation)
		return
	}
	day, err := model.ParseWeekday(r.URL.Query().Get("day"))
	if err != nil {
		s.writeError(w, err)
		return
	}

	hours, err := s.availability.ResolveBookableTimes(r.Context(), tutorID, day)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if hours == nil {
		hours = []int{}
	}
	s.writeJSON(w, http.StatusOK, map[string]interface{}{"day": day.String(), "hours": hours})
}

func (s *Server) handleIsBookable(w http.ResponseWriter, r *http.Request) {
	tutorID, err := pathID(r, "tid")
	if err != nil {
		s.writeError(w, model.ErrValidation)
		return
	}
	hour, err := strconv.Atoi(r.PathValue("hour"))
	if err != nil || !model.ValidHour(hour) {
		s.writeError(w, model.ErrValidation)
		return
	}
	day, err := model.ParseWeekday(r.URL.Query().Get("day"))
	if err != nil {
		s.writeError(w, err)
		return
	}

	bookable, err := s.availability.IsBookable(r.Context(), tutorID, day, hour)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]bool{"bookable": bookable})
}
