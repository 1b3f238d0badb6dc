package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gatorguides/tutoring_core/internal/model"
)

type sendMessageRequest struct {
	ReceiverID int64  `json:"receiver_id" validate:"required"`
	Content    string `json:"content" validate:"required"`
}

func queryInt(r *http.Request, name, fallback string) int {
	v := r.URL.Query().Get(name)
	if v == "" {
		v = fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0
	}
	return n
}

func (s *Server) handleCanMessage(w http.ResponseWriter, r *http.Request) {
	uidA, errA := pathID(r, "a")
	uidB, errB := pathID(r, "b")
	if errA != nil || errB != nil {
		s.writeError(w, model.ErrValidation)
		return
	}

	allowed, err := s.messages.CanMessage(r.Context(), uidA, uidB)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]bool{"allowed": allowed})
}

func (s *Server) handleSendMessage(w http.ResponseWriter, r *http.Request) {
	senderID, ok := callerID(r)
	if !ok {
		s.writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "missing caller identity"})
		return
	}

	var req sendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, fmt.Errorf("decode body: %w", model.ErrValidation))
		return
	}
	if err := s.validate.Struct(&req); err != nil {
		s.writeError(w, fmt.Errorf("%v: %w", err, model.ErrValidation))
		return
	}

	message, err := s.messages.Send(r.Context(), senderID, req.ReceiverID, req.Content)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, message)
}

func (s *Server) handleConversation(w http.ResponseWriter, r *http.Request) {
	uidA, errA := pathID(r, "a")
	uidB, errB := pathID(r, "b")
	if errA != nil || errB != nil {
		s.writeError(w, model.ErrValidation)
		return
	}

	limit := queryInt(r, "limit", "50")
	offset := queryInt(r, "offset", "0")

	messages, err := s.messages.Conversation(r.Context(), uidA, uidB, limit, offset)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if messages == nil {
		messages = []*model.Message{}
	}
	s.writeJSON(w, http.StatusOK, messages)
}

func (s *Server) handleRecentConversations(w http.ResponseWriter, r *http.Request) {
	uid, err := pathID(r, "uid")
	if err != nil {
		s.writeError(w, model.ErrValidation)
		return
	}

	limit := queryInt(r, "limit", "20")

	summaries, err := s.messages.RecentConversations(r.Context(), uid, limit)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if summaries == nil {
		summaries = []*model.ConversationSummary{}
	}
	s.writeJSON(w, http.StatusOK, summaries)
}
