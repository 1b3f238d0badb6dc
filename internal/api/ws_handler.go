package api

import (
	"net/http"

	"github.com/gatorguides/tutoring_core/internal/channel"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Проверка источника лежит на внешнем шлюзе вместе с аутентификацией
	CheckOrigin: func(*http.Request) bool { return true },
}

// handleWebsocket подписка на живую доставку. При повторном подключении
// того же пользователя прежнее соединение закрывается: последнее
// выигрывает.
func (s *Server) handleWebsocket(w http.ResponseWriter, r *http.Request) {
	uid, err := pathID(r, "uid")
	if err != nil || uid <= 0 {
		http.Error(w, "invalid user id", http.StatusBadRequest)
		return
	}

	ws, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("Websocket upgrade failed", zap.Error(err))
		return
	}

	conn := channel.NewConnection(ws)
	s.registry.Connect(uid, conn)
	defer s.registry.Disconnect(uid, conn)

	for {
		_, data, err := ws.ReadMessage()
		if err != nil {
			return
		}
		if string(data) == "ping" {
			conn.Push([]byte("pong"))
		}
	}
}
