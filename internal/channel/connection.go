package channel

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	writeBuffer  = 64
	writeTimeout = 5 * time.Second
)

// Conn минимальная поверхность живого соединения. *websocket.Conn
// из gorilla удовлетворяет ей напрямую.
type Conn interface {
	WriteMessage(messageType int, data []byte) error
	SetWriteDeadline(t time.Time) error
	Close() error
}

// Connection обёртка живого соединения с одним пишущим горутином.
// Все записи идут через буферизованный канал: медленный получатель
// не блокирует отправителя.
type Connection struct {
	id        uuid.UUID
	conn      Conn
	sendCh    chan []byte
	done      chan struct{}
	closeOnce sync.Once
}

// NewConnection оборачивает соединение и запускает пишущий горутин
func NewConnection(conn Conn) *Connection {
	c := &Connection{
		id:     uuid.New(),
		conn:   conn,
		sendCh: make(chan []byte, writeBuffer),
		done:   make(chan struct{}),
	}
	go c.writeLoop()
	return c
}

// ID идентификатор экземпляра соединения
func (c *Connection) ID() uuid.UUID {
	return c.id
}

func (c *Connection) writeLoop() {
	for {
		select {
		case data := <-c.sendCh:
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeTimeout)); err != nil {
				c.Close()
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				c.Close()
				return
			}
		case <-c.done:
			return
		}
	}
}

// Push ставит данные в очередь на отправку. Возвращает false если
// соединение закрыто или буфер переполнен: сообщение отбрасывается,
// получатель восстановит его из журнала при переподключении.
func (c *Connection) Push(data []byte) bool {
	select {
	case <-c.done:
		return false
	default:
	}

	select {
	case c.sendCh <- data:
		return true
	default:
		return false
	}
}

// Close закрывает соединение и останавливает пишущий горутин
func (c *Connection) Close() {
	c.closeOnce.Do(func() {
		close(c.done)
		c.conn.Close()
	})
}
