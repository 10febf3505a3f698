// Package live рассылает состояние карты подписчикам по WebSocket.
package live

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = pongWait * 9 / 10
	maxMessageSize = 1024
	sendBuffer     = 8
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type subscriber struct {
	id   string
	conn *websocket.Conn
	send chan []byte
}

// Hub хранит подписчиков и рассылает им сообщения.
// Подписчик, который не успевает читать, отключается.
type Hub struct {
	current func() interface{}

	mu      sync.Mutex
	clients map[string]*subscriber
	closed  bool
}

// NewHub создает хаб. current возвращает состояние, которое получает
// новый подписчик сразу после подключения; может быть nil.
func NewHub(current func() interface{}) *Hub {
	return &Hub{
		current: current,
		clients: make(map[string]*subscriber),
	}
}

// ServeWS переводит запрос на WebSocket и регистрирует подписчика.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[live] websocket upgrade failed: %v", err)
		return
	}

	s := &subscriber{
		id:   uuid.NewString(),
		conn: conn,
		send: make(chan []byte, sendBuffer),
	}

	if h.current != nil {
		if msg, err := json.Marshal(h.current()); err == nil {
			s.send <- msg
		}
	}

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		conn.Close()
		return
	}
	h.clients[s.id] = s
	count := len(h.clients)
	h.mu.Unlock()
	log.Printf("[live] subscriber %s connected (%d total)", s.id, count)

	go h.writeLoop(s)
	h.readLoop(s)
}

// Broadcast отправляет v всем подписчикам.
func (h *Hub) Broadcast(v interface{}) {
	msg, err := json.Marshal(v)
	if err != nil {
		log.Printf("[live] failed to marshal broadcast: %v", err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for id, s := range h.clients {
		select {
		case s.send <- msg:
		default:
			log.Printf("[live] subscriber %s is too slow, disconnecting", id)
			h.removeLocked(s)
		}
	}
}

// Count возвращает число подключённых подписчиков.
func (h *Hub) Count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Close отключает всех подписчиков и перестаёт принимать новых.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
	for _, s := range h.clients {
		h.removeLocked(s)
	}
}

func (h *Hub) remove(s *subscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.removeLocked(s)
}

func (h *Hub) removeLocked(s *subscriber) {
	if _, ok := h.clients[s.id]; !ok {
		return
	}
	delete(h.clients, s.id)
	close(s.send)
	log.Printf("[live] subscriber %s disconnected", s.id)
}

// readLoop читает только управляющие кадры и ловит закрытие соединения.
func (h *Hub) readLoop(s *subscriber) {
	defer func() {
		h.remove(s)
		s.conn.Close()
	}()

	s.conn.SetReadLimit(maxMessageSize)
	s.conn.SetReadDeadline(time.Now().Add(pongWait))
	s.conn.SetPongHandler(func(string) error {
		return s.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := s.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("[live] error reading from %s: %v", s.id, err)
			}
			return
		}
	}
}

func (h *Hub) writeLoop(s *subscriber) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		s.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-s.send:
			s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				s.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := s.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				log.Printf("[live] error writing to %s: %v", s.id, err)
				return
			}
		case <-ticker.C:
			s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
