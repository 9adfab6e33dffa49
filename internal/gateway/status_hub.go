package gateway

import (
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/ajay26apr/Pest-finder/internal/types"
)

// StatusHub раздает события пайплайна анализа websocket клиентам.
// Медленный клиент теряет события, но не блокирует пайплайн
type StatusHub struct {
	logger   *zap.Logger
	upgrader websocket.Upgrader

	mu      sync.RWMutex
	clients map[string]chan types.StatusEvent
}

// NewStatusHub создает хаб без клиентов
func NewStatusHub(logger *zap.Logger) *StatusHub {
	return &StatusHub{
		logger: logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// страница и API живут на одном origin, CORS закрывает остальное
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		clients: make(map[string]chan types.StatusEvent),
	}
}

// Broadcast отправляет событие всем подключенным клиентам
func (h *StatusHub) Broadcast(stage, message string) {
	event := types.StatusEvent{
		Stage:     stage,
		Message:   message,
		Timestamp: time.Now().Unix(),
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for id, ch := range h.clients {
		select {
		case ch <- event:
		default:
			// канал переполнен: событие для этого клиента пропускается
			h.logger.Debug("status client is slow, dropping event", zap.String("client_id", id))
		}
	}
}

// ClientCount возвращает число подключенных клиентов
func (h *StatusHub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// subscribe регистрирует клиента и возвращает его канал
func (h *StatusHub) subscribe() (string, chan types.StatusEvent) {
	id := uuid.NewString()
	ch := make(chan types.StatusEvent, 16)

	h.mu.Lock()
	h.clients[id] = ch
	h.mu.Unlock()
	return id, ch
}

// unsubscribe удаляет клиента и закрывает его канал
func (h *StatusHub) unsubscribe(id string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if ch, ok := h.clients[id]; ok {
		delete(h.clients, id)
		close(ch)
	}
}

// ServeHTTP апгрейдит соединение и стримит события до отключения клиента
func (h *StatusHub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	id, ch := h.subscribe()
	h.logger.Info("status client connected", zap.String("client_id", id))

	// писатель: события из канала в сокет
	go func() {
		for event := range ch {
			if err := conn.WriteJSON(event); err != nil {
				h.unsubscribe(id)
				break
			}
		}
		conn.Close()
	}()

	// читатель: только для обнаружения закрытия
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}

	h.unsubscribe(id)
	h.logger.Info("status client disconnected", zap.String("client_id", id))
}
