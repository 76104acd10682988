package services

import (
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/dev-kani/MERN-FavPlaces-Project-Backend/models"
	"github.com/dev-kani/MERN-FavPlaces-Project-Backend/utils"

	"github.com/gorilla/websocket"
)

// PlaceEvent — событие о создании или удалении места
type PlaceEvent struct {
	Event string        `json:"event"` // "place_created" или "place_deleted"
	Place *models.Place `json:"place"`
}

// WebSocketHandler рассылает события о местах подключённым клиентам
type WebSocketHandler struct {
	Clients map[*websocket.Conn]bool
	mu      sync.Mutex
}

// NewWebSocketHandler создаёт новый обработчик WebSocket
func NewWebSocketHandler() *WebSocketHandler {
	log.Printf("Инициализация нового WebSocketHandler")
	return &WebSocketHandler{
		Clients: make(map[*websocket.Conn]bool),
	}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // В продакшене настрой проверку происхождения
	},
}

// HandleWebSocket обрабатывает WebSocket-соединения.
// Токен передаётся в параметре URL, после проверки клиент получает события о местах
func (h *WebSocketHandler) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	startTime := time.Now()
	log.Printf("Попытка нового WebSocket-соединения с %s", r.RemoteAddr)

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("Ошибка при переходе на WebSocket: %v, удалённый адрес: %s", err, r.RemoteAddr)
		return
	}
	log.Printf("WebSocket-соединение установлено для %s, время: %v", r.RemoteAddr, time.Since(startTime))

	// Извлекаем токен из параметров URL
	token := r.URL.Query().Get("token")
	if token == "" {
		log.Printf("Отсутствует токен в параметрах URL для соединения с %s", r.RemoteAddr)
		if err := conn.WriteJSON(map[string]string{"error": "Токен отсутствует в параметрах URL"}); err != nil {
			log.Printf("Не удалось отправить ошибку отсутствия токена клиенту: %v", err)
		}
		conn.Close()
		return
	}

	// Извлекаем userID из токена
	userID, err := utils.ExtractUserIDFromToken(token)
	if err != nil {
		log.Printf("Ошибка валидации токена для соединения с %s: %v", r.RemoteAddr, err)
		if err := conn.WriteJSON(map[string]string{"error": "Недействительный или истёкший токен"}); err != nil {
			log.Printf("Не удалось отправить ошибку недействительного токена клиенту: %v", err)
		}
		conn.Close()
		return
	}
	log.Printf("Пользователь аутентифицирован, userID: %d", userID)

	// Добавляем клиента в список
	h.mu.Lock()
	h.Clients[conn] = true
	clientCount := len(h.Clients)
	h.mu.Unlock()
	log.Printf("Клиент добавлен, общее количество клиентов: %d", clientCount)

	defer func() {
		h.mu.Lock()
		delete(h.Clients, conn)
		clientCount = len(h.Clients)
		h.mu.Unlock()
		log.Printf("Клиент отключён, осталось клиентов: %d", clientCount)
		conn.Close()
	}()

	// Клиент ничего не отправляет, держим соединение до отключения
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("Неожиданное отключение клиента userID: %d, ошибка: %v", userID, err)
			}
			break
		}
	}
	log.Printf("WebSocket-соединение закрыто для userID: %d, удалённый адрес: %s", userID, r.RemoteAddr)
}

// Broadcast отправляет событие всем подключённым клиентам.
// Доставка не гарантируется: клиент с ошибкой отправки отключается
func (h *WebSocketHandler) Broadcast(event string, place *models.Place) {
	h.mu.Lock()
	defer h.mu.Unlock()

	message := PlaceEvent{Event: event, Place: place}
	for conn := range h.Clients {
		if err := conn.WriteJSON(message); err != nil {
			log.Printf("Ошибка отправки события клиенту: %v", err)
			conn.Close()
			delete(h.Clients, conn)
		}
	}
}
