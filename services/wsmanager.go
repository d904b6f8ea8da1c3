package services

import (
	"log"
	"sync"

	"github.com/gorilla/websocket"
)

// WSConnManager держит открытые WebSocket-соединения пользователей
type WSConnManager struct {
	mu    sync.Mutex
	users map[int64][]*websocket.Conn
}

func NewWSConnManager() *WSConnManager {
	return &WSConnManager{
		users: make(map[int64][]*websocket.Conn),
	}
}

// Add регистрирует соединение. Приветствие (если есть) пишется под тем же мьютексом,
// поэтому клиент, получивший его, уже получит и все последующие события
func (m *WSConnManager) Add(userID int64, conn *websocket.Conn, greeting []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if greeting != nil {
		if err := conn.WriteMessage(websocket.TextMessage, greeting); err != nil {
			return err
		}
	}
	m.users[userID] = append(m.users[userID], conn)
	return nil
}

func (m *WSConnManager) Remove(userID int64, conn *websocket.Conn) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.removeLocked(userID, conn)
}

func (m *WSConnManager) removeLocked(userID int64, conn *websocket.Conn) {
	conns := m.users[userID]
	for i, c := range conns {
		if c == conn {
			m.users[userID] = append(conns[:i:i], conns[i+1:]...)
			break
		}
	}
	if len(m.users[userID]) == 0 {
		delete(m.users, userID)
	}
}

// Send пишет сообщение во все соединения пользователя и возвращает число успешных отправок.
// Соединения с ошибкой записи закрываются. Запись идёт под мьютексом: gorilla не допускает параллельных писателей
func (m *WSConnManager) Send(userID int64, message []byte) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	sent := 0
	for _, conn := range append([]*websocket.Conn(nil), m.users[userID]...) {
		if err := conn.WriteMessage(websocket.TextMessage, message); err != nil {
			log.Printf("ERROR: WebSocket write to user %d failed: %v", userID, err)
			_ = conn.Close()
			m.removeLocked(userID, conn)
			continue
		}
		sent++
	}
	return sent
}

// Count - число открытых соединений пользователя
func (m *WSConnManager) Count(userID int64) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.users[userID])
}

var GlobalWSConnManager = NewWSConnManager()
