package handlers

import (
	"log"
	"net/http"

	"filmorate/services"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// WSFeedHandler - WebSocket endpoint для событий ленты пользователя
func WSFeedHandler(c *gin.Context) {
	userID, ok := pathID(c, "id")
	if !ok {
		return
	}
	if _, err := userService.GetUser(c.Request.Context(), userID); err != nil {
		respondError(c, err)
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Println("WebSocket upgrade error:", err)
		return
	}
	defer conn.Close()

	greeting := []byte(`{"event":"connected","message":"WebSocket connected"}`)
	if err := services.GlobalWSConnManager.Add(userID, conn, greeting); err != nil {
		log.Println("WebSocket greeting error:", err)
		return
	}
	defer services.GlobalWSConnManager.Remove(userID, conn)

	// Входящие сообщения не нужны, читаем только чтобы заметить закрытие
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
}
